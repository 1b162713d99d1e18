package services

import "math/rand"

// SampleSeed fixes the sample so repeated runs load the same rows.
const SampleSeed = 123

// Sample returns n rows chosen uniformly without replacement using a fixed
// seed. When n <= 0 or n >= len(rows) all rows are returned in order.
func Sample[T any](rows []T, n int) []T {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	rng := rand.New(rand.NewSource(SampleSeed))
	out := make([]T, 0, n)
	for _, i := range rng.Perm(len(rows))[:n] {
		out = append(out, rows[i])
	}
	return out
}
