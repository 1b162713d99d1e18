package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"complaints-etl/models"
)

var (
	// ErrInvalidConfiguration is returned when Collapse is given no key columns.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrPreconditionViolation is returned when a record has a missing key value.
	ErrPreconditionViolation = errors.New("precondition violation")
)

type group struct {
	rows []*models.Record
}

// Collapse merges records sharing the same values in keyColumns into one
// record each. For every non-key column the first non-missing value in row
// order wins; a column that is missing in every row stays missing.
//
// Singleton groups are returned as the same *Record, followed by the
// collapsed groups in first-seen key order. Input records are never mutated.
//
// Key values must be present on every record. Values of different kinds in
// the same column are not reconciled: the first non-missing one is kept.
func Collapse(records []*models.Record, keyColumns []string) ([]*models.Record, *models.CollapseStats, error) {
	if len(keyColumns) == 0 {
		return nil, nil, fmt.Errorf("collapse: no key columns: %w", ErrInvalidConfiguration)
	}

	isKey := make(map[string]bool, len(keyColumns))
	for _, k := range keyColumns {
		isKey[k] = true
	}

	stats := &models.CollapseStats{
		InputRows: len(records),
		Conflicts: make(map[string]int),
	}

	index := make(map[string]int)
	var groups []*group
	for i, r := range records {
		k, err := groupKey(r, keyColumns)
		if err != nil {
			return nil, nil, fmt.Errorf("collapse: row %d: %w", i, err)
		}
		if gi, ok := index[k]; ok {
			groups[gi].rows = append(groups[gi].rows, r)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, &group{rows: []*models.Record{r}})
	}
	stats.Groups = len(groups)

	out := make([]*models.Record, 0, len(groups))
	var merged []*models.Record
	for _, g := range groups {
		if len(g.rows) == 1 {
			stats.SingletonGroups++
			out = append(out, g.rows[0])
			continue
		}
		stats.CollapsedGroups++
		stats.RowsRemoved += len(g.rows) - 1
		merged = append(merged, collapseGroup(g.rows, keyColumns, isKey, stats.Conflicts))
	}

	return append(out, merged...), stats, nil
}

func groupKey(r *models.Record, keyColumns []string) (string, error) {
	var b strings.Builder
	for _, c := range keyColumns {
		v := r.Get(c)
		if v.IsNull() {
			return "", fmt.Errorf("key column %q is missing: %w", c, ErrPreconditionViolation)
		}
		writeKeyPart(&b, v)
	}
	return b.String(), nil
}

// writeKeyPart appends kind, length and payload of v so that no two distinct
// value sequences render to the same key. Floats use their shortest exact
// form rather than the display precision.
func writeKeyPart(b *strings.Builder, v models.Value) {
	s := v.String()
	if v.Kind == models.KindFloat {
		s = strconv.FormatFloat(v.Float, 'g', -1, 64)
	}
	fmt.Fprintf(b, "%s:%d:%s;", v.Kind, len(s), s)
}

func collapseGroup(rows []*models.Record, keyColumns []string, isKey map[string]bool, conflicts map[string]int) *models.Record {
	first := rows[0]
	out := models.NewRecord()
	for _, k := range keyColumns {
		out.Set(k, first.Get(k))
	}

	for _, c := range unionColumns(rows) {
		if isKey[c] {
			continue
		}
		chosen := models.Null()
		conflict := false
		for _, r := range rows {
			v := r.Get(c)
			if v.IsNull() {
				continue
			}
			if chosen.IsNull() {
				chosen = v
			} else if !chosen.Equal(v) {
				conflict = true
			}
		}
		if conflict {
			conflicts[c]++
		}
		out.Set(c, chosen)
	}
	return reorder(out, first.Columns())
}

// unionColumns lists every column seen in the group, first-seen order.
func unionColumns(rows []*models.Record) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range rows {
		for _, c := range r.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// reorder lays out r's columns in the order of the group's first row, with
// any columns the first row lacks appended at the end.
func reorder(r *models.Record, order []string) *models.Record {
	out := models.NewRecord()
	for _, c := range order {
		if r.Has(c) {
			out.Set(c, r.Get(c))
		}
	}
	for _, c := range r.Columns() {
		if !out.Has(c) {
			out.Set(c, r.Get(c))
		}
	}
	return out
}
