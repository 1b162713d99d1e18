package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaints-etl/storage"
)

func TestScriptServiceConvertDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sql")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "host.csv"),
		[]byte(",host_id,host_name\n0,1,Ann\n1,2,Bo\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ratings.csv"),
		[]byte(",listing_id,score\n0,9,4.5\n"), 0644))

	svc := NewScriptService(storage.NewInsertScriptWriter("tmp_airbnb", out), 2, newTestLogger())
	counts, err := svc.ConvertDir(dir, AirbnbTables)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"host": 2, "ratings": 1}, counts)

	got, err := os.ReadFile(filepath.Join(out, "ratings.txt"))
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO tmp_airbnb.ratings(listing_id, score) VALUES (\"9\", \"4.5\") ;\n", string(got))
	assert.NoFileExists(t, filepath.Join(out, "listing.txt"))
}

func TestScriptServiceReportsBadCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "host.csv"),
		[]byte(",a,b\n0,\"unterminated\n"), 0644))

	svc := NewScriptService(storage.NewInsertScriptWriter("tmp_airbnb", dir), 1, newTestLogger())
	_, err := svc.ConvertDir(dir, []string{"host"})
	assert.Error(t, err)
}

func TestScriptServiceDoesNotCarryErrorsAcrossCalls(t *testing.T) {
	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "host.csv"),
		[]byte(",a,b\n0,\"unterminated\n"), 0644))
	good := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(good, "host.csv"),
		[]byte(",a\n0,1\n"), 0644))

	svc := NewScriptService(storage.NewInsertScriptWriter("tmp_airbnb", t.TempDir()), 1, newTestLogger())
	_, err := svc.ConvertDir(bad, []string{"host"})
	require.Error(t, err)

	counts, err := svc.ConvertDir(good, []string{"host"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"host": 1}, counts)
}
