package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	src := "\ufeffCMPLNT_NUM,RPT_DT,BORO_NM\n101,01/02/2020,QUEENS\n102,01/03/2020\n"

	rows, err := readRows(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "101", rows[0]["CMPLNT_NUM"])
	assert.Equal(t, "QUEENS", rows[0]["BORO_NM"])
	assert.Equal(t, "", rows[1]["BORO_NM"], "short rows are padded")
}

func TestReadRowsEmpty(t *testing.T) {
	_, err := readRows(strings.NewReader(""))
	assert.Error(t, err)
}

func TestCSVReaderReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "complaints.csv")
	require.NoError(t, os.WriteFile(path, []byte("CMPLNT_NUM,PD_DESC\n7,\"ASSAULT 3, MENACING\"\n"), 0644))

	rows, err := NewCSVReader(path).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ASSAULT 3, MENACING", rows[0]["PD_DESC"])
}

func TestCSVReaderMissingFile(t *testing.T) {
	_, err := NewCSVReader(filepath.Join(t.TempDir(), "nope.csv")).ReadAll()
	assert.Error(t, err)
}
