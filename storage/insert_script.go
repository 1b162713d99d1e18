package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// InsertScriptWriter turns a CSV extract into a text file of INSERT
// statements, one per data row. The first CSV column is an index and is
// skipped in both the header and the rows.
type InsertScriptWriter struct {
	schema string
	outDir string
}

// NewInsertScriptWriter creates a writer targeting tables in schema and
// writing <table>.txt files into outDir.
func NewInsertScriptWriter(schema, outDir string) *InsertScriptWriter {
	return &InsertScriptWriter{schema: schema, outDir: outDir}
}

// Convert reads <table>.csv from path and appends the statements to
// <outDir>/<table>.txt. It returns the number of statements written.
func (w *InsertScriptWriter) Convert(path string) (int, error) {
	table := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	in, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("script: open %q: %w", path, err)
	}
	defer in.Close()

	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return 0, fmt.Errorf("script: create output dir: %w", err)
	}
	outPath := filepath.Join(w.outDir, table+".txt")
	out, err := os.OpenFile(outPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("script: open %q: %w", outPath, err)
	}
	defer out.Close()

	buf := bufio.NewWriter(out)
	n, err := w.write(table, in, buf)
	if err != nil {
		return n, err
	}
	if err := buf.Flush(); err != nil {
		return n, fmt.Errorf("script: flush %q: %w", outPath, err)
	}
	return n, nil
}

func (w *InsertScriptWriter) write(table string, src io.Reader, dst io.Writer) (int, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("script: %s: read header: %w", table, err)
	}
	prefix := InsertPrefix(w.schema, table, dropFirst(header))

	n := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("script: %s: read row %d: %w", table, n+1, err)
		}
		if _, err := io.WriteString(dst, prefix+ValuesClause(dropFirst(row))+";\n"); err != nil {
			return n, fmt.Errorf("script: %s: write: %w", table, err)
		}
		n++
	}
}

// InsertPrefix renders "INSERT INTO schema.table(c1, c2) ".
func InsertPrefix(schema, table string, columns []string) string {
	return "INSERT INTO " + schema + "." + table + "(" + strings.Join(columns, ", ") + ") "
}

// ValuesClause renders `VALUES ("a", null) ` for one row. Blank cells become
// null; single quotes are doubled; backticks and double quotes are removed.
func ValuesClause(row []string) string {
	vals := make([]string, len(row))
	for i, v := range row {
		if strings.TrimSpace(v) == "" {
			vals[i] = "null"
			continue
		}
		vals[i] = `"` + escapeValue(v) + `"`
	}
	return "VALUES (" + strings.Join(vals, ", ") + ") "
}

func escapeValue(v string) string {
	if !strings.ContainsAny(v, "'`\"") {
		return v
	}
	var b strings.Builder
	b.Grow(len(v) + 4)
	for _, ch := range v {
		switch ch {
		case '\'':
			b.WriteString("''")
		case '`', '"':
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func dropFirst(s []string) []string {
	if len(s) == 0 {
		return s
	}
	return s[1:]
}
