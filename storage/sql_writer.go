package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"complaints-etl/models"
	"complaints-etl/utils"
)

// SQLWriter appends tables to a SQL database with batched multi-row inserts.
type SQLWriter struct {
	db        *sql.DB
	dialect   Dialect
	batchSize int
	logger    *utils.Logger
}

// NewSQLWriter opens a connection for the given dialect, pings it with
// retries and returns a ready-to-use SQLWriter.
func NewSQLWriter(ctx context.Context, dialectName, dsn string, batchSize int, retry *utils.RetryConfig, logger *utils.Logger) (*SQLWriter, error) {
	d, err := LookupDialect(dialectName)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.Name, err)
	}

	if err := retry.Do(ctx, d.Name+" ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}

	return NewSQLWriterFromDB(db, d, batchSize, logger), nil
}

// NewSQLWriterFromDB wraps an already opened database handle.
func NewSQLWriterFromDB(db *sql.DB, d Dialect, batchSize int, logger *utils.Logger) *SQLWriter {
	return &SQLWriter{db: db, dialect: d, batchSize: batchSize, logger: logger}
}

// Write creates the table if it does not exist and appends all its rows.
func (w *SQLWriter) Write(ctx context.Context, table *models.Table) (int, error) {
	if table.Len() == 0 {
		w.logger.Debug("[%s] %s: nothing to write", w.dialect.Name, table.Name)
		return 0, nil
	}
	if len(table.Columns) == 0 {
		return 0, fmt.Errorf("%s: table %s has no columns", w.dialect.Name, table.Name)
	}

	if err := w.ensureTable(ctx, table); err != nil {
		return 0, err
	}

	size := w.rowsPerBatch(len(table.Columns))
	written := 0
	for i := 0; i < table.Len(); i += size {
		end := i + size
		if end > table.Len() {
			end = table.Len()
		}
		if err := w.insertBatch(ctx, table, table.Rows[i:end]); err != nil {
			return written, fmt.Errorf("%s: insert into %s (rows %d-%d): %w",
				w.dialect.Name, table.Name, i, end-1, err)
		}
		written += end - i
	}
	w.logger.Debug("[%s] %s: wrote %d rows", w.dialect.Name, table.Name, written)
	return written, nil
}

// rowsPerBatch caps the configured batch size by the dialect's parameter limit.
func (w *SQLWriter) rowsPerBatch(columns int) int {
	size := w.dialect.MaxParams / columns
	if w.batchSize > 0 && w.batchSize < size {
		size = w.batchSize
	}
	if size < 1 {
		size = 1
	}
	return size
}

func (w *SQLWriter) ensureTable(ctx context.Context, table *models.Table) error {
	_, err := w.db.ExecContext(ctx, CreateTableSQL(w.dialect, table))
	if err != nil {
		return fmt.Errorf("%s: create table %s: %w", w.dialect.Name, table.Name, err)
	}
	return nil
}

// CreateTableSQL builds a CREATE TABLE IF NOT EXISTS statement whose column
// types follow the first non-missing value found in each column.
func CreateTableSQL(d Dialect, table *models.Table) string {
	defs := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		kind := models.KindText
		for _, r := range table.Rows {
			if v := r.Get(c); !v.IsNull() {
				kind = v.Kind
				break
			}
		}
		defs = append(defs, c+" "+d.ColumnType(kind))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.Name, strings.Join(defs, ", "))
}

func (w *SQLWriter) insertBatch(ctx context.Context, table *models.Table, batch []*models.Record) error {
	cols := len(table.Columns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*cols)

	n := 0
	marks := make([]string, cols)
	for _, r := range batch {
		for j, c := range table.Columns {
			n++
			marks[j] = w.dialect.Placeholder(n)
			valueArgs = append(valueArgs, r.Get(c).Any())
		}
		valueStrings = append(valueStrings, "("+strings.Join(marks, ",")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table.Name, strings.Join(table.Columns, ", "), strings.Join(valueStrings, ","))

	_, err := w.db.ExecContext(ctx, query, valueArgs...)
	return err
}

// Count returns the number of rows currently stored in the named table.
func (w *SQLWriter) Count(ctx context.Context, table string) (int, error) {
	var n int
	if err := w.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: count %s: %w", w.dialect.Name, table, err)
	}
	return n, nil
}

func (w *SQLWriter) Close() error {
	return w.db.Close()
}
