package storage

import (
	"context"

	"complaints-etl/models"
)

// TableWriter is the interface any persistence backend must satisfy.
// Write appends the table's rows and returns how many were written.
type TableWriter interface {
	Write(ctx context.Context, table *models.Table) (int, error)
	Close() error
}

// RowReader yields raw rows keyed by header name.
type RowReader interface {
	ReadAll() ([]map[string]string, error)
}
