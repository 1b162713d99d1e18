package storage

import (
	"fmt"
	"strconv"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"complaints-etl/models"
)

// Dialect captures the differences between the supported SQL backends.
type Dialect struct {
	Name       string
	DriverName string
	// MaxParams is the largest number of bind parameters per statement.
	MaxParams   int
	placeholder func(n int) string
	types       map[models.Kind]string
}

// Placeholder returns the n-th (1-based) bind parameter marker.
func (d Dialect) Placeholder(n int) string { return d.placeholder(n) }

// ColumnType returns the column type used for values of kind k.
func (d Dialect) ColumnType(k models.Kind) string {
	if t, ok := d.types[k]; ok {
		return t
	}
	return d.types[models.KindText]
}

func question(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }

var dialects = map[string]Dialect{
	"postgres": {
		Name:        "postgres",
		DriverName:  "postgres",
		MaxParams:   65535,
		placeholder: dollar,
		types: map[models.Kind]string{
			models.KindInt:   "BIGINT",
			models.KindText:  "TEXT",
			models.KindDate:  "DATE",
			models.KindTime:  "TIME",
			models.KindFloat: "DOUBLE PRECISION",
		},
	},
	"mysql": {
		Name:        "mysql",
		DriverName:  "mysql",
		MaxParams:   65535,
		placeholder: question,
		types: map[models.Kind]string{
			models.KindInt:   "BIGINT",
			models.KindText:  "TEXT",
			models.KindDate:  "DATE",
			models.KindTime:  "TIME",
			models.KindFloat: "DOUBLE",
		},
	},
	"sqlite": {
		Name:        "sqlite",
		DriverName:  "sqlite",
		MaxParams:   32766,
		placeholder: question,
		types: map[models.Kind]string{
			models.KindInt:   "INTEGER",
			models.KindText:  "TEXT",
			models.KindDate:  "TEXT",
			models.KindTime:  "TEXT",
			models.KindFloat: "REAL",
		},
	},
}

// LookupDialect returns the dialect registered under name.
func LookupDialect(name string) (Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return Dialect{}, fmt.Errorf("storage: unsupported dialect %q", name)
	}
	return d, nil
}
