package models

// Record is an ordered mapping from column name to a nullable Value.
// Columns keep the order in which they were first set. The zero value is an
// empty record ready to use.
type Record struct {
	columns []string
	values  map[string]Value
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set stores v under col, appending col to the column order if it is new.
func (r *Record) Set(col string, v Value) *Record {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[col]; !ok {
		r.columns = append(r.columns, col)
	}
	r.values[col] = v
	return r
}

// Get returns the value stored under col; absent columns read as missing.
func (r *Record) Get(col string) Value {
	return r.values[col]
}

// Has reports whether col has been set on the record, even to a missing value.
func (r *Record) Has(col string) bool {
	_, ok := r.values[col]
	return ok
}

// Columns returns a copy of the column order.
func (r *Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns.
func (r *Record) Len() int { return len(r.columns) }

// AllNull reports whether every column of the record is missing.
func (r *Record) AllNull() bool {
	for _, c := range r.columns {
		if !r.values[c].IsNull() {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		columns: r.Columns(),
		values:  make(map[string]Value, len(r.values)),
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether both records have the same columns in the same
// order holding equal values.
func (r *Record) Equal(o *Record) bool {
	if len(r.columns) != len(o.columns) {
		return false
	}
	for i, c := range r.columns {
		if o.columns[i] != c || !r.values[c].Equal(o.values[c]) {
			return false
		}
	}
	return true
}

// Table is a named set of records bound for persistence.
type Table struct {
	Name    string
	Columns []string
	Rows    []*Record
}

// Len returns the number of rows in the table.
func (t *Table) Len() int { return len(t.Rows) }
