package models

import (
	"math"
	"strconv"
	"time"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindText
	KindDate
	KindTime
	KindFloat
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindFloat:
		return "float"
	default:
		return "null"
	}
}

// Value is a nullable scalar cell. The zero Value is missing.
type Value struct {
	Kind      Kind
	Int       int64
	Text      string
	Time      time.Time
	Float     float64
	Precision int
}

// Null returns a missing value.
func Null() Value { return Value{} }

func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Date keeps only the calendar day of t.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{Kind: KindDate, Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Clock keeps only the time of day of t.
func Clock(t time.Time) Value {
	return Value{Kind: KindTime, Time: time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

// Float rounds f to the given number of decimal places.
func Float(f float64, precision int) Value {
	return Value{Kind: KindFloat, Float: Round(f, precision), Precision: precision}
}

// Round rounds half away from zero to the given number of decimal places.
func Round(f float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(f*p) / p
}

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Equal compares kind and payload. Two missing values are equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindInt:
		return v.Int == o.Int
	case KindText:
		return v.Text == o.Text
	case KindDate, KindTime:
		return v.Time.Equal(o.Time)
	case KindFloat:
		return v.Float == o.Float
	}
	return false
}

// String renders the value the way it is written to CSV and SQL scripts.
// Missing values render as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindText:
		return v.Text
	case KindDate:
		return v.Time.Format(DateLayout)
	case KindTime:
		return v.Time.Format(TimeLayout)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', v.Precision, 64)
	}
	return ""
}

// Any returns the value as a database/sql argument; missing becomes nil.
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindText:
		return v.Text
	case KindDate, KindTime:
		return v.String()
	case KindFloat:
		return v.Float
	}
	return nil
}
