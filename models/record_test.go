package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordKeepsInsertionOrder(t *testing.T) {
	r := NewRecord().Set("b", Int(1)).Set("a", Null()).Set("b", Int(2))

	assert.Equal(t, []string{"b", "a"}, r.Columns())
	assert.Equal(t, int64(2), r.Get("b").Int)
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("c"))
	assert.True(t, r.Get("c").IsNull())
}

func TestRecordCloneIsIndependent(t *testing.T) {
	r := NewRecord().Set("status", Text("COMPLETED"))
	c := r.Clone()
	c.Set("status", Null()).Set("extra", Int(1))

	assert.Equal(t, "COMPLETED", r.Get("status").Text)
	assert.Equal(t, 1, r.Len())
	assert.False(t, r.Equal(c))
}

func TestRecordAllNull(t *testing.T) {
	assert.True(t, NewRecord().Set("a", Null()).Set("b", Null()).AllNull())
	assert.False(t, NewRecord().Set("a", Null()).Set("b", Text("")).AllNull())
}

func TestValueDistinguishesMissingFromZero(t *testing.T) {
	assert.False(t, Int(0).IsNull())
	assert.False(t, Text("").IsNull())
	assert.False(t, Int(0).Equal(Null()))
	assert.True(t, Null().Equal(Value{}))
	assert.False(t, Int(1).Equal(Text("1")))
}

func TestValueRendering(t *testing.T) {
	ts := time.Date(2020, 1, 2, 17, 40, 5, 0, time.UTC)

	assert.Equal(t, "2020-01-02", Date(ts).String())
	assert.Equal(t, "17:40:05", Clock(ts).String())
	assert.Equal(t, "40.12345679", Float(40.123456789, 8).String())
	assert.Equal(t, "", Null().String())
	assert.Nil(t, Null().Any())
	assert.Equal(t, int64(7), Int(7).Any())
	assert.Equal(t, "2020-01-02", Date(ts).Any())
}

func TestDateEqualityIgnoresTimeOfDay(t *testing.T) {
	a := Date(time.Date(2020, 1, 2, 1, 0, 0, 0, time.UTC))
	b := Date(time.Date(2020, 1, 2, 23, 0, 0, 0, time.UTC))
	assert.True(t, a.Equal(b))
}

func TestCollapseStatsTotalConflicts(t *testing.T) {
	s := &CollapseStats{Conflicts: map[string]int{"status": 2, "crime": 3}}
	assert.Equal(t, 5, s.TotalConflicts())
}

func TestZeroRecordIsUsable(t *testing.T) {
	var r Record
	r.Set("number", Int(1))

	assert.Equal(t, []string{"number"}, r.Columns())
	assert.Equal(t, int64(1), r.Get("number").Int)
}
