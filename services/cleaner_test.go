package services

import (
	"testing"

	"complaints-etl/models"
	"complaints-etl/utils"
)

func newTestLogger() *utils.Logger { return utils.Discard() }

func TestCleanerParseInt(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Value
	}{
		{"101", models.Int(101)},
		{" 42 ", models.Int(42)},
		{"1,234", models.Int(1234)},
		{"75.0", models.Int(75)},
		{"75.5", models.Null()},
		{"", models.Null()},
		{"N/A", models.Null()},
		{"1e20", models.Null()},
		{"9223372036854775808", models.Null()},
		{"-1e19", models.Null()},
		{"9223372036854775807", models.Int(9223372036854775807)},
	}

	for _, tt := range tests {
		if got := parseInt(tt.raw); !got.Equal(tt.want) {
			t.Errorf("parseInt(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12/31/2019", "2019-12-31"},
		{"01/02/2020", "2020-01-02"},
		{"02/30/2020", ""},
		{"1015-12-01", ""},
		{"", ""},
	}

	for _, tt := range tests {
		got := parseDate(tt.raw)
		if got.String() != tt.want {
			t.Errorf("parseDate(%q) = %q; want %q", tt.raw, got.String(), tt.want)
		}
		if tt.want != "" && got.Kind != models.KindDate {
			t.Errorf("parseDate(%q) kind = %v; want date", tt.raw, got.Kind)
		}
	}
}

func TestCleanerParseTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"17:40:00", "17:40:00"},
		{"00:01:30", "00:01:30"},
		{"24:00:00", ""},
		{"5pm", ""},
	}

	for _, tt := range tests {
		if got := parseTime(tt.raw).String(); got != tt.want {
			t.Errorf("parseTime(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerParseCoordinate(t *testing.T) {
	got := parseCoordinate("40.828848333000046")
	if got.Float != 40.82884833 {
		t.Errorf("latitude rounded to %v; want 40.82884833", got.Float)
	}
	if got.String() != "40.82884833" {
		t.Errorf("latitude rendered as %q", got.String())
	}
	if !parseCoordinate("").IsNull() {
		t.Error("empty coordinate should be missing")
	}
}

func TestCleanerNormalisesText(t *testing.T) {
	if got := parseText("  RESIDENCE -   APT. HOUSE "); got.Text != "RESIDENCE - APT. HOUSE" {
		t.Errorf("parseText = %q", got.Text)
	}
	if !parseText("   ").IsNull() {
		t.Error("blank text should be missing")
	}
}

func TestCleanerDropsUnusableKeys(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []map[string]string{
		{colNumber: "1", colReportDate: "01/01/2020"},
		{colNumber: "", colReportDate: "01/01/2020"},
		{colNumber: "3", colReportDate: "not a date"},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 incident after dropping bad keys, got %d", len(cleaned))
	}
	if cleaned[0].Get("number").Int != 1 {
		t.Errorf("kept the wrong row: %v", cleaned[0].Get("number"))
	}
}

func TestCleanerDropsOutOfRangeNumbers(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []map[string]string{
		{colNumber: "1e20", colReportDate: "01/01/2020"},
		{colNumber: "-1e19", colReportDate: "01/01/2020"},
	}

	if cleaned := c.Clean(raw); len(cleaned) != 0 {
		t.Errorf("expected out-of-range complaint numbers to be dropped, got %d rows", len(cleaned))
	}
}

func TestIncidentRecordColumns(t *testing.T) {
	rec := IncidentRecord(map[string]string{colNumber: "9", colReportDate: "03/04/2021", colStatus: "COMPLETED"})

	cols := rec.Columns()
	if len(cols) != len(IncidentColumns) {
		t.Fatalf("got %d columns, want %d", len(cols), len(IncidentColumns))
	}
	for i := range cols {
		if cols[i] != IncidentColumns[i] {
			t.Errorf("column %d: got %q, want %q", i, cols[i], IncidentColumns[i])
		}
	}
	if rec.Get("status").Text != "COMPLETED" {
		t.Errorf("status: got %q", rec.Get("status").Text)
	}
	if !rec.Get("precinct").IsNull() {
		t.Error("absent raw columns should be missing")
	}
}
