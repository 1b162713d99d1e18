package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"complaints-etl/models"
)

func TestReportGenerate(t *testing.T) {
	s := NewReportService(newTestLogger(), &bytes.Buffer{})
	tables := []*models.Table{
		{Name: "borough", Rows: []*models.Record{models.NewRecord(), models.NewRecord()}},
		{Name: "park"},
	}

	r := s.Generate(10, 8, 1, tables, &models.CollapseStats{})
	assert.Equal(t, []string{"borough", "park"}, r.TableOrder)
	assert.Equal(t, 2, r.TableCounts["borough"])
	assert.Equal(t, 0, r.TableCounts["park"])
	assert.Equal(t, 1, r.RowsDropped)
}

func TestReportPrintsConflicts(t *testing.T) {
	var out bytes.Buffer
	s := NewReportService(newTestLogger(), &out)

	s.Print(&models.RunReport{
		TableOrder:  []string{"incident"},
		TableCounts: map[string]int{"incident": 5},
		Collapse: &models.CollapseStats{
			Groups:          5,
			CollapsedGroups: 1,
			Conflicts:       map[string]int{"status": 2, "crime": 1},
		},
	})

	text := out.String()
	assert.Contains(t, text, "Conflicting values")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("status")), bytes.Index(out.Bytes(), []byte("crime")))
}
