package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"complaints-etl/models"
	"complaints-etl/utils"
)

// ReportService summarizes a complaints load.
type ReportService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewReportService(logger *utils.Logger, out io.Writer) *ReportService {
	return &ReportService{logger: logger, out: out}
}

// Generate builds a report from the raw/sampled counts and the written tables.
func (s *ReportService) Generate(read, sampled, dropped int, tables []*models.Table, stats *models.CollapseStats) *models.RunReport {
	report := &models.RunReport{
		RowsRead:    read,
		RowsSampled: sampled,
		RowsDropped: dropped,
		TableCounts: make(map[string]int, len(tables)),
		Collapse:    stats,
	}
	for _, t := range tables {
		report.TableOrder = append(report.TableOrder, t.Name)
		report.TableCounts[t.Name] = t.Len()
	}
	s.logger.Debug("[report] %d tables, %d rows read, %d sampled", len(tables), read, sampled)
	return report
}

func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	w := s.out

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  NYPD COMPLAINT LOAD SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Input\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Rows read              : \033[1m%d\033[0m\n", r.RowsRead)
	fmt.Fprintf(w, "  Rows sampled           : \033[1m%d\033[0m\n", r.RowsSampled)
	fmt.Fprintf(w, "  Rows with unusable key : \033[1m%d\033[0m\n", r.RowsDropped)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Tables\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, name := range r.TableOrder {
		fmt.Fprintf(w, "  %-22s : %d\n", name, r.TableCounts[name])
	}
	fmt.Fprintln(w)

	if c := r.Collapse; c != nil {
		fmt.Fprintf(w, "\033[1;33m  Incident Deduplication\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  Groups                 : %d\n", c.Groups)
		fmt.Fprintf(w, "  Collapsed groups       : %d\n", c.CollapsedGroups)
		fmt.Fprintf(w, "  Rows removed           : %d\n", c.RowsRemoved)
		if len(c.Conflicts) == 0 {
			fmt.Fprintf(w, "  No conflicting values\n")
		} else {
			cols := make([]string, 0, len(c.Conflicts))
			for col := range c.Conflicts {
				cols = append(cols, col)
			}
			sort.Slice(cols, func(i, j int) bool {
				if c.Conflicts[cols[i]] != c.Conflicts[cols[j]] {
					return c.Conflicts[cols[i]] > c.Conflicts[cols[j]]
				}
				return cols[i] < cols[j]
			})
			fmt.Fprintf(w, "  Conflicting values (first kept):\n")
			for _, col := range cols {
				fmt.Fprintf(w, "    %-20s \033[1;31m%d\033[0m\n", col, c.Conflicts[col])
			}
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}
