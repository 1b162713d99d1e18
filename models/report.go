package models

// CollapseStats describes one run of the incident collapser.
type CollapseStats struct {
	InputRows       int
	Groups          int
	SingletonGroups int
	CollapsedGroups int
	RowsRemoved     int
	// Conflicts counts, per column, the groups in which more than one
	// distinct non-missing value existed. Only the first one is kept.
	Conflicts map[string]int
}

// TotalConflicts sums Conflicts over all columns.
func (s *CollapseStats) TotalConflicts() int {
	n := 0
	for _, c := range s.Conflicts {
		n += c
	}
	return n
}

// RunReport holds the summary of a complaints load.
type RunReport struct {
	RowsRead    int
	RowsSampled int
	RowsDropped int
	TableCounts map[string]int
	TableOrder  []string
	Collapse    *CollapseStats
}
