package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"complaints-etl/models"
	"complaints-etl/utils"
)

var (
	ageGroups     = []string{"<18", "18-24", "25-44", "45-64", "65+", "UNKNOWN"}
	sexCategories = []string{"M", "F"}
)

// TableOrder is the order in which normalized tables are persisted. Lookup
// tables come before the incident table that references them.
var TableOrder = []string{
	"agency", "borough", "crime", "development", "offense", "park",
	"premises", "coordinate", "incident", "suspect", "victim",
}

// Normalizer splits sampled complaint rows into the relational tables.
type Normalizer struct {
	cleaner *Cleaner
	logger  *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{cleaner: NewCleaner(logger), logger: logger}
}

// Build produces every table in TableOrder. The incident table is collapsed
// on IncidentKey; its stats are returned alongside.
func (n *Normalizer) Build(ctx context.Context, raw []map[string]string) ([]*models.Table, *models.CollapseStats, error) {
	builders := map[string]func([]map[string]string) *models.Table{
		"agency":      agencyTable,
		"borough":     boroughTable,
		"crime":       crimeTable,
		"development": developmentTable,
		"offense":     offenseTable,
		"park":        parkTable,
		"premises":    premisesTable,
		"coordinate":  coordinateTable,
		"suspect":     suspectTable,
		"victim":      victimTable,
	}

	tables := make(map[string]*models.Table, len(TableOrder))
	results := make(chan *models.Table, len(builders)+1)
	g, ctx := errgroup.WithContext(ctx)

	for name, build := range builders {
		name, build := name, build
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n.logger.Info("[normalizer] Generating %s table", name)
			results <- build(raw)
			return nil
		})
	}

	var stats *models.CollapseStats
	g.Go(func() error {
		n.logger.Info("[normalizer] Generating incident table")
		t, s, err := n.incidentTable(raw)
		if err != nil {
			return err
		}
		stats = s
		results <- t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("normalizer: %w", err)
	}
	close(results)
	for t := range results {
		tables[t.Name] = t
	}

	ordered := make([]*models.Table, 0, len(TableOrder))
	for _, name := range TableOrder {
		ordered = append(ordered, tables[name])
	}
	return ordered, stats, nil
}

func (n *Normalizer) incidentTable(raw []map[string]string) (*models.Table, *models.CollapseStats, error) {
	rows := n.cleaner.Clean(raw)

	n.logger.Info("[normalizer] Resolving duplicate incidents")
	collapsed, stats, err := Collapse(rows, IncidentKey)
	if err != nil {
		return nil, nil, fmt.Errorf("incident: %w", err)
	}
	if stats.CollapsedGroups > 0 {
		n.logger.Info("[normalizer] Collapsed %d duplicate groups (%d rows removed)",
			stats.CollapsedGroups, stats.RowsRemoved)
	}
	for col, c := range stats.Conflicts {
		n.logger.Warn("[normalizer] %d incident groups had conflicting %s values; kept the first", c, col)
	}

	return &models.Table{Name: "incident", Columns: IncidentColumns, Rows: collapsed}, stats, nil
}

func agencyTable(raw []map[string]string) *models.Table {
	t := project("agency", raw, func(r map[string]string) *models.Record {
		return models.NewRecord().
			Set("name", parseText(r[colAgency])).
			Set("code", parseInt(r[colAgencyCode]))
	})
	return distinctOn(t, "name")
}

func boroughTable(raw []map[string]string) *models.Table {
	t := project("borough", raw, func(r map[string]string) *models.Record {
		return models.NewRecord().Set("name", parseText(r[colBorough]))
	})
	return dropMissing(distinctOn(t), "name")
}

// crimeTable keeps the first description seen for each code; rows without a
// code never carry a description and are dropped.
func crimeTable(raw []map[string]string) *models.Table {
	t := project("crime", raw, func(r map[string]string) *models.Record {
		return models.NewRecord().
			Set("code", parseInt(r[colCrimeCode])).
			Set("description", parseText(r[colCrimeDesc]))
	})
	return dropMissing(distinctOn(t, "code"), "code")
}

// developmentTable keeps distinct (name, code) pairs; the mapping is m:m and
// rows missing either side are dropped rather than filled.
func developmentTable(raw []map[string]string) *models.Table {
	t := project("development", raw, func(r map[string]string) *models.Record {
		return models.NewRecord().
			Set("name", parseText(r[colDevelopment])).
			Set("code", parseInt(r[colHousingPSA]))
	})
	return dropMissing(distinctOn(t), "code", "name")
}

func offenseTable(raw []map[string]string) *models.Table {
	t := project("offense", raw, func(r map[string]string) *models.Record {
		return models.NewRecord().
			Set("code", parseInt(r[colOffenseCode])).
			Set("description", parseText(r[colOffenseDesc]))
	})
	return distinctOn(t, "code")
}

func parkTable(raw []map[string]string) *models.Table {
	t := project("park", raw, func(r map[string]string) *models.Record {
		return models.NewRecord().Set("name", parseText(r[colPark]))
	})
	return dropMissing(distinctOn(t), "name")
}

func premisesTable(raw []map[string]string) *models.Table {
	t := project("premises", raw, func(r map[string]string) *models.Record {
		return models.NewRecord().Set("location", parseText(r[colPremisesLoc]))
	})
	return dropMissing(distinctOn(t), "location")
}

func coordinateTable(raw []map[string]string) *models.Table {
	t := project("coordinate", raw, func(r map[string]string) *models.Record {
		return models.NewRecord().
			Set("latitude", parseCoordinate(r[colLatitude])).
			Set("longitude", parseCoordinate(r[colLongitude]))
	})
	return distinctOn(dropMissing(t, "latitude", "longitude"))
}

func suspectTable(raw []map[string]string) *models.Table {
	return personTable("suspect", raw, colSuspAge, colSuspSex, colSuspRace)
}

// victimTable uses the same categories as suspects; victim sex codes such as
// E, D and U are undocumented and become missing.
func victimTable(raw []map[string]string) *models.Table {
	return personTable("victim", raw, colVicAge, colVicSex, colVicRace)
}

// personTable builds a weak entity keyed by incident number. Rows that are
// entirely missing are skipped; unknown age groups and sexes become missing.
func personTable(name string, raw []map[string]string, ageCol, sexCol, raceCol string) *models.Table {
	t := &models.Table{Name: name, Columns: []string{"incident_number", "age", "sex", "race"}}
	for _, r := range raw {
		rec := models.NewRecord().
			Set("incident_number", parseInt(r[colNumber])).
			Set("age", parseText(r[ageCol])).
			Set("sex", parseText(r[sexCol])).
			Set("race", parseText(r[raceCol]))
		if rec.AllNull() {
			continue
		}
		rec.Set("age", onlyKnown(rec.Get("age"), ageGroups))
		rec.Set("sex", onlyKnown(rec.Get("sex"), sexCategories))
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func onlyKnown(v models.Value, known []string) models.Value {
	if v.IsNull() {
		return v
	}
	for _, k := range known {
		if v.Text == k {
			return v
		}
	}
	return models.Null()
}

func project(name string, raw []map[string]string, row func(map[string]string) *models.Record) *models.Table {
	t := &models.Table{Name: name, Rows: make([]*models.Record, 0, len(raw))}
	for _, r := range raw {
		rec := row(r)
		if t.Columns == nil {
			t.Columns = rec.Columns()
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

// distinctOn keeps the first row for each distinct combination of cols;
// with no cols every column is compared.
func distinctOn(t *models.Table, cols ...string) *models.Table {
	if len(cols) == 0 {
		cols = t.Columns
	}
	seen := utils.NewKeySet()
	out := &models.Table{Name: t.Name, Columns: t.Columns}
	for _, r := range t.Rows {
		if seen.Add(rowKey(r, cols)) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// dropMissing removes rows missing a value in any of cols.
func dropMissing(t *models.Table, cols ...string) *models.Table {
	out := &models.Table{Name: t.Name, Columns: t.Columns}
	for _, r := range t.Rows {
		keep := true
		for _, c := range cols {
			if r.Get(c).IsNull() {
				keep = false
				break
			}
		}
		if keep {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func rowKey(r *models.Record, cols []string) string {
	var b strings.Builder
	for _, c := range cols {
		writeKeyPart(&b, r.Get(c))
	}
	return b.String()
}
