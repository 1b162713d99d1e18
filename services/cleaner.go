package services

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"complaints-etl/models"
	"complaints-etl/utils"
)

// Raw column names in the NYPD complaint extract.
const (
	colNumber          = "CMPLNT_NUM"
	colStartDate       = "CMPLNT_FR_DT"
	colStartTime       = "CMPLNT_FR_TM"
	colEndDate         = "CMPLNT_TO_DT"
	colEndTime         = "CMPLNT_TO_TM"
	colReportDate      = "RPT_DT"
	colPrecinct        = "ADDR_PCT_CD"
	colTransitDistrict = "TRANSIT_DISTRICT"
	colCrimeCode       = "PD_CD"
	colCrimeDesc       = "PD_DESC"
	colOffenseCode     = "KY_CD"
	colOffenseDesc     = "OFNS_DESC"
	colStatus          = "CRM_ATPT_CPTD_CD"
	colClassification  = "LAW_CAT_CD"
	colPremisesType    = "PREM_TYP_DESC"
	colPremisesLoc     = "LOC_OF_OCCUR_DESC"
	colPatrolBorough   = "PATROL_BORO"
	colStationName     = "STATION_NAME"
	colPark            = "PARKS_NM"
	colDevelopment     = "HADEVELOPT"
	colHousingPSA      = "HOUSING_PSA"
	colAgency          = "JURIS_DESC"
	colAgencyCode      = "JURISDICTION_CODE"
	colBorough         = "BORO_NM"
	colLatitude        = "Latitude"
	colLongitude       = "Longitude"
	colSuspAge         = "SUSP_AGE_GROUP"
	colSuspSex         = "SUSP_SEX"
	colSuspRace        = "SUSP_RACE"
	colVicAge          = "VIC_AGE_GROUP"
	colVicSex          = "VIC_SEX"
	colVicRace         = "VIC_RACE"
)

const (
	rawDateLayout = "01/02/2006"
	rawTimeLayout = "15:04:05"
	// CoordinatePrecision is the number of decimals kept for lat/lon.
	CoordinatePrecision = 8
)

// IncidentColumns is the column order of the incident table.
var IncidentColumns = []string{
	"number", "start_date", "end_date", "report_date", "start_time", "end_time",
	"precinct", "transit_district", "crime", "status", "classification",
	"premises_type", "patrol_borough", "station_name", "park",
	"development_name", "development_code", "agency", "latitude", "longitude",
}

// IncidentKey identifies one reported incident.
var IncidentKey = []string{"number", "report_date"}

// Cleaner coerces raw complaint rows into typed incident records.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts raw rows into incident records. Rows whose complaint number
// or report date cannot be parsed are dropped, so every returned record has
// a complete IncidentKey.
func (c *Cleaner) Clean(raw []map[string]string) []*models.Record {
	result := make([]*models.Record, 0, len(raw))

	for i, r := range raw {
		rec := IncidentRecord(r)
		if rec.Get("number").IsNull() || rec.Get("report_date").IsNull() {
			c.logger.Warn("[cleaner] Dropping row %d with unusable key: number=%q report_date=%q",
				i, r[colNumber], r[colReportDate])
			continue
		}
		result = append(result, rec)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d incident rows (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// IncidentRecord maps one raw row onto the incident columns.
func IncidentRecord(r map[string]string) *models.Record {
	return models.NewRecord().
		Set("number", parseInt(r[colNumber])).
		Set("start_date", parseDate(r[colStartDate])).
		Set("end_date", parseDate(r[colEndDate])).
		Set("report_date", parseDate(r[colReportDate])).
		Set("start_time", parseTime(r[colStartTime])).
		Set("end_time", parseTime(r[colEndTime])).
		Set("precinct", parseInt(r[colPrecinct])).
		Set("transit_district", parseInt(r[colTransitDistrict])).
		Set("crime", parseInt(r[colCrimeCode])).
		Set("status", parseText(r[colStatus])).
		Set("classification", parseText(r[colClassification])).
		Set("premises_type", parseText(r[colPremisesType])).
		Set("patrol_borough", parseText(r[colPatrolBorough])).
		Set("station_name", parseText(r[colStationName])).
		Set("park", parseText(r[colPark])).
		Set("development_name", parseText(r[colDevelopment])).
		Set("development_code", parseInt(r[colHousingPSA])).
		Set("agency", parseText(r[colAgency])).
		Set("latitude", parseCoordinate(r[colLatitude])).
		Set("longitude", parseCoordinate(r[colLongitude]))
}

// parseInt accepts "1234", "1,234" and integral floats such as "12.0".
// Anything else, including values outside the int64 range, is missing.
func parseInt(raw string) models.Value {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return models.Null()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.Int(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return models.Null()
	}
	if f < -(1<<63) || f >= 1<<63 {
		return models.Null()
	}
	return models.Int(int64(f))
}

// parseDate reads MM/DD/YYYY; invalid dates are missing.
func parseDate(raw string) models.Value {
	t, err := time.Parse(rawDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return models.Null()
	}
	return models.Date(t)
}

// parseTime reads HH:MM:SS; invalid times (including 24:00:00) are missing.
func parseTime(raw string) models.Value {
	t, err := time.Parse(rawTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return models.Null()
	}
	return models.Clock(t)
}

func parseCoordinate(raw string) models.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.Null()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Null()
	}
	return models.Float(f, CoordinatePrecision)
}

func parseText(raw string) models.Value {
	s := normaliseText(raw)
	if s == "" {
		return models.Null()
	}
	return models.Text(s)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
