package services

import (
	"strconv"
	"strings"
	"time"
)

// Column labels of the Cost-share History sheet. The sheet is exported from
// an external system and the labels are not fully consistent between
// extracts; PersonID in particular shows up under two spellings.
const (
	colPersonID       = "PersonID"
	colPersonIDAlt    = "Person IDId"
	colFullName       = "FullName"
	colFarmName       = "Farm Name"
	colLifetimeTotal  = "LifetimeCostshareTotal"
	colLifetimeAcres  = "Lifetime Total Acres"
	colContractID     = "Contract ID"
	colBMP            = "BMP"
	colBMPNumber      = "BMP Number"
	colBMPID          = "BMP ID"
	colPracticeAcres  = "Practice Acres"
	colPracticeDate   = "Practice Date"
	colPaidDate       = "Paid Date"
	colAmount319      = "OData_319 Amount"
	colAmountOther    = "Other Amount"
	colAmountLocal    = "Local Amount"
	colAmountTotal    = "Total Amount"
	colNReduction     = "N Reductions"
	colPReduction     = "P Reductions"
	colSReduction     = "S Reductions"
	colNCombined      = "N Combined"
	colPCombined      = "P Combined"
	colSCombined      = "S Combined"
	colLat            = "Lat"
	colLng            = "Longitude"
	colStream         = "Stream"
	colProjectYear    = "Project Year"
	colProjectSegment = "Project Segment"
)

// sourceRow is one normalized transaction row from the primary sheet.
type sourceRow struct {
	PersonID       string
	FullName       string
	FarmName       string
	LifetimeTotal  float64
	LifetimeAcres  float64
	ContractNumber string
	BMPType        string
	BMPNumber      string
	BMPCode        string
	PracticeAcres  float64
	PracticeDate   *string
	PaidDate       *string
	Amount319      float64
	AmountOther    float64
	AmountLocal    float64
	AmountTotal    float64
	NReduction     float64
	PReduction     float64
	SReduction     float64
	NCombined      float64
	PCombined      float64
	SCombined      float64
	Lat            *float64
	Lng            *float64
	Stream         string
	ProjectYear    *int
	ProjectSegment *int
}

// hasIdentity reports whether the row can be attributed to anyone at all.
// Rows failing this are dropped before deduplication.
func (r sourceRow) hasIdentity() bool {
	return r.PersonID != "" || r.FullName != ""
}

func normalizeRow(row Row) sourceRow {
	personID := strings.TrimSpace(row[colPersonID])
	if personID == "" {
		personID = strings.TrimSpace(row[colPersonIDAlt])
	}
	return sourceRow{
		PersonID:       personID,
		FullName:       strings.TrimSpace(row[colFullName]),
		FarmName:       strings.TrimSpace(row[colFarmName]),
		LifetimeTotal:  parseFloatOrZero(row[colLifetimeTotal]),
		LifetimeAcres:  parseFloatOrZero(row[colLifetimeAcres]),
		ContractNumber: strings.TrimSpace(row[colContractID]),
		BMPType:        strings.TrimSpace(row[colBMP]),
		BMPNumber:      strings.TrimSpace(row[colBMPNumber]),
		BMPCode:        strings.TrimSpace(row[colBMPID]),
		PracticeAcres:  parseFloatOrZero(row[colPracticeAcres]),
		PracticeDate:   parseCellDate(row[colPracticeDate]),
		PaidDate:       parseCellDate(row[colPaidDate]),
		Amount319:      parseFloatOrZero(row[colAmount319]),
		AmountOther:    parseFloatOrZero(row[colAmountOther]),
		AmountLocal:    parseFloatOrZero(row[colAmountLocal]),
		AmountTotal:    parseFloatOrZero(row[colAmountTotal]),
		NReduction:     parseFloatOrZero(row[colNReduction]),
		PReduction:     parseFloatOrZero(row[colPReduction]),
		SReduction:     parseFloatOrZero(row[colSReduction]),
		NCombined:      parseFloatOrZero(row[colNCombined]),
		PCombined:      parseFloatOrZero(row[colPCombined]),
		SCombined:      parseFloatOrZero(row[colSCombined]),
		Lat:            parseFloatOrNil(row[colLat]),
		Lng:            parseFloatOrNil(row[colLng]),
		Stream:         strings.TrimSpace(row[colStream]),
		ProjectYear:    parseIntOrNil(row[colProjectYear]),
		ProjectSegment: parseIntOrNil(row[colProjectSegment]),
	}
}

// Monetary, acreage and reduction figures default to zero when the cell is
// blank or not a number.
func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseFloatOrNil(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseIntOrNil(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		// Year and segment cells occasionally carry a float rendering.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		i = int(f)
	}
	return &i
}

// Spreadsheet serial day count for 1970-01-01.
const serialEpochOffset = 25569

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01-02-06",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// parseCellDate handles the two ways a date reaches us from the workbook: a
// raw serial day count, or an already-rendered date string. Anything else
// yields nil. Time-of-day is discarded; output is always YYYY-MM-DD.
func parseCellDate(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t := time.Unix(int64((serial-serialEpochOffset)*86400), 0).UTC()
		out := t.Format("2006-01-02")
		return &out
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("2006-01-02")
			return &out
		}
	}
	return nil
}
