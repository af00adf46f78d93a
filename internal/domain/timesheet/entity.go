package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one uploaded timesheet row before validation. Field values are
// kept as strings because the upload collaborator hands them over exactly as
// parsed from the spreadsheet cells.
type RawRow struct {
	RowNumber  int    `json:"row_number"`
	TabNumber  string `json:"tab_number"`
	Date       string `json:"date"`
	Hours      string `json:"hours"`
	DayType    string `json:"day_type"`
	Authorized bool   `json:"authorized"`
}

// Batch is a sequence of raw rows consumed once by the ingestor.
type Batch struct {
	FileName string   `json:"file_name"`
	Rows     []RawRow `json:"rows"`
}

// DayType values recognized in the day-type column.
const (
	DayTypeWork    = "work"
	DayTypeRestDay = "rest_day"
)

// Row is a parsed, typed timesheet row that passed validation.
type Row struct {
	RowNumber int
	TabNumber string
	Date      time.Time
	Hours     decimal.Decimal
	DayType   string
}

// ValidatedBatch is the accepted result of a validation run: typed rows plus
// any non-blocking warnings, with summary figures for display.
type ValidatedBatch struct {
	Rows       []Row
	Warnings   []Finding
	TotalRows  int
	TotalHours decimal.Decimal
}

// HoursByEmployee sums validated hours per tab number across the batch.
func (b *ValidatedBatch) HoursByEmployee() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(b.Rows))
	for _, row := range b.Rows {
		totals[row.TabNumber] = totals[row.TabNumber].Add(row.Hours)
	}
	return totals
}
