package timesheet

import "sort"

// Severity enum
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding codes. The ERR/WARN numbering matches the validation protocol the
// reporting layer renders to operators.
const (
	CodeDailyCapExceeded = "ERR-001" // single employee-day above the hour cap
	CodeBadTabNumber     = "ERR-002" // tab number does not match the roster pattern
	CodeBadHours         = "ERR-003" // hours cell not a non-negative number
	CodeBadDate          = "ERR-004" // date cell not a YYYY-MM-DD date
	CodeMissingTabNumber = "ERR-005" // tab number cell empty
	CodeUnauthorizedRest = "WARN-001"
)

// Spreadsheet columns referenced by findings, mirroring the upload template.
const (
	ColumnTabNumber = "B"
	ColumnDate      = "C"
	ColumnHours     = "E"
	ColumnDayType   = "H"
)

// Finding is one validation outcome for a single cell.
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Row      int      `json:"row"`
	Column   string   `json:"column"`
	Message  string   `json:"message"`
}

// Report is the full, ordered finding set for a rejected or warned batch.
type Report struct {
	Findings []Finding `json:"findings"`
}

// HasErrors reports whether any finding blocks the import.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of blocking findings.
func (r *Report) ErrorCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Sort orders findings by (row, column) ascending so reports are
// deterministic regardless of rule evaluation order.
func (r *Report) Sort() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		if r.Findings[i].Row != r.Findings[j].Row {
			return r.Findings[i].Row < r.Findings[j].Row
		}
		return r.Findings[i].Column < r.Findings[j].Column
	})
}
