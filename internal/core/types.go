package core

import (
	"fmt"
	"strings"
	"time"
)

// DiagnosisColumn is the header name a tabular upload must carry.
// Matching is exact and case-sensitive.
const DiagnosisColumn = "Diagnosis"

// DiagnosisCode is a normalized (trimmed, uppercased) diagnosis code.
// Codes compare byte-wise, so "10A00" sorts before "2A00".
type DiagnosisCode string

// String returns the code as a plain string.
func (c DiagnosisCode) String() string { return string(c) }

// CategoryRange is one chapter of the classification: a named, inclusive
// lexicographic range of codes.
type CategoryRange struct {
	Name  string        `json:"name"`
	Start DiagnosisCode `json:"start"`
	End   DiagnosisCode `json:"end"`
}

// Contains reports whether the range [start, end] lies entirely inside c.
// Overlapping is not enough.
func (c CategoryRange) Contains(start, end DiagnosisCode) bool {
	return start >= c.Start && end <= c.End
}

// Row is one record of an uploaded dataset.
type Row struct {
	Line      int           // 1-indexed line (or sheet row) in the source file
	Diagnosis DiagnosisCode // normalized value of the Diagnosis column
	Values    []string      // every column in header order, as read
}

// Dataset is an uploaded table held fully in memory.
// A Dataset is never modified after it has been built.
type Dataset struct {
	Format    string   // registered format key: "xlsx", "csv", "text"
	Header    []string // column names in file order
	DiagIndex int      // position of the Diagnosis column in Header
	Rows      []Row
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Record returns the row's values in header order with the Diagnosis column
// replaced by its normalized value. The returned slice is a fresh copy.
func (d *Dataset) Record(r Row) []string {
	rec := make([]string, len(d.Header))
	copy(rec, r.Values)
	if d.DiagIndex >= 0 && d.DiagIndex < len(rec) {
		rec[d.DiagIndex] = string(r.Diagnosis)
	}
	return rec
}

// Records converts rows into records (see Record).
func (d *Dataset) Records(rows []Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = d.Record(r)
	}
	return out
}

// Mode selects which analysis runs.
type Mode string

const (
	ModeRange Mode = "range"
	ModeCode  Mode = "code"
)

// Labels shown by the mode selector.
const (
	ModeRangeLabel = "Filter by code range"
	ModeCodeLabel  = "Analyze specific code"
)

// Label returns the user-facing label for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeRange:
		return ModeRangeLabel
	case ModeCode:
		return ModeCodeLabel
	default:
		return string(m)
	}
}

// ParseMode accepts either the short key or the selector label.
func ParseMode(s string) (Mode, error) {
	switch strings.TrimSpace(s) {
	case string(ModeRange), ModeRangeLabel:
		return ModeRange, nil
	case string(ModeCode), ModeCodeLabel:
		return ModeCode, nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}

// CodeCount is one entry of a FrequencyTable.
type CodeCount struct {
	Code     DiagnosisCode `json:"diagnosis"`
	Count    int           `json:"count"`
	Category string        `json:"category,omitempty"`
}

// FrequencyTable lists distinct codes by descending count.
// Equal counts keep first-seen order.
type FrequencyTable []CodeCount

// Top returns at most n leading entries.
func (f FrequencyTable) Top(n int) FrequencyTable {
	if n < 0 {
		n = 0
	}
	if n > len(f) {
		n = len(f)
	}
	return f[:n]
}

// AnalysisRequest carries one "Analyze" action.
type AnalysisRequest struct {
	FileName string // empty means nothing was uploaded
	Data     []byte
	Mode     Mode
	Start    string // range mode, raw user input
	End      string // range mode, raw user input
	Code     string // code mode, raw user input
}

// RangeReport is the outcome of a range filter.
type RangeReport struct {
	Start      DiagnosisCode  `json:"start"`
	End        DiagnosisCode  `json:"end"`
	Category   *CategoryRange `json:"category,omitempty"`
	Warning    string         `json:"warning,omitempty"`
	Count      int            `json:"count"`
	Preview    [][]string     `json:"preview"`
	ExportName string         `json:"exportName,omitempty"`
	ExportID   string         `json:"exportId,omitempty"`
	Rows       []Row          `json:"-"`
}

// CodeReport is the outcome of a single-code analysis.
type CodeReport struct {
	Code             DiagnosisCode  `json:"code"`
	TotalRows        int            `json:"totalRows"`
	PrefixCount      int            `json:"prefixCount"`
	ExactCount       int            `json:"exactCount"`
	MatchFrequencies FrequencyTable `json:"matchFrequencies"`
	TopGlobal        FrequencyTable `json:"topGlobal"`
	Matches          []Row          `json:"-"`
}

// AnalysisResult is returned by Service.Analyze on success.
// Exactly one of Range and Code is set, matching Mode.
type AnalysisResult struct {
	ID        string        `json:"id"`
	Mode      Mode          `json:"mode"`
	FileName  string        `json:"fileName"`
	Format    string        `json:"format"`
	TotalRows int           `json:"totalRows"`
	Header    []string      `json:"header"`
	Cached    bool          `json:"cached"`
	Duration  time.Duration `json:"durationNs"`
	Range     *RangeReport  `json:"range,omitempty"`
	Code      *CodeReport   `json:"code,omitempty"`
}
