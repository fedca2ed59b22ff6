package core

import (
	"strings"
)

// NewTabularDataset builds a dataset from parsed records whose first record
// is the header. The header must contain a column named exactly "Diagnosis".
// Blank records are skipped; short records are padded.
func NewTabularDataset(format string, records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, parseError(ErrEmptyFile)
	}

	header := make([]string, len(records[0]))
	copy(header, records[0])

	diagIdx := indexOfColumn(header, DiagnosisColumn)
	if diagIdx < 0 {
		return nil, missingColumn(header)
	}

	ds := &Dataset{
		Format:    format,
		Header:    header,
		DiagIndex: diagIdx,
		Rows:      make([]Row, 0, len(records)-1),
	}

	for i, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		values := make([]string, len(header))
		copy(values, rec)
		ds.Rows = append(ds.Rows, Row{
			Line:      i + 2, // 1-indexed, after header
			Diagnosis: Normalize(values[diagIdx]),
			Values:    values,
		})
	}
	return ds, nil
}

// NewLineDataset builds a single-column dataset from plain text: each
// non-blank line, trimmed, is one row in an implicit Diagnosis column.
func NewLineDataset(format string, text string) *Dataset {
	ds := &Dataset{
		Format:    format,
		Header:    []string{DiagnosisColumn},
		DiagIndex: 0,
		Rows:      make([]Row, 0),
	}
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ds.Rows = append(ds.Rows, Row{
			Line:      i + 1,
			Diagnosis: Normalize(line),
			Values:    []string{line},
		})
	}
	return ds
}

// indexOfColumn returns the position of name in header, or -1.
// A UTF-8 BOM glued to the first header cell is ignored.
func indexOfColumn(header []string, name string) int {
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == name {
			return i
		}
	}
	return -1
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
