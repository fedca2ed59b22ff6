package formats

import (
	"encoding/csv"
	"fmt"

	"github.com/JonMunkholm/dxcodes/internal/core"
)

func init() {
	registerCSV()
}

func registerCSV() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:        "csv",
			Label:      "Comma-separated values",
			Extensions: []string{".csv"},
		},
		Parse: parseCSV,
	})
}

// parseCSV reads every column as text. The first record is the header.
func parseCSV(data []byte) (*core.Dataset, error) {
	r, err := core.OpenText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, core.ErrEmptyFile
	}

	return core.NewTabularDataset("csv", records)
}
