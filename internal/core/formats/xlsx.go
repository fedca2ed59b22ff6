package formats

import (
	"bytes"
	"fmt"

	"github.com/JonMunkholm/dxcodes/internal/core"
	"github.com/xuri/excelize/v2"
)

func init() {
	registerXLSX()
}

func registerXLSX() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:        "xlsx",
			Label:      "Excel workbook",
			Extensions: []string{".xlsx"},
		},
		Parse: parseXLSX,
	})
}

// parseXLSX reads the first worksheet. Its first row is the header and every
// cell is taken as displayed text, never coerced to a number.
func parseXLSX(data []byte) (*core.Dataset, error) {
	if len(data) == 0 {
		return nil, core.ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("invalid workbook: no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyFile
	}

	return core.NewTabularDataset("xlsx", rows)
}
