package formats

import (
	"io"

	"github.com/JonMunkholm/dxcodes/internal/core"
)

func init() {
	registerText()
}

func registerText() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:        "text",
			Label:      "Plain text, one code per line",
			Extensions: []string{".txt"},
			Fallback:   true,
		},
		Parse: parseText,
	})
}

func parseText(data []byte) (*core.Dataset, error) {
	r, err := core.OpenText(data)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return core.NewLineDataset("text", string(b)), nil
}
