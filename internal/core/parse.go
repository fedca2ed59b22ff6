package core

import "fmt"

// FormatGuidance is shown alongside hard errors.
const FormatGuidance = "Ensure your file meets these requirements:\n" +
	"- Contains a column named 'Diagnosis'\n" +
	"- Supported formats: Excel (.xlsx), CSV (.csv), or text (.txt)\n" +
	"- For text files, each line should contain one diagnosis code."

// ParseUpload decodes an uploaded file into a Dataset, choosing the format by
// file extension. Failures are returned as *AnalysisError of kind
// KindParse or KindMissingColumn.
func ParseUpload(fileName string, data []byte) (*Dataset, error) {
	def, err := formatFor(fileName)
	if err != nil {
		return nil, err
	}
	return parseWith(def, data)
}

func formatFor(fileName string) (FormatDefinition, error) {
	def, ok := ForFileName(fileName)
	if !ok {
		return FormatDefinition{}, parseError(fmt.Errorf("unsupported format: no format registered for %q", fileName))
	}
	return def, nil
}

func parseWith(def FormatDefinition, data []byte) (*Dataset, error) {
	ds, err := def.Parse(data)
	if err != nil {
		if _, ok := KindOf(err); ok {
			return nil, err
		}
		return nil, parseError(fmt.Errorf("parse %s: %w", def.Info.Key, err))
	}
	return ds, nil
}
