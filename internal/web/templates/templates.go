// Package templates renders the HTML pages and fragments of the web UI.
//
// Components are written in the .templ files next to this one; run
// `templ generate` after editing them to refresh the *_templ.go output.
package templates

//go:generate templ generate

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dxcodes/internal/core"
)

// FormState is what the analysis form shows.
type FormState struct {
	Mode       core.Mode
	Start      string
	End        string
	Code       string
	Extensions []string // accepted upload extensions
}

func (f FormState) mode() core.Mode {
	if f.Mode == "" {
		return core.ModeRange
	}
	return f.Mode
}

func (f FormState) accept() string {
	return strings.Join(f.Extensions, ",")
}

var modes = []core.Mode{core.ModeRange, core.ModeCode}

// Result renders whichever report the analysis produced, or nil when there
// is none.
func Result(res *core.AnalysisResult) templ.Component {
	switch {
	case res == nil:
		return nil
	case res.Range != nil:
		return RangeResult(res)
	case res.Code != nil:
		return CodeResult(res)
	default:
		return nil
	}
}

var frequencyHeader = []string{"Diagnosis", "Count", "Chapter"}

func frequencyRows(freqs core.FrequencyTable) [][]string {
	rows := make([][]string, len(freqs))
	for i, f := range freqs {
		rows[i] = []string{f.Code.String(), strconv.Itoa(f.Count), f.Category}
	}
	return rows
}

func categoryRows(cats []core.CategoryRange) [][]string {
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rows[i] = []string{strconv.Itoa(i + 1), c.Name, c.Start.String(), c.End.String()}
	}
	return rows
}

// guidanceIntro and guidanceItems split a guidance block into its first line
// and the "- " bullets below it.
func guidanceIntro(guidance string) string {
	intro, _, _ := strings.Cut(guidance, "\n")
	return intro
}

func guidanceItems(guidance string) []string {
	_, rest, ok := strings.Cut(guidance, "\n")
	if !ok {
		return nil
	}
	items := strings.Split(rest, "\n")
	for i, l := range items {
		items[i] = strings.TrimPrefix(l, "- ")
	}
	return items
}
