// Package report renders analysis results as plain-text tables for the
// command line.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/JonMunkholm/dxcodes/internal/core"
)

// MaxCellWidth truncates wide cells so one long value cannot stretch a table.
const MaxCellWidth = 40

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

// Printer writes reports to w. Colors are used only when w is a terminal
// that supports them.
type Printer struct {
	w      io.Writer
	styles styles
	err    error
}

// New creates a Printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w: w,
		styles: styles{
			title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
			header:  r.NewStyle().Bold(true).Underline(true),
			label:   r.NewStyle().Bold(true),
			muted:   r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
			warning: r.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
			err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		},
	}
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) stat(label string, value any) {
	p.printf("%s %v\n", p.styles.label.Render(label+":"), value)
}

// Result prints whichever report res carries.
func (p *Printer) Result(res *core.AnalysisResult) error {
	switch {
	case res == nil:
	case res.Range != nil:
		p.rangeResult(res)
	case res.Code != nil:
		p.codeResult(res)
	}
	return p.err
}

func (p *Printer) fileLine(res *core.AnalysisResult) {
	p.printf("%s %s\n", res.FileName, p.styles.muted.Render(fmt.Sprintf("(%s, %d rows)", res.Format, res.TotalRows)))
}

func (p *Printer) rangeResult(res *core.AnalysisResult) {
	r := res.Range
	p.fileLine(res)
	p.stat(fmt.Sprintf("Number of diagnoses in range %s to %s", r.Start, r.End), r.Count)

	if r.Category != nil {
		p.stat("Category", r.Category.Name)
	} else {
		p.printf("%s\n", p.styles.warning.Render("Warning: "+r.Warning))
	}

	if len(r.Preview) > 0 {
		p.printf("\n%s\n", p.styles.title.Render("Preview"))
		p.Table(res.Header, r.Preview)
	}
}

func (p *Printer) codeResult(res *core.AnalysisResult) {
	c := res.Code
	code := c.Code.String()

	p.fileLine(res)
	p.stat("Diagnosis Code", code)
	p.stat("Total records in dataset", c.TotalRows)
	p.stat("Count of diagnoses starting with '"+code+"'", c.PrefixCount)
	p.stat("Exact matches for '"+code+"'", c.ExactCount)

	if len(c.MatchFrequencies) > 0 {
		p.printf("\n%s\n", p.styles.title.Render("Matching diagnoses found"))
		p.frequencies(c.MatchFrequencies)
	}

	p.printf("\n%s\n", p.styles.title.Render(fmt.Sprintf("Top %d most frequent diagnoses in dataset", core.GlobalTopN)))
	p.frequencies(c.TopGlobal)
}

func (p *Printer) frequencies(freqs core.FrequencyTable) {
	rows := make([][]string, len(freqs))
	for i, f := range freqs {
		rows[i] = []string{f.Code.String(), strconv.Itoa(f.Count), f.Category}
	}
	p.Table([]string{"Diagnosis", "Count", "Chapter"}, rows)
}

// Categories prints the chapter table.
func (p *Printer) Categories(cats []core.CategoryRange) error {
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rows[i] = []string{c.Start.String(), c.End.String(), c.Name}
	}
	p.Table([]string{"Start", "End", "Chapter"}, rows)
	return p.err
}

// Lookup prints the chapter containing a range, or the no-category warning.
func (p *Printer) Lookup(start, end string, c *core.CategoryRange) error {
	if c == nil {
		p.printf("%s\n", p.styles.warning.Render("Warning: "+core.NoCategoryWarning))
		return p.err
	}
	p.stat("Category", c.Name)
	p.printf("%s\n", p.styles.muted.Render(fmt.Sprintf("%s to %s lies within %s to %s", core.Normalize(start), core.Normalize(end), c.Start, c.End)))
	return p.err
}

// Error prints the user-facing form of err. File problems get the format
// guidance as well.
func (p *Printer) Error(err error) error {
	msg := core.MapError(err)
	kind, ok := core.KindOf(err)

	style, prefix := p.styles.err, "Error"
	if ok && kind.Warning() {
		style, prefix = p.styles.warning, "Warning"
	}
	p.printf("%s %s\n", style.Render(prefix+":"), fmt.Sprintf("%s (Code: %s)", msg.Message, msg.Code))
	if msg.Action != "" {
		p.printf("%s\n", msg.Action)
	}
	if kind == core.KindParse || kind == core.KindMissingColumn {
		p.printf("\n%s\n", core.FormatGuidance)
	}
	return p.err
}

// Table prints rows under header with columns padded to their display
// width. Wide cells are truncated to MaxCellWidth.
func (p *Printer) Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range header {
			if i < len(row) {
				widths[i] = max(widths[i], min(runewidth.StringWidth(row[i]), MaxCellWidth))
			}
		}
	}

	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = p.styles.header.Render(pad(h, widths[i], i == len(header)-1))
	}
	p.printf("%s\n", strings.Join(cells, "  "))

	for _, row := range rows {
		for i := range header {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells[i] = pad(v, widths[i], i == len(header)-1)
		}
		p.printf("%s\n", strings.Join(cells, "  "))
	}
}

// pad fits s to width display columns. The last column is not padded.
func pad(s string, width int, last bool) string {
	s = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	if last {
		return s
	}
	return runewidth.FillRight(s, width)
}
