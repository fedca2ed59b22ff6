package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dxcodes/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func TestAnalyzeForm_ModeLabels(t *testing.T) {
	out := render(t, AnalyzeForm(FormState{Mode: core.ModeCode, Code: `8A"68`}))

	for _, want := range []string{
		"Filter by code range",
		"Analyze specific code",
		`value="code" checked`,
		`8A&#34;68`,
		">Analyze</button>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("form missing %q", want)
		}
	}
}

func TestRangeResult(t *testing.T) {
	cat := core.CategoryRange{Name: "Neoplasms", Start: "2A00", End: "2F9Z"}
	res := &core.AnalysisResult{
		FileName: "<codes>.csv",
		Header:   []string{"Diagnosis"},
		Range: &core.RangeReport{
			Start: "2A00", End: "2B00", Count: 1, Category: &cat,
			Preview:  [][]string{{"2A01"}},
			ExportID: "abc", ExportName: "filtered_diagnosis_2A00_to_2B00.csv",
		},
	}
	out := render(t, Result(res))

	for _, want := range []string{"Neoplasms", "2A01", "/export/abc", "&lt;codes&gt;.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("range result missing %q", want)
		}
	}
}

func TestRangeResult_Warning(t *testing.T) {
	res := &core.AnalysisResult{Range: &core.RangeReport{Warning: core.NoCategoryWarning}}
	out := render(t, Result(res))

	if !strings.Contains(out, "alert-warning") || !strings.Contains(out, core.NoCategoryWarning) {
		t.Errorf("warning not rendered: %s", out)
	}
	if strings.Contains(out, "/export/") {
		t.Error("download link shown without export")
	}
}

func TestCodeResult(t *testing.T) {
	res := &core.AnalysisResult{Code: &core.CodeReport{
		Code: "8A68", TotalRows: 3, PrefixCount: 2,
		MatchFrequencies: core.FrequencyTable{{Code: "8A68.0", Count: 1}},
		TopGlobal:        core.FrequencyTable{{Code: "9A00", Count: 1}},
	}}
	out := render(t, Result(res))

	for _, want := range []string{"Exact matches for &#39;8A68&#39;", "8A68.0", "Top 10 most frequent"} {
		if !strings.Contains(out, want) {
			t.Errorf("code result missing %q", want)
		}
	}
}

func TestErrorAlert_Guidance(t *testing.T) {
	out := render(t, ErrorAlert("Bad file", "Fix it", "FILE002", core.FormatGuidance))
	if !strings.Contains(out, "<li>Contains a column named &#39;Diagnosis&#39;</li>") {
		t.Errorf("guidance not rendered as list: %s", out)
	}
}

func TestAnalyzePage_EmptyResult(t *testing.T) {
	out := render(t, AnalyzePage(FormState{Extensions: []string{".csv", ".txt"}}, nil))

	for _, want := range []string{
		"<!doctype html>",
		"<title>Diagnosis Code Analysis</title>",
		`<section id="result"></section>`,
		`accept=".csv,.txt"`,
		`value="range" checked`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestCategoriesPage(t *testing.T) {
	out := render(t, CategoriesPage(core.Categories()))

	for _, want := range []string{
		"<title>Chapters</title>",
		"<th>Name</th>",
		"<td>Neoplasms</td>",
		"<td>XA0060</td>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("categories page missing %q", want)
		}
	}
}

func TestGuidanceSplit(t *testing.T) {
	if got := guidanceIntro(core.FormatGuidance); got != "Ensure your file meets these requirements:" {
		t.Errorf("guidanceIntro() = %q", got)
	}
	items := guidanceItems(core.FormatGuidance)
	if len(items) != 3 || items[0] != "Contains a column named 'Diagnosis'" {
		t.Errorf("guidanceItems() = %q", items)
	}
	if items := guidanceItems("one line"); items != nil {
		t.Errorf("guidanceItems(single line) = %q, want nil", items)
	}
}
