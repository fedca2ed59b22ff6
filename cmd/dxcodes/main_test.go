package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/dxcodes/internal/audit"
	"github.com/JonMunkholm/dxcodes/internal/core"
)

const sampleCSV = "Diagnosis,Age\n1A00,30\n1a01,40\n2B00,50\n1A00,61\n"

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs dxcodes with a config path that does not exist, so the
// user's own config never leaks into tests.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRangeCommand(t *testing.T) {
	data := writeFile(t, "data.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "filtered.csv")

	res := runCLI(t, "range", data, "--start", "1A00", "--end", "1A01", "--out", out)
	if res.code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", res.code, res.stderr)
	}
	for _, want := range []string{
		"Number of diagnoses in range 1A00 to 1A01: 3",
		"Category: Certain infectious or parasitic diseases",
		"Preview",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if want := "Diagnosis,Age\n1A00,30\n1A01,40\n1A00,61\n"; string(got) != want {
		t.Errorf("export = %q, want %q", got, want)
	}
	if !strings.Contains(res.stderr, "Wrote 3 rows") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestRangeCommand_NoMatchesWritesHeader(t *testing.T) {
	data := writeFile(t, "data.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "empty.csv")

	res := runCLI(t, "range", data, "--start", "9A00", "--end", "9A01", "--out", out)
	if res.code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", res.code, res.stderr)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Diagnosis,Age\n" {
		t.Errorf("export = %q", got)
	}
}

func TestRangeCommand_MissingParameter(t *testing.T) {
	data := writeFile(t, "data.csv", sampleCSV)

	res := runCLI(t, "range", data, "--start", "1A00")
	if res.code != exitWarning {
		t.Fatalf("exit = %d, want %d", res.code, exitWarning)
	}
	if !strings.Contains(res.stderr, "Please enter both start and end codes.") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestCodeCommand_JSON(t *testing.T) {
	data := writeFile(t, "codes.txt", "1A00\n1A01\n2B00\n")

	res := runCLI(t, "code", data, "--code", "1a", "--json")
	if res.code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", res.code, res.stderr)
	}

	var got core.AnalysisResult
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, res.stdout)
	}
	if got.Code == nil || got.Code.PrefixCount != 2 || got.Code.ExactCount != 0 {
		t.Errorf("code report = %+v", got.Code)
	}
}

func TestCodeCommand_MissingColumn(t *testing.T) {
	data := writeFile(t, "data.csv", "Code\n1A00\n")

	res := runCLI(t, "code", data, "--code", "1A")
	if res.code != exitError {
		t.Fatalf("exit = %d, want %d", res.code, exitError)
	}
	if !strings.Contains(res.stderr, "VAL004") || !strings.Contains(res.stderr, "Ensure your file meets these requirements") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestCodeCommand_MissingFile(t *testing.T) {
	res := runCLI(t, "code", filepath.Join(t.TempDir(), "nope.csv"), "--code", "1A")
	if res.code != exitError {
		t.Fatalf("exit = %d, want %d", res.code, exitError)
	}
	if !strings.Contains(res.stderr, "read dataset") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestCategoriesCommand(t *testing.T) {
	res := runCLI(t, "categories")
	if res.code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", res.code, res.stderr)
	}
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	if len(lines) != core.CategoryCount()+1 {
		t.Errorf("got %d lines, want header plus %d chapters", len(lines), core.CategoryCount())
	}
}

func TestLookupCommand(t *testing.T) {
	res := runCLI(t, "lookup", "2a00", "2b00")
	if res.code != exitOK || !strings.Contains(res.stdout, "Category: Neoplasms") {
		t.Errorf("exit = %d, stdout = %q", res.code, res.stdout)
	}

	res = runCLI(t, "lookup", "1A00", "2A00")
	if res.code != exitOK || !strings.Contains(res.stdout, core.NoCategoryWarning) {
		t.Errorf("exit = %d, stdout = %q", res.code, res.stdout)
	}
}

func TestAuditFlag_RecordsToSQLite(t *testing.T) {
	data := writeFile(t, "data.csv", sampleCSV)
	db := filepath.Join(t.TempDir(), "audit.db")

	res := runCLI(t, "--audit", db, "code", data, "--code", "1A00")
	if res.code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", res.code, res.stderr)
	}

	store, err := audit.OpenSQLite(context.Background(), db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	entries, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Action != audit.ActionCode || entries[0].FileName != "data.csv" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestConfigFile_PreviewRows(t *testing.T) {
	cfg := writeFile(t, "config.toml", "[analysis]\npreview-rows = 1\n")
	data := writeFile(t, "data.csv", sampleCSV)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", cfg, "range", data, "--start", "1A00", "--end", "1A01", "--json"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr.String())
	}

	var got core.AnalysisResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Range.Preview) != 1 {
		t.Errorf("preview rows = %d, want 1", len(got.Range.Preview))
	}
}

func TestConfigFile_UnknownKey(t *testing.T) {
	cfg := writeFile(t, "config.toml", "[analysis]\ntop = 3\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", cfg, "categories"}, &stdout, &stderr)
	if code != exitError {
		t.Errorf("exit = %d, want %d", code, exitError)
	}
}
