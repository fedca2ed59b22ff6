package formats_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/dxcodes/internal/core"
	_ "github.com/JonMunkholm/dxcodes/internal/core/formats"
)

func codes(ds *core.Dataset) []core.DiagnosisCode {
	out := make([]core.DiagnosisCode, len(ds.Rows))
	for i, r := range ds.Rows {
		out[i] = r.Diagnosis
	}
	return out
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	return buf.Bytes()
}

func TestRegisteredFormats(t *testing.T) {
	want := []string{".csv", ".txt", ".xlsx"}
	if got := core.AcceptedExtensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("AcceptedExtensions() = %v, want %v", got, want)
	}
	def, ok := core.ForFileName("notes.log")
	if !ok || def.Info.Key != "text" {
		t.Errorf("ForFileName(notes.log) = %q, want text fallback", def.Info.Key)
	}
}

func TestParseUpload(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		data       []byte
		wantFormat string
		wantCodes  []core.DiagnosisCode
		wantHeader []string
	}{
		{
			name:       "csv with extra columns",
			file:       "codes.csv",
			data:       []byte("Patient,Diagnosis\np1, 8a68 \np2,1A00\n"),
			wantFormat: "csv",
			wantCodes:  []core.DiagnosisCode{"8A68", "1A00"},
			wantHeader: []string{"Patient", "Diagnosis"},
		},
		{
			name:       "csv with bom",
			file:       "codes.csv",
			data:       append([]byte{0xEF, 0xBB, 0xBF}, "Diagnosis\n1a00\n"...),
			wantFormat: "csv",
			wantCodes:  []core.DiagnosisCode{"1A00"},
			wantHeader: []string{"Diagnosis"},
		},
		{
			name:       "upper case extension",
			file:       "CODES.CSV",
			data:       []byte("Diagnosis\n1A00\n"),
			wantFormat: "csv",
			wantCodes:  []core.DiagnosisCode{"1A00"},
			wantHeader: []string{"Diagnosis"},
		},
		{
			name:       "text lines",
			file:       "codes.txt",
			data:       []byte("8a68.0\n\n 8A68.Z \r\n9A00"),
			wantFormat: "text",
			wantCodes:  []core.DiagnosisCode{"8A68.0", "8A68.Z", "9A00"},
			wantHeader: []string{"Diagnosis"},
		},
		{
			name:       "unknown extension read as text",
			file:       "codes.dat",
			data:       []byte("1A00\n"),
			wantFormat: "text",
			wantCodes:  []core.DiagnosisCode{"1A00"},
			wantHeader: []string{"Diagnosis"},
		},
		{
			name:       "empty text file has no rows",
			file:       "codes.txt",
			data:       nil,
			wantFormat: "text",
			wantCodes:  []core.DiagnosisCode{},
			wantHeader: []string{"Diagnosis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := core.ParseUpload(tt.file, tt.data)
			if err != nil {
				t.Fatalf("ParseUpload() error = %v", err)
			}
			if ds.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", ds.Format, tt.wantFormat)
			}
			if got := codes(ds); !reflect.DeepEqual(got, tt.wantCodes) {
				t.Errorf("codes = %v, want %v", got, tt.wantCodes)
			}
			if !reflect.DeepEqual(ds.Header, tt.wantHeader) {
				t.Errorf("Header = %v, want %v", ds.Header, tt.wantHeader)
			}
		})
	}
}

func TestParseUpload_XLSX(t *testing.T) {
	data := workbook(t, [][]any{
		{"Diagnosis", "Note"},
		{"1a00", "first"},
		{"1H0Z", "second"},
		{"2A00", ""},
	})

	ds, err := core.ParseUpload("codes.xlsx", data)
	if err != nil {
		t.Fatalf("ParseUpload() error = %v", err)
	}
	if ds.Format != "xlsx" {
		t.Errorf("Format = %q, want xlsx", ds.Format)
	}
	want := []core.DiagnosisCode{"1A00", "1H0Z", "2A00"}
	if got := codes(ds); !reflect.DeepEqual(got, want) {
		t.Errorf("codes = %v, want %v", got, want)
	}
	if got := ds.Record(ds.Rows[0]); !reflect.DeepEqual(got, []string{"1A00", "first"}) {
		t.Errorf("Record(Rows[0]) = %v", got)
	}
}

func TestParseUpload_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want error
	}{
		{"csv missing column", "a.csv", []byte("Code\n1A00\n"), core.ErrMissingColumn},
		{"csv invalid utf-8", "a.csv", []byte("Diagnosis\n\xff\n"), core.ErrEncoding},
		{"csv empty", "a.csv", nil, core.ErrEmptyFile},
		{"text invalid utf-8", "a.txt", []byte{0xC3, 0x28}, core.ErrEncoding},
		{"xlsx not a workbook", "a.xlsx", []byte("Diagnosis\n1A00\n"), core.ErrParse},
		{"xlsx empty", "a.xlsx", nil, core.ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.ParseUpload(tt.file, tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseUpload() error = %v, want %v", err, tt.want)
			}
			if _, ok := core.KindOf(err); !ok {
				t.Errorf("ParseUpload() error %v is not an analysis error", err)
			}
		})
	}
}

func TestParseUpload_XLSXMissingColumn(t *testing.T) {
	data := workbook(t, [][]any{{"Code"}, {"1A00"}})

	_, err := core.ParseUpload("codes.xlsx", data)
	if !errors.Is(err, core.ErrMissingColumn) {
		t.Errorf("ParseUpload() error = %v, want ErrMissingColumn", err)
	}
}

func TestParseUpload_XLSXEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	_, err := core.ParseUpload("codes.xlsx", buf.Bytes())
	if !errors.Is(err, core.ErrEmptyFile) {
		t.Errorf("ParseUpload() error = %v, want ErrEmptyFile", err)
	}
}
