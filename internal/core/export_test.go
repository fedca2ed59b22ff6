package core

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestExportFileName(t *testing.T) {
	if got := ExportFileName("1a00", "1H0Z"); got != "filtered_diagnosis_1a00_to_1H0Z.csv" {
		t.Errorf("ExportFileName() = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Diagnosis", "Note"}, [][]string{
		{"1A00", "plain"},
		{"1H0Z", "has, comma"},
	})
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "Diagnosis,Note\n1A00,plain\n1H0Z,\"has, comma\"\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() wrote %q, want %q", buf.String(), want)
	}
}

func TestExportStore_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newExportStore(time.Minute)
	store.now = func() time.Time { return now }

	store.put(&Export{ID: "a"})
	if _, err := store.get("a"); err != nil {
		t.Fatalf("get() right after put = %v", err)
	}

	now = now.Add(30 * time.Second)
	store.put(&Export{ID: "b"})

	now = now.Add(45 * time.Second)
	if _, err := store.get("a"); !errors.Is(err, ErrExportNotFound) {
		t.Errorf("get(expired) = %v, want ErrExportNotFound", err)
	}
	if removed := store.sweep(); removed != 0 {
		t.Errorf("sweep() removed %d, want 0 (a already dropped by get)", removed)
	}

	now = now.Add(time.Minute)
	if removed := store.sweep(); removed != 1 {
		t.Errorf("sweep() removed %d, want 1", removed)
	}
	if store.len() != 0 {
		t.Errorf("len() = %d after sweep, want 0", store.len())
	}
}

func TestExportStore_Unknown(t *testing.T) {
	store := newExportStore(0)
	if store.ttl != DefaultExportTTL {
		t.Errorf("ttl = %v, want %v", store.ttl, DefaultExportTTL)
	}
	if _, err := store.get("missing"); !errors.Is(err, ErrExportNotFound) {
		t.Errorf("get(missing) = %v, want ErrExportNotFound", err)
	}
}
