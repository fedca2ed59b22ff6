package core

import "testing"

func TestCategories_Table(t *testing.T) {
	cats := Categories()
	if len(cats) != 28 {
		t.Fatalf("len(Categories()) = %d, want 28", len(cats))
	}
	if CategoryCount() != len(cats) {
		t.Errorf("CategoryCount() = %d, want %d", CategoryCount(), len(cats))
	}
	for _, c := range cats {
		if c.Start > c.End {
			t.Errorf("%q: start %s > end %s", c.Name, c.Start, c.End)
		}
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0].Name = "changed"
	if Categories()[0].Name == "changed" {
		t.Error("Categories() exposed the internal table")
	}
}

func TestLookupCategory(t *testing.T) {
	tests := []struct {
		name      string
		start     DiagnosisCode
		end       DiagnosisCode
		wantName  string
		wantMatch bool
	}{
		{"whole first chapter", "1A00", "1H0Z", "Certain infectious or parasitic diseases", true},
		{"spans two chapters", "1A00", "2F9Z", "", false},
		{"inside nervous system", "8A60", "8A6Z", "Diseases of the nervous system", true},
		{"single code", "BA00", "BA00", "Diseases of the circulatory system", true},
		{"end past chapter", "5A00", "5D47", "", false},
		{"gap between chapters", "1H10", "1Z00", "", false},
		{"extension codes", "XA0060", "XA9Z", "Extension codes", true},
		{"below extension start", "XA0000", "XA0001", "", false},
		{"short codes compare by prefix", "1B", "1C", "Certain infectious or parasitic diseases", true},
		{"10A00 sorts below 1A00", "10A00", "10B00", "", false},
		{"empty bounds", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupCategory(tt.start, tt.end)
			if ok != tt.wantMatch {
				t.Fatalf("LookupCategory(%q, %q) match = %v, want %v", tt.start, tt.end, ok, tt.wantMatch)
			}
			if got.Name != tt.wantName {
				t.Errorf("LookupCategory(%q, %q) = %q, want %q", tt.start, tt.end, got.Name, tt.wantName)
			}
		})
	}
}

func TestClassifyCode(t *testing.T) {
	tests := []struct {
		code DiagnosisCode
		want string
	}{
		{"8A68", "Diseases of the nervous system"},
		{"8A68.Z", "Diseases of the nervous system"},
		{"RA26", "Codes for special purposes"},
		{"RA27", ""},
		{"ZZ99", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			got, _ := ClassifyCode(tt.code)
			if got.Name != tt.want {
				t.Errorf("ClassifyCode(%q) = %q, want %q", tt.code, got.Name, tt.want)
			}
		})
	}
}
