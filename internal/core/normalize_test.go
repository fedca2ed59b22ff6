package core

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want DiagnosisCode
	}{
		{"1a00", "1A00"},
		{"  8a68.z\t", "8A68.Z"},
		{" 8A68 ", "8A68"},
		{"straße", "STRASSE"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(string(got)); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}
