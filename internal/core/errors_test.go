package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAnalysisError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     ErrorKind
	}{
		{"missing input", missingInput(), ErrMissingInput, KindMissingInput},
		{"missing column", missingColumn([]string{"A", "B"}), ErrMissingColumn, KindMissingColumn},
		{"missing parameter", missingParameter("x"), ErrMissingParameter, KindMissingParameter},
		{"parse", parseError(ErrEmptyFile), ErrParse, KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, tt.sentinel)
			}
			kind, ok := KindOf(wrapped)
			if !ok || kind != tt.kind {
				t.Errorf("KindOf() = %v, %v, want %v, true", kind, ok, tt.kind)
			}
		})
	}
}

func TestAnalysisError_Message(t *testing.T) {
	err := missingColumn([]string{"Code", "Name"})
	msg := err.Error()

	for _, want := range []string{"missing required column", "'Diagnosis'", "Code"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestErrorKind_Warning(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want bool
	}{
		{KindMissingInput, true},
		{KindMissingParameter, true},
		{KindMissingColumn, false},
		{KindParse, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Warning(); got != tt.want {
				t.Errorf("Warning() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf(plain error) reported an analysis error")
	}
}
