package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBOMSkippingReader(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestOpenText(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr error
	}{
		{
			name:  "plain ascii",
			input: []byte("Diagnosis\n8A68\n"),
			want:  "Diagnosis\n8A68\n",
		},
		{
			name:  "bom is dropped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, "Diagnosis"...),
			want:  "Diagnosis",
		},
		{
			name:  "multibyte utf-8 kept",
			input: []byte("straße"),
			want:  "straße",
		},
		{
			name:    "latin-1 byte rejected",
			input:   []byte{'a', 0xE9, 'b'},
			wantErr: ErrEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := OpenText(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("OpenText() error = %v, want %v", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), "offset 1") {
					t.Errorf("OpenText() error = %q, want offset of bad byte", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenText() error = %v", err)
			}
			got, _ := io.ReadAll(r)
			if string(got) != tt.want {
				t.Errorf("OpenText() read %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBOMSkippingReader_SmallReads(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, "abc"...)
	r := NewBOMSkippingReader(bytes.NewReader(input))

	var out []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}
	if string(out) != "abc" {
		t.Errorf("read %q, want %q", out, "abc")
	}
}
