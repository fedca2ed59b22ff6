package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the analysis taxonomy. Match with errors.Is.
var (
	ErrMissingInput     = errors.New("no file provided")
	ErrMissingColumn    = errors.New("missing required column")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrParse            = errors.New("unreadable file")
)

// ErrorKind classifies a failed analysis.
type ErrorKind int

const (
	KindMissingInput ErrorKind = iota + 1
	KindMissingColumn
	KindMissingParameter
	KindParse
)

// String returns a stable name for logs and the audit trail.
func (k ErrorKind) String() string {
	switch k {
	case KindMissingInput:
		return "missing_input"
	case KindMissingColumn:
		return "missing_column"
	case KindMissingParameter:
		return "missing_parameter"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingInput:
		return ErrMissingInput
	case KindMissingColumn:
		return ErrMissingColumn
	case KindMissingParameter:
		return ErrMissingParameter
	case KindParse:
		return ErrParse
	default:
		return nil
	}
}

// Warning reports whether the kind is shown as a warning rather than an error.
// Missing input and missing parameters are user slips; the others mean the
// file itself is unusable.
func (k ErrorKind) Warning() bool {
	return k == KindMissingInput || k == KindMissingParameter
}

// AnalysisError is returned by Service.Analyze for every user-recoverable
// failure. Detail is a user-facing sentence; Err holds the technical cause.
type AnalysisError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *AnalysisError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the technical cause.
func (e *AnalysisError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *AnalysisError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func missingInput() error {
	return &AnalysisError{Kind: KindMissingInput, Detail: "Please upload a file first."}
}

func missingColumn(header []string) error {
	return &AnalysisError{
		Kind:   KindMissingColumn,
		Detail: fmt.Sprintf("No column named '%s' found in the uploaded file.", DiagnosisColumn),
		Err:    fmt.Errorf("column not found in header %q", header),
	}
}

func missingParameter(detail string) error {
	return &AnalysisError{Kind: KindMissingParameter, Detail: detail}
}

func parseError(err error) error {
	return &AnalysisError{Kind: KindParse, Err: err}
}

// KindOf returns the kind of an AnalysisError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
