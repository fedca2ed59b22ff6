package core

// # Error Codes Reference
//
// Every failure shown to a user carries a code they can quote to support.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the upload size limit
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Patterns: "invalid csv"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Patterns: "encoding error"
//
//	FILE004 - No file: No file was uploaded
//	          Kind: missing input
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Patterns: "empty file"
//
//	FILE006 - Invalid workbook: File is not a readable Excel workbook
//	          Patterns: "invalid workbook"
//
//	FILE007 - Unsupported format: No reader for the file type
//	          Patterns: "unsupported format"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL003 - Missing parameter: A required code or mode was not given
//	         Kind: missing parameter
//
//	VAL004 - Missing column: The file has no Diagnosis column
//	         Kind: missing column
//
// # Analysis Errors (ANL001-ANL099)
//
//	ANL001 - System busy: Too many analyses in progress
//	         Patterns: "too many concurrent analyses"
//
//	ANL002 - Export expired: The export was not found
//	         Patterns: "export not found"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// Analysis errors are classified by kind first. For the missing-input,
// missing-column and missing-parameter kinds the message is the error's own
// detail sentence. Everything else, including the causes behind parse
// errors, is matched case-insensitively against the patterns below; the
// first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (lowercase) to user messages.
// Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller file or remove unused columns",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Upload a smaller file or remove unused columns",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file as UTF-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row and diagnosis codes",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid workbook",
		msg: UserMessage{
			Message: "File is not a readable Excel workbook",
			Action:  "Re-save the file as .xlsx or export it as CSV",
			Code:    "FILE006",
		},
	},
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload an .xlsx, .csv or .txt file",
			Code:    "FILE007",
		},
	},

	// Analysis errors
	{
		pattern: "too many concurrent analyses",
		msg: UserMessage{
			Message: "System is busy processing other analyses",
			Action:  "Please wait a moment and try again",
			Code:    "ANL001",
		},
	},
	{
		pattern: "export not found",
		msg: UserMessage{
			Message: "The export is no longer available",
			Action:  "Run the analysis again to create a new export",
			Code:    "ANL002",
		},
	},

	// Request errors
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "REQ002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// kindMessages holds the fixed codes and actions per analysis error kind.
// Message is filled from the error's detail when present.
var kindMessages = map[ErrorKind]UserMessage{
	KindMissingInput: {
		Message: "No file was uploaded",
		Action:  "Select an .xlsx, .csv or .txt file to analyze",
		Code:    "FILE004",
	},
	KindMissingColumn: {
		Message: "Required column is missing from the file",
		Action:  "Add a column named 'Diagnosis' to the header row",
		Code:    "VAL004",
	},
	KindMissingParameter: {
		Message: "A required value is missing",
		Action:  "Fill in the highlighted fields and try again",
		Code:    "VAL003",
	},
}

// parseFallback is used for parse errors whose cause matches no pattern.
var parseFallback = UserMessage{
	Message: "Could not read the uploaded file",
	Action:  "Check the file format and try again",
	Code:    "FILE000",
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
//
// Example:
//
//	_, err := svc.Analyze(ctx, AnalysisRequest{Mode: ModeRange})
//	msg := MapError(err)
//	// msg.Code == "FILE004"
//	// msg.Message == "Please upload a file first."
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ae *AnalysisError
	if errors.As(err, &ae) {
		if msg, ok := kindMessages[ae.Kind]; ok {
			if ae.Detail != "" {
				msg.Message = ae.Detail
			}
			return msg
		}
		if ae.Kind == KindParse {
			if msg, ok := matchPattern(ae.Err); ok {
				return msg
			}
			return parseFallback
		}
	}

	if msg, ok := matchPattern(err); ok {
		return msg
	}
	return defaultMessage
}

func matchPattern(err error) (UserMessage, bool) {
	if err == nil {
		return UserMessage{}, false
	}
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error, kept for logging, with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
