// Package core provides the business logic for diagnosis code analysis.
//
// This package contains all domain logic independent of any UI or transport
// layer. The web server, the CLI and the tests all drive it through
// [Service].
//
// # Chapters
//
// The classification is a fixed table of 28 chapters, each an inclusive
// lexicographic range of codes. [LookupCategory] returns the first chapter
// that fully contains a range; overlap alone is not a match.
//
// # Uploads
//
// Upload formats register themselves at init time with [Register]; the
// formats subpackage provides xlsx, csv and plain text:
//
//	import _ "github.com/JonMunkholm/dxcodes/internal/core/formats"
//
// [ParseUpload] picks a format by file extension and returns a [Dataset].
// Tabular formats need a column named exactly "Diagnosis". Codes are
// normalized with [Normalize] (trimmed, uppercased) as rows are read.
//
// # Analyses
//
// [Service.Analyze] runs one of two modes:
//
//   - [ModeRange]: keep rows whose code lies between start and end, report
//     the containing chapter and hold the rows for CSV export.
//   - [ModeCode]: count prefix and exact matches of one code and report
//     frequency tables.
//
// Codes compare byte-wise, so "10A00" sorts before "2A00".
//
// # Error Handling
//
// Recoverable failures are returned as [*AnalysisError] whose kind is one of
// missing input, missing column, missing parameter or parse. [MapError]
// turns any error into a [UserMessage] with a support code:
//
//   - FILE001-FILE007: File errors (size, encoding, format)
//   - VAL003-VAL004: Missing parameter or column
//   - ANL001-ANL002: Analysis errors (busy, expired export)
//
// A range that matches no chapter is not an error; the report carries
// [NoCategoryWarning] instead.
package core
