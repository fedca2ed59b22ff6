package core

// InRange reports whether code lies in the inclusive range [start, end].
// Comparison is plain byte order, not aware of code structure.
func InRange(code, start, end DiagnosisCode) bool {
	return start <= code && code <= end
}

// FilterByRange returns the rows whose normalized Diagnosis lies in
// [start, end], preserving dataset order. Bounds are normalized by the caller.
func FilterByRange(ds *Dataset, start, end DiagnosisCode) []Row {
	out := make([]Row, 0)
	if ds == nil {
		return out
	}
	for _, r := range ds.Rows {
		if InRange(Normalize(string(r.Diagnosis)), start, end) {
			out = append(out, r)
		}
	}
	return out
}
