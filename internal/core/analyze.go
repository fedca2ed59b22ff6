package core

import (
	"sort"
	"strings"
)

// GlobalTopN is the size of the dataset-wide frequency table.
const GlobalTopN = 10

// Frequencies counts distinct Diagnosis values in rows.
// The table is ordered by descending count; ties keep first-seen order.
func Frequencies(rows []Row) FrequencyTable {
	index := make(map[DiagnosisCode]int)
	table := make(FrequencyTable, 0)
	for _, r := range rows {
		if i, ok := index[r.Diagnosis]; ok {
			table[i].Count++
			continue
		}
		index[r.Diagnosis] = len(table)
		table = append(table, CodeCount{Code: r.Diagnosis, Count: 1})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})

	for i := range table {
		if c, ok := ClassifyCode(table[i].Code); ok {
			table[i].Category = c.Name
		}
	}
	return table
}

// AnalyzeCode reports prefix and exact matches of query over ds, along with
// the frequency breakdown of the matches and the dataset-wide top codes.
// The query is normalized by the caller.
func AnalyzeCode(ds *Dataset, query DiagnosisCode) CodeReport {
	report := CodeReport{
		Code:      query,
		TotalRows: ds.Len(),
		Matches:   make([]Row, 0),
	}
	if ds == nil {
		return report
	}

	q := string(query)
	for _, r := range ds.Rows {
		if !strings.HasPrefix(string(r.Diagnosis), q) {
			continue
		}
		report.PrefixCount++
		report.Matches = append(report.Matches, r)
		if r.Diagnosis == query {
			report.ExactCount++
		}
	}

	report.MatchFrequencies = Frequencies(report.Matches)
	report.TopGlobal = Frequencies(ds.Rows).Top(GlobalTopN)
	return report
}
