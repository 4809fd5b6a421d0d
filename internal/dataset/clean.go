package dataset

import (
	"strings"
)

// mojibake covers the common broken UTF-8 sequences found in Reddit-style
// exports of the source dataset ("I‚Äôm" -> "I'm" and friends).
var mojibake = map[string]string{
	"â€™": "'", "â€˜": "'", "â€œ": "\"", "â€": "\"",
	"â€”": "-", "â€“": "-", "Â ": " ", "â€¦": "...",
	"‚Äô": "'", "‚Ä¶": "...", "‚Äì": "-",
}

// CleanText repairs mojibake and collapses runs of spaces and tabs.
func CleanText(s string) string {
	for k, v := range mojibake {
		s = strings.ReplaceAll(s, k, v)
	}
	fields := strings.Split(s, "\n")
	for i, line := range fields {
		fields[i] = strings.Join(strings.Fields(line), " ")
	}
	s = strings.Join(fields, "\n")
	return strings.TrimSpace(s)
}

// CleanReport summarizes one cleaning pass.
type CleanReport struct {
	Total      int
	Kept       int
	Empty      int
	Duplicates int
	Filtered   int
}

// Clean normalizes record text, drops records with an empty context or
// response, and dedupes by record id (first occurrence wins). When a
// keyword filter is provided, records scoring below its threshold are
// dropped as well.
func Clean(records []Record, filter *KeywordFilter) ([]Record, CleanReport) {
	report := CleanReport{Total: len(records)}
	seen := make(map[string]struct{}, len(records))

	var kept []Record
	for _, r := range records {
		r.Context = CleanText(r.Context)
		r.Response = CleanText(r.Response)
		r.OrigContext = CleanText(r.OrigContext)
		r.OrigResponse = CleanText(r.OrigResponse)

		if r.Context == "" || r.Response == "" {
			report.Empty++
			continue
		}

		r.ID = RecordID(r.OrigOrContext(), r.OrigOrResponse())
		if _, ok := seen[r.ID]; ok {
			report.Duplicates++
			continue
		}

		if filter != nil && filter.Score(r.Context+"\n"+r.Response) < filter.MinScore {
			report.Filtered++
			continue
		}

		seen[r.ID] = struct{}{}
		kept = append(kept, r)
	}

	report.Kept = len(kept)
	return kept, report
}

// OrigOrContext returns the source-language context when present.
func (r Record) OrigOrContext() string {
	if r.OrigContext != "" {
		return r.OrigContext
	}
	return r.Context
}

// OrigOrResponse returns the source-language response when present.
func (r Record) OrigOrResponse() string {
	if r.OrigResponse != "" {
		return r.OrigResponse
	}
	return r.Response
}

// KeywordFilter scores text by counting keyword hits. It is the cheap
// prefilter stage of the original topic filter: records that never mention
// any keyword of interest are dropped before any expensive processing.
type KeywordFilter struct {
	Keywords []string
	MinScore int
}

// Score counts how many of the filter's keywords occur in text,
// case-insensitively. Each keyword counts at most once.
func (f *KeywordFilter) Score(text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, kw := range f.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			score++
		}
	}
	return score
}
