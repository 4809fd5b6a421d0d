// Package verify runs read-only consistency checks against the document
// store and reports structured pass/fail per check, so a missing index is
// distinguishable from incomplete data.
package verify

import (
	"context"
	"fmt"

	"counselkit/internal/store"
)

// Check is one verification result.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Report is the outcome of a full verification pass.
type Report struct {
	TotalRecords    int
	MissingRequired int
	Checks          []Check
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

func (r *Report) add(name string, passed bool, format string, args ...interface{}) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: fmt.Sprintf(format, args...)})
}

// Run executes all checks. Verification never mutates the store and always
// returns a complete report; data problems are report rows, not errors.
func Run(ctx context.Context, st *store.Store) (*Report, error) {
	report := &Report{}

	total, err := st.Count(ctx)
	if err != nil {
		return nil, err
	}
	report.TotalRecords = total
	report.add("record_count", total > 0, "%d records", total)

	missing, err := st.CountMissingRequired(ctx)
	if err != nil {
		return nil, err
	}
	report.MissingRequired = missing
	report.add("required_fields", missing == 0, "%d records missing context or response", missing)

	translated, err := st.CountTranslated(ctx)
	if err != nil {
		return nil, err
	}
	source, err := st.CountSource(ctx)
	if err != nil {
		return nil, err
	}
	report.add("language_consistency", translated == total && source == total,
		"total=%d translated=%d source=%d", total, translated, source)

	indexes, err := st.Indexes(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(indexes))
	for _, name := range indexes {
		present[name] = true
	}
	missingIdx := []string{}
	for _, name := range store.RequiredIndexes {
		if !present[name] {
			missingIdx = append(missingIdx, name)
		}
	}
	report.add("indexes", len(missingIdx) == 0, "%d indexes present, missing %v", len(indexes), missingIdx)

	// Smoke tests: a point lookup by a known id must hit, and a keyword
	// search for a fragment of that record must find it again.
	id, err := st.AnyID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		report.add("sample_lookup", false, "store is empty, nothing to look up")
		report.add("search_smoke", false, "store is empty, nothing to search for")
		return report, nil
	}

	rec, err := st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	report.add("sample_lookup", rec != nil, "lookup of id %s", id)

	if rec == nil || rec.Context == "" {
		report.add("search_smoke", false, "record %s has no context to search for", id)
		return report, nil
	}
	keyword := firstRunes(rec.Context, 4)
	hits, err := st.Search(ctx, keyword, false, 1)
	if err != nil {
		return nil, err
	}
	report.add("search_smoke", len(hits) > 0, "search for %q returned %d hits", keyword, len(hits))

	return report, nil
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
