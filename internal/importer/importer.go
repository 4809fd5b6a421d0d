// Package importer loads finished dataset records into the document store,
// deduplicating by record id.
package importer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"counselkit/internal/dataset"
	"counselkit/internal/store"
)

// ConflictError reports a record whose id already exists in the store with
// different content. Without the overwrite option the stored record is
// left untouched.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("record %s already exists with different content", e.ID)
}

// Options controls one import run.
type Options struct {
	// Overwrite replaces conflicting records instead of reporting them.
	Overwrite bool
	// Reset clears the store before importing.
	Reset bool
}

// Report holds per-record outcome counts for an import run.
type Report struct {
	Total     int
	Inserted  int
	Skipped   int
	Replaced  int
	Conflicts []ConflictError
}

// OK reports whether the run completed without unresolved conflicts.
func (r *Report) OK() bool {
	return len(r.Conflicts) == 0
}

// Import upserts each record into the store keyed by id. A record already
// present with identical content is a no-op; differing content is a
// conflict unless Overwrite is set. Each upsert is atomic; a conflict on
// one record never blocks the rest of the batch.
func Import(ctx context.Context, st *store.Store, records []dataset.Record, opts Options) (*Report, error) {
	if opts.Reset {
		cleared, err := st.Clear(ctx)
		if err != nil {
			return nil, fmt.Errorf("reset before import: %w", err)
		}
		if cleared > 0 {
			logrus.Infof("cleared %d existing records", cleared)
		}
	}

	if err := st.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	report := &Report{Total: len(records)}
	for _, r := range records {
		r.ID = r.SourceID()

		existing, err := st.Hash(ctx, r.ID)
		if err != nil {
			return nil, err
		}

		switch {
		case existing == "":
			if err := st.Upsert(ctx, r); err != nil {
				return nil, err
			}
			report.Inserted++
		case existing == store.ContentHash(r):
			report.Skipped++
		case opts.Overwrite:
			if err := st.Upsert(ctx, r); err != nil {
				return nil, err
			}
			report.Replaced++
		default:
			conflict := ConflictError{ID: r.ID}
			logrus.Warnf("import conflict: %v", &conflict)
			report.Conflicts = append(report.Conflicts, conflict)
		}
	}

	logrus.Infof("import finished: %d inserted, %d skipped, %d replaced, %d conflicts",
		report.Inserted, report.Skipped, report.Replaced, len(report.Conflicts))
	return report, nil
}
