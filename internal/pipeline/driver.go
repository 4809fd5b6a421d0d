// Package pipeline drives the checkpointed batch translation of a source
// dataset. Records are processed one at a time in source order; every
// completed attempt is persisted before the next record starts, so an
// interrupt at any point leaves the checkpoint ready for a clean resume.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"counselkit/internal/checkpoint"
	"counselkit/internal/dataset"
)

// Translator is the remote translation dependency. The production
// implementation is translator.Adapter; tests substitute a scripted mock.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// CheckpointStore is the durable progress dependency, injected so tests
// can run against a throwaway store.
type CheckpointStore interface {
	IsDone(id string) bool
	Get(id string) (checkpoint.Entry, bool)
	Record(e checkpoint.Entry) error
}

// Result summarizes one driver run. Records holds the target dataset in
// source order: the union of previously done entries and entries completed
// during this run.
type Result struct {
	RunID      string
	Total      int
	Translated int
	Skipped    int
	Failed     int
	Records    []dataset.Record
}

// Driver iterates the source dataset, translating records that are not yet
// checkpointed as done. Failed records are recorded and retried on the
// next run; they never abort the batch.
type Driver struct {
	translator Translator
	ckpt       CheckpointStore
	processed  atomic.Int64

	// LogEvery controls the cadence of progress log lines.
	LogEvery int
}

// New creates a driver over the given translator and checkpoint store.
func New(translator Translator, ckpt CheckpointStore) *Driver {
	return &Driver{
		translator: translator,
		ckpt:       ckpt,
		LogEvery:   100,
	}
}

// Processed returns the monotonically increasing count of records handled
// so far, for progress observation from other goroutines.
func (d *Driver) Processed() int64 {
	return d.processed.Load()
}

// Run processes the source dataset. It returns an error only for failures
// that break resumability (checkpoint writes, cancellation); per-record
// translation failures are reflected in Result.Failed instead.
func (d *Driver) Run(ctx context.Context, source []dataset.Record) (*Result, error) {
	result := &Result{
		RunID: uuid.NewString(),
		Total: len(source),
	}
	log := logrus.WithField("run_id", result.RunID)
	log.Infof("starting translation run: %d records", len(source))

	for i, record := range source {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("translation run interrupted: %w", ctx.Err())
		default:
		}

		if d.ckpt.IsDone(record.ID) {
			result.Skipped++
			d.processed.Add(1)
			continue
		}

		// pending -> in-progress; the in-progress state is in-memory only,
		// the checkpoint file records completed attempts.
		if err := d.translateRecord(ctx, record, result, log); err != nil {
			return nil, err
		}

		d.processed.Add(1)
		if d.LogEvery > 0 && (i+1)%d.LogEvery == 0 {
			log.Infof("progress: %d/%d records processed", i+1, len(source))
		}
	}

	for _, record := range source {
		if entry, ok := d.ckpt.Get(record.ID); ok && entry.Status == checkpoint.StatusDone {
			result.Records = append(result.Records, dataset.Record{
				ID:           record.ID,
				Context:      entry.Context,
				Response:     entry.Response,
				OrigContext:  record.Context,
				OrigResponse: record.Response,
				Topic:        record.Topic,
			})
		}
	}

	d.printSummary(result)
	return result, nil
}

// translateRecord translates both sides of one record and checkpoints the
// outcome. Only checkpoint write failures are returned as errors.
func (d *Driver) translateRecord(ctx context.Context, record dataset.Record, result *Result, log *logrus.Entry) error {
	// A done entry must carry non-empty translated text, so a record with
	// an empty side cannot succeed; fail it without a remote call.
	if strings.TrimSpace(record.Context) == "" || strings.TrimSpace(record.Response) == "" {
		log.WithField("record_id", record.ID).Warn("record has an empty context or response")
		result.Failed++
		if cerr := d.ckpt.Record(checkpoint.Entry{
			ID:     record.ID,
			Status: checkpoint.StatusFailed,
			Reason: "empty context or response",
		}); cerr != nil {
			return fmt.Errorf("checkpoint write failed, aborting run: %w", cerr)
		}
		return nil
	}

	contextZH, err := d.translator.Translate(ctx, record.Context)
	var responseZH string
	if err == nil {
		responseZH, err = d.translator.Translate(ctx, record.Response)
	}

	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("translation run interrupted: %w", ctx.Err())
		}
		log.WithField("record_id", record.ID).Warnf("translation failed: %v", err)
		result.Failed++
		if cerr := d.ckpt.Record(checkpoint.Entry{
			ID:     record.ID,
			Status: checkpoint.StatusFailed,
			Reason: err.Error(),
		}); cerr != nil {
			return fmt.Errorf("checkpoint write failed, aborting run: %w", cerr)
		}
		return nil
	}

	if cerr := d.ckpt.Record(checkpoint.Entry{
		ID:       record.ID,
		Status:   checkpoint.StatusDone,
		Context:  contextZH,
		Response: responseZH,
	}); cerr != nil {
		return fmt.Errorf("checkpoint write failed, aborting run: %w", cerr)
	}
	result.Translated++
	return nil
}

func (d *Driver) printSummary(result *Result) {
	fmt.Printf("\n=== Translation Run Summary ===\n")
	fmt.Printf("Total records: %d\n", result.Total)
	fmt.Printf("Translated: %d\n", result.Translated)
	fmt.Printf("Skipped (already done): %d\n", result.Skipped)
	if result.Failed > 0 {
		fmt.Printf("Failed: %d\n", result.Failed)
	}
	fmt.Printf("Target dataset size: %d\n", len(result.Records))
	fmt.Printf("===============================\n")
}
