// Package manage offers the store management operations: statistics,
// keyword search, random sampling, and training data export.
package manage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"counselkit/internal/dataset"
	"counselkit/internal/store"
)

// Stats is a snapshot of the store contents.
type Stats struct {
	TotalRecords      int
	TranslatedRecords int
	SourceRecords     int
	Indexes           []string
}

// GetStats collects the store statistics.
func GetStats(ctx context.Context, st *store.Store) (*Stats, error) {
	total, err := st.Count(ctx)
	if err != nil {
		return nil, err
	}
	translated, err := st.CountTranslated(ctx)
	if err != nil {
		return nil, err
	}
	source, err := st.CountSource(ctx)
	if err != nil {
		return nil, err
	}
	indexes, err := st.Indexes(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalRecords:      total,
		TranslatedRecords: translated,
		SourceRecords:     source,
		Indexes:           indexes,
	}, nil
}

// Search looks up records containing the keyword in the chosen language side.
func Search(ctx context.Context, st *store.Store, keyword string, sourceLang bool, limit int) ([]dataset.Record, error) {
	if limit <= 0 {
		limit = 5
	}
	return st.Search(ctx, keyword, sourceLang, limit)
}

// Sample returns n random records.
func Sample(ctx context.Context, st *store.Store, n int) ([]dataset.Record, error) {
	if n <= 0 {
		n = 3
	}
	return st.Sample(ctx, n)
}

// ExportTraining writes every stored record as a training example and
// returns the number of examples written.
func ExportTraining(ctx context.Context, st *store.Store, outputFile string) (int, error) {
	records, err := st.All(ctx)
	if err != nil {
		return 0, err
	}

	examples := make([]dataset.TrainingExample, 0, len(records))
	for _, r := range records {
		examples = append(examples, r.Training())
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(examples); err != nil {
		return 0, fmt.Errorf("failed to encode training data: %w", err)
	}

	return len(examples), nil
}
