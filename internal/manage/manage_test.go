package manage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"counselkit/internal/dataset"
	"counselkit/internal/importer"
	"counselkit/internal/store"
)

func populatedStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	records := []dataset.Record{
		{
			Context:      "我感到焦虑",
			Response:     "我们来谈谈吧",
			OrigContext:  "I feel anxious",
			OrigResponse: "Let's talk about that",
		},
		{
			Context:      "我睡不着",
			Response:     "这种情况持续多久了",
			OrigContext:  "I can't sleep",
			OrigResponse: "How long has this been going on?",
		},
	}
	if _, err := importer.Import(context.Background(), st, records, importer.Options{}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	return st
}

func TestGetStats(t *testing.T) {
	st := populatedStore(t)

	stats, err := GetStats(context.Background(), st)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.TotalRecords != 2 || stats.TranslatedRecords != 2 || stats.SourceRecords != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if len(stats.Indexes) < len(store.RequiredIndexes) {
		t.Errorf("Expected indexes in stats, got %v", stats.Indexes)
	}
}

func TestSearch(t *testing.T) {
	st := populatedStore(t)

	got, err := Search(context.Background(), st, "anxious", true, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].OrigContext != "I feel anxious" {
		t.Errorf("Unexpected search result: %+v", got)
	}
}

func TestSample(t *testing.T) {
	st := populatedStore(t)

	got, err := Sample(context.Background(), st, 0)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Default sample should return up to 3 records, got %d", len(got))
	}
}

func TestExportTraining(t *testing.T) {
	st := populatedStore(t)
	out := filepath.Join(t.TempDir(), "export", "training.json")

	n, err := ExportTraining(context.Background(), st, out)
	if err != nil {
		t.Fatalf("ExportTraining failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 exported examples, got %d", n)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	var examples []dataset.TrainingExample
	if err := json.Unmarshal(data, &examples); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("Expected 2 examples in export, got %d", len(examples))
	}
	for _, ex := range examples {
		if ex.Input == "" || ex.Output == "" {
			t.Errorf("Example missing translated text: %+v", ex)
		}
		if ex.InputEN == "" || ex.OutputEN == "" {
			t.Errorf("Example missing source text: %+v", ex)
		}
		if ex.ID == "" {
			t.Errorf("Example missing id: %+v", ex)
		}
	}
}

func TestExportTraining_EmptyStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	defer st.Close()
	out := filepath.Join(t.TempDir(), "training.json")

	n, err := ExportTraining(context.Background(), st, out)
	if err != nil {
		t.Fatalf("ExportTraining failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 exported examples, got %d", n)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Export file should exist even when empty: %v", err)
	}
}
