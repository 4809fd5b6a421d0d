package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRecordID_Stable(t *testing.T) {
	id1 := RecordID("I feel anxious", "Let's talk about that")
	id2 := RecordID("I feel anxious", "Let's talk about that")
	if id1 != id2 {
		t.Errorf("RecordID not stable: %s != %s", id1, id2)
	}
	if len(id1) != 16 {
		t.Errorf("Expected 16 char id, got %d chars", len(id1))
	}
	if RecordID("a", "b") == RecordID("b", "a") {
		t.Error("RecordID should distinguish context from response")
	}
}

func TestSourceID_TranslatedRecordKeepsSourceID(t *testing.T) {
	source := Record{Context: "I feel anxious", Response: "Let's talk about that"}
	translated := Record{
		Context:      "我感到焦虑",
		Response:     "我们来谈谈吧",
		OrigContext:  "I feel anxious",
		OrigResponse: "Let's talk about that",
	}

	if source.SourceID() != translated.SourceID() {
		t.Errorf("Translated record should share id with its source: %s != %s",
			source.SourceID(), translated.SourceID())
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dataset.json")

	records := []Record{
		{Context: "I feel anxious", Response: "Let's talk about that"},
		{Context: "I can't sleep", Response: "How long has this been going on?"},
	}
	for i := range records {
		records[i].ID = records[i].SourceID()
	}

	if err := Save(path, records); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(records, loaded) {
		t.Errorf("Round trip mismatch:\nwant %+v\ngot  %+v", records, loaded)
	}
}

func TestLoad_AssignsIDs(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dataset.json")

	raw := `[{"Context": "I feel anxious", "Response": "Let's talk about that"}]`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	want := RecordID("I feel anxious", "Let's talk about that")
	if records[0].ID != want {
		t.Errorf("Expected id %s, got %s", want, records[0].ID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestTraining_Projection(t *testing.T) {
	r := Record{
		Context:      "我感到焦虑",
		Response:     "我们来谈谈吧",
		OrigContext:  "I feel anxious",
		OrigResponse: "Let's talk about that",
	}
	ex := r.Training()
	if ex.Input != r.Context || ex.Output != r.Response {
		t.Error("Training example should use the translated side as input/output")
	}
	if ex.InputEN != r.OrigContext || ex.OutputEN != r.OrigResponse {
		t.Error("Training example should carry the English originals")
	}
	if ex.ID != r.SourceID() {
		t.Errorf("Expected id %s, got %s", r.SourceID(), ex.ID)
	}
}
