package dataset

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Record is one counseling dialogue unit: a question/prompt (Context) and
// the counselor answer (Response). Translated records keep the English
// source text in the original_* fields, matching the dataset file layout.
type Record struct {
	ID           string `json:"id,omitempty"`
	Context      string `json:"Context"`
	Response     string `json:"Response"`
	OrigContext  string `json:"original_Context,omitempty"`
	OrigResponse string `json:"original_Response,omitempty"`
	Topic        string `json:"topic,omitempty"`
}

// TrainingExample is the derived {input, output} projection exported for
// model training. It is generated from stored records, never hand-edited.
type TrainingExample struct {
	Input    string `json:"input"`
	Output   string `json:"output"`
	InputEN  string `json:"input_en"`
	OutputEN string `json:"output_en"`
	ID       string `json:"id"`
}

// RecordID derives a stable identity for a context/response pair.
// The id is a truncated sha1 over the source-language content, so the same
// dialogue always maps to the same id regardless of its position in the
// file, and a source record shares its id with its translation.
func RecordID(context, response string) string {
	h := sha1.New()
	h.Write([]byte(context))
	h.Write([]byte{0x1f})
	h.Write([]byte(response))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// SourceID returns the record's stable id, deriving it from the original
// (source language) text when present so translated records keep the id of
// the record they were translated from.
func (r Record) SourceID() string {
	if r.ID != "" {
		return r.ID
	}
	if r.OrigContext != "" || r.OrigResponse != "" {
		return RecordID(r.OrigContext, r.OrigResponse)
	}
	return RecordID(r.Context, r.Response)
}

// Training projects a record into its training example shape.
func (r Record) Training() TrainingExample {
	return TrainingExample{
		Input:    r.Context,
		Output:   r.Response,
		InputEN:  r.OrigContext,
		OutputEN: r.OrigResponse,
		ID:       r.SourceID(),
	}
}

// Load reads a dataset file (a JSON array of records) and assigns stable
// ids to any record that does not carry one.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse dataset file %s: %w", path, err)
	}

	for i := range records {
		records[i].ID = records[i].SourceID()
	}
	return records, nil
}

// Save writes records as an indented JSON array. The write goes through a
// temp file and rename so an interrupted save never leaves a truncated
// dataset behind.
func Save(path string, records []Record) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp dataset file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp dataset file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	return nil
}
