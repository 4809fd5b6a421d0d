// Package checkpoint persists per-record translation progress so an
// interrupted batch run can resume without re-translating finished records.
//
// The store is a JSONL file with one entry appended per completed attempt.
// Appending line by line means a crash loses at most the in-flight record:
// on load, a truncated trailing line is skipped and its record is simply
// translated again.
package checkpoint

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status is the translation state of one record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Entry records the outcome of one translation attempt. Done entries carry
// the translated text; failed entries carry the failure reason.
type Entry struct {
	ID       string    `json:"id"`
	Status   Status    `json:"status"`
	Context  string    `json:"context,omitempty"`
	Response string    `json:"response,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Store is a file-backed checkpoint store. It is safe for a single writer,
// which is all the sequential batch driver needs.
type Store struct {
	path    string
	file    *os.File
	entries map[string]Entry
}

// Open loads the checkpoint file at path, creating it if absent.
// Unreadable lines are skipped: their records are treated as pending.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
		}
	}

	entries := make(map[string]Entry)
	if data, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(data)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			var e Entry
			if err := json.Unmarshal(scanner.Bytes(), &e); err != nil || e.ID == "" {
				continue // partial or corrupt line, record stays pending
			}
			apply(entries, e)
		}
		data.Close()
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file for append: %w", err)
	}

	return &Store{path: path, file: file, entries: entries}, nil
}

// apply folds an entry into the map. A done entry is never superseded by a
// later failed entry; forcing re-translation requires an explicit Reset.
func apply(entries map[string]Entry, e Entry) {
	if prev, ok := entries[e.ID]; ok && prev.Status == StatusDone && e.Status != StatusDone {
		return
	}
	entries[e.ID] = e
}

// Record appends an entry and syncs it to disk before returning, so a
// crash after Record never loses the attempt. Recording a non-done entry
// over a done one is a no-op.
func (s *Store) Record(e Entry) error {
	if prev, ok := s.entries[e.ID]; ok && prev.Status == StatusDone && e.Status != StatusDone {
		return nil
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint entry: %w", err)
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write checkpoint entry: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	apply(s.entries, e)
	return nil
}

// IsDone reports whether the record already has a successful translation.
func (s *Store) IsDone(id string) bool {
	e, ok := s.entries[id]
	return ok && e.Status == StatusDone
}

// Get returns the latest entry for id.
func (s *Store) Get(id string) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Len returns the number of checkpointed records.
func (s *Store) Len() int {
	return len(s.entries)
}

// DoneCount returns the number of records marked done.
func (s *Store) DoneCount() int {
	n := 0
	for _, e := range s.entries {
		if e.Status == StatusDone {
			n++
		}
	}
	return n
}

// Reset removes the entry for id by rewriting the checkpoint file. This is
// the only way to discard a done entry.
func (s *Store) Reset(id string) error {
	if _, ok := s.entries[id]; !ok {
		return nil
	}
	delete(s.entries, id)
	return s.rewrite()
}

func (s *Store) rewrite() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".checkpoint-*.jsonl")
	if err != nil {
		return fmt.Errorf("failed to create temp checkpoint file: %w", err)
	}
	defer os.Remove(tmp.Name())

	for _, e := range s.entries {
		data, err := json.Marshal(e)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("failed to encode checkpoint entry: %w", err)
		}
		if _, err := tmp.Write(append(data, '\n')); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write checkpoint entry: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp checkpoint file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to reopen checkpoint file: %w", err)
	}
	s.file = file
	return nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	return s.file.Close()
}
