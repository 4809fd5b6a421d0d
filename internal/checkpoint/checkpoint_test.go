package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_MissingFile(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "checkpoint.jsonl"))
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d entries", s.Len())
	}
}

func TestRecord_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.jsonl")

	s := openStore(t, path)
	err := s.Record(Entry{ID: "abc", Status: StatusDone, Context: "你好", Response: "再见"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	err = s.Record(Entry{ID: "def", Status: StatusFailed, Reason: "rate limited"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	s.Close()

	reopened := openStore(t, path)
	if !reopened.IsDone("abc") {
		t.Error("done entry lost across reopen")
	}
	if reopened.IsDone("def") {
		t.Error("failed entry should not count as done")
	}
	e, ok := reopened.Get("abc")
	if !ok || e.Context != "你好" || e.Response != "再见" {
		t.Errorf("done entry lost its translated text: %+v", e)
	}
	if e, _ := reopened.Get("def"); e.Reason != "rate limited" {
		t.Errorf("failed entry lost its reason: %+v", e)
	}
}

func TestRecord_DoneNeverDowngraded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.jsonl")

	s := openStore(t, path)
	if err := s.Record(Entry{ID: "abc", Status: StatusDone, Context: "好"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(Entry{ID: "abc", Status: StatusFailed, Reason: "late failure"}); err != nil {
		t.Fatal(err)
	}

	if !s.IsDone("abc") {
		t.Error("done entry was downgraded by a failed entry")
	}
	s.Close()

	// Same invariant must hold on replay.
	reopened := openStore(t, path)
	if !reopened.IsDone("abc") {
		t.Error("done entry downgraded after reload")
	}
}

func TestOpen_ToleratesTruncatedTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.jsonl")

	s := openStore(t, path)
	if err := s.Record(Entry{ID: "abc", Status: StatusDone, Context: "好"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Simulate a crash mid-append: a half-written JSON line at the end.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(`{"id":"def","sta`); err != nil {
		t.Fatal(err)
	}
	f.Close()

	reopened := openStore(t, path)
	if !reopened.IsDone("abc") {
		t.Error("intact entry lost after partial write")
	}
	if _, ok := reopened.Get("def"); ok {
		t.Error("partial entry should be treated as pending")
	}
}

func TestFailedRetriedAfterNewDone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.jsonl")

	s := openStore(t, path)
	if err := s.Record(Entry{ID: "abc", Status: StatusFailed, Reason: "boom"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(Entry{ID: "abc", Status: StatusDone, Context: "好"}); err != nil {
		t.Fatal(err)
	}
	if !s.IsDone("abc") {
		t.Error("later done entry should supersede earlier failure")
	}
	if s.DoneCount() != 1 {
		t.Errorf("Expected 1 done entry, got %d", s.DoneCount())
	}
}

func TestReset_RemovesDoneEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.jsonl")

	s := openStore(t, path)
	if err := s.Record(Entry{ID: "abc", Status: StatusDone, Context: "好"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(Entry{ID: "def", Status: StatusDone, Context: "再"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset("abc"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if s.IsDone("abc") {
		t.Error("reset entry still done")
	}
	if !s.IsDone("def") {
		t.Error("reset removed the wrong entry")
	}
	s.Close()

	reopened := openStore(t, path)
	if reopened.IsDone("abc") {
		t.Error("reset did not survive reopen")
	}
	if !reopened.IsDone("def") {
		t.Error("untouched entry lost after reset")
	}
}
