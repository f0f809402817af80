package journal

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl.zst")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Time: ts, Dir: DirInbound, Type: "join", SnakeID: "s1", Payload: json.RawMessage(`{"username":"a"}`)},
		{Time: ts.Add(time.Second), Dir: DirOutbound, Type: "snake_update", SnakeID: "s1"},
		{Time: ts.Add(2 * time.Second), Dir: DirOutbound, Type: "leaderboard_update"},
	}
	for _, e := range entries {
		if err := w.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var got []Entry
	if err := Read(path, func(e Entry) error {
		got = append(got, e)
		return nil
	}); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(got) != len(entries) {
		t.Fatalf("read %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if !got[i].Time.Equal(entries[i].Time) || got[i].Dir != entries[i].Dir ||
			got[i].Type != entries[i].Type || got[i].SnakeID != entries[i].SnakeID {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
	if string(got[0].Payload) != `{"username":"a"}` {
		t.Fatalf("payload = %s", got[0].Payload)
	}
}

func TestAppendStampsMissingTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl.zst")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Append(Entry{Dir: DirInbound, Type: "move"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var got Entry
	if err := Read(path, func(e Entry) error {
		got = e
		return nil
	}); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Time.IsZero() {
		t.Fatal("time not stamped on append")
	}
}

func TestReadCallbackErrorPropagates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl.zst")
	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := w.Append(Entry{Dir: DirInbound, Type: "move"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sentinel := errors.New("stop here")
	seen := 0
	err = Read(path, func(Entry) error {
		seen++
		if seen == 2 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want the callback sentinel", err)
	}
	if seen != 2 {
		t.Fatalf("visited %d entries, want 2", seen)
	}
}

func TestNilWriterIsInert(t *testing.T) {
	var w *Writer
	if err := w.Append(Entry{Type: "move"}); err != nil {
		t.Fatalf("nil Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}
