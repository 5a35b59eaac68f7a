package configstore

import (
	"context"
	"errors"
	"testing"
)

var styleDesc = Descriptor{
	Key:  "style",
	Area: "local",
	Default: Record{
		"theme":      "light",
		"fontSize":   "medium",
		"fontFamily": "sans-serif",
	},
}

func TestGetMergesPartialOverDefaults(t *testing.T) {
	m := NewMemoryMedium()
	if err := m.Write(context.Background(), "local", "style", Record{"theme": "dark"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := New(m, nil)

	rec, found := s.Get(context.Background(), styleDesc)
	if !found {
		t.Fatalf("expected stored record to be found")
	}
	if rec["theme"] != "dark" {
		t.Fatalf("expected stored theme to win, got %v", rec["theme"])
	}
	if rec["fontSize"] != "medium" || rec["fontFamily"] != "sans-serif" {
		t.Fatalf("expected defaults for missing keys, got %v", rec)
	}
}

func TestGetMissingReturnsDefaults(t *testing.T) {
	s := New(NewMemoryMedium(), nil)
	rec, found := s.Get(context.Background(), styleDesc)
	if found {
		t.Fatalf("expected no stored record")
	}
	if rec["theme"] != "light" {
		t.Fatalf("expected default theme, got %v", rec["theme"])
	}
	// The returned record must be a copy, not the descriptor default itself.
	rec["theme"] = "mutated"
	if styleDesc.Default["theme"] != "light" {
		t.Fatalf("descriptor default was mutated")
	}
}

type failingMedium struct {
	readErr  error
	writeErr error
}

func (m *failingMedium) Read(context.Context, string, string) (Record, bool, error) {
	return nil, false, m.readErr
}
func (m *failingMedium) Write(context.Context, string, string, Record) error {
	return m.writeErr
}
func (m *failingMedium) Delete(context.Context, string, string) error {
	return m.writeErr
}

func TestGetReadFailureFallsBackToDefaults(t *testing.T) {
	s := New(&failingMedium{readErr: errors.New("disk gone")}, nil)
	rec, found := s.Get(context.Background(), styleDesc)
	if found {
		t.Fatalf("read failure must not count as found")
	}
	if rec["theme"] != "light" {
		t.Fatalf("expected defaults on read failure, got %v", rec)
	}
}

func TestSetFailureReturnsStorageError(t *testing.T) {
	s := New(&failingMedium{writeErr: errors.New("read-only fs")}, nil)
	err := s.Set(context.Background(), styleDesc, Record{"theme": "dark"})
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if serr.Op != "write" {
		t.Fatalf("expected write op, got %q", serr.Op)
	}
}

func TestSetEmitsChangeEvent(t *testing.T) {
	s := New(NewMemoryMedium(), nil)
	var got []ChangeEvent
	unsub := s.Subscribe("style", func(ev ChangeEvent) { got = append(got, ev) })

	if err := s.Set(context.Background(), styleDesc, Record{"theme": "sepia"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one event, got %d", len(got))
	}
	if got[0].Key != "style" || got[0].Area != "local" {
		t.Fatalf("unexpected event identity: %+v", got[0])
	}
	if got[0].Old != nil {
		t.Fatalf("expected nil old value on first write, got %v", got[0].Old)
	}
	if got[0].New["theme"] != "sepia" {
		t.Fatalf("unexpected new value: %v", got[0].New)
	}

	// Second write carries the previous value.
	if err := s.Set(context.Background(), styleDesc, Record{"theme": "dark"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(got) != 2 || got[1].Old["theme"] != "sepia" {
		t.Fatalf("expected old value sepia, got %+v", got)
	}

	unsub()
	if err := s.Set(context.Background(), styleDesc, Record{"theme": "light"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unsubscribed listener still received events")
	}
}

func TestListenerPanicDoesNotPropagate(t *testing.T) {
	s := New(NewMemoryMedium(), nil)
	s.Subscribe("style", func(ChangeEvent) { panic("bad listener") })
	var ok bool
	s.Subscribe("style", func(ChangeEvent) { ok = true })

	if err := s.Set(context.Background(), styleDesc, Record{"theme": "dark"}); err != nil {
		t.Fatalf("set returned error despite panicking listener: %v", err)
	}
	if !ok {
		t.Fatalf("second listener not invoked after first panicked")
	}
}

func TestUpdateMergesPartial(t *testing.T) {
	s := New(NewMemoryMedium(), nil)
	if err := s.Set(context.Background(), styleDesc, Record{"theme": "dark", "fontSize": "large"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Update(context.Background(), styleDesc, Record{"fontSize": "small"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec, _ := s.Get(context.Background(), styleDesc)
	if rec["theme"] != "dark" || rec["fontSize"] != "small" {
		t.Fatalf("unexpected record after update: %v", rec)
	}
}

func TestResetAndRemove(t *testing.T) {
	m := NewMemoryMedium()
	s := New(m, nil)
	if err := s.Set(context.Background(), styleDesc, Record{"theme": "dark"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Reset(context.Background(), styleDesc); err != nil {
		t.Fatalf("reset: %v", err)
	}
	rec, found := s.Get(context.Background(), styleDesc)
	if !found || rec["theme"] != "light" {
		t.Fatalf("expected defaults written by reset, got %v found=%v", rec, found)
	}
	if err := s.Remove(context.Background(), styleDesc); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found := s.Get(context.Background(), styleDesc); found {
		t.Fatalf("record should be gone after remove")
	}
}
