// Package configstore provides typed key/value persistence with
// default-merging reads and change notification. Records are flat string-keyed
// maps; readers always receive the descriptor's defaults overlaid with
// whatever partial record the medium holds, so adding a field never breaks an
// old install.
package configstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperifyio/goreader/internal/report"
)

// Record is one persisted configuration object.
type Record = map[string]any

// Descriptor identifies a persisted record and carries its factory defaults.
type Descriptor struct {
	Key     string
	Area    string
	Default Record
}

// ChangeEvent describes a completed write.
type ChangeEvent struct {
	Key  string
	Area string
	Old  Record
	New  Record
}

// Listener receives change events for a subscribed key.
type Listener func(ChangeEvent)

// StorageError wraps a medium read/write failure.
type StorageError struct {
	Op   string
	Area string
	Key  string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Area, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Medium is the underlying persistence mechanism.
type Medium interface {
	// Read returns the stored record, whether one exists, and any I/O error.
	Read(ctx context.Context, area, key string) (Record, bool, error)
	Write(ctx context.Context, area, key string, rec Record) error
	Delete(ctx context.Context, area, key string) error
}

type subscription struct {
	id int
	fn Listener
}

// Store is the configuration store. Reads absorb medium failures into the
// descriptor default; writes report and return the failure so the caller can
// decide on retry.
type Store struct {
	medium   Medium
	reporter *report.Reporter

	mu     sync.Mutex
	subs   map[string][]subscription
	nextID int
}

// New creates a Store over the given medium. A nil reporter discards.
func New(medium Medium, reporter *report.Reporter) *Store {
	if reporter == nil {
		reporter = report.Discard()
	}
	return &Store{
		medium:   medium,
		reporter: reporter,
		subs:     make(map[string][]subscription),
	}
}

// Get returns the stored record shallow-merged over the descriptor default.
// The boolean reports whether a stored record existed. Read failures are
// reported and fall back to the default.
func (s *Store) Get(ctx context.Context, d Descriptor) (Record, bool) {
	stored, found, err := s.medium.Read(ctx, d.Area, d.Key)
	if err != nil {
		s.reporter.Warn("configstore.get", &StorageError{Op: "read", Area: d.Area, Key: d.Key, Err: err})
		return clone(d.Default), false
	}
	if !found {
		return clone(d.Default), false
	}
	return merge(d.Default, stored), true
}

// Set writes the full value and emits a change event on success. On failure
// the error is reported and returned wrapped in a StorageError.
func (s *Store) Set(ctx context.Context, d Descriptor, value Record) error {
	old, _, _ := s.medium.Read(ctx, d.Area, d.Key)
	if err := s.medium.Write(ctx, d.Area, d.Key, value); err != nil {
		serr := &StorageError{Op: "write", Area: d.Area, Key: d.Key, Err: err}
		s.reporter.Error("configstore.set", serr)
		return serr
	}
	s.emit(ChangeEvent{Key: d.Key, Area: d.Area, Old: old, New: clone(value)})
	return nil
}

// Update reads, shallow-merges the partial over the current value, and writes
// the result back.
func (s *Store) Update(ctx context.Context, d Descriptor, partial Record) error {
	current, _ := s.Get(ctx, d)
	return s.Set(ctx, d, merge(current, partial))
}

// Reset writes the descriptor default back to the medium.
func (s *Store) Reset(ctx context.Context, d Descriptor) error {
	return s.Set(ctx, d, clone(d.Default))
}

// Remove deletes the stored record entirely, so the next Get yields pure
// defaults.
func (s *Store) Remove(ctx context.Context, d Descriptor) error {
	old, _, _ := s.medium.Read(ctx, d.Area, d.Key)
	if err := s.medium.Delete(ctx, d.Area, d.Key); err != nil {
		serr := &StorageError{Op: "delete", Area: d.Area, Key: d.Key, Err: err}
		s.reporter.Error("configstore.remove", serr)
		return serr
	}
	s.emit(ChangeEvent{Key: d.Key, Area: d.Area, Old: old})
	return nil
}

// Subscribe registers a listener for change events on key and returns an
// unsubscribe function. Multiple listeners per key are permitted. Listener
// panics are reported and never propagate to the emitter.
func (s *Store) Subscribe(key string, fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[key] = append(s.subs[key], subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.subs[key]
		out := list[:0]
		for _, sub := range list {
			if sub.id != id {
				out = append(out, sub)
			}
		}
		if len(out) == 0 {
			delete(s.subs, key)
		} else {
			s.subs[key] = out
		}
	}
}

// emit delivers ev to every listener subscribed to ev.Key. Called from Set
// and from the external-change watcher, hence the snapshot under lock.
func (s *Store) emit(ev ChangeEvent) {
	s.mu.Lock()
	list := append([]subscription(nil), s.subs[ev.Key]...)
	s.mu.Unlock()

	for _, sub := range list {
		s.deliver(sub, ev)
	}
}

func (s *Store) deliver(sub subscription, ev ChangeEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			s.reporter.Error("configstore.listener", fmt.Errorf("listener panic for key %q: %v", ev.Key, rec))
		}
	}()
	sub.fn(ev)
}

// merge returns base overlaid with overlay, one level deep. Neither input is
// mutated.
func merge(base, overlay Record) Record {
	out := clone(base)
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func clone(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
