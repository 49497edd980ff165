// Package artifact implements document slots and the artifact resolver
// (C11): lazy-loaded, dirty-tracked JSON documents published via
// atomic tmp-then-rename writes, with path conventions matching §6.
package artifact

import "sync"

// Slot wraps a single on-disk document of type T behind a lazy-load,
// dirty-tracked cache. It is the generic DocumentSlot<T> of spec §4.10.
type Slot[T any] struct {
	mu           sync.Mutex
	loader       func() (*T, error)
	saver        func(*T) error
	loaded       bool
	dirty        bool
	value        *T
	writeThrough bool
}

// NewSlot builds a Slot from loader/saver closures. If writeThrough is true,
// SetValue persists synchronously instead of merely marking dirty.
func NewSlot[T any](loader func() (*T, error), saver func(*T) error, writeThrough bool) *Slot[T] {
	return &Slot[T]{loader: loader, saver: saver, writeThrough: writeThrough}
}

// GetValue lazily loads the document on first access and returns the cached
// value thereafter.
func (s *Slot[T]) GetValue() (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		v, err := s.loader()
		if err != nil {
			return nil, err
		}
		s.value = v
		s.loaded = true
	}
	return s.value, nil
}

// SetValue caches v and marks the slot dirty. In write-through mode it also
// persists immediately.
func (s *Slot[T]) SetValue(v *T) error {
	s.mu.Lock()
	s.value = v
	s.loaded = true
	s.dirty = true
	wt := s.writeThrough
	s.mu.Unlock()
	if wt {
		return s.Save()
	}
	return nil
}

// Save writes the cached value iff the slot is dirty and non-nil.
func (s *Slot[T]) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.value == nil {
		return nil
	}
	if err := s.saver(s.value); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Invalidate clears the cache; the next GetValue re-invokes the loader.
func (s *Slot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.dirty = false
	s.value = nil
}

// Dirty reports whether the slot has unsaved changes.
func (s *Slot[T]) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}
