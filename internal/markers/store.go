// Package markers holds the ordered set of time markers placed on a track.
package markers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/starford/wavemark/internal/apperr"
)

// Marker is a point-in-time annotation on the audio timeline.
type Marker struct {
	ID       int64 `json:"id"`
	TimeMS   int64 `json:"time_ms"`
	Selected bool  `json:"selected"`
}

// Observer is notified synchronously after every mutation.
type Observer func()

// Store owns marker lifetime. Markers are kept in id (insertion) order;
// time order is derived on demand since drags may reorder markers in time.
//
// Writes come from a single mutator. The RWMutex only keeps readers on
// other goroutines (HTTP renderers) from observing a half-applied batch.
type Store struct {
	mu         sync.RWMutex
	durationMS int64
	nextID     int64
	items      []Marker
	index      map[int64]int
	observers  []Observer
}

// NewStore creates an empty store bounded to [0, durationMS].
func NewStore(durationMS int64) *Store {
	return &Store{
		durationMS: max(durationMS, 0),
		nextID:     1,
		index:      make(map[int64]int),
	}
}

// Observe registers fn to run after each mutation.
func (s *Store) Observe(fn Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	obs := s.observers
	s.mu.RUnlock()
	for _, fn := range obs {
		fn()
	}
}

func (s *Store) clamp(t int64) int64 {
	return min(max(t, 0), s.durationMS)
}

// Reset drops every marker and rebinds the store to a new track length.
// Ids keep counting so a stale reference never resolves to a new marker.
func (s *Store) Reset(durationMS int64) {
	s.mu.Lock()
	s.durationMS = max(durationMS, 0)
	s.items = nil
	s.index = make(map[int64]int)
	s.mu.Unlock()
	s.notify()
}

// DurationMS returns the upper time bound.
func (s *Store) DurationMS() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.durationMS
}

// InsertBatch appends one marker per anchor, in order, with fresh ids.
func (s *Store) InsertBatch(anchors []int64) []Marker {
	s.mu.Lock()
	out := s.insertLocked(anchors)
	s.mu.Unlock()
	if len(out) > 0 {
		s.notify()
	}
	return out
}

// ReplaceAll discards the current set and inserts anchors.
func (s *Store) ReplaceAll(anchors []int64) []Marker {
	s.mu.Lock()
	s.items = nil
	s.index = make(map[int64]int)
	out := s.insertLocked(anchors)
	s.mu.Unlock()
	s.notify()
	return out
}

func (s *Store) insertLocked(anchors []int64) []Marker {
	out := make([]Marker, 0, len(anchors))
	for _, t := range anchors {
		m := Marker{ID: s.nextID, TimeMS: s.clamp(t)}
		s.nextID++
		s.index[m.ID] = len(s.items)
		s.items = append(s.items, m)
		out = append(out, m)
	}
	return out
}

// Get returns the marker with the given id.
func (s *Store) Get(id int64) (Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Marker{}, fmt.Errorf("markers: marker %d: %w", id, apperr.ErrNotFound)
	}
	return s.items[i], nil
}

// SetTime moves a marker, clamping t into [0, duration].
func (s *Store) SetTime(id int64, t int64) (Marker, error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return Marker{}, fmt.Errorf("markers: marker %d: %w", id, apperr.ErrNotFound)
	}
	t = s.clamp(t)
	changed := s.items[i].TimeMS != t
	s.items[i].TimeMS = t
	m := s.items[i]
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return m, nil
}

// SetSelected writes the selected flag of a marker.
func (s *Store) SetSelected(id int64, selected bool) error {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("markers: marker %d: %w", id, apperr.ErrNotFound)
	}
	changed := s.items[i].Selected != selected
	s.items[i].Selected = selected
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return nil
}

// All returns a copy of the markers ordered by id.
func (s *Store) All() []Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Marker, len(s.items))
	copy(out, s.items)
	return out
}

// SortedByTime returns a copy ordered by time, ties broken by id.
func (s *Store) SortedByTime() []Marker {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimeMS != out[j].TimeMS {
			return out[i].TimeMS < out[j].TimeMS
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of markers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
