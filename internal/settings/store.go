package settings

import "sync"

// Observer is notified with the rebuilt lookup after every update.
type Observer func(*Lookup)

// Store owns the current settings and their derived lookup sets.
// It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	settings  Settings
	lookup    *Lookup
	observers []Observer
}

// NewStore creates a store holding s.
func NewStore(s Settings) *Store {
	s = s.Clone()
	return &Store{settings: s, lookup: s.Lookup()}
}

// Settings returns a copy of the current settings.
func (st *Store) Settings() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings.Clone()
}

// Lookup returns the lookup sets for the current settings.
// The returned value is never mutated and may be kept for a whole pass.
func (st *Store) Lookup() *Lookup {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.lookup
}

// Update replaces the settings, rebuilds the lookup sets and notifies
// observers.
func (st *Store) Update(s Settings) {
	s = s.Clone()
	lookup := s.Lookup()

	st.mu.Lock()
	st.settings = s
	st.lookup = lookup
	observers := make([]Observer, len(st.observers))
	copy(observers, st.observers)
	st.mu.Unlock()

	for _, o := range observers {
		o(lookup)
	}
}

// Subscribe registers an observer for settings changes.
func (st *Store) Subscribe(o Observer) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.observers = append(st.observers, o)
}
