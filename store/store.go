// Package store persists the raw text of each input between sessions.
//
// Text is keyed by an opaque per-input identifier. Stores are read once
// when a session starts and written after each accepted edit, so
// implementations favour simplicity over throughput.
package store

import (
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("store is closed")

// TextStore loads & saves input text by id
type TextStore interface {
	// Load returns the last text saved under id. ok is false when nothing
	// has been saved
	Load(id string) (text string, ok bool, err error)
	// Save replaces the text stored under id
	Save(id, text string) error
	// Close releases any resources held by the store
	Close() error
}

// MemStore is a TextStore held in memory. Safe for concurrent use
type MemStore struct {
	mu     sync.RWMutex
	texts  map[string]string
	closed bool
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{texts: map[string]string{}}
}

// Load implements TextStore
func (m *MemStore) Load(id string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	text, ok := m.texts[id]
	return text, ok, nil
}

// Save implements TextStore
func (m *MemStore) Save(id, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.texts[id] = text
	return nil
}

// Close implements TextStore
func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
