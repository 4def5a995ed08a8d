// Package state persists named collections to a local durable medium.
//
// A Medium is a small key/value store holding one payload per collection
// name. FileMedium keeps one JSON file per key under a directory and
// serializes writers through file locking; MemoryMedium serves tests and
// ephemeral runs; the sqlite subpackage stores payloads in a single table.
//
// Adapter turns a Medium into an entity.Persister by encoding the whole
// collection as one versioned JSON document.
package state

import "errors"

// Medium stores opaque payloads by key.
type Medium interface {
	// Get returns the payload stored under key. ok is false when nothing has
	// been stored yet.
	Get(key string) (payload []byte, ok bool, err error)

	// Put replaces the payload stored under key.
	Put(key string, payload []byte) error

	// Close releases the medium's resources.
	Close() error
}

// FormatVersion is the document version written by Adapter.
const FormatVersion = 1

// ErrUnsupportedVersion indicates a stored document from a newer format.
var ErrUnsupportedVersion = errors.New("unsupported state version")

// ErrInvalidKey indicates a key that cannot name a stored payload.
var ErrInvalidKey = errors.New("invalid state key")

// document is the persisted form of one collection.
type document[R any] struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	Records []R    `json:"records"`
}
