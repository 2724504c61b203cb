// Package store defines the key-value persistence port the engine writes its
// records through, plus the in-memory, file-backed, and sqlite adapters.
//
// All adapters are last-write-wins: concurrent writers race and the second
// write wins, with no conflict detection. Watch callbacks surface changes made
// by other contexts (another engine on the same store, another process);
// callers are responsible for serializing the callback onto their own event
// loop before touching engine state.
package store

import "context"

// ChangeFunc receives a changed key and its new value. A nil value means the
// key was deleted.
type ChangeFunc func(key string, value []byte)

// Store is the persistence port.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Watch registers a change callback and returns its cancel func.
	Watch(fn ChangeFunc) (cancel func())
	// Close releases watchers and backing resources.
	Close() error
}
