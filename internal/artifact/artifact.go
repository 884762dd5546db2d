// Package artifact stores and retrieves job input and result documents by
// opaque location (store name plus key) so job records never embed payloads.
package artifact

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document exists at the requested location
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidLocation is returned when a location is incomplete or names an
	// unknown store
	ErrInvalidLocation = errors.New("invalid artifact location")
)

// Location identifies a stored document
type Location struct {
	Store string `json:"store"`
	Key   string `json:"key"`
}

// Empty reports whether the location carries no reference
func (l Location) Empty() bool {
	return l.Store == "" && l.Key == ""
}

// Store persists JSON documents produced and consumed by jobs
type Store interface {
	// Name is the store identifier recorded in locations
	Name() string

	// Put writes body under key and returns the resulting location
	Put(ctx context.Context, key string, body []byte) (Location, error)

	// Get reads the document at loc. Returns ErrNotFound when the key is
	// absent and ErrInvalidLocation when loc does not belong to this store.
	Get(ctx context.Context, loc Location) ([]byte, error)
}

// InputKey is the key under which a job's submitted document is stored
func InputKey(jobID string) string {
	return "input/" + jobID + ".json"
}

// ResultKey is the key under which a job's result document is stored
func ResultKey(jobID string) string {
	return "results/" + jobID + ".json"
}
