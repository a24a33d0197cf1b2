package crawl

import "context"

// Repository is the durable job state store, keyed by job key.
type Repository interface {
	// Find returns the state for a key, or nil when no record exists.
	Find(ctx context.Context, key string) (*State, error)
	// Upsert creates the record for the key or overwrites its mutable
	// fields (status, last success timestamp, error log).
	Upsert(ctx context.Context, s *State) error
	List(ctx context.Context) ([]State, error)
}
