// Package storage provides object storage for proof files and rendered
// receipts.
package storage

import "context"

// ObjectStorage is the "save bytes, get a key back" contract the payment
// core depends on. Keys are slash-separated paths partitioned by year and
// month (for example proofs/2026/09/<id>.png).
type ObjectStorage interface {
	// Save stores data under key and returns the key it can be fetched
	// with later.
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Get retrieves the object stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}
