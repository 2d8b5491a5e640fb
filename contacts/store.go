package contacts

import "context"

// Store - durable storage for the whole, ordered contact book.
type Store interface {
	// Load - returns every persisted contact in order. An empty (never saved) store is not an error. Unreadable or
	// corrupt data is a *StorageError.
	Load(ctx context.Context) ([]*Contact, error)

	// Save - replaces the persisted book with contacts. Readers see either the previous book or the new one, never
	// a mix. Failures are a *StorageError.
	Save(ctx context.Context, contacts []*Contact) error

	Close() error
}
