package history

import "errors"

// Common history store errors
var (
	// ErrRecordNotFound is returned when a mutation targets a record id
	// that is absent from the persisted collection.
	ErrRecordNotFound = errors.New("history record not found")

	// ErrStorageFailed is returned when the underlying key-value store
	// fails to read or write the collection.
	ErrStorageFailed = errors.New("history storage operation failed")
)
