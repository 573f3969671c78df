package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no object exists at a key.
	ErrNotFound = errors.New("object not found")

	// ErrKeyExists is returned by Put when the key is taken and overwriting
	// was not requested.
	ErrKeyExists = errors.New("object already exists at this key")

	// ErrInvalidKey is returned for empty keys and keys that escape the
	// storage root, such as "../secret".
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrTooLarge is returned by Put when data exceeds PutOptions.MaxSize.
	ErrTooLarge = errors.New("object exceeds maximum size")

	// ErrAccessDenied is returned when the provider refuses the request.
	ErrAccessDenied = errors.New("access denied")
)

// StorageError records the operation and key of a failed storage call.
// Sentinel errors are reachable through errors.Is.
type StorageError struct {
	Op  string // "Put", "Get", "Delete", "URL" or "Exists"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidKey reports whether err was caused by a rejected key.
func IsInvalidKey(err error) bool { return errors.Is(err, ErrInvalidKey) }

// IsTooLarge reports whether err means an upload went over its size limit.
func IsTooLarge(err error) bool { return errors.Is(err, ErrTooLarge) }

// IsAccessDenied reports whether the provider refused the request.
func IsAccessDenied(err error) bool { return errors.Is(err, ErrAccessDenied) }
