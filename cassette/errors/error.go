package k7err

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFoundInStore indicates that a request has no recorded response on the cassette.
	ErrNotFoundInStore = errors.New("request not found in cassette")

	// ErrNotFoundInStorage indicates that no cassette exists at a storage location.
	ErrNotFoundInStorage = errors.New("cassette not found in storage")

	// ErrStorageWrite indicates that a cassette could not be persisted.
	ErrStorageWrite = errors.New("failed to write cassette to storage")

	// ErrCassetteActive is returned when inserting a cassette that is already inserted.
	ErrCassetteActive = errors.New("cassette is already active")

	// ErrBindingInUse is returned by a binding that already routes calls to another cassette.
	ErrBindingInUse = errors.New("interception binding already holds a cassette")
)

// NotFoundInStoreError is returned when looking up the response of a request
// that was never recorded.
type NotFoundInStoreError struct {
	Request any
}

// NewNotFoundInStoreError creates a new initialised NotFoundInStoreError.
func NewNotFoundInStoreError(request any) *NotFoundInStoreError {
	return &NotFoundInStoreError{Request: request}
}

func (e NotFoundInStoreError) Error() string {
	return fmt.Sprintf("%v: %v", ErrNotFoundInStore, e.Request)
}

// Is reports ErrNotFoundInStore.
func (e NotFoundInStoreError) Is(target error) bool {
	return target == ErrNotFoundInStore
}

// StorageWriteError wraps the cause of a failed cassette save.
type StorageWriteError struct {
	location string
	cause    error
}

// NewStorageWriteError creates a new initialised StorageWriteError.
func NewStorageWriteError(location string, cause error) *StorageWriteError {
	return &StorageWriteError{
		location: location,
		cause:    cause,
	}
}

// Location is where the cassette was meant to be written.
func (e StorageWriteError) Location() string {
	return e.location
}

func (e StorageWriteError) Error() string {
	return fmt.Sprintf("%v '%s': %v", ErrStorageWrite, e.location, e.cause)
}

// Is reports ErrStorageWrite.
func (e StorageWriteError) Is(target error) bool {
	return target == ErrStorageWrite
}

// Unwrap returns the underlying cause.
func (e StorageWriteError) Unwrap() error {
	return e.cause
}

// Cause is for github.com/pkg/errors.Cause.
func (e StorageWriteError) Cause() error {
	return e.cause
}
