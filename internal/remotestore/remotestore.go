/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package remotestore abstracts read access to the bulk object store
// holding an imported database data directory. Backends form a closed
// set: Amazon S3 (or S3-compatible) for production and a local
// filesystem stand-in for tests and local development.
package remotestore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested object does not exist.
var ErrNotFound = errors.New("remotestore: object not found")

// PermanentError marks a failure that retrying cannot fix, such as a
// malformed payload or a rejected request. Retry loops surface it
// immediately instead of absorbing it.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so that IsPermanent reports true for it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err must not be retried: the object is
// absent, the failure is explicitly permanent, or the caller cancelled.
// Every other failure is treated as transient.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.Is(err, ErrNotFound) ||
		errors.As(err, &pe) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ObjectEntry is a listed object and its size in bytes.
type ObjectEntry struct {
	Key  Path
	Size int64
}

// Listing holds the merged result of a delimiter listing: objects
// directly under the requested prefix plus the immediate child
// prefixes. Backends concatenate paginated responses in fetch order
// before returning, so callers never see pagination.
type Listing struct {
	Objects  []ObjectEntry
	Prefixes []Path
}

// ObjectStore is read-only access to a bulk object store.
//
// Implementations classify their failures: an absent object maps to
// ErrNotFound, a non-retryable failure is wrapped with Permanent, and
// anything else (network or service hiccups) is left transient for the
// caller's retry policy to absorb. Instances are safe for concurrent
// use; endpoint, concurrency ceiling, and timeout are fixed at
// construction.
type ObjectStore interface {
	// List performs a delimiter listing under prefix. The prefix must
	// already carry its trailing delimiter; a prefix with no matches
	// yields an empty Listing, not an error.
	List(ctx context.Context, prefix string) (Listing, error)

	// Get returns the full contents of the object at key.
	Get(ctx context.Context, key Path) ([]byte, error)

	// GetRange returns exactly end-start bytes of the object at key,
	// starting at byte offset start. An object with fewer than end
	// bytes is a permanent failure. Callers guarantee start <= end.
	GetRange(ctx context.Context, key Path, start, end uint64) ([]byte, error)
}
