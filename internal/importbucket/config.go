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

package importbucket

import (
	"time"

	"github.com/stratodb/stratodb/internal/remotestore"
)

// BackendType identifies the object-store backend holding the imported
// data directory.
type BackendType string

const (
	// BackendLocalFS reads from a local directory. Testing and local
	// development only.
	BackendLocalFS BackendType = "localfs"
	// BackendS3 reads from an S3 or S3-compatible bucket.
	BackendS3 BackendType = "s3"
)

// Location names where the imported data directory lives. The backend
// set is closed; new backends extend it here and in New.
type Location struct {
	// Backend selects the object-store implementation.
	Backend BackendType
	// LocalFS must be set when Backend == BackendLocalFS.
	LocalFS *LocalFSLocation
	// S3 must be set when Backend == BackendS3.
	S3 *S3Location
}

// LocalFSLocation points at a directory on the local filesystem.
type LocalFSLocation struct {
	Path string
}

// S3Location points at a key prefix within a bucket.
type S3Location struct {
	Region string
	Bucket string
	// KeyPrefix is the location of the data directory within the bucket.
	KeyPrefix string
	// Endpoint optionally overrides the S3 endpoint; when empty the SDK
	// infers it from the environment.
	Endpoint string
}

// Config tunes the import-bucket client.
type Config struct {
	// ConcurrencyLimit caps in-flight requests to the bucket.
	ConcurrencyLimit int64
	// MaxKeysPerPage is the listing page size.
	MaxKeysPerPage int32
	// RequestTimeout bounds each individual request.
	RequestTimeout time.Duration
	// RetryBackoff is the initial inter-retry wait; it doubles per
	// retry up to a fixed cap.
	RetryBackoff time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConcurrencyLimit: remotestore.DefaultConcurrencyLimit,
		MaxKeysPerPage:   remotestore.DefaultMaxKeysPerPage,
		RequestTimeout:   remotestore.DefaultRequestTimeout,
		RetryBackoff:     100 * time.Millisecond,
	}
}
