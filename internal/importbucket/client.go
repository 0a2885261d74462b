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

// Package importbucket gives the bulk-import pipeline fault-tolerant,
// filesystem-like read access to the object store holding a database
// data directory. Transient backend failures are absorbed by unbounded
// retry; callers only ever see absence, cancellation, or a terminal
// decode/backend failure.
package importbucket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stratodb/stratodb/internal/remotestore"
	"github.com/stratodb/stratodb/pkg/metrics"
)

// controlFilePath is the fixed well-known location of the control file
// under the storage root.
const controlFilePath = "pgdata/global/pg_control"

// FileEntry is a leaf object and its size in bytes.
type FileEntry struct {
	Path remotestore.Path
	Size int64
}

// Client is the import-bucket façade. It is cheaply shareable across
// concurrent callers; all tunables are fixed at construction.
type Client struct {
	storage      remotestore.ObjectStore
	log          *zap.SugaredLogger
	metrics      *metrics.ImportStoreMetrics
	retryBackoff time.Duration
}

// New creates a Client for the given location. The S3 variant applies
// the configured concurrency ceiling, listing page size, and
// per-request timeout; the LocalFS variant is a stand-in for tests and
// local development.
func New(ctx context.Context, loc Location, cfg Config, log *zap.SugaredLogger, m *metrics.ImportStoreMetrics) (*Client, error) {
	var storage remotestore.ObjectStore
	switch loc.Backend {
	case BackendLocalFS:
		if loc.LocalFS == nil {
			return nil, errors.New("importbucket: localfs location is required")
		}
		store, err := remotestore.NewLocalFS(loc.LocalFS.Path)
		if err != nil {
			return nil, err
		}
		storage = store
	case BackendS3:
		if loc.S3 == nil {
			return nil, errors.New("importbucket: s3 location is required")
		}
		store, err := remotestore.NewS3Store(ctx, remotestore.S3Config{
			Region:           loc.S3.Region,
			Bucket:           loc.S3.Bucket,
			KeyPrefix:        loc.S3.KeyPrefix,
			Endpoint:         loc.S3.Endpoint,
			ConcurrencyLimit: cfg.ConcurrencyLimit,
			MaxKeysPerPage:   cfg.MaxKeysPerPage,
			RequestTimeout:   cfg.RequestTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("importbucket: setup s3 bucket: %w", err)
		}
		storage = store
	default:
		return nil, fmt.Errorf("importbucket: unknown backend %q", loc.Backend)
	}
	return NewFromStore(storage, cfg, log, m), nil
}

// NewFromStore wraps an existing ObjectStore. Mainly for tests.
func NewFromStore(storage remotestore.ObjectStore, cfg Config, log *zap.SugaredLogger, m *metrics.ImportStoreMetrics) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultConfig().RetryBackoff
	}
	return &Client{
		storage:      storage,
		log:          log,
		metrics:      m,
		retryBackoff: backoff,
	}
}

// requireDirName enforces the listing precondition: a directory is
// named by a path with a non-empty final component, without a trailing
// delimiter. Violations are programmer errors.
func requireDirName(op string, dir remotestore.Path) {
	if dir.ObjectName() == "" {
		panic(fmt.Sprintf("importbucket: %s requires a directory name with a non-empty final component", op))
	}
}

// ListDir returns the immediate children of dir: leaf objects first,
// then sub-directory prefixes, in backend listing order.
func (c *Client) ListDir(ctx context.Context, dir remotestore.Path) ([]remotestore.Path, error) {
	requireDirName("ListDir", dir)
	prefix := dir.String() + "/"

	listing, err := retryForever(ctx, c, "list", "listdir "+prefix,
		func(ctx context.Context) (remotestore.Listing, error) {
			return c.storage.List(ctx, prefix)
		})
	if err != nil {
		return nil, err
	}

	children := make([]remotestore.Path, 0, len(listing.Objects)+len(listing.Prefixes))
	for _, obj := range listing.Objects {
		children = append(children, obj.Key)
	}
	children = append(children, listing.Prefixes...)
	c.log.Debugw("listed directory", "dir", prefix, "children", len(children))
	return children, nil
}

// ListFilesInDir returns the leaf objects directly under dir with their
// sizes, excluding sub-directories.
func (c *Client) ListFilesInDir(ctx context.Context, dir remotestore.Path) ([]FileEntry, error) {
	requireDirName("ListFilesInDir", dir)
	prefix := dir.String() + "/"

	listing, err := retryForever(ctx, c, "list", "listfilesindir "+prefix,
		func(ctx context.Context) (remotestore.Listing, error) {
			return c.storage.List(ctx, prefix)
		})
	if err != nil {
		return nil, err
	}

	files := make([]FileEntry, 0, len(listing.Objects))
	for _, obj := range listing.Objects {
		files = append(files, FileEntry{Path: obj.Key, Size: obj.Size})
	}
	c.log.Debugw("listed files", "dir", prefix, "files", len(files))
	return files, nil
}

// Get downloads the full object at path.
func (c *Client) Get(ctx context.Context, path remotestore.Path) ([]byte, error) {
	buf, err := retryForever(ctx, c, "get", "download "+path.String(),
		func(ctx context.Context) ([]byte, error) {
			return c.storage.Get(ctx, path)
		})
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordBytesDownloaded(len(buf))
	}
	c.log.Debugw("downloaded object", "path", path.String(), "len", len(buf))
	return buf, nil
}

// GetRange downloads exactly end-start bytes of the object at path,
// starting at byte offset start. start > end is a programmer error; an
// object with fewer than end bytes is a terminal failure.
func (c *Client) GetRange(ctx context.Context, path remotestore.Path, start, end uint64) ([]byte, error) {
	if start > end {
		panic(fmt.Sprintf("importbucket: GetRange [%#x,%#x): start exceeds end", start, end))
	}
	desc := fmt.Sprintf("download range len=%#x [%#x,%#x) from %s", end-start, start, end, path)

	buf, err := retryForever(ctx, c, "get_range", desc,
		func(ctx context.Context) ([]byte, error) {
			return c.storage.GetRange(ctx, path, start, end)
		})
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordBytesDownloaded(len(buf))
	}
	c.log.Debugw("downloaded range", "path", path.String(), "len", len(buf))
	return buf, nil
}

// GetJSON downloads and decodes the JSON object at path into T. An
// absent object is (nil, nil), never an error; a malformed payload is a
// terminal decode failure.
func GetJSON[T any](ctx context.Context, c *Client, path remotestore.Path) (*T, error) {
	buf, err := c.Get(ctx, path)
	if errors.Is(err, remotestore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil, remotestore.Permanent(fmt.Errorf("importbucket: decode %s: %w", path, err))
	}
	return &v, nil
}

// PgdataDir is the root of the imported data directory within the
// storage root.
func (c *Client) PgdataDir() remotestore.Path {
	return remotestore.MustPath("pgdata")
}

// GetControlFile fetches and decodes the control file from its fixed
// location. Import preparation aborts outright if the file is
// unreadable or carries an unrecognized version.
func (c *Client) GetControlFile(ctx context.Context) (*ControlFile, error) {
	path := remotestore.MustPath(controlFilePath)
	c.log.Infow("fetching control file", "path", path.String())

	buf, err := c.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("importbucket: fetch control file: %w", err)
	}
	cf, err := NewControlFile(buf)
	if err != nil {
		return nil, fmt.Errorf("importbucket: control file %s: %w", path, err)
	}
	return cf, nil
}
