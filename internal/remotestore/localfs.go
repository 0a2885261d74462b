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

package remotestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalFS is a filesystem stand-in for the object store, meant for
// tests and local development only.
type LocalFS struct {
	root string
}

// NewLocalFS creates a LocalFS rooted at dir, creating it if needed.
func NewLocalFS(dir string) (*LocalFS, error) {
	if dir == "" {
		return nil, errors.New("remotestore: root directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("remotestore: create root %s: %w", dir, err)
	}
	return &LocalFS{root: dir}, nil
}

func (l *LocalFS) fsPath(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

func (l *LocalFS) List(_ context.Context, prefix string) (Listing, error) {
	dir := strings.TrimSuffix(prefix, "/")
	entries, err := os.ReadDir(l.fsPath(dir))
	if errors.Is(err, fs.ErrNotExist) {
		// A prefix with no matches is an empty listing, as on S3.
		return Listing{}, nil
	}
	if err != nil {
		return Listing{}, fmt.Errorf("localfs list %s: %w", prefix, err)
	}

	var out Listing
	for _, entry := range entries {
		name := entry.Name()
		if dir != "" {
			name = dir + "/" + name
		}
		key, err := NewPath(name)
		if err != nil {
			return Listing{}, Permanent(fmt.Errorf("localfs list %s: %w", prefix, err))
		}
		if entry.IsDir() {
			out.Prefixes = append(out.Prefixes, key)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return Listing{}, fmt.Errorf("localfs list %s: %w", prefix, err)
		}
		out.Objects = append(out.Objects, ObjectEntry{Key: key, Size: info.Size()})
	}
	return out, nil
}

func (l *LocalFS) Get(_ context.Context, key Path) ([]byte, error) {
	buf, err := os.ReadFile(l.fsPath(key.String()))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("localfs get %s: %w", key, err)
	}
	return buf, nil
}

func (l *LocalFS) GetRange(_ context.Context, key Path, start, end uint64) ([]byte, error) {
	want := end - start
	if want == 0 {
		return []byte{}, nil
	}
	f, err := os.Open(l.fsPath(key.String()))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("localfs get range %s: %w", key, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, want)
	n, err := f.ReadAt(buf, int64(start))
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, Permanent(fmt.Errorf(
			"localfs: object %s holds %d bytes of range [%#x,%#x), want %d",
			key, n, start, end, want))
	}
	if err != nil {
		return nil, fmt.Errorf("localfs get range %s: %w", key, err)
	}
	return buf, nil
}

var _ ObjectStore = (*LocalFS)(nil)
