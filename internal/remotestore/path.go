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
	"errors"
	"fmt"
	gopath "path"
	"strings"
)

// Path is a normalized, slash-separated key into the object store,
// relative to the configured storage root. The zero value is invalid.
type Path struct {
	raw string
}

// NewPath validates and normalizes s into a Path. The path must be
// relative and must not escape the storage root.
func NewPath(s string) (Path, error) {
	if s == "" {
		return Path{}, errors.New("remotestore: empty path")
	}
	if strings.HasPrefix(s, "/") {
		return Path{}, fmt.Errorf("remotestore: path %q must be relative", s)
	}
	clean := gopath.Clean(s)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return Path{}, fmt.Errorf("remotestore: path %q escapes the storage root", s)
	}
	return Path{raw: clean}, nil
}

// MustPath is NewPath for compile-time constant paths; it panics on an
// invalid input.
func MustPath(s string) Path {
	p, err := NewPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string { return p.raw }

// Join appends one or more slash-separated elements to p.
func (p Path) Join(elem string) Path {
	return Path{raw: gopath.Join(p.raw, elem)}
}

// ObjectName returns the final path component, or "" for the zero
// value. Listing operations require a non-empty object name so that a
// directory is always named without its trailing delimiter.
func (p Path) ObjectName() string {
	if p.raw == "" {
		return ""
	}
	return gopath.Base(p.raw)
}
