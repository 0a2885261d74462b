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
	"encoding/binary"
	"fmt"

	"github.com/stratodb/stratodb/internal/remotestore"
	"github.com/stratodb/stratodb/pkg/lsn"
)

// PgMajorVersion identifies a supported Postgres major version.
type PgMajorVersion int

const (
	PG14 PgMajorVersion = 14
	PG15 PgMajorVersion = 15
	PG16 PgMajorVersion = 16
	PG17 PgMajorVersion = 17
)

// pgControlSafeSize is the portion of the control file Postgres writes
// atomically; any authentic control file holds at least this much.
const pgControlSafeSize = 512

// catalogVersions maps catalog_version_no values (from catversion.h)
// to major versions. Exact match only: an unrecognized value aborts the
// import rather than guessing a version.
var catalogVersions = map[uint32]PgMajorVersion{
	202107181: PG14,
	202209061: PG15,
	202307071: PG16,
	202406281: PG17,
}

// ControlFileData is the fixed little-endian header of the control
// file. Field offsets follow the on-disk struct layout, which is stable
// across the supported major versions.
type ControlFileData struct {
	SystemIdentifier uint64 // offset 0
	ControlVersion   uint32 // offset 8
	CatalogVersion   uint32 // offset 12
	State            uint32 // offset 16
	Time             int64  // offset 24
	Checkpoint       uint64 // offset 32
}

// ControlFile is the decoded, validated control file. It is constructed
// once per import, immediately after the first successful read, and is
// read-only afterwards.
type ControlFile struct {
	data    ControlFileData
	raw     []byte
	version PgMajorVersion
}

// NewControlFile decodes and validates raw control-file bytes. The
// catalog version is checked against the known table here, once, so
// PgVersion cannot fail later.
func NewControlFile(raw []byte) (*ControlFile, error) {
	data, err := decodeControlFileData(raw)
	if err != nil {
		return nil, err
	}
	version, ok := catalogVersions[data.CatalogVersion]
	if !ok {
		return nil, remotestore.Permanent(
			fmt.Errorf("unrecognized catalog version %d", data.CatalogVersion))
	}
	return &ControlFile{data: data, raw: raw, version: version}, nil
}

func decodeControlFileData(raw []byte) (ControlFileData, error) {
	if len(raw) < pgControlSafeSize {
		return ControlFileData{}, remotestore.Permanent(
			fmt.Errorf("control file too short: %d bytes, want at least %d", len(raw), pgControlSafeSize))
	}
	return ControlFileData{
		SystemIdentifier: binary.LittleEndian.Uint64(raw[0:8]),
		ControlVersion:   binary.LittleEndian.Uint32(raw[8:12]),
		CatalogVersion:   binary.LittleEndian.Uint32(raw[12:16]),
		State:            binary.LittleEndian.Uint32(raw[16:20]),
		Time:             int64(binary.LittleEndian.Uint64(raw[24:32])),
		Checkpoint:       binary.LittleEndian.Uint64(raw[32:40]),
	}, nil
}

// BaseLsn is the last checkpoint position aligned down to a WAL record
// boundary: the starting point of the imported timeline. The raw
// checkpoint value is never exposed.
func (c *ControlFile) BaseLsn() lsn.Lsn {
	return lsn.Lsn(c.data.Checkpoint).Align()
}

// PgVersion returns the major version decoded from the catalog version.
// Validation happened at construction, so this cannot fail.
func (c *ControlFile) PgVersion() PgMajorVersion {
	return c.version
}

// Data returns the decoded header.
func (c *ControlFile) Data() ControlFileData {
	return c.data
}

// Raw returns the undecoded control-file bytes, kept for re-upload into
// the imported timeline.
func (c *ControlFile) Raw() []byte {
	return c.raw
}
