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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratodb/stratodb/internal/remotestore"
	"github.com/stratodb/stratodb/pkg/lsn"
)

// makeControlFile builds a full-size control file carrying the given
// catalog version and checkpoint position.
func makeControlFile(catalogVersion uint32, checkpoint uint64) []byte {
	raw := make([]byte, 8192)
	binary.LittleEndian.PutUint64(raw[0:8], 7418523064663226725) // system identifier
	binary.LittleEndian.PutUint32(raw[8:12], 1300)               // pg_control version
	binary.LittleEndian.PutUint32(raw[12:16], catalogVersion)
	binary.LittleEndian.PutUint32(raw[16:20], 1) // shut down
	binary.LittleEndian.PutUint64(raw[24:32], 1735689600)
	binary.LittleEndian.PutUint64(raw[32:40], checkpoint)
	return raw
}

func TestNewControlFileKnownVersions(t *testing.T) {
	cases := []struct {
		catalogVersion uint32
		want           PgMajorVersion
	}{
		{202107181, PG14},
		{202209061, PG15},
		{202307071, PG16},
		{202406281, PG17},
	}
	for _, c := range cases {
		cf, err := NewControlFile(makeControlFile(c.catalogVersion, 0x16B9188))
		require.NoError(t, err, "catalog version %d", c.catalogVersion)
		assert.Equal(t, c.want, cf.PgVersion(), "catalog version %d", c.catalogVersion)
	}
}

func TestNewControlFileUnknownVersion(t *testing.T) {
	for _, v := range []uint32{0, 202007201, 202507091, 999999999} {
		_, err := NewControlFile(makeControlFile(v, 0x16B9188))
		require.Error(t, err, "catalog version %d", v)
		assert.True(t, remotestore.IsPermanent(err), "decode failure must be terminal, got %v", err)
	}
}

func TestNewControlFileTooShort(t *testing.T) {
	_, err := NewControlFile(make([]byte, 64))
	require.Error(t, err)
	assert.True(t, remotestore.IsPermanent(err))
}

func TestControlFileBaseLsn(t *testing.T) {
	// A checkpoint that is not record-aligned is floored.
	cf, err := NewControlFile(makeControlFile(202307071, 0x16B918D))
	require.NoError(t, err)
	assert.Equal(t, lsn.Lsn(0x16B9188), cf.BaseLsn())

	// An aligned checkpoint is unchanged.
	cf, err = NewControlFile(makeControlFile(202307071, 0x16B9188))
	require.NoError(t, err)
	assert.Equal(t, lsn.Lsn(0x16B9188), cf.BaseLsn())
}

func TestControlFileAccessors(t *testing.T) {
	raw := makeControlFile(202406281, 0x2_0000_0028)
	cf, err := NewControlFile(raw)
	require.NoError(t, err)

	assert.Equal(t, raw, cf.Raw())
	data := cf.Data()
	assert.Equal(t, uint64(7418523064663226725), data.SystemIdentifier)
	assert.Equal(t, uint32(1300), data.ControlVersion)
	assert.Equal(t, uint32(202406281), data.CatalogVersion)
	assert.Equal(t, uint64(0x2_0000_0028), data.Checkpoint)
}
