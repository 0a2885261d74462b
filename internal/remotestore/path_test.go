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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathNormalizes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"pgdata", "pgdata"},
		{"pgdata/", "pgdata"},
		{"pgdata//global", "pgdata/global"},
		{"pgdata/./global", "pgdata/global"},
		{"pgdata/base/../global", "pgdata/global"},
	}
	for _, c := range cases {
		p, err := NewPath(c.in)
		require.NoError(t, err, "NewPath(%q)", c.in)
		assert.Equal(t, c.want, p.String(), "NewPath(%q)", c.in)
	}
}

func TestNewPathRejects(t *testing.T) {
	for _, in := range []string{"", "/absolute", "..", "../escape", "a/../.."} {
		_, err := NewPath(in)
		assert.Error(t, err, "NewPath(%q)", in)
	}
}

func TestPathJoin(t *testing.T) {
	p := MustPath("pgdata")
	assert.Equal(t, "pgdata/global/pg_control", p.Join("global/pg_control").String())
}

func TestPathObjectName(t *testing.T) {
	assert.Equal(t, "pg_control", MustPath("pgdata/global/pg_control").ObjectName())
	assert.Equal(t, "pgdata", MustPath("pgdata").ObjectName())

	var zero Path
	assert.Equal(t, "", zero.ObjectName())
}
