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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(ErrNotFound))
	assert.True(t, IsPermanent(fmt.Errorf("get: %w", ErrNotFound)))
	assert.True(t, IsPermanent(Permanent(errors.New("bad payload"))))
	assert.True(t, IsPermanent(fmt.Errorf("op: %w", Permanent(errors.New("bad payload")))))
	assert.True(t, IsPermanent(context.Canceled))
	assert.True(t, IsPermanent(context.DeadlineExceeded))

	assert.False(t, IsPermanent(errors.New("connection reset")))
	assert.False(t, IsPermanent(fmt.Errorf("s3 get: %w", errors.New("503 slow down"))))
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestPermanentUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := Permanent(inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "boom", err.Error())
}
