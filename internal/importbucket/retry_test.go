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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratodb/stratodb/internal/remotestore"
)

func newRetryTestClient() *Client {
	return NewFromStore(nil, Config{RetryBackoff: time.Millisecond}, nil, nil)
}

func TestRetryForeverAbsorbsTransientFailures(t *testing.T) {
	c := newRetryTestClient()
	calls := 0
	res, err := retryForever(context.Background(), c, "get", "test op",
		func(context.Context) (string, error) {
			calls++
			if calls <= 3 {
				return "", errors.New("connection reset")
			}
			return "payload", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "payload", res)
	assert.Equal(t, 4, calls)
}

func TestRetryForeverSurfacesTerminal(t *testing.T) {
	c := newRetryTestClient()

	calls := 0
	_, err := retryForever(context.Background(), c, "get", "test op",
		func(context.Context) ([]byte, error) {
			calls++
			return nil, remotestore.ErrNotFound
		})
	assert.ErrorIs(t, err, remotestore.ErrNotFound)
	assert.Equal(t, 1, calls)

	calls = 0
	_, err = retryForever(context.Background(), c, "get", "test op",
		func(context.Context) ([]byte, error) {
			calls++
			return nil, remotestore.Permanent(errors.New("malformed payload"))
		})
	require.Error(t, err)
	assert.True(t, remotestore.IsPermanent(err))
	assert.Equal(t, 1, calls)
}

func TestRetryForeverCancelledBeforeFirstAttempt(t *testing.T) {
	c := newRetryTestClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := retryForever(ctx, c, "get", "test op",
		func(context.Context) (string, error) {
			calls++
			return "never", nil
		})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryForeverCancelledDuringWait(t *testing.T) {
	c := NewFromStore(nil, Config{RetryBackoff: time.Hour}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := retryForever(ctx, c, "get", "test op",
			func(context.Context) (string, error) {
				return "", errors.New("transient")
			})
		done <- err
	}()

	// Give the operation time to fail once and enter its backoff wait.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("retryForever did not observe cancellation during backoff wait")
	}
}
