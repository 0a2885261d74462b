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
	"time"

	"github.com/stratodb/stratodb/internal/remotestore"
)

const retryMaxBackoff = 10 * time.Second

// retryForever runs fn until it succeeds, fails terminally, or ctx is
// cancelled. There is deliberately no attempt ceiling: the bulk import
// is a long-running resumable job, and only explicit cancellation
// (tenant deletion, shutdown) may stop it. Transient failures are
// absorbed; absence, permanent failures, and cancellation surface
// immediately. Every attempt emits a structured event and a metric so
// a stuck import stays diagnosable.
func retryForever[T any](ctx context.Context, c *Client, op, desc string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	backoff := c.retryBackoff
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		if c.metrics != nil {
			c.metrics.RecordAttempt(op)
		}
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		if remotestore.IsPermanent(err) {
			return zero, err
		}

		if c.metrics != nil {
			c.metrics.RecordRetry(op)
		}
		c.log.Warnw("transient failure, retrying",
			"op", desc, "attempt", attempt, "backoff", backoff, "error", err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > retryMaxBackoff {
			backoff = retryMaxBackoff
		}
	}
}
