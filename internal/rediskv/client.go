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

// Package rediskv gives request-routing infrastructure resilient query
// access to the shared Redis coordination store. Recovery is bounded to
// a single classified retry per call, keeping tail latency predictable
// for interactive callers.
package rediskv

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stratodb/stratodb/pkg/metrics"
)

// DefaultRetryWait is the fixed sleep before a WaitAndRetry attempt.
// Somewhat arbitrary.
const DefaultRetryWait = 100 * time.Millisecond

// Config configures a Client.
type Config struct {
	// Addr is the host:port of the coordination store.
	Addr string
	// DB is the database number.
	DB int
	// Credentials optionally supplies rotating credentials; when nil
	// the connection is unauthenticated.
	Credentials CredentialsProvider
	// TLS optionally enables TLS on the connection.
	TLS *tls.Config
	// Classifier maps failures to recovery decisions; defaults to
	// DefaultClassifier.
	Classifier Classifier
	// RetryWait is the WaitAndRetry sleep; defaults to DefaultRetryWait.
	RetryWait time.Duration
	// DialTimeout, ReadTimeout and WriteTimeout are passed to the
	// transport unchanged.
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client executes commands and pipelines over one logical connection to
// the coordination store.
//
// The connection handle is the client's only mutable state and has a
// single-writer contract: the logical owner of the Client instance
// drives all calls. Concurrent unsynchronized use is out of contract;
// there is deliberately no internal mutex.
type Client struct {
	cfg       Config
	classify  Classifier
	retryWait time.Duration
	log       *zap.SugaredLogger
	metrics   *metrics.KVMetrics

	// conn is nil while disconnected. It is mutated only during
	// connect/reconnect.
	conn *goredis.Client
}

// New creates a Client. No connection is established until the first
// Query or an explicit Connect.
func New(cfg Config, log *zap.SugaredLogger, m *metrics.KVMetrics) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	classify := cfg.Classifier
	if classify == nil {
		classify = DefaultClassifier
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = DefaultRetryWait
	}
	return &Client{
		cfg:       cfg,
		classify:  classify,
		retryWait: retryWait,
		log:       log,
		metrics:   m,
	}
}

// Connect (re)establishes the connection, replacing any existing
// handle. Fresh credentials are fetched from the provider on every
// call.
func (c *Client) Connect(ctx context.Context) error {
	var creds Credentials
	if c.cfg.Credentials != nil {
		var err error
		creds, err = c.cfg.Credentials.Credentials(ctx)
		if err != nil {
			return fmt.Errorf("rediskv: fetch credentials: %w", err)
		}
	}

	conn := goredis.NewClient(&goredis.Options{
		Addr:         c.cfg.Addr,
		DB:           c.cfg.DB,
		Username:     creds.Username,
		Password:     creds.Password,
		TLSConfig:    c.cfg.TLS,
		DialTimeout:  c.cfg.DialTimeout,
		ReadTimeout:  c.cfg.ReadTimeout,
		WriteTimeout: c.cfg.WriteTimeout,
		// Recovery is owned by this client, not by the transport.
		MaxRetries: -1,
		// One logical connection per client instance.
		PoolSize: 1,
	})
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return fmt.Errorf("rediskv: connect %s: %w", c.cfg.Addr, err)
	}

	c.disconnect()
	c.conn = conn
	return nil
}

func (c *Client) disconnect() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// CredentialsRefreshed reports whether the provider rotated the
// credentials since they were last fetched. The owner uses it to
// attribute a reconnection to rotation rather than an outage.
func (c *Client) CredentialsRefreshed() bool {
	if c.cfg.Credentials == nil {
		return false
	}
	return c.cfg.Credentials.Refreshed()
}

// Query executes q, recovering from at most one classified failure:
// Reconnect rebuilds the connection first (a failed rebuild is surfaced
// immediately), RetryImmediately retries at once, WaitAndRetry sleeps a
// short fixed interval, NoRetry surfaces the failure. The retry runs
// the same Queryable exactly once more; a second failure is surfaced.
//
// Repeated Reconnect churn across calls does not escalate: each call
// pays at most one reconnect-and-retry cycle. That is the intended
// latency bound for interactive callers.
func (c *Client) Query(ctx context.Context, q Queryable) error {
	if c.conn == nil {
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}

	err := q.query(ctx, c.conn)
	if c.metrics != nil {
		c.metrics.RecordQuery(err == nil)
	}
	if err == nil {
		return nil
	}
	c.log.Debugw("query failed", "error", err)

	method := c.classify(err)
	switch method {
	case Reconnect:
		c.log.Infow("connection is broken, reconnecting", "error", err)
		c.disconnect()
		if cerr := c.Connect(ctx); cerr != nil {
			return cerr
		}
		if c.metrics != nil {
			c.metrics.RecordReconnect()
		}
	case RetryImmediately:
	case WaitAndRetry:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryWait):
		}
	default:
		return err
	}

	if c.metrics != nil {
		c.metrics.RecordRetry(method.String())
	}
	err = q.query(ctx, c.conn)
	if c.metrics != nil {
		c.metrics.RecordQuery(err == nil)
	}
	return err
}

// Close tears down the connection if one exists.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil && !errors.Is(err, goredis.ErrClosed) {
		return fmt.Errorf("rediskv: close: %w", err)
	}
	return nil
}
