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

package rediskv

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
)

// RetryMethod is the recovery decision for one failed query.
type RetryMethod int

const (
	// NoRetry surfaces the failure to the caller.
	NoRetry RetryMethod = iota
	// Reconnect tears the connection down and dials a fresh one before
	// the single retry.
	Reconnect
	// RetryImmediately retries at once on the same connection.
	RetryImmediately
	// WaitAndRetry sleeps a short fixed interval before the retry.
	WaitAndRetry
)

func (m RetryMethod) String() string {
	switch m {
	case Reconnect:
		return "reconnect"
	case RetryImmediately:
		return "retry_immediately"
	case WaitAndRetry:
		return "wait_and_retry"
	default:
		return "no_retry"
	}
}

// Classifier maps a transport failure to a RetryMethod. It is
// deliberately decoupled from the transport's native error types so a
// different transport can supply its own mapping without touching the
// retry loop.
type Classifier func(error) RetryMethod

// DefaultClassifier maps go-redis failures: broken connections warrant
// a reconnect, server states that resolve on their own warrant a short
// wait, redirects warrant an immediate retry, and everything else is
// surfaced. A missing key (redis.Nil) is a result, not a failure.
func DefaultClassifier(err error) RetryMethod {
	switch {
	case err == nil:
		return NoRetry
	case errors.Is(err, goredis.Nil):
		return NoRetry
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NoRetry
	case errors.Is(err, goredis.ErrClosed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EPIPE):
		return Reconnect
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Reconnect
	}

	var redisErr goredis.Error
	if errors.As(err, &redisErr) {
		switch errorPrefix(redisErr.Error()) {
		case "LOADING", "BUSY", "CLUSTERDOWN", "TRYAGAIN", "MASTERDOWN", "READONLY":
			return WaitAndRetry
		case "MOVED", "ASK":
			return RetryImmediately
		}
	}
	return NoRetry
}

// errorPrefix extracts the server reply's leading word, e.g. "LOADING"
// from "LOADING Redis is loading the dataset in memory".
func errorPrefix(msg string) string {
	if i := strings.IndexByte(msg, ' '); i >= 0 {
		return msg[:i]
	}
	return msg
}
