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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewKVMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewKVMetricsWithRegistry(reg)
	if m == nil {
		t.Fatal("NewKVMetricsWithRegistry returned nil")
	}
	if m.QueriesTotal == nil {
		t.Error("QueriesTotal is nil")
	}
	if m.RetriesTotal == nil {
		t.Error("RetriesTotal is nil")
	}
	if m.ReconnectsTotal == nil {
		t.Error("ReconnectsTotal is nil")
	}
}

func TestKVMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewKVMetricsWithRegistry(reg)

	m.RecordQuery(true)
	m.RecordQuery(false)
	m.RecordQuery(true)
	m.RecordRetry("reconnect")
	m.RecordReconnect()

	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("QueriesTotal[ok] = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("QueriesTotal[error] = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RetriesTotal.WithLabelValues("reconnect")); got != 1 {
		t.Errorf("RetriesTotal[reconnect] = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ReconnectsTotal); got != 1 {
		t.Errorf("ReconnectsTotal = %v, want 1", got)
	}
}
