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
	"github.com/prometheus/client_golang/prometheus"
)

// KVMetrics holds Prometheus metrics for the coordination-store client.
type KVMetrics struct {
	// QueriesTotal counts query attempts by outcome ("ok" / "error").
	QueriesTotal *prometheus.CounterVec
	// RetriesTotal counts the bounded retries by recovery method.
	RetriesTotal *prometheus.CounterVec
	// ReconnectsTotal counts connection rebuilds.
	ReconnectsTotal prometheus.Counter
}

// NewKVMetrics creates KV client metrics registered on the default
// registry.
func NewKVMetrics() *KVMetrics {
	return NewKVMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewKVMetricsWithRegistry creates KV client metrics on an isolated
// registerer (e.g. for testing).
func NewKVMetricsWithRegistry(reg prometheus.Registerer) *KVMetrics {
	m := &KVMetrics{
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stratodb_kv_queries_total",
			Help: "Total number of coordination store query attempts by outcome",
		}, []string{"outcome"}),
		RetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stratodb_kv_retries_total",
			Help: "Total number of bounded query retries by recovery method",
		}, []string{"method"}),
		ReconnectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stratodb_kv_reconnects_total",
			Help: "Total number of coordination store connection rebuilds",
		}),
	}
	reg.MustRegister(m.QueriesTotal, m.RetriesTotal, m.ReconnectsTotal)
	return m
}

// RecordQuery increments the query counter for the given outcome.
func (m *KVMetrics) RecordQuery(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.QueriesTotal.WithLabelValues(outcome).Inc()
}

// RecordRetry increments the retry counter for the given recovery method.
func (m *KVMetrics) RecordRetry(method string) {
	m.RetriesTotal.WithLabelValues(method).Inc()
}

// RecordReconnect increments the reconnect counter.
func (m *KVMetrics) RecordReconnect() {
	m.ReconnectsTotal.Inc()
}
