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

// Package metrics holds the Prometheus metrics exposed by the external
// dependency access layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ImportStoreMetrics holds Prometheus metrics for import-bucket
// downloads. Together with the per-attempt log event they make stuck
// imports diagnosable despite the unbounded retry policy.
type ImportStoreMetrics struct {
	// AttemptsTotal counts every download attempt by operation.
	AttemptsTotal *prometheus.CounterVec
	// RetriesTotal counts transient failures that were absorbed and
	// retried, by operation.
	RetriesTotal *prometheus.CounterVec
	// BytesDownloadedTotal counts payload bytes fetched from the bucket.
	BytesDownloadedTotal prometheus.Counter
}

// NewImportStoreMetrics creates import-store metrics registered on the
// default registry.
func NewImportStoreMetrics() *ImportStoreMetrics {
	return NewImportStoreMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewImportStoreMetricsWithRegistry creates import-store metrics on an
// isolated registerer (e.g. for testing).
func NewImportStoreMetricsWithRegistry(reg prometheus.Registerer) *ImportStoreMetrics {
	m := &ImportStoreMetrics{
		AttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stratodb_import_store_attempts_total",
			Help: "Total number of import bucket download attempts by operation",
		}, []string{"operation"}),
		RetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stratodb_import_store_retries_total",
			Help: "Total number of transient import bucket failures absorbed by retry",
		}, []string{"operation"}),
		BytesDownloadedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stratodb_import_store_bytes_downloaded_total",
			Help: "Total number of payload bytes downloaded from the import bucket",
		}),
	}
	reg.MustRegister(m.AttemptsTotal, m.RetriesTotal, m.BytesDownloadedTotal)
	return m
}

// RecordAttempt increments the attempt counter for the given operation.
func (m *ImportStoreMetrics) RecordAttempt(operation string) {
	m.AttemptsTotal.WithLabelValues(operation).Inc()
}

// RecordRetry increments the retry counter for the given operation.
func (m *ImportStoreMetrics) RecordRetry(operation string) {
	m.RetriesTotal.WithLabelValues(operation).Inc()
}

// RecordBytesDownloaded adds n to the downloaded bytes counter.
func (m *ImportStoreMetrics) RecordBytesDownloaded(n int) {
	m.BytesDownloadedTotal.Add(float64(n))
}
