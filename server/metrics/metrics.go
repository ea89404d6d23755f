// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics 為服務的 Prometheus 指標；使用獨立的 Registry，不污染全域 DefaultRegisterer。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "featlab"

// Metrics 持有所有指標。零值不可用，請用 New。
type Metrics struct {
	reg *prometheus.Registry

	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	selected    *prometheus.HistogramVec
	requests    *prometheus.CounterVec
	uploadBytes prometheus.Histogram
}

// New 建立並註冊所有指標。
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_runs_total",
			Help:      "Feature selection runs by method and outcome.",
		}, []string{"method", "status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_duration_seconds",
			Help:      "Wall time of a single feature selection run.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"method"}),
		selected: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selected_features",
			Help:      "Number of features selected per run.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}, []string{"method"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_bytes",
			Help:      "Size of uploaded dataset files.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
	}
	m.reg.MustRegister(
		m.runs, m.runDuration, m.selected, m.requests, m.uploadBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun 記錄一次方法執行；err != nil 時只計數。
func (m *Metrics) ObserveRun(method string, d time.Duration, selected int, err error) {
	if err != nil {
		m.runs.WithLabelValues(method, "error").Inc()
		return
	}
	m.runs.WithLabelValues(method, "ok").Inc()
	m.runDuration.WithLabelValues(method).Observe(d.Seconds())
	m.selected.WithLabelValues(method).Observe(float64(selected))
}

// ObserveRequest 記錄一次 HTTP 請求。
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveUpload 記錄上傳檔案大小。
func (m *Metrics) ObserveUpload(size int64) {
	m.uploadBytes.Observe(float64(size))
}

// Registry 回傳底層 Registry（測試或外部整合用）。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler 回傳 /metrics 的 exposition handler。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
