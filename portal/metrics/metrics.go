// Copyright 2025 The Classroom Authors, Inc.
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

// Package metrics holds the Prometheus collectors of the classroom server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_http_requests_total",
		Help: "HTTP requests served, by route and status code",
	}, []string{"method", "route", "code"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classroom_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// result: ok, invalid, throttled, error
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_login_attempts_total",
		Help: "Teacher login attempts by outcome",
	}, []string{"result"})

	StoreRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classroom_store_requests_total",
		Help: "Requests to the backing store by operation and status code",
	}, []string{"backend", "op", "code"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, LoginAttempts, StoreRequests)
}
