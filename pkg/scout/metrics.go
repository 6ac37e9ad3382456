// Copyright (c) 2025, Vdistack Authors.  All rights reserved.
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

package scout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Bundle collection metrics
	bundleCollectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scout_bundle_collection_duration_seconds",
			Help:    "Time taken to produce a complete diagnostic bundle",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	bundleCollectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_bundle_collection_total",
			Help: "Total number of bundle collection attempts",
		},
		[]string{"status"}, // success or error
	)

	bundleCollectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scout_bundle_collector_duration_seconds",
			Help:    "Time taken by individual collectors",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"collector"}, // host, services, logs, metadata
	)

	bundleRecordCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scout_bundle_records",
			Help: "Number of records in the last collected bundle",
		},
	)
)
