// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsEnabled gates whether ObserveResult is worth calling at all.
// Off by default; the CLI turns it on when --metrics-addr is set, so a
// one-shot extraction run doesn't pay for instrument bookkeeping it
// has nowhere to serve.
var MetricsEnabled = false

// The pool's Prometheus instruments, registered against the default
// registry at package init so a single process never double-registers
// them even if multiple Pools run over its lifetime.
var (
	filesProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cie_extract",
		Name:      "files_processed_total",
		Help:      "Files processed by the extraction pool, by outcome.",
	}, []string{"outcome"})

	symbolsExtracted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cie_extract",
		Name:      "symbols_extracted_total",
		Help:      "Symbols extracted, by language.",
	}, []string{"language"})

	fileDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cie_extract",
		Name:      "file_duration_seconds",
		Help:      "Wall-clock time to read, parse, and extract one file.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"language"})
)

func init() {
	prometheus.MustRegister(filesProcessed, symbolsExtracted, fileDuration)
}

// ObserveResult records one pipeline.Pool outcome against the
// package's registered collectors. Exported so pkg/pipeline (which
// must live outside this package to avoid importing pkg/dispatch from
// here) can report into the same collectors.
func ObserveResult(r BatchFileResult, elapsed time.Duration) {
	outcome := "success"
	if !r.IsSuccess() {
		outcome = "failure"
	}
	filesProcessed.WithLabelValues(outcome).Inc()
	fileDuration.WithLabelValues(r.Language).Observe(elapsed.Seconds())
	if r.Results != nil {
		symbolsExtracted.WithLabelValues(r.Language).Add(float64(len(r.Results.Symbols)))
	}
}
