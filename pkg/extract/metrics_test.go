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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveResult_IncrementsCountersByOutcome(t *testing.T) {
	before := testutil.ToFloat64(filesProcessed.WithLabelValues("success"))

	ObserveResult(BatchFileResult{
		Language: "go",
		Content:  []byte("package p"),
		Results:  &ExtractionResults{Symbols: []Symbol{{ID: "sym:a"}, {ID: "sym:b"}}},
	}, 10*time.Millisecond)

	after := testutil.ToFloat64(filesProcessed.WithLabelValues("success"))
	assert.Equal(t, before+1, after)
}

func TestObserveResult_FailureOutcome(t *testing.T) {
	before := testutil.ToFloat64(filesProcessed.WithLabelValues("failure"))

	ObserveResult(BatchFileResult{Language: "go", Error: "boom"}, time.Millisecond)

	after := testutil.ToFloat64(filesProcessed.WithLabelValues("failure"))
	assert.Equal(t, before+1, after)
}

func TestObserveResult_SymbolsExtractedCounter(t *testing.T) {
	before := testutil.ToFloat64(symbolsExtracted.WithLabelValues("python"))

	ObserveResult(BatchFileResult{
		Language: "python",
		Content:  []byte("class A: pass"),
		Results:  &ExtractionResults{Symbols: []Symbol{{ID: "sym:a"}}},
	}, time.Millisecond)

	after := testutil.ToFloat64(symbolsExtracted.WithLabelValues("python"))
	assert.Equal(t, before+1, after)
}

func TestMetricsEnabled_DefaultsOff(t *testing.T) {
	assert.False(t, MetricsEnabled)
}
