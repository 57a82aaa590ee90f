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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashContent_StableAndSensitive(t *testing.T) {
	a := HashContent([]byte("hello"))
	b := HashContent([]byte("hello"))
	c := HashContent([]byte("hellO"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "hex-encoded SHA-256 is 64 characters")
}

func TestNewFailureResult(t *testing.T) {
	r := NewFailureResult("pkg/foo.go", errors.New("permission denied"))

	assert.Equal(t, "pkg/foo.go", r.FilePath)
	assert.Equal(t, UnknownLanguage, r.Language)
	assert.Equal(t, "permission denied", r.Error)
	assert.Nil(t, r.Content)
	assert.False(t, r.IsSuccess())
}

func TestBatchFileResult_IsSuccess(t *testing.T) {
	ok := BatchFileResult{FilePath: "a.go", Content: []byte("package a")}
	assert.True(t, ok.IsSuccess())

	failed := BatchFileResult{FilePath: "a.go", Error: "boom"}
	assert.False(t, failed.IsSuccess())

	empty := BatchFileResult{FilePath: "a.go"}
	assert.False(t, empty.IsSuccess(), "nil content without an error is still not a success")
}

func TestBatchFileResult_HasSymbols(t *testing.T) {
	withSymbols := BatchFileResult{Results: &ExtractionResults{Symbols: []Symbol{{ID: "sym:a"}}}}
	assert.True(t, withSymbols.HasSymbols())

	noResults := BatchFileResult{Results: &ExtractionResults{}}
	assert.False(t, noResults.HasSymbols())
}
