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

package jsonlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("json"))
}

func TestExtractSymbolsFallback_TopLevelKeysBecomeConstants(t *testing.T) {
	content := []byte(`{"name": "widget", "version": 1, "nested": {"inner": true}}`)

	e := New("json", "pkg.json", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbolsFallback(content)

	names := map[string]bool{}
	for _, s := range symbols {
		assert.Equal(t, extract.KindConstant, s.Kind)
		names[s.Name] = true
	}
	assert.True(t, names["name"])
	assert.True(t, names["version"])
	assert.True(t, names["nested"])
}

func TestExtractSymbolsFallback_MalformedDocumentYieldsNoSymbols(t *testing.T) {
	e := New("json", "broken.json", "/repo", nil).(*Extractor)
	symbols := e.ExtractSymbolsFallback([]byte("{not json"))
	require.Empty(t, symbols)
}

func TestExtractRelationshipsAndIdentifiers_AreNoops(t *testing.T) {
	e := New("json", "a.json", "/repo", nil).(*Extractor)
	assert.Nil(t, e.ExtractRelationships(nil, nil))
	assert.Nil(t, e.ExtractIdentifiers(nil, nil))
}
