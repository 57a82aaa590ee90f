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

package zig

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("zig"))
}

func TestExtractSymbolsFallback_RecognizesFnStructEnum(t *testing.T) {
	content := []byte(`pub fn add(a: i32, b: i32) i32 {
    return a + b;
}
pub const Point = struct {
    x: i32,
    y: i32,
};
const Color = enum {
    red,
    green,
};
`)

	e := New("zig", "main.zig", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbolsFallback(content)

	names := map[string]extract.SymbolKind{}
	for _, s := range symbols {
		names[s.Name] = s.Kind
	}

	assert.Equal(t, extract.KindFunction, names["add"])
	assert.Equal(t, extract.KindStruct, names["Point"])
	assert.Equal(t, extract.KindEnum, names["Color"])
}

func TestExtractRelationshipsAndIdentifiers_AreNoops(t *testing.T) {
	e := New("zig", "a.zig", "/repo", nil).(*Extractor)
	assert.Nil(t, e.ExtractRelationships(nil, nil))
	assert.Nil(t, e.ExtractIdentifiers(nil, nil))
}
