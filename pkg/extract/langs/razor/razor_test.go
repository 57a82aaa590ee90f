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

package razor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("razor"))
}

func TestExtractSymbolsFallback_RecognizesMethodPageInject(t *testing.T) {
	content := []byte(`@page "/counter"
@inject NavigationManager Nav

public void IncrementCount() {
    count++;
}
`)

	e := New("razor", "Counter.razor", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbolsFallback(content)

	names := map[string]extract.SymbolKind{}
	for _, s := range symbols {
		names[s.Name] = s.Kind
	}

	assert.Equal(t, extract.KindMethod, names["IncrementCount"])
	assert.Equal(t, extract.KindConstant, names["/counter"])
	assert.Equal(t, extract.KindField, names["Nav"])
}

func TestExtractRelationshipsAndIdentifiers_AreNoops(t *testing.T) {
	e := New("razor", "a.razor", "/repo", nil).(*Extractor)
	assert.Nil(t, e.ExtractRelationships(nil, nil))
	assert.Nil(t, e.ExtractIdentifiers(nil, nil))
}
