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

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("markdown"))
}

func TestExtractSymbolsFallback_NestsHeadingsByLevel(t *testing.T) {
	content := []byte(`# Title

## Section One

### Subsection

## Section Two
`)

	e := New("markdown", "doc.md", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbolsFallback(content)
	require.Len(t, symbols, 4)

	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
		assert.Equal(t, extract.KindModule, s.Kind)
	}

	assert.Empty(t, byName["Title"].ParentID)
	assert.Equal(t, byName["Title"].ID, byName["Section One"].ParentID)
	assert.Equal(t, byName["Section One"].ID, byName["Subsection"].ParentID)
	assert.Equal(t, byName["Title"].ID, byName["Section Two"].ParentID,
		"a sibling heading at the same level must close the deeper subsection's scope")
}

func TestExtractRelationshipsAndIdentifiers_AreNoops(t *testing.T) {
	e := New("markdown", "a.md", "/repo", nil).(*Extractor)
	assert.Nil(t, e.ExtractRelationships(nil, nil))
	assert.Nil(t, e.ExtractIdentifiers(nil, nil))
}
