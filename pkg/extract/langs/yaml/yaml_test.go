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

package yaml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("yaml"))
}

func TestExtractSymbols_NestedMappingKeys(t *testing.T) {
	content := []byte(`name: widget
build:
  target: release
  flags: fast
`)

	tree, cleanup, err := extract.Parse(context.Background(), "yaml", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("yaml", "config.yaml", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)

	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
		assert.Equal(t, extract.KindConstant, s.Kind)
	}

	require.Contains(t, byName, "name")
	assert.Empty(t, byName["name"].ParentID)

	require.Contains(t, byName, "build")
	require.Contains(t, byName, "target")
	assert.Equal(t, byName["build"].ID, byName["target"].ParentID)
	assert.Equal(t, byName["build"].ID, byName["flags"].ParentID)
}

func TestExtractRelationshipsAndIdentifiers_AreNoops(t *testing.T) {
	e := New("yaml", "a.yaml", "/repo", nil).(*Extractor)
	assert.Nil(t, e.ExtractRelationships(nil, nil))
	assert.Nil(t, e.ExtractIdentifiers(nil, nil))
}
