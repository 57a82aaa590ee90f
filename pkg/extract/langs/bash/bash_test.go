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

package bash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("bash"))
}

func parseBash(t *testing.T, content []byte) *extract.ExtractionResults {
	t.Helper()
	tree, cleanup, err := extract.Parse(context.Background(), "bash", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("bash", "deploy.sh", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	identifiers := e.ExtractIdentifiers(tree, symbols)
	return &extract.ExtractionResults{Symbols: symbols, Identifiers: identifiers}
}

func TestExtractSymbols_FunctionAndVariable(t *testing.T) {
	content := []byte(`VERSION=1.2.3

deploy() {
  echo "deploying $VERSION"
}
`)

	res := parseBash(t, content)

	byName := map[string]extract.Symbol{}
	for _, s := range res.Symbols {
		byName[s.Name] = s
	}
	require.Contains(t, byName, "VERSION")
	assert.Equal(t, extract.KindVariable, byName["VERSION"].Kind)
	require.Contains(t, byName, "deploy")
	assert.Equal(t, extract.KindFunction, byName["deploy"].Kind)
}

func TestExtractIdentifiers_OnlyCallsToLocallyDefinedFunctions(t *testing.T) {
	content := []byte(`build() {
  echo "building"
}

build
ls -la
`)

	res := parseBash(t, content)

	var calls []string
	for _, id := range res.Identifiers {
		assert.Equal(t, extract.IdentCall, id.Kind)
		calls = append(calls, id.Name)
	}
	assert.Equal(t, []string{"build"}, calls, "ls is not a function defined in this file")
}

func TestExtractRelationships_IsNoop(t *testing.T) {
	e := New("bash", "a.sh", "/repo", nil).(*Extractor)
	assert.Nil(t, e.ExtractRelationships(nil, nil))
}
