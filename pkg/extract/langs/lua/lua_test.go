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

package lua

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("lua"))
}

func TestExtractSymbols_FunctionDeclAndVariable(t *testing.T) {
	content := []byte(`local total = 0

function add(a, b)
  return a + b
end
`)

	tree, cleanup, err := extract.Parse(context.Background(), "lua", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("lua", "math.lua", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)

	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "total")
	assert.Equal(t, extract.KindVariable, byName["total"].Kind)

	require.Contains(t, byName, "add")
	assert.Equal(t, extract.KindFunction, byName["add"].Kind)
}

func TestExtractSymbols_RecoversClassFromSetmetatableIdiom(t *testing.T) {
	content := []byte(`local Animal = {}
Animal.__index = Animal

function Animal.new(name)
  local self = setmetatable({}, Animal)
  self.name = name
  return self
end

function Animal:speak()
  print(self.name)
end
`)

	tree, cleanup, err := extract.Parse(context.Background(), "lua", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("lua", "animal.lua", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)

	var animal *extract.Symbol
	for i := range symbols {
		if symbols[i].Name == "Animal" {
			animal = &symbols[i]
		}
	}
	require.NotNil(t, animal)
	assert.Equal(t, extract.KindClass, animal.Kind)
	assert.Equal(t, true, animal.Metadata["recovered_class"])
}

func TestExtractRelationships_IsStub(t *testing.T) {
	e := New("lua", "a.lua", "/repo", nil).(*Extractor)
	assert.Nil(t, e.ExtractRelationships(nil, nil))
}

func TestExtractIdentifiers_CallAndIndexAccess(t *testing.T) {
	content := []byte(`function report(t)
  return helper(t.count)
end
`)

	tree, cleanup, err := extract.Parse(context.Background(), "lua", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("lua", "report.lua", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	idents := e.ExtractIdentifiers(tree, symbols)

	var callNames, memberNames []string
	for _, id := range idents {
		switch id.Kind {
		case extract.IdentCall:
			callNames = append(callNames, id.Name)
		case extract.IdentMemberAccess:
			memberNames = append(memberNames, id.Name)
		}
	}
	assert.Contains(t, callNames, "helper")
	assert.Contains(t, memberNames, "count")
}
