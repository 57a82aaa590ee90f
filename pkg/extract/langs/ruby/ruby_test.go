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

package ruby

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("ruby"))
}

func TestExtractSymbols_ClassModuleAndMethods(t *testing.T) {
	content := []byte(`module Greetable
end

class Base
end

class Widget < Base
  include Greetable

  def initialize(name)
    @name = name
  end

  def render
    puts @name
  end

  def self.build
    new("x")
  end
end
`)

	tree, cleanup, err := extract.Parse(context.Background(), "ruby", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("ruby", "widget.rb", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)

	var widget *extract.Symbol
	byName := map[string]extract.Symbol{}
	for i := range symbols {
		byName[symbols[i].Name] = symbols[i]
		if symbols[i].Name == "Widget" {
			widget = &symbols[i]
		}
	}
	require.NotNil(t, widget)
	assert.Equal(t, extract.KindClass, widget.Kind)

	require.Contains(t, byName, "Greetable")
	assert.Equal(t, extract.KindModule, byName["Greetable"].Kind)

	require.Contains(t, byName, "initialize")
	assert.Equal(t, extract.Private, byName["initialize"].Visibility)
	assert.Equal(t, widget.ID, byName["initialize"].ParentID)

	require.Contains(t, byName, "render")
	assert.Equal(t, extract.Public, byName["render"].Visibility)

	require.Contains(t, byName, "self.build")
	assert.Equal(t, extract.KindMethod, byName["self.build"].Kind)
	assert.Equal(t, true, byName["self.build"].Metadata["singleton"])
}

func TestExtractRelationships_ExtendsAndIncludeEmitsImplements(t *testing.T) {
	content := []byte(`module Greetable
end

class Base
end

class Widget < Base
  include Greetable
end
`)

	tree, cleanup, err := extract.Parse(context.Background(), "ruby", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("ruby", "widget.rb", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	rels := e.ExtractRelationships(tree, symbols)

	var sawExtends, sawImplements bool
	for _, r := range rels {
		switch r.Kind {
		case extract.RelExtends:
			sawExtends = true
		case extract.RelImplements:
			sawImplements = true
		}
	}
	assert.True(t, sawExtends, "expected an Extends edge from Widget to Base")
	assert.True(t, sawImplements, "expected an Implements edge from Widget to Greetable")
}

func TestExtractIdentifiers_MethodCalls(t *testing.T) {
	content := []byte(`class Widget
  def render
    helper(1)
  end
end
`)

	tree, cleanup, err := extract.Parse(context.Background(), "ruby", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("ruby", "widget.rb", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	idents := e.ExtractIdentifiers(tree, symbols)

	var names []string
	for _, id := range idents {
		assert.Equal(t, extract.IdentCall, id.Kind)
		names = append(names, id.Name)
	}
	assert.Contains(t, names, "helper")
}
