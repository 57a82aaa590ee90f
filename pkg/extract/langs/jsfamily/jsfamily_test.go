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

package jsfamily

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestExtractSymbols_ClassMethodsAndAnonArrow(t *testing.T) {
	content := []byte(`import { helper } from "./helper";

class Base {}

class Widget extends Base {
  render() {
    return 1;
  }
}

const onClick = () => {
  helper();
};

setTimeout(() => {
  helper();
}, 0);
`)

	tree, cleanup, err := extract.Parse(context.Background(), "javascript", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("javascript", "widget.js", "/repo", content).(*Extractor)
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

	require.Contains(t, byName, "render")
	assert.Equal(t, extract.KindMethod, byName["render"].Kind)
	assert.Equal(t, widget.ID, byName["render"].ParentID)

	require.Contains(t, byName, "onClick")
	assert.Equal(t, extract.KindFunction, byName["onClick"].Kind)

	require.Contains(t, byName, "./helper")
	assert.Equal(t, extract.KindImport, byName["./helper"].Kind)

	var sawAnon bool
	for _, s := range symbols {
		if s.Metadata["anonymous"] == true {
			sawAnon = true
		}
	}
	assert.True(t, sawAnon, "expected the setTimeout callback to surface as an anonymous $arrow_N symbol")
}

func TestExtractRelationships_ExtendsWhenBaseLocallyDefined(t *testing.T) {
	content := []byte(`class Base {}
class Widget extends Base {}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "javascript", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("javascript", "widget.js", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	rels := e.ExtractRelationships(tree, symbols)

	require.Len(t, rels, 1)
	assert.Equal(t, extract.RelExtends, rels[0].Kind)
}

func TestExtractRelationships_ImplementsFromTypeScriptHeritage(t *testing.T) {
	content := []byte(`interface Greeter {
  hello(): void;
}

class Widget implements Greeter {
  hello(): void {}
}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "typescript", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("typescript", "widget.ts", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	rels := e.ExtractRelationships(tree, symbols)

	require.Len(t, rels, 1)
	assert.Equal(t, extract.RelImplements, rels[0].Kind)
}

func TestExtractSymbols_InterfaceTypeAliasAndEnum(t *testing.T) {
	content := []byte(`interface Point {
  x: number;
  y: number;
}

type ID = string;

enum Color {
  Red,
  Green,
}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "typescript", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("typescript", "types.ts", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)

	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "Point")
	assert.Equal(t, extract.KindInterface, byName["Point"].Kind)

	require.Contains(t, byName, "ID")
	assert.Equal(t, extract.KindTypeAlias, byName["ID"].Kind)

	require.Contains(t, byName, "Color")
	assert.Equal(t, extract.KindEnum, byName["Color"].Kind)

	require.Contains(t, byName, "Red")
	assert.Equal(t, extract.KindEnumMember, byName["Red"].Kind)
	assert.Equal(t, byName["Color"].ID, byName["Red"].ParentID)
}

func TestExtractIdentifiers_CallAndMemberAccess(t *testing.T) {
	content := []byte(`function report(widget) {
  helper(widget.name);
}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "javascript", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("javascript", "widget.js", "/repo", content).(*Extractor)
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
	assert.Contains(t, memberNames, "name")
}
