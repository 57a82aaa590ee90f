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

package cpp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("cpp"))
}

func TestExtractSymbols_NamespaceClassAndBases(t *testing.T) {
	content := []byte(`namespace zoo {

class Animal {
};

class Dog : public Animal {
public:
  void bark() {
    wag();
  }
private:
  int age;
};

}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "cpp", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("cpp", "dog.cpp", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)

	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "zoo")
	assert.Equal(t, extract.KindNamespace, byName["zoo"].Kind)

	require.Contains(t, byName, "Dog")
	dog := byName["Dog"]
	bases, _ := dog.Metadata["bases"].([]string)
	assert.Contains(t, bases, "Animal")
	assert.Equal(t, byName["zoo"].ID, dog.ParentID)

	require.Contains(t, byName, "bark")
	assert.Equal(t, extract.KindMethod, byName["bark"].Kind)
	assert.Equal(t, dog.ID, byName["bark"].ParentID)

	require.Contains(t, byName, "age")
	assert.Equal(t, extract.KindField, byName["age"].Kind)
}

func TestExtractRelationships_ExtendsFromBaseClassClause(t *testing.T) {
	content := []byte(`class Animal {};
class Dog : public Animal {};
`)

	tree, cleanup, err := extract.Parse(context.Background(), "cpp", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("cpp", "dog.cpp", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	rels := e.ExtractRelationships(tree, symbols)

	require.Len(t, rels, 1)
	assert.Equal(t, extract.RelExtends, rels[0].Kind)
}

func TestExtractIdentifiers_CallAndFieldAccess(t *testing.T) {
	content := []byte(`void report(Widget w) {
  helper(w.name);
}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "cpp", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("cpp", "widget.cpp", "/repo", content).(*Extractor)
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

func TestExtractIdentifiers_MethodCallDoesNotDoubleCountAsFieldAccess(t *testing.T) {
	content := []byte(`void report(Widget w) {
  w.name();
}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "cpp", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("cpp", "widget.cpp", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	idents := e.ExtractIdentifiers(tree, symbols)

	var calls, members int
	for _, id := range idents {
		if id.Name != "name" {
			continue
		}
		switch id.Kind {
		case extract.IdentCall:
			calls++
		case extract.IdentMemberAccess:
			members++
		}
	}
	assert.Equal(t, 1, calls, "w.name() must emit exactly one Call identifier")
	assert.Equal(t, 0, members, "the callee of a call must not also be emitted as MemberAccess")
}
