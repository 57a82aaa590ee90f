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

package golang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("go"))
}

func TestExtractSymbols_PackageStructMethodAndImport(t *testing.T) {
	content := []byte(`package widget

import "fmt"

type Server struct {
	Name string
	port int
}

func (s *Server) Hello() string {
	return s.Name
}

func New() *Server {
	return &Server{}
}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "go", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("go", "widget.go", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)

	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "widget")
	assert.Equal(t, extract.KindNamespace, byName["widget"].Kind)

	require.Contains(t, byName, "fmt")
	assert.Equal(t, extract.KindImport, byName["fmt"].Kind)

	require.Contains(t, byName, "Server")
	assert.Equal(t, extract.KindStruct, byName["Server"].Kind)

	require.Contains(t, byName, "Name")
	assert.Equal(t, extract.Public, byName["Name"].Visibility)
	require.Contains(t, byName, "port")
	assert.Equal(t, extract.Private, byName["port"].Visibility)

	require.Contains(t, byName, "Server.Hello")
	assert.Equal(t, extract.KindMethod, byName["Server.Hello"].Kind)
	assert.Equal(t, "Server", byName["Server.Hello"].Metadata["receiver_type"])

	require.Contains(t, byName, "New")
	assert.Equal(t, extract.KindFunction, byName["New"].Kind)
}

func TestExtractRelationships_ImplementsWhenMethodSetMatches(t *testing.T) {
	content := []byte(`package widget

type Greeter interface {
	Hello() string
}

type Server struct{}

func (s *Server) Hello() string {
	return "hi"
}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "go", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("go", "widget.go", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbols(tree)
	rels := e.ExtractRelationships(tree, symbols)

	require.Len(t, rels, 1)
	assert.Equal(t, extract.RelImplements, rels[0].Kind)
}

func TestExtractIdentifiers_CallAndSelector(t *testing.T) {
	content := []byte(`package widget

func report(s *Server) {
	helper(s.Name)
}
`)

	tree, cleanup, err := extract.Parse(context.Background(), "go", content)
	require.NoError(t, err)
	defer cleanup()

	e := New("go", "widget.go", "/repo", content).(*Extractor)
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
	assert.Contains(t, memberNames, "Name")
}
