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

// Package toml extracts table and key symbols from TOML documents.
// TOML carries neither an inheritance graph nor a call graph, so both
// ExtractRelationships and ExtractIdentifiers are no-ops.
package toml

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("toml", New)
}

// Extractor implements extract.Extractor for TOML.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a TOML extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	var symbols []extract.Symbol
	e.walk(tree.RootNode(), &symbols, "")
	return symbols
}

func (e *Extractor) walk(node *sitter.Node, symbols *[]extract.Symbol, parentID string) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "table", "table_array_element":
		e.extractTable(node, symbols, parentID)
		return
	case "pair":
		e.extractPair(node, symbols, parentID)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID)
	}
}

func (e *Extractor) extractTable(node *sitter.Node, symbols *[]extract.Symbol, parentID string) {
	keyNode := node.ChildByFieldName("key")
	name := "(root)"
	if keyNode != nil {
		name = e.GetNodeText(keyNode)
	}
	s := e.CreateSymbol(node, name, extract.KindNamespace, extract.SymbolOptions{
		Signature:  "[" + name + "]",
		Visibility: extract.Public,
		ParentID:   parentID,
	})
	*symbols = append(*symbols, s)
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, s.ID)
	}
}

func (e *Extractor) extractPair(node *sitter.Node, symbols *[]extract.Symbol, parentID string) {
	keyNode := node.ChildByFieldName("key")
	if keyNode == nil {
		return
	}
	name := e.GetNodeText(keyNode)
	s := e.CreateSymbol(node, name, extract.KindConstant, extract.SymbolOptions{
		Visibility: extract.Public,
		ParentID:   parentID,
	})
	*symbols = append(*symbols, s)
}

// ExtractRelationships is a no-op: TOML documents carry no reference
// graph worth modeling.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op: TOML documents carry no call graph.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
