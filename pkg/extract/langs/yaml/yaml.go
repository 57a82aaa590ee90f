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

// Package yaml extracts mapping-key symbols from YAML documents. YAML
// carries neither an inheritance graph nor a call graph, so both
// ExtractRelationships and ExtractIdentifiers are no-ops.
package yaml

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("yaml", New)
}

// Extractor implements extract.Extractor for YAML.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a YAML extractor.
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
	if node.Type() == "block_mapping_pair" {
		e.extractPair(node, symbols, parentID)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID)
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
	if value := node.ChildByFieldName("value"); value != nil {
		e.walk(value, symbols, s.ID)
	}
}

// ExtractRelationships is a no-op: YAML documents carry no reference
// graph worth modeling.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op: YAML documents carry no call graph.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
