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

// Package css extracts rule-set symbols from CSS stylesheets: one
// symbol per selector, named by its selector text. CSS has neither an
// inheritance graph nor a call graph, so both ExtractRelationships and
// ExtractIdentifiers are no-ops.
package css

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("css", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for CSS.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a CSS extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	var symbols []extract.Symbol
	e.walk(tree.RootNode(), &symbols)
	return symbols
}

func (e *Extractor) walk(node *sitter.Node, symbols *[]extract.Symbol) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "rule_set":
		e.extractRuleSet(node, symbols)
		return
	case "media_statement", "keyframes_statement":
		if body := lastNamedChild(node); body != nil {
			for i := 0; i < int(body.ChildCount()); i++ {
				e.walk(body.Child(i), symbols)
			}
			return
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols)
	}
}

func lastNamedChild(node *sitter.Node) *sitter.Node {
	for i := int(node.ChildCount()) - 1; i >= 0; i-- {
		if node.Child(i).Type() == "block" {
			return node.Child(i)
		}
	}
	return nil
}

func (e *Extractor) extractRuleSet(node *sitter.Node, symbols *[]extract.Symbol) {
	selectors := node.ChildByFieldName("selectors")
	if selectors == nil {
		selectors = node.Child(0)
	}
	if selectors == nil {
		return
	}
	name := e.GetNodeText(selectors)
	s := e.CreateSymbol(node, name, extract.KindVariable, extract.SymbolOptions{
		Signature:  name,
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	*symbols = append(*symbols, s)
}

// ExtractRelationships is a no-op: stylesheets carry no static
// inheritance graph.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op: stylesheets carry no call graph.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
