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

// Package bash extracts symbols and identifiers from shell scripts:
// function definitions and top-level variable assignments. Bash has no
// static inheritance or import graph, so ExtractRelationships is a
// no-op.
package bash

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("bash", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for Bash/shell scripts.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Bash extractor.
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
	case "function_definition":
		if s := e.extractFunction(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "variable_assignment":
		if s := e.extractVariable(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols)
	}
}

func (e *Extractor) extractFunction(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  name + "()",
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractVariable(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindVariable, extract.SymbolOptions{
		Visibility: extract.Public,
	})
	return &s
}

// ExtractRelationships is a no-op: shell scripts carry no static
// inheritance or module graph worth modeling.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers emits one Call identifier per simple command whose
// name resolves to a function defined in this file.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	funcs := map[string]bool{}
	for _, s := range symbols {
		if s.Kind == extract.KindFunction {
			funcs[s.Name] = true
		}
	}
	e.walkIdentifiers(tree.RootNode(), symbols, funcs)
	return e.Identifiers()
}

func (e *Extractor) walkIdentifiers(node *sitter.Node, symbols []extract.Symbol, funcs map[string]bool) {
	if node == nil {
		return
	}
	if node.Type() == "command_name" {
		name := e.GetNodeText(node)
		if funcs[name] {
			containing := extract.FindContainingSymbol(node, symbols)
			pid := ""
			if containing != nil {
				pid = containing.ID
			}
			e.CreateIdentifier(node, name, extract.IdentCall, pid)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkIdentifiers(node.Child(i), symbols, funcs)
	}
}
