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

// Package lua extracts symbols, relationships and identifiers from Lua
// source. Lua has no class keyword, so object-oriented code is
// conventional: a local/global table assigned as a Variable, later
// promoted to Class by the recovery pass in classify.go when it matches
// one of the common idioms (setmetatable, X.__index = X, X.new +
// X:method).
package lua

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("lua", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for Lua.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Lua extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	var symbols []extract.Symbol
	var anon int
	e.walk(tree.RootNode(), &symbols, &anon)
	recoverClassPatterns(e.Content, symbols)
	return symbols
}

func (e *Extractor) walk(node *sitter.Node, symbols *[]extract.Symbol, anon *int) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "function_declaration":
		if s := e.extractFunctionDecl(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "function_definition":
		if parent := node.Parent(); parent == nil || parent.Type() != "assignment_statement" {
			*anon++
			if s := e.extractAnonFunction(node, *anon); s != nil {
				*symbols = append(*symbols, *s)
			}
		}
	case "variable_declaration", "assignment_statement":
		if s := e.extractVariable(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, anon)
	}
}

func (e *Extractor) extractFunctionDecl(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	kind := extract.KindFunction
	if node.ChildByFieldName("method") != nil {
		kind = extract.KindMethod
	}
	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  "function " + name,
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractAnonFunction(node *sitter.Node, n int) *extract.Symbol {
	s := e.CreateSymbol(node, anonName(n), extract.KindFunction, extract.SymbolOptions{
		Signature:  "function(...)",
		Visibility: extract.Private,
		Metadata:   extract.Metadata{"anonymous": true},
	})
	return &s
}

func anonName(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "$anon_0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "$anon_" + string(buf)
}

// extractVariable handles `local x = ...` and bare `x = ...` when the
// right-hand side is not itself a function (those are picked up by
// extractFunctionDecl/extractAnonFunction). Table-literal assignments
// are the common class-definition shape the recovery pass looks for.
func (e *Extractor) extractVariable(node *sitter.Node) *extract.Symbol {
	var nameNode *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "variable_list" {
			if child.ChildCount() > 0 {
				nameNode = child.Child(0)
			}
			break
		}
	}
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindVariable, extract.SymbolOptions{
		Signature:  e.GetNodeText(node),
		Visibility: extract.Public,
	})
	return &s
}

// ExtractRelationships is a stub: Lua has no static class/interface
// graph to derive edges from beyond the recovered class metadata
// already on the symbol.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers emits one identifier per call/index-access use
// site, rightmost-identifier rule, file-scoped containment.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	e.walkIdentifiers(tree.RootNode(), symbols, false)
	return e.Identifiers()
}

func (e *Extractor) walkIdentifiers(node *sitter.Node, symbols []extract.Symbol, isCallee bool) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "function_call":
		if fn := node.ChildByFieldName("name"); fn != nil {
			e.emitCallTarget(fn, symbols)
		}
	case "dot_index_expression":
		if !isCallee {
			if field := node.ChildByFieldName("field"); field != nil {
				containing := extract.FindContainingSymbol(node, symbols)
				pid := ""
				if containing != nil {
					pid = containing.ID
				}
				e.CreateIdentifier(field, e.GetNodeText(field), extract.IdentMemberAccess, pid)
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		e.walkIdentifiers(child, symbols, node.Type() == "function_call" && child == node.ChildByFieldName("name"))
	}
}

func (e *Extractor) emitCallTarget(fn *sitter.Node, symbols []extract.Symbol) {
	var target *sitter.Node
	switch fn.Type() {
	case "identifier":
		target = fn
	case "dot_index_expression":
		target = fn.ChildByFieldName("field")
	case "method_index_expression":
		target = fn.ChildByFieldName("method")
	}
	if target == nil {
		return
	}
	containing := extract.FindContainingSymbol(fn, symbols)
	pid := ""
	if containing != nil {
		pid = containing.ID
	}
	e.CreateIdentifier(target, e.GetNodeText(target), extract.IdentCall, pid)
}
