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

// Package cpp extracts symbols, relationships and identifiers from C++
// source: namespaces (Namespace), classes/structs (Class/Struct) with
// base-class lists, methods declared inline or out-of-line via
// qualified_identifier function declarators, and fields.
package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("cpp", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for C++.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a C++ extractor.
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
	case "namespace_definition":
		e.descendNamespace(node, symbols, parentID)
		return
	case "class_specifier", "struct_specifier":
		e.descendClass(node, symbols, parentID)
		return
	case "function_definition":
		if s := e.extractFunction(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "field_declaration":
		e.extractField(node, parentID, symbols)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID)
	}
}

func (e *Extractor) descendNamespace(node *sitter.Node, symbols *[]extract.Symbol, parentID string) {
	nameNode := node.ChildByFieldName("name")
	name := "(anonymous)"
	if nameNode != nil {
		name = e.GetNodeText(nameNode)
	}
	s := e.CreateSymbol(node, name, extract.KindNamespace, extract.SymbolOptions{
		Signature:  "namespace " + name,
		Visibility: extract.Public,
		ParentID:   parentID,
	})
	*symbols = append(*symbols, s)
	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			e.walk(body.Child(i), symbols, s.ID)
		}
	}
}

func (e *Extractor) descendClass(node *sitter.Node, symbols *[]extract.Symbol, parentID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.GetNodeText(nameNode)
	kind := extract.KindClass
	keyword := "class"
	if node.Type() == "struct_specifier" {
		kind = extract.KindStruct
		keyword = "struct"
	}
	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  keyword + " " + name,
		Visibility: extract.Public,
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
		Metadata:   extract.Metadata{"bases": baseNames(node, e)},
	})
	*symbols = append(*symbols, s)
	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			e.walk(body.Child(i), symbols, s.ID)
		}
	}
}

func baseNames(node *sitter.Node, e *Extractor) []string {
	var bases []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "base_class_clause" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			c := child.Child(j)
			if c.Type() == "type_identifier" || c.Type() == "qualified_identifier" {
				bases = append(bases, e.GetNodeText(c))
			}
		}
	}
	return bases
}

func (e *Extractor) extractFunction(node *sitter.Node, parentID string) *extract.Symbol {
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return nil
	}
	nameNode := functionName(declarator)
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	simple := name
	if idx := strings.LastIndex(simple, "::"); idx >= 0 {
		simple = simple[idx+2:]
	}
	kind := extract.KindFunction
	if parentID != "" || strings.Contains(name, "::") {
		kind = extract.KindMethod
	}
	s := e.CreateSymbol(node, simple, kind, extract.SymbolOptions{
		Signature:  e.GetNodeText(declarator),
		Visibility: extract.Public,
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func functionName(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "identifier", "qualified_identifier", "field_identifier", "destructor_name", "operator_name":
		return node
	}
	if n := node.ChildByFieldName("declarator"); n != nil {
		return functionName(n)
	}
	return nil
}

func (e *Extractor) extractField(node *sitter.Node, parentID string, symbols *[]extract.Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "field_identifier" {
			continue
		}
		s := e.CreateSymbol(child, e.GetNodeText(child), extract.KindField, extract.SymbolOptions{
			Visibility: extract.Public,
			ParentID:   parentID,
		})
		*symbols = append(*symbols, s)
	}
}

// ExtractRelationships emits Extends edges from the base-class clause
// metadata recorded on each class when the base is defined in this file.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		if s.Kind == extract.KindClass || s.Kind == extract.KindStruct {
			byName[s.Name] = s
		}
	}
	var rels []extract.Relationship
	for _, s := range symbols {
		bases, _ := s.Metadata["bases"].([]string)
		for _, b := range bases {
			if base, ok := byName[b]; ok && base.Name != s.Name {
				rels = append(rels, extract.CreateRelationship(s.ID, base.ID, extract.RelExtends, nil, 1.0, nil))
			}
		}
	}
	return rels
}

// ExtractIdentifiers emits one identifier per call/field-access use
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
	case "call_expression":
		if fn := node.ChildByFieldName("function"); fn != nil {
			e.emitCallTarget(fn, symbols)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			e.walkIdentifiers(child, symbols, child == node.ChildByFieldName("function"))
		}
		return
	case "field_expression":
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
		e.walkIdentifiers(node.Child(i), symbols, false)
	}
}

func (e *Extractor) emitCallTarget(fn *sitter.Node, symbols []extract.Symbol) {
	var target *sitter.Node
	switch fn.Type() {
	case "identifier", "qualified_identifier":
		target = fn
	case "field_expression":
		target = fn.ChildByFieldName("field")
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
