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

// Package swift extracts symbols, relationships and identifiers from
// Swift source: classes/structs/protocols with inheritance clauses,
// functions and properties.
package swift

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("swift", New)
}

var commentTypes = map[string]bool{"comment": true, "multiline_comment": true}

// Extractor implements extract.Extractor for Swift.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Swift extractor.
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
	case "class_declaration":
		e.descendType(node, symbols, parentID)
		return
	case "protocol_declaration":
		e.descendType(node, symbols, parentID)
		return
	case "function_declaration":
		if s := e.extractFunction(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "property_declaration":
		e.extractProperty(node, parentID, symbols)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID)
	}
}

func (e *Extractor) descendType(node *sitter.Node, symbols *[]extract.Symbol, parentID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.GetNodeText(nameNode)

	kind := extract.KindClass
	keyword := "class"
	switch node.Type() {
	case "protocol_declaration":
		kind = extract.KindInterface
		keyword = "protocol"
	case "class_declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			if node.Child(i).Type() == "struct" {
				kind = extract.KindStruct
				keyword = "struct"
			}
		}
	}

	var bases []string
	if inherit := node.ChildByFieldName("inheritance_clause"); inherit != nil {
		for i := 0; i < int(inherit.ChildCount()); i++ {
			c := inherit.Child(i)
			if c.Type() == "user_type" || c.Type() == "type_identifier" {
				bases = append(bases, e.GetNodeText(c))
			}
		}
	}

	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  keyword + " " + name,
		Visibility: extract.Public,
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
		Metadata:   extract.Metadata{"bases": bases},
	})
	*symbols = append(*symbols, s)

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			e.walk(body.Child(i), symbols, s.ID)
		}
	}
}

func (e *Extractor) extractFunction(node *sitter.Node, parentID string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	params := ""
	if p := node.ChildByFieldName("parameters"); p != nil {
		params = e.GetNodeText(p)
	}
	kind := extract.KindFunction
	if parentID != "" {
		kind = extract.KindMethod
	}
	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  "func " + name + params,
		Visibility: extract.Public,
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractProperty(node *sitter.Node, parentID string, symbols *[]extract.Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "pattern" {
			continue
		}
		name := e.GetNodeText(child)
		s := e.CreateSymbol(child, name, extract.KindProperty, extract.SymbolOptions{
			Visibility: extract.Public,
			ParentID:   parentID,
		})
		*symbols = append(*symbols, s)
	}
}

// ExtractRelationships emits Extends/Implements edges from each type's
// recorded inheritance-clause list, when the target is defined in this
// file. A conformance to a protocol symbol is reported as Implements;
// a superclass reference is reported as Extends.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		if s.Kind == extract.KindClass || s.Kind == extract.KindInterface || s.Kind == extract.KindStruct {
			byName[s.Name] = s
		}
	}
	var rels []extract.Relationship
	for _, s := range symbols {
		bases, _ := s.Metadata["bases"].([]string)
		for _, b := range bases {
			if target, ok := byName[b]; ok && target.Name != s.Name {
				kind := extract.RelExtends
				if target.Kind == extract.KindInterface {
					kind = extract.RelImplements
				}
				rels = append(rels, extract.CreateRelationship(s.ID, target.ID, kind, nil, 1.0, nil))
			}
		}
	}
	return rels
}

// ExtractIdentifiers emits one identifier per call/member-access use
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
		fn := node.Child(0)
		if fn != nil {
			e.emitCallTarget(fn, symbols)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			e.walkIdentifiers(child, symbols, child == fn)
		}
		return
	case "navigation_expression":
		if !isCallee {
			if suffix := node.ChildByFieldName("suffix"); suffix != nil {
				containing := extract.FindContainingSymbol(node, symbols)
				pid := ""
				if containing != nil {
					pid = containing.ID
				}
				e.CreateIdentifier(suffix, e.GetNodeText(suffix), extract.IdentMemberAccess, pid)
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
	case "simple_identifier":
		target = fn
	case "navigation_expression":
		target = fn.ChildByFieldName("suffix")
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
