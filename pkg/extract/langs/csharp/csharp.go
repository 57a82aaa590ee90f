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

// Package csharp extracts symbols, relationships and identifiers from
// C# source: namespaces, classes/interfaces/structs with base lists,
// methods and properties, parented the same way java.go threads a
// type's body walk.
package csharp

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("csharp", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for C#.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a C# extractor.
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
	case "namespace_declaration":
		e.descendNamespace(node, symbols, parentID)
		return
	case "class_declaration", "struct_declaration":
		e.descendType(node, extract.KindClass, "class", symbols, parentID)
		return
	case "interface_declaration":
		e.descendType(node, extract.KindInterface, "interface", symbols, parentID)
		return
	case "method_declaration":
		if s := e.extractMethod(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "property_declaration":
		if s := e.extractProperty(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "using_directive":
		if s := e.extractUsing(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID)
	}
}

func (e *Extractor) descendNamespace(node *sitter.Node, symbols *[]extract.Symbol, parentID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.GetNodeText(nameNode)
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

func (e *Extractor) descendType(node *sitter.Node, kind extract.SymbolKind, keyword string, symbols *[]extract.Symbol, parentID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.GetNodeText(nameNode)
	var bases []string
	if baseList := node.ChildByFieldName("bases"); baseList != nil {
		for i := 0; i < int(baseList.ChildCount()); i++ {
			c := baseList.Child(i)
			if c.Type() == "identifier" || c.Type() == "generic_name" {
				bases = append(bases, e.GetNodeText(c))
			}
		}
	}
	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  keyword + " " + name,
		Visibility: visibilityOf(node),
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

func visibilityOf(node *sitter.Node) extract.Visibility {
	for i := 0; i < int(node.ChildCount()); i++ {
		switch node.Child(i).Type() {
		case "public":
			return extract.Public
		case "private":
			return extract.Private
		case "protected":
			return extract.Protected
		case "internal":
			return extract.Private
		}
	}
	return extract.Private
}

func (e *Extractor) extractMethod(node *sitter.Node, parentID string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	params := ""
	if p := node.ChildByFieldName("parameters"); p != nil {
		params = e.GetNodeText(p)
	}
	s := e.CreateSymbol(node, name, extract.KindMethod, extract.SymbolOptions{
		Signature:  name + params,
		Visibility: visibilityOf(node),
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractProperty(node *sitter.Node, parentID string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	s := e.CreateSymbol(node, e.GetNodeText(nameNode), extract.KindProperty, extract.SymbolOptions{
		Visibility: visibilityOf(node),
		ParentID:   parentID,
	})
	return &s
}

func (e *Extractor) extractUsing(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindImport, extract.SymbolOptions{
		Signature:  "using " + name,
		Visibility: extract.Public,
	})
	return &s
}

// ExtractRelationships emits Extends/Implements edges from each type's
// recorded base list, when the target is defined in this file.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		if s.Kind == extract.KindClass || s.Kind == extract.KindInterface {
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
	case "invocation_expression":
		if fn := node.ChildByFieldName("function"); fn != nil {
			e.emitCallTarget(fn, symbols)
		}
	case "member_access_expression":
		if !isCallee {
			if name := node.ChildByFieldName("name"); name != nil {
				containing := extract.FindContainingSymbol(node, symbols)
				pid := ""
				if containing != nil {
					pid = containing.ID
				}
				e.CreateIdentifier(name, e.GetNodeText(name), extract.IdentMemberAccess, pid)
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		e.walkIdentifiers(child, symbols, node.Type() == "invocation_expression" && child == node.ChildByFieldName("function"))
	}
}

func (e *Extractor) emitCallTarget(fn *sitter.Node, symbols []extract.Symbol) {
	var target *sitter.Node
	switch fn.Type() {
	case "identifier":
		target = fn
	case "member_access_expression":
		target = fn.ChildByFieldName("name")
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
