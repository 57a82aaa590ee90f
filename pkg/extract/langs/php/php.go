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

// Package php extracts symbols, relationships and identifiers from PHP
// source: classes/interfaces/traits with extends/implements clauses,
// methods and properties.
package php

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("php", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for PHP.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a PHP extractor.
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
		e.descendType(node, extract.KindClass, "class", symbols, parentID)
		return
	case "interface_declaration":
		e.descendType(node, extract.KindInterface, "interface", symbols, parentID)
		return
	case "trait_declaration":
		e.descendType(node, extract.KindTrait, "trait", symbols, parentID)
		return
	case "function_definition":
		if s := e.extractFunction(node, parentID, extract.KindFunction); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "method_declaration":
		if s := e.extractFunction(node, parentID, extract.KindMethod); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "property_declaration":
		e.extractProperties(node, parentID, symbols)
	case "namespace_use_declaration":
		e.extractUse(node, symbols)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID)
	}
}

func (e *Extractor) descendType(node *sitter.Node, kind extract.SymbolKind, keyword string, symbols *[]extract.Symbol, parentID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.GetNodeText(nameNode)
	var bases []string
	if base := node.ChildByFieldName("base_clause"); base != nil {
		bases = append(bases, identifierTexts(base, e)...)
	}
	if iface := node.ChildByFieldName("interfaces"); iface != nil {
		bases = append(bases, identifierTexts(iface, e)...)
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

func identifierTexts(node *sitter.Node, e *Extractor) []string {
	var out []string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() == "name" || c.Type() == "qualified_name" {
			out = append(out, e.GetNodeText(c))
		}
	}
	return out
}

func (e *Extractor) extractFunction(node *sitter.Node, parentID string, kind extract.SymbolKind) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	params := ""
	if p := node.ChildByFieldName("parameters"); p != nil {
		params = e.GetNodeText(p)
	}
	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  "function " + name + params,
		Visibility: e.visibilityOf(node),
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) visibilityOf(node *sitter.Node) extract.Visibility {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "visibility_modifier" {
			continue
		}
		switch e.GetNodeText(child) {
		case "private":
			return extract.Private
		case "protected":
			return extract.Protected
		}
		return extract.Public
	}
	return extract.Public
}

func (e *Extractor) extractProperties(node *sitter.Node, parentID string, symbols *[]extract.Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "property_element" {
			continue
		}
		nameNode := child.Child(0)
		if nameNode == nil {
			continue
		}
		name := e.GetNodeText(nameNode)
		if nameNode.Type() == "variable_name" && nameNode.NamedChildCount() > 0 {
			name = e.GetNodeText(nameNode.NamedChild(0))
		}
		s := e.CreateSymbol(child, name, extract.KindField, extract.SymbolOptions{
			Visibility: e.visibilityOf(node),
			ParentID:   parentID,
		})
		*symbols = append(*symbols, s)
	}
}

func (e *Extractor) extractUse(node *sitter.Node, symbols *[]extract.Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "namespace_use_clause" {
			continue
		}
		name := e.GetNodeText(child)
		s := e.CreateSymbol(child, name, extract.KindImport, extract.SymbolOptions{
			Signature:  "use " + name,
			Visibility: extract.Public,
		})
		*symbols = append(*symbols, s)
	}
}

// ExtractRelationships emits Extends/Implements edges from each type's
// recorded base/interface list, when the target is defined in this file.
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
	case "function_call_expression":
		if fn := node.ChildByFieldName("function"); fn != nil {
			e.emitCallTarget(fn, symbols)
		}
	case "member_call_expression":
		if name := node.ChildByFieldName("name"); name != nil {
			containing := extract.FindContainingSymbol(node, symbols)
			pid := ""
			if containing != nil {
				pid = containing.ID
			}
			e.CreateIdentifier(name, e.GetNodeText(name), extract.IdentCall, pid)
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
		e.walkIdentifiers(node.Child(i), symbols, false)
	}
}

func (e *Extractor) emitCallTarget(fn *sitter.Node, symbols []extract.Symbol) {
	if fn.Type() != "name" {
		return
	}
	containing := extract.FindContainingSymbol(fn, symbols)
	pid := ""
	if containing != nil {
		pid = containing.ID
	}
	e.CreateIdentifier(fn, e.GetNodeText(fn), extract.IdentCall, pid)
}
