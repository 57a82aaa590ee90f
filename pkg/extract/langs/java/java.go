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

// Package java extracts symbols, relationships and identifiers from
// Java source: classes/interfaces/enums with nested-body walking
// parented the same way parser_python.go's class walker threads a
// class prefix down into its methods, generalized to ParentID.
package java

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("java", New)
}

var commentTypes = map[string]bool{"line_comment": true, "block_comment": true}

// Extractor implements extract.Extractor for Java.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Java extractor.
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
	case "enum_declaration":
		e.descendType(node, extract.KindEnum, "enum", symbols, parentID)
		return
	case "method_declaration", "constructor_declaration":
		if s := e.extractMethod(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "field_declaration":
		e.extractFields(node, parentID, symbols)
	case "import_declaration":
		if s := e.extractImport(node); s != nil {
			*symbols = append(*symbols, *s)
		}
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
	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  keyword + " " + name,
		Visibility: visibilityOf(node),
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
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
		child := node.Child(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			switch child.Child(j).Type() {
			case "public":
				return extract.Public
			case "private":
				return extract.Private
			case "protected":
				return extract.Protected
			}
		}
	}
	return extract.Private // package-private default
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
	kind := extract.KindMethod
	if node.Type() == "constructor_declaration" {
		kind = extract.KindConstructor
	}
	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  name + params,
		Visibility: visibilityOf(node),
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractFields(node *sitter.Node, parentID string, symbols *[]extract.Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		s := e.CreateSymbol(child, e.GetNodeText(nameNode), extract.KindField, extract.SymbolOptions{
			Visibility: visibilityOf(node),
			ParentID:   parentID,
		})
		*symbols = append(*symbols, s)
	}
}

func (e *Extractor) extractImport(node *sitter.Node) *extract.Symbol {
	path := e.GetNodeText(node)
	s := e.CreateSymbol(node, path, extract.KindImport, extract.SymbolOptions{
		Signature:  path,
		Visibility: extract.Public,
	})
	return &s
}

// ExtractRelationships emits Extends/Implements edges from a class's
// superclass/interfaces clauses when the target is defined in this file.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		if s.Kind == extract.KindClass || s.Kind == extract.KindInterface {
			byName[s.Name] = s
		}
	}
	var rels []extract.Relationship
	e.walkHeritage(tree.RootNode(), byName, &rels)
	return rels
}

func (e *Extractor) walkHeritage(node *sitter.Node, byName map[string]extract.Symbol, rels *[]extract.Relationship) {
	if node == nil {
		return
	}
	if node.Type() == "class_declaration" {
		nameNode := node.ChildByFieldName("name")
		if nameNode != nil {
			owner, ok := byName[e.GetNodeText(nameNode)]
			if ok {
				if sup := node.ChildByFieldName("superclass"); sup != nil {
					for i := 0; i < int(sup.NamedChildCount()); i++ {
						e.emitRef(sup.NamedChild(i), owner, extract.RelExtends, byName, rels)
					}
				}
				if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
					e.walkTypeList(ifaces, owner, byName, rels)
				}
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkHeritage(node.Child(i), byName, rels)
	}
}

func (e *Extractor) walkTypeList(node *sitter.Node, owner extract.Symbol, byName map[string]extract.Symbol, rels *[]extract.Relationship) {
	if node.Type() == "type_identifier" {
		e.emitRef(node, owner, extract.RelImplements, byName, rels)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkTypeList(node.Child(i), owner, byName, rels)
	}
}

func (e *Extractor) emitRef(node *sitter.Node, owner extract.Symbol, kind extract.RelationshipKind, byName map[string]extract.Symbol, rels *[]extract.Relationship) {
	name := e.GetNodeText(node)
	if target, ok := byName[name]; ok && target.Name != owner.Name {
		*rels = append(*rels, extract.CreateRelationship(owner.ID, target.ID, kind, node, 1.0, nil))
	}
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
	case "method_invocation":
		if name := node.ChildByFieldName("name"); name != nil {
			containing := extract.FindContainingSymbol(node, symbols)
			pid := ""
			if containing != nil {
				pid = containing.ID
			}
			e.CreateIdentifier(name, e.GetNodeText(name), extract.IdentCall, pid)
		}
	case "field_access":
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
