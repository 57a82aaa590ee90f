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

// Package c extracts symbols, relationships and identifiers from C
// source: functions, struct/union/enum declarations and fields. C has
// no class/interface graph, so ExtractRelationships is a no-op.
package c

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("c", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for C.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a C extractor.
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
	case "struct_specifier", "union_specifier":
		e.extractAggregate(node, symbols)
	case "enum_specifier":
		e.extractEnum(node, symbols)
	case "preproc_include":
		if s := e.extractInclude(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols)
	}
}

func (e *Extractor) extractFunction(node *sitter.Node) *extract.Symbol {
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return nil
	}
	nameNode := functionName(declarator)
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  e.GetNodeText(declarator),
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func functionName(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == "identifier" {
		return node
	}
	if n := node.ChildByFieldName("declarator"); n != nil {
		return functionName(n)
	}
	return nil
}

func (e *Extractor) extractAggregate(node *sitter.Node, symbols *[]extract.Symbol) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.GetNodeText(nameNode)
	keyword := "struct"
	if node.Type() == "union_specifier" {
		keyword = "union"
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	s := e.CreateSymbol(node, name, extract.KindStruct, extract.SymbolOptions{
		Signature:  keyword + " " + name,
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	*symbols = append(*symbols, s)

	for i := 0; i < int(body.ChildCount()); i++ {
		field := body.Child(i)
		if field.Type() != "field_declaration" {
			continue
		}
		fdecl := field.ChildByFieldName("declarator")
		if fdecl == nil {
			continue
		}
		fname := functionName(fdecl)
		if fname == nil {
			continue
		}
		fs := e.CreateSymbol(field, e.GetNodeText(fname), extract.KindField, extract.SymbolOptions{
			Visibility: extract.Public,
			ParentID:   s.ID,
		})
		*symbols = append(*symbols, fs)
	}
}

func (e *Extractor) extractEnum(node *sitter.Node, symbols *[]extract.Symbol) {
	nameNode := node.ChildByFieldName("name")
	name := "anonymous_enum"
	if nameNode != nil {
		name = e.GetNodeText(nameNode)
	}
	s := e.CreateSymbol(node, name, extract.KindEnum, extract.SymbolOptions{
		Signature:  "enum " + name,
		Visibility: extract.Public,
	})
	*symbols = append(*symbols, s)

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member.Type() != "enumerator" {
			continue
		}
		mn := member.ChildByFieldName("name")
		if mn == nil {
			continue
		}
		ms := e.CreateSymbol(member, e.GetNodeText(mn), extract.KindEnumMember, extract.SymbolOptions{
			Visibility: extract.Public,
			ParentID:   s.ID,
		})
		*symbols = append(*symbols, ms)
	}
}

func (e *Extractor) extractInclude(node *sitter.Node) *extract.Symbol {
	pathNode := node.ChildByFieldName("path")
	if pathNode == nil {
		return nil
	}
	path := e.GetNodeText(pathNode)
	s := e.CreateSymbol(node, path, extract.KindImport, extract.SymbolOptions{
		Signature:  "#include " + path,
		Visibility: extract.Public,
	})
	return &s
}

// ExtractRelationships is a no-op: C has no inheritance graph.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers emits one identifier per call/field-access use
// site, rightmost-identifier rule, file-scoped containment.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	e.walkIdentifiers(tree.RootNode(), symbols)
	return e.Identifiers()
}

func (e *Extractor) walkIdentifiers(node *sitter.Node, symbols []extract.Symbol) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "call_expression":
		if fn := node.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" {
			containing := extract.FindContainingSymbol(node, symbols)
			pid := ""
			if containing != nil {
				pid = containing.ID
			}
			e.CreateIdentifier(fn, e.GetNodeText(fn), extract.IdentCall, pid)
		}
	case "field_expression":
		if field := node.ChildByFieldName("field"); field != nil {
			containing := extract.FindContainingSymbol(node, symbols)
			pid := ""
			if containing != nil {
				pid = containing.ID
			}
			e.CreateIdentifier(field, e.GetNodeText(field), extract.IdentMemberAccess, pid)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkIdentifiers(node.Child(i), symbols)
	}
}
