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

// Package jsfamily is the extraction core shared by javascript, typescript
// and tsx: all three grammars share the same function/class/method node
// shapes (TypeScript and TSX are strict grammar supersets of JavaScript),
// so the per-language packages are thin dispatch.Register wrappers around
// this one Extractor, parameterized only by the language tag carried into
// NewBaseExtractor. Grounded on parser_javascript.go:
// function_declaration, arrow/function-expression variable_declarator,
// method_definition and anonymous arrow-function handling carry over
// directly, generalized to the full Symbol/Identifier/Relationship
// contract and extended with TypeScript interface/type-alias/enum nodes.
package jsfamily

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/extract"
)

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for JavaScript/TypeScript/TSX.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a jsfamily extractor for the given language tag
// ("javascript", "typescript" or "tsx").
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	var symbols []extract.Symbol
	var anon int
	e.walk(tree.RootNode(), &symbols, "", &anon)
	return symbols
}

func (e *Extractor) walk(node *sitter.Node, symbols *[]extract.Symbol, parentID string, anon *int) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "class_declaration", "abstract_class_declaration":
		s := e.extractClass(node)
		if s != nil {
			*symbols = append(*symbols, *s)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := 0; i < int(body.ChildCount()); i++ {
					e.walk(body.Child(i), symbols, s.ID, anon)
				}
			}
		}
		return
	case "interface_declaration":
		if s := e.extractInterface(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "type_alias_declaration":
		if s := e.extractTypeAlias(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "enum_declaration":
		e.extractEnum(node, symbols)
	case "function_declaration", "generator_function_declaration":
		if s := e.extractFunctionDecl(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "method_definition":
		if s := e.extractMethod(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "variable_declarator":
		if s := e.extractVariableFunction(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "arrow_function":
		if parent := node.Parent(); parent == nil || parent.Type() != "variable_declarator" {
			*anon++
			if s := e.extractAnonArrow(node, *anon, parentID); s != nil {
				*symbols = append(*symbols, *s)
			}
		}
	case "import_statement":
		e.extractImport(node, symbols)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID, anon)
	}
}

func fieldText(node *sitter.Node, field string, e *Extractor) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return e.GetNodeText(n)
}

func (e *Extractor) extractClass(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	heritage := fieldText(node, "heritage", e)
	s := e.CreateSymbol(node, name, extract.KindClass, extract.SymbolOptions{
		Signature:  "class " + name + " " + heritage,
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractInterface(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindInterface, extract.SymbolOptions{
		Signature:  "interface " + name,
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractTypeAlias(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindTypeAlias, extract.SymbolOptions{
		Signature:  "type " + name,
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractEnum(node *sitter.Node, symbols *[]extract.Symbol) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindEnum, extract.SymbolOptions{
		Signature:  "enum " + name,
		Visibility: extract.Public,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	*symbols = append(*symbols, s)

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			member := body.Child(i)
			if member.Type() != "property_identifier" && member.Type() != "enum_assignment" {
				continue
			}
			memberName := e.GetNodeText(member)
			if member.Type() == "enum_assignment" {
				if n := member.ChildByFieldName("name"); n != nil {
					memberName = e.GetNodeText(n)
				}
			}
			ms := e.CreateSymbol(member, memberName, extract.KindEnumMember, extract.SymbolOptions{
				Visibility: extract.Public,
				ParentID:   s.ID,
			})
			*symbols = append(*symbols, ms)
		}
	}
}

func (e *Extractor) extractFunctionDecl(node *sitter.Node, parentID string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	params := fieldText(node, "parameters", e)
	ret := fieldText(node, "return_type", e)
	sig := fmt.Sprintf("function %s%s", name, params)
	if ret != "" {
		sig += " " + ret
	}
	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  sig,
		Visibility: extract.Public,
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractMethod(node *sitter.Node, parentID string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	params := fieldText(node, "parameters", e)
	ret := fieldText(node, "return_type", e)
	sig := name + params
	if ret != "" {
		sig += " " + ret
	}
	vis := extract.Public
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "accessibility_modifier" {
			switch e.GetNodeText(node.Child(i)) {
			case "private":
				vis = extract.Private
			case "protected":
				vis = extract.Protected
			}
		}
	}
	s := e.CreateSymbol(node, name, extract.KindMethod, extract.SymbolOptions{
		Signature:  sig,
		Visibility: vis,
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractVariableFunction(node *sitter.Node, parentID string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	valueNode := node.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil {
		return nil
	}
	switch valueNode.Type() {
	case "arrow_function", "function_expression", "function", "generator_function":
	default:
		return nil
	}
	name := e.GetNodeText(nameNode)

	params := fieldText(valueNode, "parameters", e)
	if params == "" {
		params = fieldText(valueNode, "parameter", e)
	}

	isArrow := valueNode.Type() == "arrow_function"
	var sig string
	if isArrow {
		sig = fmt.Sprintf("const %s = %s =>", name, params)
	} else {
		sig = fmt.Sprintf("const %s = function%s", name, params)
	}

	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  sig,
		Visibility: extract.Public,
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractAnonArrow(node *sitter.Node, n int, parentID string) *extract.Symbol {
	name := fmt.Sprintf("$arrow_%d", n)
	params := fieldText(node, "parameters", e)
	if params == "" {
		params = fieldText(node, "parameter", e)
	}
	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  params + " =>",
		Visibility: extract.Private,
		ParentID:   parentID,
		Metadata:   extract.Metadata{"anonymous": true},
	})
	return &s
}

func (e *Extractor) extractImport(node *sitter.Node, symbols *[]extract.Symbol) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	source := strings.Trim(e.GetNodeText(sourceNode), `"'`)
	s := e.CreateSymbol(node, source, extract.KindImport, extract.SymbolOptions{
		Signature:  "import ... from " + source,
		Visibility: extract.Public,
	})
	*symbols = append(*symbols, s)
}

// ExtractRelationships emits Extends/Implements edges from class heritage
// clauses when the referenced type is defined in this same file.
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
	if node.Type() == "class_declaration" || node.Type() == "abstract_class_declaration" {
		nameNode := node.ChildByFieldName("name")
		var heritage *sitter.Node
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if c := node.NamedChild(i); c.Type() == "class_heritage" {
				heritage = c
			}
		}
		if nameNode != nil && heritage != nil {
			sub, ok := byName[e.GetNodeText(nameNode)]
			if ok {
				e.walkHeritageClause(heritage, sub, byName, rels)
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkHeritage(node.Child(i), byName, rels)
	}
}

func (e *Extractor) walkHeritageClause(node *sitter.Node, sub extract.Symbol, byName map[string]extract.Symbol, rels *[]extract.Relationship) {
	switch node.Type() {
	case "class_heritage":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "identifier" {
				// JavaScript's class_heritage holds the extends target directly.
				if target, ok := byName[e.GetNodeText(child)]; ok && target.Name != sub.Name {
					*rels = append(*rels, extract.CreateRelationship(sub.ID, target.ID, extract.RelExtends, child, 1.0, nil))
				}
				continue
			}
			e.walkHeritageClause(child, sub, byName, rels)
		}
	case "extends_clause":
		kind := extract.RelExtends
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "identifier" || child.Type() == "type_identifier" {
				name := e.GetNodeText(child)
				if target, ok := byName[name]; ok && target.Name != sub.Name {
					*rels = append(*rels, extract.CreateRelationship(sub.ID, target.ID, kind, child, 1.0, nil))
				}
			}
		}
	case "implements_clause":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "type_identifier" {
				name := e.GetNodeText(child)
				if target, ok := byName[name]; ok && target.Name != sub.Name {
					*rels = append(*rels, extract.CreateRelationship(sub.ID, target.ID, extract.RelImplements, child, 1.0, nil))
				}
			}
		}
	}
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
		if fn := node.ChildByFieldName("function"); fn != nil {
			e.emitCalleeIdentifier(fn, symbols)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			e.walkIdentifiers(child, symbols, child == node.ChildByFieldName("function"))
		}
		return
	case "member_expression":
		if !isCallee {
			if prop := node.ChildByFieldName("property"); prop != nil {
				containing := extract.FindContainingSymbol(node, symbols)
				pid := ""
				if containing != nil {
					pid = containing.ID
				}
				e.CreateIdentifier(prop, e.GetNodeText(prop), extract.IdentMemberAccess, pid)
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkIdentifiers(node.Child(i), symbols, false)
	}
}

func (e *Extractor) emitCalleeIdentifier(fn *sitter.Node, symbols []extract.Symbol) {
	var target *sitter.Node
	switch fn.Type() {
	case "identifier":
		target = fn
	case "member_expression":
		target = fn.ChildByFieldName("property")
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
