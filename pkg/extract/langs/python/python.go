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

// Package python extracts symbols, relationships and identifiers from
// Python source. Grounded on parser_python.go: class-body
// walking with a class-name prefix carried down into method extraction,
// lambda counting, and attribute-vs-identifier callee resolution all
// carry over, generalized to the full Symbol/Identifier/Relationship
// contract instead of a function/type-only model.
package python

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("python", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for Python.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Python extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

// ExtractSymbols walks the module body, classes and functions, carrying
// the enclosing class's symbol ID down as parentID for methods and
// the enclosing class name down for naming only (not Go-style dotted
// names on the Symbol.Name itself — Name stays the bare identifier,
// the class relationship lives in ParentID/Metadata).
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
	case "class_definition":
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
	case "function_definition":
		s := e.extractFunction(node, parentID)
		if s != nil {
			*symbols = append(*symbols, *s)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := 0; i < int(body.ChildCount()); i++ {
					e.walk(body.Child(i), symbols, s.ID, anon)
				}
			}
		}
		return
	case "lambda":
		*anon++
		if s := e.extractLambda(node, *anon, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "import_statement", "import_from_statement":
		e.extractImport(node, symbols)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID, anon)
	}
}

func (e *Extractor) extractClass(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)

	bases := ""
	if argList := node.ChildByFieldName("superclasses"); argList != nil {
		bases = e.GetNodeText(argList)
	}

	s := e.CreateSymbol(node, name, extract.KindClass, extract.SymbolOptions{
		Signature:  "class " + name + bases,
		Visibility: visibilityOf(name),
		FindDoc:    func() string { return docstringOf(node, e) },
	})
	return &s
}

func (e *Extractor) extractFunction(node *sitter.Node, parentID string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	params := fieldText(node, "parameters", e)
	ret := fieldText(node, "return_type", e)

	sig := fmt.Sprintf("def %s%s", name, params)
	if ret != "" {
		sig += " -> " + ret
	}

	kind := extract.KindFunction
	if parentID != "" {
		kind = extract.KindMethod
	}

	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  sig,
		Visibility: visibilityOf(name),
		ParentID:   parentID,
		FindDoc:    func() string { return docstringOf(node, e) },
	})
	return &s
}

// docstringOf returns a Python docstring (the first statement in the
// body if it's a string literal) in preference to a preceding-comment
// scan, since docstrings are how Python documents declarations.
func docstringOf(node *sitter.Node, e *Extractor) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.ChildCount() == 0 {
		return e.FindDocComment(node, commentTypes)
	}
	first := body.Child(0)
	if first.Type() == "expression_statement" && first.ChildCount() > 0 {
		lit := first.Child(0)
		if lit.Type() == "string" {
			return strings.Trim(e.GetNodeText(lit), "\"'")
		}
	}
	return e.FindDocComment(node, commentTypes)
}

func (e *Extractor) extractLambda(node *sitter.Node, n int, parentID string) *extract.Symbol {
	name := fmt.Sprintf("$lambda_%d", n)
	params := fieldText(node, "parameters", e)

	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  "lambda" + params,
		Visibility: extract.Private,
		ParentID:   parentID,
		Metadata:   extract.Metadata{"anonymous": true},
	})
	return &s
}

func (e *Extractor) extractImport(node *sitter.Node, symbols *[]extract.Symbol) {
	switch node.Type() {
	case "import_statement":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "dotted_name" || child.Type() == "aliased_import" {
				name := e.GetNodeText(child)
				s := e.CreateSymbol(child, name, extract.KindImport, extract.SymbolOptions{
					Signature:  "import " + name,
					Visibility: extract.Public,
				})
				*symbols = append(*symbols, s)
			}
		}
	case "import_from_statement":
		moduleNode := node.ChildByFieldName("module_name")
		module := ""
		if moduleNode != nil {
			module = e.GetNodeText(moduleNode)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "dotted_name" && child != moduleNode {
				name := e.GetNodeText(child)
				s := e.CreateSymbol(child, name, extract.KindImport, extract.SymbolOptions{
					Signature:  "from " + module + " import " + name,
					Visibility: extract.Public,
					Metadata:   extract.Metadata{"module": module},
				})
				*symbols = append(*symbols, s)
			} else if child.Type() == "wildcard_import" {
				s := e.CreateSymbol(child, "*", extract.KindImport, extract.SymbolOptions{
					Signature:  "from " + module + " import *",
					Visibility: extract.Public,
					Metadata:   extract.Metadata{"module": module},
				})
				*symbols = append(*symbols, s)
			}
		}
	}
}

func fieldText(node *sitter.Node, field string, e *Extractor) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return e.GetNodeText(n)
}

func visibilityOf(name string) extract.Visibility {
	if strings.HasPrefix(name, "_") {
		return extract.Private
	}
	return extract.Public
}

// ExtractRelationships emits Extends edges from each class to its base
// classes, when the base is defined in this same file.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	classByName := map[string]extract.Symbol{}
	for _, s := range symbols {
		if s.Kind == extract.KindClass {
			classByName[s.Name] = s
		}
	}

	var rels []extract.Relationship
	e.walkClassBases(tree.RootNode(), classByName, &rels)
	return rels
}

func (e *Extractor) walkClassBases(node *sitter.Node, classByName map[string]extract.Symbol, rels *[]extract.Relationship) {
	if node == nil {
		return
	}
	if node.Type() == "class_definition" {
		nameNode := node.ChildByFieldName("name")
		argList := node.ChildByFieldName("superclasses")
		if nameNode != nil && argList != nil {
			sub, ok := classByName[e.GetNodeText(nameNode)]
			if ok {
				for i := 0; i < int(argList.ChildCount()); i++ {
					arg := argList.Child(i)
					if arg.Type() != "identifier" {
						continue
					}
					baseName := e.GetNodeText(arg)
					if base, ok := classByName[baseName]; ok && base.Name != sub.Name {
						*rels = append(*rels, extract.CreateRelationship(sub.ID, base.ID, extract.RelExtends, arg, 1.0, nil))
					}
				}
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkClassBases(node.Child(i), classByName, rels)
	}
}

// ExtractIdentifiers emits one identifier per call/attribute-access use
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
	case "call":
		if fn := node.ChildByFieldName("function"); fn != nil {
			e.emitCalleeIdentifier(fn, symbols)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			e.walkIdentifiers(child, symbols, child == node.ChildByFieldName("function"))
		}
		return
	case "attribute":
		if !isCallee {
			if attr := node.ChildByFieldName("attribute"); attr != nil {
				containing := extract.FindContainingSymbol(node, symbols)
				pid := ""
				if containing != nil {
					pid = containing.ID
				}
				e.CreateIdentifier(attr, e.GetNodeText(attr), extract.IdentMemberAccess, pid)
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
	case "attribute":
		target = fn.ChildByFieldName("attribute")
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
