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

// Package ruby extracts symbols, relationships and identifiers from
// Ruby source. Classes and modules walk the same way the Python/Go
// class-body walkers do (class-body children re-walked with
// the class symbol as parent); `include`/`extend` calls inside a class
// body emit Implements/Uses edges to the named module.
package ruby

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("ruby", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for Ruby.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Ruby extractor.
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
	case "class":
		s := e.extractClassOrModule(node, extract.KindClass, "class")
		if s != nil {
			*symbols = append(*symbols, *s)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := 0; i < int(body.ChildCount()); i++ {
					e.walk(body.Child(i), symbols, s.ID)
				}
			}
		}
		return
	case "module":
		s := e.extractClassOrModule(node, extract.KindModule, "module")
		if s != nil {
			*symbols = append(*symbols, *s)
			if body := node.ChildByFieldName("body"); body != nil {
				for i := 0; i < int(body.ChildCount()); i++ {
					e.walk(body.Child(i), symbols, s.ID)
				}
			}
		}
		return
	case "method":
		if s := e.extractMethod(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "singleton_method":
		if s := e.extractSingletonMethod(node, parentID); s != nil {
			*symbols = append(*symbols, *s)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, parentID)
	}
}

func (e *Extractor) extractClassOrModule(node *sitter.Node, kind extract.SymbolKind, keyword string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	sig := keyword + " " + name
	if sup := node.ChildByFieldName("superclass"); sup != nil {
		sig += " < " + e.GetNodeText(sup)
	}
	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  sig,
		Visibility: extract.Public,
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
	params := ""
	if p := node.ChildByFieldName("parameters"); p != nil {
		params = e.GetNodeText(p)
	}

	kind := extract.KindFunction
	vis := visibilityOf(name)
	if parentID != "" {
		kind = extract.KindMethod
	}

	s := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  fmt.Sprintf("def %s(%s)", name, params),
		Visibility: vis,
		ParentID:   parentID,
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractSingletonMethod(node *sitter.Node, parentID string) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := "self." + e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindMethod, extract.SymbolOptions{
		Signature:  "def " + name,
		Visibility: extract.Public,
		ParentID:   parentID,
		Metadata:   extract.Metadata{"singleton": true},
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func visibilityOf(name string) extract.Visibility {
	if len(name) > 0 && name[len(name)-1] == '!' || name == "initialize" {
		return extract.Private
	}
	return extract.Public
}

// ExtractRelationships emits Implements/Uses edges for `include`/`extend`
// calls found directly in a class body (`include M` -> {from: C, to: M,
// kind: Implements}), plus Extends edges from superclass clauses, when
// the target is defined in this same file.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		if s.Kind == extract.KindClass || s.Kind == extract.KindModule {
			byName[s.Name] = s
		}
	}

	var rels []extract.Relationship
	e.walkClasses(tree.RootNode(), byName, &rels)
	return rels
}

func (e *Extractor) walkClasses(node *sitter.Node, byName map[string]extract.Symbol, rels *[]extract.Relationship) {
	if node == nil {
		return
	}
	if node.Type() == "class" {
		nameNode := node.ChildByFieldName("name")
		if nameNode != nil {
			owner, ok := byName[e.GetNodeText(nameNode)]
			if ok {
				if sup := node.ChildByFieldName("superclass"); sup != nil {
					target := sup
					if sup.Type() == "superclass" && sup.NamedChildCount() > 0 {
						target = sup.NamedChild(0)
					}
					if base, ok := byName[e.GetNodeText(target)]; ok && base.Name != owner.Name {
						*rels = append(*rels, extract.CreateRelationship(owner.ID, base.ID, extract.RelExtends, sup, 1.0, nil))
					}
				}
				if body := node.ChildByFieldName("body"); body != nil {
					e.walkIncludeCalls(body, owner, byName, rels)
				}
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkClasses(node.Child(i), byName, rels)
	}
}

func (e *Extractor) walkIncludeCalls(node *sitter.Node, owner extract.Symbol, byName map[string]extract.Symbol, rels *[]extract.Relationship) {
	if node == nil {
		return
	}
	if node.Type() == "call" {
		methodNode := node.ChildByFieldName("method")
		argsNode := node.ChildByFieldName("arguments")
		if methodNode != nil && argsNode != nil {
			method := e.GetNodeText(methodNode)
			var kind extract.RelationshipKind
			switch method {
			case "include":
				kind = extract.RelImplements
			case "extend":
				kind = extract.RelUses
			default:
				kind = ""
			}
			if kind != "" {
				for i := 0; i < int(argsNode.ChildCount()); i++ {
					arg := argsNode.Child(i)
					if arg.Type() != "constant" {
						continue
					}
					modName := e.GetNodeText(arg)
					if target, ok := byName[modName]; ok && target.Name != owner.Name {
						*rels = append(*rels, extract.CreateRelationship(owner.ID, target.ID, kind, arg, 1.0, nil))
					}
				}
			}
		}
	}
	// identifier-style include (e.g. "include M" without parens) parses
	// as a call with a bare argument_list too; nested classes inside
	// this class body are NOT descended into here, keeping the reading
	// file-scoped and immediate-body-only.
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() != "class" && node.Child(i).Type() != "module" {
			e.walkIncludeCalls(node.Child(i), owner, byName, rels)
		}
	}
}

// ExtractIdentifiers emits one identifier per call/method-call use
// site, rightmost-identifier rule, file-scoped containment.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	e.walkIdentifiers(tree.RootNode(), symbols)
	return e.Identifiers()
}

func (e *Extractor) walkIdentifiers(node *sitter.Node, symbols []extract.Symbol) {
	if node == nil {
		return
	}
	if node.Type() == "call" {
		methodNode := node.ChildByFieldName("method")
		if methodNode != nil {
			containing := extract.FindContainingSymbol(node, symbols)
			pid := ""
			if containing != nil {
				pid = containing.ID
			}
			e.CreateIdentifier(methodNode, e.GetNodeText(methodNode), extract.IdentCall, pid)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkIdentifiers(node.Child(i), symbols)
	}
}
