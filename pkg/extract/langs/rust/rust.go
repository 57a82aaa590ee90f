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

// Package rust extracts symbols, relationships and identifiers from Rust
// source. struct/enum/trait declarations walk the same way
// parser_go.go walks type_declaration; impl blocks need a second pass
// because a method's owning type isn't known until the enclosing
// impl_item resolves, so this package stores byte ranges during the
// first descent and re-resolves parent IDs in a second, grounded on
// avoiding unsafe retention of *sitter.Node past one extraction call.
package rust

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("rust", New)
}

var commentTypes = map[string]bool{"line_comment": true, "block_comment": true}

// Extractor implements extract.Extractor for Rust.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Rust extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

// pendingImpl records one impl_item's byte range and declared target
// type name during phase 1, so phase 2 can re-descend into the same
// subtree and attach method symbols to the right owning type without
// holding onto the original *sitter.Node.
type pendingImpl struct {
	startByte, endByte uint32
	typeName           string
	traitName          string
}

// ExtractSymbols walks the tree twice: once for module-level items
// (struct/enum/trait/function/const/static/type-alias), once to
// re-descend into each impl block and attach its methods to the
// already-created owning-type symbol.
func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	root := tree.RootNode()
	var symbols []extract.Symbol
	var impls []pendingImpl

	e.walkTop(root, &symbols, &impls)

	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		if s.Kind == extract.KindClass || s.Kind == extract.KindEnum || s.Kind == extract.KindTrait {
			byName[s.Name] = s
		}
	}

	for _, imp := range impls {
		owner, ok := byName[imp.typeName]
		if !ok {
			continue // impl for a type defined elsewhere; out of file scope
		}
		e.resolveImplMethods(root, imp, owner, &symbols)
	}

	return symbols
}

func (e *Extractor) walkTop(node *sitter.Node, symbols *[]extract.Symbol, impls *[]pendingImpl) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "struct_item":
		if s := e.extractStruct(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "enum_item":
		if s := e.extractEnum(node, symbols); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "trait_item":
		if s := e.extractTrait(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "function_item":
		if s := e.extractFunction(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "type_item":
		if s := e.extractTypeAlias(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "impl_item":
		*impls = append(*impls, pendingImpl{
			startByte: node.StartByte(),
			endByte:   node.EndByte(),
			typeName:  implTargetName(node, e),
			traitName: implTraitName(node, e),
		})
		// don't recurse into impl bodies here; phase 2 handles them
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walkTop(node.Child(i), symbols, impls)
	}
}

func implTargetName(node *sitter.Node, e *Extractor) string {
	if t := node.ChildByFieldName("type"); t != nil {
		return baseTypeName(t, e)
	}
	return ""
}

func implTraitName(node *sitter.Node, e *Extractor) string {
	if t := node.ChildByFieldName("trait"); t != nil {
		return baseTypeName(t, e)
	}
	return ""
}

func baseTypeName(node *sitter.Node, e *Extractor) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "generic_type":
		if n := node.ChildByFieldName("type"); n != nil {
			return baseTypeName(n, e)
		}
	case "type_identifier", "identifier":
		return e.GetNodeText(node)
	case "scoped_type_identifier":
		if n := node.ChildByFieldName("name"); n != nil {
			return e.GetNodeText(n)
		}
	}
	return e.GetNodeText(node)
}

func visibility(node *sitter.Node) extract.Visibility {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "visibility_modifier" {
			return extract.Public
		}
	}
	return extract.Private
}

func (e *Extractor) extractStruct(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	// Rust structs carry Class kind, not Struct: the Struct kind is
	// reserved for plain C/C++-style structs with no associated-method
	// model; a Rust struct's methods live in impl blocks the same way a
	// class's methods live in its body.
	s := e.CreateSymbol(node, name, extract.KindClass, extract.SymbolOptions{
		Signature:  "struct " + name,
		Visibility: visibility(node),
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractEnum(node *sitter.Node, symbols *[]extract.Symbol) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindEnum, extract.SymbolOptions{
		Signature:  "enum " + name,
		Visibility: visibility(node),
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			variant := body.Child(i)
			if variant.Type() != "enum_variant" {
				continue
			}
			vn := variant.ChildByFieldName("name")
			if vn == nil {
				continue
			}
			vs := e.CreateSymbol(variant, e.GetNodeText(vn), extract.KindEnumMember, extract.SymbolOptions{
				Visibility: extract.Public,
				ParentID:   s.ID,
				Metadata:   extract.Metadata{"enum": name},
			})
			*symbols = append(*symbols, vs)
		}
	}
	return &s
}

func (e *Extractor) extractTrait(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	s := e.CreateSymbol(node, name, extract.KindTrait, extract.SymbolOptions{
		Signature:  "trait " + name,
		Visibility: visibility(node),
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
		Visibility: visibility(node),
	})
	return &s
}

func (e *Extractor) extractFunction(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	params := fieldText(node, "parameters", e)
	ret := fieldText(node, "return_type", e)

	var sig strings.Builder
	sig.WriteString("fn ")
	sig.WriteString(name)
	sig.WriteString(params)
	if ret != "" {
		sig.WriteString(" -> ")
		sig.WriteString(ret)
	}

	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  sig.String(),
		Visibility: visibility(node),
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func fieldText(node *sitter.Node, field string, e *Extractor) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return e.GetNodeText(n)
}

// resolveImplMethods re-descends into the impl_item's byte range,
// re-locating it by position (phase 2 of the two-phase resolution),
// and emits a Method symbol for every function_item in its body,
// parented to owner.
func (e *Extractor) resolveImplMethods(root *sitter.Node, imp pendingImpl, owner extract.Symbol, symbols *[]extract.Symbol) {
	implNode := findByRange(root, imp.startByte, imp.endByte)
	if implNode == nil {
		return
	}
	body := implNode.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		if child.Type() != "function_item" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		methodName := e.GetNodeText(nameNode)
		params := fieldText(child, "parameters", e)
		ret := fieldText(child, "return_type", e)

		var sig strings.Builder
		sig.WriteString("fn ")
		sig.WriteString(methodName)
		sig.WriteString(params)
		if ret != "" {
			sig.WriteString(" -> ")
			sig.WriteString(ret)
		}

		meta := extract.Metadata{
			"impl_type_name":          imp.typeName,
			"impl_parent_id_resolved": true,
		}
		if imp.traitName != "" {
			meta["trait"] = imp.traitName
		}

		s := e.CreateSymbol(child, methodName, extract.KindMethod, extract.SymbolOptions{
			Signature:  sig.String(),
			Visibility: visibility(child),
			ParentID:   owner.ID,
			Metadata:   meta,
			FindDoc:    func() string { return e.FindDocComment(child, commentTypes) },
		})
		*symbols = append(*symbols, s)
	}
}

// findByRange re-locates the node spanning exactly [start, end) by
// descending from root, matching the impl_item type. Needed because
// phase 1 could not retain the original *sitter.Node across the
// intervening symbol-collection pass safely.
func findByRange(node *sitter.Node, start, end uint32) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.StartByte() == start && node.EndByte() == end && node.Type() == "impl_item" {
		return node
	}
	if node.StartByte() > end || node.EndByte() < start {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findByRange(node.Child(i), start, end); found != nil {
			return found
		}
	}
	return nil
}

// ExtractRelationships emits Implements edges from each impl block's
// target type to the trait it implements, when both are defined in
// this file.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		if s.Kind == extract.KindClass || s.Kind == extract.KindEnum || s.Kind == extract.KindTrait {
			byName[s.Name] = s
		}
	}

	var impls []pendingImpl
	e.collectImpls(tree.RootNode(), &impls)

	var rels []extract.Relationship
	for _, imp := range impls {
		if imp.traitName == "" {
			continue
		}
		owner, ok := byName[imp.typeName]
		if !ok {
			continue
		}
		trait, ok := byName[imp.traitName]
		if !ok {
			continue
		}
		rels = append(rels, extract.CreateRelationship(owner.ID, trait.ID, extract.RelImplements, nil, 1.0, extract.Metadata{
			"type": imp.typeName, "trait": imp.traitName,
		}))
	}
	return rels
}

func (e *Extractor) collectImpls(node *sitter.Node, impls *[]pendingImpl) {
	if node == nil {
		return
	}
	if node.Type() == "impl_item" {
		*impls = append(*impls, pendingImpl{
			startByte: node.StartByte(),
			endByte:   node.EndByte(),
			typeName:  implTargetName(node, e),
			traitName: implTraitName(node, e),
		})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.collectImpls(node.Child(i), impls)
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
	case "identifier":
		target = fn
	case "field_expression":
		target = fn.ChildByFieldName("field")
	case "scoped_identifier":
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
