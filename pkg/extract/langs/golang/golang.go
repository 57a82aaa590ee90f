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

// Package golang extracts symbols, relationships and identifiers from Go
// source. Grounded on pkg/ingestion/parser_go.go: receiver unwrapping,
// struct/interface/type-alias classification and method-set based
// interface matching all carry the same shape, generalized from a
// function-entity-only model to the full Symbol/Relationship/Identifier
// contract.
//
// Go embedding edges (embedded-field-to-type) are not emitted: an
// acknowledged stub, matching parser_go.go never modeling embedding as
// a relationship.
package golang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("go", New)
}

var commentTypes = map[string]bool{"comment": true}

// Extractor implements extract.Extractor for Go.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Go extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

// ExtractSymbols walks the tree in pre-order, emitting the package
// namespace, functions/methods/closures, struct/interface/alias types,
// struct fields and imports.
func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	root := tree.RootNode()
	var symbols []extract.Symbol

	if pkg := e.extractPackage(root); pkg != nil {
		symbols = append(symbols, *pkg)
	}

	var anon int
	e.walk(root, &symbols, &anon)
	return symbols
}

func (e *Extractor) extractPackage(root *sitter.Node) *extract.Symbol {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "package_clause" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := e.GetNodeText(nameNode)
		sym := e.CreateSymbol(child, name, extract.KindNamespace, extract.SymbolOptions{
			Signature:  "package " + name,
			Visibility: extract.Public,
		})
		return &sym
	}
	return nil
}

// walk performs the pre-order traversal. It carries no parent ID;
// struct fields are attached to their enclosing type where the type
// declaration is extracted.
func (e *Extractor) walk(node *sitter.Node, symbols *[]extract.Symbol, anon *int) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "function_declaration":
		if s := e.extractFunc(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "method_declaration":
		if s := e.extractMethod(node); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "func_literal":
		*anon++
		if s := e.extractFuncLiteral(node, *anon); s != nil {
			*symbols = append(*symbols, *s)
		}
	case "type_declaration":
		e.extractTypeDeclaration(node, symbols)
		return // fields are emitted inside; don't also recurse generically below
	case "import_declaration":
		e.extractImportDeclaration(node, symbols)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols, anon)
	}
}

func visibilityOf(name string) extract.Visibility {
	name = strings.TrimPrefix(name, "*")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		return extract.Public
	}
	return extract.Private
}

func fieldText(node *sitter.Node, field string, e *Extractor) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return e.GetNodeText(n)
}

func (e *Extractor) extractFunc(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := e.GetNodeText(nameNode)
	typeParams := fieldText(node, "type_parameters", e)
	params := fieldText(node, "parameters", e)
	result := fieldText(node, "result", e)

	var sig strings.Builder
	sig.WriteString("func ")
	sig.WriteString(name)
	sig.WriteString(typeParams)
	sig.WriteString(params)
	if result != "" {
		sig.WriteString(" ")
		sig.WriteString(result)
	}

	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  sig.String(),
		Visibility: visibilityOf(name),
		Metadata: extract.Metadata{
			"is_generic": typeParams != "",
		},
		FindDoc: func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractMethod(node *sitter.Node) *extract.Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	methodName := e.GetNodeText(nameNode)
	receiverNode := node.ChildByFieldName("receiver")
	receiver := ""
	receiverType := ""
	if receiverNode != nil {
		receiver = e.GetNodeText(receiverNode)
		receiverType = extractReceiverType(receiverNode, e)
	}
	typeParams := fieldText(node, "type_parameters", e)
	params := fieldText(node, "parameters", e)
	result := fieldText(node, "result", e)

	fullName := methodName
	if receiverType != "" {
		fullName = receiverType + "." + methodName
	}

	var sig strings.Builder
	sig.WriteString("func ")
	sig.WriteString(receiver)
	sig.WriteString(" ")
	sig.WriteString(methodName)
	sig.WriteString(typeParams)
	sig.WriteString(params)
	if result != "" {
		sig.WriteString(" ")
		sig.WriteString(result)
	}

	s := e.CreateSymbol(node, fullName, extract.KindMethod, extract.SymbolOptions{
		Signature:  sig.String(),
		Visibility: visibilityOf(methodName),
		Metadata: extract.Metadata{
			"receiver_type": receiverType,
		},
		FindDoc: func() string { return e.FindDocComment(node, commentTypes) },
	})
	return &s
}

func (e *Extractor) extractFuncLiteral(node *sitter.Node, n int) *extract.Symbol {
	name := anonName(n)
	params := fieldText(node, "parameters", e)
	result := fieldText(node, "result", e)

	var sig strings.Builder
	sig.WriteString("func")
	sig.WriteString(params)
	if result != "" {
		sig.WriteString(" ")
		sig.WriteString(result)
	}

	s := e.CreateSymbol(node, name, extract.KindFunction, extract.SymbolOptions{
		Signature:  sig.String(),
		Visibility: extract.Private,
		Metadata:   extract.Metadata{"anonymous": true},
	})
	return &s
}

func anonName(n int) string {
	return "$anon_" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// extractReceiverType extracts the base type name from a receiver
// parameter list, e.g. "(s *Server)" -> "Server".
func extractReceiverType(receiverNode *sitter.Node, e *Extractor) string {
	for i := 0; i < int(receiverNode.ChildCount()); i++ {
		child := receiverNode.Child(i)
		if child.Type() == "parameter_declaration" {
			if t := child.ChildByFieldName("type"); t != nil {
				return extractBaseTypeName(t, e)
			}
		}
	}
	return ""
}

// extractBaseTypeName unwraps pointer/generic/qualified type nodes down
// to the bare type identifier: *Server -> Server, Server[T] -> Server,
// pkg.Type -> Type.
func extractBaseTypeName(typeNode *sitter.Node, e *Extractor) string {
	if typeNode == nil {
		return ""
	}
	switch typeNode.Type() {
	case "pointer_type":
		for i := 0; i < int(typeNode.ChildCount()); i++ {
			child := typeNode.Child(i)
			if child.Type() != "*" {
				return extractBaseTypeName(child, e)
			}
		}
	case "generic_type":
		if n := typeNode.ChildByFieldName("type"); n != nil {
			return e.GetNodeText(n)
		}
	case "qualified_type":
		for i := 0; i < int(typeNode.ChildCount()); i++ {
			child := typeNode.Child(i)
			if child.Type() == "type_identifier" {
				return e.GetNodeText(child)
			}
		}
	case "type_identifier":
		return e.GetNodeText(typeNode)
	}
	name := e.GetNodeText(typeNode)
	name = strings.TrimPrefix(name, "*")
	if idx := strings.Index(name, "["); idx > 0 {
		name = name[:idx]
	}
	return name
}

func (e *Extractor) extractTypeDeclaration(node *sitter.Node, symbols *[]extract.Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_spec":
			e.extractTypeSpec(child, symbols)
		case "type_spec_list":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() == "type_spec" {
					e.extractTypeSpec(spec, symbols)
				}
			}
		}
	}
}

func (e *Extractor) extractTypeSpec(node *sitter.Node, symbols *[]extract.Symbol) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		for i := 0; i < int(node.ChildCount()); i++ {
			if node.Child(i).Type() == "type_identifier" {
				nameNode = node.Child(i)
				break
			}
		}
	}
	if nameNode == nil {
		return
	}
	name := e.GetNodeText(nameNode)

	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		for i := 0; i < int(node.ChildCount()); i++ {
			ct := node.Child(i).Type()
			switch ct {
			case "struct_type", "interface_type", "type_identifier", "pointer_type",
				"array_type", "slice_type", "map_type", "channel_type",
				"function_type", "generic_type":
				typeNode = node.Child(i)
			}
			if typeNode != nil {
				break
			}
		}
	}

	kind, ok := determineKind(typeNode)
	if !ok {
		return
	}

	sym := e.CreateSymbol(node, name, kind, extract.SymbolOptions{
		Signature:  "type " + name + " " + kindKeyword(kind),
		Visibility: visibilityOf(name),
		FindDoc:    func() string { return e.FindDocComment(node, commentTypes) },
	})
	*symbols = append(*symbols, sym)

	if kind == extract.KindStruct && typeNode != nil && typeNode.Type() == "struct_type" {
		e.extractStructFields(typeNode, sym, symbols)
	}
}

func kindKeyword(k extract.SymbolKind) string {
	switch k {
	case extract.KindStruct:
		return "struct"
	case extract.KindInterface:
		return "interface"
	default:
		return ""
	}
}

func determineKind(typeNode *sitter.Node) (extract.SymbolKind, bool) {
	if typeNode == nil {
		return "", false
	}
	switch typeNode.Type() {
	case "struct_type":
		return extract.KindStruct, true
	case "interface_type":
		return extract.KindInterface, true
	case "type_identifier", "pointer_type", "array_type", "slice_type",
		"map_type", "channel_type", "function_type", "generic_type":
		return extract.KindTypeAlias, true
	default:
		return "", false
	}
}

func (e *Extractor) extractStructFields(structNode *sitter.Node, owner extract.Symbol, symbols *[]extract.Symbol) {
	for i := 0; i < int(structNode.ChildCount()); i++ {
		child := structNode.Child(i)
		if child.Type() != "field_declaration_list" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			fieldDecl := child.Child(j)
			if fieldDecl.Type() != "field_declaration" {
				continue
			}
			if s := e.extractFieldDeclaration(fieldDecl, owner); s != nil {
				*symbols = append(*symbols, *s)
			}
		}
	}
}

func (e *Extractor) extractFieldDeclaration(fieldNode *sitter.Node, owner extract.Symbol) *extract.Symbol {
	var fieldNameNode *sitter.Node
	for i := 0; i < int(fieldNode.ChildCount()); i++ {
		child := fieldNode.Child(i)
		if child.Type() == "field_identifier" {
			fieldNameNode = child
			break
		}
	}
	if fieldNameNode == nil {
		return nil // embedded field, skip
	}
	fieldName := e.GetNodeText(fieldNameNode)

	typeNode := fieldNode.ChildByFieldName("type")
	fieldType := ""
	if typeNode != nil {
		fieldType = extractBaseTypeName(typeNode, e)
	}

	s := e.CreateSymbol(fieldNode, fieldName, extract.KindField, extract.SymbolOptions{
		Signature:  fieldName + " " + fieldType,
		Visibility: visibilityOf(fieldName),
		ParentID:   owner.ID,
		Metadata:   extract.Metadata{"field_type": fieldType, "struct": owner.Name},
	})
	return &s
}

func (e *Extractor) extractImportDeclaration(node *sitter.Node, symbols *[]extract.Symbol) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import_spec":
			if s := e.extractImportSpec(child); s != nil {
				*symbols = append(*symbols, *s)
			}
		case "import_spec_list":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() == "import_spec" {
					if s := e.extractImportSpec(spec); s != nil {
						*symbols = append(*symbols, *s)
					}
				}
			}
		}
	}
}

func (e *Extractor) extractImportSpec(node *sitter.Node) *extract.Symbol {
	pathNode := node.ChildByFieldName("path")
	if pathNode == nil {
		for i := 0; i < int(node.ChildCount()); i++ {
			if node.Child(i).Type() == "interpreted_string_literal" {
				pathNode = node.Child(i)
				break
			}
		}
	}
	if pathNode == nil {
		return nil
	}
	importPath := strings.Trim(e.GetNodeText(pathNode), `"`)

	alias := ""
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		alias = e.GetNodeText(nameNode)
	}

	s := e.CreateSymbol(node, importPath, extract.KindImport, extract.SymbolOptions{
		Signature:  "import " + importPath,
		Visibility: extract.Public,
		Metadata:   extract.Metadata{"alias": alias},
	})
	return &s
}

// ExtractRelationships builds Implements edges by matching method sets:
// a struct implements an interface defined in the same file if it has
// every method the interface declares. Generalizes implements.go's
// BuildImplementsIndex into a per-file, contract-shaped call. Go
// embedding edges are not emitted (see package doc).
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	interfaces := map[string]extract.Symbol{}
	methodSets := map[string]map[string]bool{}
	structs := map[string]extract.Symbol{}

	for _, s := range symbols {
		switch s.Kind {
		case extract.KindInterface:
			interfaces[s.Name] = s
		case extract.KindStruct:
			structs[s.Name] = s
		case extract.KindMethod:
			recv, _ := s.Metadata["receiver_type"].(string)
			if recv == "" {
				continue
			}
			simple := s.Name
			if idx := strings.LastIndex(simple, "."); idx >= 0 {
				simple = simple[idx+1:]
			}
			if methodSets[recv] == nil {
				methodSets[recv] = map[string]bool{}
			}
			methodSets[recv][simple] = true
		}
	}

	var rels []extract.Relationship
	for ifaceName, iface := range interfaces {
		required := interfaceMethodNames(e, iface)
		if len(required) == 0 {
			continue
		}
		for typeName, methods := range methodSets {
			if typeName == ifaceName {
				continue
			}
			owner, ok := structs[typeName]
			if !ok {
				continue
			}
			if hasAll(methods, required) {
				rels = append(rels, extract.CreateRelationship(owner.ID, iface.ID, extract.RelImplements, nil, 1.0, extract.Metadata{
					"type": typeName, "interface": ifaceName,
				}))
			}
		}
	}
	return rels
}

func interfaceMethodNames(e *Extractor, iface extract.Symbol) []string {
	start, end := iface.StartByte, iface.EndByte
	if int(end) > len(e.Content) {
		return nil
	}
	text := string(e.Content[start:end])
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "(")
		if idx <= 0 {
			continue
		}
		name := line[:idx]
		if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
			names = append(names, name)
		}
	}
	return names
}

func hasAll(have map[string]bool, want []string) bool {
	for _, m := range want {
		if !have[m] {
			return false
		}
	}
	return true
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
	case "selector_expression":
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

func (e *Extractor) emitCalleeIdentifier(fn *sitter.Node, symbols []extract.Symbol) {
	var target *sitter.Node
	switch fn.Type() {
	case "identifier":
		target = fn
	case "selector_expression":
		target = fn.ChildByFieldName("field")
	case "index_expression":
		if operand := fn.ChildByFieldName("operand"); operand != nil {
			e.emitCalleeIdentifier(operand, symbols)
			return
		}
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
