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

// Package html extracts Element symbols from HTML markup. Well-formed
// markup is walked via tree-sitter; a tree that is mostly ERROR nodes
// (unclosed/mismatched tags) falls through to a regex tag scanner that
// still recovers element names and attributes, flagging each recovered
// symbol isFallback in metadata.
package html

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func init() {
	dispatch.Register("html", New)
}

// Extractor implements extract.Extractor for HTML.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs an HTML extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	root := tree.RootNode()
	if extract.MostlyErrors(root) {
		return e.ExtractSymbolsFallback(e.Content)
	}
	var symbols []extract.Symbol
	e.walk(root, &symbols)
	return symbols
}

func (e *Extractor) walk(node *sitter.Node, symbols *[]extract.Symbol) {
	if node == nil {
		return
	}
	if node.Type() == "element" {
		e.extractElement(node, symbols)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), symbols)
	}
}

func (e *Extractor) extractElement(node *sitter.Node, symbols *[]extract.Symbol) {
	startTag := node.Child(0)
	if startTag == nil {
		return
	}
	tagName := ""
	meta := extract.Metadata{}
	for i := 0; i < int(startTag.ChildCount()); i++ {
		c := startTag.Child(i)
		switch c.Type() {
		case "tag_name":
			tagName = e.GetNodeText(c)
		case "attribute":
			name, val := attributeNameValue(c, e)
			if name != "" {
				meta[name] = val
			}
		}
	}
	if tagName == "" {
		return
	}
	s := e.CreateSymbol(node, tagName, extract.KindType, extract.SymbolOptions{
		Signature:  "<" + tagName + ">",
		Visibility: extract.Public,
		Metadata:   meta,
	})
	*symbols = append(*symbols, s)
}

func attributeNameValue(node *sitter.Node, e *Extractor) (string, string) {
	name := ""
	value := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "attribute_name":
			name = e.GetNodeText(c)
		case "quoted_attribute_value", "attribute_value":
			value = stripQuotes(e.GetNodeText(c))
		}
	}
	return name, value
}

func stripQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

var reTag = regexp.MustCompile(`(?s)<([a-zA-Z][a-zA-Z0-9-]*)((?:\s+[a-zA-Z_:][-a-zA-Z0-9_:.]*(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+))?)*)\s*/?>`)
var reAttr = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:.]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+)))?`)

// ExtractSymbolsFallback recovers element tags via regex when the
// tree-sitter parse is too broken to walk structurally (an unclosed
// <div> around a <span>, for instance). Every recovered symbol carries
// metadata["isFallback"] = true.
func (e *Extractor) ExtractSymbolsFallback(content []byte) []extract.Symbol {
	var symbols []extract.Symbol
	matches := reTag.FindAllSubmatchIndex(content, -1)
	for _, m := range matches {
		tag := string(content[m[2]:m[3]])
		attrsText := content[m[4]:m[5]]
		meta := extract.Metadata{"isFallback": true}
		for _, am := range reAttr.FindAllSubmatch(attrsText, -1) {
			name := string(am[1])
			value := ""
			for _, g := range am[2:] {
				if len(g) > 0 {
					value = string(g)
					break
				}
			}
			if name != "" {
				meta[name] = value
			}
		}
		line, col := lineColumnOf(content, m[0])
		s := extract.Symbol{
			ID:         e.GenerateID(tag, line, col),
			Name:       tag,
			Kind:       extract.KindType,
			FilePath:   e.FilePath,
			Language:   e.Language,
			StartLine:  line,
			StartColumn: col,
			StartByte:  uint32(m[0]),
			EndByte:    uint32(m[1]),
			Signature:  "<" + tag + ">",
			Visibility: extract.Public,
			Metadata:   meta,
			Confidence: 0.5,
		}
		symbols = append(symbols, s)
	}
	return symbols
}

// lineColumnOf converts a byte offset into 1-based line/column, matching
// the convention BaseExtractor.CreateSymbol applies to tree-sitter points.
func lineColumnOf(content []byte, offset int) (int, int) {
	line, col := 1, 1
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// ExtractRelationships is a no-op: markup carries no inheritance graph.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op: markup has no call/member-access graph.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
