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

// Package markdown extracts ATX heading symbols from Markdown
// documents by regex; no bundled tree-sitter grammar exists for this
// tag. Each heading becomes a Module symbol named by its heading text,
// nested under its nearest enclosing lower-level heading.
package markdown

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
	"github.com/kraklabs/cie-extract/pkg/extract/fallback"
)

func init() {
	dispatch.Register("markdown", New)
}

var reHeading = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+?)\s*$`)

// Extractor implements extract.Extractor for Markdown.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Markdown extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	return e.ExtractSymbolsFallback(e.Content)
}

type headingFrame struct {
	level int
	id    string
}

// ExtractSymbolsFallback implements extract.FallbackExtractor, threading
// a heading-level stack so each heading's ParentID is its nearest
// enclosing lower-numbered heading.
func (e *Extractor) ExtractSymbolsFallback(content []byte) []extract.Symbol {
	var symbols []extract.Symbol
	var stack []headingFrame
	for _, m := range reHeading.FindAllSubmatchIndex(content, -1) {
		level := m[3] - m[2]
		title := strings.TrimSpace(string(content[m[4]:m[5]]))
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		parentID := ""
		if len(stack) > 0 {
			parentID = stack[len(stack)-1].id
		}
		line, col := fallback.LineColumn(content, m[0])
		s := e.CreateSymbolAt(title, level, line, col, m[0], m[1], parentID)
		symbols = append(symbols, s)
		stack = append(stack, headingFrame{level: level, id: s.ID})
	}
	return symbols
}

// CreateSymbolAt builds a heading Symbol without a tree-sitter node,
// since Markdown headings are recovered entirely by regex.
func (e *Extractor) CreateSymbolAt(title string, level, line, col int, startByte, endByte int, parentID string) extract.Symbol {
	return extract.Symbol{
		ID:          e.GenerateID(title, line, col),
		Name:        title,
		Kind:        extract.KindModule,
		FilePath:    e.FilePath,
		Language:    e.Language,
		StartLine:   line,
		StartColumn: col,
		StartByte:   uint32(startByte),
		EndByte:     uint32(endByte),
		Signature:   strings.Repeat("#", level) + " " + title,
		Visibility:  extract.Public,
		ParentID:    parentID,
		Metadata:    extract.Metadata{"isFallback": true, "headingLevel": level},
		Confidence:  0.7,
	}
}

// ExtractRelationships is a no-op: headings carry no reference graph.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
