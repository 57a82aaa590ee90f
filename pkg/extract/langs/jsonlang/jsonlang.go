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

// Package jsonlang extracts top-level object-key symbols from JSON
// documents using encoding/json's streaming decoder (not a bundled
// tree-sitter grammar) so key positions are recovered precisely without
// a hand-rolled parser. Named after the "json" language tag rather than
// the encoding/json package it wraps, to avoid colliding with it on
// import.
package jsonlang

import (
	"bytes"
	"encoding/json"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
	"github.com/kraklabs/cie-extract/pkg/extract/fallback"
)

func init() {
	dispatch.Register("json", New)
}

// Extractor implements extract.Extractor for JSON.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a JSON extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	return e.ExtractSymbolsFallback(e.Content)
}

// ExtractSymbolsFallback implements extract.FallbackExtractor. Each
// member key at the top two nesting levels becomes a Constant symbol;
// a malformed document (decode error) yields no symbols rather than
// panicking.
func (e *Extractor) ExtractSymbolsFallback(content []byte) []extract.Symbol {
	dec := json.NewDecoder(bytes.NewReader(content))
	var symbols []extract.Symbol
	e.walkTokens(dec, content, &symbols, "", 0)
	return symbols
}

func (e *Extractor) walkTokens(dec *json.Decoder, content []byte, symbols *[]extract.Symbol, parentID string, depth int) {
	if depth > 2 {
		return
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				e.walkObject(dec, content, symbols, parentID, depth)
			case '[':
				e.skipArray(dec)
			}
		default:
			_ = v
		}
	}
}

func (e *Extractor) walkObject(dec *json.Decoder, content []byte, symbols *[]extract.Symbol, parentID string, depth int) {
	for dec.More() {
		offset := int(dec.InputOffset())
		keyTok, err := dec.Token()
		if err != nil {
			return
		}
		key, ok := keyTok.(string)
		if !ok {
			continue
		}
		line, col := fallback.LineColumn(content, findKeyByte(content, key, offset))
		s := extract.Symbol{
			ID:         e.GenerateID(key, line, col),
			Name:       key,
			Kind:       extract.KindConstant,
			FilePath:   e.FilePath,
			Language:   e.Language,
			StartLine:  line,
			StartColumn: col,
			Visibility: extract.Public,
			ParentID:   parentID,
			Confidence: 1.0,
		}
		*symbols = append(*symbols, s)

		peek, err := dec.Token()
		if err != nil {
			return
		}
		if delim, ok := peek.(json.Delim); ok {
			switch delim {
			case '{':
				if depth < 1 {
					e.walkObject(dec, content, symbols, s.ID, depth+1)
				} else {
					e.skipArray(dec)
				}
			case '[':
				e.skipArray(dec)
			}
		}
	}
	dec.Token()
}

func (e *Extractor) skipArray(dec *json.Decoder) {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
}

// findKeyByte locates the byte offset of a quoted key text at or after
// hint, for line/column reporting; falls back to hint on failure.
func findKeyByte(content []byte, key string, hint int) int {
	needle := strconv.Quote(key)
	if hint < 0 || hint > len(content) {
		hint = 0
	}
	idx := indexFrom(content, []byte(needle), hint)
	if idx < 0 {
		return hint
	}
	return idx
}

func indexFrom(haystack, needle []byte, from int) int {
	if from > len(haystack) {
		from = len(haystack)
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}

// ExtractRelationships is a no-op: JSON documents carry no reference
// graph worth modeling.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
