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

// Package fallback is the shared regex-extraction core for language
// tags that have no bundled tree-sitter grammar (Dart, PowerShell,
// GDScript, Zig, QML, R, Regex, Razor). Each such language registers
// one or more Rules describing how to recognize a declaration by
// regular expression; Extract turns a Rule match stream into a Symbol
// stream with correct 1-based line/column positions, mirroring the
// position convention BaseExtractor.CreateSymbol applies to tree-sitter
// nodes. The Markdown and JSON extractors use only LineColumn.
package fallback

import (
	"regexp"

	"github.com/kraklabs/cie-extract/pkg/extract"
)

// Rule recognizes one declaration shape. Pattern's first capture group
// is the declared name; Kind is the Symbol kind to assign on a match.
type Rule struct {
	Pattern *regexp.Regexp
	Kind    extract.SymbolKind
}

// Extract runs every rule against content in source order, producing
// one Symbol per match via the host extractor's GenerateID/GetNodeText
// conventions. Matches are not deduplicated across overlapping rules;
// callers with ambiguous grammars should order Rules most-specific
// first.
func Extract(base *extract.BaseExtractor, content []byte, rules []Rule) []extract.Symbol {
	var symbols []extract.Symbol
	for _, rule := range rules {
		for _, m := range rule.Pattern.FindAllSubmatchIndex(content, -1) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			name := string(content[m[2]:m[3]])
			line, col := LineColumn(content, m[2])
			symbols = append(symbols, extract.Symbol{
				ID:         base.GenerateID(name, line, col),
				Name:       name,
				Kind:       rule.Kind,
				FilePath:   base.FilePath,
				Language:   base.Language,
				StartLine:  line,
				StartColumn: col,
				StartByte:  uint32(m[2]),
				EndByte:    uint32(m[3]),
				Visibility: extract.Public,
				Metadata:   extract.Metadata{"isFallback": true},
				Confidence: 0.6,
			})
		}
	}
	return symbols
}

// LineColumn converts a byte offset into content into a 1-based
// (line, column) pair.
func LineColumn(content []byte, offset int) (int, int) {
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
