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

// Package dart extracts class and function/method declarations from
// Dart source by regex: no bundled tree-sitter grammar exists for this
// language tag, so symbols come entirely from pkg/extract/fallback.
// ExtractRelationships emits no edges (acknowledged stub, same carve-out
// as Bash) and ExtractIdentifiers is a no-op: regex recovery gives no
// reliable call-site information.
package dart

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
	"github.com/kraklabs/cie-extract/pkg/extract/fallback"
)

func init() {
	dispatch.Register("dart", New)
}

var rules = []fallback.Rule{
	{Pattern: regexp.MustCompile(`(?m)^\s*(?:abstract\s+)?class\s+([A-Za-z_]\w*)`), Kind: extract.KindClass},
	{Pattern: regexp.MustCompile(`(?m)^\s*mixin\s+([A-Za-z_]\w*)`), Kind: extract.KindTrait},
	{Pattern: regexp.MustCompile(`(?m)^\s*enum\s+([A-Za-z_]\w*)`), Kind: extract.KindEnum},
	{Pattern: regexp.MustCompile(`(?m)^\s*(?:[A-Za-z_][\w<>,\s?]*\s+)?([A-Za-z_]\w*)\s*\([^;{]*\)\s*(?:async\s*)?\{`), Kind: extract.KindFunction},
}

// Extractor implements extract.Extractor for Dart.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Dart extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	return e.ExtractSymbolsFallback(e.Content)
}

// ExtractSymbolsFallback implements extract.FallbackExtractor.
func (e *Extractor) ExtractSymbolsFallback(content []byte) []extract.Symbol {
	return fallback.Extract(e.BaseExtractor, content, rules)
}

// ExtractRelationships emits no edges: method-call relationship
// extraction over regex-recovered Dart symbols is not implemented.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
