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

// Package regexlang registers the "regex" language tag: a standalone
// pattern file is treated as a single document whose named capture
// groups are its declarations. Named after the tag rather than the Go
// "regexp" package it uses, to avoid colliding with it on import.
package regexlang

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
	"github.com/kraklabs/cie-extract/pkg/extract/fallback"
)

func init() {
	dispatch.Register("regex", New)
}

var rules = []fallback.Rule{
	{Pattern: regexp.MustCompile(`\(\?P?<([A-Za-z_]\w*)>`), Kind: extract.KindVariable},
}

// Extractor implements extract.Extractor for the "regex" language tag.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a regex-pattern extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	return e.ExtractSymbolsFallback(e.Content)
}

// ExtractSymbolsFallback implements extract.FallbackExtractor: each
// named capture group becomes a Variable symbol.
func (e *Extractor) ExtractSymbolsFallback(content []byte) []extract.Symbol {
	return fallback.Extract(e.BaseExtractor, content, rules)
}

// ExtractRelationships is a no-op: a pattern file has no reference graph.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
