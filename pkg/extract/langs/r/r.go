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

// Package r extracts `name <- function(...)` assignments from R source
// by regex; no bundled tree-sitter grammar exists for this tag.
package r

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
	"github.com/kraklabs/cie-extract/pkg/extract/fallback"
)

func init() {
	dispatch.Register("r", New)
}

var rules = []fallback.Rule{
	{Pattern: regexp.MustCompile(`(?m)^\s*([A-Za-z_.][\w.]*)\s*(?:<-|=)\s*function\s*\(`), Kind: extract.KindFunction},
	{Pattern: regexp.MustCompile(`(?m)^\s*([A-Za-z_.][\w.]*)\s*<-\s*(?:[^f\s]|f[^u]|fu[^n]|fun[^c]|func[^t]|funct[^i]|functi[^o]|functio[^n]|function[\w.])`), Kind: extract.KindVariable},
}

// Extractor implements extract.Extractor for R.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs an R extractor.
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

// ExtractRelationships is a no-op.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
