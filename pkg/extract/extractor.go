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

package extract

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Extractor is the uniform three-operation contract every per-language
// extractor implements. Each operation takes an already-parsed tree;
// ExtractRelationships and ExtractIdentifiers additionally take the
// symbols ExtractSymbols just produced for this same file.
//
// Symbols must be emitted in document (pre-order) order with parents
// appearing before their children. Identifiers must be emitted in
// document order. Relationships may be emitted in any order.
type Extractor interface {
	ExtractSymbols(tree *sitter.Tree) []Symbol
	ExtractRelationships(tree *sitter.Tree, symbols []Symbol) []Relationship
	ExtractIdentifiers(tree *sitter.Tree, symbols []Symbol) []Identifier
}

// Constructor builds an Extractor for one file. language is the
// canonical language tag (see detect.go); filePath is already
// workspace-relative and forward-slash normalized.
type Constructor func(language, filePath, workspaceRoot string, content []byte) Extractor

// FallbackExtractor is implemented by extractors that can still produce
// symbols via regex when tree-sitter either has no grammar for the
// language or the parse degraded to ERROR nodes (spec's "Fallback
// extraction"). ExtractSymbolsFallback never receives a tree.
type FallbackExtractor interface {
	ExtractSymbolsFallback(content []byte) []Symbol
}
