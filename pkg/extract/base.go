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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// BaseExtractor is the shared substrate every per-language extractor is
// built on by composition. It owns the file path, language tag, source
// content and workspace root for the duration of one file's extraction,
// plus the accumulating identifier buffer.
//
// A BaseExtractor (and every string it hands out) is only valid for the
// lifetime of the extraction call that created it; nothing derived from
// it may be retained past that call returning.
type BaseExtractor struct {
	Language      string
	FilePath      string // workspace-relative, forward-slash
	WorkspaceRoot string
	Content       []byte

	identifiers []Identifier
}

// NewBaseExtractor constructs the shared substrate for one file's
// extraction. filePath must already be workspace-relative and
// forward-slash normalized (see NormalizeFilePath).
func NewBaseExtractor(language, filePath, workspaceRoot string, content []byte) *BaseExtractor {
	return &BaseExtractor{
		Language:      language,
		FilePath:      filePath,
		WorkspaceRoot: workspaceRoot,
		Content:       content,
	}
}

// GenerateID derives a stable symbol ID from (file, name, start position).
// Two symbols in the same file with identical name and start position are
// a model violation the calling extractor must disambiguate upstream
// (e.g. by including an anonymous-symbol counter in name).
func (b *BaseExtractor) GenerateID(name string, startLine, startColumn int) string {
	h := sha256.New()
	h.Write([]byte(b.FilePath))
	h.Write([]byte("|"))
	h.Write([]byte(name))
	h.Write([]byte("|"))
	fmt.Fprintf(h, "%d|%d", startLine, startColumn)
	return "sym:" + hex.EncodeToString(h.Sum(nil))[:16]
}

// GetNodeText returns the UTF-8 text spanned by node's byte range.
func (b *BaseExtractor) GetNodeText(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(b.Content) || start > end {
		return ""
	}
	return string(b.Content[start:end])
}

// TruncateString returns a prefix of s no longer than n bytes that ends
// on a UTF-8 character boundary. It never panics: if n is out of range
// it falls back to returning s unchanged.
func TruncateString(s string, n int) string {
	if n <= 0 || n >= len(s) {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut <= 0 {
		return s
	}
	return s[:cut]
}

// commentPrefixes lists recognized single-line/block comment openers
// across the languages this package supports.
var commentPrefixes = []string{"///", "//", "#", "/**", "/*", "<!--", `"""`, `'''`, "<#"}

// FindDocComment walks backwards among node's preceding named siblings,
// collecting contiguous comment nodes (recognized by commentNodeTypes),
// stopping at the first non-comment sibling. Comments are returned in
// source order, joined by newlines; returns "" when none abut the node.
func (b *BaseExtractor) FindDocComment(node *sitter.Node, commentNodeTypes map[string]bool) string {
	if node == nil {
		return ""
	}
	var comments []string
	sib := node.PrevNamedSibling()
	for sib != nil && commentNodeTypes[sib.Type()] {
		comments = append(comments, strings.TrimSpace(b.GetNodeText(sib)))
		sib = sib.PrevNamedSibling()
	}
	if len(comments) == 0 {
		return ""
	}
	// comments were collected nearest-first; reverse to source order.
	for i, j := 0, len(comments)-1; i < j; i, j = i+1, j-1 {
		comments[i], comments[j] = comments[j], comments[i]
	}
	return strings.Join(comments, "\n")
}

// FindContainingSymbol returns the innermost symbol among fileSymbols
// whose byte range strictly contains node. fileSymbols MUST already be
// restricted to the current file — searching a global table here would
// produce plausible-looking but wrong parent assignments whenever names
// collide across files (see package docs on file-scoped resolution).
func FindContainingSymbol(node *sitter.Node, fileSymbols []Symbol) *Symbol {
	if node == nil {
		return nil
	}
	start, end := node.StartByte(), node.EndByte()
	var best *Symbol
	for i := range fileSymbols {
		s := &fileSymbols[i]
		if uint32(s.StartByte) <= start && end <= uint32(s.EndByte) &&
			!(uint32(s.StartByte) == start && uint32(s.EndByte) == end) {
			if best == nil || (s.EndByte-s.StartByte) < (best.EndByte-best.StartByte) {
				best = s
			}
		}
	}
	return best
}

// SymbolOptions carries the optional fields CreateSymbol may be given.
type SymbolOptions struct {
	Signature  string
	Visibility Visibility
	ParentID   string
	Metadata   Metadata
	DocComment string // if empty and FindDoc is set, the factory invokes it
	FindDoc    func() string
}

// CreateSymbol allocates a Symbol with a derived ID and the node's span.
// Lines/columns are emitted 1-based regardless of the parser's internal
// (0-based) convention.
func (b *BaseExtractor) CreateSymbol(node *sitter.Node, name string, kind SymbolKind, opts SymbolOptions) Symbol {
	startLine := int(node.StartPoint().Row) + 1
	startCol := int(node.StartPoint().Column) + 1
	endLine := int(node.EndPoint().Row) + 1
	endCol := int(node.EndPoint().Column) + 1

	doc := opts.DocComment
	if doc == "" && opts.FindDoc != nil {
		doc = opts.FindDoc()
	}

	meta := opts.Metadata
	if meta == nil {
		meta = Metadata{}
	}

	return Symbol{
		ID:          b.GenerateID(name, startLine, startCol),
		Name:        name,
		Kind:        kind,
		FilePath:    b.FilePath,
		Language:    b.Language,
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
		StartByte:   node.StartByte(),
		EndByte:     node.EndByte(),
		Signature:   TruncateString(opts.Signature, 4096),
		Visibility:  opts.Visibility,
		DocComment:  doc,
		ParentID:    opts.ParentID,
		Metadata:    meta,
		Confidence:  1.0,
	}
}

// CreateIdentifier appends a new identifier to the extractor's buffer.
// Containment resolution (file-scoped, see FindContainingSymbol) is the
// caller's responsibility and passed in via containingSymbolID.
func (b *BaseExtractor) CreateIdentifier(node *sitter.Node, name string, kind IdentifierKind, containingSymbolID string) Identifier {
	id := Identifier{
		Name:               name,
		Kind:               kind,
		FilePath:           b.FilePath,
		Language:           b.Language,
		Line:               int(node.StartPoint().Row) + 1,
		Column:             int(node.StartPoint().Column) + 1,
		StartByte:          node.StartByte(),
		EndByte:            node.EndByte(),
		ContainingSymbolID: containingSymbolID,
	}
	b.identifiers = append(b.identifiers, id)
	return id
}

// Identifiers returns a copy of the accumulated identifier buffer.
func (b *BaseExtractor) Identifiers() []Identifier {
	out := make([]Identifier, len(b.identifiers))
	copy(out, b.identifiers)
	return out
}

// CreateRelationship assembles an edge whose ID is derived as
// "{from}_{to}_{kind}_{row}" so that re-running extraction (or building
// edges ad hoc outside this factory, as long as the same formula is
// used) collapses to the same ID.
func CreateRelationship(fromID, toID string, kind RelationshipKind, node *sitter.Node, confidence float64, meta Metadata) Relationship {
	line := 0
	if node != nil {
		line = int(node.StartPoint().Row) + 1
	}
	if confidence == 0 {
		confidence = 1.0
	}
	if meta == nil {
		meta = Metadata{}
	}
	return Relationship{
		ID:           RelationshipID(fromID, toID, kind, line),
		FromSymbolID: fromID,
		ToSymbolID:   toID,
		Kind:         kind,
		LineNumber:   line,
		Confidence:   confidence,
		Metadata:     meta,
	}
}

// RelationshipID is the shared ID formula every relationship, whether
// built through CreateRelationship or assembled ad hoc, must use so
// edges collapse deterministically across runs.
func RelationshipID(fromID, toID string, kind RelationshipKind, line int) string {
	return fmt.Sprintf("%s_%s_%s_%d", fromID, toID, kind, line)
}

// NormalizeFilePath makes an absolute or OS-specific path relative to
// root and forward-slash formed, as every emitted Symbol/Identifier/
// Relationship file_path must be.
func NormalizeFilePath(root, path string) string {
	rel := strings.TrimPrefix(path, root)
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.TrimPrefix(rel, "/")
	return rel
}
