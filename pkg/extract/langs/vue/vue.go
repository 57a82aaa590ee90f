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

// Package vue extracts symbols from single-file components. Vue has no
// bundled tree-sitter grammar of its own, so the SFC is split into its
// {template, script, style} sections by regex, each with a starting
// line offset, and each section is extracted independently: script and
// style bodies are handed to the real javascript/typescript (via
// jsfamily) and css tree-sitter extractors respectively, with each
// sub-extractor's symbol lines shifted by the section's start so they
// resolve back to the SFC file; template symbols come from a
// component/directive usage scan, since templates have no tree-sitter
// grammar anywhere in this pack. A script section falls back to a
// regex scan when its body fails to parse (or parses mostly to ERROR
// nodes) under the grammar its lang attribute selects: typescript for
// lang="ts", javascript otherwise.
package vue

import (
	"context"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
	"github.com/kraklabs/cie-extract/pkg/extract/langs/css"
	"github.com/kraklabs/cie-extract/pkg/extract/langs/jsfamily"
)

func init() {
	dispatch.Register("vue", New)
}

// Extractor implements extract.Extractor for Vue SFCs.
type Extractor struct {
	*extract.BaseExtractor
}

// New constructs a Vue extractor.
func New(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
	return &Extractor{BaseExtractor: extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
}

var reSection = regexp.MustCompile(`(?is)<(template|script|style)([^>]*)>(.*?)</(?:template|script|style)>`)
var reLangAttr = regexp.MustCompile(`lang\s*=\s*["']([a-zA-Z0-9]+)["']`)

type section struct {
	kind       string
	lang       string
	body       []byte
	lineOffset int
}

func splitSections(content []byte) []section {
	var out []section
	matches := reSection.FindAllSubmatchIndex(content, -1)
	for _, m := range matches {
		kind := string(content[m[2]:m[3]])
		attrs := content[m[4]:m[5]]
		body := content[m[6]:m[7]]
		lang := ""
		if lm := reLangAttr.FindSubmatch(attrs); lm != nil {
			lang = string(lm[1])
		}
		offset := countLines(content[:m[6]])
		out = append(out, section{kind: kind, lang: lang, body: body, lineOffset: offset})
	}
	return out
}

func countLines(b []byte) int {
	n := 0
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}

// ExtractSymbols ignores tree (Vue has no bundled grammar) and always
// runs the section-splitting fallback.
func (e *Extractor) ExtractSymbols(tree *sitter.Tree) []extract.Symbol {
	return e.ExtractSymbolsFallback(e.Content)
}

// ExtractSymbolsFallback implements extract.FallbackExtractor.
func (e *Extractor) ExtractSymbolsFallback(content []byte) []extract.Symbol {
	var symbols []extract.Symbol
	for _, sec := range splitSections(content) {
		switch sec.kind {
		case "script":
			symbols = append(symbols, e.extractScript(sec)...)
		case "template":
			symbols = append(symbols, e.extractTemplate(sec)...)
		case "style":
			symbols = append(symbols, e.extractStyle(sec)...)
		}
	}
	return symbols
}

// delegateParse parses sec.body as lang, hands it to a freshly
// constructed sub-extractor of ctor, and shifts every returned symbol's
// line numbers by sec.lineOffset so they resolve against the SFC file
// rather than the extracted section alone. ok is false when lang has
// no grammar, the body fails to parse, or the resulting tree is mostly
// ERROR nodes — callers fall back to a regex pass in that case.
func (e *Extractor) delegateParse(lang string, sec section, ctor extract.Constructor) (symbols []extract.Symbol, ok bool) {
	tree, release, err := extract.Parse(context.Background(), lang, sec.body)
	if err != nil {
		return nil, false
	}
	defer release()
	if extract.MostlyErrors(tree.RootNode()) {
		return nil, false
	}

	sub := ctor(lang, e.FilePath, e.WorkspaceRoot, sec.body)
	symbols = sub.ExtractSymbols(tree)
	for i := range symbols {
		symbols[i].StartLine += sec.lineOffset
		symbols[i].EndLine += sec.lineOffset
		symbols[i].Language = "vue"
		if symbols[i].Metadata == nil {
			symbols[i].Metadata = extract.Metadata{}
		}
		symbols[i].Metadata["section"] = sec.kind
	}
	return symbols, true
}

func scriptLanguageTag(lang string) string {
	switch lang {
	case "ts", "typescript":
		return "typescript"
	default:
		return "javascript"
	}
}

var reScriptDecl = regexp.MustCompile(`(?m)^\s*(?:export\s+(?:default\s+)?)?(?:async\s+)?(function\s+([A-Za-z_$][\w$]*)|class\s+([A-Za-z_$][\w$]*)|const\s+([A-Za-z_$][\w$]*)\s*=)`)

func (e *Extractor) extractScript(sec section) []extract.Symbol {
	if symbols, ok := e.delegateParse(scriptLanguageTag(sec.lang), sec, jsfamily.New); ok {
		return symbols
	}
	return e.extractScriptRegex(sec)
}

func (e *Extractor) extractScriptRegex(sec section) []extract.Symbol {
	var symbols []extract.Symbol
	for _, m := range reScriptDecl.FindAllSubmatchIndex(sec.body, -1) {
		var name string
		var kind extract.SymbolKind
		switch {
		case m[4] >= 0:
			name = string(sec.body[m[4]:m[5]])
			kind = extract.KindFunction
		case m[6] >= 0:
			name = string(sec.body[m[6]:m[7]])
			kind = extract.KindClass
		case m[8] >= 0:
			name = string(sec.body[m[8]:m[9]])
			kind = extract.KindVariable
		default:
			continue
		}
		line := sec.lineOffset + countLines(sec.body[:m[0]]) + 1
		symbols = append(symbols, extract.Symbol{
			ID:         e.GenerateID(name, line, 1),
			Name:       name,
			Kind:       kind,
			FilePath:   e.FilePath,
			Language:   "vue",
			StartLine:  line,
			Visibility: extract.Public,
			Metadata:   extract.Metadata{"section": "script", "lang": sec.lang},
			Confidence: 0.7,
		})
	}
	return symbols
}

var reComponentTag = regexp.MustCompile(`</?([A-Z][A-Za-z0-9]*|[a-z][a-z0-9]*-[a-z0-9-]+)\b`)
var reDirective = regexp.MustCompile(`\s(v-[a-z-]+|@[a-z-]+|:[a-z-]+)(?:=|[\s>])`)

func (e *Extractor) extractTemplate(sec section) []extract.Symbol {
	seen := map[string]bool{}
	var symbols []extract.Symbol
	for _, m := range reComponentTag.FindAllSubmatchIndex(sec.body, -1) {
		name := string(sec.body[m[2]:m[3]])
		if seen[name] {
			continue
		}
		seen[name] = true
		line := sec.lineOffset + countLines(sec.body[:m[0]]) + 1
		symbols = append(symbols, extract.Symbol{
			ID:         e.GenerateID(name, line, 1),
			Name:       name,
			Kind:       extract.KindVariable,
			FilePath:   e.FilePath,
			Language:   "vue",
			StartLine:  line,
			Visibility: extract.Public,
			Metadata:   extract.Metadata{"section": "template", "usage": "component"},
			Confidence: 0.6,
		})
	}
	for _, m := range reDirective.FindAllSubmatchIndex(sec.body, -1) {
		name := string(sec.body[m[2]:m[3]])
		key := "directive:" + name
		if seen[key] {
			continue
		}
		seen[key] = true
		line := sec.lineOffset + countLines(sec.body[:m[0]]) + 1
		symbols = append(symbols, extract.Symbol{
			ID:         e.GenerateID(key, line, 1),
			Name:       name,
			Kind:       extract.KindVariable,
			FilePath:   e.FilePath,
			Language:   "vue",
			StartLine:  line,
			Visibility: extract.Public,
			Metadata:   extract.Metadata{"section": "template", "usage": "directive"},
			Confidence: 0.6,
		})
	}
	return symbols
}

var reCSSRule = regexp.MustCompile(`(?m)^\s*([.#]?[A-Za-z][\w-]*(?:[ ,>.#:][^{]*)?)\s*\{`)

// extractStyle delegates to the real CSS extractor; a preprocessor
// lang (scss, less, ...) won't parse as plain CSS and falls back to
// the rule-set regex below.
func (e *Extractor) extractStyle(sec section) []extract.Symbol {
	if symbols, ok := e.delegateParse("css", sec, css.New); ok {
		return symbols
	}
	return e.extractStyleRegex(sec)
}

func (e *Extractor) extractStyleRegex(sec section) []extract.Symbol {
	var symbols []extract.Symbol
	for _, m := range reCSSRule.FindAllSubmatchIndex(sec.body, -1) {
		name := string(sec.body[m[2]:m[3]])
		line := sec.lineOffset + countLines(sec.body[:m[0]]) + 1
		symbols = append(symbols, extract.Symbol{
			ID:         e.GenerateID(name, line, 1),
			Name:       name,
			Kind:       extract.KindVariable,
			FilePath:   e.FilePath,
			Language:   "vue",
			StartLine:  line,
			Visibility: extract.Public,
			Metadata:   extract.Metadata{"section": "style"},
			Confidence: 0.6,
		})
	}
	return symbols
}

// ExtractRelationships is a no-op: SFC sections are extracted
// independently without cross-section reference resolution.
func (e *Extractor) ExtractRelationships(tree *sitter.Tree, symbols []extract.Symbol) []extract.Relationship {
	return nil
}

// ExtractIdentifiers is a no-op: regex-recovered script symbols carry
// no reliable call-site information.
func (e *Extractor) ExtractIdentifiers(tree *sitter.Tree, symbols []extract.Symbol) []extract.Identifier {
	return nil
}
