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
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/swift"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// ErrNoGrammar is returned by Parse for a language with no bundled
// tree-sitter grammar; callers fall through to a FallbackExtractor.
var ErrNoGrammar = errors.New("extract: no tree-sitter grammar for language")

// grammarPools holds one *sync.Pool of *sitter.Parser per language tag
// that has a bundled tree-sitter grammar. Parsers are not thread-safe,
// so every pooled parser is Get/Put within a single worker's processing
// of one file — never shared across goroutines concurrently.
var grammarPools = map[string]*sync.Pool{}
var grammarInit sync.Once

func initGrammarPools() {
	register := func(lang string, getLang func() *sitter.Language) {
		grammarPools[lang] = &sync.Pool{
			New: func() any {
				p := sitter.NewParser()
				p.SetLanguage(getLang())
				return p
			},
		}
	}
	register("go", golang.GetLanguage)
	register("python", python.GetLanguage)
	register("javascript", javascript.GetLanguage)
	register("typescript", typescript.GetLanguage)
	register("tsx", tsx.GetLanguage)
	register("rust", rust.GetLanguage)
	register("java", java.GetLanguage)
	register("c", c.GetLanguage)
	register("cpp", cpp.GetLanguage)
	register("csharp", csharp.GetLanguage)
	register("ruby", ruby.GetLanguage)
	register("php", php.GetLanguage)
	register("lua", lua.GetLanguage)
	register("bash", bash.GetLanguage)
	register("html", html.GetLanguage)
	register("css", css.GetLanguage)
	register("kotlin", kotlin.GetLanguage)
	register("swift", swift.GetLanguage)
	register("toml", toml.GetLanguage)
	register("yaml", yaml.GetLanguage)
}

// HasGrammar reports whether language has a bundled tree-sitter grammar.
func HasGrammar(language string) bool {
	grammarInit.Do(initGrammarPools)
	_, ok := grammarPools[language]
	return ok
}

// Parse produces a syntax tree for content in the given language. It
// implements the external parser contract of spec.md §6.3: the returned
// *sitter.Tree exposes RootNode(), and each *sitter.Node exposes Type(),
// ChildCount(), Child(i), Children(), ChildByFieldName(name), Parent(),
// PrevNamedSibling(), StartPoint()/EndPoint(), StartByte()/EndByte(),
// HasError() and NamedDescendantForPointRange — the smacker/go-tree-sitter
// binding satisfies this directly.
//
// Returns ErrNoGrammar for a language with no bundled grammar; the caller
// is expected to fall back to regex extraction in that case.
func Parse(ctx context.Context, language string, content []byte) (*sitter.Tree, func(), error) {
	grammarInit.Do(initGrammarPools)
	pool, ok := grammarPools[language]
	if !ok {
		return nil, func() {}, ErrNoGrammar
	}
	parser := pool.Get().(*sitter.Parser)
	release := func() { pool.Put(parser) }

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		release()
		return nil, func() {}, fmt.Errorf("tree-sitter parse (%s): %w", language, err)
	}
	return tree, func() {
		tree.Close()
		release()
	}, nil
}

// CountErrors counts ERROR nodes in the subtree rooted at node. A
// non-zero count after a parse doesn't necessarily mean the file is
// unusable — tree-sitter is error-tolerant — but a tree that is *mostly*
// ERROR nodes is the MalformedNode case spec.md §7 names, and the signal
// extractors use to decide whether to fall through to a regex pass.
func CountErrors(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.Type() == "ERROR" {
		count++
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		count += CountErrors(node.Child(i))
	}
	return count
}

// MostlyErrors reports whether a parsed tree looks too broken to trust
// for structural extraction, gating the regex-fallback path.
func MostlyErrors(root *sitter.Node) bool {
	if root == nil {
		return true
	}
	total := 1 + int(root.ChildCount())
	errs := CountErrors(root)
	return errs > 0 && errs*2 >= total
}
