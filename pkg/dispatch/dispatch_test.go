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

package dispatch

import (
	"sort"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/extract"
)

type stubExtractor struct{ *extract.BaseExtractor }

func (s *stubExtractor) ExtractSymbols(*sitter.Tree) []extract.Symbol { return nil }
func (s *stubExtractor) ExtractRelationships(*sitter.Tree, []extract.Symbol) []extract.Relationship {
	return nil
}
func (s *stubExtractor) ExtractIdentifiers(*sitter.Tree, []extract.Symbol) []extract.Identifier {
	return nil
}

func TestRegisterAndNew(t *testing.T) {
	Register("dispatch-test-lang", func(language, filePath, workspaceRoot string, content []byte) extract.Extractor {
		return &stubExtractor{extract.NewBaseExtractor(language, filePath, workspaceRoot, content)}
	})

	assert.True(t, Registered("dispatch-test-lang"))
	assert.False(t, Registered("dispatch-test-lang-unregistered"))

	extractor, ok := New("dispatch-test-lang", "a.x", "/repo", []byte("content"))
	require.True(t, ok)
	require.NotNil(t, extractor)

	_, ok = New("dispatch-test-lang-unregistered", "a.x", "/repo", nil)
	assert.False(t, ok)
}

func TestRegister_PanicsOnDuplicate(t *testing.T) {
	Register("dispatch-test-dup", func(string, string, string, []byte) extract.Extractor { return nil })
	assert.Panics(t, func() {
		Register("dispatch-test-dup", func(string, string, string, []byte) extract.Extractor { return nil })
	})
}

func TestLanguages_Sorted(t *testing.T) {
	Register("dispatch-test-zzz", func(string, string, string, []byte) extract.Extractor { return nil })
	Register("dispatch-test-aaa", func(string, string, string, []byte) extract.Extractor { return nil })

	langs := Languages()
	assert.True(t, sort.StringsAreSorted(langs))
	assert.Contains(t, langs, "dispatch-test-zzz")
	assert.Contains(t, langs, "dispatch-test-aaa")
}
