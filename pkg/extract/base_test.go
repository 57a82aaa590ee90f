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
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
)

func TestGenerateID_StableAndScoped(t *testing.T) {
	b := NewBaseExtractor("go", "pkg/foo.go", "/repo", []byte("package foo"))

	id1 := b.GenerateID("Foo", 3, 1)
	id2 := b.GenerateID("Foo", 3, 1)
	assert.Equal(t, id1, id2, "same name+position must yield the same ID")
	assert.Len(t, id1, 20, "sym: prefix (4) + 16 hex chars")
	assert.Equal(t, "sym:", id1[:4])

	other := NewBaseExtractor("go", "pkg/bar.go", "/repo", []byte("package foo"))
	assert.NotEqual(t, id1, other.GenerateID("Foo", 3, 1), "different file path must change the ID")

	assert.NotEqual(t, id1, b.GenerateID("Foo", 3, 2), "different start column must change the ID")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"no truncation needed", "short", 10, "short"},
		{"zero limit returns input", "hello", 0, "hello"},
		{"exact ascii cut", "abcdef", 3, "abc"},
		{"cuts back to rune boundary", "aéb", 2, "a"}, // é is 2 bytes; cutting mid-rune backs off
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.in, tt.n))
		})
	}
}

func TestRelationshipID_Deterministic(t *testing.T) {
	id := RelationshipID("sym:aaa", "sym:bbb", RelCalls, 42)
	assert.Equal(t, "sym:aaa_sym:bbb_Calls_42", id)
	assert.Equal(t, id, RelationshipID("sym:aaa", "sym:bbb", RelCalls, 42))
}

func TestCreateRelationship_DefaultsConfidence(t *testing.T) {
	rel := CreateRelationship("sym:a", "sym:b", RelImports, nil, 0, nil)
	assert.Equal(t, 1.0, rel.Confidence, "zero confidence defaults to 1.0")
	assert.NotNil(t, rel.Metadata, "nil metadata is normalized to an empty map")
	assert.Equal(t, 0, rel.LineNumber, "nil node yields line 0")
}

func TestNormalizeFilePath(t *testing.T) {
	tests := []struct{ root, path, want string }{
		{"/repo", "/repo/pkg/foo.go", "pkg/foo.go"},
		{"/repo", "/repo/foo.go", "foo.go"},
		{"/repo", `/repo\pkg\foo.go`, "pkg/foo.go"},
	}
	for _, tt := range tests {
		got := NormalizeFilePath(tt.root, tt.path)
		assert.Equal(t, tt.want, got)
	}
}

func TestFindContainingSymbol_InnermostWins(t *testing.T) {
	src := []byte("package foo\n\nfunc Outer() {\n\tx := 1\n\t_ = x\n}\n")
	tree, release, err := Parse(context.Background(), "go", src)
	assert.NoError(t, err)
	defer release()

	root := tree.RootNode()
	var fn *sitter.Node
	for i := 0; i < int(root.ChildCount()); i++ {
		if c := root.Child(i); c.Type() == "function_declaration" {
			fn = c
		}
	}
	assert.NotNil(t, fn, "expected to find the function_declaration node")

	outer := Symbol{ID: "sym:outer", StartByte: fn.StartByte(), EndByte: fn.EndByte()}
	unrelated := Symbol{ID: "sym:other", StartByte: 0, EndByte: 3}

	// A node strictly inside fn's body should resolve to outer, not unrelated.
	body := fn.ChildByFieldName("body")
	assert.NotNil(t, body)

	got := FindContainingSymbol(body, []Symbol{outer, unrelated})
	assert.NotNil(t, got)
	assert.Equal(t, "sym:outer", got.ID)

	assert.Nil(t, FindContainingSymbol(body, nil))
}
