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

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestRunLanguages_PlainTextListsEveryRegisteredTag(t *testing.T) {
	out := captureStdout(t, func() {
		runLanguages(nil, GlobalFlags{})
	})
	for _, lang := range dispatch.Languages() {
		assert.Contains(t, out, lang)
	}
	assert.Contains(t, out, "regex fallback only", "vue carries no bundled grammar")
}

func TestRunLanguages_JSONListsLanguageAndGrammarFlag(t *testing.T) {
	out := captureStdout(t, func() {
		runLanguages(nil, GlobalFlags{JSON: true})
	})

	var entries []struct {
		Language   string `json:"language"`
		HasGrammar bool   `json:"has_grammar"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, len(dispatch.Languages()), len(entries))

	byLang := map[string]bool{}
	for _, e := range entries {
		byLang[e.Language] = e.HasGrammar
	}
	assert.False(t, byLang["vue"], "vue has no bundled tree-sitter grammar")
	assert.True(t, byLang["go"], "go has a bundled tree-sitter grammar")
}
