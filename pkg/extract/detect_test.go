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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"script.py", "python"},
		{"component.tsx", "tsx"},
		{"module.ts", "typescript"},
		{"app.jsx", "javascript"},
		{"Main.java", "java"},
		{"lib.rs", "rust"},
		{"page.vue", "vue"},
		{"README.md", "markdown"},
		{"config.toml", "toml"},
		{"values.yaml", "yaml"},
		{"values.yml", "yaml"},
		{"NOTES.TXT", UnknownLanguage},
		{"Makefile", UnknownLanguage},
		{"archive.tar.gz", UnknownLanguage},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.path))
		})
	}
}

func TestSupportedLanguages_IncludesEveryDetectedTag(t *testing.T) {
	langs := SupportedLanguages()
	assert.Contains(t, langs, "go")
	assert.Contains(t, langs, "python")
	assert.NotContains(t, langs, UnknownLanguage, "unknown is a fallback tag, not a registered language")
}
