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
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestDiscoverFiles_SkipsExcludedDirsAndFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main")
	writeFile(t, filepath.Join(root, "vendor", "dep.go"), "package dep")
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "module.exports = {}")
	writeFile(t, filepath.Join(root, "assets", "bundle.min.js"), "!function(){}()")
	writeFile(t, filepath.Join(root, "pkg", "util.go"), "package pkg")

	files, err := DiscoverFiles(root, []string{
		"vendor/**",
		"node_modules/**",
		"*.min.js",
	}, 0)
	require.NoError(t, err)

	rel := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	sort.Strings(rel)

	require.Equal(t, []string{"main.go", "pkg/util.go"}, rel)
}

func TestDiscoverFiles_RespectsMaxSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.go"), "package p")
	writeFile(t, filepath.Join(root, "big.go"), "package p\n// "+string(make([]byte, 200)))

	files, err := DiscoverFiles(root, nil, 50)
	require.NoError(t, err)

	rel := make([]string, len(files))
	for i, f := range files {
		r, _ := filepath.Rel(root, f)
		rel[i] = filepath.ToSlash(r)
	}
	require.Equal(t, []string{"small.go"}, rel)
}

func TestMatchesAny_BasenameFallbackForPatternsWithNoSlash(t *testing.T) {
	require.True(t, matchesAny("deep/nested/go.sum", []string{"go.sum"}))
	require.False(t, matchesAny("deep/nested/go.sum.bak", []string{"go.sum"}))
	require.True(t, matchesAny("deep/nested/file.min.js", []string{"*.min.js"}))
}
