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
	"path/filepath"
	"strings"
)

// UnknownLanguage is the placeholder tag for files with no registered
// extractor, per spec.md's LanguageUnknown error kind: the file is
// still treated as plain text (content returned, no extraction).
const UnknownLanguage = "unknown"

// extByLanguage maps the canonical language tag (spec.md §6.1) to the
// file extensions that select it. Detection is extension-only; deeper
// heuristics (shebangs, content sniffing) are the caller's concern per
// spec.md §1's Non-goals.
var extByLanguage = map[string][]string{
	"go":         {".go"},
	"python":     {".py", ".pyi"},
	"javascript": {".js", ".jsx", ".mjs", ".cjs"},
	"typescript": {".ts", ".mts", ".cts"},
	"tsx":        {".tsx"},
	"rust":       {".rs"},
	"java":       {".java"},
	"csharp":     {".cs"},
	"c":          {".c", ".h"},
	"cpp":        {".cpp", ".cc", ".cxx", ".hpp", ".hh"},
	"ruby":       {".rb"},
	"php":        {".php"},
	"kotlin":     {".kt", ".kts"},
	"swift":      {".swift"},
	"dart":       {".dart"},
	"lua":        {".lua"},
	"bash":       {".sh", ".bash"},
	"powershell": {".ps1", ".psm1"},
	"html":       {".html", ".htm"},
	"css":        {".css"},
	"vue":        {".vue"},
	"gdscript":   {".gd"},
	"zig":        {".zig"},
	"qml":        {".qml"},
	"r":          {".r", ".R"},
	"regex":      {".regex"},
	"razor":      {".razor", ".cshtml"},
	"markdown":   {".md", ".markdown"},
	"json":       {".json"},
	"yaml":       {".yaml", ".yml"},
	"toml":       {".toml"},
}

var langByExt map[string]string

func init() {
	langByExt = make(map[string]string)
	for lang, exts := range extByLanguage {
		for _, e := range exts {
			langByExt[strings.ToLower(e)] = lang
		}
	}
}

// DetectLanguage maps a file path to a canonical language tag by
// extension, or UnknownLanguage if nothing is registered.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := langByExt[ext]; ok {
		return lang
	}
	return UnknownLanguage
}

// SupportedLanguages returns the canonical language tags this package
// can detect, sorted is not guaranteed.
func SupportedLanguages() []string {
	out := make([]string, 0, len(extByLanguage))
	for lang := range extByLanguage {
		out = append(out, lang)
	}
	return out
}
