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

// Package dispatch is the per-language router: a tagged match from
// language string to extractor constructor. Each pkg/extract/langs/*
// package registers itself in an init(), so adding a language never
// touches this file — only the blank import in pkg/extract/langs/all.go.
package dispatch

import (
	"sort"
	"sync"

	"github.com/kraklabs/cie-extract/pkg/extract"
)

var (
	mu       sync.RWMutex
	registry = map[string]extract.Constructor{}
)

// Register adds a constructor for language. Called from each
// langs/<lang> package's init(). Panics on duplicate registration —
// a programmer error, not a runtime condition.
func Register(language string, ctor extract.Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[language]; exists {
		panic("dispatch: duplicate registration for language " + language)
	}
	registry[language] = ctor
}

// New builds an Extractor for language, or reports ok=false if no
// extractor is registered for it (spec.md's LanguageUnknown case).
func New(language, filePath, workspaceRoot string, content []byte) (extract.Extractor, bool) {
	mu.RLock()
	ctor, ok := registry[language]
	mu.RUnlock()
	if !ok {
		return nil, false
	}
	return ctor(language, filePath, workspaceRoot, content), true
}

// Registered reports whether language has a registered extractor.
func Registered(language string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[language]
	return ok
}

// Languages returns every registered language tag, sorted.
func Languages() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for lang := range registry {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
