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

package lua

import (
	"regexp"

	"github.com/kraklabs/cie-extract/pkg/extract"
)

// Lua has no first-class class syntax; these regexes recognize the
// three idioms the ecosystem converged on for simulating one:
//
//   - setmetatable(X, {__index = X}) or setmetatable(X, X)
//   - X.__index = X
//   - X.new(...) paired with a later X:method(...) definition
var (
	reSetmetatable = regexp.MustCompile(`setmetatable\s*\(\s*(\w+)\s*,`)
	reSelfIndex    = regexp.MustCompile(`(\w+)\.__index\s*=\s*(\w+)`)
	reNewCtor      = regexp.MustCompile(`(?m)^\s*function\s+(\w+)[.:]new\s*\(`)
	reColonMethod  = regexp.MustCompile(`(?m)^\s*function\s+(\w+):\w+\s*\(`)
)

// recoverClassPatterns promotes a Variable symbol to Class in place
// when its name matches one of the recognized OO idioms anywhere in
// the file, recording which idiom triggered the promotion.
func recoverClassPatterns(content []byte, symbols []extract.Symbol) {
	src := string(content)
	candidates := map[string]string{}

	for _, m := range reSetmetatable.FindAllStringSubmatch(src, -1) {
		candidates[m[1]] = "setmetatable"
	}
	for _, m := range reSelfIndex.FindAllStringSubmatch(src, -1) {
		if m[1] == m[2] {
			candidates[m[1]] = "self_index"
		}
	}
	ctors := map[string]bool{}
	for _, m := range reNewCtor.FindAllStringSubmatch(src, -1) {
		ctors[m[1]] = true
	}
	methods := map[string]bool{}
	for _, m := range reColonMethod.FindAllStringSubmatch(src, -1) {
		methods[m[1]] = true
	}
	for name := range ctors {
		if methods[name] {
			if _, ok := candidates[name]; !ok {
				candidates[name] = "new_plus_method"
			}
		}
	}

	for i := range symbols {
		s := &symbols[i]
		if s.Kind != extract.KindVariable {
			continue
		}
		if idiom, ok := candidates[s.Name]; ok {
			s.Kind = extract.KindClass
			if s.Metadata == nil {
				s.Metadata = extract.Metadata{}
			}
			s.Metadata["recovered_class"] = true
			s.Metadata["recovery_idiom"] = idiom
		}
	}
}
