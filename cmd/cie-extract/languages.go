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
	"encoding/json"
	"fmt"
	"os"

	"github.com/kraklabs/cie-extract/internal/ui"
	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs"
)

// runLanguages lists every registered language tag, and whether it has
// a bundled tree-sitter grammar or runs on regex fallback alone.
func runLanguages(args []string, globals GlobalFlags) {
	langs := dispatch.Languages()

	if globals.JSON {
		type entry struct {
			Language   string `json:"language"`
			HasGrammar bool   `json:"has_grammar"`
		}
		out := make([]entry, 0, len(langs))
		for _, lang := range langs {
			out = append(out, entry{Language: lang, HasGrammar: extract.HasGrammar(lang)})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	ui.Header("Registered Languages")
	for _, lang := range langs {
		if extract.HasGrammar(lang) {
			fmt.Printf("  %s\n", lang)
		} else {
			fmt.Printf("  %s %s\n", lang, ui.DimText("(regex fallback only)"))
		}
	}
}
