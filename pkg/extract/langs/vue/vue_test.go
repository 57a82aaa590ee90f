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

package vue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

func TestRegistered(t *testing.T) {
	assert.True(t, dispatch.Registered("vue"))
}

func TestExtractSymbolsFallback_SplitsSectionsAndExtractsEach(t *testing.T) {
	content := []byte(`<template>
  <MyButton @click="onClick">Go</MyButton>
</template>

<script>
export default class Widget {
}
function onClick() {}
</script>

<style>
.widget {
  color: red;
}
</style>
`)

	e := New("vue", "Widget.vue", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbolsFallback(content)

	var scriptNames, templateNames, styleNames []string
	for _, s := range symbols {
		switch s.Metadata["section"] {
		case "script":
			scriptNames = append(scriptNames, s.Name)
		case "template":
			templateNames = append(templateNames, s.Name)
		case "style":
			styleNames = append(styleNames, s.Name)
		}
	}

	assert.Contains(t, scriptNames, "Widget")
	assert.Contains(t, scriptNames, "onClick")

	assert.Contains(t, templateNames, "MyButton")
	assert.Contains(t, templateNames, "@click")

	assert.Contains(t, styleNames, ".widget")
}

func TestExtractSymbols_DelegatesToFallback(t *testing.T) {
	content := []byte(`<script>
const x = 1;
</script>
`)

	e := New("vue", "a.vue", "/repo", content).(*Extractor)
	assert.Equal(t, e.ExtractSymbolsFallback(content), e.ExtractSymbols(nil))
}

func TestExtractSymbolsFallback_ScriptAndStyleDelegateToRealExtractors(t *testing.T) {
	content := []byte(`<template>
</template>

<script>
class Widget {
  report() {}
}
</script>

<style>
.widget {
  color: red;
}
</style>
`)

	e := New("vue", "Widget.vue", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbolsFallback(content)

	byName := map[string]extract.Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "Widget", "script section must be parsed by the real javascript extractor")
	widget := byName["Widget"]
	assert.Equal(t, extract.KindClass, widget.Kind)
	assert.Equal(t, 1.0, widget.Confidence, "a real tree-sitter parse carries full confidence, unlike the regex fallback's 0.7")
	assert.Equal(t, "script", widget.Metadata["section"])

	require.Contains(t, byName, "report")
	report := byName["report"]
	assert.Equal(t, widget.ID, report.ParentID, "delegated extractor must still parent the method under its class")
	assert.True(t, report.StartLine > widget.StartLine, "delegated symbol lines must be offset against the SFC file, not the section body")

	require.Contains(t, byName, ".widget", "style section must be parsed by the real css extractor")
	rule := byName[".widget"]
	assert.Equal(t, 1.0, rule.Confidence)
	assert.Equal(t, "vue", rule.Language, "delegated symbols are relabeled under the SFC's own language tag")
}

func TestExtractSymbolsFallback_ScriptFallsBackToRegexWhenLangDoesNotParse(t *testing.T) {
	content := []byte(`<script lang="ts">
function broken(: {
</script>
`)

	e := New("vue", "Broken.vue", "/repo", content).(*Extractor)
	symbols := e.ExtractSymbolsFallback(content)

	var sawRegexScript bool
	for _, s := range symbols {
		if s.Metadata["section"] == "script" && s.Confidence == 0.7 {
			sawRegexScript = true
		}
	}
	assert.True(t, sawRegexScript, "an unparseable script body must still fall back to the regex scan")
}

func TestExtractRelationshipsAndIdentifiers_AreNoops(t *testing.T) {
	e := New("vue", "a.vue", "/repo", nil).(*Extractor)
	assert.Nil(t, e.ExtractRelationships(nil, nil))
	assert.Nil(t, e.ExtractIdentifiers(nil, nil))
}
