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

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie-extract/pkg/extract"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extract.db")
	st, err := Open(path, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "extract.db")
	st, err := Open(path, false)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
}

func TestSaveBatch_PersistsSymbolsRelationshipsIdentifiers(t *testing.T) {
	st := openTestStore(t)

	results := []extract.BatchFileResult{
		{
			FilePath:    "a.go",
			Content:     []byte("package a"),
			ContentHash: extract.HashContent([]byte("package a")),
			Language:    "go",
			Size:        9,
			Results: &extract.ExtractionResults{
				Symbols: []extract.Symbol{
					{ID: "sym:a1", Name: "A", Kind: extract.KindFunction, Language: "go", Metadata: extract.Metadata{"k": "v"}},
				},
				Relationships: []extract.Relationship{
					{ID: "sym:a1_sym:a1_Calls_1", FromSymbolID: "sym:a1", ToSymbolID: "sym:a1", Kind: extract.RelCalls, LineNumber: 1, Confidence: 1},
				},
				Identifiers: []extract.Identifier{
					{Name: "A", Kind: extract.IdentCall, Line: 1, Column: 1, ContainingSymbolID: "sym:a1"},
				},
			},
		},
	}

	require.NoError(t, st.SaveBatch(results))

	var files []File
	require.NoError(t, st.db.Find(&files).Error)
	require.Len(t, files, 1)
	assert.Equal(t, "a.go", files[0].Path)

	var symbols []Symbol
	require.NoError(t, st.db.Where("file_id = ?", files[0].ID).Find(&symbols).Error)
	require.Len(t, symbols, 1)
	assert.Equal(t, "A", symbols[0].Name)
	assert.Equal(t, "{\"k\":\"v\"}", symbols[0].Metadata)

	var rels []Relationship
	require.NoError(t, st.db.Where("file_id = ?", files[0].ID).Find(&rels).Error)
	require.Len(t, rels, 1)

	var idents []Identifier
	require.NoError(t, st.db.Where("file_id = ?", files[0].ID).Find(&idents).Error)
	require.Len(t, idents, 1)
	assert.Equal(t, "A", idents[0].Name)
}

func TestSaveBatch_ReplacesPriorRowsForSameFile(t *testing.T) {
	st := openTestStore(t)

	first := []extract.BatchFileResult{{
		FilePath: "a.go",
		Content:  []byte("package a"),
		Language: "go",
		Results: &extract.ExtractionResults{
			Symbols: []extract.Symbol{{ID: "sym:a1", Name: "Old"}},
		},
	}}
	require.NoError(t, st.SaveBatch(first))

	second := []extract.BatchFileResult{{
		FilePath: "a.go",
		Content:  []byte("package a"),
		Language: "go",
		Results: &extract.ExtractionResults{
			Symbols: []extract.Symbol{{ID: "sym:a2", Name: "New"}},
		},
	}}
	require.NoError(t, st.SaveBatch(second))

	fileID := extract.HashContent([]byte("a.go"))[:32]
	var symbols []Symbol
	require.NoError(t, st.db.Where("file_id = ?", fileID).Find(&symbols).Error)
	require.Len(t, symbols, 1, "re-running extraction over the same file must replace, not accumulate")
	assert.Equal(t, "New", symbols[0].Name)

	var files []File
	require.NoError(t, st.db.Where("id = ?", fileID).Find(&files).Error)
	require.Len(t, files, 1, "the File row itself must not be duplicated on re-save")
}

func TestSaveBatch_NilResultsSkipsChildRows(t *testing.T) {
	st := openTestStore(t)

	results := []extract.BatchFileResult{{
		FilePath: "notes.txt",
		Content:  []byte("hello"),
		Language: extract.UnknownLanguage,
	}}
	require.NoError(t, st.SaveBatch(results))

	fileID := extract.HashContent([]byte("notes.txt"))[:32]
	var files []File
	require.NoError(t, st.db.Where("id = ?", fileID).Find(&files).Error)
	require.Len(t, files, 1)

	var symbols []Symbol
	require.NoError(t, st.db.Where("file_id = ?", fileID).Find(&symbols).Error)
	assert.Empty(t, symbols)
}
