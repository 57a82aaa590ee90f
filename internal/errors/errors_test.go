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

package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError_ErrorIncludesCauseWhenPresent(t *testing.T) {
	cause := errors.New("disk full")
	ue := NewDatabaseError("Cannot open store", "failed to open extract.db", "check disk space", cause)

	assert.Contains(t, ue.Error(), "Cannot open store")
	assert.Contains(t, ue.Error(), "failed to open extract.db")
	assert.Contains(t, ue.Error(), "disk full")
	assert.Equal(t, CategoryDatabase, ue.Category)
}

func TestUserError_ErrorOmitsCauseWhenNil(t *testing.T) {
	ue := NewInputError("Bad path", "path does not exist", "", nil)
	assert.Equal(t, "Bad path: path does not exist", ue.Error())
}

func TestUserError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	ue := NewInternalError("Unexpected failure", "detail", "suggestion", cause)
	assert.Same(t, cause, ue.Unwrap())
	assert.True(t, errors.Is(ue, cause))
}

func TestUserError_FormatPlainText(t *testing.T) {
	ue := NewConfigError("Invalid configuration", "bad yaml", "fix the syntax", nil)
	text := ue.Format(false)
	assert.Contains(t, text, "Error: Invalid configuration")
	assert.Contains(t, text, "bad yaml")
	assert.Contains(t, text, "Try: fix the syntax")
}

func TestUserError_FormatPlainTextOmitsSuggestionWhenEmpty(t *testing.T) {
	ue := NewConfigError("Invalid configuration", "bad yaml", "", nil)
	assert.NotContains(t, ue.Format(false), "Try:")
}

func TestUserError_FormatJSON(t *testing.T) {
	ue := NewPermissionError("Cannot write file", "no write access", "chmod the directory", nil)
	data := ue.Format(true)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &decoded))
	assert.Equal(t, "permission", decoded["category"])
	assert.Equal(t, "Cannot write file", decoded["title"])
	assert.Equal(t, "no write access", decoded["detail"])
	assert.Equal(t, "chmod the directory", decoded["suggestion"])
	assert.NotContains(t, decoded, "cause", "Cause is never serialized to the user-facing JSON shape")
}

func TestConstructors_AssignExpectedCategory(t *testing.T) {
	tests := []struct {
		name string
		err  *UserError
		want Category
	}{
		{"config", NewConfigError("t", "d", "s", nil), CategoryConfig},
		{"input", NewInputError("t", "d", "s", nil), CategoryInput},
		{"database", NewDatabaseError("t", "d", "s", nil), CategoryDatabase},
		{"network", NewNetworkError("t", "d", "s", nil), CategoryNetwork},
		{"permission", NewPermissionError("t", "d", "s", nil), CategoryPermission},
		{"internal", NewInternalError("t", "d", "s", nil), CategoryInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Category)
		})
	}
}

func TestExitCodes_AreDistinctPerCategory(t *testing.T) {
	seen := map[int]Category{}
	for cat, code := range exitCodes {
		if other, dup := seen[code]; dup {
			t.Fatalf("exit code %d assigned to both %s and %s", code, other, cat)
		}
		seen[code] = cat
	}
}
