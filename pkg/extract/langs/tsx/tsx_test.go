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

package tsx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
)

func TestRegistered_DelegatesToJsfamily(t *testing.T) {
	assert.True(t, dispatch.Registered("tsx"))

	extractor, ok := dispatch.New("tsx", "a.tsx", "/repo", []byte("const a = 1;"))
	assert.True(t, ok)
	assert.NotNil(t, extractor)
}
