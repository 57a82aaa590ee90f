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
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
)

// SafeWalkChildren invokes walk for every direct child of node, recovering
// from a panic raised while walking any one child so the remaining
// siblings (and the rest of the file) still get extracted. This is the
// subtree boundary spec.md's ExtractionPanic error kind is recovered at.
func SafeWalkChildren(node *sitter.Node, logger *slog.Logger, filePath string, walk func(child *sitter.Node)) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		safeWalkOne(child, logger, filePath, walk)
	}
}

func safeWalkOne(child *sitter.Node, logger *slog.Logger, filePath string, walk func(child *sitter.Node)) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Warn("extract.subtree.panic",
					"path", filePath,
					"recovered", r,
				)
			}
		}
	}()
	walk(child)
}
