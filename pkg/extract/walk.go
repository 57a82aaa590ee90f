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
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverFiles walks root and returns every regular file whose path
// does not match any of excludeGlobs and whose size does not exceed
// maxSize (maxSize <= 0 means unlimited). Paths are returned absolute,
// matching what Pool.Run expects.
func DiscoverFiles(root string, excludeGlobs []string, maxSize int64) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchesAny(rel, excludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(rel, excludeGlobs) {
			return nil
		}
		if maxSize > 0 {
			info, statErr := d.Info()
			if statErr == nil && info.Size() > maxSize {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, filepath.Base(relPath)); err == nil && matched {
				return true
			}
		}
	}
	return false
}
