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
	"crypto/sha256"
	"encoding/hex"
)

// BatchFileResult is the self-describing outcome of processing one
// file end-to-end: read → hash → detect language → parse → extract.
// Exactly one of (Content present, Error set) holds: on success,
// Content/ContentHash/Language/Size are populated and Error is empty;
// on failure, Content is nil, Language is UnknownLanguage, ContentHash
// and Size are zero-valued, and Error carries the failure message.
// Results is absent (nil) for plain-text files by design — languages
// with no registered extractor still succeed as a read, just without
// extraction.
type BatchFileResult struct {
	FilePath    string
	Content     []byte
	ContentHash string
	Language    string
	Size        int
	Results     *ExtractionResults
	Error       string
}

// IsSuccess reports whether the file was read and (if applicable)
// extracted without error.
func (r BatchFileResult) IsSuccess() bool {
	return r.Error == "" && r.Content != nil
}

// HasSymbols reports whether extraction produced a non-empty symbol
// stream.
func (r BatchFileResult) HasSymbols() bool {
	return r.Results.HasSymbols()
}

// HashContent returns the hex-encoded SHA-256 digest of content, the
// BatchFileResult.ContentHash convention (a fixed-width, ≥128-bit
// cryptographic digest per spec).
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// NewFailureResult builds the failure shape of BatchFileResult: no
// content, UnknownLanguage placeholder, zeroed hash/size.
func NewFailureResult(filePath string, err error) BatchFileResult {
	return BatchFileResult{
		FilePath: filePath,
		Language: UnknownLanguage,
		Error:    err.Error(),
	}
}
