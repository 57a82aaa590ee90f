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

// Package store persists extraction output to a local SQLite database
// via gorm, so a batch run's symbols, relationships, and identifiers
// can be queried after the process exits instead of only existing as
// in-memory BatchFileResult values.
package store

import "time"

// File is one extracted source file.
type File struct {
	ID          string `gorm:"primaryKey;type:varchar(32)"`
	Path        string `gorm:"type:text;uniqueIndex;not null"`
	Language    string `gorm:"type:varchar(50);index"`
	ContentHash string `gorm:"type:varchar(64)"`
	Size        int
	Error       string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Symbols       []Symbol       `gorm:"foreignKey:FileID"`
	Relationships []Relationship `gorm:"foreignKey:FileID"`
	Identifiers   []Identifier   `gorm:"foreignKey:FileID"`
}

// Symbol is one extracted Symbol row.
type Symbol struct {
	ID          string `gorm:"primaryKey;type:varchar(32)"`
	FileID      string `gorm:"type:varchar(32);index;not null"`
	Name        string `gorm:"type:text;index"`
	Kind        string `gorm:"type:varchar(32);index"`
	Language    string `gorm:"type:varchar(50)"`
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	Signature   string `gorm:"type:text"`
	DocComment  string `gorm:"type:text"`
	Visibility  string `gorm:"type:varchar(16)"`
	ParentID    string `gorm:"type:varchar(32);index"`
	Metadata    string `gorm:"type:text"` // JSON-encoded extract.Metadata
	Confidence  float64
}

// Relationship is one extracted Relationship row.
type Relationship struct {
	ID         string `gorm:"primaryKey;type:varchar(128)"`
	FileID     string `gorm:"type:varchar(32);index;not null"`
	FromID     string `gorm:"type:varchar(32);index"`
	ToID       string `gorm:"type:varchar(32);index"`
	Kind       string `gorm:"type:varchar(32);index"`
	Line       int
	Confidence float64
	Metadata   string `gorm:"type:text"`
}

// Identifier is one extracted Identifier row.
type Identifier struct {
	ID           string `gorm:"primaryKey;type:varchar(64)"`
	FileID       string `gorm:"type:varchar(32);index;not null"`
	Name         string `gorm:"type:text;index"`
	Kind         string `gorm:"type:varchar(32);index"`
	Line         int
	Column       int
	ContainingID string `gorm:"type:varchar(32);index"`
}
