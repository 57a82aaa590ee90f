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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kraklabs/cie-extract/pkg/extract"
)

// Store persists BatchFileResult values to a local SQLite database.
type Store struct {
	db *gorm.DB
}

// Open connects to (creating if necessary) the SQLite file at path and
// runs migrations. debug enables gorm's query logging.
func Open(path string, debug bool) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.AutoMigrate(&File{}, &Symbol{}, &Relationship{}, &Identifier{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveBatch persists one Pool.Run output, replacing any prior rows for
// the same file paths so re-running extraction over a file overwrites
// its previous symbols rather than duplicating them.
func (s *Store) SaveBatch(results []extract.BatchFileResult) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			if err := saveOne(tx, r); err != nil {
				return fmt.Errorf("save %s: %w", r.FilePath, err)
			}
		}
		return nil
	})
}

func saveOne(tx *gorm.DB, r extract.BatchFileResult) error {
	fileID := extract.HashContent([]byte(r.FilePath))[:32]

	if err := tx.Where("file_id = ?", fileID).Delete(&Symbol{}).Error; err != nil {
		return err
	}
	if err := tx.Where("file_id = ?", fileID).Delete(&Relationship{}).Error; err != nil {
		return err
	}
	if err := tx.Where("file_id = ?", fileID).Delete(&Identifier{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id = ?", fileID).Delete(&File{}).Error; err != nil {
		return err
	}

	row := File{
		ID:          fileID,
		Path:        r.FilePath,
		Language:    r.Language,
		ContentHash: r.ContentHash,
		Size:        r.Size,
		Error:       r.Error,
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}

	if r.Results == nil {
		return nil
	}

	for _, sym := range r.Results.Symbols {
		meta, _ := json.Marshal(sym.Metadata)
		if err := tx.Create(&Symbol{
			ID:          sym.ID,
			FileID:      fileID,
			Name:        sym.Name,
			Kind:        string(sym.Kind),
			Language:    sym.Language,
			StartLine:   sym.StartLine,
			StartColumn: sym.StartColumn,
			EndLine:     sym.EndLine,
			EndColumn:   sym.EndColumn,
			Signature:   sym.Signature,
			DocComment:  sym.DocComment,
			Visibility:  string(sym.Visibility),
			ParentID:    sym.ParentID,
			Metadata:    string(meta),
			Confidence:  sym.Confidence,
		}).Error; err != nil {
			return err
		}
	}

	for _, rel := range r.Results.Relationships {
		meta, _ := json.Marshal(rel.Metadata)
		if err := tx.Create(&Relationship{
			ID:         rel.ID,
			FileID:     fileID,
			FromID:     rel.FromSymbolID,
			ToID:       rel.ToSymbolID,
			Kind:       string(rel.Kind),
			Line:       rel.LineNumber,
			Confidence: rel.Confidence,
			Metadata:   string(meta),
		}).Error; err != nil {
			return err
		}
	}

	for i, id := range r.Results.Identifiers {
		idRowID := fmt.Sprintf("%s:ident:%d", fileID, i)
		if err := tx.Create(&Identifier{
			ID:           idRowID,
			FileID:       fileID,
			Name:         id.Name,
			Kind:         string(id.Kind),
			Line:         id.Line,
			Column:       id.Column,
			ContainingID: id.ContainingSymbolID,
		}).Error; err != nil {
			return err
		}
	}

	return nil
}
