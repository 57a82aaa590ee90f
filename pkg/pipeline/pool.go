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

// Package pipeline wires pkg/extract's per-file extraction contract to
// pkg/dispatch's language router and drives it across many files
// concurrently. It is kept separate from pkg/extract itself so that
// package can stay free of a dependency on pkg/dispatch, which in turn
// depends on pkg/extract for the Extractor/Constructor types — folding
// Pool into pkg/extract would close that into an import cycle.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kraklabs/cie-extract/pkg/dispatch"
	"github.com/kraklabs/cie-extract/pkg/extract"
)

// ProgressCallback reports pool progress: current is the 1-based count
// of files finished so far (success or failure), total is the batch size.
type ProgressCallback func(current, total int64)

// PoolConfig configures Pool.Run.
type PoolConfig struct {
	// Workers is the number of concurrent files processed. A count of
	// fewer than 10 files always runs sequentially regardless of
	// Workers, mirroring the ingestion pipeline's small-batch carve-out.
	Workers int

	// PerFileTimeout bounds one file's parse+extract wall-clock time.
	// Zero disables the timeout.
	PerFileTimeout time.Duration

	// WorkspaceRoot is passed through to each Constructor so extractors
	// can report workspace-relative paths.
	WorkspaceRoot string

	Logger     *slog.Logger
	OnProgress ProgressCallback
}

// Pool runs the extraction pipeline (read → hash → detect → parse →
// extract → package) across many files. Workers are independent; no
// mutable state is shared across files. Output ordering across files
// is not guaranteed — callers that need a stable order must sort the
// returned slice themselves (by FilePath).
type Pool struct {
	cfg PoolConfig
}

// NewPool constructs a Pool with the given configuration, defaulting
// Workers to 4 when unset.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pool{cfg: cfg}
}

// Run processes every path in filePaths and returns one BatchFileResult
// per input, in arbitrary order. Cancellation is cooperative at file
// boundaries: ctx is checked before each file is picked up, and a
// stuck parse on one file cannot block the others once its own
// PerFileTimeout elapses.
func (p *Pool) Run(ctx context.Context, filePaths []string) []extract.BatchFileResult {
	if len(filePaths) == 0 {
		return nil
	}
	if len(filePaths) < 10 || p.cfg.Workers <= 1 {
		return p.runSequential(ctx, filePaths)
	}
	return p.runParallel(ctx, filePaths)
}

func (p *Pool) runSequential(ctx context.Context, filePaths []string) []extract.BatchFileResult {
	results := make([]extract.BatchFileResult, 0, len(filePaths))
	total := int64(len(filePaths))
	for i, path := range filePaths {
		select {
		case <-ctx.Done():
			return results
		default:
		}
		results = append(results, p.processOne(ctx, path))
		p.reportProgress(int64(i+1), total)
	}
	return results
}

func (p *Pool) runParallel(ctx context.Context, filePaths []string) []extract.BatchFileResult {
	jobs := make(chan string, len(filePaths))
	for _, path := range filePaths {
		jobs <- path
	}
	close(jobs)

	resultsChan := make(chan extract.BatchFileResult, len(filePaths))
	var progressCount int64
	total := int64(len(filePaths))

	var wg sync.WaitGroup
	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				resultsChan <- p.processOne(ctx, path)
				current := atomic.AddInt64(&progressCount, 1)
				p.reportProgress(current, total)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]extract.BatchFileResult, 0, len(filePaths))
	for r := range resultsChan {
		results = append(results, r)
	}
	return results
}

func (p *Pool) reportProgress(current, total int64) {
	if p.cfg.OnProgress != nil {
		p.cfg.OnProgress(current, total)
	}
}

// processOne runs the full single-file pipeline, recovering from a
// panic anywhere in parse/extract so one bad file cannot take down the
// pool; a recovered panic is reported as a failure BatchFileResult.
func (p *Pool) processOne(ctx context.Context, path string) (result extract.BatchFileResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.cfg.Logger.Warn("extract.pool.file.panic", "path", path, "recovered", r)
			result = extract.NewFailureResult(path, errPanic(r))
		}
		if extract.MetricsEnabled {
			extract.ObserveResult(result, time.Since(start))
		}
	}()

	fileCtx := ctx
	var cancel context.CancelFunc
	if p.cfg.PerFileTimeout > 0 {
		fileCtx, cancel = context.WithTimeout(ctx, p.cfg.PerFileTimeout)
		defer cancel()
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return extract.NewFailureResult(path, err)
	}

	relPath := extract.NormalizeFilePath(p.cfg.WorkspaceRoot, path)
	language := extract.DetectLanguage(relPath)
	hash := extract.HashContent(content)

	result = extract.BatchFileResult{
		FilePath:    relPath,
		Content:     content,
		ContentHash: hash,
		Language:    language,
		Size:        len(content),
	}

	extractor, registered := dispatch.New(language, relPath, p.cfg.WorkspaceRoot, content)
	if !registered {
		return result
	}

	results, extractErr := p.runExtraction(fileCtx, language, content, extractor)
	if extractErr != nil {
		p.cfg.Logger.Warn("extract.pool.file.error", "path", relPath, "language", language, "err", extractErr)
		result.Error = extractErr.Error()
		return result
	}
	result.Results = results
	return result
}

func (p *Pool) runExtraction(ctx context.Context, language string, content []byte, extractor extract.Extractor) (*extract.ExtractionResults, error) {
	tree, release, err := extract.Parse(ctx, language, content)
	if err != nil {
		if fb, ok := extractor.(extract.FallbackExtractor); ok {
			symbols := fb.ExtractSymbolsFallback(content)
			return &extract.ExtractionResults{Symbols: symbols}, nil
		}
		return nil, err
	}
	defer release()

	if extract.MostlyErrors(tree.RootNode()) {
		if fb, ok := extractor.(extract.FallbackExtractor); ok {
			symbols := fb.ExtractSymbolsFallback(content)
			return &extract.ExtractionResults{Symbols: symbols}, nil
		}
	}

	symbols := extractor.ExtractSymbols(tree)
	relationships := extractor.ExtractRelationships(tree, symbols)
	identifiers := extractor.ExtractIdentifiers(tree, symbols)
	return &extract.ExtractionResults{
		Symbols:       symbols,
		Relationships: relationships,
		Identifiers:   identifiers,
	}, nil
}

type poolError string

func (e poolError) Error() string { return string(e) }

func errPanic(r any) error {
	return poolError("extraction panic: " + formatRecovered(r))
}

func formatRecovered(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return s
	}
	return "unknown panic value"
}
