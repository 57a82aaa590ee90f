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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/cie-extract/internal/config"
	"github.com/kraklabs/cie-extract/internal/errors"
	"github.com/kraklabs/cie-extract/internal/ui"
	"github.com/kraklabs/cie-extract/pkg/extract"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs"
	"github.com/kraklabs/cie-extract/pkg/pipeline"
	"github.com/kraklabs/cie-extract/pkg/store"
)

// runExtract executes the 'extract' CLI command: discover files under
// a path, run them through the extraction pool, and report (and
// optionally persist) the results.
//
// Flags:
//   - --workers: override the configured worker count
//   - --store: path to a SQLite database to write results into
//   - --timeout: per-file timeout in seconds (0 keeps the configured value)
//   - --exclude: additional glob pattern to skip, repeatable
//   - --metrics-addr: HTTP address for Prometheus metrics
//   - --debug: enable gorm/store debug logging
func runExtract(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	workers := fs.Int("workers", 0, "Number of concurrent files processed (0: use config default)")
	storePath := fs.String("store", "", "SQLite database path to persist results into (empty: report only)")
	timeoutSeconds := fs.Int("timeout", 0, "Per-file timeout in seconds (0: use config default)")
	var excludeFlags []string
	fs.StringArrayVar(&excludeFlags, "exclude", nil, "Additional glob pattern to exclude (repeatable)")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	debug := fs.Bool("debug", false, "Enable verbose store logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cie-extract extract <path> [options]

Description:
  Extract symbols, relationships, and identifiers from every source
  file under <path> (or from <path> itself, if it names a single
  file). Language is detected per file; files with no registered
  extractor are read but produce no extraction results.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: extract requires a path argument")
		fs.Usage()
		os.Exit(1)
	}
	target, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot resolve target path",
			err.Error(),
			"Check that the path exists and is accessible",
			err,
		), globals.JSON)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if *workers > 0 {
		cfg.Extract.Workers = *workers
	}
	if *timeoutSeconds > 0 {
		cfg.Extract.PerFileTimeoutSeconds = *timeoutSeconds
	}
	cfg.Extract.Exclude = append(cfg.Extract.Exclude, excludeFlags...)

	if *metricsAddr != "" {
		extract.MetricsEnabled = true
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			logInfo(globals, "metrics.http.start addr=%s path=/metrics", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logInfo(globals, "metrics.http.error %v", err)
			}
		}()
	}

	info, err := os.Stat(target)
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot access target path",
			err.Error(),
			"Check that the path exists and you have permission to read it",
			err,
		), globals.JSON)
	}

	workspaceRoot := target
	var filePaths []string
	if info.IsDir() {
		filePaths, err = extract.DiscoverFiles(target, cfg.Extract.Exclude, cfg.Extract.MaxFileSizeBytes)
		if err != nil {
			errors.FatalError(errors.NewInternalError(
				"Directory walk failed",
				err.Error(),
				"This is a bug — please report it",
				err,
			), globals.JSON)
		}
	} else {
		workspaceRoot = filepath.Dir(target)
		filePaths = []string{target}
	}

	if !globals.Quiet {
		ui.Header("Extracting")
		fmt.Printf("%s %s\n", ui.Label("Path:"), target)
		fmt.Printf("%s %s\n", ui.Label("Files:"), ui.CountText(len(filePaths)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progressCfg := ui.NewProgressConfig(globals.NoColor, globals.Quiet)
	var bar = ui.NewProgressBar(progressCfg, int64(len(filePaths)), "extracting")

	pool := pipeline.NewPool(pipeline.PoolConfig{
		Workers:        cfg.Extract.Workers,
		PerFileTimeout: time.Duration(cfg.Extract.PerFileTimeoutSeconds) * time.Second,
		WorkspaceRoot:  workspaceRoot,
		Logger:         slog.Default(),
		OnProgress: func(current, total int64) {
			_ = bar.Set64(current)
		},
	})

	start := time.Now()
	results := pool.Run(ctx, filePaths)
	_ = bar.Finish()
	elapsed := time.Since(start)

	sort.Slice(results, func(i, j int) bool { return results[i].FilePath < results[j].FilePath })

	if *storePath != "" {
		st, err := store.Open(*storePath, *debug)
		if err != nil {
			errors.FatalError(errors.NewDatabaseError(
				"Cannot open store",
				err.Error(),
				"Check the --store path is writable",
				err,
			), globals.JSON)
		}
		defer func() { _ = st.Close() }()
		if err := st.SaveBatch(results); err != nil {
			errors.FatalError(errors.NewDatabaseError(
				"Cannot save extraction results",
				err.Error(),
				"Check disk space and file permissions",
				err,
			), globals.JSON)
		}
	}

	report(results, elapsed, globals)
}

type summary struct {
	FilesProcessed int    `json:"files_processed"`
	FilesFailed    int    `json:"files_failed"`
	Symbols        int    `json:"symbols"`
	Relationships  int    `json:"relationships"`
	Identifiers    int    `json:"identifiers"`
	Duration       string `json:"duration"`
}

func report(results []extract.BatchFileResult, elapsed time.Duration, globals GlobalFlags) {
	sum := summary{Duration: elapsed.String()}
	for _, r := range results {
		if r.IsSuccess() {
			sum.FilesProcessed++
		} else {
			sum.FilesFailed++
		}
		if r.Results == nil {
			continue
		}
		sum.Symbols += len(r.Results.Symbols)
		sum.Relationships += len(r.Results.Relationships)
		sum.Identifiers += len(r.Results.Identifiers)
	}

	if globals.JSON {
		data, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			errors.FatalError(errors.NewInternalError("Cannot encode summary", err.Error(), "This is a bug", err), false)
		}
		fmt.Println(string(data))
		return
	}

	ui.Header("Extraction Complete")
	fmt.Printf("Files Processed: %s\n", ui.CountText(sum.FilesProcessed))
	if sum.FilesFailed > 0 {
		fmt.Print(ui.Yellow.Sprintf("Files Failed: %d\n", sum.FilesFailed))
	}
	fmt.Printf("Symbols: %s\n", ui.CountText(sum.Symbols))
	fmt.Printf("Relationships: %s\n", ui.CountText(sum.Relationships))
	fmt.Printf("Identifiers: %s\n", ui.CountText(sum.Identifiers))
	fmt.Printf("Duration: %s\n", ui.DimText(sum.Duration))
}
