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

package ui

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressConfig controls how NewProgressBar renders, separated from
// the bar itself so a long-running extraction can swap bars between
// phases (parsing, extracting, writing) without re-deriving its
// terminal settings each time.
type ProgressConfig struct {
	NoColor bool
	Quiet   bool
}

// NewProgressConfig derives a ProgressConfig from the CLI's global
// flags, so --no-color and --quiet apply to the bar the same way they
// apply to every other printer in this package.
func NewProgressConfig(noColor, quiet bool) ProgressConfig {
	return ProgressConfig{NoColor: noColor, Quiet: quiet}
}

// NewProgressBar builds a determinate progress bar over total units,
// labeled with description. A quiet config returns a bar writing to
// io.Discard so callers can drive it unconditionally without branching
// on verbosity at every call site.
func NewProgressBar(cfg ProgressConfig, total int64, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100 * time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = os.Stdout.WriteString("\n") }),
	}
	if cfg.NoColor {
		opts = append(opts, progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	}
	if cfg.Quiet {
		opts = append(opts, progressbar.OptionSetWriter(discardWriter{}))
	}
	return progressbar.NewOptions64(total, opts...)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
