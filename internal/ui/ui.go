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

// Package ui formats the extractor CLI's terminal output: section
// headers, labels, dimmed text, and the handful of color printers the
// command tree calls directly. Color is auto-detected from the output
// file descriptor and can be forced off with Disable, mirroring how
// the rest of the CLI gates color behind a --no-color flag.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Green, Yellow, Dim and Red are the color printers used across the
// command tree for success, warning, de-emphasized and error output
// respectively. Each behaves like a *color.Color: Println/Printf write
// to stdout in the given color, or in plain text once Disable has been
// called.
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Dim    = color.New(color.FgHiBlack)
	Red    = color.New(color.FgRed)
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		Disable()
	}
}

// InitColors applies the CLI's --no-color flag (and NO_COLOR env var,
// already folded into it by the caller) on top of the terminal
// auto-detection done at package init.
func InitColors(noColor bool) {
	if noColor {
		Disable()
	}
}

// Disable turns off color for every printer in this package, for
// --no-color or for output known to be piped to a non-terminal.
func Disable() {
	color.NoColor = true
}

// Enable forces color on regardless of the output file descriptor,
// for callers that have already confirmed a terminal themselves.
func Enable() {
	color.NoColor = false
}

// Header prints a bold section title followed by an underline rule.
func Header(title string) {
	bold := color.New(color.Bold)
	_, _ = bold.Println(title)
	fmt.Println(dashes(len(title)))
}

// SubHeader prints a smaller, bold-only section title with no rule.
func SubHeader(title string) {
	bold := color.New(color.Bold)
	_, _ = bold.Println(title)
}

// Label renders a dimmed field label, e.g. for "Label: value" lines.
func Label(text string) string {
	return Dim.Sprint(text)
}

// CountText renders an integer count in bold, the weight the command
// tree uses for file/symbol/edge counts in summary output.
func CountText(n int) string {
	return color.New(color.Bold).Sprintf("%d", n)
}

// DimText renders arbitrary text dimmed, for secondary detail that
// shouldn't compete with the primary summary line.
func DimText(text string) string {
	return Dim.Sprint(text)
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
