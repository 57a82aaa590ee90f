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

// Package errors gives the CLI one consistent shape for user-facing
// failures: a short title, a detail line explaining what went wrong,
// a suggestion for how to fix it, and the underlying cause. Every
// command-level failure path constructs one of these instead of
// returning a bare error, so main's top-level handler can render (or
// JSON-encode) a uniform message and pick one exit code per category.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category buckets a UserError for exit-code selection and JSON
// reporting; it does not affect how the message itself is formatted.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryInput      Category = "input"
	CategoryDatabase   Category = "database"
	CategoryNetwork    Category = "network"
	CategoryPermission Category = "permission"
	CategoryInternal   Category = "internal"
)

// exitCodes assigns each category a distinct process exit status so
// scripts invoking the CLI can distinguish failure classes without
// scraping text.
var exitCodes = map[Category]int{
	CategoryConfig:     10,
	CategoryInput:      11,
	CategoryDatabase:   12,
	CategoryNetwork:    13,
	CategoryPermission: 14,
	CategoryInternal:   70,
}

// UserError is a failure with enough context to act on: what broke,
// why, and what to try next. Cause is preserved for %w-style
// unwrapping but is never shown to the user directly — Detail carries
// the human-readable explanation.
type UserError struct {
	Category   Category `json:"category"`
	Title      string   `json:"title"`
	Detail     string   `json:"detail"`
	Suggestion string   `json:"suggestion,omitempty"`
	Cause      error    `json:"-"`
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *UserError) Unwrap() error { return e.Cause }

// Format renders the error for terminal display. asJSON selects a
// single-line JSON object instead of the multi-paragraph plain-text
// form, for callers piping CLI output to another tool.
func (e *UserError) Format(asJSON bool) string {
	if asJSON {
		data, err := json.Marshal(e)
		if err != nil {
			return e.Error()
		}
		return string(data)
	}
	msg := fmt.Sprintf("Error: %s\n  %s", e.Title, e.Detail)
	if e.Suggestion != "" {
		msg += fmt.Sprintf("\n  Try: %s", e.Suggestion)
	}
	return msg
}

func newError(cat Category, title, detail, suggestion string, cause error) *UserError {
	return &UserError{Category: cat, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewConfigError reports a malformed or unreadable configuration file.
func NewConfigError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryConfig, title, detail, suggestion, cause)
}

// NewInputError reports invalid arguments, flags, or target paths.
func NewInputError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryInput, title, detail, suggestion, cause)
}

// NewDatabaseError reports a failure opening, writing, or reading the
// extraction store.
func NewDatabaseError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryDatabase, title, detail, suggestion, cause)
}

// NewNetworkError reports a failure reaching a remote dependency.
func NewNetworkError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryNetwork, title, detail, suggestion, cause)
}

// NewPermissionError reports a filesystem permission failure.
func NewPermissionError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryPermission, title, detail, suggestion, cause)
}

// NewInternalError reports a failure that should not happen given
// valid input and a healthy environment — a bug, not a user mistake.
func NewInternalError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryInternal, title, detail, suggestion, cause)
}

// FatalError prints err (as JSON if asJSON is set) to stderr and exits
// the process with the category's exit code. A plain error not built
// through one of the constructors above is treated as internal.
func FatalError(err error, asJSON bool) {
	ue, ok := err.(*UserError)
	if !ok {
		ue = NewInternalError("Unexpected error", err.Error(), "Please report this issue", err)
	}
	fmt.Fprintln(os.Stderr, ue.Format(asJSON))
	code, ok := exitCodes[ue.Category]
	if !ok {
		code = 1
	}
	os.Exit(code)
}
