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

// Package langs registers every per-language extractor with
// pkg/dispatch via blank import. Importing this package once (from
// cmd/cie-extract, or a test) is enough to make every supported
// language tag resolvable through dispatch.New.
package langs

import (
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/bash"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/c"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/cpp"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/csharp"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/css"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/dart"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/gdscript"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/golang"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/html"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/java"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/javascript"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/jsonlang"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/kotlin"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/lua"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/markdown"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/php"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/powershell"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/python"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/qml"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/r"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/razor"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/regexlang"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/ruby"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/rust"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/swift"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/toml"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/tsx"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/typescript"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/vue"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/yaml"
	_ "github.com/kraklabs/cie-extract/pkg/extract/langs/zig"
)
