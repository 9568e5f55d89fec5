// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package table

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	apperrors "promptsets/internal/errors"
)

// Delimiters maps supported file extensions to their field delimiter.
var Delimiters = map[string]rune{
	".csv": ',',
	".tsv": '\t',
}

// DelimiterFor returns the delimiter for path's extension.
func DelimiterFor(path string) (rune, error) {
	ext := strings.ToLower(filepath.Ext(path))
	delim, ok := Delimiters[ext]
	if !ok {
		return 0, apperrors.Newf(apperrors.CodeUnsupportedFormat,
			"unsupported file type %q for %s: provide a .csv file", ext, path)
	}
	return delim, nil
}

// Parse reads a delimited stream whose first record is the header row.
// Cells are trimmed and appended to their column by position. Short rows
// leave trailing columns without a value for that row; cells past the last
// header are dropped.
func Parse(r io.Reader, path string, delim rune, logger zerolog.Logger) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headerRow, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.Newf(apperrors.CodeUnsupportedFormat, "%s has no header row", path)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnsupportedFormat, "failed to parse header of "+path, err)
	}

	headers := make([]string, len(headerRow))
	columns := make(map[string][]string, len(headerRow))
	for i, raw := range headerRow {
		if i == 0 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		name := strings.TrimSpace(raw)
		if _, dup := columns[name]; dup {
			return nil, apperrors.Newf(apperrors.CodeUnsupportedFormat, "%s: duplicate header %q", path, name)
		}
		headers[i] = name
		columns[name] = []string{}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeUnsupportedFormat, "failed to parse "+path, err)
		}
		if len(record) > len(headers) {
			line, _ := reader.FieldPos(0)
			logger.Warn().
				Str("path", path).
				Int("line", line).
				Int("extra_cells", len(record)-len(headers)).
				Msg("Dropping cells beyond header row")
			record = record[:len(headers)]
		}
		for i, cell := range record {
			columns[headers[i]] = append(columns[headers[i]], strings.TrimSpace(cell))
		}
	}

	for _, name := range headers {
		if !hasContent(columns[name]) {
			return nil, apperrors.Newf(apperrors.CodeEmptyCategory,
				"category %q in %s is empty", name, path)
		}
	}

	return &Table{Path: path, Headers: headers, columns: columns}, nil
}

func hasContent(values []string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}
