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

package promptset

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "promptsets/internal/errors"
	"promptsets/internal/selection"
	"promptsets/internal/table"
)

// ParseOptions turns a flat host option map into per-column configs.
// Missing options fall back to Fixed, "None", weight 1.0 and ", ".
// Unknown modes are kept as Fixed.
func ParseOptions(tbl *table.Table, opts map[string]any) (map[string]selection.ColumnConfig, error) {
	cfg := make(map[string]selection.ColumnConfig, len(tbl.Headers))
	for i, header := range tbl.Headers {
		col := selection.DefaultColumnConfig()

		if raw, ok := opts[ModeKey(header)]; ok {
			name, err := asString(raw, ModeKey(header))
			if err != nil {
				return nil, err
			}
			col.Mode, _ = selection.ParseMode(name)
		}

		if raw, ok := opts[ValueKey(header)]; ok {
			value, err := asString(raw, ValueKey(header))
			if err != nil {
				return nil, err
			}
			col.Value = value
		}

		if raw, ok := opts[WeightKey(header)]; ok {
			weight, err := asFloat(raw, WeightKey(header))
			if err != nil {
				return nil, err
			}
			if weight < selection.MinWeight || weight > selection.MaxWeight {
				return nil, apperrors.Newf(apperrors.CodeInvalidInput,
					"%s %.2f outside [%.1f, %.1f]", WeightKey(header), weight, selection.MinWeight, selection.MaxWeight)
			}
			col.Weight = weight
		}

		if i < len(tbl.Headers)-1 {
			key := SeparatorKey(header, tbl.Headers[i+1])
			if raw, ok := opts[key]; ok {
				sep, err := asString(raw, key)
				if err != nil {
					return nil, err
				}
				col.Separator = sep
			}
		}

		cfg[header] = col
	}
	return cfg, nil
}

// asString accepts scalars as decoded from YAML or JSON, so an unquoted
// 1990 still selects the value "1990".
func asString(v any, key string) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case uint64:
		return strconv.FormatUint(s, 10), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(s), nil
	default:
		return "", apperrors.Newf(apperrors.CodeInvalidInput, "%s must be a string, got %T", key, v)
	}
}

func asFloat(v any, key string) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, apperrors.Wrap(apperrors.CodeInvalidInput, key+" must be a number", err)
		}
		return f, nil
	default:
		return 0, apperrors.Newf(apperrors.CodeInvalidInput, "%s must be a number, got %T", key, v)
	}
}
