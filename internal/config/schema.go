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

package config

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SchemaJSON returns the JSON schema for config.json.
func SchemaJSON() string {
	return configSchemaJSON
}

// ExampleConfigJSON returns a minimal example config derived from the schema.
func ExampleConfigJSON() string {
	return exampleConfigJSON
}

func normalizeConfigJSON(data []byte) ([]byte, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if err := validateConfigMap(raw, ""); err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

func normalizeSetConfigJSON(data []byte) ([]byte, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	allowed := map[string]func(interface{}) error{
		"csv_file": func(v interface{}) error { return validateString(v, "csv_file") },
	}
	if err := validateSection(raw, allowed, ""); err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

func validateConfigMap(raw map[string]interface{}, prefix string) error {
	allowed := map[string]func(interface{}) error{
		"prompt_sets_dir": func(v interface{}) error { return validateString(v, prefix+"prompt_sets_dir") },
		"default_seed": func(v interface{}) error {
			return validateNonNegative(v, prefix+"default_seed")
		},
		"history_file": func(v interface{}) error { return validateString(v, prefix+"history_file") },
		"log_level":    func(v interface{}) error { return validateString(v, prefix+"log_level") },
		"preload":      func(v interface{}) error { return validateBool(v, prefix+"preload") },
	}
	return validateSection(raw, allowed, prefix)
}

func validateSection(section map[string]interface{}, allowed map[string]func(interface{}) error, prefix string) error {
	keys := make([]string, 0, len(section))
	for key := range section {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		validator, ok := allowed[key]
		if !ok {
			return fmt.Errorf("unknown configuration field %q", prefix+key)
		}
		if err := validator(section[key]); err != nil {
			return err
		}
	}
	return nil
}

func validateString(value interface{}, name string) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("%s must be a string", name)
	}
	return nil
}

func validateNumber(value interface{}, name string) error {
	if _, ok := value.(float64); !ok {
		return fmt.Errorf("%s must be a number", name)
	}
	return nil
}

func validateNonNegative(value interface{}, name string) error {
	if err := validateNumber(value, name); err != nil {
		return err
	}
	if n := value.(float64); n < 0 || n != float64(int64(n)) {
		return fmt.Errorf("%s must be a non-negative integer", name)
	}
	return nil
}

func validateBool(value interface{}, name string) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("%s must be a boolean", name)
	}
	return nil
}

const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Promptsets Config",
  "type": "object",
  "properties": {
    "prompt_sets_dir": { "type": "string" },
    "default_seed": { "type": "integer", "minimum": 0, "maximum": 4294967295 },
    "history_file": { "type": "string" },
    "log_level": { "type": "string", "enum": ["debug", "info", "warn", "error"] },
    "preload": { "type": "boolean" }
  },
  "additionalProperties": false
}`

const exampleConfigJSON = `{
  "prompt_sets_dir": "prompt_sets",
  "default_seed": 42,
  "history_file": ".promptsets_history",
  "log_level": "info",
  "preload": true
}`
