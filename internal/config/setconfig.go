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
	"os"

	apperrors "promptsets/internal/errors"
)

// SetConfig is the per-prompt-set file that records which table file the
// set reads, stored next to the table as "<name>_config.json".
type SetConfig struct {
	CSVFile string `json:"csv_file"`
}

// LoadSetConfig reads a prompt-set config. The boolean reports whether the
// file existed; a missing file is not an error.
func LoadSetConfig(path string) (*SetConfig, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeConfig, "failed to read "+path, err)
	}
	normalized, err := normalizeSetConfigJSON(data)
	if err != nil {
		return nil, true, apperrors.Wrap(apperrors.CodeConfig, "invalid "+path, err)
	}
	cfg := &SetConfig{}
	if err := json.Unmarshal(normalized, cfg); err != nil {
		return nil, true, apperrors.Wrap(apperrors.CodeConfig, "invalid "+path, err)
	}
	return cfg, true, nil
}

// SaveSetConfig writes cfg to path.
func SaveSetConfig(path string, cfg SetConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeConfig, "failed to encode set config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.CodeConfig, "failed to write "+path, err)
	}
	return nil
}
