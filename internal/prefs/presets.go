// Package prefs persists named filter presets in the user config dir so
// deck filters survive restarts without touching the database.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const presetsFile = "filters.json"

// Preset is a saved filter configuration.
type Preset struct {
	Name         string `json:"name"`
	MinAge       int    `json:"min_age"`
	MaxAge       int    `json:"max_age"`
	VerifiedOnly bool   `json:"verified_only"`
	Interest     string `json:"interest,omitempty"`
}

func presetsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "duet")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, presetsFile), nil
}

// SavePresets writes the preset list atomically.
func SavePresets(presets []Preset) error {
	path, err := presetsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadPresets reads the preset list; a missing file is an empty list.
func LoadPresets() ([]Preset, error) {
	path, err := presetsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}
	return presets, nil
}
