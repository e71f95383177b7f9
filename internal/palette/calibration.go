package palette

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadParams reads palette parameters from a JSON calibration file.
// A missing file yields the defaults, so callers can always point at the
// preferred calibration location.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultParams(), nil
		}
		return DefaultParams(), fmt.Errorf("failed to read calibration: %w", err)
	}

	p := DefaultParams()
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultParams(), fmt.Errorf("failed to parse calibration: %w", err)
	}
	return p, nil
}

// SaveParams persists palette parameters as indented JSON.
func SaveParams(path string, p Params) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize calibration: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write calibration: %w", err)
	}
	return nil
}
