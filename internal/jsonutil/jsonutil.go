// Package jsonutil provides the crash-consistent JSON persistence
// primitive shared by the job registry and the result manifest writers:
// write to a temp file in the destination's
// own directory, then atomically rename over the target.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveJSON serializes data as pretty-printed JSON and writes it to path
// atomically. Argument order is payload first, destination second.
func SaveJSON(data any, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encoding json: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file over %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads and decodes the JSON document at path into v.
func LoadJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
