// Package loader reads calendar entries from JSON files.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
)

// File name suffixes used by the import CLI
const (
	SampleSuffix   = "_sample.json"
	TemplateSuffix = "_template.json"
)

// SampleFile returns the sample file name for v inside dir
func SampleFile(dir string, v database.Variant) string {
	return filepath.Join(dir, v.Table()+SampleSuffix)
}

// TemplateFile returns the template file name for v inside dir
func TemplateFile(dir string, v database.Variant) string {
	return filepath.Join(dir, v.Table()+TemplateSuffix)
}

// LoadFile reads a JSON array of entries for v. The whole file is rejected
// on the first bad element.
func LoadFile(path string, v database.Variant) ([]database.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	rows, err := Decode(data, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// Decode parses a JSON array into rows of v's table. Only the table's own
// fields are read; ids and other keys are ignored. Text comes back
// NFC-normalized so visually identical celebrations collide on the natural key.
func Decode(data []byte, v database.Variant) ([]database.Row, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("unknown calendar %q", string(v))
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}

	rows := make([]database.Row, 0, len(raw))
	for i, elem := range raw {
		row, err := database.DecodeImportRow(v, elem)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
