package mapping

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/stmt-import/internal/models"

	"gopkg.in/yaml.v3"
)

// File is the on-disk form of a column mapping. The preview command writes it
// and the test and import commands read it back after the user edited it.
type File struct {
	Source  string                `yaml:"source,omitempty"`
	Columns []models.MappingEntry `yaml:"columns"`
}

// Load reads a mapping file.
func Load(path string) (models.ColumnMapping, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- mapping path is user supplied
	if err != nil {
		return models.ColumnMapping{}, fmt.Errorf("error reading mapping file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.ColumnMapping{}, fmt.Errorf("error parsing mapping file %s: %w", path, err)
	}
	return models.NewColumnMapping(file.Columns), nil
}

// Encode renders m in the mapping file format.
func Encode(source string, m models.ColumnMapping) ([]byte, error) {
	data, err := yaml.Marshal(File{Source: source, Columns: m.Entries()})
	if err != nil {
		return nil, fmt.Errorf("error encoding mapping: %w", err)
	}
	return data, nil
}

// Save writes m to path, creating parent directories as needed.
func Save(path, source string, m models.ColumnMapping) error {
	data, err := Encode(source, m)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing mapping file: %w", err)
	}
	return nil
}
