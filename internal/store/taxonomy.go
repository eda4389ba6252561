// Package store persists ledger records and loads the category taxonomy
// from disk.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fjacquet/chatledger/internal/categorizer"
	"fjacquet/chatledger/internal/logging"
	"fjacquet/chatledger/internal/parsererror"
)

// FindFile looks for a file in the usual locations: the path itself, a
// config/ subdirectory, then ~/.chatledger.
func FindFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", err
		}
		return filename, nil
	}

	locations := []string{filename, filepath.Join("config", filename)}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".chatledger", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadTaxonomy reads a YAML taxonomy. An empty filename or a missing file
// yields the built-in taxonomy; a file that exists but does not parse or
// validate is an error.
func LoadTaxonomy(filename string, logger logging.Logger) (categorizer.Taxonomy, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if filename == "" {
		return categorizer.DefaultTaxonomy(), nil
	}

	path, err := FindFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Categories file not found, using built-in taxonomy",
				logging.F(logging.FieldFile, filename))
			return categorizer.DefaultTaxonomy(), nil
		}
		return categorizer.Taxonomy{}, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return categorizer.Taxonomy{}, fmt.Errorf("error reading categories file: %w", err)
	}

	var taxonomy categorizer.Taxonomy
	if err := yaml.Unmarshal(data, &taxonomy); err != nil {
		return categorizer.Taxonomy{}, &parsererror.ConfigError{
			Component: "store",
			Setting:   "categories file " + path,
			Err:       err,
		}
	}
	if err := taxonomy.Validate(); err != nil {
		return categorizer.Taxonomy{}, err
	}

	logger.Debug("Loaded category taxonomy",
		logging.F(logging.FieldFile, path),
		logging.F("expense_categories", len(taxonomy.Expense.Categories)),
		logging.F("income_categories", len(taxonomy.Income.Categories)))
	return taxonomy, nil
}

// SaveTaxonomy writes taxonomy as YAML, creating parent directories.
func SaveTaxonomy(filename string, taxonomy categorizer.Taxonomy) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	data, err := yaml.Marshal(taxonomy)
	if err != nil {
		return fmt.Errorf("error marshaling taxonomy: %w", err)
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("error writing categories file: %w", err)
	}
	return nil
}
