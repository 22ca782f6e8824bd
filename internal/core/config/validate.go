package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including data-directory accessibility. This calls Validate() first for
// basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateConfigFile(configPath),
		c.validateDataDir(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Extraction.MinConfidence > 0.7 {
		warnings = append(warnings, ValidationWarning{
			Category: "Extraction",
			Item:     "min_confidence",
			Message:  "thresholds above 0.7 will discard most candidates",
		})
	}
	if c.Learning.Window < 5 {
		warnings = append(warnings, ValidationWarning{
			Category: "Learning",
			Item:     "window",
			Message:  "very small windows make estimate corrections noisy",
		})
	}

	return warnings
}

func (c *Config) validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil // missing config falls back to defaults
		}
		return criterio.NewFieldErrors("config", fmt.Errorf("not readable: %w", err))
	}
	return nil
}

func (c *Config) validateDataDir() error {
	var errs criterio.FieldErrorsBuilder

	info, err := os.Stat(c.DataDir)
	switch {
	case os.IsNotExist(err):
		// created on first save; check the parent is usable instead
		if _, perr := os.Stat(filepath.Dir(c.DataDir)); perr != nil && !os.IsNotExist(perr) {
			errs = errs.Append("data_dir", fmt.Errorf("parent not accessible: %w", perr))
		}
	case err != nil:
		errs = errs.Append("data_dir", fmt.Errorf("not accessible: %w", err))
	case !info.IsDir():
		errs = errs.Append("data_dir", fmt.Errorf("exists but is not a directory"))
	}

	return errs.ToError()
}
