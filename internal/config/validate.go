package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.ProjectRoot == "" {
		errs = append(errs, ValidationError{
			Field:   "project_root",
			Message: "must not be empty",
		})
	} else if info, err := os.Stat(cfg.ProjectRoot); err != nil || !info.IsDir() {
		errs = append(errs, ValidationError{
			Field:   "project_root",
			Message: fmt.Sprintf("not a directory: %s", cfg.ProjectRoot),
		})
	}

	if cfg.CheckTimeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "check_timeout",
			Message: "must be positive",
		})
	}

	if cfg.AssetURL != "" {
		if err := validateURL(cfg.AssetURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "asset_url",
				Message: err.Error(),
			})
		}
	}

	if cfg.ViteURL != "" {
		if err := validateURL(cfg.ViteURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "vite_url",
				Message: err.Error(),
			})
		}
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	return errors.Join(errs...)
}

// validateURL checks that s is an absolute http(s) URL.
func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL host must not be empty")
	}
	return nil
}
