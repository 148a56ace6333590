package config

import (
	"fmt"
	"path/filepath"
	"strings"

	oerrors "github.com/wplizard/cli/internal/errors"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap lets callers match oerrors.ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validate checks the values present in cfg. Unset fields are valid.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.BaseDir != "" {
		if msg := checkRelative(cfg.BaseDir); msg != "" {
			errs = append(errs, ValidationError{Field: KeyBaseDir, Message: msg})
		}
	}

	if cfg.Concurrency < 0 {
		errs = append(errs, ValidationError{
			Field:   KeyConcurrency,
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Concurrency),
		})
	}

	if cfg.Artifact != "" {
		switch {
		case filepath.Base(cfg.Artifact) != cfg.Artifact:
			errs = append(errs, ValidationError{Field: KeyArtifact, Message: "must be a file name, not a path"})
		case !strings.HasSuffix(cfg.Artifact, ".yaml") && !strings.HasSuffix(cfg.Artifact, ".yml"):
			errs = append(errs, ValidationError{Field: KeyArtifact, Message: "must end in .yaml or .yml"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkRelative(p string) string {
	if filepath.IsAbs(p) {
		return "must be relative to the plugin root"
	}
	clean := filepath.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "must be a folder inside the plugin root"
	}
	return ""
}
