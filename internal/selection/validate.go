package selection

import (
	"strings"

	"github.com/wplizard/cli/internal/catalog"
	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/prompt"
)

// Messages shown when a folder name or description is rejected. They do not
// vary with nesting depth.
const (
	MsgEmptyName        = "Please enter a folder name."
	MsgDuplicateName    = "The folder already exists. Please enter a different name."
	MsgInvalidName      = "The folder name must start with an uppercase letter and contain only letters, numbers, and underscores."
	MsgEmptyDescription = "Please enter a description for the custom folder."
)

// ValidationError is a rejected answer. It is recovered by asking again and
// never leaves the selection loop.
type ValidationError struct {
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns oerrors.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return oerrors.ErrValidation
}

// ValidateName accepts exactly the names matching catalog.NamePattern.
func ValidateName(name string) error {
	if name == "" {
		return &ValidationError{Value: name, Message: MsgEmptyName}
	}
	if !catalog.NamePattern.MatchString(name) {
		return &ValidationError{Value: name, Message: MsgInvalidName}
	}
	return nil
}

// newFolderValidator checks a name typed at parent: it must be a valid name
// and its full path must not be selected yet.
func newFolderValidator(paths *Paths, parent string) prompt.Validator {
	return func(input string) error {
		name := strings.TrimSpace(input)
		if name == "" {
			return &ValidationError{Value: name, Message: MsgEmptyName}
		}
		if paths.Has(catalog.Join(parent, name)) {
			return &ValidationError{Value: name, Message: MsgDuplicateName}
		}
		return ValidateName(name)
	}
}

func validateDescription(input string) error {
	if strings.TrimSpace(input) == "" {
		return &ValidationError{Value: input, Message: MsgEmptyDescription}
	}
	return nil
}
