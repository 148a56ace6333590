package wizard

import (
	"fmt"

	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/fsys"
)

// EnsureEmptyRoot fails unless root exists and has no entries.
func EnsureEmptyRoot(svc *fsys.Service, root string) error {
	entries, err := svc.ListEntries(root)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return oerrors.NewValidationError(
			fmt.Sprintf("directory is not empty (%d entries)", len(entries)), root, "",
			"Choose an empty directory or a new name for the plugin")
	}
	return nil
}
