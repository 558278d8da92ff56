package archive

import (
	"errors"
	"os"
	"path/filepath"
)

// SecurityBindings is the member that ties a package to the security
// context it was saved under.
const SecurityBindings = "SecurityBindings"

// Prune removes the member name from the staging directory dir. It reports
// whether the member was present; absence is not an error.
func Prune(dir, name string) (bool, error) {
	err := os.Remove(filepath.Join(dir, filepath.FromSlash(name)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
