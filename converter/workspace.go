package converter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WorkspacePrefix starts the name of every staging directory.
const WorkspacePrefix = "pbix-converter-"

// Workspace is an exclusively owned staging directory for a single
// conversion. Close removes it; calling Close more than once is safe.
type Workspace struct {
	Dir string
}

// NewWorkspace creates a uniquely named staging directory under parent, or
// under the system temporary directory when parent is empty.
func NewWorkspace(parent string) (*Workspace, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, WorkspacePrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// Path returns the staging path of a slash-separated member name.
func (w *Workspace) Path(member string) string {
	return filepath.Join(w.Dir, filepath.FromSlash(member))
}

// Close removes the staging directory and everything in it.
func (w *Workspace) Close() error {
	if w == nil || w.Dir == "" {
		return nil
	}
	err := os.RemoveAll(w.Dir)
	w.Dir = ""
	return err
}
