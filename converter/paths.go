package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PackageExt is the extension expected on input packages.
const PackageExt = ".pbix"

// DefaultOutputPath derives the output location for input: a sibling
// "<name>_converted.pbix" archive, or a "<name>_extracted" directory in
// extract mode.
func DefaultOutputPath(input string, extract bool) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	if extract {
		return stem + "_extracted"
	}
	return stem + "_converted" + PackageExt
}

// ValidateInput checks that path names an existing regular file with a
// .pbix extension, in any case.
func ValidateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: input file %q not found", ErrInvalidInput, path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q is not a regular file", ErrInvalidInput, path)
	}
	if !strings.EqualFold(filepath.Ext(path), PackageExt) {
		return fmt.Errorf("%w: input file must have %s extension", ErrInvalidInput, PackageExt)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
