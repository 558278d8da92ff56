package converter

import "errors"

// Sentinel errors for package converter.
var (
	// The package has no Report/Layout member.
	ErrMissingMember = errors.New("required member missing from package")

	// Input path is absent, not a file, or not a .pbix package.
	ErrInvalidInput = errors.New("invalid input package")
)
