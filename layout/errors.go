package layout

import "errors"

// Sentinel errors for package layout.
var (
	// Member bytes are not well-formed UTF-16LE.
	ErrEncoding = errors.New("malformed UTF-16LE text")

	// Outer layout document is not a JSON object.
	ErrConfigParse = errors.New("layout document is not valid JSON")

	// Rewrite rules are incomplete or unreadable.
	ErrInvalidRules = errors.New("invalid rewrite rules")
)
