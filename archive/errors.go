package archive

import "errors"

// Sentinel errors for package archive.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Source archive could not be opened, or a member could not be read back.
	ErrArchiveRead = errors.New("archive read failed")

	// Destination archive could not be created or written.
	ErrArchiveWrite = errors.New("archive write failed")

	// Staging path is not a directory.
	ErrExpectedDirectory = errors.New("expected directory but got file")

	// Writer configuration asks for something other than store or deflate.
	ErrUnsupportedMethod = errors.New("unsupported compression method")
)
