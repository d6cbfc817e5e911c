package scanner

import (
	"errors"
	"fmt"
)

// ErrEmptyExtension is returned when a scanner is built without a target extension.
var ErrEmptyExtension = errors.New("target extension must not be empty")

// DirectoryReadError reports a failure to list a directory or to resolve one
// of its entries. It is created where the failure happens and returned as-is
// through every level of the recursion.
type DirectoryReadError struct {
	Op   string
	Path string
	Err  error
}

func (e *DirectoryReadError) Error() string {
	return fmt.Sprintf("directory read error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DirectoryReadError) Unwrap() error {
	return e.Err
}

// IsDirectoryReadError reports whether err is, or wraps, a *DirectoryReadError.
func IsDirectoryReadError(err error) bool {
	var dirErr *DirectoryReadError
	return errors.As(err, &dirErr)
}
