package scanner

import (
	"path/filepath"
	"strings"
)

// DefaultExtension is the COLLADA mesh suffix the asset pipeline consumes.
const DefaultExtension = "dae"

// Extension returns the extension of the last element of name without the dot.
// A name without a dot, or whose only dot is the leading one (".dae"), has no
// extension and yields "".
func Extension(name string) string {
	base := filepath.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i+1:]
}

// Matches reports whether name carries exactly the given extension.
// The comparison is case-sensitive.
func Matches(name, extension string) bool {
	return Extension(name) == extension
}

// NormalizeExtension trims surrounding whitespace and a single leading dot.
func NormalizeExtension(extension string) string {
	return strings.TrimPrefix(strings.TrimSpace(extension), ".")
}
