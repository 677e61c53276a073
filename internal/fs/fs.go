// Package fs holds the small filesystem and environment seams used by vsgfix
// so that tests can substitute them.
package fs

// defaultResolver is used by the package-level helpers.
var defaultResolver = NewPathResolver()

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
func CanonicalPath(path string) (string, error) {
	return defaultResolver.CanonicalPath(path)
}

// Abs returns the absolute path.
func Abs(path string) (string, error) {
	return defaultResolver.Abs(path)
}

// SamePath reports whether a and b name the same location once both are made
// canonical. Paths that cannot be resolved are compared in absolute form, so
// a file that has just been removed still matches its old name.
func SamePath(a, b string) bool {
	return comparablePath(a) == comparablePath(b)
}

func comparablePath(p string) string {
	if c, err := CanonicalPath(p); err == nil {
		return c
	}
	if abs, err := Abs(p); err == nil {
		return abs
	}
	return p
}
