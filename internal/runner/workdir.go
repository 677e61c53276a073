package runner

import (
	"os"
	"path/filepath"
)

// Variables for the os functions to allow mocking in tests.
var (
	getwd   = os.Getwd
	chdir   = os.Chdir
	absPath = filepath.Abs
)

// CaptureCurrentDirectory returns the process working directory.
func CaptureCurrentDirectory() (string, error) {
	return getwd()
}

// ResolveDirectory returns the absolute form of target, which must be an
// existing directory.
func ResolveDirectory(target string) (string, error) {
	abs, err := absPath(target)
	if err != nil {
		return "", &DirectoryError{Op: "resolve", Path: target, Wrapped: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &DirectoryError{Op: "resolve", Path: target, Wrapped: err}
	}
	if !info.IsDir() {
		return "", &DirectoryError{Op: "resolve", Path: target, Wrapped: &NotADirectoryError{Path: abs}}
	}

	return abs, nil
}

// ChangeDirectory makes target the process working directory.
func ChangeDirectory(target string) error {
	if err := chdir(target); err != nil {
		return &DirectoryError{Op: "change to", Path: target, Wrapped: err}
	}
	return nil
}

// RestoreDirectory makes original the process working directory again.
func RestoreDirectory(original string) error {
	if err := chdir(original); err != nil {
		return &DirectoryError{Op: "restore", Path: original, Wrapped: err}
	}
	return nil
}
