package runner

import "fmt"

// DirectoryError reports a directory that could not be resolved or entered.
type DirectoryError struct {
	Wrapped error
	Path    string
	Op      string
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cannot %s directory '%s': %v", e.Op, e.Path, e.Wrapped)
}

func (e *DirectoryError) Unwrap() error {
	return e.Wrapped
}

// NotADirectoryError is wrapped by DirectoryError when the path exists but is a file.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%s is not a directory", e.Path)
}

// ToolNotFoundError reports a style fixer executable that could not be started.
type ToolNotFoundError struct {
	Wrapped error
	Tool    string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("failed to start '%s' (is it installed and on your PATH?): %v", e.Tool, e.Wrapped)
}

func (e *ToolNotFoundError) Unwrap() error {
	return e.Wrapped
}
