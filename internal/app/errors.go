package app

import "fmt"

// ToolFailedError is returned in strict mode when the style fixer exits with
// a non-zero status.
type ToolFailedError struct {
	ExitCode int
	Command  string
}

func (e *ToolFailedError) Error() string {
	return fmt.Sprintf("style fixer exited with status %d: %s", e.ExitCode, e.Command)
}

// ConfigExistsError is returned by init when the configuration file is already present.
type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("configuration file already exists: %s", e.Path)
}
