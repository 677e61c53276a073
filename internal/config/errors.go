package config

import "fmt"

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", ConfigFileName, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type SchemaViolationError struct {
	Wrapped error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("%s does not match the configuration schema: %v", ConfigFileName, e.Wrapped)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Wrapped
}

type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("%s is missing required property: %s (set it in the file or pass it as a flag)",
		ConfigFileName, e.Property)
}

type InvalidPropertyError struct {
	Property string
	Value    string
	Reason   string
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("%s property %s has invalid value '%s': %s", ConfigFileName, e.Property, e.Value, e.Reason)
}
