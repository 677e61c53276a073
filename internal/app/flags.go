package app

import (
	"errors"
	"fmt"
	"slices"
)

var outputFormats = []string{"text", "json"}

// formatValue implements pflag.Value for the --output flag.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if !slices.Contains(outputFormats, v) {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", v)
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value for flags naming a file or directory.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	if v == "" {
		return errors.New("path must not be empty")
	}
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}
