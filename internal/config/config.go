package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/vsgfix/internal/runner"
	"github.com/andyballingall/vsgfix/internal/validator"
)

const (
	// ConfigFileName is the file looked up in the current directory when no
	// configuration path is given.
	ConfigFileName = "vsgfix.yml"
	// ConfigEnvVar names an environment variable holding a configuration path.
	ConfigEnvVar = "VSGFIX_CONFIG"
	// DefaultStyleFile is the style configuration file name used when yamlFile is not set.
	DefaultStyleFile = "adsd_vhdl_style.yaml"
)

const schemaID = "https://vsgfix.local/vsgfix.schema.json"

//go:embed vsgfix.schema.json
var schemaJSON []byte

const DefaultConfigContent = `# vsgfix run configuration
#
# Relative paths are resolved against the directory containing this file.

# VHDL FILE TO FORMAT
#
# vhdlFile is the file name and vhdlPath the directory containing it. The style
# fixer runs with vhdlPath as its working directory.
vhdlFile: "vhdl_file_name.vhd"
vhdlPath: "."

# VHDL STYLE GUIDE LOCATION
#
# The style configuration passed to the fixer is yamlPath joined with yamlFile.
yamlPath: "."
yamlFile: "adsd_vhdl_style.yaml"

# STYLE FIXER
#
# tool is the executable to run (default: vsg, found on your PATH).
# See https://github.com/jeremiah-c-leary/vhdl-style-guide
tool: "vsg"

# fix: true rewrites the file in place (vsg --fix). Set false to only report.
fix: true

# jsonReport, if set, asks the fixer to write its violations to this file and
# prints a summary after the run.
# jsonReport: "vsg-report.json"

# directoryMode controls how the working directory is applied:
# - spawn: only the style fixer process runs in vhdlPath (default)
# - chdir: vsgfix itself changes into vhdlPath and changes back afterwards
directoryMode: "spawn"

# failOnToolError: true makes vsgfix exit with an error when the fixer exits
# with a non-zero status. By default the status is reported as a warning.
failOnToolError: false
`

// Config is a vsgfix run configuration.
type Config struct {
	Tool            string      `yaml:"tool"`
	VHDLFile        string      `yaml:"vhdlFile"`
	VHDLPath        string      `yaml:"vhdlPath"`
	YAMLPath        string      `yaml:"yamlPath"`
	YAMLFile        string      `yaml:"yamlFile"`
	Fix             *bool       `yaml:"fix"`
	JSONReport      string      `yaml:"jsonReport"`
	DirectoryMode   runner.Mode `yaml:"directoryMode"`
	FailOnToolError bool        `yaml:"failOnToolError"`
	Path            string      `yaml:"-"` // this is set to the file the config was read from, if any.
}

// Overrides are per-run values, typically from command-line flags. Empty
// strings and nil pointers leave the configured value alone.
type Overrides struct {
	Tool            string
	VHDLFile        string
	VHDLPath        string
	YAMLPath        string
	YAMLFile        string
	JSONReport      string
	Fix             *bool
	Chdir           *bool
	FailOnToolError *bool
}

// Locate returns the configuration file to load. An explicit path wins, then
// the VSGFIX_CONFIG environment variable, then vsgfix.yml in dir. The second
// result reports whether the path was requested explicitly; an implicit path
// that does not exist is not an error.
func Locate(explicit, fromEnv, dir string) (path string, required bool) {
	switch {
	case explicit != "":
		return explicit, true
	case fromEnv != "":
		return fromEnv, true
	default:
		return filepath.Join(dir, ConfigFileName), false
	}
}

// Load reads, schema-checks and decodes the configuration at path. When the
// file does not exist and required is false, an empty configuration is
// returned so that command-line overrides can supply every value.
func Load(path string, required bool, compiler validator.Compiler) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return nil, &MissingConfigError{Path: path}
		}
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data, compiler)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Path = abs
	cfg.resolvePaths(filepath.Dir(abs))

	return cfg, nil
}

// Parse schema-checks and decodes configuration bytes. Paths are left as written.
func Parse(data []byte, compiler validator.Compiler) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Wrapped: err}
	}
	if doc == nil {
		doc = map[string]any{}
	}

	v, err := compileSchema(compiler)
	if err != nil {
		return nil, err
	}
	if err = v.Validate(doc); err != nil {
		return nil, &SchemaViolationError{Wrapped: err}
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidYAMLError{Wrapped: err}
	}
	return &cfg, nil
}

func compileSchema(compiler validator.Compiler) (validator.Validator, error) {
	schema, err := validator.ParseSchema(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("embedded configuration schema is invalid: %w", err)
	}
	if err = validator.CheckDraft(schema, compiler.SupportedSchemaVersions()); err != nil {
		return nil, fmt.Errorf("embedded configuration schema is invalid: %w", err)
	}
	if err = compiler.AddSchema(schemaID, schema); err != nil {
		return nil, fmt.Errorf("embedded configuration schema is invalid: %w", err)
	}
	return compiler.Compile(schemaID)
}

// resolvePaths makes relative paths absolute against base.
func (c *Config) resolvePaths(base string) {
	c.VHDLPath = resolve(base, c.VHDLPath)
	c.YAMLPath = resolve(base, c.YAMLPath)
	c.JSONReport = resolve(base, c.JSONReport)
	// A bare tool name is looked up on PATH; only explicit paths are resolved.
	if strings.ContainsRune(c.Tool, '/') || strings.ContainsRune(c.Tool, filepath.Separator) {
		c.Tool = resolve(base, c.Tool)
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Apply merges overrides into the configuration. Relative override paths are
// resolved against cwd.
func (c *Config) Apply(o Overrides, cwd string) {
	if o.Tool != "" {
		c.Tool = o.Tool
		if strings.ContainsRune(o.Tool, '/') || strings.ContainsRune(o.Tool, filepath.Separator) {
			c.Tool = resolve(cwd, o.Tool)
		}
	}
	if o.VHDLFile != "" {
		c.VHDLFile = o.VHDLFile
	}
	if o.VHDLPath != "" {
		c.VHDLPath = resolve(cwd, o.VHDLPath)
	}
	if o.YAMLPath != "" {
		c.YAMLPath = resolve(cwd, o.YAMLPath)
	}
	if o.YAMLFile != "" {
		c.YAMLFile = o.YAMLFile
	}
	if o.JSONReport != "" {
		c.JSONReport = resolve(cwd, o.JSONReport)
	}
	if o.Fix != nil {
		fix := *o.Fix
		c.Fix = &fix
	}
	if o.Chdir != nil {
		if *o.Chdir {
			c.DirectoryMode = runner.ModeChdir
		} else {
			c.DirectoryMode = runner.ModeSpawnDir
		}
	}
	if o.FailOnToolError != nil {
		c.FailOnToolError = *o.FailOnToolError
	}
}

// Validate fills in defaults and checks that every required value is present.
// The paths themselves are not checked: a missing directory is reported when
// the run tries to use it.
func (c *Config) Validate() error {
	if c.Tool == "" {
		c.Tool = runner.DefaultTool
	}
	if c.YAMLFile == "" {
		c.YAMLFile = DefaultStyleFile
	}
	if c.Fix == nil {
		fix := true
		c.Fix = &fix
	}
	if c.DirectoryMode == "" {
		c.DirectoryMode = runner.ModeSpawnDir
	}

	if c.DirectoryMode != runner.ModeSpawnDir && c.DirectoryMode != runner.ModeChdir {
		return &InvalidPropertyError{
			Property: "directoryMode",
			Value:    string(c.DirectoryMode),
			Reason:   "must be 'spawn' or 'chdir'",
		}
	}
	if c.VHDLFile == "" {
		return &MissingPropertyError{Property: "vhdlFile"}
	}
	if c.VHDLPath == "" {
		return &MissingPropertyError{Property: "vhdlPath"}
	}
	if c.YAMLPath == "" {
		return &MissingPropertyError{Property: "yamlPath"}
	}
	return nil
}

// StyleFile returns the style configuration path handed to the fixer.
func (c *Config) StyleFile() string {
	return filepath.Join(c.YAMLPath, c.YAMLFile)
}

// TargetPath returns the full path of the VHDL file.
func (c *Config) TargetPath() string {
	return filepath.Join(c.VHDLPath, c.VHDLFile)
}

// Invocation converts the configuration into a runner.Invocation.
func (c *Config) Invocation(dryRun bool) runner.Invocation {
	fix := c.Fix == nil || *c.Fix
	return runner.Invocation{
		Tool:       c.Tool,
		ConfigFile: c.StyleFile(),
		TargetFile: c.VHDLFile,
		TargetDir:  c.VHDLPath,
		Flags:      runner.Flags{Fix: fix, JSONReport: c.JSONReport},
		Mode:       c.DirectoryMode,
		DryRun:     dryRun,
	}
}
