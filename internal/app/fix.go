package app

import (
	"github.com/spf13/cobra"

	"github.com/andyballingall/vsgfix/internal/config"
)

// runFlags are the flags shared by the fix and check commands.
type runFlags struct {
	file       string
	vhdlPath   pathValue
	yamlPath   pathValue
	yamlFile   string
	tool       string
	jsonReport pathValue
	chdir      bool
	strict     bool
	dryRun     bool
	watch      bool
	verbose    bool
	output     formatValue
}

func (f *runFlags) bind(cmd *cobra.Command) {
	f.output = formatValue("text")

	cmd.Flags().StringVarP(&f.file, "file", "f", "", "VHDL file name, relative to the VHDL directory")
	cmd.Flags().VarP(&f.vhdlPath, "vhdl-path", "p", "Directory containing the VHDL file")
	cmd.Flags().Var(&f.yamlPath, "yaml-path", "Directory containing the style configuration")
	cmd.Flags().StringVar(&f.yamlFile, "yaml-file", "", "Style configuration file name (default "+config.DefaultStyleFile+")")
	cmd.Flags().StringVar(&f.tool, "tool", "", "Style fixer executable (default vsg)")
	cmd.Flags().Var(&f.jsonReport, "json-report", "Ask the style fixer for a JSON violation report and summarise it")
	cmd.Flags().BoolVar(&f.chdir, "chdir", false,
		"Change the vsgfix working directory to the VHDL directory for the run, then change back")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Fail when the style fixer exits with a non-zero status")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Print the command without running it")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Watch the VHDL and style files and rerun on change")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "List each violation in the report")
	cmd.Flags().VarP(&f.output, "output", "o", "Report format (text, json)")
}

// options converts the flags into RunOptions. Boolean flags only override the
// configuration when they were given on the command line.
func (f *runFlags) options(cmd *cobra.Command, fix bool) RunOptions {
	o := config.Overrides{
		Tool:       f.tool,
		VHDLFile:   f.file,
		VHDLPath:   string(f.vhdlPath),
		YAMLPath:   string(f.yamlPath),
		YAMLFile:   f.yamlFile,
		JSONReport: string(f.jsonReport),
	}
	if !fix {
		o.Fix = &fix
	}
	if cmd.Flags().Changed("chdir") {
		o.Chdir = &f.chdir
	}
	if cmd.Flags().Changed("strict") {
		o.FailOnToolError = &f.strict
	}

	noColour, _ := cmd.Flags().GetBool("nocolour")
	return RunOptions{
		Overrides: o,
		DryRun:    f.dryRun,
		Verbose:   f.verbose,
		Format:    string(f.output),
		UseColour: !noColour,
	}
}

func (f *runFlags) run(cmd *cobra.Command, mgr Manager, fix bool) error {
	opts := f.options(cmd, fix)
	if f.watch {
		return mgr.Watch(cmd.Context(), opts, nil)
	}
	return mgr.Fix(cmd.Context(), opts)
}

// NewFixCmd returns the command that formats a VHDL file in place.
func NewFixCmd(mgr Manager) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Format a VHDL file in place with vsg",
		Args:  cobra.NoArgs,
		Example: `
USING vsgfix.yml IN THE CURRENT DIRECTORY
  vsgfix fix

OVERRIDING THE CONFIGURATION
  vsgfix fix --file top.vhd --vhdl-path ./rtl --yaml-path ./style
  vsgfix fix --chdir --strict

SHOW THE COMMAND WITHOUT RUNNING IT
  vsgfix fix --dry-run

RERUN WHENEVER THE FILE OR STYLE CHANGES
  vsgfix fix --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.run(cmd, mgr, true)
		},
	}
	flags.bind(cmd)

	return cmd
}

// NewCheckCmd returns the command that reports style violations without
// rewriting the file.
func NewCheckCmd(mgr Manager) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a VHDL file with vsg without changing it",
		Args:  cobra.NoArgs,
		Example: `
  vsgfix check
  vsgfix check --json-report vsg-report.json --verbose
  vsgfix check --strict`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return flags.run(cmd, mgr, false)
		},
	}
	flags.bind(cmd)

	return cmd
}
