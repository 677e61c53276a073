package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andyballingall/vsgfix/internal/config"
	"github.com/andyballingall/vsgfix/internal/fs"
	"github.com/andyballingall/vsgfix/internal/runner"
	"github.com/andyballingall/vsgfix/internal/validator"
)

// Version is the current version of vsgfix, set at build time.
var Version = "dev"

const InitCmdName = "init"

var getwd = os.Getwd

// Banner with colour codes.
var Banner = "\033[32m" + `
                     ____ _
 _   _____ ____ _   / __/(_)_  __
| | / / __/ __ '/  / /_ / /| |/_/
| |/ /\ \/ /_/ /  / __// /_>  <
|___/___/\__, /  /_/  /_//_/|_|
        /____/
` + "\033[0m"

var LongDescription = `
vsgfix runs the VHDL Style Guide (vsg) on a VHDL file with your style
configuration. vsg runs in the directory that holds the VHDL file, and your
own working directory is the same after every run.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(
	lazy *LazyManager,
	ll *slog.LevelVar,
	stdout, stderr io.Writer,
	envProvider fs.EnvProvider,
) *cobra.Command {
	var debug bool
	var noColour bool
	var configPath pathValue

	rootCmd := &cobra.Command{
		Use:           "vsgfix",
		Short:         "Run the VHDL Style Guide on a file from its own directory",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          Banner + "\n" + LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip initialization for help, completion and init commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			cwd, err := getwd()
			if err != nil {
				return fmt.Errorf("could not read the current working directory: %w", err)
			}

			path, required := config.Locate(string(configPath), envProvider.Get(config.ConfigEnvVar), cwd)
			cfg, err := config.Load(path, required, validator.NewSanthoshCompiler())
			if err != nil {
				return err
			}

			logDir := cwd
			if cfg.Path != "" {
				logDir = filepath.Dir(cfg.Path)
			}
			logger, _, err := setupLogger(stderr, ll, logDir, envProvider)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			if cfg.Path != "" {
				logger.Debug("loaded configuration", "path", cfg.Path)
			}

			r := runner.NewCLIRunner(logger, runner.WithOutput(stdout, stderr), runner.WithProgress(stdout))
			lazy.SetInner(NewCLIManager(logger, cfg, r, cwd, stdout))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().VarP(&configPath, "config", "c",
		"path to "+config.ConfigFileName+" (overrides "+config.ConfigEnvVar+" and the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolour", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewInitCmd(fs.NewPathResolver()))
	rootCmd.AddCommand(NewFixCmd(lazy))
	rootCmd.AddCommand(NewCheckCmd(lazy))

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
