package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/andyballingall/vsgfix/internal/config"
	vfs "github.com/andyballingall/vsgfix/internal/fs"
)

// NewInitCmd returns a new cobra command for writing a default vsgfix.yml.
func NewInitCmd(pathResolver vfs.PathResolver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   InitCmdName + " [dirpath]",
		Short: "Write a default vsgfix.yml",
		Long:  `Write a commented default ` + config.ConfigFileName + ` into the given directory (default: the current directory).`,
		Args:  cobra.MaximumNArgs(1),
		Example: `
vsgfix init
vsgfix init ./rtl
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirpath := "."
			if len(args) > 0 {
				dirpath = args[0]
			}

			if err := os.MkdirAll(dirpath, 0o750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			configPath := filepath.Join(dirpath, config.ConfigFileName)
			if _, err := os.Stat(configPath); err == nil {
				return &ConfigExistsError{Path: configPath}
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := os.WriteFile(configPath, []byte(config.DefaultConfigContent), 0o600); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}

			cmd.Printf("Created %s\n", configPath)
			cmd.Println("Edit vhdlFile, vhdlPath and yamlPath, then run: vsgfix fix")
			cmd.Printf("%s", configEnvInstructions(pathResolver, configPath))

			return nil
		},
	}

	return cmd
}

func configEnvInstructions(pathResolver vfs.PathResolver, configPath string) string {
	return configEnvInstructionsForOS(pathResolver, configPath, runtime.GOOS)
}

func configEnvInstructionsForOS(pathResolver vfs.PathResolver, configPath, goos string) string {
	abs, err := pathResolver.Abs(configPath)
	if err != nil {
		abs = configPath
	}

	envVar := config.ConfigEnvVar
	instructions := "\nTo use this configuration from any directory, set an environment variable. Run:\n"

	switch goos {
	case "windows":
		instructions += fmt.Sprintf("\n  setx %s %q && set %q\n", envVar, abs, envVar+"="+abs)
	case "darwin":
		instructions += fmt.Sprintf("\n  echo 'export %s=%q' >> ~/.zshrc && source ~/.zshrc\n", envVar, abs)
	default:
		instructions += fmt.Sprintf("\n  echo 'export %s=%q' >> ~/.bashrc && source ~/.bashrc\n", envVar, abs)
	}

	return instructions
}
