package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("runs the tool in the target directory", func(t *testing.T) {
		t.Parallel()
		stub := newStubTool(t, 0)
		vhdlDir, styleFile := newTestTree(t)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))

		before, err := os.Getwd()
		require.NoError(t, err)

		res, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
			Flags:      Flags{Fix: true},
		})
		require.NoError(t, err)

		assert.True(t, res.Executed)
		assert.Equal(t, 0, res.ExitCode)
		assert.True(t, res.Succeeded())
		assert.Equal(t, before, res.OriginalDir)
		assert.Equal(t, before, res.RestoredDir)

		after, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, before, after)

		dir, args := stub.lines(t)
		assert.Equal(t, canonical(t, vhdlDir), canonical(t, dir))
		assert.Equal(t, []string{"-c", styleFile, "-f", "top.vhd", "--fix"}, args)
	})

	t.Run("non-zero exit status is reported, not returned as an error", func(t *testing.T) {
		t.Parallel()
		stub := newStubTool(t, 1)
		vhdlDir, styleFile := newTestTree(t)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))

		res, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
			Flags:      Flags{Fix: true},
		})
		require.NoError(t, err)
		assert.True(t, res.Executed)
		assert.Equal(t, 1, res.ExitCode)
		assert.False(t, res.Succeeded())
		assert.Equal(t, res.OriginalDir, res.RestoredDir)
	})

	t.Run("missing target directory stops before building a command", func(t *testing.T) {
		t.Parallel()
		stub := newStubTool(t, 0)
		_, styleFile := newTestTree(t)
		missing := filepath.Join(t.TempDir(), "nonexistent")
		var progress bytes.Buffer
		r := NewCLIRunner(newTestLogger(), WithProgress(&progress), WithOutput(io.Discard, io.Discard))

		before, err := os.Getwd()
		require.NoError(t, err)

		res, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  missing,
			Flags:      Flags{Fix: true},
		})
		require.Error(t, err)

		var dirErr *DirectoryError
		require.ErrorAs(t, err, &dirErr)
		assert.Equal(t, missing, dirErr.Path)
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		require.NotNil(t, res)
		assert.False(t, res.Executed)
		assert.Empty(t, res.Command.Program, "no command should have been built")
		assert.False(t, stub.ran(), "the tool must not run")
		assert.NotContains(t, progress.String(), "command:")

		after, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("target path that is a file", func(t *testing.T) {
		t.Parallel()
		vhdlDir, styleFile := newTestTree(t)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard))

		_, err := r.Run(context.Background(), Invocation{
			Tool:       "vsg",
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  filepath.Join(vhdlDir, "top.vhd"),
		})
		var notDir *NotADirectoryError
		require.ErrorAs(t, err, &notDir)
	})

	t.Run("tool not found", func(t *testing.T) {
		t.Parallel()
		vhdlDir, styleFile := newTestTree(t)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))

		res, err := r.Run(context.Background(), Invocation{
			Tool:       "vsg-definitely-not-installed-xyz",
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
		})
		var notFound *ToolNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "vsg-definitely-not-installed-xyz", notFound.Tool)
		assert.False(t, res.Executed)
		assert.Equal(t, res.OriginalDir, res.RestoredDir)
	})

	t.Run("dry run builds but does not execute", func(t *testing.T) {
		t.Parallel()
		stub := newStubTool(t, 0)
		vhdlDir, styleFile := newTestTree(t)
		var progress bytes.Buffer
		r := NewCLIRunner(newTestLogger(), WithProgress(&progress))

		res, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
			Flags:      Flags{Fix: true},
			DryRun:     true,
		})
		require.NoError(t, err)
		assert.False(t, res.Executed)
		assert.False(t, stub.ran())
		assert.Equal(t, stub.path+" -c "+styleFile+" -f top.vhd --fix", res.Command.String())
		assert.Contains(t, progress.String(), "command: "+res.Command.String())
	})

	t.Run("arguments with spaces reach the tool intact", func(t *testing.T) {
		t.Parallel()
		stub := newStubTool(t, 0)
		root := t.TempDir()
		vhdlDir := filepath.Join(root, "my vhdl; dir")
		require.NoError(t, os.MkdirAll(vhdlDir, 0o755))
		styleFile := filepath.Join(root, "style $HOME.yaml")
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))

		_, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "my top.vhd",
			TargetDir:  vhdlDir,
			Flags:      Flags{Fix: true},
		})
		require.NoError(t, err)

		_, args := stub.lines(t)
		assert.Equal(t, []string{"-c", styleFile, "-f", "my top.vhd", "--fix"}, args)
	})

	t.Run("progress lines are printed in order", func(t *testing.T) {
		t.Parallel()
		stub := newStubTool(t, 0)
		vhdlDir, styleFile := newTestTree(t)
		var progress bytes.Buffer
		r := NewCLIRunner(newTestLogger(), WithProgress(&progress), WithOutput(io.Discard, io.Discard))

		res, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
			Flags:      Flags{Fix: true},
		})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(progress.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Current working directory: "+res.OriginalDir, lines[0])
		assert.Equal(t, "Running in VHDL file directory: "+res.WorkDir, lines[1])
		assert.Equal(t, "command: "+res.Command.String(), lines[2])
		assert.Equal(t, "Changing back to directory: "+res.OriginalDir, lines[3])
	})

	t.Run("tool output goes to the configured writers", func(t *testing.T) {
		t.Parallel()
		vhdlDir, styleFile := newTestTree(t)
		tool := writeScript(t, "echo out-line\necho err-line >&2\n")
		var stdout, stderr bytes.Buffer
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(&stdout, &stderr))

		_, err := r.Run(context.Background(), Invocation{
			Tool:       tool,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
		})
		require.NoError(t, err)
		assert.Equal(t, "out-line\n", stdout.String())
		assert.Equal(t, "err-line\n", stderr.String())
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		stub := newStubTool(t, 0)
		vhdlDir, styleFile := newTestTree(t)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := r.Run(ctx, Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, res.Executed)
	})
}

//nolint:paralleltest // os.Chdir is used
func TestCLIRunner_Run_ChdirMode(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	t.Run("runs in the target directory and restores the original", func(t *testing.T) {
		stub := newStubTool(t, 0)
		vhdlDir, styleFile := newTestTree(t)
		var progress bytes.Buffer
		r := NewCLIRunner(newTestLogger(), WithProgress(&progress), WithOutput(io.Discard, io.Discard))

		res, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
			Flags:      Flags{Fix: true},
			Mode:       ModeChdir,
		})
		require.NoError(t, err)

		dir, _ := stub.lines(t)
		assert.Equal(t, canonical(t, vhdlDir), canonical(t, dir))

		after, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, origDir, after)
		assert.Equal(t, origDir, res.RestoredDir)
		assert.Contains(t, progress.String(), "Changing to VHDL file directory: "+res.WorkDir)
	})

	t.Run("restores after a failing tool", func(t *testing.T) {
		stub := newStubTool(t, 1)
		vhdlDir, styleFile := newTestTree(t)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))

		res, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
			Mode:       ModeChdir,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, res.ExitCode)

		after, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, origDir, after)
	})

	t.Run("restores after a tool that cannot start", func(t *testing.T) {
		vhdlDir, styleFile := newTestTree(t)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))

		_, err := r.Run(context.Background(), Invocation{
			Tool:       "vsg-definitely-not-installed-xyz",
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
			Mode:       ModeChdir,
		})
		var notFound *ToolNotFoundError
		require.ErrorAs(t, err, &notFound)

		after, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, origDir, after)
	})

	t.Run("missing target directory leaves the working directory unchanged", func(t *testing.T) {
		stub := newStubTool(t, 0)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard))

		_, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: "style.yaml",
			TargetFile: "top.vhd",
			TargetDir:  "/nonexistent",
			Mode:       ModeChdir,
		})
		var dirErr *DirectoryError
		require.ErrorAs(t, err, &dirErr)
		assert.False(t, stub.ran())

		after, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, origDir, after)
	})

	t.Run("restore failure is returned", func(t *testing.T) {
		stub := newStubTool(t, 0)
		vhdlDir, styleFile := newTestTree(t)
		r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))

		t.Cleanup(func() { _ = os.Chdir(origDir) })
		origChdir := chdir
		calls := 0
		chdir = func(dir string) error {
			calls++
			if calls == 2 {
				return errors.New("restore refused")
			}
			return os.Chdir(dir)
		}
		defer func() { chdir = origChdir }()

		_, err := r.Run(context.Background(), Invocation{
			Tool:       stub.path,
			ConfigFile: styleFile,
			TargetFile: "top.vhd",
			TargetDir:  vhdlDir,
			Mode:       ModeChdir,
		})
		var dirErr *DirectoryError
		require.ErrorAs(t, err, &dirErr)
		assert.Equal(t, "restore", dirErr.Op)
		assert.Contains(t, err.Error(), "restore refused")
	})
}

// Start in one directory, run against a VHDL directory and a separate style
// directory, then check the command string and that the working directory is
// where it started, in both modes.
//
//nolint:paralleltest // os.Chdir is used
func TestCLIRunner_RoundTrip(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	home := t.TempDir()
	require.NoError(t, os.Chdir(home))
	start, err := os.Getwd()
	require.NoError(t, err)

	root := t.TempDir()
	vhdlPath := filepath.Join(root, "data", "vhdl")
	yamlPath := filepath.Join(root, "data", "cfg")
	require.NoError(t, os.MkdirAll(vhdlPath, 0o755))
	require.NoError(t, os.MkdirAll(yamlPath, 0o755))
	yamlFile := filepath.Join(yamlPath, "style.yaml")

	stub := newStubTool(t, 0)

	for _, mode := range []Mode{ModeSpawnDir, ModeChdir} {
		t.Run(string(mode), func(t *testing.T) {
			r := NewCLIRunner(newTestLogger(), WithProgress(io.Discard), WithOutput(io.Discard, io.Discard))
			res, err := r.Run(context.Background(), Invocation{
				Tool:       "vsg",
				ConfigFile: yamlFile,
				TargetFile: "top.vhd",
				TargetDir:  vhdlPath,
				Flags:      Flags{Fix: true},
				Mode:       mode,
				DryRun:     true,
			})
			require.NoError(t, err)
			assert.Equal(t, "vsg -c "+yamlFile+" -f top.vhd --fix", res.Command.String())

			res, err = r.Run(context.Background(), Invocation{
				Tool:       stub.path,
				ConfigFile: yamlFile,
				TargetFile: "top.vhd",
				TargetDir:  vhdlPath,
				Flags:      Flags{Fix: true},
				Mode:       mode,
			})
			require.NoError(t, err)

			after, err := os.Getwd()
			require.NoError(t, err)
			assert.Equal(t, start, after)
			assert.Equal(t, start, res.RestoredDir)
		})
	}
}
