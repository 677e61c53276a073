package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Ensure the interface is satisfied.
var _ CommandRunner = (*CLIRunner)(nil)

// CLIRunner is the concrete implementation of CommandRunner using os/exec.
type CLIRunner struct {
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
	progress io.Writer
}

// Option configures a CLIRunner.
type Option func(*CLIRunner)

// WithOutput sets the writers that receive the tool's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *CLIRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithProgress sets the writer for the directory and command progress lines.
func WithProgress(w io.Writer) Option {
	return func(r *CLIRunner) {
		r.progress = w
	}
}

// NewCLIRunner creates a new CLIRunner. The tool inherits the process's
// stdout and stderr unless WithOutput is given.
func NewCLIRunner(logger *slog.Logger, opts ...Option) *CLIRunner {
	r := &CLIRunner{
		logger:   logger.With("component", "runner"),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		progress: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *CLIRunner) progressf(format string, args ...any) {
	fmt.Fprintf(r.progress, format+"\n", args...)
}

// Run resolves the target directory, builds the command and executes it.
// If the target directory cannot be resolved, nothing is built or executed
// and the working directory is untouched.
func (r *CLIRunner) Run(ctx context.Context, inv Invocation) (res *Result, err error) {
	original, err := CaptureCurrentDirectory()
	if err != nil {
		return nil, fmt.Errorf("could not read the current working directory: %w", err)
	}
	r.progressf("Current working directory: %s", original)

	res = &Result{OriginalDir: original, ExitCode: -1}

	workDir, err := ResolveDirectory(inv.TargetDir)
	if err != nil {
		return res, err
	}
	res.WorkDir = workDir

	execDir := workDir
	if inv.Mode == ModeChdir {
		if err = ChangeDirectory(workDir); err != nil {
			return res, err
		}
		execDir = ""
		r.progressf("Changing to VHDL file directory: %s", workDir)
	} else {
		r.progressf("Running in VHDL file directory: %s", workDir)
	}

	defer func() {
		if inv.Mode == ModeChdir {
			if rErr := RestoreDirectory(original); rErr != nil && err == nil {
				err = rErr
			}
		}
		if cwd, cErr := CaptureCurrentDirectory(); cErr == nil {
			res.RestoredDir = cwd
		}
		r.progressf("Changing back to directory: %s", res.RestoredDir)
	}()

	cmd := BuildCommand(inv.Tool, inv.ConfigFile, inv.TargetFile, inv.Flags)
	res.Command = cmd
	r.progressf("command: %s", cmd)

	if inv.DryRun {
		r.logger.Debug("dry run: command not executed", "command", cmd.String())
		return res, nil
	}

	code, err := r.Execute(ctx, cmd, execDir)
	if err != nil {
		return res, err
	}
	res.ExitCode = code
	res.Executed = true

	return res, nil
}

// Execute runs cmd in dir and blocks until it exits. An empty dir means the
// process working directory. The exit status is returned with a nil error
// whenever the tool ran; an error means it could not be started or the
// context was cancelled.
func (r *CLIRunner) Execute(ctx context.Context, cmd Command, dir string) (int, error) {
	r.logger.Debug("executing style fixer", "command", cmd.String(), "dir", dir)

	//nolint:gosec // the program and arguments come from the user's own configuration
	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = dir
	c.Stdout = r.stdout
	c.Stderr = r.stderr

	err := c.Run()
	if err == nil {
		return 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Debug("style fixer exited with non-zero status", "code", exitErr.ExitCode())
		return exitErr.ExitCode(), nil
	}

	return -1, &ToolNotFoundError{Tool: cmd.Program, Wrapped: err}
}
