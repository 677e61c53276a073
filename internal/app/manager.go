package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/andyballingall/vsgfix/internal/config"
	vfs "github.com/andyballingall/vsgfix/internal/fs"
	"github.com/andyballingall/vsgfix/internal/report"
	"github.com/andyballingall/vsgfix/internal/runner"
	"github.com/andyballingall/vsgfix/internal/watch"
)

// RunOptions are the per-command settings for a run.
type RunOptions struct {
	Overrides config.Overrides
	DryRun    bool
	Verbose   bool
	Format    string
	UseColour bool
}

// Manager sequences style fixer runs.
type Manager interface {
	Fix(ctx context.Context, opts RunOptions) error
	Watch(ctx context.Context, opts RunOptions, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Fix(ctx context.Context, opts RunOptions) error {
	return l.check().Fix(ctx, opts)
}

func (l *LazyManager) Watch(ctx context.Context, opts RunOptions, readyChan chan<- struct{}) error {
	return l.check().Watch(ctx, opts, readyChan)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	cfg            *config.Config
	runner         runner.CommandRunner
	cwd            string
	reporterWriter io.Writer
}

// NewCLIManager creates a CLIManager for the loaded configuration. Relative
// paths given as overrides are resolved against cwd. Violation summaries are
// written to w, or to os.Stdout if w is nil.
func NewCLIManager(l *slog.Logger, cfg *config.Config, r runner.CommandRunner, cwd string, w io.Writer) *CLIManager {
	if w == nil {
		w = os.Stdout
	}
	return &CLIManager{
		logger:         l,
		cfg:            cfg,
		runner:         r,
		cwd:            cwd,
		reporterWriter: w,
	}
}

// resolve returns a copy of the loaded configuration with the overrides
// applied and defaults filled in.
func (m *CLIManager) resolve(o config.Overrides) (*config.Config, error) {
	cfg := *m.cfg
	cfg.Apply(o, m.cwd)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Fix runs the style fixer once.
func (m *CLIManager) Fix(ctx context.Context, opts RunOptions) error {
	cfg, err := m.resolve(opts.Overrides)
	if err != nil {
		return err
	}
	m.logger.Debug("running style fixer", "file", cfg.TargetPath(), "style", cfg.StyleFile(),
		"mode", cfg.DirectoryMode, "dryRun", opts.DryRun)

	return m.runOnce(ctx, cfg, opts)
}

// Watch runs the style fixer once and then again each time the VHDL file or
// the style file changes, until the context is cancelled. If you want to know
// when the watcher is ready to start listening to changes, pass a non-nil
// readyChan to be notified.
func (m *CLIManager) Watch(ctx context.Context, opts RunOptions, readyChan chan<- struct{}) error {
	cfg, err := m.resolve(opts.Overrides)
	if err != nil {
		return err
	}
	m.logger.Debug("watching", "file", cfg.TargetPath(), "style", cfg.StyleFile())

	if err = m.runOnce(ctx, cfg, opts); err != nil {
		var dirErr *runner.DirectoryError
		var toolErr *runner.ToolNotFoundError
		if errors.As(err, &dirErr) || errors.As(err, &toolErr) || ctx.Err() != nil {
			return err
		}
		m.logger.Error("Run failed", "error", err)
	}

	watcher := watch.NewWatcher(m.logger, cfg.TargetPath(), cfg.StyleFile())

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			select {
			case <-watcher.Ready:
			case <-ctx.Done():
				return
			}
			select {
			case readyChan <- struct{}{}:
			case <-ctx.Done():
			}
		}()
	}

	return watcher.Watch(ctx, func(ctx context.Context, e watch.Event) error {
		m.logger.Info("File changed:", "path", e.Path)
		return m.runOnce(ctx, cfg, opts)
	})
}

func (m *CLIManager) runOnce(ctx context.Context, cfg *config.Config, opts RunOptions) error {
	if cfg.JSONReport != "" && !opts.DryRun {
		// A report left by an earlier run must not be mistaken for this one's.
		if err := os.Remove(cfg.JSONReport); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove previous violation report: %w", err)
		}
	}

	res, err := m.runner.Run(ctx, cfg.Invocation(opts.DryRun))
	if err != nil {
		return err
	}
	if res.RestoredDir != "" && !vfs.SamePath(res.OriginalDir, res.RestoredDir) {
		m.logger.Warn("working directory differs after the run", "original", res.OriginalDir, "now", res.RestoredDir)
	}
	if !res.Executed {
		return nil
	}

	if !res.Succeeded() {
		if cfg.FailOnToolError {
			return &ToolFailedError{ExitCode: res.ExitCode, Command: res.Command.String()}
		}
		m.logger.Warn("style fixer reported problems", "exitCode", res.ExitCode)
	}

	if cfg.JSONReport != "" {
		return m.writeReport(cfg.JSONReport, opts)
	}
	return nil
}

func (m *CLIManager) writeReport(path string, opts RunOptions) error {
	s, err := report.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("no violation report was written", "path", path)
		return nil
	}
	if err != nil {
		return err
	}

	var reporter report.Reporter
	switch opts.Format {
	case "json":
		reporter = &report.JSONReporter{}
	default:
		reporter = &report.TextReporter{Verbose: opts.Verbose, UseColour: opts.UseColour}
	}

	if err = reporter.Write(m.reporterWriter, s); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
