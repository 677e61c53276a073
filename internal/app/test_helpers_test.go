package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/vsgfix/internal/config"
	"github.com/andyballingall/vsgfix/internal/fs"
	"github.com/andyballingall/vsgfix/internal/runner"
	"github.com/andyballingall/vsgfix/internal/validator"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Fix(ctx context.Context, opts RunOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockManager) Watch(ctx context.Context, opts RunOptions, readyChan chan<- struct{}) error {
	args := m.Called(ctx, opts, readyChan)
	return args.Error(0)
}

// fakeRunner is a runner.CommandRunner that records invocations. Unless
// runFunc is set, each run reports the configured exit code.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []runner.Invocation
	exitCode int
	err      error
	runFunc  func(inv runner.Invocation) (*runner.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, inv runner.Invocation) (*runner.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inv)
	f.mu.Unlock()

	if f.runFunc != nil {
		return f.runFunc(inv)
	}
	if f.err != nil {
		return nil, f.err
	}
	cmd := runner.BuildCommand(inv.Tool, inv.ConfigFile, inv.TargetFile, inv.Flags)
	return &runner.Result{Command: cmd, ExitCode: f.exitCode, Executed: !inv.DryRun}, nil
}

func (f *fakeRunner) invocations() []runner.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Invocation(nil), f.calls...)
}

// reportingRunner returns a fakeRunner that writes content to the requested
// JSON report path, as vsg -js does.
func reportingRunner(t *testing.T, content string) *fakeRunner {
	t.Helper()
	return &fakeRunner{runFunc: func(inv runner.Invocation) (*runner.Result, error) {
		if err := os.WriteFile(inv.Flags.JSONReport, []byte(content), 0o600); err != nil {
			return nil, err
		}
		cmd := runner.BuildCommand(inv.Tool, inv.ConfigFile, inv.TargetFile, inv.Flags)
		return &runner.Result{Command: cmd, Executed: true}, nil
	}}
}

// testTree is a VHDL file, a style file and a vsgfix.yml pointing at both.
type testTree struct {
	root       string
	vhdlDir    string
	styleDir   string
	configPath string
}

func (tt testTree) target() string {
	return filepath.Join(tt.vhdlDir, "top.vhd")
}

func (tt testTree) style() string {
	return filepath.Join(tt.styleDir, config.DefaultStyleFile)
}

func newTestTree(t *testing.T, extraConfig string) testTree {
	t.Helper()
	root := t.TempDir()
	tt := testTree{
		root:       root,
		vhdlDir:    filepath.Join(root, "rtl"),
		styleDir:   filepath.Join(root, "style"),
		configPath: filepath.Join(root, config.ConfigFileName),
	}
	require.NoError(t, os.MkdirAll(tt.vhdlDir, 0o755))
	require.NoError(t, os.MkdirAll(tt.styleDir, 0o755))
	require.NoError(t, os.WriteFile(tt.target(), []byte("entity top is end;\n"), 0o600))
	require.NoError(t, os.WriteFile(tt.style(), []byte("rule: {}\n"), 0o600))

	cfg := "vhdlFile: top.vhd\nvhdlPath: rtl\nyamlPath: style\n" + extraConfig
	require.NoError(t, os.WriteFile(tt.configPath, []byte(cfg), 0o600))
	return tt
}

// loadTestConfig loads the tree's vsgfix.yml as the root command would.
func loadTestConfig(t *testing.T, tt testTree) *config.Config {
	t.Helper()
	cfg, err := config.Load(tt.configPath, true, validator.NewSanthoshCompiler())
	require.NoError(t, err)
	return cfg
}

func newTestManager(t *testing.T, cfg *config.Config, r runner.CommandRunner) (*CLIManager, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewCLIManager(logger, cfg, r, t.TempDir(), &out), &out, &logs
}

// testEnv isolates a Run from the real environment and sends the log file to
// a temporary directory.
func testEnv(t *testing.T, values map[string]string) fs.MapEnvProvider {
	t.Helper()
	env := fs.MapEnvProvider{LogEnvVar: filepath.Join(t.TempDir(), LogFile)}
	for k, v := range values {
		env[k] = v
	}
	return env
}

// writeStubTool writes an executable shell script that stands in for vsg. It
// prints its working directory and arguments, then exits with exitCode.
func writeStubTool(t *testing.T, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool is a shell script")
	}
	path := filepath.Join(t.TempDir(), "vsg")
	script := fmt.Sprintf("#!/bin/sh\necho \"stub pwd: $(pwd)\"\necho \"stub args: $*\"\nexit %d\n", exitCode)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700)) //nolint:gosec // must be executable
	return path
}
