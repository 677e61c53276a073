package runner

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubTool is a shell script standing in for the style fixer. Each run writes
// its working directory followed by one argument per line to the record file.
type stubTool struct {
	path   string
	record string
}

func newStubTool(t *testing.T, exitCode int) *stubTool {
	t.Helper()
	record := filepath.Join(t.TempDir(), "record.txt")
	script := fmt.Sprintf("pwd > %q\nprintf '%%s\\n' \"$@\" >> %q\nexit %d\n", record, record, exitCode)
	return &stubTool{
		path:   writeScript(t, script),
		record: record,
	}
}

// writeScript writes an executable shell script named vsg and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool is a POSIX shell script")
	}
	path := filepath.Join(t.TempDir(), "vsg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o700)) //nolint:gosec // must be executable
	return path
}

func (s *stubTool) ran() bool {
	_, err := os.Stat(s.record)
	return err == nil
}

// lines returns the recorded working directory and arguments.
func (s *stubTool) lines(t *testing.T) (string, []string) {
	t.Helper()
	data, err := os.ReadFile(s.record)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return lines[0], lines[1:]
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func canonical(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return p
}

// newTestTree creates a VHDL directory holding top.vhd and a config directory
// holding style.yaml.
func newTestTree(t *testing.T) (vhdlDir, styleFile string) {
	t.Helper()
	root := t.TempDir()
	vhdlDir = filepath.Join(root, "vhdl")
	cfgDir := filepath.Join(root, "cfg")
	require.NoError(t, os.MkdirAll(vhdlDir, 0o755))
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vhdlDir, "top.vhd"), []byte("entity top is\nend entity;\n"), 0o600))
	styleFile = filepath.Join(cfgDir, "style.yaml")
	require.NoError(t, os.WriteFile(styleFile, []byte("rule: {}\n"), 0o600))
	return vhdlDir, styleFile
}
