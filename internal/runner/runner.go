// Package runner runs the VHDL style fixer against a single file with a
// chosen working directory, leaving the caller's working directory as it was.
package runner

import (
	"context"
	"strings"
)

// DefaultTool is the style fixer executable used when none is configured.
const DefaultTool = "vsg"

// Flags understood by the style fixer.
const (
	ConfigFlag     = "-c"
	FileFlag       = "-f"
	FixFlag        = "--fix"
	JSONReportFlag = "-js"
)

// Mode selects how the target directory is applied to a run.
type Mode string

const (
	// ModeSpawnDir sets the directory on the child process only. The calling
	// process never changes directory.
	ModeSpawnDir Mode = "spawn"
	// ModeChdir changes the process working directory for the duration of the
	// run and restores it on every exit path.
	ModeChdir Mode = "chdir"
)

// Flags is the set of optional style fixer flags.
type Flags struct {
	Fix        bool
	JSONReport string // If set, the tool writes its violations to this JSON file
}

// Command is a program and its discrete argument list.
type Command struct {
	Program string
	Args    []string
}

// String renders the command joined by single spaces. Nothing is quoted: the
// result is for display only and is never handed to a shell.
func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// Invocation describes a single run of the style fixer.
type Invocation struct {
	Tool       string
	ConfigFile string
	TargetFile string
	TargetDir  string
	Flags      Flags
	Mode       Mode
	DryRun     bool // Build and print the command without executing it
}

// Result records what happened during a run.
type Result struct {
	Command     Command
	OriginalDir string
	WorkDir     string
	RestoredDir string
	ExitCode    int
	Executed    bool
}

// Succeeded reports whether the tool ran and exited with status zero.
func (r *Result) Succeeded() bool {
	return r != nil && r.Executed && r.ExitCode == 0
}

// CommandRunner runs an Invocation.
type CommandRunner interface {
	// Run executes the invocation and reports the tool's exit status in the
	// Result. A non-zero exit status is not an error.
	Run(ctx context.Context, inv Invocation) (*Result, error)
}
