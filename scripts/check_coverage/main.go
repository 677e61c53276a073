// Package main fails when any function outside main packages and scripts is
// below full test coverage, allowing for a few known exceptions.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const module = "github.com/andyballingall/vsgfix/"

// exclusions maps a file:line prefix to the lowest coverage accepted for it.
var exclusions = map[string]float64{
	// os.Getwd only fails if the working directory is deleted under us
	module + "internal/app/root.go": 90.0,
	// fsnotify error and closed channel branches, and io.Copy failing mid-hash
	module + "internal/watch/watcher.go:": 85.0,
}

func main() {
	coverageFile := "coverage.out"
	if len(os.Args) > 1 {
		coverageFile = os.Args[1]
	}

	output, err := exec.CommandContext(context.Background(), "go", "tool", "cover", "-func", coverageFile).Output()
	if err != nil {
		fmt.Printf("❌ Error running go tool cover: %v\n", err)
		os.Exit(1)
	}

	failures, total := parseCoverageOutput(string(output))
	if len(failures) > 0 {
		fmt.Println("❌ Coverage check failed! These functions are below 100% coverage:")
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		os.Exit(1)
	}

	fmt.Println("✅ All non-main functions have 100% coverage!")
	if total != "" {
		fmt.Printf("📊 %s\n", total)
	}
}

func parseCoverageOutput(output string) (failures []string, total string) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[0] == "total:" {
			total = line
			continue
		}
		if strings.Contains(fields[0], "/scripts/") || strings.HasPrefix(fields[0], module+"cmd/") {
			continue
		}

		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "%"), 64)
		if err != nil || pct >= 100.0 || excluded(fields[0], pct) {
			continue
		}
		failures = append(failures, line)
	}
	return failures, total
}

func excluded(location string, pct float64) bool {
	for prefix, threshold := range exclusions {
		if strings.HasPrefix(location, prefix) && pct >= threshold {
			return true
		}
	}
	return false
}
