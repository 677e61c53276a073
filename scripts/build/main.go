// Package main builds the vsgfix binary into bin/ with the version stamped in.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/vsgfix/internal/app.Version"

func main() {
	ctx := context.Background()

	binaryName := "vsgfix"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := "dev"
	if out, err := exec.CommandContext(ctx, "go", "run", "./scripts/version").Output(); err == nil {
		if v := strings.TrimSpace(string(out)); v != "" {
			version = v
		}
	}

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building vsgfix %s...\n", version)

	cmd := exec.CommandContext(ctx, "go", "build",
		"-ldflags", fmt.Sprintf("-s -w -X %s=%s", versionVar, version),
		"-o", outputPath, "./cmd/vsgfix")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}
