// Package main formats the module in place with gofumpt.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

func main() {
	if _, err := exec.LookPath("gofumpt"); err != nil {
		fmt.Println("gofumpt not found. Install it with: go install mvdan.cc/gofumpt@v0.7.0")
		os.Exit(1)
	}

	fmt.Println("Formatting with gofumpt...")
	cmd := exec.CommandContext(context.Background(), "gofumpt", "-l", "-w", ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Formatting failed: %v\n", err)
		os.Exit(1)
	}
}
