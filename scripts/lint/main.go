// Package main checks formatting with gofumpt and runs golangci-lint.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

func main() {
	ctx := context.Background()
	for _, tool := range []string{"gofumpt", "golangci-lint"} {
		if _, err := exec.LookPath(tool); err != nil {
			fmt.Printf("%s not found on your PATH\n", tool)
			os.Exit(1)
		}
	}

	fmt.Println("Checking formatting with gofumpt...")
	unformatted, err := exec.CommandContext(ctx, "gofumpt", "-l", ".").Output()
	if err != nil {
		fmt.Printf("❌ gofumpt failed: %v\n", err)
		os.Exit(1)
	}
	if len(bytes.TrimSpace(unformatted)) > 0 {
		fmt.Printf("❌ These files need formatting (run scripts/fmt):\n%s", unformatted)
		os.Exit(1)
	}

	fmt.Println("Linting with golangci-lint...")
	cmd := exec.CommandContext(ctx, "golangci-lint", "run", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err = cmd.Run(); err != nil {
		fmt.Printf("❌ Linting failed: %v\n", err)
		os.Exit(1)
	}
}
