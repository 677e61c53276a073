// Package main prints the version derived from the nearest git tag, or "dev".
package main

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

func main() {
	out, err := exec.CommandContext(context.Background(), "git", "describe", "--tags", "--always", "--dirty").Output()
	version := strings.TrimSpace(string(out))
	if err != nil || version == "" {
		version = "dev"
	}
	fmt.Print(version)
}
