// Package main removes build output, logs and test artefacts.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	dirs     = []string{"bin"}
	patterns = []string{".vsgfix.log", "vsg-report.json", "coverage*", "*.out", "*.test", "*.coverprofile"}
)

func main() {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			fmt.Printf("❌ Failed to remove dir %s: %v\n", dir, err)
			continue
		}
		fmt.Printf("✅ Removed dir %s\n", dir)
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil {
				fmt.Printf("❌ Failed to remove %s: %v\n", match, err)
				continue
			}
			fmt.Printf("✅ Removed %s\n", match)
		}
	}
}
