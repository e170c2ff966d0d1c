// Command check-source walks the repository and parses every Go source
// file, reporting syntax errors. Useful as a cheap pre-commit gate.
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var skipDirs = map[string]bool{
	".git":    true,
	"vendor":  true,
	"cdk.out": true,
}

func main() {
	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	files, err := findGoFiles(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("🔍 Checking %d Go files...\n\n", len(files))

	failures := 0
	fset := token.NewFileSet()
	for _, file := range files {
		if _, err := parser.ParseFile(fset, file, nil, parser.AllErrors); err != nil {
			failures++
			fmt.Printf("❌ %s\n   %v\n", file, err)
			continue
		}
		fmt.Printf("✓ %s\n", file)
	}

	fmt.Println()
	if failures > 0 {
		fmt.Printf("❌ %d of %d files failed to parse\n", failures, len(files))
		os.Exit(1)
	}
	fmt.Printf("✅ All %d files parse cleanly\n", len(files))
}

func findGoFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if skipDirs[name] || (strings.HasPrefix(name, "_") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
