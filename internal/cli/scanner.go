package cli

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmapkit/gmapwire/internal/errors"
	"github.com/gmapkit/gmapwire/internal/templates"
)

// DirectoryScanner turns directory arguments into package patterns and
// finds previously generated files
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// root is a scanned directory and whether it is scanned recursively
type root struct {
	dir       string
	recursive bool
}

// Patterns converts directories into absolute package patterns.
// Supports Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) Patterns(dirs []string) ([]string, error) {
	roots, err := s.roots(dirs)
	if err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(roots))
	for _, r := range roots {
		if r.recursive {
			patterns = append(patterns, filepath.ToSlash(r.dir)+"/...")
			continue
		}
		patterns = append(patterns, filepath.ToSlash(r.dir))
	}
	return patterns, nil
}

// GeneratedFiles returns the generated files named output below dirs.
// Files without the generated code header are left alone.
func (s *DirectoryScanner) GeneratedFiles(dirs []string, output string) ([]string, error) {
	roots, err := s.roots(dirs)
	if err != nil {
		return nil, err
	}

	var found []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] && isGeneratedFile(path) {
			seen[path] = true
			found = append(found, path)
		}
	}

	for _, r := range roots {
		if !r.recursive {
			add(filepath.Join(r.dir, output))
			continue
		}

		err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != r.dir && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() == output {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.WrapFileSystemError("walk", r.dir, err)
		}
	}
	return found, nil
}

// StubOverlay replaces generated files with their package clause, so a
// stale file does not break loading the package it belongs to
func (s *DirectoryScanner) StubOverlay(files []string) map[string][]byte {
	overlay := make(map[string][]byte, len(files))
	for _, path := range files {
		file, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		overlay[path] = []byte(fmt.Sprintf("%s\n\npackage %s\n", templates.GeneratedHeader, file.Name.Name))
	}
	return overlay
}

func (s *DirectoryScanner) roots(dirs []string) ([]root, error) {
	if len(dirs) == 0 {
		dirs = []string{"./..."}
	}

	roots := make([]root, 0, len(dirs))
	for _, dir := range dirs {
		r := root{dir: dir}
		if dir == "..." || strings.HasSuffix(dir, "/...") {
			r.recursive = true
			r.dir = strings.TrimSuffix(strings.TrimSuffix(dir, "..."), "/")
			if r.dir == "" {
				r.dir = "."
			}
		}

		abs, err := filepath.Abs(r.dir)
		if err != nil {
			return nil, errors.WrapWithOperation("resolve", fmt.Sprintf("path %s", r.dir), err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.WrapFileSystemError("stat", abs, err)
		}
		if !info.IsDir() {
			return nil, errors.Newf(errors.FileSystemErrorCode, "%s is not a directory", abs)
		}

		r.dir = abs
		roots = append(roots, r)
	}
	return roots, nil
}

// skipDir reports directories the go tool ignores in ./... patterns
func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isGeneratedFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	buf := make([]byte, len(templates.GeneratedHeader))
	if _, err := io.ReadFull(file, buf); err != nil {
		return false
	}
	return string(buf) == templates.GeneratedHeader
}
