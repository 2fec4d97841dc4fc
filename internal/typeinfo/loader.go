// Package typeinfo loads Go packages and answers class metadata queries
// from go/types, without running any of the loaded code.
package typeinfo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the information loaded for every package
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// Loader loads packages with golang.org/x/tools/go/packages
type Loader struct {
	dir     string
	env     []string
	overlay map[string][]byte
}

// NewLoader creates a loader resolving patterns relative to dir
func NewLoader(dir string, env ...string) *Loader {
	return &Loader{dir: dir, env: env}
}

// WithOverlay replaces the content of the given absolute file paths while
// loading
func (l *Loader) WithOverlay(overlay map[string][]byte) *Loader {
	l.overlay = overlay
	return l
}

// Load loads the packages matching patterns. Packages with parse or type
// errors fail the whole load.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     l.dir,
	}
	if len(l.env) > 0 {
		cfg.Env = l.env
	}
	if len(l.overlay) > 0 {
		cfg.Overlay = l.overlay
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %s: %w", strings.Join(patterns, " "), err)
	}

	var problems []string
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			problems = append(problems, pkgErr.Error())
		}
	}
	if len(problems) > 0 {
		return nil, &LoadError{Problems: problems}
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
	return pkgs, nil
}

// LoadError lists the package errors reported by the go tool
type LoadError struct {
	Problems []string
}

func (e *LoadError) Error() string {
	if len(e.Problems) == 1 {
		return "package error: " + e.Problems[0]
	}
	return fmt.Sprintf("%d package errors:\n  %s", len(e.Problems), strings.Join(e.Problems, "\n  "))
}
