package templates

import (
	"fmt"
	"go/types"
	"sort"
	"strconv"
	"strings"
)

// ImportManager assigns package names to the imports of a generated file
// and deduplicates them. Packages whose default name is taken get a
// numbered alias.
type ImportManager struct {
	self    string            // import path of the generated package
	names   map[string]string // path -> name used in the file
	aliased map[string]bool   // path -> name differs from the package name
	taken   map[string]bool
}

// NewImportManager creates an import manager for a file of package self
func NewImportManager(self string, reserved ...string) *ImportManager {
	im := &ImportManager{
		self:    self,
		names:   make(map[string]string),
		aliased: make(map[string]bool),
		taken:   make(map[string]bool),
	}
	for _, name := range reserved {
		im.taken[name] = true
	}
	return im
}

// AddImport registers an import and returns the name to use in code. The
// generated package itself has no name.
func (im *ImportManager) AddImport(path, name string) string {
	if path == im.self {
		return ""
	}
	if existing, ok := im.names[path]; ok {
		return existing
	}

	alias := name
	for i := 2; im.taken[alias]; i++ {
		alias = name + strconv.Itoa(i)
	}

	im.taken[alias] = true
	im.names[path] = alias
	im.aliased[path] = alias != name
	return alias
}

// Qualifier is a types.Qualifier registering every package it sees
func (im *ImportManager) Qualifier(pkg *types.Package) string {
	return im.AddImport(pkg.Path(), pkg.Name())
}

// Imports returns the import specs sorted by path
func (im *ImportManager) Imports() []string {
	paths := make([]string, 0, len(im.names))
	for path := range im.names {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	specs := make([]string, 0, len(paths))
	for _, path := range paths {
		if im.aliased[path] {
			specs = append(specs, fmt.Sprintf("%s %q", im.names[path], path))
			continue
		}
		specs = append(specs, strconv.Quote(path))
	}
	return specs
}

// GenerateImports generates the import section
func (im *ImportManager) GenerateImports() string {
	specs := im.Imports()
	switch len(specs) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("import %s\n", specs[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, spec := range specs {
		result.WriteString(fmt.Sprintf("\t%s\n", spec))
	}
	result.WriteString(")\n")
	return result.String()
}
