package cli

import (
	"fmt"

	"github.com/gmapkit/gmapwire/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	parser *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{parser: utils.NewGoModParser()}
}

// ResolveModule finds the module enclosing dir
func (r *ModuleResolver) ResolveModule(dir string) (*utils.GoModule, error) {
	goModPath, err := r.parser.FindGoModFile(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to determine module of %s: %w", dir, err)
	}

	module, err := r.parser.ParseModule(goModPath)
	if err != nil {
		return nil, fmt.Errorf("failed to determine module of %s: %w", dir, err)
	}
	return module, nil
}
