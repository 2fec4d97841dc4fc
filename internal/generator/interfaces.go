package generator

import (
	"github.com/gmapkit/gmapwire/internal/models"
	"github.com/gmapkit/gmapwire/internal/typeinfo"
	"github.com/gmapkit/gmapwire/pkg/wiring"
)

// CodeGenerator defines the interface for generating listener registration
// code from a resolved registration plan
type CodeGenerator interface {
	Generate(plan *wiring.Plan, container *wiring.Container, pkgs []*models.PackageMetadata) ([]*models.GeneratedFile, error)
}

// HandlerSource describes the Go signature of service methods
type HandlerSource interface {
	Handler(class, method string) (*typeinfo.Handler, error)
}
