package parser

import (
	"go/ast"

	"golang.org/x/tools/go/packages"

	"github.com/gmapkit/gmapwire/internal/models"
)

// AnnotationParser extracts annotated services from Go sources
type AnnotationParser interface {
	ParsePackage(pkg *packages.Package) (*models.PackageMetadata, error)
	ExtractServices(file *ast.File, fileName, packagePath string) ([]models.ServiceMetadata, error)
}
