package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/gmapkit/gmapwire/internal/annotations"
	"github.com/gmapkit/gmapwire/internal/models"
	"github.com/gmapkit/gmapwire/pkg/wiring"
)

// Parser implements the AnnotationParser interface
type Parser struct {
	fileSet     *token.FileSet
	annotations annotations.ParserEngine
}

// Ensure Parser implements AnnotationParser
var _ AnnotationParser = (*Parser)(nil)

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParticipleParser(annotations.NewDefaultRegistry()),
	}
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(packagePath, filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	services, err := p.ExtractServices(file, filename, packagePath)
	if err != nil {
		return nil, err
	}

	return &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: packagePath,
		Services:    services,
	}, nil
}

// ParsePackage extracts the annotated services of a loaded package. Files
// are visited in name order, declarations in source order.
func (p *Parser) ParsePackage(pkg *packages.Package) (*models.PackageMetadata, error) {
	p.fileSet = pkg.Fset

	metadata := &models.PackageMetadata{
		PackageName: pkg.Name,
		PackagePath: pkg.PkgPath,
	}

	type namedFile struct {
		name string
		file *ast.File
	}
	files := make([]namedFile, 0, len(pkg.Syntax))
	for _, file := range pkg.Syntax {
		files = append(files, namedFile{name: pkg.Fset.Position(file.Package).Filename, file: file})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	if len(files) > 0 {
		metadata.Dir = filepath.Dir(files[0].name)
	}

	var errs []annotations.AnnotationError
	for _, f := range files {
		services, err := p.ExtractServices(f.file, f.name, pkg.PkgPath)
		if err != nil {
			multi, ok := err.(*annotations.MultipleAnnotationErrors)
			if !ok {
				return nil, err
			}
			errs = append(errs, multi.Errors...)
			continue
		}
		metadata.Services = append(metadata.Services, services...)
	}

	if len(errs) > 0 {
		return nil, &annotations.MultipleAnnotationErrors{Errors: errs}
	}
	return metadata, nil
}

// ExtractServices collects the annotated struct types of a file. Every
// annotation error of the file is reported.
func (p *Parser) ExtractServices(file *ast.File, fileName, packagePath string) ([]models.ServiceMetadata, error) {
	var services []models.ServiceMetadata
	var errs []annotations.AnnotationError

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, isStruct := typeSpec.Type.(*ast.StructType); !isStruct {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			if doc == nil {
				continue
			}

			service, found, serviceErrs := p.buildService(doc, typeSpec, fileName, packagePath)
			if len(serviceErrs) > 0 {
				errs = append(errs, serviceErrs...)
				continue
			}
			if found {
				services = append(services, service)
			}
		}
	}

	if len(errs) > 0 {
		return nil, &annotations.MultipleAnnotationErrors{Errors: errs}
	}
	return services, nil
}

func (p *Parser) buildService(doc *ast.CommentGroup, typeSpec *ast.TypeSpec, fileName, packagePath string) (models.ServiceMetadata, bool, []annotations.AnnotationError) {
	pos := p.fileSet.Position(typeSpec.Pos())
	service := models.ServiceMetadata{
		TypeName:    typeSpec.Name.Name,
		PackagePath: packagePath,
		FileName:    fileName,
		Line:        pos.Line,
	}

	var errs []annotations.AnnotationError
	var serviceAnnotation *annotations.ParsedAnnotation
	subscribed := make(map[wiring.HelperCategory]bool)

	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}

		commentPos := p.fileSet.Position(comment.Pos())
		location := annotations.SourceLocation{File: fileName, Line: commentPos.Line, Column: commentPos.Column}

		parsed, err := p.annotations.ParseAnnotation(comment.Text, location)
		if err != nil {
			errs = append(errs, flatten(err, location)...)
			continue
		}

		switch parsed.Type {
		case annotations.ListenerAnnotation:
			helper, _ := wiring.ParseHelperCategory(parsed.GetString(ParamHelper))
			service.Tags = append(service.Tags, wiring.Tag{
				Name:     helper.ListenerTag(),
				Event:    parsed.GetString(ParamEvent),
				Method:   parsed.GetString(ParamMethod),
				Priority: parsed.GetInt(ParamPriority),
			})

		case annotations.SubscriberAnnotation:
			helper, _ := wiring.ParseHelperCategory(parsed.GetString(ParamHelper))
			if subscribed[helper] {
				errs = append(errs, &annotations.SchemaError{
					Msg:  fmt.Sprintf("%s is already a subscriber of helper %s", typeSpec.Name.Name, helper),
					Loc:  location,
					Hint: "Remove the duplicate //gmap::subscriber annotation",
				})
				continue
			}
			subscribed[helper] = true
			service.Tags = append(service.Tags, wiring.Tag{Name: helper.SubscriberTag()})

		case annotations.ServiceAnnotation:
			if serviceAnnotation != nil {
				errs = append(errs, &annotations.SchemaError{
					Msg:  fmt.Sprintf("%s declares more than one service id", typeSpec.Name.Name),
					Loc:  location,
					Hint: "Keep a single //gmap::service annotation",
				})
				continue
			}
			serviceAnnotation = parsed
		}
	}

	if len(errs) > 0 {
		return service, false, errs
	}

	if len(service.Tags) == 0 {
		if serviceAnnotation != nil {
			return service, false, []annotations.AnnotationError{&annotations.SchemaError{
				Msg:  fmt.Sprintf("%s has a service id but no listener or subscriber annotation", typeSpec.Name.Name),
				Loc:  serviceAnnotation.Location,
				Hint: "Add //gmap::listener or //gmap::subscriber, or remove //gmap::service",
			}}
		}
		return service, false, nil
	}

	service.ID = service.ClassName()
	if serviceAnnotation != nil {
		service.ID = serviceAnnotation.GetString(ParamID)
	}
	return service, true, nil
}

func flatten(err error, location annotations.SourceLocation) []annotations.AnnotationError {
	switch e := err.(type) {
	case *annotations.MultipleAnnotationErrors:
		return e.Errors
	case annotations.AnnotationError:
		return []annotations.AnnotationError{e}
	default:
		return []annotations.AnnotationError{&annotations.SyntaxError{Msg: err.Error(), Loc: location}}
	}
}

// BuildContainer registers the services of every package into a container
// declaring a dispatcher for each of the given helpers. Packages are taken
// in import path order.
func BuildContainer(metadata []*models.PackageMetadata, helpers []wiring.HelperCategory) (*wiring.Container, error) {
	sorted := make([]*models.PackageMetadata, len(metadata))
	copy(sorted, metadata)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PackagePath < sorted[j].PackagePath })

	container := wiring.NewContainer()
	container.DefineDispatcher(helpers...)

	for _, pkg := range sorted {
		for _, service := range pkg.Services {
			if err := container.Register(service.Descriptor()); err != nil {
				return nil, &models.GeneratorError{
					Type:    models.ErrorTypeValidation,
					File:    service.FileName,
					Line:    service.Line,
					Message: err.Error(),
					Cause:   err,
				}
			}
		}
	}
	return container, nil
}
