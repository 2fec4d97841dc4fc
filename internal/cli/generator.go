package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/tools/go/packages"

	"github.com/gmapkit/gmapwire/internal/errors"
	"github.com/gmapkit/gmapwire/internal/generator"
	"github.com/gmapkit/gmapwire/internal/models"
	"github.com/gmapkit/gmapwire/internal/parser"
	"github.com/gmapkit/gmapwire/internal/typeinfo"
	"github.com/gmapkit/gmapwire/internal/utils"
	"github.com/gmapkit/gmapwire/pkg/wiring"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         parser.AnnotationParser
	diagnostics    *utils.DiagnosticSystem
	planOut        io.Writer
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		parser:         parser.NewParser(),
		diagnostics:    diagnostics,
		planOut:        os.Stdout,
	}
}

// SetPlanOutput sets where the plan is printed in plan-only mode
func (g *Generator) SetPlanOutput(w io.Writer) {
	g.planOut = w
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process: load the packages, collect
// annotated services, resolve the plan and write one file per package.
func (g *Generator) Run(ctx context.Context, config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	if err := config.Validate(); err != nil {
		return errors.Wrap(errors.ConfigurationErrorCode, "invalid configuration", err)
	}

	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning directories: %v", config.Directories)

	patterns, err := g.scanner.Patterns(config.Directories)
	if err != nil {
		return err
	}

	g.diagnostics.StartProgress("Resolving module")
	module, err := g.moduleResolver.ResolveModule(firstDir(patterns))
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return errors.Wrap(errors.LoadErrorCode, "failed to resolve module", err).
			WithSuggestions("Run the generator inside a Go module")
	}
	g.diagnostics.EndProgress(true, module.Path)

	pkgs, err := g.load(ctx, module, config, patterns)
	if err != nil {
		return err
	}

	metadata, err := g.collect(pkgs)
	if err != nil {
		return err
	}

	g.diagnostics.StartProgress("Resolving helper listeners")
	container, err := parser.BuildContainer(metadata, config.Helpers())
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return err
	}

	types := typeinfo.NewResolver(pkgs)
	plan, err := wiring.NewResolver(types, config.ResolverOptions()).Resolve(container)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return errors.WrapResolutionError(err)
	}
	g.summary.HelpersResolved = len(plan.Helpers())
	g.summary.EntriesPlanned = plan.Len()
	g.diagnostics.EndProgress(true, pluralize(plan.Len(), "entry", "entries"))

	for _, helper := range wiring.Helpers {
		if !container.HasDispatcher(helper) {
			g.diagnostics.Verbose("No %s dispatcher, its listeners are not registered", helper)
		}
	}

	if config.PlanOnly {
		return PrintPlan(g.planOut, plan)
	}

	files, err := generator.NewGenerator(types, config.Output).Generate(plan, container, metadata)
	if err != nil {
		return generateError(err)
	}

	g.diagnostics.PhaseHeader("Writing listener files")
	g.diagnostics.Indent()
	for _, file := range files {
		g.diagnostics.PhaseProgress("Writing " + file.FilePath)
		if err := os.WriteFile(file.FilePath, []byte(file.Content), 0644); err != nil {
			g.diagnostics.Unindent()
			return errors.WrapFileSystemError("write", file.FilePath, err)
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	}
	g.diagnostics.Unindent()
	g.diagnostics.Success("Wrote %s", pluralize(len(files), "file", "files"))

	g.diagnostics.Verbose("Generation finished in %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// load loads the packages, hiding stale generated files from the type
// checker
func (g *Generator) load(ctx context.Context, module *utils.GoModule, config Config, patterns []string) ([]*packages.Package, error) {
	stale, err := g.scanner.GeneratedFiles(config.Directories, config.Output)
	if err != nil {
		return nil, err
	}
	for _, path := range stale {
		g.diagnostics.Debug("Ignoring generated file %s", path)
	}

	g.diagnostics.StartProgress("Loading packages")
	pkgs, err := typeinfo.NewLoader(module.Dir).
		WithOverlay(g.scanner.StubOverlay(stale)).
		Load(ctx, patterns...)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return nil, errors.WrapLoadError(patterns, err)
	}
	g.diagnostics.EndProgress(true, pluralize(len(pkgs), "package", "packages"))
	return pkgs, nil
}

// collect parses the annotations of every package. Annotation errors of all
// packages are reported together.
func (g *Generator) collect(pkgs []*packages.Package) ([]*models.PackageMetadata, error) {
	var (
		metadata []*models.PackageMetadata
		failed   *errors.MultipleErrors
	)

	for _, pkg := range pkgs {
		meta, err := g.parser.ParsePackage(pkg)
		if err != nil {
			errors.AddToMultiple(&failed, errors.Wrapf(errors.AnnotationErrorCode, err, "invalid annotations in %s", pkg.PkgPath))
			continue
		}
		g.summary.PackagesProcessed++
		if !meta.HasServices() {
			continue
		}

		g.diagnostics.Verbose("%s: %s", pkg.PkgPath, pluralize(len(meta.Services), "service", "services"))
		g.summary.ServicesFound += len(meta.Services)
		metadata = append(metadata, meta)
	}

	if err := failed.ErrOrNil(); err != nil {
		return nil, err
	}
	if len(metadata) == 0 {
		g.diagnostics.Warn("No annotated services found")
	}
	return metadata, nil
}

// generateError attaches the location of the offending service, when known
func generateError(err error) error {
	wrapped := errors.WrapGenerateError("helper listeners", err)
	var genErr *models.GeneratorError
	if errors.As(err, &genErr) && genErr.File != "" {
		wrapped.WithLocation(errors.SourceLocation{File: genErr.File, Line: genErr.Line})
	}
	return wrapped
}

func firstDir(patterns []string) string {
	if len(patterns) == 0 {
		return "."
	}
	first := filepath.FromSlash(patterns[0])
	if filepath.Base(first) == "..." {
		return filepath.Dir(first)
	}
	return first
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
