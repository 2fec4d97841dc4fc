package generator

import (
	"fmt"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/gmapkit/gmapwire/internal/models"
	"github.com/gmapkit/gmapwire/internal/templates"
	"github.com/gmapkit/gmapwire/internal/typeinfo"
	"github.com/gmapkit/gmapwire/pkg/wiring"
)

// DefaultOutput is the name of the generated file in each package
const DefaultOutput = "autogen_listeners.go"

// reserved are the identifiers used by the generated code itself
var reserved = []string{"d", "set", "services", "service", "event", "listener", "payload", "ok"}

// Generator writes one listeners file per package declaring services
type Generator struct {
	handlers HandlerSource
	output   string
}

// Ensure Generator implements CodeGenerator
var _ CodeGenerator = (*Generator)(nil)

// NewGenerator creates a generator. An empty output uses DefaultOutput.
func NewGenerator(handlers HandlerSource, output string) *Generator {
	if output == "" {
		output = DefaultOutput
	}
	return &Generator{handlers: handlers, output: output}
}

// orderedEntry is a plan entry with its position in the helper's plan
type orderedEntry struct {
	wiring.RegistrationEntry
	order int
}

type packageEntries struct {
	metadata *models.PackageMetadata
	helpers  map[wiring.HelperCategory][]orderedEntry
	count    int
}

// Generate renders the registration plan. Entries are grouped by the
// package declaring the service type and carry their plan position, so
// equal priorities keep the plan order whatever order the packages are
// registered in. Every package with services gets a file, even when none
// of its services ended up in the plan.
func (g *Generator) Generate(plan *wiring.Plan, container *wiring.Container, pkgs []*models.PackageMetadata) ([]*models.GeneratedFile, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}

	byPath := make(map[string]*packageEntries)
	for _, pkg := range pkgs {
		if !pkg.HasServices() {
			continue
		}
		byPath[pkg.PackagePath] = &packageEntries{
			metadata: pkg,
			helpers:  make(map[wiring.HelperCategory][]orderedEntry),
		}
	}

	for _, helper := range plan.Helpers() {
		for order, entry := range plan.For(helper) {
			group, err := groupOf(byPath, container, entry)
			if err != nil {
				return nil, err
			}
			group.helpers[helper] = append(group.helpers[helper], orderedEntry{RegistrationEntry: entry, order: order})
			group.count++
		}
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	files := make([]*models.GeneratedFile, 0, len(paths))
	for _, path := range paths {
		file, err := g.generatePackage(plan.Helpers(), container, byPath[path])
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func groupOf(byPath map[string]*packageEntries, container *wiring.Container, entry wiring.RegistrationEntry) (*packageEntries, error) {
	service, ok := container.Service(entry.ServiceID)
	if !ok {
		return nil, generationError("", 0, fmt.Sprintf("service %q of the plan is not registered", entry.ServiceID), nil)
	}
	pkgPath, _, ok := typeinfo.SplitName(service.Class)
	if !ok {
		return nil, generationError("", 0, fmt.Sprintf("service %q has no type", entry.ServiceID), nil)
	}
	group, ok := byPath[pkgPath]
	if !ok {
		return nil, generationError("", 0, fmt.Sprintf("package %s of service %q was not scanned", pkgPath, entry.ServiceID), nil)
	}
	return group, nil
}

func (g *Generator) generatePackage(helpers []wiring.HelperCategory, container *wiring.Container, group *packageEntries) (*models.GeneratedFile, error) {
	pkg := group.metadata
	im := templates.NewImportManager(pkg.PackagePath, reserved...)

	data := templates.ListenersFileData{
		PackageName: pkg.PackageName,
		Dispatcher:  im.AddImport(templates.EventDispatcherPath, "eventdispatcher"),
	}

	for _, helper := range helpers {
		entries := group.helpers[helper]
		if len(entries) == 0 {
			continue
		}

		helperData := templates.HelperData{
			Name:     helper.String(),
			FuncName: HelperFuncName(helper),
		}
		for _, entry := range entries {
			service, _ := container.Service(entry.ServiceID)
			entryData, err := g.entryData(im, service, entry, pkg)
			if err != nil {
				return nil, err
			}
			helperData.Entries = append(helperData.Entries, entryData)
		}
		data.Helpers = append(data.Helpers, helperData)
	}

	data.Imports = im.GenerateImports()

	filePath := filepath.Join(pkg.Dir, g.output)
	content, err := templates.GenerateListenersFile(filePath, data)
	if err != nil {
		return nil, generationError(filePath, 0, "failed to generate listeners file", err)
	}

	return &models.GeneratedFile{
		PackageName: pkg.PackageName,
		PackagePath: pkg.PackagePath,
		FilePath:    filePath,
		Content:     content,
		Entries:     group.count,
	}, nil
}

func (g *Generator) entryData(im *templates.ImportManager, service wiring.ServiceDescriptor, entry orderedEntry, pkg *models.PackageMetadata) (templates.EntryData, error) {
	_, typeName, _ := typeinfo.SplitName(service.Class)
	file, line := serviceLocation(pkg, service.ID)

	handler, err := g.handlers.Handler(service.Class, entry.Method)
	if err != nil {
		return templates.EntryData{}, generationError(file, line, fmt.Sprintf("service %q: %v", service.ID, err), err)
	}

	if len(handler.Params) > 1 {
		return templates.EntryData{}, generationError(file, line,
			fmt.Sprintf("%s.%s takes %d parameters, handlers take at most the event", typeName, entry.Method, len(handler.Params)), nil)
	}
	if handler.Results > 1 || (handler.Results == 1 && !handler.ReturnsError) {
		return templates.EntryData{}, generationError(file, line,
			fmt.Sprintf("%s.%s must return nothing or an error", typeName, entry.Method), nil)
	}

	data := templates.EntryData{
		Event:        entry.Event,
		ServiceID:    entry.ServiceID,
		Priority:     entry.Priority,
		Order:        entry.order,
		ServiceType:  "*" + typeName,
		Method:       entry.Method,
		ReturnsError: handler.ReturnsError,
		Comment:      fmt.Sprintf("%s.%s (%s)", typeName, entry.Method, entry.Source),
	}
	data.EventType, data.Argument = eventArgument(im, handler)
	return data, nil
}

// eventArgument returns the type the dispatched event is asserted to and
// the argument passed to the handler. Empty interfaces take the event as is.
func eventArgument(im *templates.ImportManager, handler *typeinfo.Handler) (eventType, argument string) {
	if len(handler.Params) == 0 {
		return "", ""
	}
	param := handler.Params[0]
	if iface, ok := param.Underlying().(*types.Interface); ok && iface.Empty() {
		return "", "event"
	}
	return types.TypeString(param, im.Qualifier), "payload"
}

// HelperFuncName returns the name of the generated registration function
// of a helper, e.g. registerPlaceAutocompleteListeners
func HelperFuncName(helper wiring.HelperCategory) string {
	return "register" + strcase.ToCamel(strings.ReplaceAll(helper.String(), ".", "_")) + "Listeners"
}

func serviceLocation(pkg *models.PackageMetadata, id string) (string, int) {
	for _, service := range pkg.Services {
		if service.ID == id {
			return service.FileName, service.Line
		}
	}
	return "", 0
}

func generationError(file string, line int, message string, cause error) error {
	return &models.GeneratorError{
		Type:    models.ErrorTypeGeneration,
		File:    file,
		Line:    line,
		Message: message,
		Cause:   cause,
	}
}
