package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerListenerTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerListenerTemplates registers the listener registration templates
func (tr *TemplateRegistry) registerListenerTemplates() {
	tr.templates["listeners-file"] = GeneratedHeader + `
// This file was automatically generated and should not be modified manually.

package {{.PackageName}}

{{.Imports}}
// RegisterHelperListeners registers the listeners and subscribers declared in
// this package on the helper event dispatchers of set. Services are located
// by id on first dispatch.
func RegisterHelperListeners(set *{{.Dispatcher}}.Set, services {{.Dispatcher}}.Locator) {
{{- range .Helpers}}
	{{.FuncName}}(set.Dispatcher({{quote .Name}}), services)
{{- end}}
}
{{range .Helpers}}
{{template "helper-func" (helperData $ .)}}
{{end}}`

	tr.templates["helper-func"] = `func {{.Helper.FuncName}}(d *{{.Dispatcher}}.Dispatcher, services {{.Dispatcher}}.Locator) {
{{- range .Helper.Entries}}
	// {{.Comment}}
	d.AddListenerAt({{quote .Event}}, {{$.Dispatcher}}.Lazy(services, {{quote .ServiceID}}, func(service any, event any) error {
		listener, ok := service.({{.ServiceType}})
		if !ok {
			return {{$.Dispatcher}}.UnexpectedService({{quote .ServiceID}}, service, {{quote .ServiceType}})
		}
{{- if .EventType}}
		payload, ok := event.({{.EventType}})
		if !ok {
			return {{$.Dispatcher}}.UnexpectedEvent(event, {{quote .EventType}})
		}
{{- end}}
{{- if .ReturnsError}}
		return listener.{{.Method}}({{.Argument}})
{{- else}}
		listener.{{.Method}}({{.Argument}})
		return nil
{{- end}}
	}), {{.Priority}}, {{.Order}})
{{- end}}
}`
}
