package templates

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"golang.org/x/tools/imports"
)

const (
	// EventDispatcherPath is the import path of the runtime dispatcher
	EventDispatcherPath = "github.com/gmapkit/gmapwire/pkg/eventdispatcher"

	// GeneratedHeader is the first line of every generated file
	GeneratedHeader = "// Code generated by gmapwire. DO NOT EDIT."
)

// EntryData is one AddListenerAt call
type EntryData struct {
	Event     string
	ServiceID string
	Priority  int
	Order     int // position of the entry in the helper's plan

	ServiceType string // asserted type of the located service, e.g. *Listener
	Method      string
	EventType   string // asserted type of the payload, empty when not asserted
	Argument    string // handler argument: empty, "event" or "payload"

	ReturnsError bool
	Comment      string
}

// HelperData is the registration function of one helper
type HelperData struct {
	Name     string
	FuncName string
	Entries  []EntryData
}

// ListenersFileData is the input of the listeners file template
type ListenersFileData struct {
	PackageName string
	Imports     string
	Dispatcher  string // name of the eventdispatcher import
	Helpers     []HelperData
}

type helperFuncData struct {
	Dispatcher string
	Helper     HelperData
}

var funcMap = template.FuncMap{
	"quote": strconv.Quote,
	"helperData": func(file ListenersFileData, helper HelperData) helperFuncData {
		return helperFuncData{Dispatcher: file.Dispatcher, Helper: helper}
	},
}

// GenerateListenersFile renders the listeners file and formats it with
// goimports. Imports are managed by the caller.
func GenerateListenersFile(fileName string, data ListenersFileData) (string, error) {
	registry := NewTemplateRegistry()

	tmpl, err := template.New("listeners-file").Funcs(funcMap).Parse(registry.MustGet("listeners-file"))
	if err != nil {
		return "", fmt.Errorf("failed to parse listeners template: %w", err)
	}
	if _, err := tmpl.New("helper-func").Parse(registry.MustGet("helper-func")); err != nil {
		return "", fmt.Errorf("failed to parse helper template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute listeners template: %w", err)
	}

	formatted, err := imports.Process(fileName, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format generated code: %w\n%s", err, buf.String())
	}
	return string(formatted), nil
}
