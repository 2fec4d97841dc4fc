// Package staticmap exposes the static map renderer to template engines.
//
// The renderer output is HTML produced by the map library itself, so the
// registered function marks it as safe and engines do not escape it again.
package staticmap

import (
	"errors"
	"html/template"

	"github.com/flosch/pongo2/v6"
)

// FunctionName is the name of the template function
const FunctionName = "ivory_google_map_static"

// Renderer renders a static map model into HTML
type Renderer[M any] interface {
	Render(m M) (string, error)
}

// RendererFunc adapts a function to Renderer
type RendererFunc[M any] func(m M) (string, error)

// Render implements Renderer
func (f RendererFunc[M]) Render(m M) (string, error) {
	return f(m)
}

// Extension registers the static map function on template engines
type Extension[M any] struct {
	renderer Renderer[M]
}

// NewExtension creates an extension delegating to renderer
func NewExtension[M any](renderer Renderer[M]) (*Extension[M], error) {
	if renderer == nil {
		return nil, errors.New("staticmap: renderer cannot be nil")
	}
	return &Extension[M]{renderer: renderer}, nil
}

// Name returns the extension name
func (e *Extension[M]) Name() string {
	return FunctionName
}

// Render renders m unchanged. Renderer errors are returned as is.
func (e *Extension[M]) Render(m M) (template.HTML, error) {
	out, err := e.renderer.Render(m)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

// FuncMap returns the html/template functions of the extension
func (e *Extension[M]) FuncMap() template.FuncMap {
	return template.FuncMap{
		FunctionName: e.Render,
	}
}

// PongoFunctions returns the pongo2 globals of the extension
func (e *Extension[M]) PongoFunctions() pongo2.Context {
	return pongo2.Context{
		FunctionName: e.renderPongo,
	}
}

// RegisterPongo adds the extension functions to the globals of set
func (e *Extension[M]) RegisterPongo(set *pongo2.TemplateSet) error {
	if set == nil {
		return errors.New("staticmap: template set cannot be nil")
	}
	if set.Globals == nil {
		set.Globals = make(pongo2.Context)
	}
	set.Globals.Update(e.PongoFunctions())
	return nil
}

func (e *Extension[M]) renderPongo(m M) (*pongo2.Value, error) {
	out, err := e.renderer.Render(m)
	if err != nil {
		return nil, err
	}
	return pongo2.AsSafeValue(out), nil
}
