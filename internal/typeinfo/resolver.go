package typeinfo

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/gmapkit/gmapwire/pkg/wiring"
)

const (
	wiringPath          = "github.com/gmapkit/gmapwire/pkg/wiring"
	subscriberInterface = "EventSubscriber"
	subscribeMethod     = "SubscribeEvents"
)

// Handler describes the Go signature of a handler method
type Handler struct {
	Name string

	// Params holds the declared parameter types
	Params []types.Type

	// ReturnsError is set when the single result is error
	ReturnsError bool

	// Results is the number of results
	Results int
}

// Resolver implements wiring.TypeResolver over loaded packages
type Resolver struct {
	mu       sync.Mutex
	packages map[string]*packages.Package
	classes  map[string]*wiring.Class
}

// Ensure Resolver implements wiring.TypeResolver
var _ wiring.TypeResolver = (*Resolver)(nil)

// NewResolver indexes pkgs by import path
func NewResolver(pkgs []*packages.Package) *Resolver {
	r := &Resolver{
		packages: make(map[string]*packages.Package),
		classes:  make(map[string]*wiring.Class),
	}
	for _, pkg := range pkgs {
		r.packages[pkg.PkgPath] = pkg
	}
	return r
}

// QualifiedName returns the class name of a named type (import/path.TypeName)
func QualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// SplitName splits a class name into its import path and type name
func SplitName(name string) (pkgPath, typeName string, ok bool) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

// Package returns the loaded package with the given import path
func (r *Resolver) Package(path string) (*packages.Package, bool) {
	pkg, ok := r.packages[path]
	return pkg, ok
}

// Named returns the named type of a class together with its package
func (r *Resolver) Named(name string) (*types.Named, *packages.Package, error) {
	pkgPath, typeName, ok := SplitName(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q is not a qualified type name", wiring.ErrClassNotFound, name)
	}

	pkg, exists := r.packages[pkgPath]
	if !exists || pkg.Types == nil {
		return nil, nil, fmt.Errorf("%w: package %s is not loaded", wiring.ErrClassNotFound, pkgPath)
	}

	obj, isType := pkg.Types.Scope().Lookup(typeName).(*types.TypeName)
	if !isType {
		return nil, nil, fmt.Errorf("%w: %s", wiring.ErrClassNotFound, name)
	}

	named, isNamed := types.Unalias(obj.Type()).(*types.Named)
	if !isNamed {
		return nil, nil, fmt.Errorf("%w: %s is not a named type", wiring.ErrClassNotFound, name)
	}
	return named, pkg, nil
}

// Class implements wiring.TypeResolver
func (r *Resolver) Class(name string) (*wiring.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if class, cached := r.classes[name]; cached {
		return class, nil
	}

	named, pkg, err := r.Named(name)
	if err != nil {
		return nil, err
	}

	class := &wiring.Class{
		Name:    name,
		Methods: make(map[string]wiring.Method),
	}

	methods := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < methods.Len(); i++ {
		fn, ok := methods.At(i).Obj().(*types.Func)
		if !ok {
			continue
		}
		sig := fn.Type().(*types.Signature)

		method := wiring.Method{Name: fn.Name()}
		for j := 0; j < sig.Params().Len(); j++ {
			method.Params = append(method.Params, paramType(sig.Params().At(j).Type()))
		}
		class.Methods[fn.Name()] = method
	}

	if r.implementsSubscriber(named, pkg) {
		class.Subscriber = r.extractSubscriber(named)
	}

	r.classes[name] = class
	return class, nil
}

// Handler returns the Go signature of a method of a class
func (r *Resolver) Handler(class, method string) (*Handler, error) {
	named, _, err := r.Named(class)
	if err != nil {
		return nil, err
	}

	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(named), true, named.Obj().Pkg(), method)
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil, fmt.Errorf("type %s has no method %s", class, method)
	}

	sig := fn.Type().(*types.Signature)
	handler := &Handler{Name: method, Results: sig.Results().Len()}
	for i := 0; i < sig.Params().Len(); i++ {
		handler.Params = append(handler.Params, sig.Params().At(i).Type())
	}
	if sig.Results().Len() == 1 {
		handler.ReturnsError = types.Identical(sig.Results().At(0).Type(), types.Universe.Lookup("error").Type())
	}
	return handler, nil
}

// paramType describes a parameter type the way the resolver expects:
// pointers stripped, predeclared and unnamed types marked builtin.
func paramType(t types.Type) wiring.ParamType {
	t = types.Unalias(t)
	for {
		ptr, ok := t.(*types.Pointer)
		if !ok {
			break
		}
		t = types.Unalias(ptr.Elem())
	}

	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return wiring.ParamType{Name: types.TypeString(t, nil), Builtin: true}
	}
	return wiring.ParamType{Name: QualifiedName(named.Obj())}
}

// implementsSubscriber checks the type against wiring.EventSubscriber. The
// interface is found through the loaded packages or the imports of pkg,
// so a type embedding a subscriber from another package qualifies.
func (r *Resolver) implementsSubscriber(named *types.Named, pkg *packages.Package) bool {
	iface := r.subscriberInterface(pkg.Types)
	if iface == nil {
		return false
	}
	return types.Implements(named, iface) || types.Implements(types.NewPointer(named), iface)
}

func (r *Resolver) subscriberInterface(pkg *types.Package) *types.Interface {
	if loaded, ok := r.packages[wiringPath]; ok && loaded.Types != nil {
		return interfaceNamed(loaded.Types, subscriberInterface)
	}

	seen := map[*types.Package]bool{pkg: true}
	queue := []*types.Package{pkg}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.Path() == wiringPath {
			return interfaceNamed(current, subscriberInterface)
		}
		for _, imported := range current.Imports() {
			if !seen[imported] {
				seen[imported] = true
				queue = append(queue, imported)
			}
		}
	}
	return nil
}

func interfaceNamed(pkg *types.Package, name string) *types.Interface {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return nil
	}
	iface, _ := obj.Type().Underlying().(*types.Interface)
	return iface
}

// funcDecl finds the syntax of a method among the loaded packages
func (r *Resolver) funcDecl(fn *types.Func) (*ast.FuncDecl, *packages.Package) {
	if fn.Pkg() == nil {
		return nil, nil
	}
	pkg, ok := r.packages[fn.Pkg().Path()]
	if !ok {
		return nil, nil
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil {
				continue
			}
			if pkg.TypesInfo.Defs[fd.Name] == fn {
				return fd, pkg
			}
		}
	}
	return nil, nil
}
