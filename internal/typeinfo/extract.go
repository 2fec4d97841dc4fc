package typeinfo

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"

	"github.com/gmapkit/gmapwire/pkg/wiring"
)

// subscriberCall is one recorded On or OnEach call
type subscriberCall struct {
	event    string
	handlers []wiring.Handler
}

// staticSubscriber replays the calls found in a SubscribeEvents body
type staticSubscriber struct {
	calls []subscriberCall
	err   error
}

// SubscribeEvents implements wiring.EventSubscriber
func (s *staticSubscriber) SubscribeEvents(subs *wiring.Subscriptions) {
	for _, call := range s.calls {
		subs.OnEach(call.event, call.handlers...)
	}
}

// ExtractionErr implements wiring.ExtractionError
func (s *staticSubscriber) ExtractionErr() error {
	return s.err
}

// ExtractionError points at the statement that could not be interpreted
type ExtractionError struct {
	Pos token.Position
	Msg string
}

func (e *ExtractionError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

func (r *Resolver) extractSubscriber(named *types.Named) *staticSubscriber {
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(named), true, named.Obj().Pkg(), subscribeMethod)
	fn, ok := obj.(*types.Func)
	if !ok {
		return &staticSubscriber{err: &ExtractionError{Msg: fmt.Sprintf("%s has no %s method", named.Obj().Name(), subscribeMethod)}}
	}

	decl, pkg := r.funcDecl(fn)
	if decl == nil {
		return &staticSubscriber{err: &ExtractionError{
			Msg: fmt.Sprintf("%s.%s is declared outside the loaded packages", QualifiedName(named.Obj()), subscribeMethod),
		}}
	}

	calls, err := newExtractor(pkg, decl).extract()
	return &staticSubscriber{calls: calls, err: err}
}

type extractor struct {
	pkg   *packages.Package
	decl  *ast.FuncDecl
	param types.Object
}

func newExtractor(pkg *packages.Package, decl *ast.FuncDecl) *extractor {
	e := &extractor{pkg: pkg, decl: decl}
	if params := decl.Type.Params.List; len(params) == 1 && len(params[0].Names) == 1 {
		e.param = pkg.TypesInfo.Defs[params[0].Names[0]]
	}
	return e
}

func (e *extractor) errorf(node ast.Node, format string, args ...interface{}) error {
	return &ExtractionError{
		Pos: e.pkg.Fset.Position(node.Pos()),
		Msg: fmt.Sprintf(format, args...),
	}
}

// extract interprets the body. Only calls to On and OnEach on the
// subscriptions parameter with constant arguments are understood.
func (e *extractor) extract() ([]subscriberCall, error) {
	if e.decl.Body == nil {
		return nil, e.errorf(e.decl, "%s has no body", subscribeMethod)
	}

	var calls []subscriberCall
	for i, stmt := range e.decl.Body.List {
		if ret, ok := stmt.(*ast.ReturnStmt); ok && len(ret.Results) == 0 && i == len(e.decl.Body.List)-1 {
			break
		}

		exprStmt, ok := stmt.(*ast.ExprStmt)
		if !ok {
			return nil, e.errorf(stmt, "unsupported statement in %s: only On and OnEach calls are allowed", subscribeMethod)
		}
		call, ok := exprStmt.X.(*ast.CallExpr)
		if !ok {
			return nil, e.errorf(stmt, "unsupported expression in %s", subscribeMethod)
		}

		recorded, err := e.call(call)
		if err != nil {
			return nil, err
		}
		calls = append(calls, recorded)
	}
	return calls, nil
}

func (e *extractor) call(call *ast.CallExpr) (subscriberCall, error) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return subscriberCall{}, e.errorf(call, "unsupported call in %s", subscribeMethod)
	}
	recv, ok := sel.X.(*ast.Ident)
	if !ok || e.param == nil || e.pkg.TypesInfo.Uses[recv] != e.param {
		return subscriberCall{}, e.errorf(call, "calls in %s must target its subscriptions parameter", subscribeMethod)
	}
	if call.Ellipsis.IsValid() {
		return subscriberCall{}, e.errorf(call, "variadic arguments are not supported in %s", subscribeMethod)
	}
	if len(call.Args) == 0 {
		return subscriberCall{}, e.errorf(call, "%s requires an event name", sel.Sel.Name)
	}

	event, err := e.constString(call.Args[0], "event name")
	if err != nil {
		return subscriberCall{}, err
	}
	recorded := subscriberCall{event: event}

	switch sel.Sel.Name {
	case "On":
		if len(call.Args) < 2 || len(call.Args) > 3 {
			return subscriberCall{}, e.errorf(call, "On takes an event, a method and an optional priority")
		}
		handler := wiring.Handler{}
		if handler.Method, err = e.constString(call.Args[1], "method name"); err != nil {
			return subscriberCall{}, err
		}
		if len(call.Args) == 3 {
			if handler.Priority, err = e.constInt(call.Args[2]); err != nil {
				return subscriberCall{}, err
			}
		}
		recorded.handlers = []wiring.Handler{handler}

	case "OnEach":
		for _, arg := range call.Args[1:] {
			handler, err := e.handlerLiteral(arg)
			if err != nil {
				return subscriberCall{}, err
			}
			recorded.handlers = append(recorded.handlers, handler)
		}

	default:
		return subscriberCall{}, e.errorf(call, "unsupported method %s in %s", sel.Sel.Name, subscribeMethod)
	}

	return recorded, nil
}

// handlerLiteral reads a wiring.Handler composite literal with constant fields
func (e *extractor) handlerLiteral(expr ast.Expr) (wiring.Handler, error) {
	lit, ok := ast.Unparen(expr).(*ast.CompositeLit)
	if !ok {
		return wiring.Handler{}, e.errorf(expr, "handlers must be wiring.Handler literals")
	}

	named, ok := types.Unalias(e.pkg.TypesInfo.TypeOf(lit)).(*types.Named)
	if !ok || QualifiedName(named.Obj()) != wiringPath+".Handler" {
		return wiring.Handler{}, e.errorf(expr, "handlers must be wiring.Handler literals")
	}

	var handler wiring.Handler
	for i, elt := range lit.Elts {
		field, value := "", elt
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				return wiring.Handler{}, e.errorf(elt, "invalid wiring.Handler field")
			}
			field, value = key.Name, kv.Value
		} else if i == 0 {
			field = "Method"
		} else {
			field = "Priority"
		}

		var err error
		switch field {
		case "Method":
			handler.Method, err = e.constString(value, "method name")
		case "Priority":
			handler.Priority, err = e.constInt(value)
		default:
			err = e.errorf(elt, "unknown wiring.Handler field %s", field)
		}
		if err != nil {
			return wiring.Handler{}, err
		}
	}
	return handler, nil
}

func (e *extractor) constString(expr ast.Expr, what string) (string, error) {
	tv, ok := e.pkg.TypesInfo.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", e.errorf(expr, "the %s must be a constant string", what)
	}
	return constant.StringVal(tv.Value), nil
}

func (e *extractor) constInt(expr ast.Expr) (int, error) {
	tv, ok := e.pkg.TypesInfo.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.Int {
		return 0, e.errorf(expr, "the priority must be a constant integer")
	}
	n, exact := constant.Int64Val(tv.Value)
	if !exact {
		return 0, e.errorf(expr, "the priority overflows int64")
	}
	return int(n), nil
}
