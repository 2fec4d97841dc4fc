package annotations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Namespace is the annotation namespace following the comment marker
const Namespace = "gmap"

// ParserEngine interface defines the core parsing functionality
type ParserEngine interface {
	ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error)
}

// IsAnnotation reports whether a comment line is a gmap annotation
func IsAnnotation(comment string) bool {
	trimmed := strings.TrimSpace(comment)
	if !strings.HasPrefix(trimmed, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(trimmed[2:]), Namespace+"::")
}

type annotationAST struct {
	Namespace string      `parser:"Comment @Word Separator"`
	Kind      string      `parser:"@Word"`
	Params    []*paramAST `parser:"@@*"`
}

type paramAST struct {
	Pos   lexer.Position
	Name  string    `parser:"'-' @Word"`
	Value *valueAST `parser:"( '=' @@ )?"`
}

type valueAST struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Word   *string `parser:"| @Word"`
}

type valueKind int

const (
	stringValue valueKind = iota
	numberValue
	wordValue
)

type rawValue struct {
	kind valueKind
	text string
}

func (v *valueAST) raw() rawValue {
	switch {
	case v.String != nil:
		return rawValue{kind: stringValue, text: *v.String}
	case v.Number != nil:
		return rawValue{kind: numberValue, text: *v.Number}
	default:
		return rawValue{kind: wordValue, text: *v.Word}
	}
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Number", Pattern: `[-+]?[0-9]+`},
	{Name: "Word", Pattern: `[a-zA-Z_][a-zA-Z0-9_./\-]*`},
	{Name: "Punct", Pattern: `[-=]`},
})

// ParticipleParser parses annotations with alecthomas/participle
type ParticipleParser struct {
	parser    *participle.Parser[annotationAST]
	registry  AnnotationRegistry
	validator SchemaValidator
}

// NewParticipleParser creates a parser validating against registry
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	return &ParticipleParser{
		parser: participle.MustBuild[annotationAST](
			participle.Lexer(annotationLexer),
			participle.Unquote("String"),
			participle.Elide("Whitespace"),
		),
		registry:  registry,
		validator: NewValidator(),
	}
}

// ParseAnnotation parses and validates a single annotation comment
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	ast, err := p.parser.ParseString(location.File, strings.TrimSpace(comment))
	if err != nil {
		return nil, p.syntaxError(err, comment, location)
	}

	if ast.Namespace != Namespace {
		return nil, &SyntaxError{
			Msg:  fmt.Sprintf("invalid annotation prefix '%s::'", ast.Namespace),
			Loc:  location,
			Hint: fmt.Sprintf("Annotations must start with '%s'", Prefix),
		}
	}

	annotationType, err := ParseAnnotationType(ast.Kind)
	if err != nil || (p.registry != nil && !p.registry.IsRegistered(annotationType)) {
		return nil, &SchemaError{
			Msg:  fmt.Sprintf("unknown annotation type '%s'", ast.Kind),
			Loc:  location,
			Hint: syntaxHint(""),
		}
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        comment,
	}

	if p.registry == nil {
		for _, param := range ast.Params {
			if param.Value != nil {
				parsed.Parameters[param.Name] = param.Value.raw().text
			}
		}
		return parsed, nil
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, err
	}

	var errs []AnnotationError
	for _, param := range ast.Params {
		if err := p.convertParameter(parsed, schema, param); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, &MultipleAnnotationErrors{Errors: errs}
	}

	if err := p.validator.Validate(parsed, schema); err != nil {
		return nil, err
	}

	return parsed, nil
}

func (p *ParticipleParser) convertParameter(parsed *ParsedAnnotation, schema AnnotationSchema, param *paramAST) AnnotationError {
	loc := parsed.Location
	loc.Column += param.Pos.Column - 1

	spec, known := schema.Parameters[param.Name]
	switch {
	case !known:
		return &ValidationError{
			Parameter: param.Name,
			Expected:  "known parameter",
			Actual:    fmt.Sprintf("unknown parameter '%s'", param.Name),
			Loc:       loc,
			Hint:      syntaxHint(schema.Type.String()),
		}
	case parsed.HasParameter(param.Name):
		return &SchemaError{
			Msg:  fmt.Sprintf("parameter '%s' is set more than once", param.Name),
			Loc:  loc,
			Hint: fmt.Sprintf("Keep a single -%s", param.Name),
		}
	case param.Value == nil:
		return &ValidationError{
			Parameter: param.Name,
			Expected:  fmt.Sprintf("-%s=<%s>", param.Name, spec.Type),
			Actual:    "no value",
			Loc:       loc,
			Hint:      fmt.Sprintf("Add a value: -%s=<value>", param.Name),
		}
	}

	value, err := convertValue(param.Value.raw(), spec.Type)
	if err != nil {
		return &ValidationError{
			Parameter: param.Name,
			Expected:  spec.Type.String(),
			Actual:    param.Value.raw().text,
			Loc:       loc,
			Hint:      err.Error(),
		}
	}

	parsed.Parameters[param.Name] = value
	return nil
}

func (p *ParticipleParser) syntaxError(err error, comment string, location SourceLocation) error {
	loc := location
	var perr participle.Error
	if errors.As(err, &perr) {
		loc.Column += perr.Position().Column - 1
		err = errors.New(perr.Message())
	}

	kind := ""
	if fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(comment), Prefix)); len(fields) > 0 {
		kind = fields[0]
	}

	return &SyntaxError{
		Msg:  err.Error(),
		Loc:  loc,
		Hint: syntaxHint(kind),
	}
}
