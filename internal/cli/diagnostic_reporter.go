package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/gmapkit/gmapwire/internal/annotations"
	"github.com/gmapkit/gmapwire/internal/errors"
	"github.com/gmapkit/gmapwire/internal/models"
	"github.com/gmapkit/gmapwire/pkg/wiring"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
	}
}

// SetOutput redirects the reporter output
func (r *DiagnosticReporter) SetOutput(out io.Writer) {
	r.out = out
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	var (
		annotationErrs *annotations.MultipleAnnotationErrors
		configErr      *wiring.ConfigurationError
		genErr         *models.GeneratorError
		wireErr        errors.WireError
	)

	switch {
	case stderrors.As(err, &annotationErrs):
		r.printHeader("Annotation Error")
		r.reportAnnotationErrors(annotationErrs)
	case stderrors.As(err, &configErr):
		r.printHeader("Wiring Configuration Error")
		r.reportConfigurationError(configErr)
	case stderrors.As(err, &genErr):
		r.printHeader(errorTypeTitle(genErr.Type))
		r.reportGeneratorError(genErr)
	case stderrors.As(err, &wireErr):
		r.printHeader(wireErr.ErrorCode().String())
		fmt.Fprintf(r.out, "Message: %s\n\n", wireErr.Error())
		if len(wireErr.Context()) > 0 {
			r.printContext(wireErr.Context())
		}
		if len(wireErr.Suggestions()) > 0 {
			r.printSuggestions(wireErr.Suggestions())
		}
	default:
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
	}

	if r.verbose {
		r.printErrorChain(err)
	}
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) reportAnnotationErrors(multi *annotations.MultipleAnnotationErrors) {
	for i, annotationErr := range multi.Errors {
		fmt.Fprintf(r.out, "%d. %s: %s\n", i+1, annotationErr.Code(), annotationErr.Location())
		fmt.Fprintf(r.out, "   %s\n", annotationErr.Error())
		if hint := annotationErr.Suggestion(); hint != "" {
			fmt.Fprintf(r.out, "   Hint: %s\n", hint)
		}
	}
	fmt.Fprintf(r.out, "\nAnnotation Syntax Help:\n")
	fmt.Fprintf(r.out, "  - Annotations must start with %s\n", annotations.Prefix)
	fmt.Fprintf(r.out, "  - Annotate struct types only\n")
	fmt.Fprintf(r.out, "  - Values with spaces must be quoted\n")
}

func (r *DiagnosticReporter) reportConfigurationError(configErr *wiring.ConfigurationError) {
	fmt.Fprintf(r.out, "Message: %s\n\n", configErr.Message)

	context := map[string]interface{}{"service_id": configErr.ServiceID}
	if configErr.Helper != "" {
		context["helper"] = configErr.Helper
	}
	r.printContext(context)

	if r.verbose && configErr.Cause != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n\n", configErr.Cause.Error())
	}

	r.printSuggestions([]string{
		"Declare the event with -Event=name on the listener annotation",
		"Or take a specific event type as the first handler parameter",
		"Subscribers must implement wiring.EventSubscriber with constant On/OnEach calls",
	})
}

// reportGeneratorError reports a GeneratorError with its location
func (r *DiagnosticReporter) reportGeneratorError(genErr *models.GeneratorError) {
	fmt.Fprintf(r.out, "Message: %s\n\n", genErr.Message)

	if r.verbose && genErr.Cause != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n\n", genErr.Cause.Error())
	}

	if genErr.File != "" {
		if genErr.Line > 0 {
			fmt.Fprintf(r.out, "Location: %s:%d\n\n", genErr.File, genErr.Line)
		} else {
			fmt.Fprintf(r.out, "File: %s\n\n", genErr.File)
		}
	}

	if genErr.Type == models.ErrorTypeGeneration {
		fmt.Fprintf(r.out, "Handler Requirements:\n")
		fmt.Fprintf(r.out, "  - Take no parameter or only the event\n")
		fmt.Fprintf(r.out, "  - Return nothing or a single error\n")
	}
}

func (r *DiagnosticReporter) printHeader(title string) {
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range sortedKeys(context) {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
	fmt.Fprintf(r.out, "\n")
}

// printErrorChain prints the unwrapped error chain in verbose mode
func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(r.out, "  %d. %T: %s\n", level, err, err.Error())
		err = stderrors.Unwrap(err)
		level++
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func errorTypeTitle(t models.ErrorType) string {
	switch t {
	case models.ErrorTypeAnnotationSyntax:
		return "Annotation Syntax Error"
	case models.ErrorTypeValidation:
		return "Validation Error"
	case models.ErrorTypeGeneration:
		return "Code Generation Error"
	case models.ErrorTypeFileSystem:
		return "File System Error"
	default:
		return "Unknown Error"
	}
}

// PrintPlan writes the registration plan as one table per helper
func PrintPlan(w io.Writer, plan *wiring.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, helper := range plan.Helpers() {
		entries := plan.For(helper)
		fmt.Fprintf(tw, "[%s] %d entries\n", helper, len(entries))
		if len(entries) == 0 {
			continue
		}

		sorted := make([]wiring.RegistrationEntry, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Event < sorted[j].Event })

		fmt.Fprintf(tw, "  EVENT\tSERVICE\tMETHOD\tPRIORITY\tSOURCE\n")
		for _, entry := range sorted {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%s\n", entry.Event, entry.ServiceID, entry.Method, entry.Priority, entry.Source)
		}
	}
	return tw.Flush()
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	ServicesFound     int
	HelpersResolved   int
	EntriesPlanned    int
	GeneratedFiles    []string
}
