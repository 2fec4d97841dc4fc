package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/gmapkit/gmapwire/internal/cli"
	"github.com/gmapkit/gmapwire/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the generator and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("gmapwire", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configFlag  = flags.String("config", "", "Path to the YAML configuration (defaults to ./"+cli.DefaultConfigFile+" when present)")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flags.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flags.Bool("clean", false, "Delete the generated listener files from the specified directories")
		planFlag    = flags.Bool("plan", false, "Print the registration plan without writing files")
		helpFlag    = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: gmapwire [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "gmapwire Helper Listener Generator\n")
		fmt.Fprintf(stderr, "Scans Go packages for //gmap:: annotations and generates the helper event dispatcher wiring.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  gmapwire ./...                       # Generate for every package\n")
		fmt.Fprintf(stderr, "  gmapwire -plan ./internal/maps/...   # Show what would be registered\n")
		fmt.Fprintf(stderr, "  gmapwire -config maps.yaml ./...     # Use another configuration file\n")
		fmt.Fprintf(stderr, "  gmapwire -clean ./...                # Delete generated files\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	dirs := flags.Args()
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		flags.Usage()
		return 1
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag || *planFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.WithWriters(stdout, stderr)

	configPath, required := *configFlag, *configFlag != ""
	if !required {
		configPath = cli.DefaultConfigFile
	}
	config, err := cli.LoadConfig(configPath, required)
	if err != nil {
		diagnostics.Error("%v", err)
		return 1
	}
	config.Directories = dirs
	config.Verbose = *verboseFlag
	config.PlanOnly = *planFlag

	diagnostics.Section("gmapwire")

	if *cleanFlag {
		diagnostics.StartProgress("Cleaning generated files")
		removed, err := cli.NewCleaner().CleanGeneratedFiles(dirs, config.Output)
		if err != nil {
			diagnostics.EndProgress(false, "")
			diagnostics.Error("Clean operation failed: %v", err)
			return 1
		}
		diagnostics.EndProgress(true, fmt.Sprintf("%d removed", len(removed)))
		if len(removed) == 0 {
			diagnostics.Info("No generated files found")
		}
		for _, path := range removed {
			diagnostics.Verbose("Removed %s", path)
		}
		return 0
	}

	verbose := diagnostics.Level() >= utils.DiagnosticVerbose
	if verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(dirs, ", "))
		diagnostics.List("Dispatchers: %s", strings.Join(config.Dispatchers, ", "))
		diagnostics.List("Output: %s", config.Output)
	}

	generator := cli.NewGenerator(diagnostics)
	generator.SetPlanOutput(stdout)

	if err := generator.Run(ctx, config); err != nil {
		reporter := cli.NewDiagnosticReporter(*verboseFlag)
		reporter.SetOutput(stderr)
		reporter.ReportError(err)
		return 1
	}

	if *planFlag {
		return 0
	}

	summary := generator.GetSummary()
	diagnostics.Summary("Generation Complete!", map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Services found":     summary.ServicesFound,
		"Helpers resolved":   summary.HelpersResolved,
		"Listeners wired":    summary.EntriesPlanned,
		"Files generated":    len(summary.GeneratedFiles),
	})

	if verbose && len(summary.GeneratedFiles) > 0 {
		diagnostics.Subsection("Generated Files")
		for _, file := range summary.GeneratedFiles {
			diagnostics.List("%s", file)
		}
	}

	diagnostics.GenerationComplete()
	return 0
}
