package cli

import (
	stderrors "errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gmapkit/gmapwire/internal/errors"
	"github.com/gmapkit/gmapwire/internal/generator"
	"github.com/gmapkit/gmapwire/pkg/wiring"
)

// DefaultConfigFile is read from the working directory when present
const DefaultConfigFile = "gmapwire.yaml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files
	Directories []string `yaml:"-"`

	// Dispatchers lists the helpers whose event dispatcher is defined.
	// Listeners of other helpers are not registered.
	Dispatchers []string `yaml:"dispatchers"`

	// Aliases remaps event names per helper: helper -> from -> to
	Aliases map[string]map[string]string `yaml:"aliases"`

	// InvokeMethod is the method called when a tag names neither an event
	// nor a method
	InvokeMethod string `yaml:"invoke_method"`

	// BaseEvent is the generic event type that cannot identify an event
	BaseEvent string `yaml:"base_event"`

	// StopOnMissingDispatcher stops resolution at the first helper without
	// a dispatcher
	StopOnMissingDispatcher bool `yaml:"stop_on_missing_dispatcher"`

	// Output is the name of the generated file in each package
	Output string `yaml:"output"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"-"`

	// PlanOnly prints the registration plan instead of writing files
	PlanOnly bool `yaml:"-"`
}

// DefaultConfig returns the configuration used without a config file
func DefaultConfig() Config {
	dispatchers := make([]string, len(wiring.Helpers))
	for i, helper := range wiring.Helpers {
		dispatchers[i] = helper.String()
	}

	return Config{
		Dispatchers:  dispatchers,
		InvokeMethod: wiring.DefaultInvokeMethod,
		BaseEvent:    wiring.DefaultBaseEvent,
		Output:       generator.DefaultOutput,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// only an error when required is set.
func LoadConfig(path string, required bool) (Config, error) {
	config := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) && !required {
			return config, nil
		}
		return config, errors.WrapConfigurationError(path, "open", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !stderrors.Is(err, io.EOF) {
		return config, errors.WrapConfigurationError(path, "parse", err)
	}

	if err := config.Validate(); err != nil {
		return config, errors.ConfigurationError(path, err.Error()).
			WithSuggestions("Helpers are api, map, map.static and place_autocomplete")
	}
	return config, nil
}

// Validate checks helper names, aliases and the generated file name
func (c Config) Validate() error {
	for _, name := range c.Dispatchers {
		if _, err := wiring.ParseHelperCategory(name); err != nil {
			return fmt.Errorf("dispatchers: %w", err)
		}
	}

	for _, name := range sortedKeys(c.Aliases) {
		if _, err := wiring.ParseHelperCategory(name); err != nil {
			return fmt.Errorf("aliases: %w", err)
		}
		for from, to := range c.Aliases[name] {
			if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
				return fmt.Errorf("aliases: %s has an empty event name", name)
			}
		}
	}

	if c.InvokeMethod == "" || !token.IsIdentifier(c.InvokeMethod) {
		return fmt.Errorf("invoke_method: %q is not a Go method name", c.InvokeMethod)
	}
	if strings.TrimSpace(c.BaseEvent) == "" {
		return fmt.Errorf("base_event cannot be empty")
	}
	if filepath.Base(c.Output) != c.Output || !strings.HasSuffix(c.Output, ".go") || strings.HasSuffix(c.Output, "_test.go") {
		return fmt.Errorf("output: %q must be a non-test .go file name", c.Output)
	}
	return nil
}

// Helpers returns the helpers with a defined dispatcher
func (c Config) Helpers() []wiring.HelperCategory {
	helpers := make([]wiring.HelperCategory, 0, len(c.Dispatchers))
	for _, name := range c.Dispatchers {
		if helper, err := wiring.ParseHelperCategory(name); err == nil {
			helpers = append(helpers, helper)
		}
	}
	return helpers
}

// ResolverOptions converts the configuration into resolver options. Every
// helper is resolved; Dispatchers only controls which ones exist.
func (c Config) ResolverOptions() wiring.Options {
	opts := wiring.Options{
		InvokeMethod:            c.InvokeMethod,
		BaseEvent:               c.BaseEvent,
		StopOnMissingDispatcher: c.StopOnMissingDispatcher,
	}

	if len(c.Aliases) > 0 {
		opts.Aliases = make(map[wiring.HelperCategory]map[string]string, len(c.Aliases))
		for name, aliases := range c.Aliases {
			helper, err := wiring.ParseHelperCategory(name)
			if err != nil {
				continue
			}
			opts.Aliases[helper] = aliases
		}
	}
	return opts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
