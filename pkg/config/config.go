package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/blimu-dev/pyclient-gen/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DefaultClientName is the name of the generated client class
const DefaultClientName = "ApiClient"

// Config holds the generation options. Every field is optional.
type Config struct {
	// Target selects the generator; only "python" is registered
	Target string `yaml:"target"`
	// ClientName is the generated client class name
	ClientName string `yaml:"clientName"`
	// DefaultBaseURL is used as the base_url default. When empty the first
	// server URL of the document is used, if any.
	DefaultBaseURL string `yaml:"defaultBaseURL"`
	// IncludeTags/ExcludeTags are regex patterns matched against operation tags.
	// Untagged operations carry the tag "misc".
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`
	// StrictSecurity fails generation when an operation names a security
	// scheme that did not resolve, instead of emitting an unauthenticated call
	StrictSecurity bool `yaml:"strictSecurity"`
	// DropReferencedParameters leaves out referenced ($ref) parameters with a
	// warning instead of failing generation
	DropReferencedParameters bool `yaml:"dropReferencedParameters"`
}

// Default returns a Config with defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with their defaults
func (c *Config) ApplyDefaults() {
	if c.Target == "" {
		c.Target = "python"
	}
	if c.ClientName == "" {
		c.ClientName = DefaultClientName
	}
}

// Validate checks that the config can be used
func (c *Config) Validate() error {
	if !utils.IsPythonIdentifier(c.ClientName) {
		return fmt.Errorf("clientName %q is not a valid class name", c.ClientName)
	}
	if slices.Contains(utils.PythonModuleNames, c.ClientName) {
		return fmt.Errorf("clientName %q clashes with a name the generated module imports", c.ClientName)
	}
	if _, _, err := c.CompileTagFilters(); err != nil {
		return err
	}
	return nil
}

// CompileTagFilters compiles the include and exclude patterns
func (c *Config) CompileTagFilters() ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(c.IncludeTags))
	for _, p := range c.IncludeTags {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(c.ExcludeTags))
	for _, p := range c.ExcludeTags {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML config document and applies defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(errors.New("invalid config"), err)
	}
	return &cfg, nil
}
