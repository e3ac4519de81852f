package generator

import (
	"fmt"
	"sort"

	"github.com/blimu-dev/pyclient-gen/pkg/config"
	"github.com/blimu-dev/pyclient-gen/pkg/diag"
	"github.com/blimu-dev/pyclient-gen/pkg/generator/python"
	"github.com/blimu-dev/pyclient-gen/pkg/ir"
	"github.com/getkin/kin-openapi/openapi3"
)

// Generator defines the interface for client generators
type Generator interface {
	// Generate renders client source for the given IR
	Generate(in ir.IR, cfg *config.Config, diags *diag.Collector) (string, error)
	// GetType returns the type identifier for this generator (e.g., "python")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types in name order
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Result is the outcome of a successful generation
type Result struct {
	// Source is the complete generated module
	Source string
	// IR is the resolved document the source was rendered from
	IR ir.IR
	// Diagnostics are the warnings collected while resolving and rendering
	Diagnostics []diag.Diagnostic
}

// Service provides high-level client generation functionality
type Service struct {
	registry *Registry
}

// NewService creates a new generator service with default generators
func NewService() *Service {
	registry := NewRegistry()
	registry.Register(python.NewPythonGenerator())
	return &Service{
		registry: registry,
	}
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry) *Service {
	return &Service{
		registry: registry,
	}
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// Generate resolves doc and renders it with the generator named by cfg.Target.
// Nothing is returned on failure.
func (s *Service) Generate(doc *openapi3.T, cfg *config.Config) (Result, error) {
	if cfg == nil {
		cfg = config.Default()
	} else {
		copied := *cfg
		copied.ApplyDefaults()
		cfg = &copied
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	gen, exists := s.registry.Get(cfg.Target)
	if !exists {
		return Result{}, fmt.Errorf("unsupported target: %s", cfg.Target)
	}

	diags := diag.NewCollector()
	in, err := BuildIR(doc, cfg, diags)
	if err != nil {
		return Result{}, err
	}
	source, err := gen.Generate(in, cfg, diags)
	if err != nil {
		return Result{}, err
	}
	return Result{Source: source, IR: in, Diagnostics: diags.Diagnostics()}, nil
}
