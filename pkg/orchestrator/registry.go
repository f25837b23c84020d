package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Generator receives the collected answers once the wizard reaches its final
// step. What it produces (a PDF, a DOCX, a queued job) is its own business.
type Generator interface {
	Generate(ctx context.Context, doc schema.Document, answers map[string]any) error
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, doc schema.Document, answers map[string]any) error

// Generate calls fn.
func (fn GeneratorFunc) Generate(ctx context.Context, doc schema.Document, answers map[string]any) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc, answers)
}

// GeneratorRegistry stores generators by the `output` name final steps
// declare.
type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewGeneratorRegistry creates an empty registry.
func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{generators: make(map[string]Generator)}
}

// Register adds a generator under name. Duplicate names return an error.
func (r *GeneratorRegistry) Register(name string, g Generator) error {
	if g == nil {
		return fmt.Errorf("orchestrator: generator is required")
	}
	key := normalizeOutputName(name)
	if key == "" {
		return fmt.Errorf("orchestrator: generator name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.generators[key]; exists {
		return fmt.Errorf("orchestrator: generator %q already registered", key)
	}
	r.generators[key] = g
	return nil
}

// MustRegister panics on registration failure.
func (r *GeneratorRegistry) MustRegister(name string, g Generator) {
	if err := r.Register(name, g); err != nil {
		panic(err)
	}
}

// Get retrieves a generator by name.
func (r *GeneratorRegistry) Get(name string) (Generator, error) {
	key := normalizeOutputName(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: generator name is required")
	}
	if r == nil {
		return nil, fmt.Errorf("orchestrator: generator %q not found", key)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: generator %q not found", key)
	}
	return g, nil
}

// Has reports whether a generator is registered under name.
func (r *GeneratorRegistry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// List returns the registered names in sorted order.
func (r *GeneratorRegistry) List() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeOutputName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
