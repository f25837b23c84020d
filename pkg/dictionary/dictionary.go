package dictionary

import (
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Provider resolves a dictionary name to selectable options.
type Provider interface {
	Options(name string) []schema.Option
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(name string) []schema.Option

// Options implements Provider.
func (fn ProviderFunc) Options(name string) []schema.Option {
	if fn == nil {
		return nil
	}
	return fn(name)
}

// Static is an in-memory Provider over named label lists.
type Static struct {
	lists map[string][]string
}

// New builds a provider from label lists. The input map is copied.
func New(lists map[string][]string) *Static {
	s := &Static{lists: make(map[string][]string, len(lists))}
	for name, labels := range lists {
		s.lists[name] = append([]string(nil), labels...)
	}
	return s
}

// Decode reads a YAML document mapping dictionary names to label lists.
func Decode(r io.Reader) (*Static, error) {
	var lists map[string][]string
	if err := yaml.NewDecoder(r).Decode(&lists); err != nil {
		return nil, fmt.Errorf("dictionary: decode: %w", err)
	}
	return New(lists), nil
}

// LoadFS reads the named YAML file from fsys.
func LoadFS(fsys fs.FS, name string) (*Static, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %s: %w", name, err)
	}
	defer f.Close()
	return Decode(f)
}

var (
	defaultOnce sync.Once
	defaultStat *Static
)

// Default returns the provider over the bundled lists.
func Default() *Static {
	defaultOnce.Do(func() {
		s, err := LoadFS(embeddedData, embeddedName)
		if err != nil {
			// The bundled file is part of the build.
			panic(err)
		}
		defaultStat = s
	})
	return defaultStat
}

// Options returns the options of the named list, or an empty slice when the
// name is unknown.
func (s *Static) Options(name string) []schema.Option {
	if s == nil {
		return []schema.Option{}
	}
	labels := s.lists[name]
	out := make([]schema.Option, 0, len(labels))
	for _, label := range labels {
		out = append(out, schema.Option{Value: Value(label), Label: label})
	}
	return out
}

// Labels returns a copy of the named list.
func (s *Static) Labels(name string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.lists[name]...)
}

// Names lists the known dictionaries in sorted order.
func (s *Static) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.lists))
	for name := range s.lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value derives an option value from its label.
func Value(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

// Label finds the label whose derived value matches value.
func (s *Static) Label(name, value string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, label := range s.lists[name] {
		if Value(label) == value {
			return label, true
		}
	}
	return "", false
}

// Resolve returns the options a step offers: its static options, or the
// dictionary named by optionsFrom when it declares none.
func Resolve(p Provider, step schema.Step) []schema.Option {
	if len(step.Options) > 0 || step.OptionsFrom == "" {
		return step.Options
	}
	if p == nil {
		return []schema.Option{}
	}
	return p.Options(step.OptionsFrom)
}
