package orchestrator

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/normalize"
	"github.com/goliatone/go-docwizard/pkg/validation"
	"github.com/goliatone/go-docwizard/pkg/visibility"
)

// Policy decides whether validation issues stop Advance.
type Policy int

const (
	// Advisory reports issues but always lets the user move on.
	Advisory Policy = iota
	// Blocking keeps the wizard on a step until it validates.
	Blocking
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p == Blocking {
		return "blocking"
	}
	return "advisory"
}

// ParsePolicy maps "advisory" / "blocking" to a Policy; anything else is
// Advisory.
func ParsePolicy(raw string) Policy {
	if raw == "blocking" {
		return Blocking
	}
	return Advisory
}

// Option customises the wizard configuration.
type Option func(*Wizard)

// WithoutNormalization keeps legacy form/array steps as they are.
func WithoutNormalization() Option {
	return func(w *Wizard) {
		w.normalize = false
	}
}

// WithNormalizer replaces the default keyword lists used to detect legacy
// participant steps.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(w *Wizard) {
		if n != nil {
			w.normalizer = n
		}
	}
}

// WithTransformers registers document transformers run after normalization.
func WithTransformers(ts ...Transformer) Option {
	return func(w *Wizard) {
		for _, t := range ts {
			if t != nil {
				w.transformers = append(w.transformers, t)
			}
		}
	}
}

// WithValidationPolicy selects Advisory (default) or Blocking validation.
func WithValidationPolicy(p Policy) Option {
	return func(w *Wizard) {
		w.policy = p
	}
}

// WithCancelHandler sets the collaborator invoked on Cancel and on Back at
// the first step.
func WithCancelHandler(fn func()) Option {
	return func(w *Wizard) {
		w.onCancel = fn
	}
}

// WithGenerator sets the generator receiving answers at the final step.
func WithGenerator(g Generator) Option {
	return func(w *Wizard) {
		w.generator = g
	}
}

// WithGeneratorRegistry resolves the generator from the final step's
// `output` name, falling back to WithGenerator.
func WithGeneratorRegistry(r *GeneratorRegistry) Option {
	return func(w *Wizard) {
		w.generators = r
	}
}

// WithDictionary sets the provider behind optionsFrom and field dictionaries.
func WithDictionary(p dictionary.Provider) Option {
	return func(w *Wizard) {
		if p != nil {
			w.dict = p
		}
	}
}

// WithLogger injects a structured logger. The default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Wizard) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithSanitizer cleans committed string values. Pass nil to store values
// verbatim.
func WithSanitizer(s *answers.Sanitizer) Option {
	return func(w *Wizard) {
		w.sanitizer = s
	}
}

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(w *Wizard) {
		if v != nil {
			w.validator = v
		}
	}
}

// WithVisibility replaces the resolver used for field and step conditions.
func WithVisibility(r *visibility.Resolver) Option {
	return func(w *Wizard) {
		if r != nil {
			w.visible = r
		}
	}
}

// WithAnswers seeds the wizard with a previously collected answer set.
func WithAnswers(set answers.Set) Option {
	return func(w *Wizard) {
		w.set = set
	}
}
