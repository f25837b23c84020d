package schema

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-docwizard/pkg/fieldpath"
)

// ErrNoSteps is reported for documents without any step definitions.
var ErrNoSteps = errors.New("schema: document has no steps")

// Document is one template in the catalog.
type Document struct {
	ID             int      `json:"id" yaml:"id"`
	Code           string   `json:"code,omitempty" yaml:"code,omitempty"`
	Title          string   `json:"title" yaml:"title"`
	Category       string   `json:"category,omitempty" yaml:"category,omitempty"`
	DevNotes       []string `json:"dev_notes,omitempty" yaml:"dev_notes,omitempty"`
	RulesForCursor []string `json:"rules_for_cursor,omitempty" yaml:"rules_for_cursor,omitempty"`
	Parsed         Parsed   `json:"parsed" yaml:"parsed"`
}

// Parsed holds the structured part of a document template.
type Parsed struct {
	Steps        []Step   `json:"steps" yaml:"steps"`
	Placeholders []string `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
}

// Steps returns the ordered step list.
func (d Document) Steps() []Step {
	return d.Parsed.Steps
}

// Step finds a step by id and reports its schema-order index.
func (d Document) Step(id string) (Step, int, bool) {
	for i, step := range d.Parsed.Steps {
		if step.ID == id {
			return step, i, true
		}
	}
	return Step{}, -1, false
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	out := d
	out.DevNotes = append([]string(nil), d.DevNotes...)
	out.RulesForCursor = append([]string(nil), d.RulesForCursor...)
	out.Parsed.Placeholders = append([]string(nil), d.Parsed.Placeholders...)
	if d.Parsed.Steps != nil {
		out.Parsed.Steps = make([]Step, len(d.Parsed.Steps))
		for i, step := range d.Parsed.Steps {
			out.Parsed.Steps[i] = step.Clone()
		}
	}
	return out
}

// Validate checks structural invariants: at least one step, unique ids, known
// types, ordered bounds, and at most one placeholder per field name. All
// problems are joined into the returned error.
func (d Document) Validate() error {
	if len(d.Parsed.Steps) == 0 {
		return ErrNoSteps
	}

	var errs []error
	seen := make(map[string]struct{}, len(d.Parsed.Steps))
	for i, step := range d.Parsed.Steps {
		if step.ID == "" {
			errs = append(errs, fmt.Errorf("schema: step %d has no id", i))
		} else if _, dup := seen[step.ID]; dup {
			errs = append(errs, fmt.Errorf("schema: duplicate step id %q", step.ID))
		}
		seen[step.ID] = struct{}{}

		if !step.Type.Valid() {
			errs = append(errs, fmt.Errorf("%w %q on step %q", ErrUnknownStepType, step.Type, step.ID))
		}
		if step.Min != nil && *step.Min < 0 {
			errs = append(errs, fmt.Errorf("schema: step %q has negative min", step.ID))
		}
		if step.Min != nil && step.Max != nil && *step.Min > *step.Max {
			errs = append(errs, fmt.Errorf("schema: step %q has min %d > max %d", step.ID, *step.Min, *step.Max))
		}
		for _, field := range step.AllFields() {
			if !field.Type.Valid() {
				errs = append(errs, fmt.Errorf("%w %q on field %q", ErrUnknownFieldType, field.Type, field.Name))
			}
			if err := fieldpath.Validate(field.Name); err != nil {
				errs = append(errs, fmt.Errorf("schema: step %q: %w", step.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}
