package visibility

import (
	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Evaluator determines whether a field should be visible based on a rule
// string and the answers collected so far.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the answer tree while
// Extras lets callers inject arbitrary context such as feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Resolver applies an Evaluator to schema fields and steps. Evaluation errors
// never hide anything: a rule that cannot be evaluated leaves the target
// visible.
type Resolver struct {
	eval Evaluator
}

// NewResolver wraps an evaluator. A nil evaluator makes everything visible.
func NewResolver(eval Evaluator) *Resolver {
	return &Resolver{eval: eval}
}

// Field reports whether field is visible under the given answers.
func (r *Resolver) Field(field schema.Field, set answers.Set) bool {
	return r.visible(field.Name, field.ShowIf, set)
}

// Step reports whether a step-level condition allows the step to be shown.
// Steps without a condition are always shown.
func (r *Resolver) Step(step schema.Step, set answers.Set) bool {
	return r.visible(step.ID, step.ShowIf, set)
}

// Fields filters fields down to the visible ones, preserving order.
func (r *Resolver) Fields(fields []schema.Field, set answers.Set) []schema.Field {
	out := make([]schema.Field, 0, len(fields))
	for _, f := range fields {
		if r.Field(f, set) {
			out = append(out, f)
		}
	}
	return out
}

func (r *Resolver) visible(path, rule string, set answers.Set) bool {
	if rule == "" || r == nil || r.eval == nil {
		return true
	}
	ok, err := r.eval.Eval(path, rule, Context{Values: set.Map()})
	if err != nil {
		return true
	}
	return ok
}
