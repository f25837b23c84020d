// Package transition decides which step follows the current one.
package transition

import (
	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Resolve returns the explicit successor declared by step.next. ok is false
// when the step declares none, the list is empty, or a branch map has no
// entry for the current answer. Callers fall back to schema order.
func Resolve(step schema.Step, set answers.Set) (string, bool) {
	next := step.Next
	switch next.Kind() {
	case schema.NextTarget:
		return next.Target(), next.Target() != ""
	case schema.NextList:
		list := next.List()
		if len(list) == 0 || list[0] == "" {
			return "", false
		}
		return list[0], true
	case schema.NextBranch:
		return branch(step, set)
	default:
		return "", false
	}
}

func branch(step schema.Step, set answers.Set) (string, bool) {
	if !branchable(step.Type) {
		return "", false
	}
	value, ok := set.Get(step.ID)
	if !ok || !discrete(value) {
		return "", false
	}
	key := answers.Stringify(value)
	if key == "" {
		return "", false
	}
	target, ok := step.Next.Lookup(key)
	if !ok || target == "" {
		return "", false
	}
	return target, true
}

// branchable lists the step types whose answer under step.id is a single
// discrete value that can key a branch map.
func branchable(t schema.StepType) bool {
	switch t {
	case schema.StepRadio, schema.StepCheckboxGroup, schema.StepNumber:
		return true
	default:
		return false
	}
}

func discrete(value any) bool {
	switch value.(type) {
	case nil, []any, []string, map[string]any:
		return false
	default:
		return true
	}
}

// Fallback returns the schema-order successor of index. ok is false when
// index is the last step, which is a terminal idle state.
func Fallback(steps []schema.Step, index int) (string, bool) {
	if index < 0 || index+1 >= len(steps) {
		return "", false
	}
	return steps[index+1].ID, true
}

// Next combines Resolve with the schema-order fallback: an unresolved or
// dangling target moves to the following step, and the last step stays put.
func Next(steps []schema.Step, index int, set answers.Set) string {
	if index < 0 || index >= len(steps) {
		return ""
	}
	if id, ok := Resolve(steps[index], set); ok && known(steps, id) {
		return id
	}
	if id, ok := Fallback(steps, index); ok {
		return id
	}
	return steps[index].ID
}

func known(steps []schema.Step, id string) bool {
	for _, s := range steps {
		if s.ID == id {
			return true
		}
	}
	return false
}
