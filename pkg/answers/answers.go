package answers

import (
	"fmt"

	"github.com/goliatone/go-docwizard/pkg/fieldpath"
)

// Set is an immutable snapshot of the values collected during one wizard
// session. Readers get copies; writers build a Delta and hand it to Apply.
type Set struct {
	root map[string]any
}

// New seeds a snapshot from a value tree. The input is deep-copied.
func New(values map[string]any) Set {
	if len(values) == 0 {
		return Set{root: map[string]any{}}
	}
	return Set{root: fieldpath.Clone(values)}
}

// Empty returns a snapshot with no values.
func Empty() Set {
	return Set{root: map[string]any{}}
}

// Get resolves a dotted/bracketed path.
func (s Set) Get(path string) (any, bool) {
	return fieldpath.Get(s.root, path)
}

// Lookup is Get without the presence flag.
func (s Set) Lookup(path string) any {
	v, _ := s.Get(path)
	return v
}

// Has reports whether a path resolves to a non-nil value.
func (s Set) Has(path string) bool {
	v, ok := s.Get(path)
	return ok && v != nil
}

// Map returns a deep copy of the snapshot.
func (s Set) Map() map[string]any {
	return fieldpath.Clone(s.root)
}

// Len reports the number of top-level keys.
func (s Set) Len() int {
	return len(s.root)
}

// Apply returns a new snapshot with the delta's operations applied in order.
// The receiver is left untouched.
func (s Set) Apply(d Delta) (Set, error) {
	next := fieldpath.Clone(s.root)
	for _, op := range d {
		switch op.Kind {
		case OpSet:
			if err := fieldpath.Set(next, op.Path, fieldpath.CloneValue(op.Value)); err != nil {
				return s, fmt.Errorf("answers: set %q: %w", op.Path, err)
			}
		case OpClear:
			fieldpath.Delete(next, op.Path)
		default:
			return s, fmt.Errorf("answers: unknown op kind %d", op.Kind)
		}
	}
	return Set{root: next}, nil
}

// With is a convenience for applying a single assignment.
func (s Set) With(path string, value any) (Set, error) {
	return s.Apply(Delta{SetOp(path, value)})
}

// MustWith panics on failure; handy when composing fixtures.
func (s Set) MustWith(path string, value any) Set {
	next, err := s.With(path, value)
	if err != nil {
		panic(err)
	}
	return next
}
