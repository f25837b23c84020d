package group

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/fieldpath"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

// DefaultDynamicMax bounds a count-driven group whose step declares no max.
const DefaultDynamicMax = 10

// Spec describes one repeated group.
type Spec struct {
	// Fields are the per-element templates, e.g. `trustors[].full_name`.
	Fields []schema.Field
	Min    *int
	Max    *int
	// DynamicCountFrom names the answer whose numeric value drives the
	// element count.
	DynamicCountFrom string
	ItemLabel        string
	// ArrayName overrides the storage key derived from the first field.
	ArrayName string
	// NewElement builds the value appended by Add. Defaults to an empty map.
	NewElement func() map[string]any
}

// FromStep builds a Spec from an array or input-mode step.
func FromStep(step schema.Step) Spec {
	return Spec{
		Fields:           step.EntryFields(),
		Min:              step.Min,
		Max:              step.Max,
		DynamicCountFrom: step.DynamicCountFrom,
		ItemLabel:        step.ItemLabel,
	}
}

// Controller manages one array answer. It never mutates the answer set; every
// write is returned as a Delta for the orchestrator to commit.
type Controller struct {
	spec      Spec
	arrayName string
}

// New builds a controller for spec.
func New(spec Spec) *Controller {
	name := spec.ArrayName
	if name == "" && len(spec.Fields) > 0 {
		name = fieldpath.ArrayName(spec.Fields[0].Name)
	}
	return &Controller{spec: spec, arrayName: name}
}

// ArrayName returns the answer key holding the element list.
func (c *Controller) ArrayName() string {
	return c.arrayName
}

// Spec returns the group description.
func (c *Controller) Spec() Spec {
	return c.spec
}

// Dynamic reports whether the count is driven by another answer.
func (c *Controller) Dynamic() bool {
	return c.spec.DynamicCountFrom != ""
}

// Min is the effective lower bound; a group always renders at least one
// element.
func (c *Controller) Min() int {
	if c.spec.Min == nil || *c.spec.Min < 1 {
		return 1
	}
	return *c.spec.Min
}

// Max is the effective upper bound. Static groups without a declared max are
// unbounded.
func (c *Controller) Max() int {
	if c.spec.Max != nil {
		return *c.spec.Max
	}
	if c.Dynamic() {
		return DefaultDynamicMax
	}
	return math.MaxInt
}

// Bounded reports whether Max is finite.
func (c *Controller) Bounded() bool {
	return c.spec.Max != nil || c.Dynamic()
}

// Length returns the number of elements to render.
func (c *Controller) Length(set answers.Set) int {
	lo := c.Min()
	if c.Dynamic() {
		raw, ok := set.Get(c.spec.DynamicCountFrom)
		if !ok || raw == nil {
			return lo
		}
		n, ok := answers.Number(raw)
		n = math.Trunc(n)
		if !ok || n == 0 || math.IsNaN(n) {
			return lo
		}
		hi := c.Max()
		switch {
		case n <= float64(lo):
			return lo
		case n >= float64(hi):
			return clamp(hi, lo, hi)
		}
		return int(n)
	}
	stored := answers.Len(set.Lookup(c.arrayName))
	if stored < lo {
		return lo
	}
	return stored
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CanAdd reports whether another element may be appended.
func (c *Controller) CanAdd(set answers.Set) bool {
	if c.arrayName == "" && !c.Dynamic() {
		return false
	}
	return c.Length(set) < c.Max()
}

// Add appends one empty element. The stored array is first padded to the
// current length so the new element lands at index Length(). When the count
// is dynamic the source answer is bumped too.
func (c *Controller) Add(set answers.Set) (answers.Delta, bool) {
	if !c.CanAdd(set) {
		return nil, false
	}
	length := c.Length(set)
	var delta answers.Delta
	if c.arrayName != "" {
		items := c.materialize(set, length)
		items = append(items, c.newElement())
		delta = append(delta, answers.SetOp(c.arrayName, items))
	}
	if c.Dynamic() {
		delta = append(delta, answers.SetOp(c.spec.DynamicCountFrom, length+1))
	}
	return delta, true
}

// CanRemove reports whether an element may be dropped without going below
// the minimum.
func (c *Controller) CanRemove(set answers.Set) bool {
	return c.Length(set) > c.Min()
}

// Remove drops element index and compacts the rest so indices stay
// contiguous. When the count is dynamic the new length is written back to
// the source answer.
func (c *Controller) Remove(set answers.Set, index int) (answers.Delta, bool) {
	length := c.Length(set)
	if !c.CanRemove(set) || index < 0 || index >= length {
		return nil, false
	}
	var delta answers.Delta
	if c.arrayName != "" {
		items := c.materialize(set, length)
		items = append(items[:index], items[index+1:]...)
		delta = append(delta, answers.SetOp(c.arrayName, items))
	}
	if c.Dynamic() {
		delta = append(delta, answers.SetOp(c.spec.DynamicCountFrom, length-1))
	}
	return delta, true
}

// Sync pads the stored array up to Length. It returns an empty delta when
// nothing needs to change; existing elements are never truncated.
func (c *Controller) Sync(set answers.Set) answers.Delta {
	if c.arrayName == "" {
		return nil
	}
	length := c.Length(set)
	current, isList := set.Lookup(c.arrayName).([]any)
	if isList && len(current) >= length {
		return nil
	}
	return answers.Delta{answers.SetOp(c.arrayName, c.materialize(set, length))}
}

// Element resolves the field templates for element index.
func (c *Controller) Element(index int) []schema.Field {
	out := make([]schema.Field, len(c.spec.Fields))
	for i, f := range c.spec.Fields {
		f.Name = fieldpath.Instantiate(f.Name, index)
		out[i] = f
	}
	return out
}

// Elements resolves every element currently rendered.
func (c *Controller) Elements(set answers.Set) [][]schema.Field {
	n := c.Length(set)
	out := make([][]schema.Field, n)
	for i := range out {
		out[i] = c.Element(i)
	}
	return out
}

// Label renders the heading for element index, e.g. "Ребёнок 2".
func (c *Controller) Label(index int) string {
	label := strings.TrimSpace(c.spec.ItemLabel)
	if label == "" {
		return strconv.Itoa(index + 1)
	}
	return label + " " + strconv.Itoa(index+1)
}

// materialize copies the stored list and pads it with new elements up to n.
func (c *Controller) materialize(set answers.Set, n int) []any {
	var items []any
	if current, ok := set.Lookup(c.arrayName).([]any); ok {
		items, _ = fieldpath.CloneValue(current).([]any)
	}
	for len(items) < n {
		items = append(items, c.newElement())
	}
	return items
}

func (c *Controller) newElement() any {
	if c.spec.NewElement != nil {
		return c.spec.NewElement()
	}
	return map[string]any{}
}
