package group_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/group"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

func trustorFields() []schema.Field {
	return []schema.Field{
		{Name: "trustors[].full_name", Type: schema.FieldText, Label: "ФИО"},
		{Name: "trustors[].iin", Type: schema.FieldText, Label: "ИИН"},
	}
}

func commit(t *testing.T, set answers.Set, d answers.Delta) answers.Set {
	t.Helper()
	next, err := set.Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return next
}

func TestArrayNameFromFirstField(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{Fields: trustorFields()})
	if got := c.ArrayName(); got != "trustors" {
		t.Fatalf("ArrayName = %q", got)
	}
}

func TestFixedBoundsRefuseAddAndRemove(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{Fields: trustorFields(), Min: schema.Int(2), Max: schema.Int(2)})
	set := answers.Empty()

	if got := c.Length(set); got != 2 {
		t.Fatalf("Length = %d, want 2", got)
	}
	if _, ok := c.Add(set); ok {
		t.Fatalf("Add must be refused at max")
	}
	if _, ok := c.Remove(set, 0); ok {
		t.Fatalf("Remove must be refused at min")
	}
	if got := c.Length(set); got != 2 {
		t.Fatalf("Length after refused ops = %d, want 2", got)
	}
}

func TestStaticLengthFloorsAtOne(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{Fields: trustorFields()})
	if got := c.Length(answers.Empty()); got != 1 {
		t.Fatalf("empty group Length = %d, want 1", got)
	}
	zero := group.New(group.Spec{Fields: trustorFields(), Min: schema.Int(0)})
	if got := zero.Length(answers.Empty()); got != 1 {
		t.Fatalf("min=0 Length = %d, want 1", got)
	}
	set := answers.New(map[string]any{"trustors": []any{map[string]any{}, map[string]any{}, map[string]any{}}})
	if got := c.Length(set); got != 3 {
		t.Fatalf("stored Length = %d, want 3", got)
	}
	if !c.CanAdd(set) {
		t.Fatalf("unbounded static group should allow add")
	}
}

func TestDynamicCountClamps(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{
		Fields:           []schema.Field{{Name: "children[].full_name", Type: schema.FieldText}},
		Min:              schema.Int(1),
		Max:              schema.Int(10),
		DynamicCountFrom: "child_count",
	})

	cases := []struct {
		count any
		want  int
	}{
		{5, 5},
		{"5", 5},
		{5.0, 5},
		{15, 10},
		{0, 1},
		{"abc", 1},
		{nil, 1},
		{-3, 1},
		{"1e20", 10},
		{1e20, 10},
		{"1e300", 10},
		{math.Inf(1), 10},
		{math.Inf(-1), 1},
		{-1e20, 1},
		{math.NaN(), 1},
	}
	for _, tc := range cases {
		set := answers.New(map[string]any{"child_count": tc.count})
		if got := c.Length(set); got != tc.want {
			t.Fatalf("Length(child_count=%#v) = %d, want %d", tc.count, got, tc.want)
		}
	}
	if got := c.Length(answers.Empty()); got != 1 {
		t.Fatalf("absent source Length = %d, want 1", got)
	}
}

func TestDynamicDefaultMax(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{
		Fields:           []schema.Field{{Name: "children[].full_name", Type: schema.FieldText}},
		DynamicCountFrom: "child_count",
	})
	for _, count := range []any{40, "1e20", 1e300} {
		if got := c.Length(answers.New(map[string]any{"child_count": count})); got != group.DefaultDynamicMax {
			t.Fatalf("Length(child_count=%#v) = %d, want %d", count, got, group.DefaultDynamicMax)
		}
	}
}

func TestRemoveWritesCountBack(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{
		Fields:           []schema.Field{{Name: "children[].full_name", Type: schema.FieldText}},
		Min:              schema.Int(1),
		Max:              schema.Int(10),
		DynamicCountFrom: "child_count",
	})
	set := answers.New(map[string]any{"child_count": 5})

	delta, ok := c.Remove(set, 2)
	if !ok {
		t.Fatalf("Remove refused")
	}
	set = commit(t, set, delta)
	if got := set.Lookup("child_count"); got != 4 {
		t.Fatalf("child_count = %#v, want 4", got)
	}
	if got := c.Length(set); got != 4 {
		t.Fatalf("Length = %d, want 4", got)
	}
	if got := len(set.Lookup("children").([]any)); got != 4 {
		t.Fatalf("stored children = %d, want 4", got)
	}

	delta, ok = c.Add(set)
	if !ok {
		t.Fatalf("Add refused")
	}
	set = commit(t, set, delta)
	if got := set.Lookup("child_count"); got != 5 {
		t.Fatalf("child_count after add = %#v, want 5", got)
	}
}

func TestRemoveCompactsElements(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{Fields: trustorFields(), Min: schema.Int(1), Max: schema.Int(3)})
	set := answers.New(map[string]any{"trustors": []any{
		map[string]any{"full_name": "A"},
		map[string]any{"full_name": "B"},
		map[string]any{"full_name": "C"},
	}})

	delta, ok := c.Remove(set, 1)
	if !ok {
		t.Fatalf("Remove refused")
	}
	set = commit(t, set, delta)

	want := []any{
		map[string]any{"full_name": "A"},
		map[string]any{"full_name": "C"},
	}
	if diff := cmp.Diff(want, set.Lookup("trustors")); diff != "" {
		t.Fatalf("compacted list mismatch (-want +got):\n%s", diff)
	}
	if got := set.Lookup("trustors[1].full_name"); got != "C" {
		t.Fatalf("trustors[1].full_name = %v, want C", got)
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{Fields: trustorFields(), Max: schema.Int(3)})
	set := answers.New(map[string]any{"trustors": []any{map[string]any{}, map[string]any{}}})
	if _, ok := c.Remove(set, 2); ok {
		t.Fatalf("out of range remove must be refused")
	}
	if _, ok := c.Remove(set, -1); ok {
		t.Fatalf("negative index must be refused")
	}
}

func TestAddMaterializesCurrentLength(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{Fields: trustorFields(), Min: schema.Int(2), Max: schema.Int(4)})
	delta, ok := c.Add(answers.Empty())
	if !ok {
		t.Fatalf("Add refused")
	}
	set := commit(t, answers.Empty(), delta)
	if got := len(set.Lookup("trustors").([]any)); got != 3 {
		t.Fatalf("stored length = %d, want 3", got)
	}
}

func TestSyncPadsToDynamicCount(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{
		Fields:           []schema.Field{{Name: "children[].full_name", Type: schema.FieldText}},
		DynamicCountFrom: "child_count",
	})
	set := answers.New(map[string]any{
		"child_count": 3,
		"children":    []any{map[string]any{"full_name": "A"}},
	})
	set = commit(t, set, c.Sync(set))

	want := []any{map[string]any{"full_name": "A"}, map[string]any{}, map[string]any{}}
	if diff := cmp.Diff(want, set.Lookup("children")); diff != "" {
		t.Fatalf("synced list mismatch (-want +got):\n%s", diff)
	}
	if d := c.Sync(set); !d.Empty() {
		t.Fatalf("second Sync should be a no-op, got %+v", d)
	}
}

func TestElementResolvesTemplates(t *testing.T) {
	t.Parallel()

	c := group.New(group.Spec{Fields: trustorFields(), ItemLabel: "Доверитель"})
	var names []string
	for _, f := range c.Element(1) {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"trustors[1].full_name", "trustors[1].iin"}, names); diff != "" {
		t.Fatalf("element names mismatch (-want +got):\n%s", diff)
	}
	if got := c.Label(1); got != "Доверитель 2" {
		t.Fatalf("Label = %q", got)
	}
	if got := len(c.Elements(answers.Empty())); got != 1 {
		t.Fatalf("Elements = %d, want 1", got)
	}
}
