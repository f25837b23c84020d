package inputmode_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/inputmode"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

func trustorStep() schema.Step {
	return schema.Step{
		ID:             "trustor",
		Type:           schema.StepInputMode,
		Title:          "Доверитель",
		InputModeField: "trustor_mode",
		Min:            schema.Int(1),
		Max:            schema.Int(2),
		ManualFields: []schema.Field{
			{Name: "trustors[].full_name", Type: schema.FieldText, Label: "ФИО"},
			{Name: "trustors[].iin", Type: schema.FieldText, Label: "ИИН"},
		},
	}
}

func apply(t *testing.T, set answers.Set, d answers.Delta, ok bool) answers.Set {
	t.Helper()
	if !ok {
		t.Fatalf("operation refused")
	}
	next, err := set.Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return next
}

func TestSelectOnlyFromUnset(t *testing.T) {
	t.Parallel()

	c := inputmode.New(trustorStep())
	set := answers.Empty()
	if got := c.Mode(set); got != inputmode.Unset {
		t.Fatalf("initial mode = %q", got)
	}

	d, ok := c.Select(set, inputmode.Manual)
	set = apply(t, set, d, ok)
	if got := c.Mode(set); got != inputmode.Manual {
		t.Fatalf("mode = %q, want manual", got)
	}
	if got := set.Lookup("trustor_mode"); got != 1 {
		t.Fatalf("count = %#v, want 1", got)
	}
	if _, ok := c.Select(set, inputmode.OCR); ok {
		t.Fatalf("switching modes without reset must be refused")
	}
	if _, ok := c.Select(answers.Empty(), inputmode.Unset); ok {
		t.Fatalf("selecting unset must be refused")
	}
}

func TestResetThenOCRStartsFresh(t *testing.T) {
	t.Parallel()

	c := inputmode.New(trustorStep())
	set := answers.Empty()

	d, ok := c.Select(set, inputmode.Manual)
	set = apply(t, set, d, ok)
	d, ok = c.Manual().Add(set)
	set = apply(t, set, d, ok)
	set = apply(t, set, answers.Delta{
		answers.SetOp("trustors[0].full_name", "Иванов Иван"),
		answers.SetOp("trustors[1].full_name", "Петров Пётр"),
	}, true)

	set = apply(t, set, c.Reset(), true)
	if set.Has("trustor_mode_type") || set.Has("trustor_mode") {
		t.Fatalf("reset must clear mode and count, got %v", set.Map())
	}
	if got := c.Mode(set); got != inputmode.Unset {
		t.Fatalf("mode after reset = %q", got)
	}

	d, ok = c.Select(set, inputmode.OCR)
	set = apply(t, set, d, ok)
	if got := c.OCRLength(set); got != 1 {
		t.Fatalf("OCRLength = %d, want 1", got)
	}
	want := []any{map[string]any{"attachments": []any{}}}
	if diff := cmp.Diff(want, set.Lookup("trustors")); diff != "" {
		t.Fatalf("manual data leaked into OCR group (-want +got):\n%s", diff)
	}
}

func TestResetThenManualDropsAttachments(t *testing.T) {
	t.Parallel()

	c := inputmode.New(trustorStep())
	set := answers.Empty()

	d, ok := c.Select(set, inputmode.OCR)
	set = apply(t, set, d, ok)
	set = apply(t, set, answers.Delta{
		answers.SetOp(c.AttachmentsPath(0), []any{map[string]any{"name": "passport.pdf"}}),
	}, true)

	set = apply(t, set, c.Reset(), true)
	d, ok = c.Select(set, inputmode.Manual)
	set = apply(t, set, d, ok)

	if diff := cmp.Diff([]any{map[string]any{}}, set.Lookup("trustors")); diff != "" {
		t.Fatalf("OCR data leaked into manual group (-want +got):\n%s", diff)
	}
	if got := c.Manual().Length(set); got != 1 {
		t.Fatalf("Length = %d, want 1", got)
	}
}

func TestManualSelectLeavesFlatFieldsAlone(t *testing.T) {
	t.Parallel()

	step := trustorStep()
	step.ManualFields = []schema.Field{{Name: "trustor_full_name", Type: schema.FieldText}}
	c := inputmode.New(step)

	d, ok := c.Select(answers.Empty(), inputmode.Manual)
	if !ok {
		t.Fatalf("Select refused")
	}
	want := answers.Delta{
		answers.SetOp("trustor_mode_type", "manual"),
		answers.SetOp("trustor_mode", 1),
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Fatalf("delta mismatch (-want +got):\n%s", diff)
	}
}

func TestManualGroupEndToEnd(t *testing.T) {
	t.Parallel()

	c := inputmode.New(trustorStep())
	set := answers.Empty()
	d, ok := c.Select(set, inputmode.Manual)
	set = apply(t, set, d, ok)

	g := c.Manual()
	if got := g.Length(set); got != 1 {
		t.Fatalf("Length = %d, want 1", got)
	}
	d, ok = g.Add(set)
	set = apply(t, set, d, ok)
	if got := g.Length(set); got != 2 {
		t.Fatalf("Length after add = %d, want 2", got)
	}
	if _, ok := g.Add(set); ok {
		t.Fatalf("add beyond max must be refused")
	}

	set = apply(t, set, answers.Delta{
		answers.SetOp("trustors[0].full_name", "first"),
		answers.SetOp("trustors[1].full_name", "second"),
	}, true)

	d, ok = g.Remove(set, 0)
	set = apply(t, set, d, ok)
	if got := g.Length(set); got != 1 {
		t.Fatalf("Length after remove = %d, want 1", got)
	}
	if got := set.Lookup(g.Element(0)[0].Name); got != "second" {
		t.Fatalf("%s = %v, want second", g.Element(0)[0].Name, got)
	}
	if got := set.Lookup("trustor_mode"); got != 1 {
		t.Fatalf("count = %#v, want 1", got)
	}
}

func TestManualDefaults(t *testing.T) {
	t.Parallel()

	step := trustorStep()
	step.Min, step.Max = nil, nil
	g := inputmode.New(step).Manual()
	if g.Min() != 1 || g.Max() != 2 {
		t.Fatalf("bounds = %d/%d, want 1/2", g.Min(), g.Max())
	}
}

func TestAttachTruncatesSilently(t *testing.T) {
	t.Parallel()

	c := inputmode.New(trustorStep())
	set := answers.Empty()
	d, ok := c.Select(set, inputmode.OCR)
	set = apply(t, set, d, ok)

	batch := []inputmode.FileHandle{
		{Name: "front.jpg", Size: 1024, ContentType: "image/jpeg", Source: inputmode.SourceDrop},
		{Name: "back.jpg", Source: inputmode.SourceDrop},
		{Name: "extra.jpg", Source: inputmode.SourceDrop},
	}
	d, accepted := c.Attach(set, 0, batch)
	if accepted != 2 {
		t.Fatalf("accepted = %d, want 2", accepted)
	}
	set = apply(t, set, d, true)

	got := c.Attachments(set, 0)
	want := batch[:2]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attachments mismatch (-want +got):\n%s", diff)
	}

	if _, accepted := c.Attach(set, 0, []inputmode.FileHandle{{Name: "more.png"}}); accepted != 0 {
		t.Fatalf("full element accepted %d files", accepted)
	}

	d, ok = c.Detach(set, 0, 0)
	set = apply(t, set, d, ok)
	d, accepted = c.Attach(set, 0, []inputmode.FileHandle{{Name: "paste.png", Source: inputmode.SourcePaste}, {Name: "x"}})
	if accepted != 1 {
		t.Fatalf("accepted after detach = %d, want 1", accepted)
	}
	set = apply(t, set, d, true)
	names := []string{}
	for _, h := range c.Attachments(set, 0) {
		names = append(names, h.Name)
	}
	if diff := cmp.Diff([]string{"back.jpg", "paste.png"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestOCRElementsBoundedByStep(t *testing.T) {
	t.Parallel()

	c := inputmode.New(trustorStep())
	set := answers.Empty()
	if _, ok := c.AddElement(set); ok {
		t.Fatalf("AddElement outside OCR mode must be refused")
	}
	d, ok := c.Select(set, inputmode.OCR)
	set = apply(t, set, d, ok)

	d, ok = c.AddElement(set)
	set = apply(t, set, d, ok)
	if got := c.OCRLength(set); got != 2 {
		t.Fatalf("OCRLength = %d, want 2", got)
	}
	if _, ok := c.AddElement(set); ok {
		t.Fatalf("AddElement beyond max must be refused")
	}
	want := []any{
		map[string]any{"attachments": []any{}},
		map[string]any{"attachments": []any{}},
	}
	if diff := cmp.Diff(want, set.Lookup("trustors")); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}

	d, ok = c.RemoveElement(set, 1)
	set = apply(t, set, d, ok)
	if _, ok := c.RemoveElement(set, 0); ok {
		t.Fatalf("removing the last element must be refused")
	}
	if _, accepted := c.Attach(set, 1, []inputmode.FileHandle{{Name: "a"}}); accepted != 0 {
		t.Fatalf("attach to missing element accepted files")
	}
}

func TestOCRArrayFallback(t *testing.T) {
	t.Parallel()

	c := inputmode.New(schema.Step{ID: "scan", Type: schema.StepInputMode})
	if got := c.OCRArrayName(); got != inputmode.DefaultOCRArray {
		t.Fatalf("OCRArrayName = %q", got)
	}
	if got := c.CountField(); got != "scan_mode" {
		t.Fatalf("CountField = %q", got)
	}
	if got := c.TypeField(); got != "scan_mode_type" {
		t.Fatalf("TypeField = %q", got)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	if m, err := inputmode.ParseMode(" OCR "); err != nil || m != inputmode.OCR {
		t.Fatalf("ParseMode = %q, %v", m, err)
	}
	if _, err := inputmode.ParseMode("scan"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
