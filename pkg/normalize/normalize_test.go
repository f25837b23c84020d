package normalize_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docwizard/pkg/normalize"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

func legacyFields() []schema.Field {
	return []schema.Field{
		{Name: "full_name", Type: schema.FieldText},
		{Name: "scan", Type: schema.FieldFile},
	}
}

func TestConvertFormStep(t *testing.T) {
	t.Parallel()

	in := []schema.Step{{ID: "trustor", Type: schema.StepForm, Title: "Доверитель", Fields: legacyFields()}}
	got := normalize.Steps(in)

	want := []schema.Step{{
		ID:             "trustor",
		Type:           schema.StepInputMode,
		Title:          "Доверитель",
		InputModeField: "trustor_mode",
		ManualFields:   []schema.Field{{Name: "full_name", Type: schema.FieldText}},
		Min:            schema.Int(1),
		Max:            schema.Int(1),
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("converted step mismatch (-want +got):\n%s", diff)
	}

	if in[0].Type != schema.StepForm || len(in[0].Fields) != 2 {
		t.Fatalf("input mutated: %+v", in[0])
	}
}

func TestConvertArrayStepDefaultsMaxTwo(t *testing.T) {
	t.Parallel()

	got := normalize.Steps([]schema.Step{{ID: "trustors", Type: schema.StepArray, Title: "Доверители", Fields: legacyFields()}})
	if got[0].Type != schema.StepInputMode {
		t.Fatalf("type = %q", got[0].Type)
	}
	if *got[0].Max != 2 || *got[0].Min != 1 {
		t.Fatalf("bounds = %d/%d, want 1/2", *got[0].Min, *got[0].Max)
	}

	explicit := normalize.Steps([]schema.Step{{ID: "t", Type: schema.StepArray, Title: "Доверители", Max: schema.Int(5), Fields: legacyFields()}})
	if *explicit[0].Max != 5 {
		t.Fatalf("explicit max overwritten: %d", *explicit[0].Max)
	}
}

func TestZeroFieldsMatchingTitleStillConverts(t *testing.T) {
	t.Parallel()

	got := normalize.Steps([]schema.Step{{ID: "spouse", Type: schema.StepForm, Title: "Супруга"}})
	if got[0].Type != schema.StepInputMode {
		t.Fatalf("type = %q", got[0].Type)
	}
	if got[0].ManualFields == nil || len(got[0].ManualFields) != 0 {
		t.Fatalf("manual fields = %#v, want empty list", got[0].ManualFields)
	}
}

func TestDetection(t *testing.T) {
	t.Parallel()

	n := normalize.New()
	cases := []struct {
		name string
		step schema.Step
		want bool
	}{
		{"title case insensitive", schema.Step{ID: "a", Type: schema.StepForm, Title: "ЗАЯВИТЕЛЬ"}, true},
		{"inflected title", schema.Step{ID: "a", Type: schema.StepForm, Title: "Данные заявителя"}, false},
		{"title substring", schema.Step{ID: "a", Type: schema.StepForm, Title: "Данные заявителя: Заявитель"}, true},
		{"english keyword", schema.Step{ID: "a", Type: schema.StepForm, Title: "Spouse details"}, true},
		{"keyword contains title", schema.Step{ID: "a", Type: schema.StepForm, Title: "Супр"}, true},
		{"field marker", schema.Step{ID: "a", Type: schema.StepForm, Title: "Данные", Fields: []schema.Field{{Name: "owner_iin", Type: schema.FieldText}}}, true},
		{"no match", schema.Step{ID: "a", Type: schema.StepForm, Title: "Объект", Fields: []schema.Field{{Name: "area", Type: schema.FieldNumber}}}, false},
		{"empty title", schema.Step{ID: "a", Type: schema.StepForm}, false},
		{"already input-mode", schema.Step{ID: "a", Type: schema.StepInputMode, Title: "Доверитель"}, false},
		{"radio with role title", schema.Step{ID: "a", Type: schema.StepRadio, Title: "Есть ли супруг?"}, true},
		{"number with role title", schema.Step{ID: "applicant_count", Type: schema.StepNumber, Title: "Заявитель"}, true},
		{"checkbox group with marker field", schema.Step{ID: "spouse_docs", Type: schema.StepCheckboxGroup, Title: "Документы", Fields: []schema.Field{{Name: "spouse_full_name", Type: schema.FieldText}}}, true},
		{"radio without role", schema.Step{ID: "a", Type: schema.StepRadio, Title: "Город"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.ShouldConvert(tc.step); got != tc.want {
				t.Fatalf("ShouldConvert = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConvertNonFormSteps(t *testing.T) {
	t.Parallel()

	got := normalize.Steps([]schema.Step{
		{ID: "applicant_count", Type: schema.StepNumber, Title: "Заявитель"},
		{ID: "spouse_docs", Type: schema.StepCheckboxGroup, Title: "Документы", Fields: []schema.Field{
			{Name: "spouse_full_name", Type: schema.FieldText},
			{Name: "spouse_scan", Type: schema.FieldFile},
		}},
	})

	want := []schema.Step{
		{
			ID:             "applicant_count",
			Type:           schema.StepInputMode,
			Title:          "Заявитель",
			InputModeField: "applicant_count_mode",
			ManualFields:   []schema.Field{},
			Min:            schema.Int(1),
			Max:            schema.Int(1),
		},
		{
			ID:             "spouse_docs",
			Type:           schema.StepInputMode,
			Title:          "Документы",
			InputModeField: "spouse_docs_mode",
			ManualFields:   []schema.Field{{Name: "spouse_full_name", Type: schema.FieldText}},
			Min:            schema.Int(1),
			Max:            schema.Int(1),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("converted steps mismatch (-want +got):\n%s", diff)
	}
}

func TestIdempotent(t *testing.T) {
	t.Parallel()

	steps := []schema.Step{
		{ID: "intro", Type: schema.StepRadio, Options: []schema.Option{{Value: "1", Label: "Один"}}, Next: schema.Branch(map[string]string{"1": "trustor"})},
		{ID: "trustor", Type: schema.StepForm, Title: "Доверитель", Fields: legacyFields(), Next: schema.To("children")},
		{ID: "children", Type: schema.StepArray, Title: "Дети", DynamicCountFrom: "child_count", Fields: []schema.Field{{Name: "children[].birth_date", Type: schema.FieldDate}}},
		{ID: "done", Type: schema.StepFinal},
	}
	once := normalize.Steps(steps)
	twice := normalize.Steps(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("normalize is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestCatalogReport(t *testing.T) {
	t.Parallel()

	docs := []schema.Document{
		{ID: 1, Code: "POA-1", Title: "Доверенность", Parsed: schema.Parsed{Steps: []schema.Step{
			{ID: "trustor", Type: schema.StepForm, Title: "Доверитель", Fields: legacyFields()},
			{ID: "attorney", Type: schema.StepArray, Title: "Поверенный", Fields: legacyFields()},
			{ID: "done", Type: schema.StepFinal},
		}}},
		{ID: 2, Code: "NOTE", Title: "Заметка", Parsed: schema.Parsed{Steps: []schema.Step{
			{ID: "text", Type: schema.StepForm, Title: "Текст", Fields: []schema.Field{{Name: "body", Type: schema.FieldText}}},
		}}},
	}

	migrated, report := normalize.Catalog(docs)
	if report.Converted != 2 || len(report.Documents) != 1 {
		t.Fatalf("report = %+v", report)
	}
	wantSteps := []normalize.Conversion{
		{ID: "trustor", Title: "Доверитель", From: schema.StepForm},
		{ID: "attorney", Title: "Поверенный", From: schema.StepArray},
	}
	if diff := cmp.Diff(wantSteps, report.Documents[0].Steps); diff != "" {
		t.Fatalf("conversions mismatch (-want +got):\n%s", diff)
	}

	again, second := normalize.Catalog(migrated)
	if !second.Empty() {
		t.Fatalf("re-running migration converted %d steps", second.Converted)
	}
	if diff := cmp.Diff(migrated, again); diff != "" {
		t.Fatalf("catalog migration is not idempotent (-first +second):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf, 10); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(buf.String(), "POA-1: 2 steps") {
		t.Fatalf("unexpected report text:\n%s", buf.String())
	}
}

func TestCustomKeywords(t *testing.T) {
	t.Parallel()

	n := normalize.New(normalize.WithKeywords("Наследник"), normalize.WithMarkers("passport"))
	if !n.ShouldConvert(schema.Step{ID: "h", Type: schema.StepForm, Title: "Наследник"}) {
		t.Fatalf("custom keyword not honoured")
	}
	if n.ShouldConvert(schema.Step{ID: "d", Type: schema.StepForm, Title: "Доверитель"}) {
		t.Fatalf("default keywords should be replaced")
	}
}
