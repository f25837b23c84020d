package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/validation"
)

func fields(issues []validation.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Field)
	}
	return out
}

func TestRadioRequired(t *testing.T) {
	t.Parallel()

	v := validation.New()
	step := schema.Step{ID: "trustor_count", Type: schema.StepRadio, Title: "Количество доверителей"}

	issues := v.Step(step, answers.Empty())
	want := []validation.Issue{{
		Field:   "trustor_count",
		Message: "Поле 'Количество доверителей' обязательно для заполнения. Пожалуйста, выберите один из вариантов.",
	}}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if got := v.Step(step, answers.New(map[string]any{"trustor_count": "1"})); len(got) != 0 {
		t.Fatalf("unexpected issues: %+v", got)
	}
}

func TestCheckboxGroupMinimum(t *testing.T) {
	t.Parallel()

	v := validation.New()
	step := schema.Step{ID: "powers", Type: schema.StepCheckboxGroup, Validation: &schema.Constraints{Min: schema.Int(2)}}

	issues := v.Step(step, answers.New(map[string]any{"powers": []any{"sell"}}))
	if len(issues) != 1 || issues[0].Message != "Минимум 2 элемент(ов) требуется" {
		t.Fatalf("issues = %+v", issues)
	}
	if got := v.Step(step, answers.New(map[string]any{"powers": []any{"sell", "buy"}})); len(got) != 0 {
		t.Fatalf("unexpected issues: %+v", got)
	}
}

func TestNumberStep(t *testing.T) {
	t.Parallel()

	v := validation.New()
	step := schema.Step{ID: "child_count", Type: schema.StepNumber, Label: "Количество детей", Min: schema.Int(1), Max: schema.Int(10)}

	cases := []struct {
		value any
		want  string
	}{
		{nil, "Поле 'Количество детей' обязательно для заполнения"},
		{"", "Поле 'Количество детей' обязательно для заполнения"},
		{0, "Минимальное значение: 1"},
		{"11", "Максимальное значение: 10"},
		{"abc", "Неверный формат данных"},
		{5, ""},
	}
	for _, tc := range cases {
		issues := v.Step(step, answers.New(map[string]any{"child_count": tc.value}))
		got := ""
		if len(issues) > 0 {
			got = issues[0].Message
		}
		if got != tc.want {
			t.Fatalf("value %#v: message = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestArrayStepCountsAndFiles(t *testing.T) {
	t.Parallel()

	v := validation.New()
	step := schema.Step{
		ID:        "children",
		Type:      schema.StepArray,
		Min:       schema.Int(1),
		Max:       schema.Int(2),
		ItemLabel: "Ребёнок",
		Fields: []schema.Field{
			{Name: "children[].birth_date", Type: schema.FieldDate},
			{Name: "children[].certificate", Type: schema.FieldFile, Min: schema.Int(1), Max: schema.Int(2)},
		},
	}

	set := answers.New(map[string]any{"children": []any{
		map[string]any{"birth_date": "2015-03-01", "certificate": []any{"a.pdf"}},
		map[string]any{"birth_date": "01.03.2015"},
		map[string]any{"certificate": []any{"a", "b", "c"}},
	}})

	issues := v.Step(step, set)
	want := []validation.Issue{
		{Field: "children", Message: "Максимум 2 элемент(ов) разрешено"},
		{Field: "children[1].birth_date", Message: "Дата должна быть в формате ГГГГ-ММ-ДД"},
		{Field: "children[1].certificate", Message: "Необходимо загрузить файлы для Ребёнок 2"},
		{Field: "children[2].certificate", Message: "Можно загрузить максимум 2 файл(ов)"},
	}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestFormStepSkipsHiddenFields(t *testing.T) {
	t.Parallel()

	v := validation.New()
	step := schema.Step{
		ID:   "details",
		Type: schema.StepForm,
		Fields: []schema.Field{
			{Name: "owner_iin", Type: schema.FieldText, Label: "ИИН", Required: true},
			{Name: "spouse_name", Type: schema.FieldText, Label: "Супруг", Required: true, ShowIf: "married == true"},
			{Name: "passport", Type: schema.FieldFile},
		},
	}

	issues := v.Step(step, answers.New(map[string]any{"owner_iin": "123", "married": false}))
	if diff := cmp.Diff([]string{"owner_iin", "passport"}, fields(issues)); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
	if issues[0].Message != "ИИН должен содержать 12 цифр" {
		t.Fatalf("iin message = %q", issues[0].Message)
	}

	issues = v.Step(step, answers.New(map[string]any{
		"owner_iin": "900101300123",
		"married":   true,
		"passport":  []any{"p.jpg"},
	}))
	if diff := cmp.Diff([]string{"spouse_name"}, fields(issues)); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
}

func TestInputModeStep(t *testing.T) {
	t.Parallel()

	v := validation.New()
	step := schema.Step{
		ID:             "trustor",
		Type:           schema.StepInputMode,
		InputModeField: "trustor_mode",
		Title:          "Доверитель",
		ManualFields: []schema.Field{
			{Name: "trustors[].full_name", Type: schema.FieldText, Label: "ФИО"},
			{Name: "trustors[].iin", Type: schema.FieldText, Label: "ИИН"},
		},
	}

	if got := fields(v.Step(step, answers.Empty())); !cmp.Equal(got, []string{"trustor_mode_type"}) {
		t.Fatalf("unset mode issues = %v", got)
	}

	manual := answers.New(map[string]any{
		"trustor_mode_type": "manual",
		"trustor_mode":      2,
		"trustors": []any{
			map[string]any{"full_name": "Иванов", "iin": "900101300123"},
			map[string]any{"full_name": "Петров"},
		},
	})
	if diff := cmp.Diff([]string{"trustors[1].iin"}, fields(v.Step(step, manual))); diff != "" {
		t.Fatalf("manual issues mismatch (-want +got):\n%s", diff)
	}

	ocr := answers.New(map[string]any{
		"trustor_mode_type": "ocr",
		"trustor_mode":      1,
		"trustors":          []any{map[string]any{"attachments": []any{}}},
	})
	issues := v.Step(step, ocr)
	want := []validation.Issue{{Field: "trustors[0].attachments", Message: "Необходимо загрузить файлы для Доверитель 1"}}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("ocr issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationRules(t *testing.T) {
	t.Parallel()

	v := validation.New()
	step := schema.Step{
		ID:   "check",
		Type: schema.StepValidation,
		Rules: []string{
			"required: trustors[0].full_name",
			"required_array_min: attorneys, 2",
			"xor: sell || buy",
			"child_count >= 1",
			"child_count <= 3",
			"something we do not understand",
		},
	}

	set := answers.New(map[string]any{
		"attorneys":   []any{map[string]any{}},
		"sell":        true,
		"buy":         []any{"flat"},
		"child_count": 5,
	})
	want := []validation.Issue{
		{Field: "trustors[0].full_name", Message: "Поле 'trustors[0].full_name' обязательно для заполнения"},
		{Field: "attorneys", Message: "Минимум 2 элемент(ов) требуется для 'attorneys'"},
		{Field: "sell или buy", Message: "Должен быть выбран ровно один из вариантов"},
		{Field: "child_count", Message: "Значение должно быть не более 3"},
	}
	if diff := cmp.Diff(want, v.Step(step, set)); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	ok := answers.New(map[string]any{
		"trustors":    []any{map[string]any{"full_name": "Иванов"}},
		"attorneys":   []any{map[string]any{}, map[string]any{}},
		"sell":        true,
		"child_count": "2",
	})
	if res := v.Result(step, ok); !res.Valid {
		t.Fatalf("expected valid result, got %+v", res.Issues)
	}
}
