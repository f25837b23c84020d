package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// PowerOfAttorneyID is the id of the PowerOfAttorney fixture.
const PowerOfAttorneyID = 101

// PowerOfAttorney returns a legacy-shaped document: the trustor count branches
// to a single-person form or a repeated group sized by the count, and both
// converge on the attorney step. The person steps normalise to input-mode.
func PowerOfAttorney() schema.Document {
	return schema.Document{
		ID:       PowerOfAttorneyID,
		Code:     "POA-GEN",
		Title:    "Генеральная доверенность",
		Category: "Доверенности / Имущество / Общие",
		Parsed: schema.Parsed{
			Placeholders: []string{"trustors", "attorney_full_name", "powers", "city"},
			Steps: []schema.Step{
				{
					ID:    "trustor_count",
					Type:  schema.StepRadio,
					Title: "Сколько доверителей?",
					Options: []schema.Option{
						{Value: "1", Label: "Один"},
						{Value: "2", Label: "Два"},
					},
					Next: schema.Branch(map[string]string{"1": "trustor", "2": "trustors"}),
				},
				{
					ID:    "trustor",
					Type:  schema.StepForm,
					Title: "Доверитель",
					Fields: []schema.Field{
						{Name: "trustor_full_name", Type: schema.FieldText, Label: "ФИО", Required: true},
						{Name: "trustor_iin", Type: schema.FieldText, Label: "ИИН"},
						{Name: "trustor_passport", Type: schema.FieldFile, Label: "Удостоверение"},
					},
					Next: schema.To("attorney"),
				},
				{
					ID:               "trustors",
					Type:             schema.StepArray,
					Title:            "Доверители",
					ItemLabel:        "Доверитель",
					DynamicCountFrom: "trustor_count",
					Max:              schema.Int(2),
					Fields: []schema.Field{
						{Name: "trustors[].full_name", Type: schema.FieldText, Label: "ФИО"},
						{Name: "trustors[].iin", Type: schema.FieldText, Label: "ИИН"},
					},
					Next: schema.To("attorney"),
				},
				{
					ID:    "attorney",
					Type:  schema.StepForm,
					Title: "Поверенный",
					Fields: []schema.Field{
						{Name: "attorney_full_name", Type: schema.FieldText, Label: "ФИО", Required: true},
					},
					Next: schema.To("powers"),
				},
				{
					ID:    "powers",
					Type:  schema.StepCheckboxGroup,
					Title: "Полномочия",
					Options: []schema.Option{
						{Value: "sell", Label: "Продажа"},
						{Value: "rent", Label: "Аренда"},
						{Value: "court", Label: "Представительство в суде"},
					},
					Validation: &schema.Constraints{Min: schema.Int(1)},
					Next:       schema.To("city"),
				},
				{
					ID:          "city",
					Type:        schema.StepRadio,
					Title:       "Город",
					OptionsFrom: "cities",
					Next:        schema.To("check"),
				},
				{
					ID:    "check",
					Type:  schema.StepValidation,
					Title: "Проверка",
					Rules: []string{"required: city"},
					Next:  schema.To("done"),
				},
				{
					ID:     "done",
					Type:   schema.StepFinal,
					Title:  "Готово",
					Output: "poa-general",
				},
			},
		},
	}
}

// ChildrenConsentID is the id of the ChildrenConsent fixture.
const ChildrenConsentID = 202

// ChildrenConsent returns a document exercising a numeric count source, a
// conditional field, a step-level condition, and a static repeated group.
func ChildrenConsent() schema.Document {
	return schema.Document{
		ID:       ChildrenConsentID,
		Code:     "CONSENT-TRAVEL",
		Title:    "Согласие на выезд детей",
		Category: "Согласия / Выезд",
		Parsed: schema.Parsed{
			Steps: []schema.Step{
				{
					ID:    "has_spouse",
					Type:  schema.StepRadio,
					Title: "Состоите в браке?",
					Options: []schema.Option{
						{Value: true, Label: "Да"},
						{Value: false, Label: "Нет"},
					},
					Next: schema.To("spouse_consent"),
				},
				{
					ID:     "spouse_consent",
					Type:   schema.StepRadio,
					Title:  "Согласие второго родителя получено?",
					ShowIf: "has_spouse == true",
					Options: []schema.Option{
						{Value: "yes", Label: "Да"},
						{Value: "no", Label: "Нет"},
					},
					Next: schema.To("child_count"),
				},
				{
					ID:    "child_count",
					Type:  schema.StepNumber,
					Label: "Количество детей",
					Min:   schema.Int(1),
					Max:   schema.Int(5),
					Next:  schema.To("children"),
				},
				{
					ID:               "children",
					Type:             schema.StepArray,
					Title:            "Дети",
					ItemLabel:        "Ребёнок",
					DynamicCountFrom: "child_count",
					Fields: []schema.Field{
						{Name: "children[].name", Type: schema.FieldText, Label: "Имя", Required: true},
						{Name: "children[].birth_date", Type: schema.FieldDate, Label: "Дата рождения"},
						{Name: "children[].guardian", Type: schema.FieldText, Label: "Опекун", ShowIf: "has_guardian == true"},
					},
					Next: schema.To("countries"),
				},
				{
					ID:          "countries",
					Type:        schema.StepMultiselect,
					Title:       "Страны",
					OptionsFrom: "countries_world",
					Next:        schema.To("done"),
				},
				{
					ID:   "done",
					Type: schema.StepFinal,
				},
			},
		},
	}
}

// Catalog returns every fixture document.
func Catalog() []schema.Document {
	return []schema.Document{PowerOfAttorney(), ChildrenConsent()}
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustJSON encodes value without HTML escaping, for request bodies.
func MustJSON(t *testing.T, value any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		t.Fatalf("encode json: %v", err)
	}
	return &buf
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
