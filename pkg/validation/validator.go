package validation

import (
	"fmt"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/fieldpath"
	"github.com/goliatone/go-docwizard/pkg/group"
	"github.com/goliatone/go-docwizard/pkg/inputmode"
	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/visibility"
	"github.com/goliatone/go-docwizard/pkg/visibility/expr"
)

// Issue is one problem found on a step.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result bundles the issues of a step validation pass.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Option customises a Validator.
type Option func(*Validator)

// WithVisibility sets the resolver used to skip hidden fields.
func WithVisibility(r *visibility.Resolver) Option {
	return func(v *Validator) {
		if r != nil {
			v.visible = r
		}
	}
}

// Validator checks the answers collected for one step. It never blocks on its
// own; whether issues stop navigation is up to the caller.
type Validator struct {
	visible *visibility.Resolver
}

// New builds a validator using the single-equality visibility grammar.
func New(opts ...Option) *Validator {
	v := &Validator{visible: visibility.NewResolver(expr.New())}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Result wraps Step.
func (v *Validator) Result(step schema.Step, set answers.Set) Result {
	issues := v.Step(step, set)
	return Result{Valid: len(issues) == 0, Issues: issues}
}

// Step returns every issue for step under the given answers, in field order.
func (v *Validator) Step(step schema.Step, set answers.Set) []Issue {
	var issues []Issue
	switch step.Type {
	case schema.StepRadio:
		issues = v.radio(step, set)
	case schema.StepCheckboxGroup, schema.StepMultiselect:
		issues = v.selection(step, set)
	case schema.StepNumber:
		issues = v.number(step, set)
	case schema.StepArray:
		issues = v.array(step, set)
	case schema.StepForm:
		issues = v.form(step, set)
	case schema.StepInputMode:
		issues = v.inputMode(step, set)
	case schema.StepValidation:
		issues = v.rules(step.Rules, set)
	case schema.StepFinal:
	}
	if step.Validation != nil {
		issues = append(issues, v.required(step.Validation.Required, set)...)
	}
	return issues
}

func blank(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func (v *Validator) radio(step schema.Step, set answers.Set) []Issue {
	if blank(set.Lookup(step.ID)) {
		return []Issue{{
			Field:   step.ID,
			Message: fmt.Sprintf("Поле '%s' обязательно для заполнения. Пожалуйста, выберите один из вариантов.", step.DisplayTitle()),
		}}
	}
	return nil
}

func (v *Validator) selection(step schema.Step, set answers.Set) []Issue {
	if step.Validation == nil {
		return nil
	}
	items := listOf(set.Lookup(step.ID))
	switch checkCount(items, step.Validation.Min, step.Validation.Max) {
	case "minItems":
		return []Issue{{Field: step.ID, Message: fmt.Sprintf("Минимум %d элемент(ов) требуется", *step.Validation.Min)}}
	case "maxItems":
		return []Issue{{Field: step.ID, Message: fmt.Sprintf("Максимум %d элемент(ов) разрешено", *step.Validation.Max)}}
	}
	return nil
}

func (v *Validator) number(step schema.Step, set answers.Set) []Issue {
	value := set.Lookup(step.ID)
	if blank(value) {
		label := step.Label
		if label == "" {
			label = step.ID
		}
		return []Issue{{Field: step.ID, Message: fmt.Sprintf("Поле '%s' обязательно для заполнения", label)}}
	}
	field := schema.Field{Name: step.ID, Type: schema.FieldNumber, Min: step.Min, Max: step.Max}
	if msg := checkValue(field, value); msg != "" {
		return []Issue{{Field: step.ID, Message: msg}}
	}
	return nil
}

func (v *Validator) array(step schema.Step, set answers.Set) []Issue {
	g := group.New(group.FromStep(step))
	name := g.ArrayName()
	items := listOf(set.Lookup(name))

	var issues []Issue
	switch checkCount(items, step.Min, step.Max) {
	case "minItems":
		issues = append(issues, Issue{Field: name, Message: fmt.Sprintf("Минимум %d элемент(ов) требуется", *step.Min)})
	case "maxItems":
		issues = append(issues, Issue{Field: name, Message: fmt.Sprintf("Максимум %d элемент(ов) разрешено", *step.Max)})
	}

	label := step.ItemLabel
	if label == "" {
		label = "элемента"
	}
	for i := range items {
		for _, field := range g.Element(i) {
			if !v.visible.Field(field, set) {
				continue
			}
			value := set.Lookup(field.Name)
			if field.IsFile() {
				if len(listOf(value)) == 0 {
					issues = append(issues, Issue{
						Field:   field.Name,
						Message: fmt.Sprintf("Необходимо загрузить файлы для %s %d", label, i+1),
					})
					continue
				}
				issues = append(issues, fileCount(field, value)...)
				continue
			}
			issues = append(issues, v.leaf(field, value)...)
		}
	}
	return issues
}

func (v *Validator) form(step schema.Step, set answers.Set) []Issue {
	var issues []Issue
	for _, field := range step.Fields {
		if !v.visible.Field(field, set) {
			continue
		}
		resolved := fieldpath.Instantiate(field.Name, 0)
		value := set.Lookup(resolved)
		if field.IsFile() {
			if len(listOf(value)) == 0 {
				issues = append(issues, Issue{Field: field.Name, Message: "Необходимо загрузить файлы"})
				continue
			}
			issues = append(issues, fileCount(field, value)...)
			continue
		}
		issues = append(issues, v.leaf(field, value)...)
	}
	return issues
}

func (v *Validator) inputMode(step schema.Step, set answers.Set) []Issue {
	c := inputmode.New(step)
	switch c.Mode(set) {
	case inputmode.Manual:
		var issues []Issue
		g := c.Manual()
		for i := 0; i < g.Length(set); i++ {
			for _, field := range g.Element(i) {
				if !v.visible.Field(field, set) {
					continue
				}
				value := set.Lookup(field.Name)
				if !answers.Truthy(value) {
					issues = append(issues, Issue{
						Field:   field.Name,
						Message: fmt.Sprintf("Поле '%s' обязательно для заполнения", field.DisplayLabel()),
					})
					continue
				}
				if msg := checkValue(field, value); msg != "" {
					issues = append(issues, Issue{Field: field.Name, Message: msg})
				}
			}
		}
		return issues
	case inputmode.OCR:
		var issues []Issue
		g := c.OCRGroup()
		for i := 0; i < c.OCRLength(set); i++ {
			if len(c.Attachments(set, i)) == 0 {
				issues = append(issues, Issue{
					Field:   c.AttachmentsPath(i),
					Message: fmt.Sprintf("Необходимо загрузить файлы для %s", g.Label(i)),
				})
			}
		}
		return issues
	default:
		return []Issue{{Field: c.TypeField(), Message: "Выберите способ ввода данных"}}
	}
}

// leaf checks a non-file field: the required flag, then the typed value.
func (v *Validator) leaf(field schema.Field, value any) []Issue {
	if blank(value) {
		if field.Required {
			return []Issue{{Field: field.Name, Message: requiredMessage(field)}}
		}
		return nil
	}
	if msg := checkValue(field, value); msg != "" {
		return []Issue{{Field: field.Name, Message: msg}}
	}
	return nil
}

func requiredMessage(field schema.Field) string {
	if field.Label == "" {
		return "Это поле обязательно для заполнения"
	}
	return fmt.Sprintf("Поле '%s' обязательно для заполнения", field.Label)
}

func fileCount(field schema.Field, value any) []Issue {
	switch checkCount(listOf(value), field.Min, field.Max) {
	case "minItems":
		return []Issue{{Field: field.Name, Message: fmt.Sprintf("Необходимо загрузить минимум %d файл(ов)", *field.Min)}}
	case "maxItems":
		return []Issue{{Field: field.Name, Message: fmt.Sprintf("Можно загрузить максимум %d файл(ов)", *field.Max)}}
	}
	return nil
}

func listOf(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}
