package orchestrator

import (
	"io"

	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/group"
	"github.com/goliatone/go-docwizard/pkg/inputmode"
	"github.com/goliatone/go-docwizard/pkg/preview"
	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/validation"
)

// FieldView is one visible input with its current value.
type FieldView struct {
	Name     string           `json:"name"`
	Type     schema.FieldType `json:"type"`
	Label    string           `json:"label"`
	Required bool             `json:"required,omitempty"`
	Value    any              `json:"value,omitempty"`
	Options  []schema.Option  `json:"options,omitempty"`
}

// ElementView is one element of a repeated group.
type ElementView struct {
	Index       int                    `json:"index"`
	Label       string                 `json:"label"`
	Fields      []FieldView            `json:"fields,omitempty"`
	Attachments []inputmode.FileHandle `json:"attachments,omitempty"`
}

// StepView is everything a front end needs to draw the current step.
type StepView struct {
	ID          string             `json:"id"`
	Type        schema.StepType    `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Index       int                `json:"index"`
	Total       int                `json:"total"`
	Progress    float64            `json:"progress"`
	CanBack     bool               `json:"can_back"`
	Final       bool               `json:"final"`
	Value       any                `json:"value,omitempty"`
	Options     []schema.Option    `json:"options,omitempty"`
	Fields      []FieldView        `json:"fields,omitempty"`
	Elements    []ElementView      `json:"elements,omitempty"`
	Mode        inputmode.Mode     `json:"mode,omitempty"`
	CanAdd      bool               `json:"can_add,omitempty"`
	CanRemove   bool               `json:"can_remove,omitempty"`
	Issues      []validation.Issue `json:"issues,omitempty"`
}

// View describes the current step under the committed answers. Issues are
// filled in so front ends can show them inline before Advance.
func (w *Wizard) View() StepView {
	step := w.Current()
	v := StepView{
		ID:          step.ID,
		Type:        step.Type,
		Title:       step.DisplayTitle(),
		Description: step.Description,
		Index:       w.CurrentIndex(),
		Total:       len(w.doc.Parsed.Steps),
		Progress:    w.Progress(),
		CanBack:     len(w.history) > 0,
		Final:       step.Type == schema.StepFinal,
		Issues:      w.Validate(),
	}

	switch step.Type {
	case schema.StepRadio, schema.StepCheckboxGroup, schema.StepMultiselect:
		v.Options = dictionary.Resolve(w.dict, step)
		v.Value = w.set.Lookup(step.ID)
	case schema.StepNumber:
		v.Value = w.set.Lookup(step.ID)
	case schema.StepForm:
		v.Fields = w.fieldViews(step.Fields)
	case schema.StepArray:
		g := group.New(group.FromStep(step))
		v.Elements = w.groupViews(g)
		v.CanAdd = g.CanAdd(w.set)
		v.CanRemove = g.CanRemove(w.set)
	case schema.StepInputMode:
		c := inputmode.New(step)
		v.Mode = c.Mode(w.set)
		switch v.Mode {
		case inputmode.Manual:
			v.Elements = w.groupViews(c.Manual())
			v.CanAdd = c.Manual().CanAdd(w.set)
			v.CanRemove = c.Manual().CanRemove(w.set)
		case inputmode.OCR:
			g := c.OCRGroup()
			for i := 0; i < c.OCRLength(w.set); i++ {
				v.Elements = append(v.Elements, ElementView{Index: i, Label: g.Label(i), Attachments: c.Attachments(w.set, i)})
			}
			v.CanAdd = g.CanAdd(w.set)
			v.CanRemove = g.CanRemove(w.set)
		}
	}
	return v
}

func (w *Wizard) fieldViews(fields []schema.Field) []FieldView {
	visible := w.visible.Fields(fields, w.set)
	out := make([]FieldView, 0, len(visible))
	for _, f := range visible {
		fv := FieldView{
			Name:     f.Name,
			Type:     f.Type,
			Label:    f.DisplayLabel(),
			Required: f.Required,
			Value:    w.set.Lookup(f.Name),
		}
		if f.Dictionary != "" {
			fv.Options = w.dict.Options(f.Dictionary)
		}
		out = append(out, fv)
	}
	return out
}

func (w *Wizard) groupViews(g *group.Controller) []ElementView {
	n := g.Length(w.set)
	out := make([]ElementView, n)
	for i := 0; i < n; i++ {
		out[i] = ElementView{Index: i, Label: g.Label(i), Fields: w.fieldViews(g.Element(i))}
	}
	return out
}

// Summary returns the structured preview of the visited steps.
func (w *Wizard) Summary(s *preview.Summarizer) preview.Summary {
	if s == nil {
		s = preview.NewSummarizer(w.dict)
	}
	return s.Summarize(w.doc, w.set, w.Visited())
}

// Preview renders the visited steps through a preview engine.
func (w *Wizard) Preview(e *preview.Engine, out ...io.Writer) (string, error) {
	return e.Preview(w.doc, w.set, w.Visited(), out...)
}
