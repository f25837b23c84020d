package preview

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/fieldpath"
	"github.com/goliatone/go-docwizard/pkg/group"
	"github.com/goliatone/go-docwizard/pkg/inputmode"
	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/visibility"
	"github.com/goliatone/go-docwizard/pkg/visibility/expr"
)

// Summary is the template data for a document preview.
type Summary struct {
	Document DocumentInfo `json:"document"`
	Sections []Section    `json:"sections"`
}

// DocumentInfo identifies the summarised document.
type DocumentInfo struct {
	ID    int    `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// Section lists the answered entries of one step.
type Section struct {
	Step    string  `json:"step"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Entry is one labelled answer.
type Entry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summarizer turns a document and an answer set into a Summary.
type Summarizer struct {
	visible *visibility.Resolver
	dict    dictionary.Provider
}

// NewSummarizer builds a summarizer. A nil provider uses the bundled
// dictionaries.
func NewSummarizer(dict dictionary.Provider) *Summarizer {
	if dict == nil {
		dict = dictionary.Default()
	}
	return &Summarizer{visible: visibility.NewResolver(expr.New()), dict: dict}
}

// Summarize lists the answered entries of the steps in visited, in schema
// order. A nil visited list includes every step.
func (s *Summarizer) Summarize(doc schema.Document, set answers.Set, visited []string) Summary {
	out := Summary{
		Document: DocumentInfo{ID: doc.ID, Code: doc.Code, Title: doc.Title},
		Sections: []Section{},
	}

	var include map[string]bool
	if visited != nil {
		include = make(map[string]bool, len(visited))
		for _, id := range visited {
			include[id] = true
		}
	}

	for _, step := range doc.Steps() {
		if include != nil && !include[step.ID] {
			continue
		}
		if !s.visible.Step(step, set) {
			continue
		}
		entries := s.entries(step, set)
		if len(entries) == 0 {
			continue
		}
		out.Sections = append(out.Sections, Section{Step: step.ID, Title: step.DisplayTitle(), Entries: entries})
	}
	return out
}

func (s *Summarizer) entries(step schema.Step, set answers.Set) []Entry {
	switch step.Type {
	case schema.StepRadio, schema.StepCheckboxGroup, schema.StepMultiselect:
		value := set.Lookup(step.ID)
		if blank(value) {
			return nil
		}
		return []Entry{{Label: step.DisplayTitle(), Value: s.choice(dictionary.Resolve(s.dict, step), value)}}
	case schema.StepNumber:
		value := set.Lookup(step.ID)
		if blank(value) {
			return nil
		}
		label := step.Label
		if label == "" {
			label = step.DisplayTitle()
		}
		return []Entry{{Label: label, Value: answers.Stringify(value)}}
	case schema.StepForm:
		var out []Entry
		for _, field := range step.Fields {
			if !s.visible.Field(field, set) {
				continue
			}
			resolved := field
			resolved.Name = fieldpath.Instantiate(field.Name, 0)
			if entry, ok := s.field(resolved, set, ""); ok {
				out = append(out, entry)
			}
		}
		return out
	case schema.StepArray:
		return s.group(group.New(group.FromStep(step)), set)
	case schema.StepInputMode:
		c := inputmode.New(step)
		switch c.Mode(set) {
		case inputmode.Manual:
			return s.group(c.Manual(), set)
		case inputmode.OCR:
			var out []Entry
			g := c.OCRGroup()
			for i := 0; i < c.OCRLength(set); i++ {
				names := make([]string, 0, 2)
				for _, h := range c.Attachments(set, i) {
					names = append(names, h.Name)
				}
				if len(names) > 0 {
					out = append(out, Entry{Label: g.Label(i), Value: strings.Join(names, ", ")})
				}
			}
			return out
		}
	}
	return nil
}

func (s *Summarizer) group(g *group.Controller, set answers.Set) []Entry {
	var out []Entry
	n := g.Length(set)
	for i := 0; i < n; i++ {
		prefix := g.Label(i)
		for _, field := range g.Element(i) {
			if !s.visible.Field(field, set) {
				continue
			}
			if entry, ok := s.field(field, set, prefix); ok {
				out = append(out, entry)
			}
		}
	}
	return out
}

func (s *Summarizer) field(field schema.Field, set answers.Set, prefix string) (Entry, bool) {
	value := set.Lookup(field.Name)
	if blank(value) {
		return Entry{}, false
	}
	label := field.DisplayLabel()
	if prefix != "" {
		label = fmt.Sprintf("%s, %s", prefix, label)
	}

	switch {
	case field.IsFile():
		return Entry{Label: label, Value: fileNames(value)}, true
	case field.Dictionary != "":
		return Entry{Label: label, Value: s.choice(s.dict.Options(field.Dictionary), value)}, true
	case field.Type == schema.FieldCheckbox:
		if answers.Bool(value) {
			return Entry{Label: label, Value: "Да"}, true
		}
		return Entry{Label: label, Value: "Нет"}, true
	default:
		return Entry{Label: label, Value: answers.Stringify(value)}, true
	}
}

// choice maps stored option values back to their labels.
func (s *Summarizer) choice(options []schema.Option, value any) string {
	var values []any
	switch v := value.(type) {
	case []any:
		values = v
	case []string:
		for _, item := range v {
			values = append(values, item)
		}
	default:
		values = []any{value}
	}

	labels := make([]string, 0, len(values))
	for _, item := range values {
		key := answers.Stringify(item)
		label := key
		for _, opt := range options {
			if answers.Stringify(opt.Value) == key {
				label = opt.Label
				break
			}
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, ", ")
}

func fileNames(value any) string {
	list, ok := value.([]any)
	if !ok {
		return answers.Stringify(value)
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			names = append(names, answers.Stringify(m["name"]))
			continue
		}
		names = append(names, answers.Stringify(item))
	}
	return strings.Join(names, ", ")
}

func blank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}
