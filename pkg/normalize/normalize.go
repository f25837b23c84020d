package normalize

import (
	"strings"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// DefaultKeywords are the personal-role titles that mark a step as collecting
// data about a participant.
var DefaultKeywords = []string{
	"Доверитель", "Доверительница", "Поверенный", "Поверенная",
	"Супруг", "Супруга", "Заявитель", "Заявительница",
	"Принципал", "Агент", "Ребёнок", "Ребенок",
	"principal", "attorney-in-fact", "spouse", "applicant", "trustor",
}

// DefaultMarkers are substrings of field names that carry personal data.
var DefaultMarkers = []string{"full_name", "iin", "iin_bin", "birth_date", "address", "document"}

const (
	defaultMin      = 1
	defaultMax      = 1
	defaultArrayMax = 2
)

// Option customises a Normalizer.
type Option func(*Normalizer)

// WithKeywords replaces the personal-role title keywords.
func WithKeywords(keywords ...string) Option {
	return func(n *Normalizer) {
		n.keywords = lowerAll(keywords)
	}
}

// WithMarkers replaces the personal-data field name markers.
func WithMarkers(markers ...string) Option {
	return func(n *Normalizer) {
		n.markers = lowerAll(markers)
	}
}

// Normalizer rewrites legacy participant steps into the input-mode shape.
type Normalizer struct {
	keywords []string
	markers  []string
}

// New builds a normalizer with the default keyword and marker lists.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		keywords: lowerAll(DefaultKeywords),
		markers:  lowerAll(DefaultMarkers),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

var std = New()

// Steps normalizes with the default lists.
func Steps(steps []schema.Step) []schema.Step {
	return std.Steps(steps)
}

// Document normalizes a document with the default lists.
func Document(doc schema.Document) schema.Document {
	out, _ := std.Document(doc)
	return out
}

// Catalog normalizes a document collection with the default lists.
func Catalog(docs []schema.Document) ([]schema.Document, Report) {
	return std.Catalog(docs)
}

// Steps returns a fresh slice with every convertible step rewritten. The
// input is never modified and running the result through Steps again yields
// an equal slice.
func (n *Normalizer) Steps(steps []schema.Step) []schema.Step {
	out, _ := n.steps(steps)
	return out
}

func (n *Normalizer) steps(steps []schema.Step) ([]schema.Step, []Conversion) {
	if steps == nil {
		return nil, nil
	}
	out := make([]schema.Step, len(steps))
	var converted []Conversion
	for i, step := range steps {
		if n.ShouldConvert(step) {
			out[i] = Convert(step)
			converted = append(converted, Conversion{ID: step.ID, Title: step.DisplayTitle(), From: step.Type})
			continue
		}
		out[i] = step.Clone()
	}
	return out, converted
}

// Document normalizes the steps of one document and reports the converted
// steps.
func (n *Normalizer) Document(doc schema.Document) (schema.Document, []Conversion) {
	out := doc.Clone()
	var conversions []Conversion
	out.Parsed.Steps, conversions = n.steps(doc.Parsed.Steps)
	return out, conversions
}

// Catalog normalizes every document. Documents without convertible steps are
// returned unchanged and left out of the report.
func (n *Normalizer) Catalog(docs []schema.Document) ([]schema.Document, Report) {
	out := make([]schema.Document, len(docs))
	var report Report
	for i, doc := range docs {
		normalized, conversions := n.Document(doc)
		out[i] = normalized
		if len(conversions) == 0 {
			continue
		}
		report.Documents = append(report.Documents, DocumentReport{
			ID:    doc.ID,
			Code:  doc.Code,
			Steps: conversions,
		})
		report.Converted += len(conversions)
	}
	return out, report
}

// ShouldConvert reports whether step is a legacy participant step: any step
// whose title names a personal role or whose fields carry personal data.
// Steps already in input-mode never match.
func (n *Normalizer) ShouldConvert(step schema.Step) bool {
	if step.Type == schema.StepInputMode {
		return false
	}
	return n.titleMatches(step.Title) || n.fieldsMatch(step.AllFields())
}

func (n *Normalizer) titleMatches(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return false
	}
	for _, kw := range n.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(t, kw) || strings.Contains(kw, t) {
			return true
		}
	}
	return false
}

func (n *Normalizer) fieldsMatch(fields []schema.Field) bool {
	for _, f := range fields {
		name := strings.ToLower(f.Name)
		for _, marker := range n.markers {
			if marker != "" && strings.Contains(name, marker) {
				return true
			}
		}
	}
	return false
}

// Convert rewrites one step into the input-mode shape regardless of whether
// it matches the detection rule. File fields are dropped from manual entry
// because scans are collected by the OCR branch.
func Convert(step schema.Step) schema.Step {
	out := step.Clone()
	if step.Type == schema.StepInputMode {
		return out
	}

	out.Type = schema.StepInputMode
	out.InputModeField = step.ID + "_mode"
	manual := make([]schema.Field, 0, len(out.Fields))
	for _, f := range out.Fields {
		if !f.IsFile() {
			manual = append(manual, f)
		}
	}
	out.ManualFields = manual
	out.Fields = nil

	if out.Min == nil {
		out.Min = schema.Int(defaultMin)
	}
	if out.Max == nil {
		if step.Type == schema.StepArray {
			out.Max = schema.Int(defaultArrayMax)
		} else {
			out.Max = schema.Int(defaultMax)
		}
		if *out.Max < *out.Min {
			out.Max = schema.Int(*out.Min)
		}
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
