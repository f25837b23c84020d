package schema

// Step is one page of the wizard.
type Step struct {
	ID               string       `json:"id" yaml:"id"`
	Type             StepType     `json:"type" yaml:"type"`
	Title            string       `json:"title,omitempty" yaml:"title,omitempty"`
	Label            string       `json:"label,omitempty" yaml:"label,omitempty"`
	Description      string       `json:"description,omitempty" yaml:"description,omitempty"`
	InputModeField   string       `json:"input_mode_field,omitempty" yaml:"input_mode_field,omitempty"`
	Min              *int         `json:"min,omitempty" yaml:"min,omitempty"`
	Max              *int         `json:"max,omitempty" yaml:"max,omitempty"`
	DynamicCountFrom string       `json:"dynamicCountFrom,omitempty" yaml:"dynamicCountFrom,omitempty"`
	ItemLabel        string       `json:"item_label,omitempty" yaml:"item_label,omitempty"`
	Fields           []Field      `json:"fields,omitzero" yaml:"fields,omitempty"`
	ManualFields     []Field      `json:"manual_fields,omitzero" yaml:"manual_fields,omitempty"`
	Options          []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	OptionsFrom      string       `json:"optionsFrom,omitempty" yaml:"optionsFrom,omitempty"`
	SelectAll        bool         `json:"select_all,omitempty" yaml:"select_all,omitempty"`
	Validation       *Constraints `json:"validation,omitempty" yaml:"validation,omitempty"`
	Rules            []string     `json:"rules,omitempty" yaml:"rules,omitempty"`
	Next             Next         `json:"next,omitzero" yaml:"next,omitempty"`
	Output           string       `json:"output,omitempty" yaml:"output,omitempty"`
	// ShowIf is an optional step-level visibility condition using the same
	// single-equality grammar as field conditions.
	ShowIf string `json:"show_if,omitempty" yaml:"show_if,omitempty"`
}

// Field is one leaf input inside a step.
type Field struct {
	Name       string    `json:"name" yaml:"name"`
	Type       FieldType `json:"type" yaml:"type"`
	Label      string    `json:"label,omitempty" yaml:"label,omitempty"`
	Min        *int      `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *int      `json:"max,omitempty" yaml:"max,omitempty"`
	Dictionary string    `json:"dictionary,omitempty" yaml:"dictionary,omitempty"`
	ShowIf     string    `json:"show_if,omitempty" yaml:"show_if,omitempty"`
	Required   bool      `json:"required,omitempty" yaml:"required,omitempty"`
}

// Option is one choice of a radio, checkbox-group, or multiselect input.
// Value may be a string, number, or boolean.
type Option struct {
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Constraints carries the advisory `validation` block of a step.
type Constraints struct {
	Min      *int     `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *int     `json:"max,omitempty" yaml:"max,omitempty"`
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
}

// Int returns a pointer to v, for building bounds in code.
func Int(v int) *int {
	return &v
}

// ModeField returns the answer key holding the entry count of an input-mode
// step, defaulting to `<id>_mode`.
func (s Step) ModeField() string {
	if s.InputModeField != "" {
		return s.InputModeField
	}
	return s.ID + "_mode"
}

// ModeTypeField returns the answer key holding the selected entry mode.
func (s Step) ModeTypeField() string {
	return s.ModeField() + "_type"
}

// MinOr returns the declared minimum or def when absent.
func (s Step) MinOr(def int) int {
	if s.Min == nil {
		return def
	}
	return *s.Min
}

// MaxOr returns the declared maximum or def when absent.
func (s Step) MaxOr(def int) int {
	if s.Max == nil {
		return def
	}
	return *s.Max
}

// DisplayTitle picks the first non-empty of title, label, id.
func (s Step) DisplayTitle() string {
	switch {
	case s.Title != "":
		return s.Title
	case s.Label != "":
		return s.Label
	default:
		return s.ID
	}
}

// EntryFields returns the fields a repeated group iterates over: the legacy
// `fields` list when present, otherwise `manual_fields`.
func (s Step) EntryFields() []Field {
	if s.Fields != nil {
		return s.Fields
	}
	return s.ManualFields
}

// AllFields returns fields followed by manual_fields.
func (s Step) AllFields() []Field {
	out := make([]Field, 0, len(s.Fields)+len(s.ManualFields))
	out = append(out, s.Fields...)
	out = append(out, s.ManualFields...)
	return out
}

// Clone returns a deep copy so normalisation never aliases its input.
func (s Step) Clone() Step {
	out := s
	out.Min = cloneInt(s.Min)
	out.Max = cloneInt(s.Max)
	out.Fields = cloneFields(s.Fields)
	out.ManualFields = cloneFields(s.ManualFields)
	if s.Options != nil {
		out.Options = append([]Option(nil), s.Options...)
	}
	if s.Rules != nil {
		out.Rules = append([]string(nil), s.Rules...)
	}
	if s.Validation != nil {
		v := *s.Validation
		v.Min = cloneInt(s.Validation.Min)
		v.Max = cloneInt(s.Validation.Max)
		v.Required = append([]string(nil), s.Validation.Required...)
		out.Validation = &v
	}
	switch s.Next.kind {
	case NextList:
		out.Next = OneOf(s.Next.list...)
	case NextBranch:
		out.Next = Branch(s.Next.branch)
	}
	return out
}

// IsFile reports whether the field collects uploaded files.
func (f Field) IsFile() bool {
	return f.Type == FieldFile
}

// DisplayLabel falls back to the field name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Min = cloneInt(f.Min)
		f.Max = cloneInt(f.Max)
		out[i] = f
	}
	return out
}
