package schema

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StepType is the closed set of step kinds a document schema may declare.
type StepType string

const (
	StepForm          StepType = "form"
	StepRadio         StepType = "radio"
	StepNumber        StepType = "number"
	StepArray         StepType = "array"
	StepCheckboxGroup StepType = "checkbox-group"
	StepMultiselect   StepType = "multiselect"
	StepInputMode     StepType = "input-mode"
	StepValidation    StepType = "validation"
	StepFinal         StepType = "final"
)

// StepTypes lists every supported step type in declaration order.
var StepTypes = []StepType{
	StepForm, StepRadio, StepNumber, StepArray, StepCheckboxGroup,
	StepMultiselect, StepInputMode, StepValidation, StepFinal,
}

// ErrUnknownStepType is returned when a schema names a step type outside the
// supported set.
var ErrUnknownStepType = errors.New("schema: unknown step type")

// ParseStepType validates a raw step type string.
func ParseStepType(raw string) (StepType, error) {
	candidate := StepType(strings.TrimSpace(raw))
	for _, known := range StepTypes {
		if candidate == known {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStepType, raw)
}

// Valid reports whether t is part of the supported set.
func (t StepType) Valid() bool {
	_, err := ParseStepType(string(t))
	return err == nil
}

// UnmarshalText rejects unknown step types at decode time.
func (t *StepType) UnmarshalText(text []byte) error {
	parsed, err := ParseStepType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalYAML mirrors UnmarshalText for YAML sources.
func (t *StepType) UnmarshalYAML(node *yaml.Node) error {
	return t.UnmarshalText([]byte(node.Value))
}

// FieldType is the closed set of leaf input kinds.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldFile        FieldType = "file"
	FieldCheckbox    FieldType = "checkbox"
	FieldMultiselect FieldType = "multiselect"
)

// FieldTypes lists every supported field type.
var FieldTypes = []FieldType{
	FieldText, FieldNumber, FieldDate, FieldFile, FieldCheckbox, FieldMultiselect,
}

// ErrUnknownFieldType is returned for field types outside the supported set.
var ErrUnknownFieldType = errors.New("schema: unknown field type")

// ParseFieldType validates a raw field type string.
func ParseFieldType(raw string) (FieldType, error) {
	candidate := FieldType(strings.TrimSpace(raw))
	for _, known := range FieldTypes {
		if candidate == known {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFieldType, raw)
}

// Valid reports whether t is part of the supported set.
func (t FieldType) Valid() bool {
	_, err := ParseFieldType(string(t))
	return err == nil
}

// UnmarshalText rejects unknown field types at decode time.
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalYAML mirrors UnmarshalText for YAML sources.
func (t *FieldType) UnmarshalYAML(node *yaml.Node) error {
	return t.UnmarshalText([]byte(node.Value))
}
