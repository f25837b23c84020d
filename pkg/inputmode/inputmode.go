package inputmode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/fieldpath"
	"github.com/goliatone/go-docwizard/pkg/group"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Mode is the entry method chosen on a dual-mode step.
type Mode string

const (
	Unset  Mode = ""
	Manual Mode = "manual"
	OCR    Mode = "ocr"
)

// ErrUnknownMode is returned by ParseMode for values other than manual/ocr.
var ErrUnknownMode = errors.New("inputmode: unknown mode")

// ParseMode validates a raw mode string. An empty string parses as Unset.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case Unset:
		return Unset, nil
	case Manual:
		return Manual, nil
	case OCR:
		return OCR, nil
	default:
		return Unset, fmt.Errorf("%w %q", ErrUnknownMode, raw)
	}
}

const (
	// MaxFilesPerElement caps the scans attached to one OCR element,
	// independent of the step's own bounds.
	MaxFilesPerElement = 2
	// DefaultOCRArray is used when the step has no templated manual field to
	// borrow an array name from.
	DefaultOCRArray = "items"

	defaultMin = 1
	defaultMax = 2
)

// Controller drives one input-mode step. Like the group controller it only
// reads answers and returns deltas.
type Controller struct {
	step   schema.Step
	manual *group.Controller
	ocr    *group.Controller
}

// New builds the controller for an input-mode step. The element count of both
// the manual and the OCR group lives under the step's input_mode_field.
func New(step schema.Step) *Controller {
	lo := schema.Int(step.MinOr(defaultMin))
	hi := schema.Int(step.MaxOr(defaultMax))
	label := step.ItemLabel
	if label == "" {
		label = step.Title
	}

	manual := group.New(group.Spec{
		Fields:           step.ManualFields,
		Min:              lo,
		Max:              hi,
		DynamicCountFrom: step.ModeField(),
		ItemLabel:        label,
	})

	ocrArray := DefaultOCRArray
	if len(step.ManualFields) > 0 {
		if name := fieldpath.ArrayName(step.ManualFields[0].Name); name != "" {
			ocrArray = name
		}
	}
	ocr := group.New(group.Spec{
		Fields:           []schema.Field{{Name: ocrArray + "[].attachments", Type: schema.FieldFile, Label: label}},
		Min:              lo,
		Max:              hi,
		DynamicCountFrom: step.ModeField(),
		ItemLabel:        label,
		ArrayName:        ocrArray,
		NewElement:       newOCRElement,
	})

	return &Controller{step: step, manual: manual, ocr: ocr}
}

func newOCRElement() map[string]any {
	return map[string]any{"attachments": []any{}}
}

// Step returns the step the controller was built for.
func (c *Controller) Step() schema.Step {
	return c.step
}

// CountField is the answer key holding the element count.
func (c *Controller) CountField() string {
	return c.step.ModeField()
}

// TypeField is the answer key holding the selected mode.
func (c *Controller) TypeField() string {
	return c.step.ModeTypeField()
}

// Mode reads the selected mode. Unrecognised values read as Unset.
func (c *Controller) Mode(set answers.Set) Mode {
	mode, err := ParseMode(answers.Stringify(set.Lookup(c.TypeField())))
	if err != nil {
		return Unset
	}
	return mode
}

// Select picks an entry mode. It is only allowed from Unset; switching
// between manual and OCR goes through Reset first. Both modes share one
// array, so the chosen mode seeds it with a single empty element: an
// attachment element for OCR, an empty record for templated manual fields.
func (c *Controller) Select(set answers.Set, mode Mode) (answers.Delta, bool) {
	if mode != Manual && mode != OCR {
		return nil, false
	}
	if c.Mode(set) != Unset {
		return nil, false
	}
	delta := answers.Delta{
		answers.SetOp(c.TypeField(), string(mode)),
		answers.SetOp(c.CountField(), 1),
	}
	switch {
	case mode == OCR:
		delta = append(delta, answers.SetOp(c.ocr.ArrayName(), []any{newOCRElement()}))
	case c.manual.ArrayName() != "":
		delta = append(delta, answers.SetOp(c.manual.ArrayName(), []any{map[string]any{}}))
	}
	return delta, true
}

// Reset returns to mode selection by clearing the mode and count keys. Data
// already entered for the step is left in place but no longer read.
func (c *Controller) Reset() answers.Delta {
	return answers.Delta{
		answers.ClearOp(c.TypeField()),
		answers.ClearOp(c.CountField()),
	}
}

// Manual returns the repeated group over manual_fields, bounded by the
// step's min/max (defaults 1/2).
func (c *Controller) Manual() *group.Controller {
	return c.manual
}

// OCRGroup returns the repeated group of attachment sets.
func (c *Controller) OCRGroup() *group.Controller {
	return c.ocr
}

// OCRArrayName is the answer key holding the attachment elements.
func (c *Controller) OCRArrayName() string {
	return c.ocr.ArrayName()
}

// OCRLength returns the number of attachment elements.
func (c *Controller) OCRLength(set answers.Set) int {
	return c.ocr.Length(set)
}

// AddElement appends an empty attachment element.
func (c *Controller) AddElement(set answers.Set) (answers.Delta, bool) {
	if c.Mode(set) != OCR {
		return nil, false
	}
	return c.ocr.Add(set)
}

// RemoveElement drops attachment element index and compacts the rest.
func (c *Controller) RemoveElement(set answers.Set, index int) (answers.Delta, bool) {
	if c.Mode(set) != OCR {
		return nil, false
	}
	return c.ocr.Remove(set, index)
}

// AttachmentsPath returns the answer path of element index's file list.
func (c *Controller) AttachmentsPath(index int) string {
	return fmt.Sprintf("%s[%d].attachments", c.ocr.ArrayName(), index)
}

// Attachments decodes the files stored for element index.
func (c *Controller) Attachments(set answers.Set, index int) []FileHandle {
	raw, _ := set.Get(c.AttachmentsPath(index))
	items, _ := raw.([]any)
	out := make([]FileHandle, 0, len(items))
	for _, item := range items {
		if h, ok := handleFrom(item); ok {
			out = append(out, h)
		}
	}
	return out
}

// Attach adds file handles to element index. A batch larger than the
// remaining capacity is truncated silently; accepted reports how many
// handles were kept.
func (c *Controller) Attach(set answers.Set, index int, handles []FileHandle) (answers.Delta, int) {
	if c.Mode(set) != OCR || index < 0 || index >= c.OCRLength(set) {
		return nil, 0
	}
	current := c.Attachments(set, index)
	capacity := MaxFilesPerElement - len(current)
	if capacity <= 0 || len(handles) == 0 {
		return nil, 0
	}
	accepted := len(handles)
	if accepted > capacity {
		accepted = capacity
	}

	list := make([]any, 0, len(current)+accepted)
	for _, h := range current {
		list = append(list, h.Value())
	}
	for _, h := range handles[:accepted] {
		list = append(list, h.Value())
	}
	return answers.Delta{answers.SetOp(c.AttachmentsPath(index), list)}, accepted
}

// Detach removes one file from element index.
func (c *Controller) Detach(set answers.Set, index, file int) (answers.Delta, bool) {
	if c.Mode(set) != OCR || index < 0 || index >= c.OCRLength(set) {
		return nil, false
	}
	current := c.Attachments(set, index)
	if file < 0 || file >= len(current) {
		return nil, false
	}
	list := make([]any, 0, len(current)-1)
	for i, h := range current {
		if i != file {
			list = append(list, h.Value())
		}
	}
	return answers.Delta{answers.SetOp(c.AttachmentsPath(index), list)}, true
}
