package orchestrator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-docwizard/pkg/normalize"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Transformer rewrites a document before the wizard starts. Transformers run
// against a private copy in registration order, after normalization.
type Transformer interface {
	Transform(doc *schema.Document) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(doc *schema.Document) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(doc *schema.Document) error {
	if fn == nil {
		return nil
	}
	return fn(doc)
}

// NormalizeTransformer converts legacy participant steps to input-mode.
func NormalizeTransformer(n *normalize.Normalizer) Transformer {
	if n == nil {
		n = normalize.New()
	}
	return TransformerFunc(func(doc *schema.Document) error {
		if doc == nil {
			return errors.New("normalize transformer: document is nil")
		}
		normalized, _ := n.Document(*doc)
		*doc = normalized
		return nil
	})
}

// JSONPresetTransformer applies declarative display overrides loaded from
// JSON. Step patches are keyed by step id, field patches by field name and
// apply to every step declaring that field:
//
//	{
//	  "steps":  {"trustor": {"title": "Доверитель (собственник)"}},
//	  "fields": {"trustors[].iin": {"label": "ИИН/БИН", "required": true}}
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Steps  map[string]jsonStepPatch  `json:"steps"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonStepPatch struct {
	Title       string `json:"title"`
	Label       string `json:"label"`
	Description string `json:"description"`
	ItemLabel   string `json:"item_label"`
}

type jsonFieldPatch struct {
	Label    string `json:"label"`
	Required *bool  `json:"required"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches. Unknown step ids or field names fail so
// stale presets surface early.
func (t *JSONPresetTransformer) Transform(doc *schema.Document) error {
	if doc == nil {
		return errors.New("json preset transformer: document is nil")
	}

	for id, patch := range t.document.Steps {
		_, idx, ok := doc.Step(id)
		if !ok {
			return fmt.Errorf("json preset transformer: step %q not found", id)
		}
		applyStepPatch(&doc.Parsed.Steps[idx], patch)
	}

	for name, patch := range t.document.Fields {
		found := false
		for i := range doc.Parsed.Steps {
			step := &doc.Parsed.Steps[i]
			found = patchFields(step.Fields, name, patch) || found
			found = patchFields(step.ManualFields, name, patch) || found
		}
		if !found {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
	}
	return nil
}

func applyStepPatch(step *schema.Step, patch jsonStepPatch) {
	if patch.Title != "" {
		step.Title = patch.Title
	}
	if patch.Label != "" {
		step.Label = patch.Label
	}
	if patch.Description != "" {
		step.Description = patch.Description
	}
	if patch.ItemLabel != "" {
		step.ItemLabel = patch.ItemLabel
	}
}

func patchFields(fields []schema.Field, name string, patch jsonFieldPatch) bool {
	found := false
	for i := range fields {
		if fields[i].Name != name {
			continue
		}
		found = true
		if patch.Label != "" {
			fields[i].Label = patch.Label
		}
		if patch.Required != nil {
			fields[i].Required = *patch.Required
		}
	}
	return found
}
