package httpapi

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-docwizard/pkg/inputmode"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
	"github.com/goliatone/go-docwizard/pkg/preview"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names in validation messages.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateSessionRequest starts a wizard on a document.
type CreateSessionRequest struct {
	Policy    string         `json:"policy" validate:"omitempty,oneof=advisory blocking"`
	Normalize *bool          `json:"normalize"`
	Answers   map[string]any `json:"answers"`
}

// AnswersRequest sets and clears answer paths in one commit.
type AnswersRequest struct {
	Values map[string]any `json:"values" validate:"required_without=Clear"`
	Clear  []string       `json:"clear" validate:"omitempty,dive,required"`
}

// ModeRequest selects the entry mode of an input-mode step.
type ModeRequest struct {
	Step string `json:"step" validate:"required"`
	Mode string `json:"mode" validate:"required,oneof=manual ocr"`
}

// StepRequest names the step a reset or add applies to.
type StepRequest struct {
	Step string `json:"step" validate:"required"`
}

// RemoveRequest drops one group element.
type RemoveRequest struct {
	Step  string `json:"step" validate:"required"`
	Index *int   `json:"index" validate:"required,gte=0"`
}

// AttachRequest stores scans on one OCR element.
type AttachRequest struct {
	Step  string                 `json:"step" validate:"required"`
	Index int                    `json:"index" validate:"gte=0"`
	Files []inputmode.FileHandle `json:"files" validate:"required,min=1,dive"`
}

// DetachRequest removes one scan from an OCR element.
type DetachRequest struct {
	Step  string `json:"step" validate:"required"`
	Index int    `json:"index" validate:"gte=0"`
	File  *int   `json:"file" validate:"required,gte=0"`
}

// DocumentSummary is one catalog entry in listings.
type DocumentSummary struct {
	ID       int    `json:"id"`
	Code     string `json:"code,omitempty"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Steps    int    `json:"steps"`
}

func summarize(doc schema.Document) DocumentSummary {
	return DocumentSummary{
		ID:       doc.ID,
		Code:     doc.Code,
		Title:    doc.Title,
		Category: doc.Category,
		Steps:    len(doc.Parsed.Steps),
	}
}

// SessionResponse describes a session after each call.
type SessionResponse struct {
	ID         string                `json:"id"`
	DocumentID int                   `json:"document_id"`
	Step       orchestrator.StepView `json:"step"`
	History    []string              `json:"history"`
	Answers    map[string]any        `json:"answers"`
	Done       bool                  `json:"done"`
	Delivered  bool                  `json:"delivered"`
	Policy     string                `json:"policy"`
}

// NextResponse wraps the advance result.
type NextResponse struct {
	Result  orchestrator.Result `json:"result"`
	Session SessionResponse     `json:"session"`
}

// AttachResponse reports how many files were kept.
type AttachResponse struct {
	Accepted int             `json:"accepted"`
	Session  SessionResponse `json:"session"`
}

// BackResponse reports whether the wizard moved; Cancelled is set when back
// at the first step ended the session.
type BackResponse struct {
	Moved     bool             `json:"moved"`
	Cancelled bool             `json:"cancelled,omitempty"`
	Session   *SessionResponse `json:"session,omitempty"`
}

// PreviewResponse carries the rendered and structured previews.
type PreviewResponse struct {
	Text    string          `json:"text"`
	Summary preview.Summary `json:"summary"`
}
