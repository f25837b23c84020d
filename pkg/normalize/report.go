package normalize

import (
	"fmt"
	"io"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Conversion records one rewritten step.
type Conversion struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	From  schema.StepType `json:"from"`
}

// DocumentReport lists the conversions applied to one document.
type DocumentReport struct {
	ID    int          `json:"id"`
	Code  string       `json:"code,omitempty"`
	Steps []Conversion `json:"steps"`
}

// Report summarises a catalog migration.
type Report struct {
	Converted int              `json:"converted"`
	Documents []DocumentReport `json:"documents,omitempty"`
}

// Empty reports whether nothing was converted, which is the expected outcome
// when migrating an already migrated catalog.
func (r Report) Empty() bool {
	return r.Converted == 0
}

// WriteText prints a human readable summary, listing at most limit documents
// (all when limit <= 0).
func (r Report) WriteText(w io.Writer, limit int) error {
	if _, err := fmt.Fprintf(w, "converted steps: %d\ndocuments changed: %d\n", r.Converted, len(r.Documents)); err != nil {
		return err
	}
	for i, doc := range r.Documents {
		if limit > 0 && i >= limit {
			_, err := fmt.Fprintf(w, "... and %d more documents\n", len(r.Documents)-limit)
			return err
		}
		name := doc.Code
		if name == "" {
			name = fmt.Sprintf("#%d", doc.ID)
		}
		if _, err := fmt.Fprintf(w, "%s: %d steps\n", name, len(doc.Steps)); err != nil {
			return err
		}
		for _, step := range doc.Steps {
			if _, err := fmt.Fprintf(w, "  - %s (%s) %s\n", step.ID, step.From, step.Title); err != nil {
				return err
			}
		}
	}
	return nil
}
