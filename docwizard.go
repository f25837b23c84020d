// Package docwizard drives multi-step legal document questionnaires. It
// re-exports the orchestrator entry points so callers can open a wizard on
// a catalog document without importing the sub-packages individually.
package docwizard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docwizard/pkg/catalog"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Wizard aliases orchestrator.Wizard.
type Wizard = orchestrator.Wizard

// Option aliases orchestrator.Option.
type Option = orchestrator.Option

// Generator receives the final answers of a completed wizard.
type Generator = orchestrator.Generator

// GeneratorFunc adapts a function into a Generator.
type GeneratorFunc = orchestrator.GeneratorFunc

// Policy selects whether validation issues block navigation.
type Policy = orchestrator.Policy

// Validation policies.
const (
	Advisory = orchestrator.Advisory
	Blocking = orchestrator.Blocking
)

// NewWizard starts a wizard on doc. Legacy person steps are normalised to
// the dual-mode shape unless orchestrator.WithoutNormalization is passed.
func NewWizard(doc schema.Document, options ...Option) (*Wizard, error) {
	return orchestrator.New(doc, options...)
}

// NewLoader constructs a catalog loader.
func NewLoader(options ...catalog.LoaderOption) *catalog.Loader {
	return catalog.NewLoader(options...)
}

// Open loads the catalog at src and starts a wizard on the document with the
// given id.
func Open(ctx context.Context, src catalog.Source, documentID int, options ...Option) (*Wizard, error) {
	store, err := NewLoader().Load(ctx, src)
	if err != nil {
		return nil, err
	}
	doc, err := store.Get(documentID)
	if err != nil {
		return nil, fmt.Errorf("docwizard: open document: %w", err)
	}
	return NewWizard(doc, options...)
}
