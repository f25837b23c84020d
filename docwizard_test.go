package docwizard

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-docwizard/pkg/catalog"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
	"github.com/goliatone/go-docwizard/pkg/testsupport"
)

func TestEmbeddedTemplatesContainSummary(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "summary.tpl")
	if err != nil {
		t.Fatalf("expected summary template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "sections") {
		t.Fatalf("expected summary template to iterate sections")
	}
}

func TestEmbeddedDictionariesContainCities(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedDictionaries(), "data/dictionaries.yaml")
	if err != nil {
		t.Fatalf("expected dictionary data to be readable: %v", err)
	}
	if !strings.Contains(string(data), "Астана") {
		t.Fatalf("expected bundled cities")
	}
}

func TestOpen(t *testing.T) {
	store, err := catalog.NewStore(testsupport.Catalog())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := store.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w, err := Open(context.Background(), catalog.SourceFromFile(path), testsupport.PowerOfAttorneyID, orchestrator.WithValidationPolicy(Blocking))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if w.Current().ID != "trustor_count" || w.Policy() != Blocking {
		t.Fatalf("wizard at %q with policy %v", w.Current().ID, w.Policy())
	}

	if _, err := Open(context.Background(), catalog.SourceFromFile(path), 999); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
