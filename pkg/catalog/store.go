package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

var (
	ErrNotFound    = errors.New("catalog: document not found")
	ErrDuplicateID = errors.New("catalog: duplicate document id")
)

// Store is an in-memory, read-only document collection kept in file order.
type Store struct {
	docs []schema.Document
	byID map[int]int
}

// Category groups documents by the first two segments of their category
// path ("Доверенности / Имущество / ...").
type Category struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
}

// NewStore indexes docs by id.
func NewStore(docs []schema.Document) (*Store, error) {
	s := &Store{
		docs: make([]schema.Document, 0, len(docs)),
		byID: make(map[int]int, len(docs)),
	}
	for _, doc := range docs {
		if _, dup := s.byID[doc.ID]; dup {
			return nil, fmt.Errorf("%w %d", ErrDuplicateID, doc.ID)
		}
		s.byID[doc.ID] = len(s.docs)
		s.docs = append(s.docs, doc)
	}
	return s, nil
}

// Len reports the number of documents.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}

// List returns every document in file order.
func (s *Store) List() []schema.Document {
	if s == nil {
		return nil
	}
	return append([]schema.Document(nil), s.docs...)
}

// Get returns a deep copy of the document with the given id.
func (s *Store) Get(id int) (schema.Document, error) {
	if s == nil {
		return schema.Document{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	idx, ok := s.byID[id]
	if !ok {
		return schema.Document{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.docs[idx].Clone(), nil
}

// Search matches query case-insensitively against title, code, and category.
// An empty query returns every document.
func (s *Store) Search(query string) []schema.Document {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}
	var out []schema.Document
	for _, doc := range s.List() {
		if strings.Contains(strings.ToLower(doc.Title), q) ||
			strings.Contains(strings.ToLower(doc.Code), q) ||
			strings.Contains(strings.ToLower(doc.Category), q) {
			out = append(out, doc)
		}
	}
	return out
}

// Categories lists the two-level category prefixes with document counts,
// in order of first appearance.
func (s *Store) Categories() []Category {
	var out []Category
	index := map[string]int{}
	for _, doc := range s.List() {
		name := categoryPrefix(doc.Category)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			out[i].DocumentCount++
			continue
		}
		index[name] = len(out)
		out = append(out, Category{ID: categoryID(name), Name: name, DocumentCount: 1})
	}
	return out
}

// ByCategory returns the documents whose two-level category prefix is name.
func (s *Store) ByCategory(name string) []schema.Document {
	var out []schema.Document
	for _, doc := range s.List() {
		if categoryPrefix(doc.Category) == name {
			out = append(out, doc)
		}
	}
	return out
}

// IDs returns the document ids in ascending order.
func (s *Store) IDs() []int {
	ids := make([]int, 0, s.Len())
	for _, doc := range s.List() {
		ids = append(ids, doc.ID)
	}
	sort.Ints(ids)
	return ids
}

// Validate checks every document's structure and joins the failures.
func (s *Store) Validate() error {
	var errs []error
	for _, doc := range s.List() {
		if err := doc.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("catalog: document %d: %w", doc.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Bytes renders the collection as indented JSON.
func (s *Store) Bytes() ([]byte, error) {
	data, err := encode(s.List())
	if err != nil {
		return nil, fmt.Errorf("catalog: encode: %w", err)
	}
	return data, nil
}

// Save writes the collection to path as indented JSON.
func (s *Store) Save(path string) error {
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", path, err)
	}
	return nil
}

func categoryPrefix(category string) string {
	parts := strings.Split(category, " / ")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.TrimSpace(strings.Join(parts, " / "))
}

func categoryID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(name, " / ", "-"))), "-")
}
