package docwizard

import (
	"io/fs"

	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/preview"
)

// EmbeddedTemplates exposes the built-in preview templates so callers can
// reuse or extend them without importing the preview package directly.
func EmbeddedTemplates() fs.FS {
	return preview.TemplatesFS()
}

// EmbeddedDictionaries exposes the bundled option lists (cities, countries).
func EmbeddedDictionaries() fs.FS {
	return dictionary.EmbeddedFS()
}
