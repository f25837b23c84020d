package dictionary

import (
	"embed"
	"io/fs"
)

//go:embed data/dictionaries.yaml
var embeddedData embed.FS

const embeddedName = "data/dictionaries.yaml"

// EmbeddedFS exposes the bundled reference lists.
func EmbeddedFS() fs.FS {
	return embeddedData
}
