// Package catalog loads document template collections from JSON, JSONC, or
// YAML files (on disk, in an fs.FS, or over HTTP) and serves lookups by id,
// substring search, and category grouping. Store.Save writes the collection
// back as indented JSON, which is how the batch migration persists its output.
package catalog
