// Package preview renders a plain-text summary of a document and the answers
// collected for it, shown on validation and final steps. Summaries are built
// from the schema (visible fields only, option values mapped back to labels)
// and rendered through pongo2 templates; a default template is embedded.
package preview
