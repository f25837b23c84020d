// Package dictionary serves the reference lists referenced by `optionsFrom`
// on steps and `dictionary` on fields. Lists are plain labels; option values
// are derived from the label by lowercasing it and replacing whitespace runs
// with underscores. Unknown names yield an empty list.
package dictionary
