// Package inputmode drives dual-mode steps, where the user either types the
// personal data of each participant (manual) or uploads document scans for
// recognition (OCR).
//
// The chosen mode is stored under `<input_mode_field>_type` and the element
// count under `<input_mode_field>`. Manual entry delegates to a repeated
// group over the step's manual_fields; OCR entry manages a parallel group
// whose elements each hold up to MaxFilesPerElement file handles.
package inputmode
