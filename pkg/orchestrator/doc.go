// Package orchestrator drives a document wizard: it owns the answer set,
// resolves transitions, validates steps under an advisory or blocking
// policy, keeps the back-navigation history and hands the collected answers
// to a generator at the final step.
//
// Documents are normalized before the wizard starts so legacy participant
// form/array steps present the manual/OCR input-mode choice, then passed
// through any registered Transformer. Group and input-mode operations are
// exposed as Wizard methods that commit the controllers' deltas.
package orchestrator
