package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoWizard is returned by Run without a wizard.
	ErrNoWizard = errors.New("tui: wizard is nil")
	// ErrTooManySteps stops a run that keeps cycling between steps.
	ErrTooManySteps = errors.New("tui: step limit reached")
)
