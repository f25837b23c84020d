package orchestrator

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/group"
	"github.com/goliatone/go-docwizard/pkg/inputmode"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

// ErrRejected is returned when a group or input-mode action is not allowed
// in the current state, e.g. adding past max or attaching in manual mode.
var ErrRejected = errors.New("orchestrator: action rejected")

// Group returns the repeated-group controller of an array step.
func (w *Wizard) Group(stepID string) (*group.Controller, error) {
	step, err := w.Step(stepID)
	if err != nil {
		return nil, err
	}
	if step.Type != schema.StepArray {
		return nil, fmt.Errorf("%w: %s is %s", ErrWrongStepType, step.ID, step.Type)
	}
	return group.New(group.FromStep(step)), nil
}

// InputMode returns the controller of an input-mode step.
func (w *Wizard) InputMode(stepID string) (*inputmode.Controller, error) {
	step, err := w.Step(stepID)
	if err != nil {
		return nil, err
	}
	if step.Type != schema.StepInputMode {
		return nil, fmt.Errorf("%w: %s is %s", ErrWrongStepType, step.ID, step.Type)
	}
	return inputmode.New(step), nil
}

// commitAction commits d when ok, otherwise reports the rejection.
func (w *Wizard) commitAction(action, stepID string, d answers.Delta, ok bool) error {
	if w.cancelled {
		return ErrCancelled
	}
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrRejected, action, stepID)
	}
	return w.Commit(d)
}

// SelectMode picks manual or OCR entry on an input-mode step.
func (w *Wizard) SelectMode(stepID string, mode inputmode.Mode) error {
	c, err := w.InputMode(stepID)
	if err != nil {
		return err
	}
	d, ok := c.Select(w.set, mode)
	return w.commitAction("select mode", stepID, d, ok)
}

// ResetMode returns an input-mode step to mode selection.
func (w *Wizard) ResetMode(stepID string) error {
	c, err := w.InputMode(stepID)
	if err != nil {
		return err
	}
	return w.commitAction("reset mode", stepID, c.Reset(), true)
}

// elements resolves the group that AddElement and RemoveElement act on: the
// array itself, or the active group of an input-mode step.
func (w *Wizard) elements(stepID string) (*group.Controller, *inputmode.Controller, error) {
	step, err := w.Step(stepID)
	if err != nil {
		return nil, nil, err
	}
	switch step.Type {
	case schema.StepArray:
		return group.New(group.FromStep(step)), nil, nil
	case schema.StepInputMode:
		c := inputmode.New(step)
		switch c.Mode(w.set) {
		case inputmode.Manual:
			return c.Manual(), nil, nil
		case inputmode.OCR:
			return nil, c, nil
		}
		return nil, nil, fmt.Errorf("%w: %s has no entry mode selected", ErrRejected, step.ID)
	default:
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrWrongStepType, step.ID, step.Type)
	}
}

// AddElement appends an element to an array step or to the active group of
// an input-mode step.
func (w *Wizard) AddElement(stepID string) error {
	g, c, err := w.elements(stepID)
	if err != nil {
		return err
	}
	var (
		d  answers.Delta
		ok bool
	)
	if c != nil {
		d, ok = c.AddElement(w.set)
	} else {
		d, ok = g.Add(w.set)
	}
	return w.commitAction("add element", stepID, d, ok)
}

// RemoveElement drops element index and compacts the rest.
func (w *Wizard) RemoveElement(stepID string, index int) error {
	g, c, err := w.elements(stepID)
	if err != nil {
		return err
	}
	var (
		d  answers.Delta
		ok bool
	)
	if c != nil {
		d, ok = c.RemoveElement(w.set, index)
	} else {
		d, ok = g.Remove(w.set, index)
	}
	return w.commitAction("remove element", stepID, d, ok)
}

// SyncGroup pads the stored array of a group step to its rendered length.
func (w *Wizard) SyncGroup(stepID string) error {
	g, c, err := w.elements(stepID)
	if err != nil {
		return err
	}
	if c != nil {
		g = c.OCRGroup()
	}
	return w.Commit(g.Sync(w.set))
}

// Attach stores scans on OCR element index and returns how many handles were
// accepted; surplus files are dropped silently.
func (w *Wizard) Attach(stepID string, index int, handles ...inputmode.FileHandle) (int, error) {
	c, err := w.InputMode(stepID)
	if err != nil {
		return 0, err
	}
	d, accepted := c.Attach(w.set, index, handles)
	if accepted == 0 {
		if len(handles) == 0 {
			return 0, nil
		}
		return 0, w.commitAction("attach", stepID, nil, false)
	}
	if accepted < len(handles) {
		w.logger.WithFields(logrus.Fields{"step": stepID, "element": index, "dropped": len(handles) - accepted}).Debug("attachment batch truncated")
	}
	return accepted, w.commitAction("attach", stepID, d, true)
}

// Detach removes one file from OCR element index.
func (w *Wizard) Detach(stepID string, index, file int) error {
	c, err := w.InputMode(stepID)
	if err != nil {
		return err
	}
	d, ok := c.Detach(w.set, index, file)
	return w.commitAction("detach", stepID, d, ok)
}
