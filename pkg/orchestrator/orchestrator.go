package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/normalize"
	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/transition"
	"github.com/goliatone/go-docwizard/pkg/validation"
	"github.com/goliatone/go-docwizard/pkg/visibility"
	"github.com/goliatone/go-docwizard/pkg/visibility/expr"
)

var (
	// ErrNoSteps is returned by New for documents without steps.
	ErrNoSteps = errors.New("orchestrator: document has no steps")
	// ErrCancelled is returned by operations on a cancelled wizard.
	ErrCancelled = errors.New("orchestrator: wizard cancelled")
	// ErrNotFinal is returned by Deliver before the final step.
	ErrNotFinal = errors.New("orchestrator: current step is not final")
	// ErrDelivered is returned by Deliver after a successful delivery.
	ErrDelivered = errors.New("orchestrator: answers already delivered")
	// ErrNoGenerator is returned by Deliver when no generator is configured.
	ErrNoGenerator = errors.New("orchestrator: no generator configured")
	// ErrUnknownStep is returned for step ids absent from the document.
	ErrUnknownStep = errors.New("orchestrator: unknown step")
	// ErrWrongStepType is returned when a controller is requested for a step
	// of another type.
	ErrWrongStepType = errors.New("orchestrator: step type does not support this action")
)

// Result reports the outcome of Advance.
type Result struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	Moved     bool               `json:"moved"`
	Done      bool               `json:"done"`
	Delivered bool               `json:"delivered"`
	Issues    []validation.Issue `json:"issues,omitempty"`
}

// Wizard walks one user through one document. It owns the answer set: every
// write goes through Commit, which applies a delta and swaps the snapshot.
// A Wizard is not safe for concurrent use.
type Wizard struct {
	doc     schema.Document
	index   map[string]int
	current string
	history []string
	set     answers.Set

	delivered bool
	cancelled bool

	policy       Policy
	onCancel     func()
	generator    Generator
	generators   *GeneratorRegistry
	dict         dictionary.Provider
	logger       logrus.FieldLogger
	sanitizer    *answers.Sanitizer
	validator    *validation.Validator
	visible      *visibility.Resolver
	normalize    bool
	normalizer   *normalize.Normalizer
	transformers []Transformer
}

// New starts a wizard on the first visible step of doc. The document is
// copied, normalized (unless WithoutNormalization), and run through the
// configured transformers.
func New(doc schema.Document, options ...Option) (*Wizard, error) {
	if len(doc.Steps()) == 0 {
		return nil, ErrNoSteps
	}

	w := &Wizard{
		set:       answers.Empty(),
		policy:    Advisory,
		dict:      dictionary.Default(),
		logger:    discardLogger(),
		sanitizer: answers.NewSanitizer(),
		visible:   visibility.NewResolver(expr.New()),
		normalize: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	if w.validator == nil {
		w.validator = validation.New(validation.WithVisibility(w.visible))
	}

	prepared := doc.Clone()
	if w.normalize {
		if err := NormalizeTransformer(w.normalizer).Transform(&prepared); err != nil {
			return nil, err
		}
	}
	for _, t := range w.transformers {
		if err := t.Transform(&prepared); err != nil {
			return nil, fmt.Errorf("orchestrator: transform document: %w", err)
		}
	}
	if len(prepared.Steps()) == 0 {
		return nil, ErrNoSteps
	}

	w.doc = prepared
	w.index = make(map[string]int, len(prepared.Parsed.Steps))
	for i, step := range prepared.Parsed.Steps {
		if _, dup := w.index[step.ID]; !dup {
			w.index[step.ID] = i
		}
	}
	w.current = w.firstVisible(0, prepared.Parsed.Steps[0].ID)
	w.logger = w.logger.WithFields(logrus.Fields{"document": prepared.ID, "code": prepared.Code})
	w.logger.WithField("step", w.current).Debug("wizard started")
	return w, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Document returns the prepared (normalized, transformed) document.
func (w *Wizard) Document() schema.Document {
	return w.doc.Clone()
}

// Steps returns the prepared step list.
func (w *Wizard) Steps() []schema.Step {
	return w.doc.Clone().Parsed.Steps
}

// Step looks up a step by id.
func (w *Wizard) Step(id string) (schema.Step, error) {
	idx, ok := w.index[id]
	if !ok {
		return schema.Step{}, fmt.Errorf("%w %q", ErrUnknownStep, id)
	}
	return w.doc.Parsed.Steps[idx], nil
}

// Current returns the step being shown.
func (w *Wizard) Current() schema.Step {
	return w.doc.Parsed.Steps[w.CurrentIndex()]
}

// CurrentIndex returns the schema-order index of the current step.
func (w *Wizard) CurrentIndex() int {
	return w.index[w.current]
}

// Progress is the schema-order position of the current step in [0, 1].
func (w *Wizard) Progress() float64 {
	n := len(w.doc.Parsed.Steps)
	if n <= 1 {
		return 1
	}
	return float64(w.CurrentIndex()) / float64(n-1)
}

// History returns the ids of the steps visited before the current one.
func (w *Wizard) History() []string {
	return append([]string(nil), w.history...)
}

// Visited returns History followed by the current step id.
func (w *Wizard) Visited() []string {
	return append(w.History(), w.current)
}

// Answers returns the committed snapshot.
func (w *Wizard) Answers() answers.Set {
	return w.set
}

// Done reports whether the wizard sits on a final step.
func (w *Wizard) Done() bool {
	return w.Current().Type == schema.StepFinal
}

// Delivered reports whether the answers reached the generator.
func (w *Wizard) Delivered() bool {
	return w.delivered
}

// Cancelled reports whether Cancel was called.
func (w *Wizard) Cancelled() bool {
	return w.cancelled
}

// Policy returns the validation policy.
func (w *Wizard) Policy() Policy {
	return w.policy
}

// Commit applies d to the answer set after sanitising string values.
func (w *Wizard) Commit(d answers.Delta) error {
	if w.cancelled {
		return ErrCancelled
	}
	if d.Empty() {
		return nil
	}
	next, err := w.set.Apply(w.sanitizer.Delta(d))
	if err != nil {
		return fmt.Errorf("orchestrator: commit: %w", err)
	}
	w.set = next
	w.logger.WithFields(logrus.Fields{"step": w.current, "paths": d.Paths()}).Debug("answers committed")
	return nil
}

// Set commits a single assignment.
func (w *Wizard) Set(path string, value any) error {
	return w.Commit(answers.Delta{answers.SetOp(path, value)})
}

// Validate runs the validation pass on the current step.
func (w *Wizard) Validate() []validation.Issue {
	return w.validator.Step(w.Current(), w.set)
}

// Advance moves to the next step. Issues are always reported; under the
// Blocking policy they keep the wizard in place. On a final step Advance does
// not move and delivers the answers once when a generator is configured.
func (w *Wizard) Advance(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if w.cancelled {
		return Result{}, ErrCancelled
	}

	step := w.Current()
	res := Result{From: step.ID, To: step.ID, Issues: w.validator.Step(step, w.set)}
	log := w.logger.WithField("step", step.ID)

	if len(res.Issues) > 0 {
		log.WithField("issues", len(res.Issues)).Debug("step has validation issues")
		if w.policy == Blocking {
			return res, nil
		}
	}

	if step.Type == schema.StepFinal {
		res.Done = true
		if w.delivered || !w.hasGenerator() {
			res.Delivered = w.delivered
			return res, nil
		}
		if err := w.Deliver(ctx); err != nil {
			return res, err
		}
		res.Delivered = true
		return res, nil
	}

	next := w.resolveNext(w.CurrentIndex())
	if next == step.ID {
		log.Debug("no successor, staying on last step")
		return res, nil
	}

	w.history = append(w.history, step.ID)
	w.current = next
	res.To = next
	res.Moved = true
	res.Done = w.Done()
	log.WithField("next", next).Debug("advanced")
	return res, nil
}

// resolveNext picks the successor of index and skips candidates whose
// step-level condition is false, in schema order.
func (w *Wizard) resolveNext(index int) string {
	steps := w.doc.Parsed.Steps
	candidate := transition.Next(steps, index, w.set)
	if candidate == steps[index].ID {
		return candidate
	}
	return w.firstVisible(w.index[candidate], candidate)
}

func (w *Wizard) firstVisible(from int, fallback string) string {
	steps := w.doc.Parsed.Steps
	for i := from; i < len(steps); i++ {
		if w.visible.Step(steps[i], w.set) {
			return steps[i].ID
		}
	}
	return fallback
}

// Back returns to the previous step, keeping the answers of the step being
// left. At the first step it invokes the cancel handler when one is
// configured and otherwise does nothing; it reports whether it moved.
func (w *Wizard) Back() bool {
	if w.cancelled {
		return false
	}
	if len(w.history) == 0 {
		if w.onCancel != nil {
			w.Cancel()
		}
		return false
	}
	prev := w.history[len(w.history)-1]
	w.history = w.history[:len(w.history)-1]
	w.logger.WithFields(logrus.Fields{"step": w.current, "back_to": prev}).Debug("moved back")
	w.current = prev
	return true
}

// Cancel invokes the cancel handler and drops the wizard state.
func (w *Wizard) Cancel() {
	if w.cancelled {
		return
	}
	w.cancelled = true
	w.history = nil
	w.set = answers.Empty()
	w.logger.WithField("step", w.current).Info("wizard cancelled")
	if w.onCancel != nil {
		w.onCancel()
	}
}

func (w *Wizard) hasGenerator() bool {
	if w.generator != nil {
		return true
	}
	return w.generators != nil && w.generators.Has(w.Current().Output)
}

func (w *Wizard) resolveGenerator() (Generator, error) {
	if out := w.Current().Output; out != "" && w.generators != nil {
		if g, err := w.generators.Get(out); err == nil {
			return g, nil
		}
	}
	if w.generator != nil {
		return w.generator, nil
	}
	return nil, ErrNoGenerator
}

// Deliver hands a copy of the answers to the generator. It is only valid on
// a final step and succeeds once; generator errors are returned as is and
// the wizard stays undelivered.
func (w *Wizard) Deliver(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.cancelled {
		return ErrCancelled
	}
	if !w.Done() {
		return ErrNotFinal
	}
	if w.delivered {
		return ErrDelivered
	}
	g, err := w.resolveGenerator()
	if err != nil {
		return err
	}

	log := w.logger.WithField("step", w.current)
	if err := g.Generate(ctx, w.doc.Clone(), w.set.Map()); err != nil {
		log.WithError(err).Warn("generator failed")
		return fmt.Errorf("orchestrator: generate: %w", err)
	}
	w.delivered = true
	log.Info("answers delivered")
	return nil
}
