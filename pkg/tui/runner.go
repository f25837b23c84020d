package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/inputmode"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
	"github.com/goliatone/go-docwizard/pkg/preview"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

const defaultStepLimit = 500

// Prompt labels shown by the runner.
const (
	labelManual    = "Ввести данные вручную"
	labelOCR       = "Загрузить скан документа"
	labelAddMore   = "Добавить ещё"
	labelRemove    = "Удалить элемент?"
	labelFilePaths = "Пути к файлам через запятую"
	labelDateHelp  = "Формат: ГГГГ-ММ-ДД"
)

// Runner walks a wizard in the terminal, one prompt per input.
type Runner struct {
	driver       PromptDriver
	outputFormat OutputFormat
	preview      *preview.Engine
	logger       logrus.FieldLogger
	theme        Theme
	stepLimit    int
}

// New constructs a runner with defaults (survey driver, JSON output).
func New(options ...Option) *Runner {
	r := &Runner{
		outputFormat: OutputFormatJSON,
		stepLimit:    defaultStepLimit,
		theme:        Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		r.logger = l
	}
	return r
}

// ContentType reports the serialization format used by Run.
func (r *Runner) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Run prompts every step until the wizard settles on its final step and
// returns the serialized answers. Aborting a prompt cancels the wizard.
func (r *Runner) Run(ctx context.Context, w *orchestrator.Wizard) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if w == nil {
		return nil, ErrNoWizard
	}

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i >= r.stepLimit {
			return nil, ErrTooManySteps
		}

		step := w.Current()
		log := r.logger.WithField("step", step.ID)
		if err := r.promptStep(ctx, w, step); err != nil {
			if errors.Is(err, ErrAborted) {
				w.Cancel()
			}
			return nil, err
		}

		res, err := w.Advance(ctx)
		if err != nil {
			return nil, err
		}
		for _, issue := range res.Issues {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+issue.Message)
		}
		log.WithFields(logrus.Fields{"next": res.To, "issues": len(res.Issues)}).Debug("step answered")

		if res.Moved {
			continue
		}
		if step.Type == schema.StepFinal || len(res.Issues) == 0 {
			break
		}
	}
	return r.serialize(w.Answers().Map())
}

func (r *Runner) promptStep(ctx context.Context, w *orchestrator.Wizard, step schema.Step) error {
	view := w.View()
	switch step.Type {
	case schema.StepRadio:
		return r.promptChoice(ctx, w, view)
	case schema.StepCheckboxGroup, schema.StepMultiselect:
		return r.promptMulti(ctx, w, view)
	case schema.StepNumber:
		return r.promptNumber(ctx, w, step)
	case schema.StepForm:
		return r.promptFields(ctx, w, step.ID, -1)
	case schema.StepArray:
		return r.promptGroup(ctx, w, step)
	case schema.StepInputMode:
		return r.promptInputMode(ctx, w, step)
	case schema.StepValidation, schema.StepFinal:
		return r.showPreview(ctx, w, view.Title)
	default:
		return fmt.Errorf("tui: unsupported step type %q", step.Type)
	}
}

func (r *Runner) promptChoice(ctx context.Context, w *orchestrator.Wizard, view orchestrator.StepView) error {
	if len(view.Options) == 0 {
		return r.info(ctx, view.Title)
	}
	labels, current := optionLabels(view.Options, view.Value)
	def := -1
	if len(current) > 0 {
		def = current[0]
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      view.Title,
			Help:         view.Description,
			Options:      labels,
			DefaultIndex: def,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(view.Options) {
			_ = r.info(ctx, r.theme.ErrorPrefix+"Выберите один из вариантов")
			continue
		}
		return w.Set(view.ID, view.Options[idx].Value)
	}
}

func (r *Runner) promptMulti(ctx context.Context, w *orchestrator.Wizard, view orchestrator.StepView) error {
	labels, current := optionLabels(view.Options, view.Value)
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  view.Title,
		Help:     view.Description,
		Options:  labels,
		Defaults: current,
	})
	if err != nil {
		return err
	}
	values := make([]any, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(view.Options) {
			values = append(values, view.Options[idx].Value)
		}
	}
	return w.Set(view.ID, values)
}

func (r *Runner) promptNumber(ctx context.Context, w *orchestrator.Wizard, step schema.Step) error {
	label := step.Label
	if label == "" {
		label = step.DisplayTitle()
	}
	n, ok, err := r.askNumber(ctx, label, w.Answers().Lookup(step.ID))
	if err != nil || !ok {
		return err
	}
	return w.Set(step.ID, n)
}

// askNumber loops until the input is empty or an integer.
func (r *Runner) askNumber(ctx context.Context, label string, current any) (int, bool, error) {
	for {
		raw, err := r.driver.Input(ctx, InputConfig{Message: label, Default: answers.Stringify(current)})
		if err != nil {
			return 0, false, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			_ = r.info(ctx, r.theme.ErrorPrefix+"Неверный формат данных")
			continue
		}
		return n, true, nil
	}
}

// promptFields asks every visible field of a form step, or of element index
// of the group on a group step. Visibility is re-read after each answer so
// conditions on earlier fields apply.
func (r *Runner) promptFields(ctx context.Context, w *orchestrator.Wizard, stepID string, index int) error {
	for pos := 0; ; pos++ {
		fields := currentFields(w.View(), index)
		if pos >= len(fields) {
			return nil
		}
		if err := r.promptField(ctx, w, fields[pos]); err != nil {
			return err
		}
	}
}

func currentFields(view orchestrator.StepView, index int) []orchestrator.FieldView {
	if index < 0 {
		return view.Fields
	}
	if index < len(view.Elements) {
		return view.Elements[index].Fields
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, w *orchestrator.Wizard, f orchestrator.FieldView) error {
	label := f.Label
	if f.Required {
		label += " *"
	}
	switch {
	case f.Type == schema.FieldCheckbox:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: answers.Bool(f.Value)})
		if err != nil {
			return err
		}
		return w.Set(f.Name, ok)
	case f.Type == schema.FieldMultiselect && len(f.Options) > 0:
		labels, current := optionLabels(f.Options, f.Value)
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{Message: label, Options: labels, Defaults: current})
		if err != nil {
			return err
		}
		values := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(f.Options) {
				values = append(values, f.Options[idx].Value)
			}
		}
		return w.Set(f.Name, values)
	case len(f.Options) > 0:
		labels, current := optionLabels(f.Options, f.Value)
		def := -1
		if len(current) > 0 {
			def = current[0]
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: label, Options: labels, DefaultIndex: def})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(f.Options) {
			return nil
		}
		return w.Set(f.Name, f.Options[idx].Value)
	case f.Type == schema.FieldNumber:
		n, ok, err := r.askNumber(ctx, label, f.Value)
		if err != nil || !ok {
			return err
		}
		return w.Set(f.Name, n)
	case f.Type == schema.FieldFile:
		handles, err := r.askFiles(ctx, label)
		if err != nil {
			return err
		}
		list := make([]any, 0, len(handles))
		for _, h := range handles {
			list = append(list, h.Value())
		}
		return w.Set(f.Name, list)
	default:
		cfg := InputConfig{Message: label, Default: answers.Stringify(f.Value)}
		if f.Type == schema.FieldDate {
			cfg.Help = labelDateHelp
		}
		raw, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		return w.Set(f.Name, strings.TrimSpace(raw))
	}
}

// askFiles reads comma separated paths. Only file names travel with the
// answers; contents are never read.
func (r *Runner) askFiles(ctx context.Context, label string) ([]inputmode.FileHandle, error) {
	raw, err := r.driver.Input(ctx, InputConfig{Message: label, Help: labelFilePaths})
	if err != nil {
		return nil, err
	}
	var handles []inputmode.FileHandle
	for _, part := range strings.Split(raw, ",") {
		path := strings.TrimSpace(part)
		if path == "" {
			continue
		}
		handles = append(handles, inputmode.FileHandle{Name: filepath.Base(path), Source: inputmode.SourceSelect})
	}
	return handles, nil
}

func (r *Runner) promptGroup(ctx context.Context, w *orchestrator.Wizard, step schema.Step) error {
	if err := w.SyncGroup(step.ID); err != nil {
		return err
	}
	return r.elementLoop(ctx, w, step, func(i int) error {
		return r.promptFields(ctx, w, step.ID, i)
	})
}

// elementLoop prompts each element, then offers to add and remove elements
// while the group bounds allow it.
func (r *Runner) elementLoop(ctx context.Context, w *orchestrator.Wizard, step schema.Step, each func(i int) error) error {
	done := 0
	for {
		view := w.View()
		for ; done < len(view.Elements); done++ {
			if err := r.info(ctx, view.Elements[done].Label); err != nil {
				return err
			}
			if err := each(done); err != nil {
				return err
			}
		}

		view = w.View()
		if !view.CanAdd {
			break
		}
		more, err := r.driver.Confirm(ctx, ConfirmConfig{Message: labelAddMore + "?"})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if err := w.AddElement(step.ID); err != nil {
			return err
		}
	}
	return r.removeLoop(ctx, w, step)
}

func (r *Runner) removeLoop(ctx context.Context, w *orchestrator.Wizard, step schema.Step) error {
	for {
		view := w.View()
		if !view.CanRemove {
			return nil
		}
		remove, err := r.driver.Confirm(ctx, ConfirmConfig{Message: labelRemove})
		if err != nil || !remove {
			return err
		}
		labels := make([]string, len(view.Elements))
		for i, el := range view.Elements {
			labels[i] = el.Label
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: labelRemove, Options: labels, DefaultIndex: -1})
		if err != nil {
			return err
		}
		if err := w.RemoveElement(step.ID, idx); err != nil && !errors.Is(err, orchestrator.ErrRejected) {
			return err
		}
	}
}

func (r *Runner) promptInputMode(ctx context.Context, w *orchestrator.Wizard, step schema.Step) error {
	mode := w.View().Mode
	if mode == inputmode.Unset {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      step.DisplayTitle(),
			Options:      []string{labelManual, labelOCR},
			DefaultIndex: 0,
		})
		if err != nil {
			return err
		}
		mode = inputmode.Manual
		if idx == 1 {
			mode = inputmode.OCR
		}
		if err := w.SelectMode(step.ID, mode); err != nil {
			return err
		}
	}

	if mode == inputmode.Manual {
		return r.elementLoop(ctx, w, step, func(i int) error {
			return r.promptFields(ctx, w, step.ID, i)
		})
	}
	return r.elementLoop(ctx, w, step, func(i int) error {
		label := w.View().Elements[i].Label
		handles, err := r.askFiles(ctx, label)
		if err != nil {
			return err
		}
		if len(handles) == 0 {
			return nil
		}
		accepted, err := w.Attach(step.ID, i, handles...)
		if err != nil {
			if errors.Is(err, orchestrator.ErrRejected) {
				return r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Можно загрузить максимум %d файл(ов)", inputmode.MaxFilesPerElement))
			}
			return err
		}
		if accepted < len(handles) {
			return r.info(ctx, fmt.Sprintf("Принято файлов: %d из %d", accepted, len(handles)))
		}
		return nil
	})
}

func (r *Runner) showPreview(ctx context.Context, w *orchestrator.Wizard, title string) error {
	if r.preview == nil {
		return r.info(ctx, title)
	}
	text, err := w.Preview(r.preview)
	if err != nil {
		return err
	}
	return r.info(ctx, strings.TrimRight(text, "\n"))
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

// optionLabels returns the option labels and the indices of the options
// matching the current answer.
func optionLabels(options []schema.Option, value any) ([]string, []int) {
	labels := make([]string, len(options))
	selected := map[string]struct{}{}
	switch v := value.(type) {
	case nil:
	case []any:
		for _, item := range v {
			selected[answers.Stringify(item)] = struct{}{}
		}
	default:
		selected[answers.Stringify(v)] = struct{}{}
	}
	var current []int
	for i, opt := range options {
		labels[i] = opt.Label
		if _, ok := selected[answers.Stringify(opt.Value)]; ok {
			current = append(current, i)
		}
	}
	return labels, current
}

func (r *Runner) serialize(values map[string]any) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(values)), nil
	}
	return json.MarshalIndent(values, "", "  ")
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}
