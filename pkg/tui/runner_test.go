package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docwizard/pkg/orchestrator"
	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	infoMessages []string
	selectErr    error
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectErr != nil {
		return -1, s.selectErr
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) consumed(t *testing.T) {
	t.Helper()
	if s.inputPos != len(s.inputs) || s.selectPos != len(s.selectIdx) || s.multiPos != len(s.multiIdx) || s.confirmPos != len(s.confirm) {
		t.Fatalf("prompts not consumed: input %d/%d select %d/%d multi %d/%d confirm %d/%d",
			s.inputPos, len(s.inputs), s.selectPos, len(s.selectIdx), s.multiPos, len(s.multiIdx), s.confirmPos, len(s.confirm))
	}
}

func newWizard(t *testing.T, doc schema.Document, opts ...orchestrator.Option) *orchestrator.Wizard {
	t.Helper()
	w, err := orchestrator.New(doc, opts...)
	if err != nil {
		t.Fatalf("orchestrator.New: %v", err)
	}
	return w
}

func decode(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal output: %v\n%s", err, out)
	}
	return got
}

func TestRun_PowerOfAttorneyManual(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		selectIdx: []int{0, 0, 0, 1},
		inputs:    []string{"Иванов", "900101300123", "Петров"},
		multiIdx:  [][]int{{0, 2}},
	}
	w := newWizard(t, testsupport.PowerOfAttorney())

	out, err := New(WithPromptDriver(driver)).Run(context.Background(), w)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.consumed(t)

	got := decode(t, out)
	want := map[string]any{
		"trustor_count":      "1",
		"trustor_mode_type":  "manual",
		"trustor_mode":       float64(1),
		"trustor_full_name":  "Иванов",
		"trustor_iin":        "900101300123",
		"attorney_mode_type": "manual",
		"attorney_mode":      float64(1),
		"attorney_full_name": "Петров",
		"powers":             []any{"sell", "court"},
		"city":               "алматы",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if !w.Done() {
		t.Fatalf("wizard did not reach the final step")
	}
}

func TestRun_BlockingReprompts(t *testing.T) {
	t.Parallel()

	doc := schema.Document{ID: 1, Parsed: schema.Parsed{Steps: []schema.Step{
		{ID: "child_count", Type: schema.StepNumber, Label: "Количество детей", Min: schema.Int(1), Max: schema.Int(5)},
		{ID: "done", Type: schema.StepFinal, Title: "Готово"},
	}}}
	driver := &stubDriver{inputs: []string{"abc", "9", "3"}}
	w := newWizard(t, doc, orchestrator.WithValidationPolicy(orchestrator.Blocking))

	r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	out, err := r.Run(context.Background(), w)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.consumed(t)

	if string(out) != "child_count=3\n" {
		t.Fatalf("output = %q", out)
	}
	want := []string{"! Неверный формат данных", "! Максимальное значение: 5", "Готово"}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("content type = %q", r.ContentType())
	}
}

func TestRun_GroupAddAndSkippedStep(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		selectIdx: []int{1},
		inputs:    []string{"1", "Аня", "2015-03-01", "Боря", "2017-05-05"},
		confirm:   []bool{true, false, false},
		multiIdx:  [][]int{{0}},
	}
	w := newWizard(t, testsupport.ChildrenConsent(), orchestrator.WithoutNormalization())

	out, err := New(WithPromptDriver(driver)).Run(context.Background(), w)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.consumed(t)

	got := decode(t, out)
	if _, asked := got["spouse_consent"]; asked {
		t.Fatalf("hidden step was prompted")
	}
	if got["child_count"] != float64(2) {
		t.Fatalf("child_count = %v, want 2", got["child_count"])
	}
	want := []any{
		map[string]any{"name": "Аня", "birth_date": "2015-03-01"},
		map[string]any{"name": "Боря", "birth_date": "2017-05-05"},
	}
	if diff := cmp.Diff(want, got["children"]); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"австралия"}, got["countries"]); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"has_spouse", "child_count", "children", "countries"}, w.History()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_OCRAttachments(t *testing.T) {
	t.Parallel()

	doc := schema.Document{ID: 2, Parsed: schema.Parsed{Steps: []schema.Step{
		{
			ID:             "applicant",
			Type:           schema.StepInputMode,
			Title:          "Заявитель",
			InputModeField: "applicant_mode",
			ManualFields:   []schema.Field{{Name: "applicants[].full_name", Type: schema.FieldText, Label: "ФИО"}},
		},
		{ID: "done", Type: schema.StepFinal, Title: "Готово"},
	}}}
	driver := &stubDriver{
		selectIdx: []int{1},
		inputs:    []string{"/tmp/a.pdf, /tmp/b.jpg ,/tmp/c.jpg"},
		confirm:   []bool{false},
	}
	w := newWizard(t, doc)

	out, err := New(WithPromptDriver(driver)).Run(context.Background(), w)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.consumed(t)

	got := decode(t, out)
	want := []any{map[string]any{"attachments": []any{
		map[string]any{"name": "a.pdf", "source": "select"},
		map[string]any{"name": "b.jpg", "source": "select"},
	}}}
	if diff := cmp.Diff(want, got["applicants"]); diff != "" {
		t.Fatalf("attachments mismatch (-want +got):\n%s", diff)
	}
	if !contains(driver.infoMessages, "Принято файлов: 2 из 3") {
		t.Fatalf("truncation not reported: %v", driver.infoMessages)
	}
}

func TestRun_AbortCancelsWizard(t *testing.T) {
	t.Parallel()

	cancelled := false
	w := newWizard(t, testsupport.PowerOfAttorney(), orchestrator.WithCancelHandler(func() { cancelled = true }))
	_, err := New(WithPromptDriver(&stubDriver{selectErr: ErrAborted})).Run(context.Background(), w)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !cancelled || !w.Cancelled() {
		t.Fatalf("wizard not cancelled")
	}
}

func TestPrettyPrintSortsKeys(t *testing.T) {
	t.Parallel()

	got := prettyPrint(map[string]any{
		"b": []any{map[string]any{"y": 2, "x": 1}},
		"a": "v",
	})
	want := strings.Join([]string{"a=v", "b[0].x=1", "b[0].y=2", ""}, "\n")
	if got != want {
		t.Fatalf("prettyPrint = %q, want %q", got, want)
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
