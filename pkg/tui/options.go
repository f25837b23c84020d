package tui

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/pkg/preview"
)

// OutputFormat controls how collected answers are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits indented JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits one path=value line per answer.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value to a format; unknown values read as
// JSON.
func ParseOutputFormat(raw string) OutputFormat {
	if OutputFormat(raw) == OutputFormatPrettyText {
		return OutputFormatPrettyText
	}
	return OutputFormatJSON
}

// Theme captures optional message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Runner) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithPreview renders the answer summary on validation and final steps.
func WithPreview(engine *preview.Engine) Option {
	return func(r *Runner) {
		r.preview = engine
	}
}

// WithLogger injects a structured logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithStepLimit bounds the number of prompts in one run.
func WithStepLimit(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.stepLimit = n
		}
	}
}
