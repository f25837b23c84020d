package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/fieldpath"
	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/visibility"
)

var (
	// ErrUnsupported is reported for rules using operators other than a
	// single `==`. Such rules leave their target visible.
	ErrUnsupported = errors.New("visibility/expr: unsupported operator")
	// ErrMalformed is reported for rules whose left-hand path cannot be parsed.
	ErrMalformed = errors.New("visibility/expr: malformed condition")
)

var unsupportedOperators = []string{"!=", "&&", "||", ">", "<"}

// absent is how a missing answer renders when compared against a string
// literal, so it never equals a sensible one.
const absent = "undefined"

// Condition is a parsed `<path> == <literal>` rule.
type Condition struct {
	Path    string
	Literal string
	// IsBool is set when the literal is an unquoted true/false; the actual
	// value is then compared by boolean coercion against Want.
	IsBool bool
	Want   bool
}

// Parse reads a single equality rule. ok is false for rules without `==`,
// which callers treat as always visible.
func Parse(rule string) (cond Condition, ok bool, err error) {
	trimmed := strings.TrimSpace(rule)
	bare := maskQuoted(trimmed)
	for _, op := range unsupportedOperators {
		if strings.Contains(bare, op) {
			return Condition{}, false, fmt.Errorf("%w %q in %q", ErrUnsupported, op, rule)
		}
	}

	at := strings.Index(bare, "==")
	if at < 0 {
		return Condition{}, false, nil
	}
	path := strings.TrimSpace(trimmed[:at])
	if _, perr := fieldpath.Parse(strings.TrimPrefix(path, "extras.")); perr != nil {
		return Condition{}, false, fmt.Errorf("%w: %v", ErrMalformed, perr)
	}
	right := trimmed[at+2:]
	// Only the first `==` splits; anything after a second one is ignored.
	if next := strings.Index(bare[at+2:], "=="); next >= 0 {
		right = right[:next]
	}

	raw := strings.TrimSpace(right)
	cond = Condition{Path: path}
	switch strings.ToLower(raw) {
	case "true", "false":
		cond.IsBool = true
		cond.Want = strings.EqualFold(raw, "true")
		cond.Literal = strings.ToLower(raw)
	default:
		cond.Literal = strings.NewReplacer(`"`, "", `'`, "").Replace(raw)
	}
	return cond, true, nil
}

// maskQuoted blanks out the contents of quoted literals byte for byte, so
// operator lookups only see the rule's structure. An unterminated quote masks
// the rest of the rule.
func maskQuoted(rule string) string {
	out := []byte(rule)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			out[i] = ' '
		case c == '\'' || c == '"':
			quote = c
		}
	}
	return string(out)
}

// Match evaluates the condition against an answer tree and optional extras.
func (c Condition) Match(ctx visibility.Context) bool {
	value, found := lookup(ctx, c.Path)
	if c.IsBool {
		return answers.Bool(value) == c.Want
	}
	if !found || value == nil {
		return c.Literal == absent
	}
	return answers.Stringify(value) == c.Literal
}

// Evaluator implements the single-equality visibility grammar:
//
//	<path> == <literal>
//
// The path may use dotted and bracketed segments (`parent[0].flag`) and is
// read from visibility.Context.Values, or from Extras via the `extras.`
// prefix. Rules without `==` and rules that cannot be parsed are visible.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

// Eval returns true with a non-nil error for unsupported or malformed rules so
// callers that ignore the error still fail open.
func (e *Evaluator) Eval(fieldPath, rule string, ctx visibility.Context) (bool, error) {
	_ = fieldPath
	if strings.TrimSpace(rule) == "" {
		return true, nil
	}
	cond, ok, err := Parse(rule)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}
	return cond.Match(ctx), nil
}

var defaultResolver = visibility.NewResolver(New())

// IsFieldVisible applies the default evaluator to a field's show_if rule.
func IsFieldVisible(field schema.Field, set answers.Set) bool {
	return defaultResolver.Field(field, set)
}

// IsStepVisible applies the default evaluator to a step's show_if rule.
func IsStepVisible(step schema.Step, set answers.Set) bool {
	return defaultResolver.Step(step, set)
}

// VisibleFields filters fields with the default evaluator.
func VisibleFields(fields []schema.Field, set answers.Set) []schema.Field {
	return defaultResolver.Fields(fields, set)
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return fieldpath.Get(ctx.Extras, strings.TrimSpace(key[len("extras."):]))
	}
	return fieldpath.Get(ctx.Values, key)
}
