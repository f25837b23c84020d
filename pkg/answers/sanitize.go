package answers

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from free-text answers before they are committed.
// Values end up in generated legal documents, so nothing that looks like HTML
// survives.
type Sanitizer struct {
	once   sync.Once
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer backed by bluemonday's strict policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

func (s *Sanitizer) strict() *bluemonday.Policy {
	s.once.Do(func() {
		s.policy = bluemonday.StrictPolicy()
	})
	return s.policy
}

// policyEntities undoes the escaping the strict policy applies to plain text.
// Angle brackets stay encoded.
var policyEntities = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`)

// String cleans a single value. Input entities are decoded before the policy
// runs, so encoded tags are stripped like literal ones. Names such as O'Brien
// are stored verbatim.
func (s *Sanitizer) String(raw string) string {
	if s == nil || raw == "" {
		return raw
	}
	if !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	return policyEntities.Replace(s.strict().Sanitize(html.UnescapeString(raw)))
}

// Delta returns a copy of d with every string value cleaned, including those
// nested in slices and maps.
func (s *Sanitizer) Delta(d Delta) Delta {
	if s == nil || len(d) == 0 {
		return d
	}
	out := make(Delta, len(d))
	for i, op := range d {
		op.Value = s.value(op.Value)
		out[i] = op
	}
	return out
}

func (s *Sanitizer) value(v any) any {
	switch typed := v.(type) {
	case string:
		return s.String(typed)
	case []string:
		out := make([]string, len(typed))
		for i, item := range typed {
			out[i] = s.String(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = s.value(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = s.value(item)
		}
		return out
	default:
		return v
	}
}
