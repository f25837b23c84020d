package fieldpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the three segment shapes a field path can contain.
type Kind int

const (
	// KindField is a plain map key: `full_name`.
	KindField Kind = iota
	// KindIndexed addresses one element of an array: `trustors[0]`.
	KindIndexed
	// KindTemplate is the repeated-group placeholder: `trustors[]`.
	KindTemplate
)

// ErrInvalidPath is returned when a path expression cannot be parsed.
var ErrInvalidPath = errors.New("fieldpath: invalid path")

// ErrNotTemplate is returned when Instantiate is called on a path without
// exactly one `[]` placeholder.
var ErrNotTemplate = errors.New("fieldpath: path is not a single-placeholder template")

// Segment is one dot-separated component of a path.
type Segment struct {
	Name  string
	Kind  Kind
	Index int
}

// Path is the parsed form of `a.b[0].c` / `a[].b` expressions.
type Path []Segment

// Parse converts a path expression into its segments.
func Parse(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}

	parts := strings.Split(trimmed, ".")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, raw, err)
		}
		out = append(out, seg)
	}
	return out, nil
}

// MustParse panics when the expression is invalid. Intended for tests and
// package-level constants.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSegment(part string) (Segment, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Segment{}, errors.New("empty segment")
	}

	open := strings.IndexByte(part, '[')
	if open < 0 {
		if strings.ContainsRune(part, ']') {
			return Segment{}, errors.New("unexpected ']'")
		}
		return Segment{Name: part, Kind: KindField}, nil
	}
	if open == 0 {
		return Segment{}, errors.New("missing name before '['")
	}
	if !strings.HasSuffix(part, "]") {
		return Segment{}, errors.New("unterminated '['")
	}

	name := part[:open]
	inner := part[open+1 : len(part)-1]
	if strings.ContainsAny(name, "[]") || strings.ContainsAny(inner, "[]") {
		return Segment{}, errors.New("nested brackets")
	}
	if inner == "" {
		return Segment{Name: name, Kind: KindTemplate}, nil
	}

	idx, err := strconv.Atoi(inner)
	if err != nil || idx < 0 {
		return Segment{}, fmt.Errorf("invalid index %q", inner)
	}
	return Segment{Name: name, Kind: KindIndexed, Index: idx}, nil
}

// String renders the canonical text form of the path.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
		switch seg.Kind {
		case KindIndexed:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		case KindTemplate:
			b.WriteString("[]")
		}
	}
	return b.String()
}

// IsTemplate reports whether the path contains a `[]` placeholder.
func (p Path) IsTemplate() bool {
	return p.templateCount() > 0
}

func (p Path) templateCount() int {
	n := 0
	for _, seg := range p {
		if seg.Kind == KindTemplate {
			n++
		}
	}
	return n
}

// Instantiate resolves the single placeholder to the given element index.
func (p Path) Instantiate(index int) (Path, error) {
	if p.templateCount() != 1 || index < 0 {
		return nil, ErrNotTemplate
	}
	out := make(Path, len(p))
	copy(out, p)
	for i := range out {
		if out[i].Kind == KindTemplate {
			out[i].Kind = KindIndexed
			out[i].Index = index
		}
	}
	return out, nil
}

// Instantiate is the string-level helper used when rendering repeated group
// elements. Names that do not carry a placeholder are returned untouched.
func Instantiate(template string, index int) string {
	p, err := Parse(template)
	if err != nil {
		return strings.Replace(template, "[]", "["+strconv.Itoa(index)+"]", 1)
	}
	resolved, err := p.Instantiate(index)
	if err != nil {
		return template
	}
	return resolved.String()
}

// ArrayName returns the repeated group's storage key: the template name with
// `[]` and everything after it removed. Names without a bracket yield "".
func ArrayName(template string) string {
	trimmed := strings.TrimSpace(template)
	open := strings.IndexByte(trimmed, '[')
	if open <= 0 {
		return ""
	}
	return trimmed[:open]
}

// Validate reports whether a field name is acceptable as a declared template:
// parseable, with at most one placeholder.
func Validate(name string) error {
	p, err := Parse(name)
	if err != nil {
		return err
	}
	if p.templateCount() > 1 {
		return fmt.Errorf("%w: %q has more than one placeholder", ErrInvalidPath, name)
	}
	return nil
}
