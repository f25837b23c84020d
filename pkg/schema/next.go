package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// NextKind tags the variant held by a Next value.
type NextKind int

const (
	// NextNone means the step declares no explicit successor.
	NextNone NextKind = iota
	// NextTarget is a single step id.
	NextTarget
	// NextList is an ordered list of step ids; only the first is used.
	NextList
	// NextBranch maps a stringified answer to a step id.
	NextBranch
)

func (k NextKind) String() string {
	switch k {
	case NextNone:
		return "none"
	case NextTarget:
		return "target"
	case NextList:
		return "list"
	case NextBranch:
		return "branch"
	default:
		return fmt.Sprintf("NextKind(%d)", int(k))
	}
}

// Next is the tagged union behind a step's `next` attribute. Schemas encode it
// as a string, an array of strings, or an object of answer -> step id.
type Next struct {
	kind   NextKind
	target string
	list   []string
	branch map[string]string
}

// To builds a static successor.
func To(id string) Next {
	if id == "" {
		return Next{}
	}
	return Next{kind: NextTarget, target: id}
}

// OneOf builds a list successor.
func OneOf(ids ...string) Next {
	return Next{kind: NextList, list: append([]string(nil), ids...)}
}

// Branch builds a branch map successor.
func Branch(targets map[string]string) Next {
	clone := make(map[string]string, len(targets))
	for k, v := range targets {
		clone[k] = v
	}
	return Next{kind: NextBranch, branch: clone}
}

// Kind reports the active variant.
func (n Next) Kind() NextKind { return n.kind }

// IsZero lets encoders omit an absent next.
func (n Next) IsZero() bool { return n.kind == NextNone }

// Target returns the static successor for NextTarget values.
func (n Next) Target() string { return n.target }

// List returns a copy of the successor list for NextList values.
func (n Next) List() []string { return append([]string(nil), n.list...) }

// Lookup returns the branch target registered for key.
func (n Next) Lookup(key string) (string, bool) {
	if n.kind != NextBranch {
		return "", false
	}
	v, ok := n.branch[key]
	return v, ok
}

// Keys returns the branch keys in sorted order.
func (n Next) Keys() []string {
	keys := make([]string, 0, len(n.branch))
	for k := range n.branch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Targets lists every step id this value can point at.
func (n Next) Targets() []string {
	switch n.kind {
	case NextTarget:
		return []string{n.target}
	case NextList:
		return n.List()
	case NextBranch:
		out := make([]string, 0, len(n.branch))
		for _, k := range n.Keys() {
			out = append(out, n.branch[k])
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether both values hold the same variant and targets.
func (n Next) Equal(o Next) bool {
	if n.kind != o.kind || n.target != o.target || len(n.list) != len(o.list) || len(n.branch) != len(o.branch) {
		return false
	}
	for i := range n.list {
		if n.list[i] != o.list[i] {
			return false
		}
	}
	for k, v := range n.branch {
		if ov, ok := o.branch[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (n Next) value() any {
	switch n.kind {
	case NextTarget:
		return n.target
	case NextList:
		return n.List()
	case NextBranch:
		return n.branch
	default:
		return nil
	}
}

// MarshalJSON encodes the active variant in its schema shape.
func (n Next) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value())
}

// UnmarshalJSON decodes a string, array, object, or null.
func (n *Next) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = Next{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("schema: next: %w", err)
		}
		*n = To(s)
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("schema: next: %w", err)
		}
		*n = OneOf(list...)
	case '{':
		var branch map[string]string
		if err := json.Unmarshal(trimmed, &branch); err != nil {
			return fmt.Errorf("schema: next: %w", err)
		}
		*n = Branch(branch)
	default:
		return fmt.Errorf("schema: next: unsupported value %s", string(trimmed))
	}
	return nil
}

// MarshalYAML encodes the active variant in its schema shape.
func (n Next) MarshalYAML() (any, error) {
	return n.value(), nil
}

// UnmarshalYAML decodes scalar, sequence, or mapping nodes.
func (n *Next) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*n = Next{}
			return nil
		}
		*n = To(node.Value)
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("schema: next: %w", err)
		}
		*n = OneOf(list...)
	case yaml.MappingNode:
		var branch map[string]string
		if err := node.Decode(&branch); err != nil {
			return fmt.Errorf("schema: next: %w", err)
		}
		*n = Branch(branch)
	default:
		return fmt.Errorf("schema: next: unsupported yaml node kind %d", node.Kind)
	}
	return nil
}
