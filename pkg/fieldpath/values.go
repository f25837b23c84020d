package fieldpath

import "fmt"

// Get resolves a path against a nested value tree. An exact top-level key
// match wins first so flattened keys such as `owner.email` keep working.
func Get(root map[string]any, raw string) (any, bool) {
	if root == nil {
		return nil, false
	}
	if v, ok := root[raw]; ok {
		return v, true
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return GetPath(root, p)
}

// GetPath resolves an already parsed path. Template segments never match.
func GetPath(root map[string]any, p Path) (any, bool) {
	var current any = root
	for _, seg := range p {
		if seg.Kind == KindTemplate {
			return nil, false
		}
		next, ok := child(current, seg.Name)
		if !ok {
			return nil, false
		}
		if seg.Kind == KindIndexed {
			items, ok := asSlice(next)
			if !ok || seg.Index >= len(items) {
				return nil, false
			}
			next = items[seg.Index]
		}
		current = next
	}
	return current, true
}

func child(node any, key string) (any, bool) {
	switch typed := node.(type) {
	case map[string]any:
		v, ok := typed[key]
		return v, ok
	case map[string]string:
		v, ok := typed[key]
		return v, ok
	default:
		return nil, false
	}
}

func asSlice(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case []map[string]any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// Set writes value at raw, creating intermediate maps and slices as needed.
func Set(root map[string]any, raw string, value any) error {
	if root == nil {
		return fmt.Errorf("fieldpath: root map is nil")
	}
	p, err := Parse(raw)
	if err != nil {
		return err
	}
	return SetPath(root, p, value)
}

// SetPath writes value at an already parsed path.
func SetPath(root map[string]any, p Path, value any) error {
	if len(p) == 0 {
		return ErrInvalidPath
	}
	node := root
	for i, seg := range p {
		last := i == len(p)-1
		switch seg.Kind {
		case KindTemplate:
			return fmt.Errorf("fieldpath: cannot write through placeholder in %q", p.String())
		case KindField:
			if last {
				node[seg.Name] = value
				return nil
			}
			next, ok := node[seg.Name].(map[string]any)
			if !ok || next == nil {
				next = make(map[string]any)
				node[seg.Name] = next
			}
			node = next
		case KindIndexed:
			items, _ := asSlice(node[seg.Name])
			if len(items) <= seg.Index {
				items = append(items, make([]any, seg.Index+1-len(items))...)
			}
			node[seg.Name] = items
			if last {
				items[seg.Index] = value
				return nil
			}
			next, ok := items[seg.Index].(map[string]any)
			if !ok || next == nil {
				next = make(map[string]any)
				items[seg.Index] = next
			}
			node = next
		}
	}
	return nil
}

// Delete removes the value at raw. Indexed leaves are cleared to nil rather
// than removed so sibling indices stay stable.
func Delete(root map[string]any, raw string) bool {
	if root == nil {
		return false
	}
	if _, ok := root[raw]; ok {
		delete(root, raw)
		return true
	}
	p, err := Parse(raw)
	if err != nil || len(p) == 0 {
		return false
	}

	parent := any(root)
	if len(p) > 1 {
		var ok bool
		parent, ok = GetPath(root, p[:len(p)-1])
		if !ok {
			return false
		}
	}
	node, ok := parent.(map[string]any)
	if !ok {
		return false
	}

	leaf := p[len(p)-1]
	switch leaf.Kind {
	case KindField:
		if _, exists := node[leaf.Name]; !exists {
			return false
		}
		delete(node, leaf.Name)
		return true
	case KindIndexed:
		items, ok := node[leaf.Name].([]any)
		if !ok || leaf.Index >= len(items) {
			return false
		}
		items[leaf.Index] = nil
		return true
	default:
		return false
	}
}

// Clone deep-copies a value tree so snapshots never share mutable state.
func Clone(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies maps and slices, returning scalars unchanged.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return Clone(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = CloneValue(v)
		}
		return clone
	case []map[string]any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = Clone(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
