package answers

// OpKind enumerates delta operations.
type OpKind int

const (
	// OpSet assigns Value at Path.
	OpSet OpKind = iota
	// OpClear removes the value at Path.
	OpClear
)

// Op is one write against the answer set.
type Op struct {
	Kind  OpKind
	Path  string
	Value any
}

// Delta is an ordered list of writes produced by a controller. Controllers
// never mutate answers directly; the orchestrator commits deltas.
type Delta []Op

// SetOp builds an assignment.
func SetOp(path string, value any) Op {
	return Op{Kind: OpSet, Path: path, Value: value}
}

// ClearOp builds a removal.
func ClearOp(path string) Op {
	return Op{Kind: OpClear, Path: path}
}

// Merge concatenates deltas, preserving order.
func Merge(deltas ...Delta) Delta {
	var out Delta
	for _, d := range deltas {
		out = append(out, d...)
	}
	return out
}

// Empty reports whether the delta carries no operations.
func (d Delta) Empty() bool {
	return len(d) == 0
}

// Paths lists the touched paths in order, without duplicates.
func (d Delta) Paths() []string {
	seen := make(map[string]struct{}, len(d))
	out := make([]string, 0, len(d))
	for _, op := range d {
		if _, ok := seen[op.Path]; ok {
			continue
		}
		seen[op.Path] = struct{}{}
		out = append(out, op.Path)
	}
	return out
}
