package arbor

import (
	"fmt"

	"github.com/npillmayer/arbor/path"
)

// Lookup retrieves a value from a container by a polymorphic key:
//
//   - nil or an empty path returns the container itself,
//   - a path.Path descends step by step,
//   - a single path.Element performs one step,
//   - an int indexes the flattened child sequence of a node,
//   - a *Finger resolves the finger; its residue is passed through.
//
// The residue result is non-nil only for finger keys.
func Lookup(container any, key any) (any, path.Path, error) {
	switch k := key.(type) {
	case nil:
		return container, nil, nil
	case path.Path:
		v, err := resolvePath(container, k)
		return v, nil, err
	case path.Element:
		v, err := resolvePath(container, path.Path{k})
		return v, nil, err
	case int:
		n, ok := container.(*Node)
		if !ok {
			return nil, nil, fmt.Errorf("%w: integer lookup in non-node", ErrInvalidPath)
		}
		kids := n.Children()
		if k < 0 || k >= len(kids) {
			return nil, nil, fmt.Errorf("%w: child %d out of range 0..%d",
				ErrInvalidPath, k, len(kids)-1)
		}
		return kids[k], nil, nil
	case *Finger:
		v, err := k.Resolve()
		if err != nil {
			return nil, nil, err
		}
		return v, k.Residue(), nil
	}
	return nil, nil, fmt.Errorf("%w: unsupported lookup key %T", ErrIllegalArguments, key)
}

// ListOf converts a tree into its nested list representation: every node
// becomes (data, child1, child2, …), recursively; non-node values stay as
// they are. A non-nil valueFn overrides the per-node data mapping.
func ListOf(v any, valueFn func(*Node) any) any {
	n, ok := v.(*Node)
	if !ok {
		return v
	}
	value := any(nil)
	if valueFn != nil {
		value = valueFn(n)
	} else {
		value = n.Data()
	}
	kids := n.Children()
	lst := make([]any, 0, len(kids)+1)
	lst = append(lst, value)
	for _, child := range kids {
		lst = append(lst, ListOf(child, valueFn))
	}
	return lst
}

// Pair is one slot of a node's association list representation.
type Pair struct {
	Key   string
	Value any
}

// AListOf converts a tree into nested association lists: every node
// becomes a []Pair covering its data slot and child slots in declaration
// order, with child values converted recursively.
func AListOf(v any) any {
	n, ok := v.(*Node)
	if !ok {
		return v
	}
	var pairs []Pair
	if n.class.dataSlot != "" {
		pairs = append(pairs, Pair{Key: n.class.dataSlot, Value: n.data})
	}
	for i, def := range n.class.slots {
		if def.Kind == ListSlot {
			lst := n.slots[i].([]any)
			converted := make([]any, len(lst))
			for j, el := range lst {
				converted[j] = AListOf(el)
			}
			pairs = append(pairs, Pair{Key: def.Name, Value: converted})
			continue
		}
		pairs = append(pairs, Pair{Key: def.Name, Value: AListOf(n.slots[i])})
	}
	return pairs
}
