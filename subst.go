package arbor

import "reflect"

// MapTree rewrites a tree in preorder. fn is called on every value before
// recursion; it returns the replacement and a stop flag which suppresses
// descent into the replacement. Nodes are rebuilt as copies (keeping their
// identity) with every child mapped recursively; plain []any values are
// mapped element-wise; other values pass through fn only.
//
// Subtrees which come back unchanged are not copied, so untouched parts of
// the tree stay shared with the input.
func MapTree(fn func(v any) (any, bool), tree any) any {
	v, stop := fn(tree)
	if stop {
		return v
	}
	switch t := v.(type) {
	case *Node:
		return mapNode(fn, t)
	case []any:
		return mapSlice(fn, t)
	}
	return v
}

func mapNode(fn func(v any) (any, bool), n *Node) any {
	var overrides []Override
	for i, def := range n.class.slots {
		if def.Kind == ListSlot {
			lst := n.slots[i].([]any)
			mapped := mapSlice(fn, lst)
			if !identical(mapped, lst) {
				overrides = append(overrides, SetSlot(def.Name, mapped))
			}
			continue
		}
		if n.slots[i] == nil {
			continue
		}
		mapped := MapTree(fn, n.slots[i])
		if !identical(mapped, n.slots[i]) {
			overrides = append(overrides, SetSlot(def.Name, mapped))
		}
	}
	if len(overrides) == 0 {
		return n
	}
	twin, err := n.Copy(overrides...)
	assert(err == nil, "mapNode: copy with declared slots cannot fail: %v", err)
	return twin
}

func mapSlice(fn func(v any) (any, bool), lst []any) []any {
	var mapped []any
	changed := false
	for i, el := range lst {
		m := MapTree(fn, el)
		if !changed && !identical(m, el) {
			changed = true
			mapped = make([]any, i, len(lst))
			copy(mapped, lst[:i])
		}
		if changed {
			mapped = append(mapped, m)
		}
	}
	if !changed {
		return lst
	}
	return mapped
}

// identical is a shallow sameness test: nodes by pointer, comparable
// values by equality, slices of the same type by backing array and length;
// everything else is treated as changed.
func identical(a, b any) bool {
	if na, ok := a.(*Node); ok {
		nb, ok2 := b.(*Node)
		return ok2 && na == nb
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		if ta == tb && ta.Kind() == reflect.Slice {
			return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer() &&
				reflect.ValueOf(a).Len() == reflect.ValueOf(b).Len()
		}
		return false
	}
	return a == b
}

// Substitute replaces every value whose data equals old by newv and
// returns the rewritten tree. Replacements are not descended into.
func Substitute(newv, old any, tree any) any {
	return SubstituteIf(newv, func(data any) bool { return data == old }, tree)
}

// SubstituteIf replaces every value whose data satisfies the predicate.
func SubstituteIf(newv any, pred func(data any) bool, tree any) any {
	return SubstituteWith(func(v any) (any, bool) {
		if pred(DataOf(v)) {
			return newv, true
		}
		return nil, false
	}, tree)
}

// SubstituteIfNot replaces every value whose data does not satisfy the
// predicate.
func SubstituteIfNot(newv any, pred func(data any) bool, tree any) any {
	return SubstituteIf(newv, func(data any) bool { return !pred(data) }, tree)
}

// SubstituteWith replaces values chosen by fn, which returns a replacement
// and a force flag. A value is replaced when the replacement is non-nil or
// the flag is set; the flag makes an intentional nil replacement possible.
func SubstituteWith(fn func(v any) (any, bool), tree any) any {
	return MapTree(func(v any) (any, bool) {
		repl, force := fn(v)
		if repl != nil || force {
			return repl, true
		}
		return v, false
	}, tree)
}

// Subst is Substitute; like its siblings it also covers plain []any
// inputs, mirroring substitution over non-node list structures.
func Subst(newv, old any, tree any) any { return Substitute(newv, old, tree) }

// SubstIf is SubstituteIf for plain list inputs as well as trees.
func SubstIf(newv any, pred func(data any) bool, tree any) any {
	return SubstituteIf(newv, pred, tree)
}

// SubstIfNot is SubstituteIfNot for plain list inputs as well as trees.
func SubstIfNot(newv any, pred func(data any) bool, tree any) any {
	return SubstituteIfNot(newv, pred, tree)
}

// Remove drops every value whose data equals item, rebuilding ancestors.
// It returns nil when the root itself is removed.
func Remove(item any, tree any) any {
	return RemoveIf(func(data any) bool { return data == item }, tree)
}

// RemoveIf drops every value whose data satisfies the predicate. Child
// lists shrink, cleared scalar slots become nil. Returns nil when the root
// itself is removed.
func RemoveIf(pred func(data any) bool, tree any) any {
	if tree == nil {
		return nil
	}
	if pred(DataOf(tree)) {
		return nil
	}
	n, ok := tree.(*Node)
	if !ok {
		if lst, isList := tree.([]any); isList {
			return removeFromSlice(pred, lst)
		}
		return tree
	}
	var overrides []Override
	for i, def := range n.class.slots {
		if def.Kind == ListSlot {
			lst := n.slots[i].([]any)
			kept := removeFromSlice(pred, lst)
			if !identical(any(kept), any(lst)) {
				overrides = append(overrides, SetSlot(def.Name, kept))
			}
			continue
		}
		child := n.slots[i]
		if child == nil {
			continue
		}
		kept := RemoveIf(pred, child)
		if !identical(kept, child) {
			overrides = append(overrides, SetSlot(def.Name, kept))
		}
	}
	if len(overrides) == 0 {
		return n
	}
	twin, err := n.Copy(overrides...)
	assert(err == nil, "RemoveIf: copy with declared slots cannot fail: %v", err)
	return twin
}

// RemoveIfNot drops every value whose data does not satisfy the predicate.
func RemoveIfNot(pred func(data any) bool, tree any) any {
	return RemoveIf(func(data any) bool { return !pred(data) }, tree)
}

func removeFromSlice(pred func(data any) bool, lst []any) []any {
	var kept []any
	changed := false
	for i, el := range lst {
		m := RemoveIf(pred, el)
		if !changed && (m == nil || !identical(m, el)) {
			changed = true
			kept = make([]any, i, len(lst))
			copy(kept, lst[:i])
		}
		if changed && m != nil {
			kept = append(kept, m)
		}
	}
	if !changed {
		return lst
	}
	return kept
}
