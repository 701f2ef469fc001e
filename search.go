package arbor

import "github.com/npillmayer/arbor/path"

// The search and reduction operations view a tree as the flattened
// preorder sequence of its values, with every node represented by its
// data. Plain equality is interface equality, so data payloads used with
// the non-predicate variants must be comparable.

// DataOf returns the data of a node, or the value itself for non-node
// values.
func DataOf(v any) any {
	if n, ok := v.(*Node); ok {
		return n.Data()
	}
	return v
}

// Reduce folds fn over the preorder data sequence of tree, starting with
// init.
func Reduce(fn func(acc, data any) any, init any, tree any) any {
	acc := init
	Walk(tree, func(v any) bool {
		acc = fn(acc, DataOf(v))
		return true
	})
	return acc
}

// Find returns the first value in preorder whose data equals item, or nil.
func Find(item any, tree any) any {
	return FindIf(func(data any) bool { return data == item }, tree)
}

// FindIf returns the first value in preorder whose data satisfies the
// predicate, or nil.
func FindIf(pred func(data any) bool, tree any) any {
	var found any
	Walk(tree, func(v any) bool {
		if found != nil {
			return false
		}
		if pred(DataOf(v)) {
			found = v
			return false
		}
		return true
	})
	return found
}

// FindIfNot returns the first value whose data does not satisfy the
// predicate, or nil.
func FindIfNot(pred func(data any) bool, tree any) any {
	return FindIf(func(data any) bool { return !pred(data) }, tree)
}

// Count returns the number of values whose data equals item.
func Count(item any, tree any) int {
	return CountIf(func(data any) bool { return data == item }, tree)
}

// CountIf returns the number of values whose data satisfies the predicate.
func CountIf(pred func(data any) bool, tree any) int {
	cnt := 0
	Walk(tree, func(v any) bool {
		if pred(DataOf(v)) {
			cnt++
		}
		return true
	})
	return cnt
}

// CountIfNot returns the number of values whose data does not satisfy the
// predicate.
func CountIfNot(pred func(data any) bool, tree any) int {
	return CountIf(func(data any) bool { return !pred(data) }, tree)
}

// Position returns the path of the first value in preorder whose data
// equals item.
func Position(item any, tree any) (path.Path, bool) {
	return PositionIf(func(data any) bool { return data == item }, tree)
}

// PositionIf returns the path of the first value in preorder whose data
// satisfies the predicate.
func PositionIf(pred func(data any) bool, tree any) (path.Path, bool) {
	var found path.Path
	ok := false
	WalkPaths(tree, func(v any, rpath *RPath) bool {
		if ok {
			return false
		}
		if pred(DataOf(v)) {
			found = rpath.Path()
			ok = true
			return false
		}
		return true
	})
	return found, ok
}
