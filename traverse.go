package arbor

import "github.com/npillmayer/arbor/path"

// RPath is a reversed root-to-node path, built cons-style so that
// descending one level is a cheap prepend. The zero value (nil) is the
// empty path at the root.
type RPath struct {
	step path.Element
	up   *RPath
}

// Path reverses an RPath into a concrete root-to-node path.
func (r *RPath) Path() path.Path {
	depth := 0
	for cur := r; cur != nil; cur = cur.up {
		depth++
	}
	p := make(path.Path, depth)
	for cur := r; cur != nil; cur = cur.up {
		depth--
		p[depth] = cur.step
	}
	return p
}

func (r *RPath) String() string {
	return r.Path().String()
}

// Walk visits the tree rooted at root in preorder, left to right. The
// visitor returning false prunes the subtree below the visited value.
// Non-node values occurring in child lists are visited but never descended
// into.
//
// The engine keeps its own stack and does not recurse, so arbitrarily deep
// trees are safe.
func Walk(root any, fn func(v any) bool) {
	if root == nil {
		return
	}
	stack := []any{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(v) {
			continue
		}
		n, ok := v.(*Node)
		if !ok {
			continue
		}
		kids := n.Children()
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}

// WalkPaths visits like Walk but additionally hands the visitor the
// reversed path from root to the visited value. Use (*RPath).Path to turn
// it into a concrete path when needed.
func WalkPaths(root any, fn func(v any, rpath *RPath) bool) {
	if root == nil {
		return
	}
	type frame struct {
		v     any
		rpath *RPath
	}
	stack := []frame{{v: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.v, f.rpath) {
			continue
		}
		n, ok := f.v.(*Node)
		if !ok {
			continue
		}
		top := len(stack)
		n.eachChild(func(step path.Element, child any) bool {
			stack = append(stack, frame{v: child, rpath: &RPath{step: step, up: f.rpath}})
			return true
		})
		// restore left-to-right order
		for l, r := top, len(stack)-1; l < r; l, r = l+1, r-1 {
			stack[l], stack[r] = stack[r], stack[l]
		}
	}
}
