package arbor

import (
	"fmt"

	"github.com/npillmayer/arbor/path"
)

// The functional edit operations. Every edit returns a new root which
// shares all untouched subtrees with the old tree, leaves the old tree
// fully intact, and carries a transform back-reference so that fingers
// into the old tree can be translated.
//
// Rebuilt spine nodes keep their serial numbers; only values supplied by
// the caller introduce new identities.

// With replaces the value at p with v and returns the new root. Replacing
// the empty path replaces the whole tree, in which case v must be a node.
func With(tree *Node, p path.Path, v any) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrIllegalArguments)
	}
	if len(p) == 0 {
		n, ok := v.(*Node)
		if !ok {
			return nil, fmt.Errorf("%w: replacement for the root must be a node", ErrIllegalArguments)
		}
		return n.Copy(SetTransform(NewTransform(tree, []Entry{
			{In: path.Path{}, Out: path.Path{}, Status: Dead},
		})))
	}
	root, err := replaceAt(tree, p, v)
	if err != nil {
		return nil, err
	}
	root.setBackref(NewTransform(tree, []Entry{
		{In: p.Clone(), Out: p.Clone(), Status: Dead},
	}))
	return root, nil
}

// WithNode is With addressed by node identity instead of path.
func WithNode(tree *Node, target *Node, v any) (*Node, error) {
	p, err := PathOfNode(tree, target)
	if err != nil {
		return nil, err
	}
	return With(tree, p, v)
}

// Less deletes the value at p and returns the new root. The enclosing
// child list shrinks by one; deleting a scalar slot clears it. Deleting
// the empty path is a caller error.
func Less(tree *Node, p path.Path) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrIllegalArguments)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: cannot delete the root path", ErrIllegalArguments)
	}
	parentPath := p[:len(p)-1]
	last := p[len(p)-1]
	parent, err := nodeAt(tree, parentPath)
	if err != nil {
		return nil, err
	}
	slotInx, listInx, err := parent.locate(last)
	if err != nil {
		return nil, err
	}
	def := parent.class.slots[slotInx]
	var pruned *Node
	entries := []Entry{{In: p.Clone(), Out: parentPath.Clone(), Status: Dead}}
	if def.Kind == ScalarSlot {
		pruned, err = parent.Copy(SetSlot(def.Name, nil))
	} else {
		lst := parent.slots[slotInx].([]any)
		shrunk := make([]any, 0, len(lst)-1)
		shrunk = append(shrunk, lst[:listInx]...)
		shrunk = append(shrunk, lst[listInx+1:]...)
		pruned, err = parent.Copy(SetSlot(def.Name, shrunk))
		if listInx+1 < len(lst) {
			entries = append(entries, shiftEntry(parent, parentPath, def.Name,
				listInx+1, len(lst)-1, -1))
		}
	}
	if err != nil {
		return nil, err
	}
	root, err := implant(tree, parentPath, pruned)
	if err != nil {
		return nil, err
	}
	root.setBackref(NewTransform(tree, entries))
	return root, nil
}

// LessNode is Less addressed by node identity.
func LessNode(tree *Node, target *Node) (*Node, error) {
	p, err := PathOfNode(tree, target)
	if err != nil {
		return nil, err
	}
	return Less(tree, p)
}

// Insert inserts v so that the new value sits at p. It is a one-element
// splice.
func Insert(tree *Node, p path.Path, v any) (*Node, error) {
	return Splice(tree, p, []any{v})
}

// InsertNode inserts v immediately before the position of target.
func InsertNode(tree *Node, target *Node, v any) (*Node, error) {
	p, err := PathOfNode(tree, target)
	if err != nil {
		return nil, err
	}
	return Insert(tree, p, v)
}

// Splice inserts values into a child list so that the first inserted value
// sits at p. The insertion index may equal the list length, appending at
// the end. Splicing an empty value list is the identity and returns tree
// itself.
func Splice(tree *Node, p path.Path, values []any) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrIllegalArguments)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: splice needs a list position", ErrIllegalArguments)
	}
	if len(values) == 0 {
		return tree, nil
	}
	parentPath := p[:len(p)-1]
	last := p[len(p)-1]
	parent, err := nodeAt(tree, parentPath)
	if err != nil {
		return nil, err
	}
	slotInx, listInx, slotName, err := parent.locateInsertion(last)
	if err != nil {
		return nil, err
	}
	lst := parent.slots[slotInx].([]any)
	grown := make([]any, 0, len(lst)+len(values))
	grown = append(grown, lst[:listInx]...)
	grown = append(grown, values...)
	grown = append(grown, lst[listInx:]...)
	widened, err := parent.Copy(SetSlot(slotName, grown))
	if err != nil {
		return nil, err
	}
	root, err := implant(tree, parentPath, widened)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if listInx < len(lst) {
		entries = append(entries, shiftEntry(parent, parentPath, slotName,
			listInx, len(lst)-1, len(values)))
	}
	root.setBackref(NewTransform(tree, entries))
	return root, nil
}

// SpliceNode splices values immediately before the position of target.
func SpliceNode(tree *Node, target *Node, values []any) (*Node, error) {
	p, err := PathOfNode(tree, target)
	if err != nil {
		return nil, err
	}
	return Splice(tree, p, values)
}

// Swap exchanges the subtrees at two paths. Neither path may be a prefix
// of the other. Swap is commutative in its location arguments and its own
// inverse.
func Swap(tree *Node, loc1, loc2 path.Path) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("%w: nil tree", ErrIllegalArguments)
	}
	if loc1.IsPrefix(loc2) || loc2.IsPrefix(loc1) {
		return nil, fmt.Errorf("%w: swap locations %s and %s overlap",
			ErrIllegalArguments, loc1, loc2)
	}
	v1, err := resolvePath(tree, loc1)
	if err != nil {
		return nil, err
	}
	v2, err := resolvePath(tree, loc2)
	if err != nil {
		return nil, err
	}
	half, err := replaceAt(tree, loc1, v2)
	if err != nil {
		return nil, err
	}
	root, err := replaceAt(half, loc2, v1)
	if err != nil {
		return nil, err
	}
	root.setBackref(NewTransform(tree, []Entry{
		{In: loc1.Clone(), Out: loc2.Clone(), Status: Live},
		{In: loc2.Clone(), Out: loc1.Clone(), Status: Live},
	}))
	return root, nil
}

// SwapNodes is Swap addressed by node identities.
func SwapNodes(tree *Node, n1, n2 *Node) (*Node, error) {
	p1, err := PathOfNode(tree, n1)
	if err != nil {
		return nil, err
	}
	p2, err := PathOfNode(tree, n2)
	if err != nil {
		return nil, err
	}
	return Swap(tree, p1, p2)
}

// PathOfNode finds the path at which target occurs under tree, by
// identity.
func PathOfNode(tree *Node, target *Node) (path.Path, error) {
	if tree == nil || target == nil {
		return nil, fmt.Errorf("%w: nil node", ErrIllegalArguments)
	}
	var found path.Path
	ok := false
	WalkPaths(tree, func(v any, rpath *RPath) bool {
		n, isNode := v.(*Node)
		if !isNode {
			return false
		}
		if n.Serial() == target.Serial() {
			found = rpath.Path()
			ok = true
			return false
		}
		return true
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s under %s", ErrNodeNotFound, target, tree)
	}
	return found, nil
}

// --- Edit internals --------------------------------------------------------

// setBackref attaches the transform back-reference to a freshly rebuilt,
// not yet published root.
func (n *Node) setBackref(t *Transform) {
	n.backref.Store(&backref{xf: t})
}

// shiftEntry builds the live transform entry that moves list positions
// lo..hi of a child slot by delta.
func shiftEntry(parent *Node, parentPath path.Path, slot string, lo, hi, delta int) Entry {
	var in, out path.Element
	if parent.class.onlyList {
		in = path.Span{Lo: lo, Hi: hi}
		out = path.Index(lo + delta)
	} else {
		in = path.Span{Slot: slot, Lo: lo, Hi: hi}
		out = path.SlotIndex{Slot: slot, Index: lo + delta}
	}
	return Entry{
		In:     parentPath.Extend(in),
		Out:    parentPath.Extend(out),
		Status: Live,
	}
}

// nodeAt resolves p and requires the result to be a node.
func nodeAt(tree *Node, p path.Path) (*Node, error) {
	v, err := resolvePath(tree, p)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*Node)
	if !ok {
		return nil, fmt.Errorf("%w: value at %s is not a node", ErrInvalidPath, p)
	}
	return n, nil
}

// replaceAt rebuilds the spine from tree down to p, substituting v at the
// end. Every rebuilt ancestor keeps its identity.
func replaceAt(n *Node, p path.Path, v any) (*Node, error) {
	assert(len(p) > 0, "replaceAt requires a non-empty path")
	step := p[0]
	if len(p) == 1 {
		return n.withChild(step, v)
	}
	child, err := n.childAt(step)
	if err != nil {
		return nil, err
	}
	cn, ok := child.(*Node)
	if !ok {
		return nil, fmt.Errorf("%w: value at %s is not a node", ErrInvalidPath, step)
	}
	rebuilt, err := replaceAt(cn, p[1:], v)
	if err != nil {
		return nil, err
	}
	return n.withChild(step, rebuilt)
}

// implant places sub at p, rebuilding the spine. An empty p replaces the
// root.
func implant(tree *Node, p path.Path, sub *Node) (*Node, error) {
	if len(p) == 0 {
		return sub, nil
	}
	return replaceAt(tree, p, sub)
}

// locateInsertion maps an insertion step onto (slot index, list index,
// slot name). Unlike locate, the index may equal the list length.
func (n *Node) locateInsertion(step path.Element) (int, int, string, error) {
	switch el := step.(type) {
	case path.Index:
		if !n.class.onlyList {
			return 0, 0, "", fmt.Errorf("%w: bare index %d at node %s of %s",
				ErrInvalidPath, int(el), n.serial, n.class)
		}
		lst := n.slots[0].([]any)
		if int(el) < 0 || int(el) > len(lst) {
			return 0, 0, "", fmt.Errorf("%w: insertion index %d out of range 0..%d",
				ErrInvalidPath, int(el), len(lst))
		}
		return 0, int(el), n.class.slots[0].Name, nil
	case path.SlotIndex:
		i, ok := n.class.slotIndex(el.Slot)
		if !ok || n.class.slots[i].Kind != ListSlot {
			return 0, 0, "", fmt.Errorf("%w: no list slot %q at %s", ErrInvalidPath, el.Slot, n.class)
		}
		lst := n.slots[i].([]any)
		if el.Index < 0 || el.Index > len(lst) {
			return 0, 0, "", fmt.Errorf("%w: insertion index %d out of range 0..%d",
				ErrInvalidPath, el.Index, len(lst))
		}
		return i, el.Index, el.Slot, nil
	}
	return 0, 0, "", fmt.Errorf("%w: cannot insert at step %s", ErrInvalidPath, step)
}
