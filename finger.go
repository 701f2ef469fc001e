package arbor

import (
	"fmt"
	"sync"

	"github.com/npillmayer/arbor/path"
)

// Finger is a stable reference into a specific tree version: a root, a
// path valid at that root, and a residue collecting path steps which a
// lossy translation could not carry over.
//
// Fingers resolve their target lazily and cache the result; apart from
// that cache they are immutable.
type Finger struct {
	root    *Node
	path    path.Path
	residue path.Path

	once   sync.Once
	target any
	err    error
}

// NewFinger creates a finger for a path relative to root. The path is not
// checked until the finger is resolved.
func NewFinger(root *Node, p path.Path) *Finger {
	return &Finger{root: root, path: p.Clone()}
}

// NewResidualFinger creates a finger carrying an untranslated residue.
func NewResidualFinger(root *Node, p, residue path.Path) *Finger {
	return &Finger{root: root, path: p.Clone(), residue: residue.Clone()}
}

// Root returns the tree version this finger points into.
func (f *Finger) Root() *Node { return f.root }

// Path returns the finger's path. Callers must not modify it.
func (f *Finger) Path() path.Path { return f.path }

// Residue returns the untranslated remainder of the finger's original
// path, or nil when the finger is exact.
func (f *Finger) Residue() path.Path { return f.residue }

// Resolve walks the finger's path from its root and returns the target
// value. The walk happens at most once; subsequent calls return the cached
// result.
func (f *Finger) Resolve() (any, error) {
	f.once.Do(func() {
		f.target, f.err = resolvePath(f.root, f.path)
	})
	return f.target, f.err
}

// List returns the resolved target converted to its nested list
// representation, or the target itself when it is not a node.
func (f *Finger) List() (any, error) {
	v, err := f.Resolve()
	if err != nil {
		return nil, err
	}
	return ListOf(v, nil), nil
}

func (f *Finger) String() string {
	if len(f.residue) == 0 {
		return fmt.Sprintf("finger %s at %s", f.path, f.root)
	}
	return fmt.Sprintf("finger %s (residue %s) at %s", f.path, f.residue, f.root)
}

// resolvePath descends from root step by step.
func resolvePath(root any, p path.Path) (any, error) {
	cur := root
	for i, step := range p {
		n, ok := cur.(*Node)
		if !ok {
			return nil, fmt.Errorf("%w: value at %s is not a node", ErrInvalidPath, p[:i])
		}
		child, err := n.childAt(step)
		if err != nil {
			return nil, err
		}
		cur = child
	}
	return cur, nil
}

// PathValidAt reports whether p can be fully resolved at root.
func PathValidAt(p path.Path, root *Node) bool {
	_, err := resolvePath(root, p)
	return err == nil
}

// Translate remaps the finger into the tree version to, which must be
// reachable from f's root through the chain of transform back-references.
// Each chain step's transform is applied oldest first; steps cut off by a
// dead transform entry accumulate in the result's residue.
//
// Translating a finger to its own root returns the finger itself.
func (f *Finger) Translate(to *Node) (*Finger, error) {
	if to == nil {
		return nil, fmt.Errorf("%w: nil target root", ErrIllegalArguments)
	}
	if to == f.root {
		return f, nil
	}
	var steps []*Transform
	for cur := to; cur != f.root; {
		t := cur.Transform()
		if t == nil {
			return nil, fmt.Errorf("%w: %s does not derive from %s",
				ErrNoDerivationPath, to, f.root)
		}
		pred := t.From()
		if pred == nil {
			return nil, fmt.Errorf("%w: edit history of %s no longer available",
				ErrNoDerivationPath, to)
		}
		steps = append(steps, t)
		cur = pred
	}
	tracer().Debugf("translating %s over %d edit steps", f, len(steps))
	p := f.path
	residue := f.residue
	for i := len(steps) - 1; i >= 0; i-- {
		next, lost := steps[i].Apply(p)
		p = next
		if len(lost) > 0 {
			residue = lost.Concat(residue)
		}
	}
	return NewResidualFinger(to, p, residue), nil
}

// PopulateFingers walks the tree and sets every node's finger slot to a
// finger anchored at root. Nodes that already carry a finger keep it, so
// repeated application is idempotent and shared subtrees stay anchored at
// the root they were first populated for.
func PopulateFingers(root *Node) {
	WalkPaths(root, func(v any, rpath *RPath) bool {
		n, ok := v.(*Node)
		if !ok {
			return false
		}
		if n.finger.Load() == nil {
			n.finger.CompareAndSwap(nil, NewFinger(root, rpath.Path()))
		}
		return true
	})
}
