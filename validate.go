package arbor

import (
	"fmt"

	"github.com/npillmayer/arbor/ident"
)

// Check validates the identity invariants of the tree rooted at n: every
// reachable node's serial number occurs exactly once. A violation also
// covers cycles, since re-entering a node revisits its serial.
//
// The validation predicates are advisory precondition checks for callers
// combining trees; the edit API itself assumes well-formed inputs.
func (n *Node) Check() error {
	if n == nil {
		return fmt.Errorf("%w: nil tree", ErrIllegalArguments)
	}
	seen := make(map[ident.Serial]*Node)
	var clash error
	Walk(n, func(v any) bool {
		node, ok := v.(*Node)
		if !ok {
			return false
		}
		if prev, dup := seen[node.Serial()]; dup {
			clash = fmt.Errorf("%w: %s occurs at %s and %s",
				ErrIdentityCollision, node.Serial(), prev, node)
			return false
		}
		seen[node.Serial()] = node
		return true
	})
	return clash
}

// Disjoint reports whether the trees rooted at a and b share no node
// identities.
func Disjoint(a, b *Node) bool {
	if a == nil || b == nil {
		return true
	}
	serials := make(map[ident.Serial]bool)
	Walk(a, func(v any) bool {
		if n, ok := v.(*Node); ok {
			serials[n.Serial()] = true
			return true
		}
		return false
	})
	shared := false
	Walk(b, func(v any) bool {
		n, ok := v.(*Node)
		if !ok {
			return false
		}
		if serials[n.Serial()] {
			shared = true
		}
		return !shared
	})
	return !shared
}

// CanImplant reports whether sub may be inserted below tree without
// violating identity uniqueness, i.e. both trees are valid on their own
// and identity-disjoint.
func CanImplant(tree, sub *Node) bool {
	if tree == nil || sub == nil {
		return false
	}
	if tree.Check() != nil || sub.Check() != nil {
		return false
	}
	return Disjoint(tree, sub)
}
