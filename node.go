package arbor

import (
	"fmt"
	"sync/atomic"
	"weak"

	"github.com/npillmayer/arbor/ident"
	"github.com/npillmayer/arbor/path"
)

// Node is an immutable labeled tree node. Its child layout is declared by
// its Class; its identity is a process-unique serial number which copies
// preserve unless explicitly overridden.
//
// Apart from two idempotent caches (the lazy transform back-reference and
// the finger slot) a node never changes after it has been handed out, so
// nodes and whole trees are safe for arbitrary concurrent readers.
type Node struct {
	class  *Class
	serial ident.Serial
	slots  []any // parallel to class.slots; ListSlot entries hold []any
	data   any   // payload, meaningful only if class.dataSlot != ""

	backref atomic.Pointer[backref]
	finger  atomic.Pointer[Finger]
}

// backref is the transform back-reference of an edited node. Before
// materialization it holds the predecessor root weakly, so that keeping a
// new tree version does not pin the whole edit history; materialization
// replaces the node reference by the derived path transform.
type backref struct {
	pred weak.Pointer[Node]
	xf   *Transform
}

// NodeOption configures node construction.
type NodeOption func(*Node)

// WithSerial supplies an explicit serial number instead of allocating a
// fresh one. It is the caller's duty not to duplicate identities within a
// tree; Check detects violations.
func WithSerial(sn ident.Serial) NodeOption {
	return func(n *Node) { n.serial = sn }
}

// WithPredecessor records pred as the tree version this node was derived
// from. The path transform between the two versions is derived lazily on
// first use.
func WithPredecessor(pred *Node) NodeOption {
	return func(n *Node) {
		if pred != nil {
			n.backref.Store(&backref{pred: weak.Make(pred)})
		}
	}
}

// WithTransform records an explicit path transform back to the predecessor
// version.
func WithTransform(t *Transform) NodeOption {
	return func(n *Node) {
		if t != nil {
			n.backref.Store(&backref{xf: t})
		}
	}
}

// NewNode creates a node of variant cl. values maps slot names to slot
// contents: ListSlot values must be []any (or absent), ScalarSlot values
// are stored as given, and a value for the class's data slot becomes the
// node's payload. Unknown names are rejected. A fresh serial number is
// allocated unless WithSerial overrides it.
func NewNode(cl *Class, values map[string]any, opts ...NodeOption) (*Node, error) {
	if cl == nil {
		return nil, fmt.Errorf("%w: nil class", ErrIllegalArguments)
	}
	n := &Node{
		class: cl,
		slots: make([]any, len(cl.slots)),
	}
	for name, v := range values {
		if cl.dataSlot != "" && name == cl.dataSlot {
			n.data = v
			continue
		}
		i, ok := cl.slotIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: class %q has no slot %q", ErrIllegalArguments, cl.name, name)
		}
		if cl.slots[i].Kind == ListSlot {
			lst, ok := v.([]any)
			if !ok && v != nil {
				return nil, fmt.Errorf("%w: slot %q of class %q requires []any",
					ErrIllegalArguments, name, cl.name)
			}
			n.slots[i] = lst
			continue
		}
		n.slots[i] = v
	}
	for i, def := range cl.slots {
		if def.Kind == ListSlot && n.slots[i] == nil {
			n.slots[i] = []any(nil)
		}
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.serial.IsNone() {
		n.serial = ident.New()
	}
	return n, nil
}

// MustNode is NewNode for construction known to be well-formed, e.g. in
// tests and variant builders.
func MustNode(cl *Class, values map[string]any, opts ...NodeOption) *Node {
	n, err := NewNode(cl, values, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// Class returns the node's variant descriptor.
func (n *Node) Class() *Class { return n.class }

// Serial returns the node's identity.
func (n *Node) Serial() ident.Serial { return n.serial }

// Data returns the node's payload, or the node itself when its variant
// declares no data slot.
func (n *Node) Data() any {
	if n.class.dataSlot == "" {
		return n
	}
	return n.data
}

// Slot returns the contents of a declared slot. List slots yield []any,
// the data slot yields the payload.
func (n *Node) Slot(name string) (any, bool) {
	if n.class.dataSlot != "" && name == n.class.dataSlot {
		return n.data, true
	}
	i, ok := n.class.slotIndex(name)
	if !ok {
		return nil, false
	}
	return n.slots[i], true
}

// Children returns the ordered concatenation of all child slot contents.
// Unset scalar slots are skipped.
func (n *Node) Children() []any {
	var kids []any
	for i, def := range n.class.slots {
		if def.Kind == ListSlot {
			kids = append(kids, n.slots[i].([]any)...)
			continue
		}
		if n.slots[i] != nil {
			kids = append(kids, n.slots[i])
		}
	}
	return kids
}

// Size returns the number of values in the tree rooted at v: nodes plus
// non-node leaves.
func Size(v any) int {
	n, ok := v.(*Node)
	if !ok {
		return 1
	}
	size := 1
	for _, child := range n.Children() {
		size += Size(child)
	}
	return size
}

// eachChild enumerates a node's children together with the path step
// addressing each child: bare indices for single-list variants, slot names
// for scalar slots and slot+index steps otherwise.
func (n *Node) eachChild(fn func(step path.Element, child any) bool) bool {
	for i, def := range n.class.slots {
		if def.Kind == ListSlot {
			for j, child := range n.slots[i].([]any) {
				var step path.Element
				if n.class.onlyList {
					step = path.Index(j)
				} else {
					step = path.SlotIndex{Slot: def.Name, Index: j}
				}
				if !fn(step, child) {
					return false
				}
			}
			continue
		}
		if n.slots[i] == nil {
			continue
		}
		if !fn(path.Slot(def.Name), n.slots[i]) {
			return false
		}
	}
	return true
}

// childAt resolves one path step at this node.
func (n *Node) childAt(step path.Element) (any, error) {
	switch el := step.(type) {
	case path.Index:
		if !n.class.onlyList {
			return nil, fmt.Errorf("%w: bare index %d at node %s of %s",
				ErrInvalidPath, int(el), n.serial, n.class)
		}
		lst := n.slots[0].([]any)
		if int(el) < 0 || int(el) >= len(lst) {
			return nil, fmt.Errorf("%w: index %d out of range 0..%d",
				ErrInvalidPath, int(el), len(lst)-1)
		}
		return lst[el], nil
	case path.Slot:
		i, ok := n.class.slotIndex(string(el))
		if !ok || n.class.slots[i].Kind != ScalarSlot {
			return nil, fmt.Errorf("%w: no scalar slot %q at node %s of %s",
				ErrInvalidPath, string(el), n.serial, n.class)
		}
		return n.slots[i], nil
	case path.SlotIndex:
		i, ok := n.class.slotIndex(el.Slot)
		if !ok || n.class.slots[i].Kind != ListSlot {
			return nil, fmt.Errorf("%w: no list slot %q at node %s of %s",
				ErrInvalidPath, el.Slot, n.serial, n.class)
		}
		lst := n.slots[i].([]any)
		if el.Index < 0 || el.Index >= len(lst) {
			return nil, fmt.Errorf("%w: index %d out of range for slot %q",
				ErrInvalidPath, el.Index, el.Slot)
		}
		return lst[el.Index], nil
	}
	return nil, fmt.Errorf("%w: step %s is not concrete", ErrInvalidPath, step)
}

// --- Copying ---------------------------------------------------------------

type copyState struct {
	node       *Node
	slotValues map[string]any
}

// Override adjusts one aspect of a node copy.
type Override func(*copyState)

// SetSlot overrides the contents of a child slot or the data slot.
func SetSlot(name string, v any) Override {
	return func(cs *copyState) {
		if cs.slotValues == nil {
			cs.slotValues = make(map[string]any)
		}
		cs.slotValues[name] = v
	}
}

// SetSerial overrides the serial number of the copy. Without it the copy
// keeps the source node's identity.
func SetSerial(sn ident.Serial) Override {
	return func(cs *copyState) { cs.node.serial = sn }
}

// SetPredecessor sets the copy's transform back-reference to a predecessor
// tree version.
func SetPredecessor(pred *Node) Override {
	return func(cs *copyState) {
		if pred != nil {
			cs.node.backref.Store(&backref{pred: weak.Make(pred)})
		}
	}
}

// SetTransform sets the copy's transform back-reference to an explicit
// path transform.
func SetTransform(t *Transform) Override {
	return func(cs *copyState) {
		if t != nil {
			cs.node.backref.Store(&backref{xf: t})
		}
	}
}

// Copy produces a new node of the same variant. All slots, the payload and
// the serial number are taken from n unless an override applies; the
// transform back-reference and the finger slot are not carried over.
func (n *Node) Copy(overrides ...Override) (*Node, error) {
	twin := &Node{
		class:  n.class,
		serial: n.serial,
		slots:  append([]any(nil), n.slots...),
		data:   n.data,
	}
	cs := &copyState{node: twin}
	for _, over := range overrides {
		over(cs)
	}
	for name, v := range cs.slotValues {
		if n.class.dataSlot != "" && name == n.class.dataSlot {
			twin.data = v
			continue
		}
		i, ok := n.class.slotIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: class %q has no slot %q", ErrIllegalArguments, n.class.name, name)
		}
		if n.class.slots[i].Kind == ListSlot {
			lst, ok := v.([]any)
			if !ok && v != nil {
				return nil, fmt.Errorf("%w: slot %q of class %q requires []any",
					ErrIllegalArguments, name, n.class.name)
			}
			twin.slots[i] = lst
			continue
		}
		twin.slots[i] = v
	}
	return twin, nil
}

// withChild returns a copy of n with the child addressed by step replaced
// by v. The copy keeps n's identity.
func (n *Node) withChild(step path.Element, v any) (*Node, error) {
	slotInx, listInx, err := n.locate(step)
	if err != nil {
		return nil, err
	}
	def := n.class.slots[slotInx]
	if def.Kind == ScalarSlot {
		return n.Copy(SetSlot(def.Name, v))
	}
	lst := n.slots[slotInx].([]any)
	spliced := make([]any, len(lst))
	copy(spliced, lst)
	spliced[listInx] = v
	return n.Copy(SetSlot(def.Name, spliced))
}

// locate maps a concrete path step onto (slot index, list index). The list
// index is -1 for scalar slots.
func (n *Node) locate(step path.Element) (int, int, error) {
	switch el := step.(type) {
	case path.Index:
		if !n.class.onlyList {
			return 0, 0, fmt.Errorf("%w: bare index %d at node %s of %s",
				ErrInvalidPath, int(el), n.serial, n.class)
		}
		if int(el) < 0 || int(el) >= len(n.slots[0].([]any)) {
			return 0, 0, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, int(el))
		}
		return 0, int(el), nil
	case path.Slot:
		i, ok := n.class.slotIndex(string(el))
		if !ok || n.class.slots[i].Kind != ScalarSlot {
			return 0, 0, fmt.Errorf("%w: no scalar slot %q at %s", ErrInvalidPath, string(el), n.class)
		}
		return i, -1, nil
	case path.SlotIndex:
		i, ok := n.class.slotIndex(el.Slot)
		if !ok || n.class.slots[i].Kind != ListSlot {
			return 0, 0, fmt.Errorf("%w: no list slot %q at %s", ErrInvalidPath, el.Slot, n.class)
		}
		if el.Index < 0 || el.Index >= len(n.slots[i].([]any)) {
			return 0, 0, fmt.Errorf("%w: index %d out of range for slot %q",
				ErrInvalidPath, el.Index, el.Slot)
		}
		return i, el.Index, nil
	}
	return 0, 0, fmt.Errorf("%w: step %s is not concrete", ErrInvalidPath, step)
}

// Transform returns the path transform back to the node's predecessor
// version, or nil when the node has none. A back-reference still holding
// the predecessor node is materialized by diffing the two versions; the
// result is cached. Materialization is idempotent, a concurrent race at
// worst derives the same transform twice.
func (n *Node) Transform() *Transform {
	br := n.backref.Load()
	if br == nil {
		return nil
	}
	if br.xf != nil {
		return br.xf
	}
	pred := br.pred.Value()
	if pred == nil {
		return nil // edit history has been collected
	}
	t := PathTransformOf(pred, n)
	n.backref.CompareAndSwap(br, &backref{xf: t})
	if cur := n.backref.Load(); cur != nil && cur.xf != nil {
		return cur.xf
	}
	return t
}

// Finger returns the finger populated for this node, or nil. See
// PopulateFingers.
func (n *Node) Finger() *Finger {
	return n.finger.Load()
}

func (n *Node) String() string {
	if n == nil {
		return "<nil node>"
	}
	return fmt.Sprintf("{%s %s}", n.class.name, n.serial)
}
