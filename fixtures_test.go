package arbor

import (
	"github.com/npillmayer/arbor/ident"
	"github.com/npillmayer/arbor/path"
)

// labelClass is the workhorse variant for tests: a single child list plus
// a label payload, so paths use bare indices.
var labelClass = MustClass("label",
	[]SlotDef{{Name: "kids", Kind: ListSlot}},
	WithDataSlot("label"))

// stmtClass has several child slots, so paths use slot names and
// slot+index steps.
var stmtClass = MustClass("stmt",
	[]SlotDef{
		{Name: "cond", Kind: ScalarSlot},
		{Name: "body", Kind: ListSlot},
	},
	WithDataSlot("op"))

func lbl(label string, kids ...any) *Node {
	return MustNode(labelClass, map[string]any{"label": label, "kids": kids})
}

// scenarioTree builds (a (b) (c (d) (e))), the tree used throughout the
// scenario tests, and returns it along with its nodes by label.
func scenarioTree() (*Node, map[string]*Node) {
	b := lbl("b")
	d := lbl("d")
	e := lbl("e")
	c := lbl("c", d, e)
	a := lbl("a", b, c)
	return a, map[string]*Node{"a": a, "b": b, "c": c, "d": d, "e": e}
}

func serialOf(v any) ident.Serial {
	if n, ok := v.(*Node); ok {
		return n.Serial()
	}
	return ident.None
}

func mustLookup(root *Node, p path.Path) any {
	v, _, err := Lookup(root, p)
	if err != nil {
		panic(err)
	}
	return v
}
