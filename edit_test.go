package arbor

import (
	"errors"
	"testing"

	"github.com/npillmayer/arbor/path"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBuildAndFetch(t *testing.T) {
	root, nodes := scenarioTree()
	if v := mustLookup(root, path.P(1, 0)); v != nodes["d"] {
		t.Errorf("lookup ⟨1 0⟩ = %v, want node d", v)
	}
}

func TestWithPreservesSharing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "arbor")
	defer teardown()

	r1, _ := scenarioTree()
	x := lbl("x")
	r2, err := With(r1, path.P(1, 0), x)
	if err != nil {
		t.Fatalf("with failed: %v", err)
	}
	if mustLookup(r2, path.P(0)) != mustLookup(r1, path.P(0)) {
		t.Errorf("untouched subtree must be shared by identity")
	}
	if mustLookup(r2, path.P(1, 0)) != x {
		t.Errorf("replacement not at its path")
	}
	if mustLookup(r1, path.P(1, 0)).(*Node).Data() != "d" {
		t.Errorf("old tree was modified")
	}
	if r2.Serial() != r1.Serial() {
		t.Errorf("rebuilt root must keep its identity")
	}
}

func TestWithSatisfiesLookupLaw(t *testing.T) {
	r1, _ := scenarioTree()
	v := lbl("v")
	r2, err := With(r1, path.P(1, 1), v)
	if err != nil {
		t.Fatalf("with failed: %v", err)
	}
	if mustLookup(r2, path.P(1, 1)) != v {
		t.Errorf("lookup(with(tree, p, v), p) must be v")
	}
}

func TestSpliceShiftsPaths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "arbor")
	defer teardown()

	r1, nodes := scenarioTree()
	r2, err := Splice(r1, path.P(1), []any{lbl("f")})
	if err != nil {
		t.Fatalf("splice failed: %v", err)
	}
	xf := PathTransformOf(r1, r2)
	out, residue := xf.Apply(path.P(1, 0))
	if !out.Equal(path.P(2, 0)) || len(residue) != 0 {
		t.Errorf("transform maps ⟨1 0⟩ to %s, want ⟨2 0⟩", out)
	}
	f := NewFinger(r1, path.P(1))
	g, err := f.Translate(r2)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	v, err := g.Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if serialOf(v) != nodes["c"].Serial() {
		t.Errorf("finger lost identity c across splice")
	}
}

func TestInsertBefore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "arbor")
	defer teardown()

	r1, nodes := scenarioTree()
	f := lbl("f")
	r2, err := Insert(r1, path.P(1), f)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if mustLookup(r2, path.P(1)) != f {
		t.Errorf("inserted value not at ⟨1⟩")
	}
	if serialOf(mustLookup(r2, path.P(2))) != nodes["c"].Serial() {
		t.Errorf("c did not shift to ⟨2⟩")
	}
	out, _ := r2.Transform().Apply(path.P(1, 0))
	if !out.Equal(path.P(2, 0)) {
		t.Errorf("edit transform maps ⟨1 0⟩ to %s, want ⟨2 0⟩", out)
	}
}

func TestSpliceOfNothingIsIdentity(t *testing.T) {
	r1, _ := scenarioTree()
	r2, err := Splice(r1, path.P(1), nil)
	if err != nil {
		t.Fatalf("splice failed: %v", err)
	}
	if r2 != r1 {
		t.Errorf("empty splice must return the tree unchanged")
	}
}

func TestSpliceAppendsAtListEnd(t *testing.T) {
	r1, _ := scenarioTree()
	z := lbl("z")
	r2, err := Splice(r1, path.P(2), []any{z})
	if err != nil {
		t.Fatalf("append splice failed: %v", err)
	}
	if mustLookup(r2, path.P(2)) != z {
		t.Errorf("appended value not at ⟨2⟩")
	}
}

func TestLessDeletesAndShifts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "arbor")
	defer teardown()

	r1, nodes := scenarioTree()
	r2, err := Less(r1, path.P(0))
	if err != nil {
		t.Fatalf("less failed: %v", err)
	}
	if len(r2.Children()) != 1 {
		t.Fatalf("child list did not shrink")
	}
	if serialOf(mustLookup(r2, path.P(0))) != nodes["c"].Serial() {
		t.Errorf("sibling did not shift left")
	}
	out, residue := r2.Transform().Apply(path.P(1, 1))
	if !out.Equal(path.P(0, 1)) || len(residue) != 0 {
		t.Errorf("shift entry maps ⟨1 1⟩ to %s, want ⟨0 1⟩", out)
	}
	// a path below the deleted node degrades to the parent, and the steps
	// below the deleted node become residue
	out, residue = r2.Transform().Apply(path.P(0, 0))
	if !out.Equal(path.P()) || !residue.Equal(path.P(0)) {
		t.Errorf("deleted path: got (%s, %s), want (⟨⟩, ⟨0⟩)", out, residue)
	}
}

func TestLessOfRootPathIsAnError(t *testing.T) {
	r1, _ := scenarioTree()
	if _, err := Less(r1, nil); !errors.Is(err, ErrIllegalArguments) {
		t.Errorf("expected ErrIllegalArguments, got %v", err)
	}
}

func TestLessThenInsertRestoresStructure(t *testing.T) {
	r1, nodes := scenarioTree()
	r2, err := Less(r1, path.P(1, 0))
	if err != nil {
		t.Fatalf("less failed: %v", err)
	}
	r3, err := Insert(r2, path.P(1, 0), mustLookup(r1, path.P(1, 0)))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if serialOf(mustLookup(r3, path.P(1, 0))) != nodes["d"].Serial() {
		t.Errorf("reinsertion did not restore the subtree")
	}
	if mustLookup(r3, path.P(0)) != nodes["b"] {
		t.Errorf("untouched subtrees must stay shared")
	}
}

func TestSwap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "arbor")
	defer teardown()

	r1, nodes := scenarioTree()
	r2, err := Swap(r1, path.P(0), path.P(1, 0))
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if serialOf(mustLookup(r2, path.P(0))) != nodes["d"].Serial() {
		t.Errorf("⟨0⟩ should now hold d")
	}
	if serialOf(mustLookup(r2, path.P(1, 0))) != nodes["b"].Serial() {
		t.Errorf("⟨1 0⟩ should now hold b")
	}
	// swap is its own inverse, identities restored
	r3, err := Swap(r2, path.P(0), path.P(1, 0))
	if err != nil {
		t.Fatalf("second swap failed: %v", err)
	}
	WalkPaths(r1, func(v any, rpath *RPath) bool {
		n, ok := v.(*Node)
		if !ok {
			return false
		}
		back := mustLookup(r3, rpath.Path())
		if serialOf(back) != n.Serial() {
			t.Errorf("swap∘swap differs at %s", rpath.Path())
		}
		return true
	})
	// moved subtrees remain trackable through the edit transform
	out, _ := r2.Transform().Apply(path.P(0))
	if !out.Equal(path.P(1, 0)) {
		t.Errorf("swap transform maps ⟨0⟩ to %s, want ⟨1 0⟩", out)
	}
}

func TestSwapRejectsOverlappingLocations(t *testing.T) {
	r1, _ := scenarioTree()
	if _, err := Swap(r1, path.P(1), path.P(1, 0)); !errors.Is(err, ErrIllegalArguments) {
		t.Errorf("expected ErrIllegalArguments, got %v", err)
	}
}

func TestResidueOnDroppedSubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "arbor")
	defer teardown()

	r1, _ := scenarioTree()
	f := NewFinger(r1, path.P(1, 0)) // at d, inside c's subtree
	r2, err := With(r1, path.P(1), lbl("g"))
	if err != nil {
		t.Fatalf("with failed: %v", err)
	}
	g, err := f.Translate(r2)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if !g.Path().Equal(path.P(1)) {
		t.Errorf("translated path = %s, want ⟨1⟩", g.Path())
	}
	if !g.Residue().Equal(path.P(0)) {
		t.Errorf("residue = %s, want ⟨0⟩", g.Residue())
	}
}

func TestNodeAddressedEdits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "arbor")
	defer teardown()

	r1, nodes := scenarioTree()
	x := lbl("x")
	r2, err := WithNode(r1, nodes["d"], x)
	if err != nil {
		t.Fatalf("with-node failed: %v", err)
	}
	if mustLookup(r2, path.P(1, 0)) != x {
		t.Errorf("with-node missed its target")
	}
	r3, err := LessNode(r1, nodes["b"])
	if err != nil {
		t.Fatalf("less-node failed: %v", err)
	}
	if serialOf(mustLookup(r3, path.P(0))) != nodes["c"].Serial() {
		t.Errorf("less-node did not delete b")
	}
	stranger := lbl("stranger")
	if _, err := WithNode(r1, stranger, x); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestEditsOnSlotPaths(t *testing.T) {
	cond := lbl("old")
	s1 := lbl("s1")
	s2 := lbl("s2")
	r1 := MustNode(stmtClass, map[string]any{
		"op":   "if",
		"cond": cond,
		"body": []any{s1, s2},
	})
	newCond := lbl("new")
	r2, err := With(r1, path.P("cond"), newCond)
	if err != nil {
		t.Fatalf("with on scalar slot failed: %v", err)
	}
	if mustLookup(r2, path.P("cond")) != newCond {
		t.Errorf("scalar slot not replaced")
	}
	r3, err := Less(r1, path.P(path.SlotIndex{Slot: "body", Index: 0}))
	if err != nil {
		t.Fatalf("less on slot index failed: %v", err)
	}
	if serialOf(mustLookup(r3, path.P(path.SlotIndex{Slot: "body", Index: 0}))) != s2.Serial() {
		t.Errorf("slot list did not shrink")
	}
	// a bare index is invalid at a multi-slot node
	if _, err := With(r1, path.P(0), newCond); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath for bare index, got %v", err)
	}
}

func TestDeletionLeavesSharedRootIntact(t *testing.T) {
	r1, nodes := scenarioTree()
	r2, err := Less(r1, path.P(1, 0))
	if err != nil {
		t.Fatalf("less failed: %v", err)
	}
	// the old root still sees the full subtree
	if mustLookup(r1, path.P(1, 0)) != nodes["d"] {
		t.Errorf("deletion must not touch the shared predecessor tree")
	}
	if len(mustLookup(r2, path.P(1)).(*Node).Children()) != 1 {
		t.Errorf("new tree should have dropped d")
	}
}
