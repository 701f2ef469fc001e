package arbor

import (
	"testing"

	"github.com/npillmayer/arbor/path"
)

func TestReduceFoldsPreorderData(t *testing.T) {
	root, _ := scenarioTree()
	joined := Reduce(func(acc, data any) any {
		return acc.(string) + data.(string)
	}, "", root)
	if joined != "abcde" {
		t.Errorf("Reduce = %q, want %q", joined, "abcde")
	}
}

func TestFindByDataEquality(t *testing.T) {
	root, nodes := scenarioTree()
	if v := Find("d", root); v != nodes["d"] {
		t.Errorf("Find(d) = %v", v)
	}
	if v := Find("nope", root); v != nil {
		t.Errorf("Find of absent item must be nil, got %v", v)
	}
}

func TestFindIfVariants(t *testing.T) {
	root, nodes := scenarioTree()
	isC := func(data any) bool { return data == "c" }
	if v := FindIf(isC, root); v != nodes["c"] {
		t.Errorf("FindIf missed c")
	}
	// preorder: first value NOT satisfying "is a" is b
	notA := func(data any) bool { return data == "a" }
	if v := FindIfNot(notA, root); v != nodes["b"] {
		t.Errorf("FindIfNot = %v, want b", v)
	}
}

func TestCountVariants(t *testing.T) {
	root := lbl("x", lbl("y"), lbl("x", lbl("x")))
	if got := Count("x", root); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
	if got := CountIf(func(data any) bool { return data != "x" }, root); got != 1 {
		t.Errorf("CountIf = %d, want 1", got)
	}
	if got := CountIfNot(func(data any) bool { return data == "x" }, root); got != 1 {
		t.Errorf("CountIfNot = %d, want 1", got)
	}
}

func TestPositionReturnsPathOfFirstMatch(t *testing.T) {
	root, _ := scenarioTree()
	p, ok := Position("e", root)
	if !ok || !p.Equal(path.P(1, 1)) {
		t.Errorf("Position(e) = %s, want ⟨1 1⟩", p)
	}
	if _, ok := Position("nope", root); ok {
		t.Errorf("Position of absent item must report a miss")
	}
	// positions at multi-slot nodes use slot steps
	n := MustNode(stmtClass, map[string]any{
		"op":   "if",
		"cond": lbl("x"),
		"body": []any{lbl("y")},
	})
	p, ok = PositionIf(func(data any) bool { return data == "y" }, n)
	if !ok || !p.Equal(path.P(path.SlotIndex{Slot: "body", Index: 0})) {
		t.Errorf("PositionIf = %s, want ⟨body[0]⟩", p)
	}
}

func TestPositionDoesNotMutate(t *testing.T) {
	root, _ := scenarioTree()
	before := Size(root)
	Position("d", root)
	if Size(root) != before || root.Data() != "a" {
		t.Errorf("Position mutated the tree")
	}
}
