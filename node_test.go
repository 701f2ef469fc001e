package arbor

import (
	"errors"
	"testing"

	"github.com/npillmayer/arbor/ident"
)

func TestNewClassRejectsDuplicateSlots(t *testing.T) {
	_, err := NewClass("broken", []SlotDef{
		{Name: "kids", Kind: ListSlot},
		{Name: "kids", Kind: ScalarSlot},
	})
	if !errors.Is(err, ErrIllegalArguments) {
		t.Fatalf("expected ErrIllegalArguments, got %v", err)
	}
}

func TestNewClassRejectsDataSlotCollision(t *testing.T) {
	_, err := NewClass("broken", []SlotDef{{Name: "kids", Kind: ListSlot}},
		WithDataSlot("kids"))
	if !errors.Is(err, ErrIllegalArguments) {
		t.Fatalf("expected ErrIllegalArguments, got %v", err)
	}
}

func TestNewNodeAllocatesFreshSerials(t *testing.T) {
	n1 := lbl("x")
	n2 := lbl("y")
	if n1.Serial() == n2.Serial() {
		t.Errorf("two fresh nodes share serial %s", n1.Serial())
	}
	if n1.Serial().IsNone() {
		t.Errorf("fresh node has no identity")
	}
}

func TestNewNodeRejectsUnknownSlot(t *testing.T) {
	_, err := NewNode(labelClass, map[string]any{"nope": 1})
	if !errors.Is(err, ErrIllegalArguments) {
		t.Fatalf("expected ErrIllegalArguments, got %v", err)
	}
}

func TestNewNodeWithExplicitSerial(t *testing.T) {
	sn := ident.New()
	n := MustNode(labelClass, nil, WithSerial(sn))
	if n.Serial() != sn {
		t.Errorf("explicit serial not honored: got %s, want %s", n.Serial(), sn)
	}
}

func TestDataFallsBackToNode(t *testing.T) {
	anon := MustClass("anon", []SlotDef{{Name: "kids", Kind: ListSlot}})
	n := MustNode(anon, nil)
	if n.Data() != n {
		t.Errorf("node without data slot must be its own data")
	}
}

func TestCopyWithoutOverridesPreservesEverything(t *testing.T) {
	root, _ := scenarioTree()
	twin, err := root.Copy()
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if twin.Serial() != root.Serial() {
		t.Errorf("copy changed identity: %s != %s", twin.Serial(), root.Serial())
	}
	if twin.Data() != "a" {
		t.Errorf("copy lost payload: %v", twin.Data())
	}
	rk := root.Children()
	tk := twin.Children()
	if len(rk) != len(tk) {
		t.Fatalf("copy changed child count")
	}
	for i := range rk {
		if rk[i] != tk[i] {
			t.Errorf("child %d not shared by copy", i)
		}
	}
}

func TestCopyWithOverrides(t *testing.T) {
	root, nodes := scenarioTree()
	sn := ident.New()
	twin, err := root.Copy(
		SetSlot("label", "z"),
		SetSlot("kids", []any{nodes["b"]}),
		SetSerial(sn),
	)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if twin.Data() != "z" || twin.Serial() != sn || len(twin.Children()) != 1 {
		t.Errorf("overrides not applied: %v", twin)
	}
	if root.Data() != "a" || len(root.Children()) != 2 {
		t.Errorf("copy mutated its source")
	}
}

func TestChildrenConcatenatesSlotsInOrder(t *testing.T) {
	cond := lbl("cond")
	s1 := lbl("s1")
	s2 := lbl("s2")
	n := MustNode(stmtClass, map[string]any{
		"op":   "if",
		"cond": cond,
		"body": []any{s1, s2},
	})
	kids := n.Children()
	if len(kids) != 3 || kids[0] != cond || kids[1] != s1 || kids[2] != s2 {
		t.Errorf("unexpected child order: %v", kids)
	}
}

func TestChildrenSkipsUnsetScalarSlot(t *testing.T) {
	n := MustNode(stmtClass, map[string]any{"op": "block", "body": []any{lbl("s")}})
	if len(n.Children()) != 1 {
		t.Errorf("unset scalar slot must not contribute a child")
	}
}

func TestSizeCountsAllValues(t *testing.T) {
	root, _ := scenarioTree()
	if got := Size(root); got != 5 {
		t.Errorf("Size = %d, want 5", got)
	}
	withLeaf := lbl("p", lbl("q"), "atom")
	if got := Size(withLeaf); got != 3 {
		t.Errorf("Size with atom leaf = %d, want 3", got)
	}
}
