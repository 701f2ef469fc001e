/*
Package path implements locators into labeled trees.

A path is a sequence of steps leading from a root node to one of its
descendants. Each step addresses one child: by bare index (for node
variants with a single child list), by slot name (for scalar child slots),
or by slot name plus index (for variants with several child lists).

Path values are plain slices and are never mutated by this package;
operations that extend a path copy it first.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package path

import (
	"fmt"
	"strings"
)

// Element is one step of a path. The concrete step types are Index, Slot,
// SlotIndex and Span. All of them are comparable, so elements of the same
// kind may be compared with ==.
type Element interface {
	fmt.Stringer
	isElement()
}

// Index addresses the i-th child of a node with exactly one child list.
type Index int

// Slot addresses a scalar child slot by name.
type Slot string

// SlotIndex addresses the i-th child within a named child list.
type SlotIndex struct {
	Slot  string
	Index int
}

// Span is an inclusive index range over a child list. Spans occur only in
// transform patterns, never in concrete paths. An empty Slot denotes a
// bare-index range, matching Index steps.
type Span struct {
	Slot   string
	Lo, Hi int
}

func (Index) isElement()     {}
func (Slot) isElement()      {}
func (SlotIndex) isElement() {}
func (Span) isElement()      {}

func (i Index) String() string { return fmt.Sprintf("%d", int(i)) }
func (s Slot) String() string  { return string(s) }

func (si SlotIndex) String() string {
	return fmt.Sprintf("%s[%d]", si.Slot, si.Index)
}

func (sp Span) String() string {
	if sp.Slot == "" {
		return fmt.Sprintf("[%d…%d]", sp.Lo, sp.Hi)
	}
	return fmt.Sprintf("%s[%d…%d]", sp.Slot, sp.Lo, sp.Hi)
}

// Path is a sequence of steps. The nil path addresses the root itself.
type Path []Element

// P builds a path from element values. It is a test and literal helper;
// ints become Index steps and strings become Slot steps.
func P(steps ...any) Path {
	p := make(Path, 0, len(steps))
	for _, step := range steps {
		switch s := step.(type) {
		case int:
			p = append(p, Index(s))
		case string:
			p = append(p, Slot(s))
		case Element:
			p = append(p, s)
		default:
			panic(fmt.Sprintf("path.P: cannot use %T as path element", step))
		}
	}
	return p
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	q := make(Path, len(p))
	copy(q, p)
	return q
}

// Extend returns a fresh path with el appended; p is left untouched.
func (p Path) Extend(el Element) Path {
	q := make(Path, len(p), len(p)+1)
	copy(q, p)
	return append(q, el)
}

// Concat returns a fresh path p ++ q.
func (p Path) Concat(q Path) Path {
	r := make(Path, 0, len(p)+len(q))
	r = append(r, p...)
	return append(r, q...)
}

// Equal reports element-wise equality.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// IsPrefix reports whether p is a (possibly equal) prefix of q.
func (p Path) IsPrefix(q Path) bool {
	if len(p) > len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Suffix returns the remainder of q after the prefix p. It must only be
// called when p.IsPrefix(q) holds.
func (p Path) Suffix(q Path) Path {
	return q[len(p):]
}

func (p Path) String() string {
	if len(p) == 0 {
		return "⟨⟩"
	}
	var sb strings.Builder
	sb.WriteString("⟨")
	for i, el := range p {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(el.String())
	}
	sb.WriteString("⟩")
	return sb.String()
}

// Less is the lexicographic path order: elements are compared step-wise,
// with slot names preceding numbers, slot names ordered as strings and
// numbers ordered naturally. When one path is a prefix of the other, the
// shorter orders first.
func Less(p, q Path) bool {
	n := min(len(p), len(q))
	for i := 0; i < n; i++ {
		switch {
		case elemLess(p[i], q[i]):
			return true
		case elemLess(q[i], p[i]):
			return false
		}
	}
	return len(p) < len(q)
}

// elemKey projects an element onto a comparison key. Slot-carrying steps
// order before bare indices; a scalar Slot orders before any indexed step
// of the same slot. Spans order by their lower bound.
func elemKey(el Element) (slot string, hasSlot bool, index int) {
	switch e := el.(type) {
	case Slot:
		return string(e), true, -1
	case SlotIndex:
		return e.Slot, true, e.Index
	case Span:
		return e.Slot, e.Slot != "", e.Lo
	case Index:
		return "", false, int(e)
	}
	return "", false, 0
}

func elemLess(a, b Element) bool {
	aSlot, aHas, aInx := elemKey(a)
	bSlot, bHas, bInx := elemKey(b)
	if aHas != bHas {
		return aHas // slot names precede numbers
	}
	if aSlot != bSlot {
		return aSlot < bSlot
	}
	return aInx < bInx
}

// Matches reports whether a pattern element covers a concrete path element.
// Non-span pattern elements match by equality; a span matches an index step
// of its slot within [Lo,Hi].
func Matches(pattern, el Element) bool {
	sp, ok := pattern.(Span)
	if !ok {
		return pattern == el
	}
	switch e := el.(type) {
	case Index:
		return sp.Slot == "" && sp.Lo <= int(e) && int(e) <= sp.Hi
	case SlotIndex:
		return sp.Slot == e.Slot && sp.Lo <= e.Index && e.Index <= sp.Hi
	}
	return false
}

// Shifted returns the output element for a span match: out displaced by
// delta positions. Non-indexed output elements are returned verbatim.
func Shifted(out Element, delta int) Element {
	switch o := out.(type) {
	case Index:
		return Index(int(o) + delta)
	case SlotIndex:
		return SlotIndex{Slot: o.Slot, Index: o.Index + delta}
	}
	return out
}
