package arbor

import (
	"fmt"
	"sort"
	"strings"
	"weak"

	"github.com/npillmayer/arbor/path"
)

// Status of a transform entry. A live entry carries the unmatched tail of
// a translated path through to the output; a dead entry cuts the tail off
// and returns it as residue.
type Status int8

const (
	Live Status = iota
	Dead
)

func (s Status) String() string {
	if s == Dead {
		return "dead"
	}
	return "live"
}

// Entry is one rewrite rule of a path transform. In is a path pattern,
// possibly containing Span steps; Out is the replacement prefix.
type Entry struct {
	In     path.Path
	Out    path.Path
	Status Status
}

func (e Entry) String() string {
	return fmt.Sprintf("%s → %s (%s)", e.In, e.Out, e.Status)
}

// Transform rewrites paths of one tree version into paths of a successor
// version. Entries are kept in non-increasing order of pattern length and
// the first matching entry wins, so a more specific rule shadows a more
// general one. A path matching no entry passes through unchanged.
//
// The source version is held weakly: a transform does not keep the edit
// history it describes alive.
type Transform struct {
	from    weak.Pointer[Node]
	entries []Entry
	tail    *Transform // composed continuation, applied after entries
}

// NewTransform creates a transform from an entry list. The entries are
// sorted into first-match-wins order; within equal pattern lengths the
// given order is kept.
func NewTransform(from *Node, entries []Entry) *Transform {
	t := &Transform{entries: append([]Entry(nil), entries...)}
	if from != nil {
		t.from = weak.Make(from)
	}
	sortEntries(t.entries)
	return t
}

// Identity creates the empty transform, mapping every path to itself.
func Identity(from *Node) *Transform {
	return NewTransform(from, nil)
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].In) > len(entries[j].In)
	})
}

// From returns the tree version this transform translates from, or nil
// when that version has been collected.
func (t *Transform) From() *Node {
	return t.from.Value()
}

// Entries returns the transform's rewrite rules in match order.
func (t *Transform) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Apply rewrites a path. It returns the translated path and the residue:
// the untranslated remainder of p when the matching entry was dead, nil
// otherwise.
func (t *Transform) Apply(p path.Path) (path.Path, path.Path) {
	out, residue := applyEntries(t.entries, p)
	if t.tail == nil {
		return out, residue
	}
	final, lost := t.tail.Apply(out)
	if len(lost) > 0 {
		residue = lost.Concat(residue)
	}
	return final, residue
}

// Compose chains two transforms: applying the composition equals applying
// t1 first and t2 to its result. t1's destination must be t2's source.
func Compose(t2, t1 *Transform) *Transform {
	if t1 == nil {
		return t2
	}
	if t2 == nil {
		return t1
	}
	composed := &Transform{
		from:    t1.from,
		entries: t1.entries,
		tail:    t2,
	}
	if t1.tail != nil {
		composed.tail = Compose(t2, t1.tail)
	}
	return composed
}

func (t *Transform) String() string {
	var sb strings.Builder
	sb.WriteString("transform{")
	for i, e := range t.entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteString("}")
	if t.tail != nil {
		sb.WriteString(" ∘ ")
		sb.WriteString(t.tail.String())
	}
	return sb.String()
}

// applyEntries is the single-step rewrite: first matching entry wins.
func applyEntries(entries []Entry, p path.Path) (path.Path, path.Path) {
	for _, e := range entries {
		if len(e.In) > len(p) {
			continue
		}
		if !patternMatches(e.In, p) {
			continue
		}
		out := make(path.Path, 0, len(e.Out)+len(p)-len(e.In))
		for i, oe := range e.Out {
			if i < len(e.In) {
				if span, ok := e.In[i].(path.Span); ok {
					out = append(out, path.Shifted(oe, concreteIndex(p[i])-span.Lo))
					continue
				}
			}
			// scalar pattern step, or output overflow spliced before the tail
			out = append(out, oe)
		}
		tail := p[len(e.In):]
		if e.Status == Dead {
			return out, tail.Clone()
		}
		return append(out, tail...), nil
	}
	return p, nil
}

func patternMatches(pattern, p path.Path) bool {
	for i, pe := range pattern {
		if !path.Matches(pe, p[i]) {
			return false
		}
	}
	return true
}

func concreteIndex(el path.Element) int {
	switch e := el.(type) {
	case path.Index:
		return int(e)
	case path.SlotIndex:
		return e.Index
	}
	assert(false, "span matched a non-indexed path step %s", el)
	return 0
}
