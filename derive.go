package arbor

import (
	"sort"

	"github.com/npillmayer/arbor/ident"
	"github.com/npillmayer/arbor/path"
)

// PathTransformOf derives a compact path transform between two tree
// versions sharing node identities. Every path in from which lands on a
// node whose identity survives in to is mapped onto that node's path in
// to; paths below vanished identities pass through unchanged and may fail
// to resolve, which is the accepted imprecision of a diff over arbitrary
// tree pairs.
//
// Edit operations attach sharper transforms directly; this derivation is
// the fallback used when only a predecessor node is known.
func PathTransformOf(from, to *Node) *Transform {
	type occurrence struct {
		fromNode any
		fromPath path.Path
		toPath   path.Path
		toSeen   bool
	}
	table := make(map[ident.Serial]*occurrence)
	WalkPaths(from, func(v any, rpath *RPath) bool {
		n, ok := v.(*Node)
		if !ok {
			return false
		}
		if _, dup := table[n.Serial()]; !dup {
			table[n.Serial()] = &occurrence{fromNode: n, fromPath: rpath.Path()}
		}
		return true
	})
	var raw []Entry
	WalkPaths(to, func(v any, rpath *RPath) bool {
		n, ok := v.(*Node)
		if !ok {
			return false
		}
		occ, shared := table[n.Serial()]
		if !shared || occ.toSeen {
			return true
		}
		occ.toSeen = true
		occ.toPath = rpath.Path()
		raw = append(raw, Entry{In: occ.fromPath, Out: occ.toPath, Status: Live})
		// the whole subtree is shared, no remapping needed below it
		return occ.fromNode != v
	})
	sort.Slice(raw, func(i, j int) bool {
		return path.Less(raw[i].In, raw[j].In)
	})
	compressed := compressEntries(raw)
	tracer().Debugf("diff of %s and %s: %d shared identities, %d transform entries",
		from, to, len(raw), len(compressed))
	return NewTransform(from, compressed)
}

// compressEntries drops entries derivable by suffix extension from the most
// recently kept entry (the stack top); earlier kept entries are not
// consulted. The input must be sorted lexicographically by In.
func compressEntries(sorted []Entry) []Entry {
	var stack []Entry
	for _, e := range sorted {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.In.IsPrefix(e.In) &&
				e.Out.Equal(top.Out.Concat(top.In.Suffix(e.In))) {
				continue // subsumed by the stack top
			}
		}
		stack = append(stack, e)
	}
	return stack
}
