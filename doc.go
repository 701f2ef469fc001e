/*
Package arbor implements persistent labeled trees with stable node identity
and path-rewrite transforms.

Trees built with arbor are immutable: every edit returns a new root which
structurally shares all untouched subtrees with its predecessor. Nodes carry
a process-unique serial number which survives edits, so two tree versions
can be diffed by identity. References into an old tree version ("fingers")
are remapped into the new version through compact path transforms, possibly
with a residue for subtrees that no longer exist.

The package is intended as the core data structure for program
transformation systems: a program AST is an arbor tree, edits produce new
ASTs cheaply, and bookkeeping that points into the old AST keeps working.

Arbor does not know about concrete node kinds. Clients declare node
variants as Class descriptors which fix the ordered set of child slots and
an optional payload slot; everything else (traversal, editing, searching,
finger translation) is generic over that declaration.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package arbor

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'arbor'.
func tracer() tracing.Trace {
	return tracing.Select("arbor")
}

func assert(condition bool, msg string, msgargs ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("arbor: "+msg, msgargs...))
	}
}
