/*
Package format renders arbor trees for human inspection.

The console formatter writes an indented, optionally colored outline of a
tree, one value per line. It is meant for debugging transformation
pipelines, not for machine consumption; use the DOT output of the arbor
package for structural graphs.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package format

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'arbor.format'.
func tracer() tracing.Trace {
	return tracing.Select("arbor.format")
}
