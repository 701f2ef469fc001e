package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/arbor"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

// ConsoleTree is a formatter for fixed width consoles. Node lines are
// colored by variant name and truncated to the console width, which is
// auto-detected for terminals.
type ConsoleTree struct {
	// Width is the maximum line width. NewConsoleTree presets it to the
	// terminal width when stdout is a terminal; Print uses 80 columns when
	// it is zero or negative.
	Width int
	// Context is used for measuring label widths; when nil, the context
	// is derived from the environment.
	Context *uax11.Context

	colors map[string]*color.Color
	plain  *color.Color
}

// NewConsoleTree creates a formatter. colors maps variant (class) names to
// display colors and may cover any subset of the variants occurring in the
// formatted trees; unmapped variants use a default color.
func NewConsoleTree(colors map[string]*color.Color) *ConsoleTree {
	ct := &ConsoleTree{
		colors: colors,
		plain:  color.New(color.FgBlue),
	}
	if ct.colors == nil {
		ct.colors = map[string]*color.Color{}
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			ct.Width = w
		}
	}
	return ct
}

// Print writes an indented outline of the tree rooted at root.
func (ct *ConsoleTree) Print(w io.Writer, root *arbor.Node) error {
	width := ct.Width
	if width <= 0 {
		width = 80
	}
	context := ct.Context
	if context == nil {
		context = uax11.ContextFromEnvironment()
	}
	var err error
	arbor.WalkPaths(root, func(v any, rpath *arbor.RPath) bool {
		if err != nil {
			return false
		}
		depth := len(rpath.Path())
		indent := strings.Repeat("  ", depth)
		n, ok := v.(*arbor.Node)
		if !ok {
			_, err = fmt.Fprintf(w, "%s· %v\n", indent, v)
			return false
		}
		label := fmt.Sprintf("%s %s", n.Class().Name(), n.Serial())
		if data := n.Data(); data != any(n) {
			label = fmt.Sprintf("%s %q", label, fmt.Sprint(data))
		}
		label = ct.clip(indent+label, width, context)
		c, found := ct.colors[n.Class().Name()]
		if !found {
			c = ct.plain
		}
		if _, err = c.Fprint(w, label); err != nil {
			return false
		}
		_, err = io.WriteString(w, "\n")
		return err == nil
	})
	return err
}

// clip truncates a line to the console width, measured in terminal cells.
func (ct *ConsoleTree) clip(line string, width int, context *uax11.Context) string {
	gstr := grapheme.StringFromString(line)
	if uax11.StringWidth(gstr, context) <= width {
		return line
	}
	var sb strings.Builder
	used := 0
	for i := 0; i < gstr.Len(); i++ {
		g := gstr.Nth(i)
		w := uax11.StringWidth(grapheme.StringFromString(g), context)
		if used+w+1 > width {
			break
		}
		sb.WriteString(g)
		used += w
	}
	sb.WriteString("…")
	return sb.String()
}
