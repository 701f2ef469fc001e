package arbor

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/arbor/path"
)

type nodeids struct {
	idTable map[*Node]int
	max     int
}

func newtable() nodeids {
	return nodeids{
		idTable: make(map[*Node]int),
		max:     1,
	}
}

func (ids nodeids) find(node *Node) int {
	return ids.idTable[node]
}

func (ids *nodeids) alloc(node *Node) int {
	if id := ids.find(node); id > 0 {
		return id
	}
	ids.idTable[node] = ids.max
	ids.max++
	return ids.max - 1
}

// Tree2Dot outputs the structure of a tree in Graphviz DOT format
// (for debugging purposes). Edges are labeled with the path step leading
// to the child.
func Tree2Dot(root *Node, w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12,shape=box];\n")
	ids := newtable()
	var nodelist, edgelist strings.Builder
	leafmax := 0
	var dump func(v any, parent int, step path.Element)
	dump = func(v any, parent int, step path.Element) {
		n, ok := v.(*Node)
		if !ok {
			leafmax++
			leafid := 10000 + leafmax
			fmt.Fprintf(&nodelist, "\"%d\" [label=\"%v\",style=dotted];\n", leafid, v)
			if parent > 0 {
				fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\" [label=\"%s\"];\n", parent, leafid, step)
			}
			return
		}
		id := ids.alloc(n)
		label := fmt.Sprintf("%s\\n%s", n.class.name, n.serial)
		if n.class.dataSlot != "" {
			label = fmt.Sprintf("%s\\n%v", label, n.data)
		}
		fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\"];\n", id, label)
		if parent > 0 {
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\" [label=\"%s\"];\n", parent, id, step)
		}
		n.eachChild(func(st path.Element, child any) bool {
			dump(child, id, st)
			return true
		})
	}
	dump(root, 0, nil)
	io.WriteString(w, nodelist.String())
	io.WriteString(w, edgelist.String())
	io.WriteString(w, "}\n")
}
