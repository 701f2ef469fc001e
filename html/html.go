// Package html converts parsed HTML documents into arbor trees.
//
// The conversion keeps the element hierarchy and the text content and
// drops comments, doctypes and inter-element whitespace. Element nodes
// carry their tag as data and keep their children in a single child list,
// so paths into converted documents use bare integer steps. Text nodes
// carry their text and have no child slots.
package html

import (
	"io"
	"strings"

	"github.com/npillmayer/arbor"
	xhtml "golang.org/x/net/html"
)

// ElementClass is the node variant for HTML elements.
var ElementClass = arbor.MustClass("html.element",
	[]arbor.SlotDef{{Name: "children", Kind: arbor.ListSlot}},
	arbor.WithDataSlot("tag"))

// TextClass is the node variant for text content.
var TextClass = arbor.MustClass("html.text", nil,
	arbor.WithDataSlot("text"))

// FromHTML parses an HTML document and converts it into an arbor tree.
// The returned root is the document's <html> element.
func FromHTML(input io.Reader) (*arbor.Node, error) {
	doc, err := xhtml.Parse(input)
	if err != nil {
		return nil, err
	}
	root := elementOf(doc)
	if root == nil {
		return nil, arbor.ErrIllegalArguments
	}
	return FromNode(root)
}

// FromNode converts an element of a parsed HTML document into an arbor
// tree.
func FromNode(n *xhtml.Node) (*arbor.Node, error) {
	if n == nil || n.Type != xhtml.ElementNode {
		return nil, arbor.ErrIllegalArguments
	}
	return convert(n)
}

func convert(n *xhtml.Node) (*arbor.Node, error) {
	var kids []any
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.ElementNode:
			sub, err := convert(c)
			if err != nil {
				return nil, err
			}
			kids = append(kids, sub)
		case xhtml.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			text, err := arbor.NewNode(TextClass, map[string]any{"text": c.Data})
			if err != nil {
				return nil, err
			}
			kids = append(kids, text)
		}
	}
	return arbor.NewNode(ElementClass, map[string]any{
		"tag":      n.Data,
		"children": kids,
	})
}

// elementOf finds the first element node below a document node.
func elementOf(n *xhtml.Node) *xhtml.Node {
	if n == nil {
		return nil
	}
	if n.Type == xhtml.ElementNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := elementOf(c); el != nil {
			return el
		}
	}
	return nil
}
