// Package view renders product listings as HTML. Markup is built as a tree of
// typed nodes and serialized in one place, so every attribute and text value
// is escaped and fragments can be asserted on in tests without a document.
package view

import (
	"html"
	"strings"
)

// voidElements have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Attr is a single HTML attribute. Attributes render in insertion order.
type Attr struct {
	Key string
	Val string
}

// Node is one element or text node in a fragment tree.
type Node struct {
	Tag      string // empty for text nodes
	Attrs    []Attr
	Children []Node
	Text     string // text nodes only
}

// El creates an element node with the given children.
func El(tag string, children ...Node) Node {
	return Node{Tag: tag, Children: children}
}

// Text creates a text node. The value is escaped on render.
func Text(s string) Node {
	return Node{Text: s}
}

// Attr returns a copy of the node with the attribute appended.
func (n Node) Attr(key, val string) Node {
	attrs := make([]Attr, len(n.Attrs), len(n.Attrs)+1)
	copy(attrs, n.Attrs)
	n.Attrs = append(attrs, Attr{Key: key, Val: val})
	return n
}

// HTML serializes the node tree to an HTML string.
func (n Node) HTML() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	if n.Tag == "" {
		b.WriteString(html.EscapeString(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if voidElements[n.Tag] {
		return
	}

	for _, c := range n.Children {
		c.write(b)
	}

	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}
