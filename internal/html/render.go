package html

import (
	"io"
	"strings"
)

// String serializes the document
func (d *Document) String() string {
	var sb strings.Builder
	d.Root().render(&sb)
	if d.TrailingLineFeed {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the serialized document to w
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

// OuterHTML serializes the node including its own markup
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

// InnerHTML serializes the node's own text and its children
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	switch n.kind {
	case ElementNode, RootNode, ProcessingInstructionNode, TextNode:
		sb.WriteString(n.text)
	}
	for _, c := range n.children.Slice() {
		c.render(&sb)
	}
	return sb.String()
}

// OpeningTag returns the node's opening markup. Unmodified parsed
// elements return their source text; others are rebuilt from attributes.
func (n *Node) OpeningTag() string {
	if n.raw != "" || n.kind != ElementNode {
		return n.raw
	}
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.tag)
	if n.attrs.Len() > 0 {
		sb.WriteByte(' ')
		sb.WriteString(n.attrs.String())
	}
	if n.slash {
		sb.WriteString(" /")
	}
	sb.WriteByte('>')
	return sb.String()
}

// ClosingTag returns the markup closing the element, "" when there is none
func (n *Node) ClosingTag() string {
	switch {
	case n.kind != ElementNode, n.selfClosing, n.unclosed:
		return ""
	case n.closeRaw != "":
		return n.closeRaw
	default:
		return "</" + n.tag + ">"
	}
}

func (n *Node) render(sb *strings.Builder) {
	switch n.kind {
	case TextNode:
		sb.WriteString(n.text)
		return
	case CommentNode:
		if n.doc.IncludeComments {
			sb.WriteString(n.raw)
		}
		return
	case ProcessingInstructionNode:
		sb.WriteString(n.raw)
		sb.WriteString(n.text)
		return
	case ElementNode:
		sb.WriteString(n.OpeningTag())
		sb.WriteString(n.text)
	}
	for _, c := range n.children.Slice() {
		c.render(sb)
	}
	sb.WriteString(n.ClosingTag())
}
