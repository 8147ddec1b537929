package html

import (
	"markup/internal/css"
)

const styleAttr = "style"

// Style returns the value of the inline style property called name, ""
// when the node does not declare it. Property names match case-sensitively.
func (n *Node) Style(name string) string {
	return css.LookupInline(n.attrs.Value(styleAttr), name)
}

// Styles returns the inline style declarations in attribute order
func (n *Node) Styles() []css.Declaration {
	return css.ParseInline(n.attrs.Value(styleAttr))
}

// SetStyle sets an inline style property, replacing its first declaration
// or appending a new one. The style attribute is created when missing.
func (n *Node) SetStyle(name, value string) {
	decls := n.Styles()
	found := false
	for i := range decls {
		if decls[i].Name == name {
			decls[i].Value = value
			found = true
			break
		}
	}
	if !found {
		decls = append(decls, css.NewDeclaration(name, value))
	}
	n.attrs.Set(styleAttr, css.FormatInline(decls))
}

// RemoveStyle removes every declaration of the inline style property
// called name. The style attribute is dropped once it becomes empty.
func (n *Node) RemoveStyle(name string) bool {
	decls := n.Styles()
	kept := decls[:0]
	for _, d := range decls {
		if d.Name != name {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(decls) {
		return false
	}
	if len(kept) == 0 {
		n.attrs.Remove(styleAttr)
		return true
	}
	n.attrs.Set(styleAttr, css.FormatInline(kept))
	return true
}
