package html

import (
	"fmt"
	"iter"
	"strings"

	"golang.org/x/net/html"
)

// NodeID is the index of a node in its document's arena
type NodeID int

// NoNode marks a missing parent
const NoNode NodeID = -1

// NodeKind distinguishes the node types a document can hold
type NodeKind int

const (
	RootNode NodeKind = iota
	ElementNode
	TextNode
	CommentNode
	ProcessingInstructionNode
)

func (k NodeKind) String() string {
	switch k {
	case RootNode:
		return "root"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcessingInstructionNode:
		return "processing-instruction"
	default:
		return "unknown"
	}
}

// voidElements never have children, regardless of how they are written
var voidElements = map[string]struct{}{
	"?":        {},
	"!doctype": {},
	"base":     {},
	"basefont": {},
	"bgsound":  {},
	"br":       {},
	"col":      {},
	"embed":    {},
	"frame":    {},
	"hr":       {},
	"img":      {},
	"input":    {},
	"link":     {},
	"meta":     {},
	"param":    {},
	"wbr":      {},
}

// IsVoidElement reports whether the lowercase element type is always self-closing
func IsVoidElement(typ string) bool {
	_, ok := voidElements[typ]
	return ok
}

// Node is an element, text, comment or processing instruction in a
// Document. Nodes are owned by their document's arena; the parent link
// is an arena index, children are owned by the node.
type Node struct {
	doc    *Document
	index  NodeID
	parent NodeID
	kind   NodeKind
	tag    string

	raw      string // opening markup as parsed, "" once attributes change
	closeRaw string // closing markup as parsed
	unclosed bool   // parsed element whose closing tag never appeared
	rawText  bool   // script/style content, exempt from whitespace normalization
	slash    bool   // written as <tag/>

	text        string
	selfClosing bool
	attrs       AttributeList
	children    ChildList
}

// Index returns the node's arena index
func (n *Node) Index() NodeID { return n.index }

// Document returns the owning document
func (n *Node) Document() *Document { return n.doc }

// Kind returns the node type
func (n *Node) Kind() NodeKind { return n.kind }

// Tag returns the lowercase element type, "" for text nodes
func (n *Node) Tag() string { return n.tag }

// ID returns the value of the id attribute
func (n *Node) ID() string { return n.attrs.Value("id") }

// Name returns the value of the name attribute
func (n *Node) Name() string { return n.attrs.Value("name") }

// Text returns the text owned directly by the node. For an element this
// is the text between its opening tag and its first child.
func (n *Node) Text() string { return n.text }

// SetText replaces the node's own text
func (n *Node) SetText(text string) { n.text = text }

// Raw returns the markup the node was parsed from. Comments always keep
// their markup; elements lose it once their attributes are modified.
func (n *Node) Raw() string { return n.raw }

// SelfClosing reports whether the node cannot hold children
func (n *Node) SelfClosing() bool { return n.selfClosing }

// Attributes returns the node's attribute collection
func (n *Node) Attributes() *AttributeList { return &n.attrs }

// Attr returns the value of the first attribute called name
func (n *Node) Attr(name string) string { return n.attrs.Value(name) }

// HasAttr reports whether an attribute called name exists
func (n *Node) HasAttr(name string) bool { return n.attrs.Has(name) }

// SetAttr assigns an attribute value, adding the attribute if needed
func (n *Node) SetAttr(name, value string) { n.attrs.Set(name, value) }

// RemoveAttr removes the first attribute called name
func (n *Node) RemoveAttr(name string) bool { return n.attrs.Remove(name) }

// ChildNodes returns the node's child collection
func (n *Node) ChildNodes() *ChildList { return &n.children }

// Children returns the node's children in order
func (n *Node) Children() []*Node { return n.children.Slice() }

// Parent returns the parent node, nil for the root and detached nodes
func (n *Node) Parent() *Node {
	if n.parent == NoNode {
		return nil
	}
	return n.doc.nodes[n.parent]
}

// IsAncestorOf reports whether other lies in the subtree below n
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == n {
			return true
		}
	}
	return false
}

// AppendChild adds child as the last child of n, detaching it from its
// current parent first.
func (n *Node) AppendChild(child *Node) error {
	return n.children.Insert(n.children.Len(), child)
}

// InsertBefore inserts child before ref, which must be a child of n. A
// nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		return n.AppendChild(child)
	}
	i := n.children.IndexOf(ref)
	if i < 0 {
		return fmt.Errorf("insert before %s: %w", ref.describe(), ErrNotChild)
	}
	return n.children.Insert(i, child)
}

// RemoveChild detaches child from n
func (n *Node) RemoveChild(child *Node) error {
	return n.children.Remove(child)
}

// Remove detaches the node and its subtree from the document tree. The
// detached subtree may be inserted again later.
func (n *Node) Remove() error {
	if n.kind == RootNode {
		return ErrRootNode
	}
	p := n.Parent()
	if p == nil {
		return nil
	}
	return p.children.Remove(n)
}

// Descendants iterates over the subtree below n depth-first in document order
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	for _, id := range n.children.ids {
		c := n.doc.nodes[id]
		if !yield(c) || !c.walk(yield) {
			return false
		}
	}
	return true
}

// InnerText returns the entity-decoded text of the node and its
// descendants, excluding comments and processing instructions.
func (n *Node) InnerText() string {
	var sb strings.Builder
	n.innerText(&sb)
	return html.UnescapeString(sb.String())
}

func (n *Node) innerText(sb *strings.Builder) {
	switch n.kind {
	case CommentNode, ProcessingInstructionNode:
		return
	}
	sb.WriteString(n.text)
	for _, c := range n.children.Slice() {
		c.innerText(sb)
	}
}

func (n *Node) observer() Observer {
	if n.doc == nil || n.doc.obs == nil {
		return NopObserver{}
	}
	return n.doc.obs
}

func (n *Node) describe() string {
	switch n.kind {
	case ElementNode:
		return fmt.Sprintf("<%s>#%d", n.tag, n.index)
	default:
		return fmt.Sprintf("%s#%d", n.kind, n.index)
	}
}

// ChildList is the ordered child collection of a node. It holds arena
// indexes; mutations through it notify the document observer.
type ChildList struct {
	owner *Node
	ids   []NodeID
}

// Len returns the number of children
func (l *ChildList) Len() int { return len(l.ids) }

// At returns the child at index i
func (l *ChildList) At(i int) *Node { return l.owner.doc.nodes[l.ids[i]] }

// All iterates over the children in order
func (l *ChildList) All() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		for i, id := range l.ids {
			if !yield(i, l.owner.doc.nodes[id]) {
				return
			}
		}
	}
}

// Slice returns the children as a new slice
func (l *ChildList) Slice() []*Node {
	if len(l.ids) == 0 {
		return nil
	}
	out := make([]*Node, len(l.ids))
	for i, id := range l.ids {
		out[i] = l.owner.doc.nodes[id]
	}
	return out
}

// IndexOf returns the position of n in the collection, or -1
func (l *ChildList) IndexOf(n *Node) int {
	if n == nil || n.doc != l.owner.doc {
		return -1
	}
	for i, id := range l.ids {
		if id == n.index {
			return i
		}
	}
	return -1
}

// Insert places child at position i, detaching it from its current parent
func (l *ChildList) Insert(i int, child *Node) error {
	owner := l.owner
	switch {
	case child == nil:
		return ErrNilNode
	case child.doc != owner.doc:
		return fmt.Errorf("insert %s: %w", child.describe(), ErrForeignNode)
	case child.kind == RootNode:
		return ErrRootNode
	case owner.selfClosing || owner.kind == TextNode || owner.kind == CommentNode || owner.kind == ProcessingInstructionNode:
		return fmt.Errorf("insert into %s: %w", owner.describe(), ErrSelfClosing)
	case child == owner || child.IsAncestorOf(owner):
		return fmt.Errorf("insert %s into %s: %w", child.describe(), owner.describe(), ErrCycle)
	}

	if p := child.Parent(); p != nil {
		j := p.children.IndexOf(child)
		if p == owner && j < i {
			i--
		}
		if err := p.children.Remove(child); err != nil {
			return err
		}
	}
	if i < 0 || i > len(l.ids) {
		i = len(l.ids)
	}
	l.ids = append(l.ids, NoNode)
	copy(l.ids[i+1:], l.ids[i:])
	l.ids[i] = child.index
	child.parent = owner.index
	owner.observer().CollectionChanged(owner, Change{Op: ChildAdded, Index: i, Child: child})
	return nil
}

// Append adds child at the end of the collection
func (l *ChildList) Append(child *Node) error {
	return l.Insert(len(l.ids), child)
}

// Remove detaches child from the collection
func (l *ChildList) Remove(child *Node) error {
	if child == nil {
		return ErrNilNode
	}
	i := l.IndexOf(child)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", child.describe(), ErrNotChild)
	}
	l.ids = append(l.ids[:i], l.ids[i+1:]...)
	child.parent = NoNode
	l.owner.observer().CollectionChanged(l.owner, Change{Op: ChildRemoved, Index: i, Child: child})
	return nil
}

// add appends without notification; used while building the tree
func (l *ChildList) add(child *Node) {
	l.ids = append(l.ids, child.index)
	child.parent = l.owner.index
}
