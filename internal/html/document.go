package html

import (
	"iter"
	"strings"

	"go.uber.org/zap"
)

// Document owns the node arena and the root of the tree. Node 0 is the
// root; it has no markup of its own and holds the top-level nodes.
type Document struct {
	// IncludeComments controls whether comment nodes are serialized
	IncludeComments bool

	// TrailingLineFeed appends "\n" to the serialized document
	TrailingLineFeed bool

	nodes []*Node
	obs   Observer
	log   *zap.Logger
}

// NewDocument creates an empty document
func NewDocument(opts ...Option) *Document {
	o := buildOptions(opts)
	d := &Document{
		IncludeComments:  o.IncludeComments,
		TrailingLineFeed: o.TrailingLineFeed,
		log:              o.Logger,
	}
	d.newNode(RootNode, "")
	return d
}

// Root returns the root node
func (d *Document) Root() *Node {
	return d.nodes[0]
}

// Node returns the node stored at id, nil if id is out of range
func (d *Document) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Len returns the number of nodes ever allocated, attached or not
func (d *Document) Len() int {
	return len(d.nodes)
}

// Observer returns the installed mutation observer
func (d *Document) Observer() Observer {
	return d.obs
}

// SetObserver installs obs as the mutation observer, nil disables notifications
func (d *Document) SetObserver(obs Observer) {
	d.obs = obs
}

// CreateElement allocates a detached element of the given type
func (d *Document) CreateElement(tag string) *Node {
	tag = strings.ToLower(tag)
	n := d.newNode(ElementNode, tag)
	n.selfClosing = IsVoidElement(tag)
	return n
}

// CreateText allocates a detached text node
func (d *Document) CreateText(text string) *Node {
	n := d.newNode(TextNode, "")
	n.text = text
	return n
}

// CreateComment allocates a detached comment holding text
func (d *Document) CreateComment(text string) *Node {
	n := d.newNode(CommentNode, "")
	n.raw = "<!--" + text + "-->"
	return n
}

func (d *Document) newNode(kind NodeKind, tag string) *Node {
	n := &Node{
		doc:    d,
		index:  NodeID(len(d.nodes)),
		parent: NoNode,
		kind:   kind,
		tag:    tag,
	}
	n.attrs.owner = n
	n.children.owner = n
	d.nodes = append(d.nodes, n)
	return n
}

// Nodes iterates depth-first over every node attached to the tree
func (d *Document) Nodes() iter.Seq[*Node] {
	return d.Root().Descendants()
}

// Walk visits attached nodes depth-first until fn returns false
func (d *Document) Walk(fn func(*Node) bool) {
	for n := range d.Nodes() {
		if !fn(n) {
			return
		}
	}
}

// GetElementByID returns the first element whose id attribute equals id
func (d *Document) GetElementByID(id string) *Node {
	for n := range d.Nodes() {
		if n.kind == ElementNode && n.ID() == id {
			return n
		}
	}
	return nil
}

// GetElementsByTagName returns all elements of the given type, "*" matches any
func (d *Document) GetElementsByTagName(tag string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	for n := range d.Nodes() {
		if n.kind == ElementNode && (tag == "*" || n.tag == tag) {
			out = append(out, n)
		}
	}
	return out
}

// GetElementsByName returns all elements whose name attribute equals name
func (d *Document) GetElementsByName(name string) []*Node {
	var out []*Node
	for n := range d.Nodes() {
		if n.kind == ElementNode && n.HasAttr("name") && n.Name() == name {
			out = append(out, n)
		}
	}
	return out
}
