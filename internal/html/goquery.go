package html

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selection is the result of running a CSS selector against a document.
// It wraps a goquery selection over a mirror of the tree and maps matches
// back to the document's own nodes.
type Selection struct {
	sel   *goquery.Selection
	nodes map[*html.Node]*Node
}

// Len returns the number of matched nodes
func (s *Selection) Len() int {
	return len(s.Nodes())
}

// Nodes returns the matched nodes in document order
func (s *Selection) Nodes() []*Node {
	if s == nil || s.sel == nil {
		return nil
	}
	out := make([]*Node, 0, s.sel.Length())
	s.sel.Each(func(_ int, gs *goquery.Selection) {
		if n, ok := s.nodes[gs.Get(0)]; ok {
			out = append(out, n)
		}
	})
	return out
}

// First returns the first matched node, nil when nothing matched
func (s *Selection) First() *Node {
	if nodes := s.Nodes(); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Query runs selector against the attached nodes of the document
func (d *Document) Query(selector string) (*Selection, error) {
	sel, err := compileSelector(selector)
	if err != nil {
		return nil, err
	}
	root, nodes := d.mirror()
	return &Selection{
		sel:   goquery.NewDocumentFromNode(root).FindMatcher(sel),
		nodes: nodes,
	}, nil
}

// Select returns the elements matching selector in document order
func (d *Document) Select(selector string) ([]*Node, error) {
	s, err := d.Query(selector)
	if err != nil {
		return nil, err
	}
	return s.Nodes(), nil
}

// SelectFirst returns the first element matching selector, nil if none
func (d *Document) SelectFirst(selector string) (*Node, error) {
	s, err := d.Query(selector)
	if err != nil {
		return nil, err
	}
	return s.First(), nil
}

// Matches reports whether the element matches selector. Detached nodes are
// matched within their own subtree.
func (n *Node) Matches(selector string) (bool, error) {
	sel, err := compileSelector(selector)
	if err != nil {
		return false, err
	}
	if n.kind != ElementNode {
		return false, nil
	}
	top := n
	for p := n.Parent(); p != nil; p = p.Parent() {
		top = p
	}
	root, nodes := n.doc.mirrorFrom(top)
	gq := goquery.NewDocumentFromNode(root)
	for hn, node := range nodes {
		if node == n {
			return gq.FindNodes(hn).IsMatcher(sel), nil
		}
	}
	return false, nil
}

// Classes returns the whitespace separated entries of the class attribute
func (n *Node) Classes() []string {
	return strings.Fields(n.attrs.Value("class"))
}

func compileSelector(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to compile selector %q: %w", selector, err)
	}
	return sel, nil
}

func (d *Document) mirror() (*html.Node, map[*html.Node]*Node) {
	return d.mirrorFrom(d.Root())
}

// mirrorFrom converts the subtree at top into x/net/html nodes. An
// element's own text becomes its first text child so that :contains and
// :empty style selectors see it.
func (d *Document) mirrorFrom(top *Node) (*html.Node, map[*html.Node]*Node) {
	nodes := make(map[*html.Node]*Node)
	root := &html.Node{Type: html.DocumentNode}
	if top.kind == RootNode {
		nodes[root] = top
		for _, c := range top.children.Slice() {
			mirrorNode(root, c, nodes)
		}
		return root, nodes
	}
	mirrorNode(root, top, nodes)
	return root, nodes
}

func mirrorNode(parent *html.Node, n *Node, nodes map[*html.Node]*Node) {
	var hn *html.Node
	switch n.kind {
	case TextNode:
		hn = &html.Node{Type: html.TextNode, Data: n.text}
	case CommentNode:
		hn = &html.Node{Type: html.CommentNode, Data: n.raw}
	case ProcessingInstructionNode:
		return
	case ElementNode:
		if n.tag == "!doctype" {
			hn = &html.Node{Type: html.DoctypeNode, Data: "html"}
			break
		}
		hn = &html.Node{Type: html.ElementNode, Data: n.tag}
		for _, a := range n.attrs.items {
			hn.Attr = append(hn.Attr, html.Attribute{Key: strings.ToLower(a.Name), Val: a.Value})
		}
		if n.text != "" {
			hn.AppendChild(&html.Node{Type: html.TextNode, Data: n.text})
		}
	default:
		return
	}
	nodes[hn] = n
	parent.AppendChild(hn)
	for _, c := range n.children.Slice() {
		mirrorNode(hn, c, nodes)
	}
}
