package html

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Parse builds a document from HTML source. It never fails: unmatched
// closing tags end the current level, unterminated tags become text.
func Parse(src string, opts ...Option) *Document {
	o := buildOptions(opts)
	doc := NewDocument(WithOptions(o))

	b := &builder{
		doc:    doc,
		src:    src,
		tokens: Tokenize(src),
		opts:   o,
		log:    o.Logger.Named("html-builder"),
	}
	b.run()

	// observer goes in last so that parsing produces no notifications
	doc.obs = o.Observer
	return doc
}

// ParseReader reads HTML from r, converting it to UTF-8 based on
// contentType and any <meta charset> declaration, then parses it.
func ParseReader(r io.Reader, contentType string, opts ...Option) (*Document, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}
	data, err := io.ReadAll(cr)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML: %w", err)
	}
	return Parse(string(data), opts...), nil
}

type builder struct {
	doc    *Document
	src    string
	tokens []Token
	opts   Options
	log    *zap.Logger
}

func (b *builder) run() {
	root := b.doc.Root()
	if len(b.tokens) == 0 {
		b.appendText(root, b.src)
		return
	}
	b.appendText(root, b.src[:b.tokens[0].Offset])
	b.build(root, 0)
}

// build consumes tokens from start into parent's children. It returns the
// index of the closing token that ended this level, or len(tokens) when
// the input ran out. The root level never unwinds.
func (b *builder) build(parent *Node, start int) int {
	atRoot := parent.kind == RootNode

	for i := start; i < len(b.tokens); i++ {
		tok := b.tokens[i]
		gap := b.gapAfter(i)

		switch tok.Kind {
		case TokenProcessingInstruction:
			n := b.doc.newNode(ProcessingInstructionNode, "?")
			n.raw = tok.Text
			n.selfClosing = true
			n.attrs.items = ParseAttributes(tok.Text)
			n.text = b.normalize(gap)
			parent.children.add(n)

		case TokenComment:
			if b.opts.IncludeComments {
				n := b.doc.newNode(CommentNode, "")
				n.raw = tok.Text
				parent.children.add(n)
			}
			// trailing text of a comment always lands one level up
			b.appendText(b.outer(parent), gap)

		case TokenClosing:
			if atRoot {
				b.log.Debug("Stray closing tag at top level", zap.String("tag", tok.Text), zap.Int("offset", tok.Offset))
				b.appendText(parent, gap)
				continue
			}
			parent.closeRaw = tok.Text
			b.appendText(b.outer(parent), gap)
			return i

		case TokenElement:
			typ := tok.Type()
			n := b.doc.newNode(ElementNode, typ)
			n.raw = tok.Text
			n.slash = isSelfClosingTag(tok.Text)
			n.selfClosing = n.slash || IsVoidElement(typ)
			n.attrs.items = ParseAttributes(tok.Text)
			if _, ok := rawTextElements[typ]; ok && !n.selfClosing {
				n.rawText = true
				n.text = gap
			} else {
				n.text = b.normalize(gap)
			}
			parent.children.add(n)

			if !n.selfClosing {
				i = b.build(n, i+1)
				if i >= len(b.tokens) {
					n.unclosed = true
					b.log.Debug("Element not closed before end of input", zap.String("tag", typ), zap.Int("offset", tok.Offset))
				}
			}
		}
	}
	return len(b.tokens)
}

// gapAfter returns the source text between token i and the next token
func (b *builder) gapAfter(i int) string {
	end := len(b.src)
	if i+1 < len(b.tokens) {
		end = b.tokens[i+1].Offset
	}
	return b.src[b.tokens[i].End():end]
}

// outer returns the node one level above parent's children
func (b *builder) outer(parent *Node) *Node {
	if p := parent.Parent(); p != nil {
		return p
	}
	return parent
}

func (b *builder) appendText(parent *Node, text string) {
	text = b.normalize(text)
	if text == "" {
		return
	}
	n := b.doc.newNode(TextNode, "")
	n.text = text
	parent.children.add(n)
}

func (b *builder) normalize(text string) string {
	if !b.opts.NormalizeWhitespace || text == "" {
		return text
	}
	return NormalizeWhitespace(text)
}

func isSelfClosingTag(text string) bool {
	return len(text) >= 2 && text[len(text)-2:] == "/>"
}
