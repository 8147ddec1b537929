package html

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	fragments := []string{
		"",
		"text only",
		"a < b",
		"<p>a</p>b<p>c</p>",
		`<!DOCTYPE html><html><head><title>T</title></head><body class="x"><p id=a>Hello <b>world</b>!</p><br><img src='a.png'/></body></html>`,
		`<?xml version="1.0"?><root><item a="1"/></root>`,
		"<ul>\n  <li>one</li>\n  <li>two</li>\n</ul>\n",
		"<div><!-- note --><span>x</span></div>",
		"<!-- top -->\n<p>a</p>",
		"<script>if (a < b && c > d) {}</script>",
		"<style>p > a { color: red }</style>",
		"<DIV Class=a>x</DIV>",
		"<div><p>x</div>",
		"<p>unclosed <b>tags",
		"<input type=text checked disabled=''>",
		"<a title=`1>2`>t</a >",
	}
	for _, src := range fragments {
		t.Run(src, func(t *testing.T) {
			assert.Equal(t, src, Parse(src).String())
		})
	}
}

func TestRenderTrailingLineFeed(t *testing.T) {
	doc := Parse("<p>x</p>", WithTrailingLineFeed(true))
	assert.Equal(t, "<p>x</p>\n", doc.String())

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "<p>x</p>\n", buf.String())
}

func TestRenderWithoutComments(t *testing.T) {
	doc := Parse("<div><!-- c --><span>x</span></div>")
	doc.IncludeComments = false
	assert.Equal(t, "<div><span>x</span></div>", doc.String())
}

func TestRenderModifiedAttributes(t *testing.T) {
	doc := Parse(`<a href='x' class=c>t</a><img src=a.png/>`)
	nodes := doc.Root().Children()

	nodes[0].SetAttr("href", "y")
	assert.Equal(t, "", nodes[0].Raw())
	assert.Equal(t, `<a href='y' class=c>t</a>`, nodes[0].OuterHTML())

	nodes[1].SetAttr("alt", "an image")
	assert.Equal(t, `<img src=a.png alt="an image" />`, nodes[1].OuterHTML())

	nodes[0].RemoveAttr("class")
	nodes[0].RemoveAttr("href")
	assert.Equal(t, `<a>t</a>`, nodes[0].OuterHTML())
}

func TestRenderCreatedNodes(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("DIV")
	div.SetAttr("id", "main")
	require.NoError(t, doc.Root().AppendChild(div))
	require.NoError(t, div.AppendChild(doc.CreateText("a")))
	require.NoError(t, div.AppendChild(doc.CreateElement("br")))
	require.NoError(t, div.AppendChild(doc.CreateComment(" c ")))

	assert.Equal(t, `<div id=main>a<br><!-- c --></div>`, doc.String())
	assert.Equal(t, `a<br><!-- c -->`, div.InnerHTML())
}

func TestInnerHTML(t *testing.T) {
	doc := Parse("<div>lead<p>x</p>tail</div>")
	div := doc.Root().Children()[0]
	assert.Equal(t, "lead<p>x</p>tail", div.InnerHTML())
	assert.Equal(t, "<div>", div.OpeningTag())
	assert.Equal(t, "</div>", div.ClosingTag())
	assert.Equal(t, "<div>lead<p>x</p>tail</div>", doc.Root().InnerHTML())
}
