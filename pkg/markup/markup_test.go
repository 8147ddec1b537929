package markup

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"markup/internal/config"
	"markup/internal/html"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestEngineRoundTrip(t *testing.T) {
	e := NewWithDefaults()
	src := "<!DOCTYPE html>\n<html><!-- c --><body class=x><p>a\n  b</p></body></html>"
	assert.Equal(t, src, e.ParseHTML(src).String())

	doc, err := e.ParseHTMLReader(strings.NewReader(src), "text/html; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, src, doc.String())
}

func TestEngineCompactProfile(t *testing.T) {
	cfg := config.Default()
	cfg.Parser = config.Profile(config.ProfileCompact)
	e := New(cfg, zaptest.NewLogger(t))

	doc := e.ParseHTML("<div>\n<!-- c -->\n<p>a\n\n  b</p></div>")
	assert.Equal(t, "<div><p>a b</p></div>\n", doc.String())
}

func TestEngineStylesheets(t *testing.T) {
	e := NewWithDefaults()
	doc := e.ParseHTML(`<style>.a, .b { color: red }</style><p>x</p><style> </style><style>p > i { margin: 0 }</style>`)

	sheet := e.Stylesheets(doc)
	require.Equal(t, 2, sheet.Len())
	assert.Equal(t, []string{".a", ".b"}, sheet.Entries[0].Selectors)
	assert.Equal(t, []string{"p > i"}, sheet.Entries[1].Selectors)

	assert.Equal(t, 1, e.ParseCSS("a{x:1}").Len())
}

func TestEngineActiveStyle(t *testing.T) {
	cfg := config.Default()
	cfg.Style.Defaults = map[string]string{"color": "black"}
	e := New(cfg, nil)

	doc := e.ParseHTML(`<div style="color: 3"><p id=p style="font-size: 2em; padding: 0.5em">x</p></div>`)
	p := doc.GetElementByID("p")

	assert.Equal(t, "2em", e.Style(p, "font-size"))
	assert.Equal(t, "32px", e.ActiveStyle(p, "font-size"))
	assert.Equal(t, "8px", e.ActiveStyle(p, "padding"))
	assert.Equal(t, "3", e.ActiveStyle(p, "color"))
	assert.Equal(t, "", e.ActiveStyle(p, "margin"))

	assert.Equal(t, map[string]string{
		"font-size": "32px",
		"padding":   "8px",
		"color":     "3",
	}, e.ActiveStyles(p))
}

func TestEngineSelect(t *testing.T) {
	e := NewWithDefaults()
	doc := e.ParseHTML(`<ul><li class=on>a</li><li>b</li><li class=on>c</li></ul>`)

	nodes, err := e.Select(doc, "li.on")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[0].Text())
	assert.Equal(t, "c", nodes[1].Text())

	_, err = e.Select(doc, "li[")
	assert.ErrorContains(t, err, "failed to select elements")
}

func TestEmbedImages(t *testing.T) {
	fsys := fstest.MapFS{
		"img/a.png": {Data: pngData},
		"img/b.svg": {Data: []byte("<svg></svg>")},
		"notes":     {Data: []byte("???")},
	}
	e := NewWithDefaults()
	doc := e.ParseHTML(`<p><img src="img/a.png?v=2" alt=a>` +
		`<img src='./img/b.svg'>` +
		`<img src="missing.png">` +
		`<img src="notes">` +
		`<img src="http://example.com/x.png">` +
		`<img src="data:image/png;base64,AA==">` +
		`<img></p>`)

	res, err := e.EmbedImages(doc, fsys)
	assert.Equal(t, EmbedResult{Embedded: 2, Skipped: 3, Failed: 2}, res)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "missing.png")
	assert.Contains(t, errs[1].Error(), "unable to detect media type")

	imgs := doc.GetElementsByTagName("img")
	assert.True(t, strings.HasPrefix(imgs[0].Attr("src"), "data:image/png;base64,"))
	assert.Equal(t, "a", imgs[0].Attr("alt"))
	assert.True(t, strings.HasPrefix(imgs[1].Attr("src"), "data:image/svg+xml;base64,"))
	assert.Equal(t, "missing.png", imgs[2].Attr("src"))
	assert.Contains(t, doc.String(), `<img src="missing.png">`)
}

func TestEmbedImagesLimits(t *testing.T) {
	fsys := fstest.MapFS{"a.png": {Data: pngData}}

	cfg := config.Default()
	cfg.Embed.MaxSize = 4
	cfg.Embed.SkipRemote = false
	e := New(cfg, nil)

	doc := e.ParseHTML(`<img src="a.png"><img src="//cdn/x.png"><img src="../../etc/passwd">`)
	res, err := e.EmbedImages(doc, fsys)
	assert.Equal(t, EmbedResult{Failed: 3}, res)
	errs := multierr.Errors(err)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "too large")
	assert.Contains(t, errs[1].Error(), "remote image")
	assert.Contains(t, errs[2].Error(), "unable to read image")
}

func TestEngineObserver(t *testing.T) {
	var names []string
	e := New(config.Default(), nil, WithObserver(html.ObserverFuncs{
		OnAttribute: func(_ *html.Node, name string) { names = append(names, name) },
	}))
	doc := e.ParseHTML(`<img src="a.png">`)
	assert.Empty(t, names)

	_, err := e.EmbedImages(doc, fstest.MapFS{"a.png": {Data: pngData}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src"}, names)
}

func TestStats(t *testing.T) {
	e := NewWithDefaults()
	doc := e.ParseHTML(`<?xml version="1.0"?><html><!-- c --><head><style>a{x:1} b{y:2}</style></head><body>t<p><b>x</b></p>tail</body></html>`)

	s := e.Stats(doc)
	assert.Equal(t, 6, s.Elements)
	assert.Equal(t, 1, s.Text)
	assert.Equal(t, 1, s.Comments)
	assert.Equal(t, 1, s.Instructions)
	assert.Equal(t, 4, s.MaxDepth)
	assert.Equal(t, 2, s.StyleEntries)
}
