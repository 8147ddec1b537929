package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"markup/internal/html"
)

func node(t *testing.T, doc *html.Document, id string) *html.Node {
	t.Helper()
	n := doc.GetElementByID(id)
	require.NotNil(t, n, "element %q", id)
	return n
}

func TestGetStyle(t *testing.T) {
	doc := html.Parse(`<p id=p style="Color: blue; color: red; color: green">x</p>`)
	r := New(nil)
	p := node(t, doc, "p")

	assert.Equal(t, "red", r.GetStyle(p, "color"))
	assert.Equal(t, "", r.GetStyle(p, "COLOR"))
	assert.Equal(t, "", r.GetStyle(p, "margin"))
	assert.Equal(t, "", r.GetStyle(nil, "color"))
}

func TestGetActiveStyleEmChain(t *testing.T) {
	doc := html.Parse(`<div id=parent style="font-size: 10px">` +
		`<div id=node style="font-size: 2em">` +
		`<span id=grandchild style="padding: 1em">x</span>` +
		`</div></div>`)
	r := New(nil)

	assert.Equal(t, "10px", r.GetActiveStyle(node(t, doc, "parent"), "font-size", "16px"))
	assert.Equal(t, "20px", r.GetActiveStyle(node(t, doc, "node"), "font-size", "16px"))
	assert.Equal(t, "20px", r.GetActiveStyle(node(t, doc, "grandchild"), "padding", "16px"))
	assert.Equal(t, "20px", r.GetActiveStyle(node(t, doc, "grandchild"), "font-size", "16px"))
}

func TestGetActiveStyleUnits(t *testing.T) {
	doc := html.Parse(`<div style="font-size: 12px">` +
		`<p id=ch style="width: 4ch"></p>` +
		`<p id=ex style="width: 3ex"></p>` +
		`<p id=unitless style="line-height: 2.0"></p>` +
		`<p id=fraction style="line-height: 1.5"></p>` +
		`<p id=px style="width: 100px"></p>` +
		`<p id=percent style="width: 50%"></p>` +
		`<p id=keyword style="width: auto"></p>` +
		`</div>`)
	r := New(nil)

	tests := []struct {
		id, name, want string
	}{
		{"ch", "width", "24px"},
		{"ex", "width", "36px"},
		{"unitless", "line-height", "2"},
		{"fraction", "line-height", "1.5"},
		{"px", "width", "100px"},
		{"percent", "width", "50%"},
		{"keyword", "width", "fallback"},
		{"px", "height", "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.GetActiveStyle(node(t, doc, tt.id), tt.name, "fallback"))
		})
	}
}

func TestGetActiveStyleInherited(t *testing.T) {
	doc := html.Parse(`<div style="line-height: 3"><section><p id=p>x</p></section></div>`)
	r := New(nil)

	assert.Equal(t, "3", r.GetActiveStyle(node(t, doc, "p"), "line-height", ""))
	assert.Equal(t, "", r.GetActiveStyle(node(t, doc, "p"), "margin", ""))
	assert.Equal(t, "d", r.GetActiveStyle(nil, "margin", "d"))
	assert.Equal(t, "d", r.GetActiveStyle(doc.Root(), "margin", "d"))
}

func TestGetActiveStyleRem(t *testing.T) {
	doc := html.Parse(`<div id=a style="font-size: 8px; margin: 2px">` +
		`<p id=b style="margin: 2rem"><i id=c style="padding: 3rem">x</i></p>` +
		`</div>`)
	r := New(nil)

	// nearest ancestor declaring margin supplies the basis
	assert.Equal(t, "16px", r.GetActiveStyle(node(t, doc, "b"), "margin", "10px"))
	// nobody above declares padding, the default is the basis
	assert.Equal(t, "30px", r.GetActiveStyle(node(t, doc, "c"), "padding", "10px"))
	// no basis at all
	assert.Equal(t, "", r.GetActiveStyle(node(t, doc, "c"), "padding", ""))
}

func TestGetActiveStyleUnresolvedBasis(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := New(zap.New(core))

	doc := html.Parse(`<div style="font-size: large"><p id=p style="padding: 2em"></p></div>`)
	p := node(t, doc, "p")

	assert.Equal(t, "32px", r.GetActiveStyle(p, "padding", "16px"))
	assert.Equal(t, "", r.GetActiveStyle(p, "padding", ""))
	assert.Equal(t, "normal", r.GetActiveStyle(p, "padding", "normal"))
	assert.Equal(t, 2, logs.FilterMessage("Unable to resolve relative length").Len())
}

func TestResolveStyles(t *testing.T) {
	doc := html.Parse(`<div style="font-size: 10px; color: red"><p id=p style="padding: 1.5em; line-height: 2">x</p></div>`)
	r := New(nil)

	styles := r.ResolveStyles(node(t, doc, "p"), map[string]string{"color": "black"})
	assert.Equal(t, map[string]string{
		"font-size":   "10px",
		"padding":     "15px",
		"line-height": "2",
		"color":       "black",
	}, styles)
	assert.Equal(t, []string{"color", "font-size", "line-height", "padding"}, SortedNames(styles))
}
