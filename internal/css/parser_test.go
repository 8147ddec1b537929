package css

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Entry
	}{
		{
			name: "selector group",
			text: ".a, .b { color: red; margin:0 }",
			want: []Entry{{
				Selectors:    []string{".a", ".b"},
				Declarations: []Declaration{{"color", "red"}, {"margin", "0"}},
			}},
		},
		{
			name: "quoted semicolon",
			text: `q { content: "a;b"; quotes: '}' }`,
			want: []Entry{{
				Selectors:    []string{"q"},
				Declarations: []Declaration{{"content", `"a;b"`}, {"quotes", `'}'`}},
			}},
		},
		{
			name: "escaped quote",
			text: `q { content: "a\"b;c" }`,
			want: []Entry{{
				Selectors:    []string{"q"},
				Declarations: []Declaration{{"content", `"a\"b;c"`}},
			}},
		},
		{
			name: "quoted selector",
			text: `a[title="x, y"] { x: 1 }`,
			want: []Entry{{
				Selectors:    []string{`a[title="x, y"]`},
				Declarations: []Declaration{{"x", "1"}},
			}},
		},
		{
			name: "selector whitespace",
			text: "  div   p  ,\n\ta\n{x:1}",
			want: []Entry{{
				Selectors:    []string{"div p", "a"},
				Declarations: []Declaration{{"x", "1"}},
			}},
		},
		{
			name: "name only",
			text: "a { color } b {bold}",
			want: []Entry{
				{Selectors: []string{"a"}, Declarations: []Declaration{{Name: "color"}}},
				{Selectors: []string{"b"}, Declarations: []Declaration{{Name: "bold"}}},
			},
		},
		{
			name: "junk between name and colon",
			text: "a { color junk : red }",
			want: []Entry{{
				Selectors:    []string{"a"},
				Declarations: []Declaration{{"color", "red"}},
			}},
		},
		{
			name: "empty block",
			text: "a {}",
			want: []Entry{{Selectors: []string{"a"}}},
		},
		{
			name: "comments",
			text: "/* head */ a /* sel */ { /* x */ color: red /* y */; }",
			want: []Entry{{
				Selectors:    []string{"a"},
				Declarations: []Declaration{{"color", "red /* y */"}},
			}},
		},
		{
			name: "comment inside url",
			text: "a { background: url(/*x.png); color: red }",
			want: []Entry{{
				Selectors:    []string{"a"},
				Declarations: []Declaration{{"background", "url(/*x.png)"}, {"color", "red"}},
			}},
		},
		{
			name: "unterminated comment",
			text: "a {x:1} /* open",
			want: []Entry{{Selectors: []string{"a"}, Declarations: []Declaration{{"x", "1"}}}},
		},
		{
			name: "quote between name and colon",
			text: "a { b 'x}' : c } d { e: f }",
			want: []Entry{
				{Selectors: []string{"a"}, Declarations: []Declaration{{"b", "'x}' c"}}},
				{Selectors: []string{"d"}, Declarations: []Declaration{{"e", "f"}}},
			},
		},
		{
			name: "several entries",
			text: "h1{font-size:2em}\nh2 { font-size: 1.5em; font-weight: bold; }",
			want: []Entry{
				{Selectors: []string{"h1"}, Declarations: []Declaration{{"font-size", "2em"}}},
				{Selectors: []string{"h2"}, Declarations: []Declaration{{"font-size", "1.5em"}, {"font-weight", "bold"}}},
			},
		},
		{
			name: "dangling declaration dropped",
			text: "a {x:1} b { color: red",
			want: []Entry{{Selectors: []string{"a"}, Declarations: []Declaration{{"x", "1"}}}},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	p := NewParser(zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text)
			if diff := cmp.Diff(tt.want, got.Entries); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestParseLogsDroppedFragment(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewParser(zap.New(core))

	p.Parse("a { color: red }")
	assert.Zero(t, logs.Len())

	p.Parse("a { color: red")
	entries := logs.FilterMessage("Dropping unterminated CSS fragment").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "attribute-value", entries[0].ContextMap()["state"])
}

func TestStylesheet(t *testing.T) {
	sheet := NewParser(nil).Parse(".a, .b { color: red; margin:0 } p { font-weight: bold !important }")
	require.Equal(t, 2, sheet.Len())

	assert.Equal(t, ".a, .b { color: red; margin: 0 }\np { font-weight: bold !important }", sheet.String())

	found := sheet.Find(".b")
	require.Len(t, found, 1)
	d, ok := found[0].Get("margin")
	require.True(t, ok)
	assert.Equal(t, "0", d.Value)
	_, ok = found[0].Get("Margin")
	assert.False(t, ok)
	assert.Empty(t, sheet.Find(".c"))

	weight, _ := sheet.Entries[1].Get("font-weight")
	assert.True(t, weight.Important())
	color, _ := sheet.Entries[0].Get("color")
	assert.False(t, color.Important())

	sheet.Append(NewParser(nil).Parse("i {x:1}"))
	sheet.Append(nil)
	assert.Equal(t, 3, sheet.Len())
}
