// Package markup ties the HTML tree, CSS parser and style resolver
// together behind a single engine configured from config.Config.
package markup

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"markup/internal/config"
	"markup/internal/css"
	"markup/internal/html"
	"markup/internal/media"
	"markup/internal/resolver"
)

// Engine parses documents and stylesheets and answers style queries
type Engine struct {
	cfg      config.Config
	log      *zap.Logger
	css      *css.Parser
	resolver *resolver.Resolver
	lookup   media.Lookup
	encoder  media.Encoder
	observer html.Observer
}

// Option customizes an Engine
type Option func(*Engine)

// WithLookup replaces the media type lookup used when embedding
func WithLookup(l media.Lookup) Option {
	return func(e *Engine) { e.lookup = l }
}

// WithEncoder replaces the data URL encoder used when embedding
func WithEncoder(enc media.Encoder) Option {
	return func(e *Engine) { e.encoder = enc }
}

// WithObserver installs a mutation observer on every parsed document
func WithObserver(obs html.Observer) Option {
	return func(e *Engine) { e.observer = obs }
}

// New creates a new engine with the given configuration
func New(cfg config.Config, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		cfg:      cfg,
		log:      log,
		css:      css.NewParser(log),
		resolver: resolver.New(log),
		lookup:   media.NewTable(),
		encoder:  media.Base64Encoder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewWithDefaults creates a new engine with the default configuration and
// no logging
func NewWithDefaults() *Engine {
	return New(config.Default(), nil)
}

// Config returns the engine configuration
func (e *Engine) Config() config.Config {
	return e.cfg
}

func (e *Engine) htmlOptions() []html.Option {
	opts := append(e.cfg.Parser.Options(), html.WithLogger(e.log))
	if e.observer != nil {
		opts = append(opts, html.WithObserver(e.observer))
	}
	return opts
}

// ParseHTML parses HTML text using the configured parser settings
func (e *Engine) ParseHTML(src string) *html.Document {
	return html.Parse(src, e.htmlOptions()...)
}

// ParseHTMLReader reads and parses HTML, decoding its charset
func (e *Engine) ParseHTMLReader(r io.Reader, contentType string) (*html.Document, error) {
	doc, err := html.ParseReader(r, contentType, e.htmlOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseCSS parses style text into a stylesheet
func (e *Engine) ParseCSS(text string) *css.Stylesheet {
	return e.css.Parse(text)
}

// Stylesheets parses the content of every <style> element of doc and
// returns the entries in document order
func (e *Engine) Stylesheets(doc *html.Document) *css.Stylesheet {
	sheet := &css.Stylesheet{}
	for _, n := range doc.GetElementsByTagName("style") {
		text := n.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		sheet.Append(e.css.Parse(text))
	}
	return sheet
}

// Style returns the value the node's own style attribute gives to name
func (e *Engine) Style(n *html.Node, name string) string {
	return e.resolver.GetStyle(n, name)
}

// ActiveStyle resolves the effective value of property name for n using
// the configured fallbacks
func (e *Engine) ActiveStyle(n *html.Node, name string) string {
	return e.resolver.GetActiveStyle(n, name, e.cfg.Style.DefaultFor(name))
}

// ActiveStyles resolves every property declared on n or its ancestors
func (e *Engine) ActiveStyles(n *html.Node) map[string]string {
	defaults := make(map[string]string, len(e.cfg.Style.Defaults)+1)
	for k, v := range e.cfg.Style.Defaults {
		defaults[k] = v
	}
	if _, ok := defaults[resolver.FontSize]; !ok {
		defaults[resolver.FontSize] = e.cfg.Style.DefaultFontSize
	}
	return e.resolver.ResolveStyles(n, defaults)
}

// Select returns the elements of doc matching a CSS selector
func (e *Engine) Select(doc *html.Document, selector string) ([]*html.Node, error) {
	nodes, err := doc.Select(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to select elements: %w", err)
	}
	return nodes, nil
}

// EmbedResult describes the outcome of EmbedImages
type EmbedResult struct {
	Embedded int // images replaced by data URLs
	Skipped  int // data URLs, remote or empty sources left alone
	Failed   int // images that could not be embedded
}

// EmbedImages replaces the src of every <img> that refers to a file in
// fsys with a data URL. Images that cannot be embedded are left
// unchanged; their errors are combined in the returned error. Remote
// sources are skipped when configured so, and fail otherwise.
func (e *Engine) EmbedImages(doc *html.Document, fsys fs.FS) (EmbedResult, error) {
	var (
		res  EmbedResult
		errs error
	)
	for _, n := range doc.GetElementsByTagName("img") {
		src := strings.TrimSpace(n.Attr("src"))
		if src == "" || media.IsDataURL(src) || (isRemote(src) && e.cfg.Embed.SkipRemote) {
			res.Skipped++
			continue
		}
		if err := e.embed(n, fsys, src); err != nil {
			res.Failed++
			errs = multierr.Append(errs, err)
			e.log.Debug("Unable to embed image", zap.String("src", src), zap.Error(err))
			continue
		}
		res.Embedded++
	}
	return res, errs
}

func (e *Engine) embed(n *html.Node, fsys fs.FS, src string) error {
	if isRemote(src) {
		return fmt.Errorf("remote image %q cannot be embedded", src)
	}
	name := resourcePath(src)
	if !fs.ValidPath(name) {
		return fmt.Errorf("invalid image path %q", src)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("unable to read image %q: %w", src, err)
	}
	if limit := e.cfg.Embed.MaxSize; limit > 0 && int64(len(data)) > limit {
		return fmt.Errorf("image %q is too large (%d > %d bytes)", src, len(data), limit)
	}
	mediaType := media.Detect(e.lookup, name, data)
	if mediaType == "" {
		return fmt.Errorf("unable to detect media type of %q", src)
	}
	n.SetAttr("src", e.encoder.Encode(data, mediaType))
	return nil
}

// resourcePath turns a relative URL into an fs.FS path, dropping query
// and fragment
func resourcePath(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return strings.TrimPrefix(path.Clean("/"+src), "/")
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "//") || strings.Contains(src, "://")
}

// Stats summarizes a parsed document
type Stats struct {
	Elements     int
	Text         int
	Comments     int
	Instructions int
	MaxDepth     int
	StyleEntries int
	Elapsed      time.Duration
}

// Stats counts the attached nodes of doc by kind and the entries of its
// embedded stylesheets
func (e *Engine) Stats(doc *html.Document) Stats {
	start := time.Now()
	var s Stats
	for n := range doc.Nodes() {
		switch n.Kind() {
		case html.ElementNode:
			s.Elements++
		case html.TextNode:
			s.Text++
		case html.CommentNode:
			s.Comments++
		case html.ProcessingInstructionNode:
			s.Instructions++
		}
		if d := depth(n); d > s.MaxDepth {
			s.MaxDepth = d
		}
	}
	s.StyleEntries = e.Stylesheets(doc).Len()
	s.Elapsed = time.Since(start)
	return s
}

func depth(n *html.Node) int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}
