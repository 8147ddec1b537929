package html

import "go.uber.org/zap"

// Options control parsing and serialization of a document
type Options struct {
	// IncludeComments keeps comment nodes in the tree and in the output
	IncludeComments bool

	// NormalizeWhitespace collapses whitespace in non-comment text
	NormalizeWhitespace bool

	// TrailingLineFeed appends a line feed when serializing the document
	TrailingLineFeed bool

	// Observer receives mutation notifications after parsing
	Observer Observer

	// Logger receives debug output about degraded input
	Logger *zap.Logger
}

// DefaultOptions keeps comments and leaves text untouched, which makes
// serialization reproduce well-formed input exactly.
func DefaultOptions() Options {
	return Options{IncludeComments: true}
}

// Option modifies Options
type Option func(*Options)

// WithComments sets whether comments are kept
func WithComments(include bool) Option {
	return func(o *Options) { o.IncludeComments = include }
}

// WithWhitespaceNormalization sets whether text whitespace is collapsed
func WithWhitespaceNormalization(normalize bool) Option {
	return func(o *Options) { o.NormalizeWhitespace = normalize }
}

// WithTrailingLineFeed sets whether serialization ends with a line feed
func WithTrailingLineFeed(lf bool) Option {
	return func(o *Options) { o.TrailingLineFeed = lf }
}

// WithObserver installs a mutation observer
func WithObserver(obs Observer) Option {
	return func(o *Options) { o.Observer = obs }
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) { o.Logger = log }
}

// WithOptions replaces all options at once
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, set := range opts {
		set(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
