package resolver

import (
	"sort"

	"go.uber.org/zap"

	"markup/internal/css"
	"markup/internal/html"
)

// FontSize is the property font-relative units are resolved against
const FontSize = "font-size"

// unitScale maps font-relative units to their factor against the basis
var unitScale = map[string]float64{
	"ch":  0.5,
	"em":  1.0,
	"ex":  1.0,
	"rem": 1.0,
}

// Resolver computes approximate style values for tree nodes by walking
// their ancestor chain. It does not implement the CSS cascade: only
// inline style attributes are consulted.
type Resolver struct {
	log *zap.Logger
}

// New creates a new style resolver
func New(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log.Named("style-resolver")}
}

// GetStyle returns the value the node's own style attribute gives to
// name, "" when the property is not declared there.
func (r *Resolver) GetStyle(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	return n.Style(name)
}

// GetActiveStyle returns the effective value of property name for n.
//
// A local value that is a number with a font-relative unit (ch, em, ex,
// rem) is multiplied with the font size resolved from the ancestors and
// returned in the basis unit. A unitless number is returned bare, any
// other length verbatim. Missing or non-numeric values are looked up on
// the parent; def is returned once the chain is exhausted.
func (r *Resolver) GetActiveStyle(n *html.Node, name, def string) string {
	if n == nil || n.Kind() == html.RootNode {
		return def
	}

	local := n.Style(name)
	if l, ok := css.ParseLength(local); ok {
		switch {
		case css.IsFontRelative(l.Unit):
			return r.relative(n, name, l, def)
		case l.Unit == "":
			return css.FormatNumber(l.Value)
		default:
			return local
		}
	}

	return r.GetActiveStyle(n.Parent(), name, def)
}

// relative resolves a font-relative length declared on n
func (r *Resolver) relative(n *html.Node, name string, l css.Length, def string) string {
	var basis string
	if l.Unit == "rem" {
		// rem is measured against the nearest ancestor that declares the
		// same property, falling back to the default when there is none
		basis = def
		if a := declaringAncestor(n, name); a != nil {
			basis = r.GetActiveStyle(a, FontSize, def)
		}
	} else {
		basis = r.GetActiveStyle(n.Parent(), FontSize, def)
	}

	b, ok := css.ParseLength(basis)
	if !ok || css.IsFontRelative(b.Unit) {
		r.log.Debug("Unable to resolve relative length",
			zap.String("property", name),
			zap.String("value", l.String()),
			zap.String("basis", basis))
		return def
	}
	return css.FormatNumber(l.Value*b.Value*unitScale[l.Unit]) + b.Unit
}

func declaringAncestor(n *html.Node, name string) *html.Node {
	for p := n.Parent(); p != nil && p.Kind() != html.RootNode; p = p.Parent() {
		if p.Style(name) != "" {
			return p
		}
	}
	return nil
}

// ResolveStyles returns the active value of every property declared on n
// or one of its ancestors. defaults supplies per-property fallbacks.
func (r *Resolver) ResolveStyles(n *html.Node, defaults map[string]string) map[string]string {
	names := make(map[string]struct{})
	for p := n; p != nil && p.Kind() != html.RootNode; p = p.Parent() {
		for _, d := range p.Styles() {
			if d.Name != "" {
				names[d.Name] = struct{}{}
			}
		}
	}

	out := make(map[string]string, len(names))
	for name := range names {
		if v := r.GetActiveStyle(n, name, defaults[name]); v != "" {
			out[name] = v
		}
	}
	return out
}

// SortedNames returns the keys of a resolved style map in lexical order
func SortedNames(styles map[string]string) []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
