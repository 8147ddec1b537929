package css

import "strings"

// ParseInline splits the value of a style attribute into declarations.
// Pairs are separated by ';' and split at the first ':'; names and values
// are trimmed. Empty pairs are skipped, a pair without ':' becomes a
// name-only declaration.
func ParseInline(style string) []Declaration {
	var decls []Declaration
	for part := range strings.SplitSeq(style, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, ":")
		decls = append(decls, Declaration{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return decls
}

// FormatInline renders declarations as a style attribute value
func FormatInline(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		if d.Name == "" {
			continue
		}
		if d.Value == "" {
			parts = append(parts, d.Name)
			continue
		}
		parts = append(parts, d.Name+":"+d.Value)
	}
	return strings.Join(parts, ";")
}

// LookupInline returns the value of the first declaration called name
// (case-sensitive) in a style attribute value, "" when absent.
func LookupInline(style, name string) string {
	for _, d := range ParseInline(style) {
		if d.Name == name {
			return d.Value
		}
	}
	return ""
}
