package css

import (
	"strings"
)

// Declaration is a single property declaration inside an entry
type Declaration struct {
	Name  string // property name as written
	Value string // trimmed value, "" for a name-only declaration
}

// NewDeclaration creates a declaration
func NewDeclaration(name, value string) Declaration {
	return Declaration{Name: name, Value: value}
}

// Important reports whether the value ends with "!important"
func (d Declaration) Important() bool {
	v := strings.TrimSpace(d.Value)
	i := strings.LastIndexByte(v, '!')
	if i < 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(v[i+1:]), "important")
}

// String renders the declaration as "name: value"
func (d Declaration) String() string {
	if d.Value == "" {
		return d.Name
	}
	return d.Name + ": " + d.Value
}

// Entry is one rule: a group of selectors sharing a declaration list
type Entry struct {
	Selectors    []string
	Declarations []Declaration
}

// Get returns the first declaration called name (case-sensitive)
func (e *Entry) Get(name string) (Declaration, bool) {
	for _, d := range e.Declarations {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

// HasSelector reports whether the entry lists selector
func (e *Entry) HasSelector(selector string) bool {
	for _, s := range e.Selectors {
		if s == selector {
			return true
		}
	}
	return false
}

// String renders the entry as CSS text
func (e *Entry) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(e.Selectors, ", "))
	sb.WriteString(" {")
	for i, d := range e.Declarations {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteByte(' ')
		sb.WriteString(d.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

// Stylesheet is the ordered list of entries of a parsed style text
type Stylesheet struct {
	Entries []Entry
}

// Len returns the number of entries
func (s *Stylesheet) Len() int {
	return len(s.Entries)
}

// Find returns the entries listing selector, in source order
func (s *Stylesheet) Find(selector string) []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if e.HasSelector(selector) {
			out = append(out, e)
		}
	}
	return out
}

// Append adds the entries of other after those of s
func (s *Stylesheet) Append(other *Stylesheet) {
	if other == nil {
		return
	}
	s.Entries = append(s.Entries, other.Entries...)
}

// String renders the stylesheet, one entry per line
func (s *Stylesheet) String() string {
	lines := make([]string, len(s.Entries))
	for i := range s.Entries {
		lines[i] = s.Entries[i].String()
	}
	return strings.Join(lines, "\n")
}
