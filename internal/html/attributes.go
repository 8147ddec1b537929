package html

import (
	"iter"
	"strings"
)

// Attribute is a single name/value pair from an opening tag
type Attribute struct {
	Name     string
	Value    string // raw value as written, entities are not decoded
	Presence bool   // written without a value, e.g. "checked"
	Quote    byte   // quote character used in the source, 0 when unquoted
}

// NewAttribute creates a valued attribute
func NewAttribute(name, value string) Attribute {
	return Attribute{Name: name, Value: value}
}

// NewPresenceAttribute creates an attribute that has no value
func NewPresenceAttribute(name string) Attribute {
	return Attribute{Name: name, Presence: true}
}

// String renders the attribute the way it appears inside a tag
func (a Attribute) String() string {
	if a.Presence {
		if a.Quote != 0 {
			return string(a.Quote) + a.Name + string(a.Quote)
		}
		return a.Name
	}
	q, v := a.Quote, a.Value
	switch {
	case q == 0 && needsQuotes(v), q != 0 && strings.IndexByte(v, q) >= 0:
		q = '"'
		if strings.IndexByte(v, '"') >= 0 {
			q = '\''
			if strings.IndexByte(v, '\'') >= 0 {
				// values are kept raw, so the delimiter is written as a reference
				q = '"'
				v = strings.ReplaceAll(v, `"`, "&quot;")
			}
		}
	}
	if q == 0 {
		return a.Name + "=" + v
	}
	return a.Name + "=" + string(q) + v + string(q)
}

func needsQuotes(v string) bool {
	if v == "" {
		return true
	}
	for i := 0; i < len(v); i++ {
		if isSpace(v[i]) || isQuote(v[i]) || v[i] == '=' || v[i] == '<' || v[i] == '>' {
			return true
		}
	}
	return false
}

// ParseAttributes extracts the ordered attributes of an opening tag.
// tag is the complete tag text including angle brackets. Malformed
// input never fails, whatever can be recognized is returned.
func ParseAttributes(tag string) []Attribute {
	p := attrParser{s: tag}
	p.skipName()
	doctype := elementType(tag) == "!doctype"

	var attrs []Attribute
	for {
		p.skipSeparators()
		if p.done() {
			return attrs
		}

		var attr Attribute
		if c := p.peek(); isQuote(c) {
			// bare quoted token, e.g. a doctype public identifier
			attr.Name, _ = p.quoted()
			attr.Quote = c
			attr.Presence = true
			attrs = append(attrs, attr)
			continue
		}

		attr.Name = p.name()
		if attr.Name == "" {
			// stray character that cannot start a name
			p.pos++
			continue
		}
		p.skipSpace()
		if p.pos < len(p.s) && p.s[p.pos] == '=' {
			p.pos++
			p.skipSpace()
			attr.Value, attr.Quote = p.value()
		} else {
			attr.Presence = true
		}
		if doctype && strings.EqualFold(attr.Name, "html") {
			attr = Attribute{Name: attr.Name, Presence: true}
		}
		attrs = append(attrs, attr)
	}
}

type attrParser struct {
	s   string
	pos int
}

func (p *attrParser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

// done reports whether the tag's closing bracket has been reached
func (p *attrParser) done() bool {
	if p.pos >= len(p.s) {
		return true
	}
	switch p.s[p.pos] {
	case '>':
		return true
	case '?':
		// processing instruction terminator
		return strings.HasPrefix(p.s[p.pos:], "?>")
	}
	return false
}

func (p *attrParser) skipName() {
	if strings.HasPrefix(p.s, "<") {
		p.pos++
	}
	if p.pos < len(p.s) && (p.s[p.pos] == '?' || p.s[p.pos] == '/') {
		p.pos++
	}
	for p.pos < len(p.s) && !isNameEnd(p.s[p.pos]) {
		p.pos++
	}
}

func (p *attrParser) skipSpace() {
	for p.pos < len(p.s) && isSpace(p.s[p.pos]) {
		p.pos++
	}
}

func (p *attrParser) skipSeparators() {
	for p.pos < len(p.s) && (isSpace(p.s[p.pos]) || p.s[p.pos] == '/') {
		p.pos++
	}
}

func (p *attrParser) name() string {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if isSpace(c) || c == '=' || c == '>' || c == '/' || isQuote(c) {
			break
		}
		if c == '?' && strings.HasPrefix(p.s[p.pos:], "?>") {
			break
		}
		p.pos++
	}
	return p.s[start:p.pos]
}

// quoted reads a quoted string starting at the opening quote and
// returns its content. An unterminated quote runs to the last '>'.
func (p *attrParser) quoted() (string, bool) {
	q := p.s[p.pos]
	p.pos++
	start := p.pos
	if i := strings.IndexByte(p.s[start:], q); i >= 0 {
		p.pos = start + i + 1
		return p.s[start : start+i], true
	}
	end := strings.LastIndexByte(p.s, '>')
	if end < start {
		end = len(p.s)
	}
	p.pos = end
	return p.s[start:end], false
}

func (p *attrParser) value() (string, byte) {
	if p.pos >= len(p.s) {
		return "", 0
	}
	if c := p.s[p.pos]; isQuote(c) {
		v, _ := p.quoted()
		return v, c
	}
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if isSpace(c) || c == '>' {
			break
		}
		// "/>" ends the tag, a lone slash belongs to the value (href=/a/b)
		if c == '/' && strings.HasPrefix(p.s[p.pos:], "/>") {
			break
		}
		p.pos++
	}
	return p.s[start:p.pos], 0
}

// AttributeList is the ordered attribute collection of a node. Names are
// matched case-insensitively; duplicates are kept and lookups return the
// first match.
type AttributeList struct {
	owner *Node
	items []Attribute
}

// Len returns the number of attributes
func (l *AttributeList) Len() int {
	return len(l.items)
}

// At returns the attribute at index i
func (l *AttributeList) At(i int) Attribute {
	return l.items[i]
}

// All iterates over the attributes in order
func (l *AttributeList) All() iter.Seq2[int, Attribute] {
	return func(yield func(int, Attribute) bool) {
		for i, a := range l.items {
			if !yield(i, a) {
				return
			}
		}
	}
}

// Slice returns a copy of the attributes
func (l *AttributeList) Slice() []Attribute {
	out := make([]Attribute, len(l.items))
	copy(out, l.items)
	return out
}

// Index returns the index of the first attribute called name, or -1
func (l *AttributeList) Index(name string) int {
	for i, a := range l.items {
		if strings.EqualFold(a.Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the first attribute called name
func (l *AttributeList) Get(name string) (Attribute, bool) {
	if i := l.Index(name); i >= 0 {
		return l.items[i], true
	}
	return Attribute{}, false
}

// Has reports whether an attribute called name exists
func (l *AttributeList) Has(name string) bool {
	return l.Index(name) >= 0
}

// Value returns the value of the first attribute called name, "" if absent
func (l *AttributeList) Value(name string) string {
	a, _ := l.Get(name)
	return a.Value
}

// Set assigns value to the first attribute called name, appending a new
// attribute when none exists.
func (l *AttributeList) Set(name, value string) {
	if i := l.Index(name); i >= 0 {
		a := &l.items[i]
		if !a.Presence && a.Value == value {
			return
		}
		a.Value = value
		a.Presence = false
	} else {
		l.items = append(l.items, NewAttribute(name, value))
	}
	l.changed(name)
}

// Add appends attr without checking for an existing attribute of the same name
func (l *AttributeList) Add(attr Attribute) {
	l.items = append(l.items, attr)
	l.changed(attr.Name)
}

// Remove deletes the first attribute called name and reports whether one existed
func (l *AttributeList) Remove(name string) bool {
	i := l.Index(name)
	if i < 0 {
		return false
	}
	removed := l.items[i].Name
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.changed(removed)
	return true
}

// String renders the attributes separated by single spaces
func (l *AttributeList) String() string {
	parts := make([]string, len(l.items))
	for i, a := range l.items {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func (l *AttributeList) changed(name string) {
	if l.owner == nil {
		return
	}
	l.owner.raw = ""
	l.owner.observer().AttributeChanged(l.owner, name)
}
