package css

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// state of the declaration parser
type state int

const (
	stateSelector state = iota
	stateEntry
	stateAttributeName
	stateAttributeNameValue
	stateAttributeValue
)

func (s state) String() string {
	switch s {
	case stateSelector:
		return "selector"
	case stateEntry:
		return "entry"
	case stateAttributeName:
		return "attribute-name"
	case stateAttributeNameValue:
		return "attribute-name-value"
	case stateAttributeValue:
		return "attribute-value"
	default:
		return "unknown"
	}
}

// Parser turns style text into selector groups and declaration lists
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse reads text one character at a time and returns the entries it
// contains. Parsing never fails; a selector or declaration block still
// open at end of input is dropped.
func (p *Parser) Parse(text string) *Stylesheet {
	m := machine{sheet: &Stylesheet{}}
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if m.quote != 0 {
			m.buf.WriteRune(c)
			switch {
			case m.escaped:
				m.escaped = false
			case c == '\\':
				m.escaped = true
			case c == m.quote:
				m.quote = 0
			}
			continue
		}

		if c == '/' && i+1 < len(runes) && runes[i+1] == '*' && m.commentsDropped() {
			if end := skipComment(runes, i+2); end >= 0 {
				i = end
				continue
			}
		}

		m.step(c)
	}

	if m.entry != nil || strings.TrimSpace(m.buf.String()) != "" {
		p.log.Debug("Dropping unterminated CSS fragment",
			zap.Stringer("state", m.state),
			zap.String("buffer", m.buf.String()))
	}
	return m.sheet
}

// skipComment returns the index of the '/' ending the comment that
// starts at from, or -1 when it is never closed.
func skipComment(runes []rune, from int) int {
	for j := from; j+1 < len(runes); j++ {
		if runes[j] == '*' && runes[j+1] == '/' {
			return j + 1
		}
	}
	return -1
}

type machine struct {
	sheet *Stylesheet
	entry *Entry
	state state
	buf   strings.Builder

	pendingSpace bool // whitespace seen after buffered selector text
	quote        rune // active quote delimiter, 0 outside quotes
	escaped      bool // next quoted character cannot close the quote
}

// commentsDropped reports whether a comment is skipped in the current state.
// Names and values keep them literally, e.g. url(/*x.png).
func (m *machine) commentsDropped() bool {
	return m.state == stateSelector || m.state == stateEntry
}

func (m *machine) step(c rune) {
	switch m.state {
	case stateSelector:
		switch {
		case c == ',':
			m.flushSelector()
		case c == '{':
			m.flushSelector()
			m.state = stateEntry
		case unicode.IsSpace(c):
			if m.buf.Len() > 0 {
				m.pendingSpace = true
			}
		default:
			if m.pendingSpace {
				m.buf.WriteByte(' ')
				m.pendingSpace = false
			}
			m.write(c)
		}

	case stateEntry:
		switch {
		case c == '}':
			m.closeEntry()
		case unicode.IsSpace(c):
		default:
			m.buf.Reset()
			m.write(c)
			m.state = stateAttributeName
		}

	case stateAttributeName:
		switch {
		case c == '}':
			m.postName()
			m.closeEntry()
		case unicode.IsSpace(c):
			m.postName()
			m.state = stateAttributeNameValue
		case c == ':':
			m.postName()
			m.state = stateAttributeValue
		default:
			m.write(c)
		}

	case stateAttributeNameValue:
		switch c {
		case ':':
			m.state = stateAttributeValue
		case '}':
			m.closeEntry()
		case '\'', '"', '`':
			// quoted text carries over into the value
			m.write(c)
		}

	case stateAttributeValue:
		switch c {
		case ';':
			m.postValue()
			m.state = stateEntry
		case '}':
			m.postValue()
			m.closeEntry()
		default:
			m.write(c)
		}
	}
}

// write appends c to the buffer, opening a quote when c is a delimiter
func (m *machine) write(c rune) {
	m.buf.WriteRune(c)
	if c == '\'' || c == '"' || c == '`' {
		m.quote = c
	}
}

func (m *machine) ensureEntry() {
	if m.entry == nil {
		m.entry = &Entry{}
	}
}

func (m *machine) flushSelector() {
	m.ensureEntry()
	if s := m.buf.String(); s != "" {
		m.entry.Selectors = append(m.entry.Selectors, s)
	}
	m.buf.Reset()
	m.pendingSpace = false
}

func (m *machine) postName() {
	if name := m.buf.String(); name != "" {
		m.entry.Declarations = append(m.entry.Declarations, Declaration{Name: name})
	}
	m.buf.Reset()
}

func (m *machine) postValue() {
	if n := len(m.entry.Declarations); n > 0 {
		m.entry.Declarations[n-1].Value = strings.TrimSpace(m.buf.String())
	}
	m.buf.Reset()
}

func (m *machine) closeEntry() {
	if m.entry != nil {
		m.sheet.Entries = append(m.sheet.Entries, *m.entry)
	}
	m.entry = nil
	m.buf.Reset()
	m.pendingSpace = false
	m.state = stateSelector
}
