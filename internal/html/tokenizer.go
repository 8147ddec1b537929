package html

import (
	"iter"
	"strings"
)

// TokenKind classifies a token by its leading characters
type TokenKind int

const (
	TokenElement               TokenKind = iota // <name ...>
	TokenClosing                                // </name>
	TokenComment                                // <!-- ... --> and other <!- forms
	TokenProcessingInstruction                  // <? ... ?>
)

func (k TokenKind) String() string {
	switch k {
	case TokenElement:
		return "element"
	case TokenClosing:
		return "closing"
	case TokenComment:
		return "comment"
	case TokenProcessingInstruction:
		return "processing-instruction"
	default:
		return "unknown"
	}
}

// Token is a slice of the source text recognized as a tag
type Token struct {
	Kind   TokenKind
	Text   string // raw tag text, a substring of the source
	Offset int    // byte offset of Text in the source
}

// Len returns the token length in bytes
func (t Token) Len() int {
	return len(t.Text)
}

// End returns the offset just past the token
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Type returns the lowercase element type of an element or closing token.
// "<!DOCTYPE html>" yields "!doctype", "<?xml ...?>" yields "?".
func (t Token) Type() string {
	return elementType(t.Text)
}

// rawTextElements hold text that is never scanned for tags
var rawTextElements = map[string]struct{}{
	"script": {},
	"style":  {},
}

// Tokenizer scans HTML source and yields tag tokens in source order.
// Text between tokens is not emitted; callers slice it from the source
// using token offsets.
type Tokenizer struct {
	src string
	pos int
}

// NewTokenizer creates a tokenizer over src
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Source returns the text being tokenized
func (z *Tokenizer) Source() string {
	return z.src
}

// Next returns the next token. The second result is false once the
// input is exhausted.
func (z *Tokenizer) Next() (Token, bool) {
	for z.pos < len(z.src) {
		idx := strings.IndexByte(z.src[z.pos:], '<')
		if idx < 0 {
			z.pos = len(z.src)
			return Token{}, false
		}
		start := z.pos + idx
		if !isTagStart(z.src, start) {
			z.pos = start + 1
			continue
		}

		end, kind := z.scan(start)
		if end < 0 {
			// no closing '>' anywhere: everything left is text
			z.pos = len(z.src)
			return Token{}, false
		}

		tok := Token{Kind: kind, Text: z.src[start:end], Offset: start}
		z.pos = end
		if kind == TokenElement && !strings.HasSuffix(tok.Text, "/>") {
			if _, ok := rawTextElements[tok.Type()]; ok {
				z.skipRawText(tok.Type())
			}
		}
		return tok, true
	}
	return Token{}, false
}

// Tokens returns an iterator over the remaining tokens
func (z *Tokenizer) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := z.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize scans the whole source and returns its tokens
func Tokenize(src string) []Token {
	var tokens []Token
	for tok := range NewTokenizer(src).Tokens() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// scan finds the end of the tag starting at start and classifies it.
// Returns -1 when the tag is never terminated.
func (z *Tokenizer) scan(start int) (int, TokenKind) {
	rest := z.src[start:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		// abrupt empty comments
		if strings.HasPrefix(rest[4:], ">") {
			return start + 5, TokenComment
		}
		if strings.HasPrefix(rest[4:], "->") {
			return start + 6, TokenComment
		}
		if i := strings.Index(rest[4:], "-->"); i >= 0 {
			return start + 4 + i + 3, TokenComment
		}
		return len(z.src), TokenComment
	case hasPrefixFold(rest, "<![cdata["):
		if i := strings.Index(rest, "]]>"); i >= 0 {
			return start + i + 3, TokenComment
		}
		return len(z.src), TokenComment
	}

	end := scanTagEnd(z.src, start)
	if end < 0 {
		return -1, TokenElement
	}
	return end, classify(rest)
}

// skipRawText moves past the content of a raw text element, stopping at
// its closing tag so that the closing tag is the next token.
func (z *Tokenizer) skipRawText(typ string) {
	closing := "</" + typ
	for i := z.pos; i < len(z.src); {
		j := strings.IndexByte(z.src[i:], '<')
		if j < 0 {
			break
		}
		i += j
		if hasPrefixFold(z.src[i:], closing) {
			next := i + len(closing)
			if next >= len(z.src) || isNameEnd(z.src[next]) {
				z.pos = i
				return
			}
		}
		i++
	}
	z.pos = len(z.src)
}

// scanTagEnd returns the offset just past the '>' closing the tag at
// start, ignoring '>' inside quotes. An unterminated quote falls back
// to the first '>'.
func scanTagEnd(src string, start int) int {
	var quote byte
	for i := start + 1; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case isQuote(c):
			quote = c
		case c == '>':
			return i + 1
		}
	}
	if i := strings.IndexByte(src[start:], '>'); i >= 0 {
		return start + i + 1
	}
	return -1
}

func classify(text string) TokenKind {
	switch {
	case strings.HasPrefix(text, "<?"):
		return TokenProcessingInstruction
	case strings.HasPrefix(text, "<!-"):
		return TokenComment
	case strings.HasPrefix(text, "</"):
		return TokenClosing
	default:
		return TokenElement
	}
}

func elementType(text string) string {
	s := strings.TrimPrefix(text, "<")
	s = strings.TrimPrefix(s, "/")
	if strings.HasPrefix(s, "?") {
		return "?"
	}
	end := 0
	for end < len(s) && !isNameEnd(s[end]) {
		end++
	}
	return strings.ToLower(s[:end])
}

func isTagStart(src string, lt int) bool {
	if lt+1 >= len(src) {
		return false
	}
	c := src[lt+1]
	switch {
	case isLetter(c), c == '!', c == '?':
		return true
	case c == '/':
		return lt+2 < len(src) && isLetter(src[lt+2])
	}
	return false
}

func isNameEnd(c byte) bool {
	return isSpace(c) || c == '/' || c == '>'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
