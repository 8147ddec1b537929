package html

import (
	"strings"
	"unicode"
)

// NormalizeWhitespace collapses the whitespace of text content:
// carriage returns are dropped, a line feed between two word characters
// (letters, digits, '.', ',' or space) becomes a space, any other line
// feed is dropped, and remaining whitespace runs shrink to one space.
func NormalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	if text == "" {
		return text
	}

	runes := []rune(text)
	var sb strings.Builder
	sb.Grow(len(text))
	inSpace := false
	for i, r := range runes {
		if r == '\n' {
			if i == 0 || i == len(runes)-1 || !isWordish(runes[i-1]) || !isWordish(runes[i+1]) {
				continue
			}
			r = ' '
		}
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

func isWordish(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == ',' || r == ' '
}
