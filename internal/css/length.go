package css

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"
)

// fontRelativeUnits scale with a font size
var fontRelativeUnits = map[string]struct{}{
	"ch":  {},
	"em":  {},
	"ex":  {},
	"rem": {},
}

// IsFontRelative reports whether unit is one of ch, em, ex or rem
func IsFontRelative(unit string) bool {
	_, ok := fontRelativeUnits[strings.ToLower(unit)]
	return ok
}

// Length is a number with an optional unit, e.g. "1.5em" or "12"
type Length struct {
	Value float64
	Unit  string // lowercase unit, "%" for percentages, "" for bare numbers
}

// String renders the length without trailing zeros
func (l Length) String() string {
	return FormatNumber(l.Value) + l.Unit
}

// ParseLength parses a value consisting of exactly one number, dimension
// or percentage token, surrounded by optional whitespace.
func ParseLength(value string) (Length, bool) {
	lex := csslex.NewLexer(parse.NewInputString(value))

	var (
		l     Length
		found bool
	)
	for {
		tt, data := lex.Next()
		switch tt {
		case csslex.ErrorToken:
			return l, found
		case csslex.WhitespaceToken:
			continue
		case csslex.NumberToken, csslex.DimensionToken, csslex.PercentageToken:
			if found {
				return Length{}, false
			}
			var ok bool
			if l, ok = parseNumeric(tt, string(data)); !ok {
				return Length{}, false
			}
			found = true
		default:
			return Length{}, false
		}
	}
}

func parseNumeric(tt csslex.TokenType, s string) (Length, bool) {
	switch tt {
	case csslex.PercentageToken:
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return Length{Value: v, Unit: "%"}, err == nil
	case csslex.DimensionToken:
		v, unit := parseDimension(s)
		return Length{Value: v, Unit: unit}, unit != ""
	default:
		v, err := strconv.ParseFloat(s, 64)
		return Length{Value: v}, err == nil
	}
}

// parseDimension extracts numeric value and unit from a dimension token
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	num, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return 0, ""
	}
	return num, strings.ToLower(s[numEnd:])
}

// FormatNumber renders v with the fewest digits that represent it
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
