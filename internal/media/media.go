// Package media provides the media type lookup and data URL encoding used
// when markup references external resources.
package media

import (
	"mime"
	"strings"

	"github.com/h2non/filetype"
)

// Lookup maps file extensions to media types and back
type Lookup interface {
	// TypeByExtension returns the media type for ext (with or without the
	// leading dot), "" when unknown
	TypeByExtension(ext string) string
	// ExtensionByType returns the preferred extension (with a leading dot)
	// for a media type, "" when unknown
	ExtensionByType(mediaType string) string
}

// builtin covers types that system mime tables frequently lack or map
// inconsistently between platforms. The first extension listed for a type
// is its preferred one.
var builtin = []struct {
	ext, typ string
}{
	{".apng", "image/apng"},
	{".avif", "image/avif"},
	{".bmp", "image/bmp"},
	{".css", "text/css"},
	{".gif", "image/gif"},
	{".html", "text/html"},
	{".htm", "text/html"},
	{".ico", "image/x-icon"},
	{".jpg", "image/jpeg"},
	{".jpeg", "image/jpeg"},
	{".js", "text/javascript"},
	{".json", "application/json"},
	{".otf", "font/otf"},
	{".png", "image/png"},
	{".svg", "image/svg+xml"},
	{".tiff", "image/tiff"},
	{".tif", "image/tiff"},
	{".ttf", "font/ttf"},
	{".txt", "text/plain"},
	{".webp", "image/webp"},
	{".woff", "font/woff"},
	{".woff2", "font/woff2"},
	{".xml", "application/xml"},
}

// Table is the default Lookup. It consults its built-in table first and
// the platform mime registry after that.
type Table struct {
	byExt  map[string]string
	byType map[string]string
}

// NewTable creates a lookup table with the built-in entries
func NewTable() *Table {
	t := &Table{
		byExt:  make(map[string]string, len(builtin)),
		byType: make(map[string]string, len(builtin)),
	}
	for _, e := range builtin {
		t.byExt[e.ext] = e.typ
		if _, ok := t.byType[e.typ]; !ok {
			t.byType[e.typ] = e.ext
		}
	}
	return t
}

// TypeByExtension implements Lookup
func (t *Table) TypeByExtension(ext string) string {
	ext = normalizeExt(ext)
	if ext == "" {
		return ""
	}
	if typ, ok := t.byExt[ext]; ok {
		return typ
	}
	return StripParameters(mime.TypeByExtension(ext))
}

// ExtensionByType implements Lookup
func (t *Table) ExtensionByType(mediaType string) string {
	mediaType = StripParameters(mediaType)
	if mediaType == "" {
		return ""
	}
	if ext, ok := t.byType[mediaType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

// StripParameters returns the lowercase media type without parameters,
// "text/html; charset=utf-8" becomes "text/html"
func StripParameters(mediaType string) string {
	typ, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(typ))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Sniff detects the media type of data from its content, "" when the
// format is not recognized
func Sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// Detect returns the media type of a resource named name with content
// data. The content signature wins over the name when both are known.
func Detect(l Lookup, name string, data []byte) string {
	if typ := Sniff(data); typ != "" {
		return typ
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return l.TypeByExtension(name[i:])
	}
	return ""
}
