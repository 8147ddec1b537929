package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestTableTypeByExtension(t *testing.T) {
	tab := NewTable()

	assert.Equal(t, "image/png", tab.TypeByExtension(".png"))
	assert.Equal(t, "image/png", tab.TypeByExtension("PNG"))
	assert.Equal(t, "text/html", tab.TypeByExtension("html"))
	assert.Equal(t, "image/svg+xml", tab.TypeByExtension(".svg"))
	assert.Equal(t, "", tab.TypeByExtension(""))
	assert.Equal(t, "", tab.TypeByExtension("."))
	assert.Equal(t, "", tab.TypeByExtension(".no-such-extension"))
}

func TestTableExtensionByType(t *testing.T) {
	tab := NewTable()

	assert.Equal(t, ".jpg", tab.ExtensionByType("image/jpeg"))
	assert.Equal(t, ".html", tab.ExtensionByType("text/html; charset=utf-8"))
	assert.Equal(t, ".woff2", tab.ExtensionByType("FONT/WOFF2"))
	assert.Equal(t, "", tab.ExtensionByType(""))
	assert.Equal(t, "", tab.ExtensionByType("application/x-no-such-type"))
}

func TestStripParameters(t *testing.T) {
	assert.Equal(t, "text/html", StripParameters("Text/HTML ; charset=utf-8"))
	assert.Equal(t, "image/png", StripParameters("image/png"))
	assert.Equal(t, "", StripParameters(""))
}

func TestSniff(t *testing.T) {
	assert.Equal(t, "image/png", Sniff(pngHeader))
	assert.Equal(t, "image/gif", Sniff([]byte("GIF89a\x01\x00\x01\x00")))
	assert.Equal(t, "", Sniff([]byte("plain text")))
	assert.Equal(t, "", Sniff(nil))
}

func TestDetect(t *testing.T) {
	tab := NewTable()

	// content wins over a misleading name
	assert.Equal(t, "image/png", Detect(tab, "picture.jpg", pngHeader))
	assert.Equal(t, "image/svg+xml", Detect(tab, "img/logo.svg", []byte("<svg></svg>")))
	assert.Equal(t, "", Detect(tab, "README", []byte("text")))
}

func TestBase64Encoder(t *testing.T) {
	var enc Encoder = Base64Encoder{}

	assert.Equal(t, "data:text/plain;base64,aGk=", enc.Encode([]byte("hi"), "text/plain"))
	assert.Equal(t, "data:application/octet-stream;base64,", enc.Encode(nil, ""))

	url := enc.Encode(pngHeader, "image/png")
	typ, data, err := DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", typ)
	assert.Equal(t, pngHeader, data)
}

func TestDecodeDataURL(t *testing.T) {
	assert.True(t, IsDataURL("DATA:,x"))
	assert.False(t, IsDataURL("img/a.png"))

	typ, data, err := DecodeDataURL("data:;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", typ)
	assert.Equal(t, []byte("hi"), data)

	for _, bad := range []string{"a.png", "data:text/plain", "data:text/plain,hi"} {
		_, _, err := DecodeDataURL(bad)
		assert.True(t, errors.Is(err, ErrNotDataURL), bad)
	}

	_, _, err = DecodeDataURL("data:text/plain;base64,***")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotDataURL))
}
