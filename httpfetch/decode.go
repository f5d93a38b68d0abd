package httpfetch

import (
	"bytes"
	"io"

	"golang.org/x/net/html/charset"
)

// DecodeHTML decodes raw bytes to UTF-8 text using charset.NewReader,
// which checks a BOM first, then the charset parameter of contentType,
// then an HTML <meta charset> declaration in the first 1024 bytes; a
// Content-Type charset therefore takes precedence over a conflicting
// <meta> declaration. When none of these names an encoding, bytes that
// are valid UTF-8 are read as UTF-8 and anything else as windows-1252.
// Shared by scan and extract, which re-decode saved files the same way a
// fetch did.
func DecodeHTML(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
