// Package dataurl converts between binary payloads and self-describing
// "data:<mime>;base64,<payload>" strings, the form in which order photos and
// exported cards are held in memory.
package dataurl

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is a decoded payload ready to be handed to a share target or written
// to disk.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Encode wraps data in a data URI, sniffing the mime type from content.
func Encode(data []byte) string {
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return EncodeAs(mime, data)
}

func EncodeAs(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FromImageFile reads path and encodes it, rejecting anything that does not
// sniff as an image.
func FromImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", path, err)
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%s is not an image (detected %s)", path, mime.String())
	}
	return Encode(data), nil
}

// Decode turns a data URI back into a file named filename. Malformed input
// yields (nil, false); it never panics.
func Decode(dataURL, filename string) (*File, bool) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, false
	}
	meta, ok := strings.CutPrefix(header, "data:")
	if !ok {
		return nil, false
	}
	mime, params, ok := strings.Cut(meta, ";")
	if !ok || mime == "" {
		return nil, false
	}
	if !strings.Contains(";"+params+";", ";base64;") {
		return nil, false
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}

	return &File{Name: filename, MimeType: mime, Data: data}, true
}
