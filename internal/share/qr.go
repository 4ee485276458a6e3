// Package share builds links for sharing the quiz page as a QR code.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultQREndpoint = "https://api.qrserver.com/v1/create-qr-code/"
	DefaultQRSize     = 200
)

// QRBuilder renders QR image URLs through an external QR service.
type QRBuilder struct {
	Endpoint string
	Size     int
}

func NewQRBuilder(endpoint string, size int) QRBuilder {
	if endpoint == "" {
		endpoint = DefaultQREndpoint
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return QRBuilder{Endpoint: endpoint, Size: size}
}

// ImageURL returns the URL of a QR image encoding text.
func (b QRBuilder) ImageURL(text string) string {
	sep := "?"
	if strings.Contains(b.Endpoint, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%ssize=%dx%d&data=%s", b.Endpoint, sep, b.Size, b.Size, EncodeURIComponent(text))
}

// uriComponentUnescaper undoes the QueryEscape output that encodeURIComponent leaves literal.
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes text the way JavaScript's encodeURIComponent does:
// spaces become %20 and A-Z a-z 0-9 - _ . ! ~ * ' ( ) stay literal.
func EncodeURIComponent(text string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(text))
}

// PageURL resolves the page to share from the configured public URL.
// It falls back to the request's own origin when none is configured.
func PageURL(publicURL, fallbackOrigin string) string {
	if publicURL != "" {
		return publicURL
	}
	return fallbackOrigin
}
