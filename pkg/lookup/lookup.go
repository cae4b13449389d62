package lookup

import (
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultBaseURL = "https://projeto-canaa.com"

	// moduleSize is the pixel width of one QR module; a negative size tells
	// go-qrcode to scale by modules instead of fixing the image width.
	moduleSize = 10
)

// BaseURLFunc returns the URL prefix lookup codes point at. It is read on
// every call so configuration reloads apply to new codes.
type BaseURLFunc func() string

// Generator renders lookup codes: QR images encoding the public lookup URL
// of a protocol.
type Generator struct {
	baseURL BaseURLFunc
}

func NewGenerator(baseURL BaseURLFunc) *Generator {
	if baseURL == nil {
		baseURL = func() string { return DefaultBaseURL }
	}
	return &Generator{baseURL: baseURL}
}

// URL returns the lookup URL encoded for protocolo.
func (g *Generator) URL(protocolo string) string {
	base := strings.TrimRight(g.baseURL(), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/consulta/%s", base, protocolo)
}

// PNG renders the lookup code at low error correction, 10px modules and
// a 4-module quiet zone.
func (g *Generator) PNG(protocolo string) ([]byte, error) {
	q, err := qrcode.New(g.URL(protocolo), qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("encoding lookup code: %w", err)
	}
	png, err := q.PNG(-moduleSize)
	if err != nil {
		return nil, fmt.Errorf("rendering lookup code: %w", err)
	}
	return png, nil
}

// Base64 returns the PNG encoded with standard base64, for inline responses.
func (g *Generator) Base64(protocolo string) (string, error) {
	png, err := g.PNG(protocolo)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
