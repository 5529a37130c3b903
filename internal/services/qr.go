package services

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QROptions controls QR rendering for a short link.
type QROptions struct {
	Content string
	Size    int
	FgColor string // hex, e.g. "#000000"
	BgColor string // hex, e.g. "#FFFFFF"
}

type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// PNG renders the QR code as a PNG image.
func (s *QRService) PNG(opts QROptions) ([]byte, error) {
	qr, err := qrcode.New(opts.Content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	qr.ForegroundColor = parseHexColor(opts.FgColor, color.Black)
	qr.BackgroundColor = parseHexColor(opts.BgColor, color.White)

	size := opts.Size
	if size <= 0 {
		size = 256
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SVG renders the QR code as a scalable SVG document.
func (s *QRService) SVG(opts QROptions) (string, error) {
	qr, err := qrcode.New(opts.Content, qrcode.Medium)
	if err != nil {
		return "", err
	}

	qr.DisableBorder = true
	bitmap := qr.Bitmap()
	size := len(bitmap)

	fg := opts.FgColor
	if fg == "" {
		fg = "#000000"
	}
	bg := opts.BgColor
	if bg == "" {
		bg = "#FFFFFF"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size))
	sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`, bg))
	sb.WriteString(fmt.Sprintf(`<path fill="%s" d="`, fg))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if bitmap[y][x] {
				sb.WriteString(fmt.Sprintf("M%d %dh1v1h-1z ", x, y))
			}
		}
	}
	sb.WriteString(`"/>`)
	sb.WriteString("</svg>")
	return sb.String(), nil
}

func parseHexColor(s string, defaultColor color.Color) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return defaultColor
	}

	hexToByte := func(c byte) byte {
		switch {
		case c >= '0' && c <= '9':
			return c - '0'
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10
		}
		return 0
	}

	r := (hexToByte(s[0]) << 4) + hexToByte(s[1])
	g := (hexToByte(s[2]) << 4) + hexToByte(s[3])
	b := (hexToByte(s[4]) << 4) + hexToByte(s[5])

	return color.RGBA{R: r, G: g, B: b, A: 255}
}
