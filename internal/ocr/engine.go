// Package ocr provides the Tesseract-backed digit recognition backend.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"puzzle-scan/internal/glyph"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/draw"
)

// digitChars restricts recognition to the ten digits.
const digitChars = "0123456789"

// Engine recognizes single digit glyphs using Tesseract. Construct with
// NewEngine and release with Close; the zero value is not usable.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a digit recognition engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Isolated digits carry no linguistic context; disable dictionary
	// correction so Tesseract cannot "fix" them into words.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("classify_bln_numeric_mode", "1")

	if err := client.SetWhitelist(digitChars); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Recognize renders the upright glyph to an upscaled PNG and reads it
// with Tesseract. Any failure degrades to glyph.Unrecognized rather than
// an error; callers treat the sentinel as an unreadable entry.
func (e *Engine) Recognize(m *glyph.Mask) int {
	if e == nil || e.client == nil || m == nil || m.Count() == 0 {
		return glyph.Unrecognized
	}
	m = m.Upright()

	var buf bytes.Buffer
	if err := png.Encode(&buf, renderGlyph(m)); err != nil {
		return glyph.Unrecognized
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return glyph.Unrecognized
	}

	text, err := e.client.Text()
	if err != nil {
		return glyph.Unrecognized
	}
	text = strings.TrimSpace(text)
	if len(text) == 0 || text[0] < '0' || text[0] > '9' {
		return glyph.Unrecognized
	}
	return int(text[0] - '0')
}

// Glyphs extracted from strips are small; Tesseract wants raster text
// around this size or larger.
const (
	targetDim   = 64
	glyphMargin = 8
)

// renderGlyph draws the mask black-on-white with a quiet border, upscaled
// with nearest-neighbor so strokes stay crisp.
func renderGlyph(m *glyph.Mask) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.Pix[y*m.W+x] {
				src.SetRGBA(x, y, color.RGBA{A: 255})
			} else {
				src.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}

	scale := 1
	if d := min(m.W, m.H); d > 0 && d < targetDim {
		scale = (targetDim + d - 1) / d
	}
	w, h := m.W*scale, m.H*scale

	out := image.NewRGBA(image.Rect(0, 0, w+2*glyphMargin, h+2*glyphMargin))
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
		out.Pix[i+1] = 255
		out.Pix[i+2] = 255
		out.Pix[i+3] = 255
	}
	draw.NearestNeighbor.Scale(out,
		image.Rect(glyphMargin, glyphMargin, glyphMargin+w, glyphMargin+h),
		src, src.Bounds(), draw.Src, nil)

	return out
}
