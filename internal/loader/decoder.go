package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder turns source bytes into a bitmap. renderSize is the largest
// pixel dimension the pipeline will ask for; resolution-independent
// decoders render at that size, raster decoders ignore it.
type Decoder interface {
	Decode(r io.Reader, renderSize int) (img image.Image, format string, err error)
}

// RasterDecoder decodes any format registered with the image package.
type RasterDecoder struct{}

func (RasterDecoder) Decode(r io.Reader, _ int) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, format, fmt.Errorf("%w: decode %s: %v", ErrCorruptImage, format, err)
	}
	return img, format, nil
}

// DefaultSVGSize is used when an SVG is loaded without a render size.
const DefaultSVGSize = 512

// SVGDecoder rasterizes SVG documents with oksvg/rasterx.
type SVGDecoder struct{}

func (SVGDecoder) Decode(r io.Reader, renderSize int) (image.Image, string, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, "svg", fmt.Errorf("%w: parse svg: %v", ErrCorruptImage, err)
	}
	if renderSize <= 0 {
		renderSize = DefaultSVGSize
	}

	w, h := svgTarget(icon.ViewBox.W, icon.ViewBox.H, renderSize)
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), &image.Uniform{C: color.Transparent}, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	return rgba, "svg", nil
}

// svgTarget fits the viewBox aspect ratio into a renderSize square.
func svgTarget(vbW, vbH float64, renderSize int) (int, int) {
	if vbW <= 0 || vbH <= 0 {
		return renderSize, renderSize
	}
	if vbW >= vbH {
		return renderSize, clampDim(math.Round(float64(renderSize) * vbH / vbW))
	}
	return clampDim(math.Round(float64(renderSize) * vbW / vbH)), renderSize
}

func clampDim(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// isSVG reports whether data is an SVG document: after any XML
// declaration, processing instructions, comments and DOCTYPE, the first
// element must be <svg. The prologue may be any length.
func isSVG(data []byte) bool {
	rest := bytes.TrimLeft(data, "\xef\xbb\xbf")
	for {
		rest = bytes.TrimLeft(rest, " \t\r\n")
		switch {
		case bytes.HasPrefix(rest, []byte("<?")):
			rest = skipPast(rest, "?>")
		case bytes.HasPrefix(rest, []byte("<!--")):
			rest = skipPast(rest, "-->")
		case hasPrefixFold(rest, "<!doctype"):
			rest = skipDoctype(rest)
		default:
			return hasPrefixFold(rest, "<svg") && len(rest) > 4 && isNameEnd(rest[4])
		}
		if rest == nil {
			return false
		}
	}
}

// skipPast returns what follows the first end marker, or nil if it is missing.
func skipPast(b []byte, end string) []byte {
	i := bytes.Index(b, []byte(end))
	if i < 0 {
		return nil
	}
	return b[i+len(end):]
}

// skipDoctype skips a DOCTYPE, including an internal [...] subset.
func skipDoctype(b []byte) []byte {
	gt := bytes.IndexByte(b, '>')
	if open := bytes.IndexByte(b, '['); open >= 0 && (gt < 0 || open < gt) {
		return skipPast(b[open:], "]>")
	}
	if gt < 0 {
		return nil
	}
	return b[gt+1:]
}

func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && bytes.EqualFold(b[:len(prefix)], []byte(prefix))
}

func isNameEnd(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '>', '/':
		return true
	}
	return false
}
