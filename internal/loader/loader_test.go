package loader

import (
	"bytes"
	"compress/gzip"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tallSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="10" height="20" viewBox="0 0 10 20">
  <rect x="0" y="0" width="10" height="20" fill="#ff0000"/>
</svg>
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"), 64)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("got %v, want ErrSourceNotFound", err)
	}
	_, err = Load(t.TempDir(), 64)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("directory: got %v, want ErrSourceNotFound", err)
	}
}

func TestLoad_Unsupported(t *testing.T) {
	path := writeFile(t, "notes.png", []byte("just some text, not an image"))
	_, err := Load(path, 64)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	data := encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 32, 32)))
	path := writeFile(t, "broken.png", data[:40])
	_, err := Load(path, 64)
	if !errors.Is(err, ErrCorruptImage) {
		t.Fatalf("got %v, want ErrCorruptImage", err)
	}

	path = writeFile(t, "empty.svg", []byte("hello"))
	if _, err := Load(path, 64); !errors.Is(err, ErrCorruptImage) {
		t.Fatalf("svg without element: got %v, want ErrCorruptImage", err)
	}
}

type emptyDecoder struct{}

func (emptyDecoder) Decode(io.Reader, int) (image.Image, string, error) {
	return image.NewNRGBA(image.Rect(0, 0, 0, 0)), "fake", nil
}

func TestLoad_ZeroArea(t *testing.T) {
	path := writeFile(t, "zero.png", []byte("anything"))
	l := &Loader{Raster: emptyDecoder{}, Vector: SVGDecoder{}}
	if _, err := l.Load(path, 64); !errors.Is(err, ErrCorruptImage) {
		t.Fatalf("got %v, want ErrCorruptImage", err)
	}
}

func TestLoad_PNGWithAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: uint8(x * 6)})
		}
	}
	path := writeFile(t, "logo.png", encodePNG(t, img))

	src, err := Load(path, 512)
	if err != nil {
		t.Fatal(err)
	}
	if src.Format != "png" || src.Vector {
		t.Errorf("format: got %s vector=%v", src.Format, src.Vector)
	}
	if src.Width != 40 || src.Height != 30 {
		t.Errorf("dims: got %dx%d, want 40x30", src.Width, src.Height)
	}
	if !src.HasAlpha {
		t.Error("alpha not detected")
	}
	if src.Raw != nil {
		t.Error("raster source should not keep raw bytes")
	}
	if src.Size <= 0 {
		t.Errorf("size: got %d", src.Size)
	}
}

func TestLoad_OpaqueJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	// Extension is deliberately misleading; detection is by content.
	path := writeFile(t, "photo.img", buf.Bytes())

	src, err := Load(path, 512)
	if err != nil {
		t.Fatal(err)
	}
	if src.Format != "jpeg" {
		t.Errorf("format: got %s", src.Format)
	}
	if src.HasAlpha {
		t.Error("jpeg reported alpha")
	}
	if src.Image.Bounds().Dx() != 64 {
		t.Errorf("width: got %d", src.Image.Bounds().Dx())
	}
}

func TestLoad_SVGRenderedAtRequestedSize(t *testing.T) {
	path := writeFile(t, "logo.svg", []byte(tallSVG))

	src, err := Load(path, 128)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Vector || src.Format != "svg" {
		t.Fatalf("vector=%v format=%s", src.Vector, src.Format)
	}
	if src.Width != 64 || src.Height != 128 {
		t.Errorf("dims: got %dx%d, want 64x128", src.Width, src.Height)
	}
	if !bytes.Equal(src.Raw, []byte(tallSVG)) {
		t.Error("raw svg not preserved")
	}
	c := src.Image.NRGBAAt(32, 64)
	if c.R < 250 || c.G > 5 || c.A < 250 {
		t.Errorf("center pixel: got %v, want opaque red", c)
	}
}

func TestLoad_SVGSniffedWithoutExtension(t *testing.T) {
	path := writeFile(t, "logo", []byte(tallSVG))
	src, err := Load(path, 40)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Vector || src.Height != 40 {
		t.Errorf("vector=%v height=%d", src.Vector, src.Height)
	}
}

func TestLoad_SVGLongPrologueWithoutExtension(t *testing.T) {
	prologue := `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!-- ` + strings.Repeat("Generated by a vector editor. ", 40) + ` -->
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd" [
  <!ENTITY ns "http://www.w3.org/2000/svg">
]>
`
	doc := prologue + strings.TrimPrefix(tallSVG, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	if len(prologue) <= 512 {
		t.Fatalf("prologue only %d bytes", len(prologue))
	}
	path := writeFile(t, "export", []byte(doc))

	src, err := Load(path, 40)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !src.Vector || src.Height != 40 {
		t.Errorf("vector=%v height=%d", src.Vector, src.Height)
	}
}

func TestIsSVG(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`<svg xmlns="http://www.w3.org/2000/svg"/>`, true},
		{"\xef\xbb\xbf\n  <SVG>", true},
		{`<?xml version="1.0"?><!-- a --><!-- b --><svg>`, true},
		{`<!doctype svg><svg viewBox="0 0 1 1">`, true},
		{`<html><body><svg></svg></body></html>`, false},
		{`<svgfoo/>`, false},
		{`<!-- never closed <svg>`, false},
		{`<?xml version="1.0"?>`, false},
		{"\x89PNG\r\n\x1a\n", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isSVG([]byte(c.in)); got != c.want {
			t.Errorf("isSVG(%q): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLoad_SVGZ(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(tallSVG))
	zw.Close()
	path := writeFile(t, "logo.svgz", buf.Bytes())

	src, err := Load(path, 32)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Vector || string(src.Raw) != tallSVG {
		t.Error("svgz not decompressed into Raw")
	}
}

func TestSVGTarget(t *testing.T) {
	cases := []struct {
		w, h   float64
		size   int
		ww, wh int
	}{
		{10, 20, 100, 50, 100},
		{20, 10, 100, 100, 50},
		{0, 0, 64, 64, 64},
		{1000, 1, 16, 16, 1},
	}
	for _, c := range cases {
		w, h := svgTarget(c.w, c.h, c.size)
		if w != c.ww || h != c.wh {
			t.Errorf("svgTarget(%v,%v,%d): got %dx%d, want %dx%d", c.w, c.h, c.size, w, h, c.ww, c.wh)
		}
	}
}
