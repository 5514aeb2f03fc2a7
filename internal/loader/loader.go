// Package loader opens a source image and normalizes it to an NRGBA
// bitmap. Vector sources are rasterized once at the largest size the run
// needs so later downscaling never has to enlarge them.
package loader

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/favicongen/internal/resize"
	"github.com/disintegration/imaging"
)

// Source is a decoded source image. It is read-only once loaded.
type Source struct {
	Path     string
	Format   string // png, jpeg, gif, bmp, tiff, webp or svg
	Size     int64  // bytes on disk
	Width    int    // of Image
	Height   int
	HasAlpha bool
	Vector   bool
	Image    *image.NRGBA
	Raw      []byte // original SVG document, set only for vector sources
}

// Loader selects a decoder per source.
type Loader struct {
	Raster Decoder
	Vector Decoder
}

// New returns a loader with the default raster and SVG decoders.
func New() *Loader {
	return &Loader{Raster: RasterDecoder{}, Vector: SVGDecoder{}}
}

// Load opens path with the default decoders.
func Load(path string, renderSize int) (*Source, error) {
	return New().Load(path, renderSize)
}

// Load reads and decodes path. renderSize is the largest icon dimension
// the caller will produce.
func (l *Loader) Load(path string, renderSize int) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrSourceNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	src := &Source{Path: path, Size: info.Size()}

	svgDoc, vector, err := vectorDocument(path, data)
	if err != nil {
		return nil, err
	}

	var img image.Image
	if vector {
		src.Vector = true
		src.Raw = svgDoc
		img, src.Format, err = l.Vector.Decode(bytes.NewReader(svgDoc), renderSize)
	} else {
		img, src.Format, err = l.Raster.Decode(bytes.NewReader(data), renderSize)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %s decodes to %dx%d", ErrCorruptImage, path, b.Dx(), b.Dy())
	}

	src.Image = imaging.Clone(img)
	src.Width = b.Dx()
	src.Height = b.Dy()
	src.HasAlpha = resize.HasAlpha(src.Image)
	return src, nil
}

// vectorDocument decides whether data is an SVG (plain or gzipped .svgz)
// and returns the uncompressed document.
func vectorDocument(path string, data []byte) ([]byte, bool, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".svgz" {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptImage, path, err)
		}
		defer zr.Close()
		doc, err := io.ReadAll(zr)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptImage, path, err)
		}
		return doc, true, nil
	}

	switch {
	case isSVG(data):
		return data, true, nil
	case ext == ".svg":
		if !bytes.Contains(bytes.ToLower(data), []byte("<svg")) {
			return nil, false, fmt.Errorf("%w: %s has no <svg> element", ErrCorruptImage, path)
		}
		return data, true, nil
	}
	return nil, false, nil
}
