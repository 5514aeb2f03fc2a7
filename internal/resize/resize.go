// Package resize produces square icon bitmaps from an arbitrary source.
//
// Every size goes through the same policy: scale the longer side to the
// target with a Lanczos filter, then center the result on a size×size
// canvas. Sources with alpha get a transparent canvas; opaque sources get
// the caller's solid background so no transparent bars appear.
package resize

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// MaxSafeUpscale is the factor past which quality degrades visibly.
const MaxSafeUpscale = 2.0

// Square returns a size×size NRGBA rendering of src.
func Square(src image.Image, size int, background color.Color) *image.NRGBA {
	b := src.Bounds()
	w, h := fitDims(b.Dx(), b.Dy(), size)

	var scaled *image.NRGBA
	if w == b.Dx() && h == b.Dy() {
		scaled = imaging.Clone(src)
	} else {
		scaled = imaging.Resize(src, w, h, imaging.Lanczos)
	}
	if w == size && h == size {
		return scaled
	}

	canvas := imaging.New(size, size, background)
	return imaging.PasteCenter(canvas, scaled)
}

// Background picks the canvas color for a source.
func Background(hasAlpha bool, solid color.Color) color.Color {
	if hasAlpha || solid == nil {
		return color.NRGBA{}
	}
	return solid
}

// UpscaleFactor returns how much the longer side of src is enlarged to
// reach size. Values <= 1 mean downscaling.
func UpscaleFactor(src image.Image, size int) float64 {
	b := src.Bounds()
	long := b.Dx()
	if b.Dy() > long {
		long = b.Dy()
	}
	if long <= 0 {
		return 0
	}
	return float64(size) / float64(long)
}

// fitDims scales (w, h) so the longer side equals size.
func fitDims(w, h, size int) (int, int) {
	if w <= 0 || h <= 0 {
		return size, size
	}
	if w >= h {
		return size, max1((h*size + w/2) / w)
	}
	return max1((w*size + h/2) / h), size
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// HasAlpha reports whether any pixel of img is not fully opaque.
func HasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.NRGBA:
		return anyBelowOpaque(src.Pix, src.Stride, src.Rect.Dx())
	case *image.RGBA:
		return anyBelowOpaque(src.Pix, src.Stride, src.Rect.Dx())
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	default:
		bounds := img.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if a < 0xffff {
					return true
				}
			}
		}
		return false
	}
}

func anyBelowOpaque(pix []uint8, stride, width int) bool {
	if stride <= 0 || width <= 0 {
		return false
	}
	for row := 0; row+width*4 <= len(pix); row += stride {
		line := pix[row : row+width*4]
		for i := 3; i < len(line); i += 4 {
			if line[i] < 255 {
				return true
			}
		}
	}
	return false
}
