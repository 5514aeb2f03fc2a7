//go:build ignore

// gen_fixtures writes sample source images for manual smoke runs.
// Usage: go run gen_fixtures.go <output_dir>
//
//	favicongen <output_dir>/logo.png out/ -v
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

const logoSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
  <rect x="4" y="4" width="56" height="56" rx="12" fill="#1e66f5"/>
  <circle cx="32" cy="32" r="14" fill="#ffffff"/>
</svg>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Square with alpha: transparent padding, no upscaling up to 512.
	writePNG(filepath.Join(dir, "logo.png"), alphaDisc(512))

	// Tall opaque JPEG: centered on the background color.
	writeJPEG(filepath.Join(dir, "portrait.jpg"), gradient(100, 200))

	// Small opaque PNG: exercises the upscale warning with -v.
	writePNG(filepath.Join(dir, "small.png"), gradient(64, 64))

	// Vector source: also emits favicon.svg.
	if err := os.WriteFile(filepath.Join(dir, "logo.svg"), []byte(logoSVG), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 4 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func alphaDisc(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := size / 2
	r2 := (size / 2) * (size / 2)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= r2 {
				img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: 255})
			}
		}
	}
	return img
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeJPEG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
