package pipeline

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/encoder"
	"github.com/AnyUserName/favicongen/internal/ico"
	"github.com/AnyUserName/favicongen/internal/loader"
	"github.com/AnyUserName/favicongen/internal/resize"
)

// specResult holds the outcome of a single catalog entry.
type specResult struct {
	asset   GeneratedAsset
	skipped *Skipped
	err     error
}

// processSpec renders, encodes and writes one entry.
func processSpec(src *loader.Source, spec catalog.SizeSpec, cfg Config) specResult {
	filename := spec.Filename(cfg.Prefix)
	log := cfg.Log.With().Str("asset", filename).Logger()

	var (
		data []byte
		err  error
	)
	switch spec.Format {
	case catalog.SVG:
		if !src.Vector {
			log.Warn().Msg("skip: source is raster, cannot produce a vector favicon")
			return specResult{skipped: &Skipped{Spec: spec, Filename: filename, Reason: "raster source"}}
		}
		data = src.Raw
	case catalog.ICO:
		data, err = renderICO(src, cfg)
	default:
		data, err = renderPNG(src, spec.Width, cfg)
	}
	if err != nil {
		return specResult{err: fmt.Errorf("encode %s: %w", filename, err)}
	}

	path := filepath.Join(cfg.OutputDir, filename)
	hash, unchanged, err := WriteFile(path, data)
	if err != nil {
		return specResult{err: &WriteError{Filename: filename, Err: err}}
	}

	if unchanged {
		log.Debug().Str("hash", hash).Msg("unchanged")
	} else {
		log.Debug().Int("bytes", len(data)).Str("hash", hash).Msg("wrote")
	}
	return specResult{asset: GeneratedAsset{
		Spec:      spec,
		Filename:  filename,
		Path:      path,
		Size:      int64(len(data)),
		Hash:      hash,
		Unchanged: unchanged,
	}}
}

// renderPNG produces one square PNG of the given size.
func renderPNG(src *loader.Source, size int, cfg Config) ([]byte, error) {
	if f := resize.UpscaleFactor(src.Image, size); f > resize.MaxSafeUpscale {
		cfg.Log.Warn().
			Int("size", size).
			Int("source_width", src.Width).
			Int("source_height", src.Height).
			Float64("factor", f).
			Msg("upscaling beyond safe ratio, icon may look blurry")
	}
	img := resize.Square(src.Image, size, resize.Background(src.HasAlpha, cfg.Background))
	return encoder.PNG.Encode(img)
}

// renderICO bundles the classic favicon sizes into one container.
func renderICO(src *loader.Source, cfg Config) ([]byte, error) {
	frames := make([]ico.Frame, 0, len(catalog.ICOSizes))
	for _, size := range catalog.ICOSizes {
		data, err := renderPNG(src, size, cfg)
		if err != nil {
			return nil, fmt.Errorf("frame %dx%d: %w", size, size, err)
		}
		frames = append(frames, ico.Frame{Width: size, Height: size, Data: data})
	}

	var buf bytes.Buffer
	if err := ico.Encode(&buf, frames); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
