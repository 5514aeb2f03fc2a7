package pipeline

import (
	"errors"
	"fmt"
	"image/color"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/loader"
	"github.com/rs/zerolog"
)

// Config holds all parameters for an emit run.
type Config struct {
	OutputDir  string
	Prefix     string
	Specs      []catalog.SizeSpec // already filtered, in catalog order
	Workers    int
	Background color.Color // canvas for opaque sources
	Log        zerolog.Logger
}

// GeneratedAsset is one file the run produced.
type GeneratedAsset struct {
	Spec      catalog.SizeSpec
	Filename  string
	Path      string
	Size      int64
	Hash      string
	Unchanged bool // file already held identical bytes
}

// Skipped is a selected entry that could not apply to this source.
type Skipped struct {
	Spec     catalog.SizeSpec
	Filename string
	Reason   string
}

// Result lists generated and skipped entries in catalog order.
type Result struct {
	Assets  []GeneratedAsset
	Skipped []Skipped
}

// TotalBytes sums the size of all generated assets.
func (r *Result) TotalBytes() int64 {
	var n int64
	for _, a := range r.Assets {
		n += a.Size
	}
	return n
}

// WriteError reports an I/O failure. Written lists the assets that made it
// to disk before the run stopped; they are left in place.
type WriteError struct {
	Filename string
	Written  []GeneratedAsset
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Filename, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Pipeline emits catalog assets for one source image.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = catalog.DefaultPrefix
	}
	return &Pipeline{cfg: cfg}
}

// errAborted marks jobs that never started because an earlier one failed.
var errAborted = errors.New("aborted")

// Run resizes, encodes and writes every configured spec. Specs are
// independent, so they run in parallel; results keep catalog order.
func (p *Pipeline) Run(src *loader.Source) (*Result, error) {
	log := p.cfg.Log
	log.Debug().
		Str("source", src.Path).
		Str("format", src.Format).
		Int("width", src.Width).
		Int("height", src.Height).
		Bool("alpha", src.HasAlpha).
		Int("entries", len(p.cfg.Specs)).
		Int("workers", p.cfg.Workers).
		Msg("generating")

	results := make([]specResult, len(p.cfg.Specs))
	var (
		wg    sync.WaitGroup
		abort atomic.Bool
	)
	sem := make(chan struct{}, p.cfg.Workers)

	// Slots are taken in catalog order, so jobs start in that order and a
	// single worker processes the catalog strictly sequentially.
	for i, spec := range p.cfg.Specs {
		sem <- struct{}{} // acquire
		if abort.Load() {
			<-sem
			for j := i; j < len(results); j++ {
				results[j] = specResult{err: errAborted}
			}
			break
		}
		wg.Add(1)
		go func(idx int, s catalog.SizeSpec) {
			defer wg.Done()
			defer func() { <-sem }() // release

			results[idx] = processSpec(src, s, p.cfg)
			if results[idx].err != nil {
				abort.Store(true)
			}
		}(i, spec)
	}
	wg.Wait()

	res := &Result{}
	var firstErr error
	for _, r := range results {
		switch {
		case r.err != nil:
			if firstErr == nil && !errors.Is(r.err, errAborted) {
				firstErr = r.err
			}
		case r.skipped != nil:
			res.Skipped = append(res.Skipped, *r.skipped)
		default:
			res.Assets = append(res.Assets, r.asset)
		}
	}

	if firstErr != nil {
		var we *WriteError
		if errors.As(firstErr, &we) {
			we.Written = res.Assets
			return res, we
		}
		return res, firstErr
	}
	return res, nil
}
