package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/config"
	"github.com/AnyUserName/favicongen/internal/loader"
	"github.com/AnyUserName/favicongen/internal/logging"
	"github.com/AnyUserName/favicongen/internal/manifest"
	"github.com/AnyUserName/favicongen/internal/markup"
	"github.com/AnyUserName/favicongen/internal/pipeline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	genNoHTML  bool
	genFilter  string
	genOption  string
	genPrefix  string
	genWorkers int
	genConfig  string
)

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&genNoHTML, "no-html", false, "skip index.html, site.webmanifest and browserconfig.xml")
	f.StringVar(&genFilter, "filter", "all", "categories to generate: Required|R, Recommended|RC, Optional|O, Legacy|L, all")
	f.StringVar(&genOption, "option", "all", "importance preset: required, recommended, required-recommended, optional, all")
	f.StringVar(&genPrefix, "prefix", catalog.DefaultPrefix, "filename stem replacing \"favicon\"")
	f.IntVarP(&genWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.StringVar(&genConfig, "config", "", "YAML file with site name, colors and icon path")
}

// runConfig collects and validates flags and arguments.
func runConfig(cmd *cobra.Command, args []string) (*config.RunConfig, error) {
	absSource, err := filepath.Abs(args[0])
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}
	absOutput, err := filepath.Abs(args[1])
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("filter") && flags.Changed("option") {
		return nil, fmt.Errorf("%w: --filter and --option are mutually exclusive", config.ErrInvalidArgument)
	}
	var cats catalog.Filter
	if flags.Changed("option") {
		cats, err = catalog.ParsePreset(genOption)
	} else {
		cats, err = catalog.ParseFilter(genFilter)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidArgument, err)
	}

	site, err := config.LoadSite(genConfig)
	if err != nil {
		return nil, err
	}

	rc := &config.RunConfig{
		SourcePath: absSource,
		OutputDir:  absOutput,
		EmitHTML:   !genNoHTML,
		Verbose:    verbose,
		Categories: cats,
		Prefix:     genPrefix,
		Workers:    genWorkers,
		Site:       site,
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	rc, err := runConfig(cmd, args)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	log := logging.New(cmd.ErrOrStderr(), rc.Verbose)
	log.Debug().
		Str("source", rc.SourcePath).
		Str("output", rc.OutputDir).
		Str("filter", rc.Categories.String()).
		Str("prefix", rc.Prefix).
		Msg("config")

	specs := catalog.Select(rc.Categories)

	src, err := loader.Load(rc.SourcePath, catalog.MaxDimension(specs))
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}

	if err := os.MkdirAll(rc.OutputDir, 0o755); err != nil {
		return &pipeline.WriteError{Filename: rc.OutputDir, Err: fmt.Errorf("create output dir: %w", err)}
	}

	p := pipeline.New(pipeline.Config{
		OutputDir:  rc.OutputDir,
		Prefix:     rc.Prefix,
		Specs:      specs,
		Workers:    rc.Workers,
		Background: rc.Site.Background(),
		Log:        log,
	})
	res, err := p.Run(src)
	if err != nil {
		printPartial(cmd.ErrOrStderr(), err)
		return fmt.Errorf("pipeline: %w", err)
	}

	var companions []pipeline.GeneratedFile
	if rc.EmitHTML {
		companions, err = writeCompanions(rc, res.Assets)
		if err != nil {
			var we *pipeline.WriteError
			if errors.As(err, &we) {
				we.Written = res.Assets
			}
			printPartial(cmd.ErrOrStderr(), err)
			return err
		}
		for _, f := range companions {
			log.Debug().Str("file", f.Filename).Bool("unchanged", f.Unchanged).Msg("wrote")
		}
	}

	w := cmd.OutOrStdout()
	printReport(w, rc, src, res, companions, time.Since(start))
	if rc.Verbose && rc.EmitHTML {
		if err := printHead(w, rc, res.Assets); err != nil {
			return err
		}
	}
	printTable(w, specs, rc.Prefix, res)
	printFooter(w, rc)
	return nil
}

// writeCompanions writes index.html, site.webmanifest and, when tiles were
// generated, browserconfig.xml.
func writeCompanions(rc *config.RunConfig, assets []pipeline.GeneratedAsset) ([]pipeline.GeneratedFile, error) {
	var files []pipeline.GeneratedFile

	f, err := markup.WriteIndex(filepath.Join(rc.OutputDir, markup.IndexFilename), assets, rc.Site)
	if err != nil {
		return files, err
	}
	files = append(files, f)

	f, err = manifest.Write(manifest.Build(assets, rc.Site), filepath.Join(rc.OutputDir, manifest.Filename))
	if err != nil {
		return files, err
	}
	files = append(files, f)

	bc, err := markup.WriteBrowserConfig(filepath.Join(rc.OutputDir, markup.BrowserConfigFilename), assets, rc.Site)
	if err != nil {
		return files, err
	}
	if bc != nil {
		files = append(files, *bc)
	}
	return files, nil
}

func printReport(w io.Writer, rc *config.RunConfig, src *loader.Source, res *pipeline.Result, companions []pipeline.GeneratedFile, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║            favicongen build complete             ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	unchanged := 0
	for _, a := range res.Assets {
		if a.Unchanged {
			unchanged++
		}
	}
	total := res.TotalBytes()
	for _, f := range companions {
		total += f.Size
	}

	fmt.Fprintf(w, "  Source:      %s (%s, %dx%d, %s)\n",
		filepath.Base(src.Path), src.Format, src.Width, src.Height, formatBytes(src.Size))
	fmt.Fprintf(w, "  Filter:      %s\n", rc.Categories)
	fmt.Fprintf(w, "  Assets:      %d", len(res.Assets))
	if unchanged > 0 {
		fmt.Fprintf(w, " (%d unchanged)", unchanged)
	}
	fmt.Fprintln(w)
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  Skipped:     %s [%s] %s\n", s.Filename, s.Spec.Role, s.Reason)
	}
	if len(companions) > 0 {
		names := make([]string, len(companions))
		for i, f := range companions {
			names[i] = f.Filename
		}
		fmt.Fprintf(w, "  Companions:  %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "  Total size:  %s\n", formatBytes(total))
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Output:      %s\n", rc.OutputDir)
	fmt.Fprintln(w)
}

// printHead shows the <head> tags index.html uses, ready to paste.
func printHead(w io.Writer, rc *config.RunConfig, assets []pipeline.GeneratedAsset) error {
	frag, err := markup.Fragment(assets, rc.Site)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "  Head tags:")
	for _, line := range strings.Split(frag, "\n") {
		fmt.Fprintln(w, "    "+line)
	}
	fmt.Fprintln(w)
	return nil
}

// printPartial lists the assets that reached disk before a write failure.
// They are left in place.
func printPartial(w io.Writer, err error) {
	var we *pipeline.WriteError
	if !errors.As(err, &we) {
		return
	}
	if len(we.Written) == 0 {
		fmt.Fprintln(w, red("No assets were written before the failure."))
		return
	}
	var total int64
	fmt.Fprintln(w, red(fmt.Sprintf("Write failed at %s; %d asset(s) already written:", we.Filename, len(we.Written))))
	for _, a := range we.Written {
		fmt.Fprintf(w, "  %-30s %10s\n", a.Filename, formatBytes(a.Size))
		total += a.Size
	}
	fmt.Fprintf(w, "  %-30s %10s\n", "total", formatBytes(total))
}

func printFooter(w io.Writer, rc *config.RunConfig) {
	fmt.Fprintln(w)
	color.New(color.FgGreen, color.Bold).Fprintln(w, "Favicon generation complete!")
	if rc.EmitHTML {
		color.New(color.FgMagenta).Fprintf(w, "Open %s in your browser to test\n",
			filepath.Join(rc.OutputDir, markup.IndexFilename))
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
