package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/config"
	"github.com/AnyUserName/favicongen/internal/ico"
	"github.com/AnyUserName/favicongen/internal/manifest"
	"github.com/AnyUserName/favicongen/internal/markup"
	"github.com/spf13/cobra"
)

var valPrefix string

var validateCmd = &cobra.Command{
	Use:   "validate <output_dir>",
	Short: "Check a generated directory: icon sizes, favicon.ico frames and references",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&valPrefix, "prefix", catalog.DefaultPrefix, "prefix the directory was generated with")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := catalog.ValidatePrefix(valPrefix); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidArgument, err)
	}
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", config.ErrInvalidArgument, dir)
	}
	cmd.SilenceUsage = true

	found, errs := validateDir(dir, valPrefix)
	w := cmd.OutOrStdout()
	if len(errs) == 0 {
		fmt.Fprintf(w, "  %s %d icons checked, all sizes and references valid\n", green("✓"), found)
		return nil
	}

	fmt.Fprintf(w, "  %s %d error(s):\n", red("✗"), len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

// validateDir checks every catalog file present in dir, then the manifest
// and index.html if they exist. It returns the number of icons found.
func validateDir(dir, prefix string) (int, []string) {
	var errs []string
	found := 0

	for _, s := range catalog.All() {
		name := s.Filename(prefix)
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		found++

		switch s.Format {
		case catalog.PNG:
			w, h, err := ico.FrameSize(data)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			} else if w != s.Width || h != s.Height {
				errs = append(errs, fmt.Sprintf("%s: size %dx%d, want %dx%d", name, w, h, s.Width, s.Height))
			}
		case catalog.ICO:
			errs = append(errs, validateICO(name, data)...)
		case catalog.SVG:
			if !bytes.Contains(data, []byte("<svg")) {
				errs = append(errs, fmt.Sprintf("%s: no <svg> element", name))
			}
		}
	}
	if found == 0 {
		errs = append(errs, fmt.Sprintf("no icons found in %s (prefix %q)", dir, prefix))
	}

	errs = append(errs, validateManifest(dir)...)
	errs = append(errs, validateIndex(dir)...)
	return found, errs
}

func validateICO(name string, data []byte) []string {
	entries, err := ico.ReadDir(data)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", name, err)}
	}
	var errs []string
	if len(entries) != len(catalog.ICOSizes) {
		errs = append(errs, fmt.Sprintf("%s: %d frames, want %d", name, len(entries), len(catalog.ICOSizes)))
	}
	for i, e := range entries {
		dw, dh := e.Dims()
		fw, fh, err := ico.FrameSize(ico.Payload(data, e))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s frame[%d]: %v", name, i, err))
			continue
		}
		if fw != dw || fh != dh {
			errs = append(errs, fmt.Sprintf("%s frame[%d]: declared %dx%d, embedded %dx%d", name, i, dw, dh, fw, fh))
		}
	}
	return errs
}

func validateManifest(dir string) []string {
	m, err := manifest.Read(filepath.Join(dir, manifest.Filename))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", manifest.Filename, err)}
	}

	var errs []string
	for i, icon := range m.Icons {
		// src may carry a site icon path; files live flat in dir.
		name := path.Base(icon.Src)
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s icons[%d]: %s not found", manifest.Filename, i, icon.Src))
			continue
		}
		w, h, err := ico.FrameSize(data)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s icons[%d]: %v", manifest.Filename, i, err))
			continue
		}
		if got := fmt.Sprintf("%dx%d", w, h); got != icon.Sizes {
			errs = append(errs, fmt.Sprintf("%s icons[%d]: %s is %s, declared %s", manifest.Filename, i, name, got, icon.Sizes))
		}
	}
	return errs
}

var hrefRe = regexp.MustCompile(`href="([^"]+)"`)

func validateIndex(dir string) []string {
	data, err := os.ReadFile(filepath.Join(dir, markup.IndexFilename))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", markup.IndexFilename, err)}
	}

	var errs []string
	for _, m := range hrefRe.FindAllSubmatch(data, -1) {
		name := path.Base(string(m[1]))
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Sprintf("%s: href %q not found", markup.IndexFilename, m[1]))
		}
	}
	return errs
}
