package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/config"
	"github.com/AnyUserName/favicongen/internal/loader"
	"github.com/AnyUserName/favicongen/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the CLI with fresh flag values.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmds := append([]*cobra.Command{rootCmd}, rootCmd.Commands()...)
	for _, c := range cmds {
		reset := func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		c.SilenceUsage = false
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, w, h int, alpha uint8) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: alpha})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readAll(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	out := map[string][]byte{}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		out[d.Name()] = data
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{config.ErrInvalidArgument, 1},
		{loader.ErrSourceNotFound, 1},
		{&pipeline.WriteError{Filename: "a.png", Err: os.ErrPermission}, 2},
		{errors.Join(errors.New("pipeline"), &pipeline.WriteError{Err: os.ErrPermission}), 2},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v): got %d, want %d", c.err, got, c.want)
		}
	}
}

func TestGenerateFull(t *testing.T) {
	src := writeSource(t, 256, 256, 255)
	out := filepath.Join(t.TempDir(), "icons")

	stdout, _, err := execute(t, src, out)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	files := readAll(t, out)
	want := len(catalog.All()) - 1 + 3 // no svg; index, manifest, browserconfig
	if len(files) != want {
		t.Errorf("files: got %d, want %d", len(files), want)
	}
	for _, name := range []string{"favicon.ico", "index.html", "site.webmanifest", "browserconfig.xml"} {
		if _, ok := files[name]; !ok {
			t.Errorf("%s missing", name)
		}
	}
	if !strings.Contains(stdout, "favicon.svg [favicon] raster source") {
		t.Errorf("report does not mention skipped svg:\n%s", stdout)
	}

	vout, _, err := execute(t, "validate", out)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, vout)
	}

	// A second run leaves every byte in place.
	if _, _, err := execute(t, src, out); err != nil {
		t.Fatal(err)
	}
	again := readAll(t, out)
	for name, data := range files {
		if !bytes.Equal(again[name], data) {
			t.Errorf("%s changed between runs", name)
		}
	}
}

func TestGenerateRequiredSubset(t *testing.T) {
	src := writeSource(t, 128, 64, 128)
	out := t.TempDir()

	if _, _, err := execute(t, src, out, "--filter", "R"); err != nil {
		t.Fatal(err)
	}
	files := readAll(t, out)
	if _, ok := files["browserconfig.xml"]; ok {
		t.Error("browserconfig.xml written without tiles")
	}
	index := string(files["index.html"])
	for _, m := range hrefRe.FindAllStringSubmatch(index, -1) {
		if _, ok := files[m[1]]; !ok {
			t.Errorf("index.html references %s which is not on disk", m[1])
		}
	}
	for _, s := range catalog.All() {
		_, ok := files[s.FilenamePattern]
		if s.Category != catalog.Required && ok {
			t.Errorf("%s generated under Required filter", s.FilenamePattern)
		}
	}
	if errs := validateIndex(out); len(errs) != 0 {
		t.Errorf("index: %v", errs)
	}
}

func TestGenerateNoHTMLAndPrefix(t *testing.T) {
	src := writeSource(t, 64, 64, 255)
	out := t.TempDir()

	if _, _, err := execute(t, src, out, "--no-html", "--prefix", "icon", "--option", "required"); err != nil {
		t.Fatal(err)
	}
	files := readAll(t, out)
	for _, name := range []string{"index.html", "site.webmanifest", "browserconfig.xml", "favicon.ico"} {
		if _, ok := files[name]; ok {
			t.Errorf("%s should not exist", name)
		}
	}
	for _, name := range []string{"icon.ico", "icon-16x16.png", "apple-touch-icon-180x180.png"} {
		if _, ok := files[name]; !ok {
			t.Errorf("%s missing", name)
		}
	}
	if _, errs := validateDir(out, "icon"); len(errs) != 0 {
		t.Errorf("validate: %v", errs)
	}
}

func TestGenerateArgumentErrors(t *testing.T) {
	src := writeSource(t, 32, 32, 255)
	out := t.TempDir()

	cases := [][]string{
		{src, out, "--filter", "R", "--option", "all"},
		{src, out, "--filter", "bogus"},
		{src, out, "--prefix", "a/b"},
		{src, out, "--workers", "-1"},
		{src, out, "--config", filepath.Join(out, "missing.yaml")},
	}
	for _, args := range cases {
		_, _, err := execute(t, args...)
		if !errors.Is(err, config.ErrInvalidArgument) {
			t.Errorf("%v: got %v, want ErrInvalidArgument", args[2:], err)
		}
		if ExitCode(err) != 1 {
			t.Errorf("%v: exit %d", args[2:], ExitCode(err))
		}
	}
}

func TestGenerateSourceErrors(t *testing.T) {
	out := t.TempDir()

	_, _, err := execute(t, filepath.Join(out, "nope.png"), out)
	if !errors.Is(err, loader.ErrSourceNotFound) || ExitCode(err) != 1 {
		t.Errorf("missing source: got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "notes.txt")
	os.WriteFile(bad, []byte("plain text, not an image"), 0o644)
	_, _, err = execute(t, bad, out)
	if !errors.Is(err, loader.ErrUnsupportedFormat) || ExitCode(err) != 1 {
		t.Errorf("unsupported: got %v", err)
	}
}

func TestGenerateOutputNotWritable(t *testing.T) {
	src := writeSource(t, 32, 32, 255)
	file := filepath.Join(t.TempDir(), "taken")
	os.WriteFile(file, []byte("x"), 0o644)

	_, _, err := execute(t, src, filepath.Join(file, "icons"))
	var we *pipeline.WriteError
	if !errors.As(err, &we) {
		t.Fatalf("got %v, want *WriteError", err)
	}
	if ExitCode(err) != 2 {
		t.Errorf("exit: got %d, want 2", ExitCode(err))
	}
}

func TestCatalogCommand(t *testing.T) {
	stdout, _, err := execute(t, "catalog", "--prefix", "site", "--filter", "Required,Legacy")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"site.ico", "site-16x16.png", "apple-touch-icon-57x57.png", "android-chrome-512x512.png"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("catalog output missing %s", want)
		}
	}
	if strings.Contains(stdout, "favicon-32x32.png") || strings.Contains(stdout, "site-32x32.png") {
		t.Error("recommended entry listed")
	}

	if _, _, err := execute(t, "catalog", "--filter", "nope"); ExitCode(err) != 1 {
		t.Errorf("bad filter: got %v", err)
	}
}

func TestValidateDetectsMismatch(t *testing.T) {
	src := writeSource(t, 64, 64, 255)
	out := t.TempDir()
	if _, _, err := execute(t, src, out, "--filter", "R"); err != nil {
		t.Fatal(err)
	}

	// Swap two icons so their sizes no longer match their names.
	a := filepath.Join(out, "favicon-16x16.png")
	b := filepath.Join(out, "android-chrome-192x192.png")
	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	os.WriteFile(a, db, 0o644)
	os.WriteFile(b, da, 0o644)
	os.Remove(filepath.Join(out, "apple-touch-icon-180x180.png"))

	_, errs := validateDir(out, catalog.DefaultPrefix)
	joined := strings.Join(errs, "\n")
	for _, want := range []string{
		"favicon-16x16.png: size 192x192, want 16x16",
		"android-chrome-192x192.png: size 16x16, want 192x192",
		`href "apple-touch-icon-180x180.png" not found`,
		"site.webmanifest icons[0]",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing error %q in:\n%s", want, joined)
		}
	}

	stdout, _, err := execute(t, "validate", out)
	if err == nil || ExitCode(err) != 1 {
		t.Errorf("validate: got %v", err)
	}
	if !strings.Contains(stdout, "error(s)") {
		t.Errorf("validate output:\n%s", stdout)
	}
}

func TestGenerateWriteErrorListsWrittenAssets(t *testing.T) {
	src := writeSource(t, 64, 64, 255)
	out := t.TempDir()
	blocked := filepath.Join(out, "apple-touch-icon-180x180.png")
	if err := os.MkdirAll(filepath.Join(blocked, "keep"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := execute(t, src, out, "--workers", "1", "--filter", "R")
	if ExitCode(err) != 2 {
		t.Fatalf("exit: got %d (%v), want 2", ExitCode(err), err)
	}
	for _, want := range []string{"apple-touch-icon-180x180.png", "favicon.ico", "favicon-16x16.png", "total"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %s:\n%s", want, stderr)
		}
	}
	if strings.Contains(stderr, "android-chrome-192x192.png") {
		t.Errorf("asset after the failure reported as written:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(out, "favicon.ico")); err != nil {
		t.Errorf("favicon.ico removed after failure: %v", err)
	}
}

func TestGenerateVerbosePrintsHeadTags(t *testing.T) {
	src := writeSource(t, 64, 64, 255)
	out := t.TempDir()

	stdout, _, err := execute(t, src, out, "-v", "--filter", "R")
	if err != nil {
		t.Fatal(err)
	}
	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, tag := range []string{
		`<link rel="icon" type="image/x-icon" sizes="16x16 32x32 48x48" href="favicon.ico">`,
		`<link rel="manifest" href="site.webmanifest">`,
	} {
		if !strings.Contains(stdout, tag) {
			t.Errorf("stdout missing %s", tag)
		}
		if !strings.Contains(string(index), tag) {
			t.Errorf("index.html missing %s", tag)
		}
	}
}
