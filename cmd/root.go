package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/AnyUserName/favicongen/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "favicongen <source_image> <output_directory>",
	Short: "Generate every favicon a modern site needs from one image",
	Long: `favicongen turns one source image (PNG, JPEG, GIF, BMP, TIFF, WebP or SVG)
into the full set of browser, Apple, Android and Windows tile icons, a
multi-size favicon.ico, and the index.html / site.webmanifest /
browserconfig.xml files that reference them.

Non-square sources are centered on a square canvas. Sources with alpha
keep a transparent background; opaque ones are padded with the site
background color (white unless --config says otherwise).`,
	Args:    cobra.ExactArgs(2),
	Version: version,
	RunE:    runGenerate,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to the process exit status: 0 on success,
// 2 when output could not be written, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var we *pipeline.WriteError
	if errors.As(err, &we) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"favicongen %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}
