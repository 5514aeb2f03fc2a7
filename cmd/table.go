package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/pipeline"
	"github.com/fatih/color"
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

const usageWidth = 60

// printTable prints one row per spec. With a nil result the Generated
// column is omitted.
func printTable(w io.Writer, specs []catalog.SizeSpec, prefix string, res *pipeline.Result) {
	generated := map[string]bool{}
	if res != nil {
		for _, a := range res.Assets {
			generated[a.Filename] = true
		}
	}

	header := fmt.Sprintf("  %-10s %-30s %-12s", "Size", "Filename", "Category")
	if res != nil {
		header += fmt.Sprintf(" %-9s", "Generated")
	}
	fmt.Fprintln(w, bold(header+" Usage"))
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2+usageWidth/2))

	for _, s := range specs {
		name := s.Filename(prefix)
		row := fmt.Sprintf("  %s %-30s %s",
			cyan(fmt.Sprintf("%-10s", s.Label())),
			name,
			yellow(fmt.Sprintf("%-12s", s.Category)),
		)
		if res != nil {
			mark := red(fmt.Sprintf("%-9s", "no"))
			if generated[name] {
				mark = green(fmt.Sprintf("%-9s", "yes"))
			}
			row += " " + mark
		}
		fmt.Fprintln(w, row+" "+truncate(s.Usage, usageWidth))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
