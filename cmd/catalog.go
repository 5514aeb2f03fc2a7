package cmd

import (
	"fmt"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/config"
	"github.com/spf13/cobra"
)

var (
	catPrefix string
	catFilter string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every icon favicongen can generate",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catPrefix, "prefix", catalog.DefaultPrefix, "filename stem replacing \"favicon\"")
	catalogCmd.Flags().StringVar(&catFilter, "filter", "all", "categories to list")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	f, err := catalog.ParseFilter(catFilter)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidArgument, err)
	}
	if err := catalog.ValidatePrefix(catPrefix); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidArgument, err)
	}
	cmd.SilenceUsage = true

	specs := catalog.Select(f)
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	printTable(w, specs, catPrefix, nil)
	fmt.Fprintln(w)

	counts := map[catalog.Category]int{}
	for _, s := range specs {
		counts[s.Category]++
	}
	fmt.Fprintf(w, "  %d entries", len(specs))
	for _, c := range f.Categories() {
		fmt.Fprintf(w, ", %d %s", counts[c], c)
	}
	fmt.Fprintf(w, "\n  Largest size: %dpx\n\n", catalog.MaxDimension(specs))
	return nil
}
