package catalog

import (
	"fmt"
	"strings"
)

// Filter is a set of categories.
type Filter uint8

// AllCategories selects every catalog entry.
const AllCategories Filter = 1<<Required | 1<<Recommended | 1<<Optional | 1<<Legacy

// NewFilter builds a set from the given categories.
func NewFilter(cats ...Category) Filter {
	var f Filter
	for _, c := range cats {
		f |= 1 << c
	}
	return f
}

// Has reports whether c is in the set.
func (f Filter) Has(c Category) bool { return f&(1<<c) != 0 }

// Categories lists the members in catalog order.
func (f Filter) Categories() []Category {
	var out []Category
	for c := Required; c <= Legacy; c++ {
		if f.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f Filter) String() string {
	if f == AllCategories {
		return "all"
	}
	cats := f.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

// categoryTokens maps accepted --filter tokens (lowercased) to categories.
// The short codes are the ones the --icon-status flag used to take.
var categoryTokens = map[string]Category{
	"required":    Required,
	"r":           Required,
	"recommended": Recommended,
	"rc":          Recommended,
	"optional":    Optional,
	"o":           Optional,
	"legacy":      Legacy,
	"l":           Legacy,
}

// ParseFilter parses a comma-separated category list such as
// "Required,Recommended" or "R,RC". "all" selects everything.
func ParseFilter(s string) (Filter, error) {
	var f Filter
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if tok == "all" {
			f |= AllCategories
			continue
		}
		c, ok := categoryTokens[tok]
		if !ok {
			return 0, fmt.Errorf("unknown category %q (want Required, Recommended, Optional, Legacy or all)", tok)
		}
		f |= 1 << c
	}
	if f == 0 {
		return 0, fmt.Errorf("empty category filter")
	}
	return f, nil
}

// presets are the cumulative importance levels accepted by --option.
var presets = map[string]Filter{
	"required":             NewFilter(Required),
	"recommended":          NewFilter(Required, Recommended),
	"required-recommended": NewFilter(Required, Recommended),
	"optional":             NewFilter(Required, Recommended, Optional),
	"all":                  AllCategories,
}

// ParsePreset resolves an --option level name.
func ParsePreset(s string) (Filter, error) {
	f, ok := presets[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown option %q (want required, recommended, required-recommended, optional or all)", s)
	}
	return f, nil
}
