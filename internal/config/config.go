package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"gopkg.in/yaml.v3"
)

// ErrInvalidArgument marks bad command-line or config input.
var ErrInvalidArgument = errors.New("invalid argument")

// RunConfig holds all parameters for one generation run.
type RunConfig struct {
	SourcePath string
	OutputDir  string
	EmitHTML   bool
	Verbose    bool
	Categories catalog.Filter
	Prefix     string
	Workers    int
	Site       Site
}

// Validate checks everything that can be checked before touching files.
func (c *RunConfig) Validate() error {
	if c.SourcePath == "" {
		return fmt.Errorf("%w: source image path is required", ErrInvalidArgument)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidArgument)
	}
	if c.Categories == 0 {
		return fmt.Errorf("%w: category filter selects nothing", ErrInvalidArgument)
	}
	if err := catalog.ValidatePrefix(c.Prefix); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidArgument, c.Workers)
	}
	return c.Site.Validate()
}

// Site is the metadata written into site.webmanifest and index.html.
type Site struct {
	Name            string `yaml:"name"`
	ShortName       string `yaml:"short_name"`
	Description     string `yaml:"description"`
	StartURL        string `yaml:"start_url"`
	Display         string `yaml:"display"`
	ThemeColor      string `yaml:"theme_color"`
	BackgroundColor string `yaml:"background_color"`
	IconPath        string `yaml:"icon_path"` // prefix for href/src values, e.g. "/static/icons/"
}

var displayModes = map[string]bool{
	"fullscreen": true,
	"standalone": true,
	"minimal-ui": true,
	"browser":    true,
}

// DefaultSite returns the metadata used when no config file is given.
func DefaultSite() Site {
	var s Site
	s.setDefaults()
	return s
}

func (s *Site) setDefaults() {
	if s.Name == "" {
		s.Name = "Your Website"
	}
	if s.ShortName == "" {
		s.ShortName = s.Name
	}
	if s.StartURL == "" {
		s.StartURL = "/"
	}
	if s.Display == "" {
		s.Display = "standalone"
	}
	if s.ThemeColor == "" {
		s.ThemeColor = "#ffffff"
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = "#ffffff"
	}
}

// Validate checks colors and the display mode.
func (s Site) Validate() error {
	if !displayModes[s.Display] {
		return fmt.Errorf("%w: display %q (want fullscreen, standalone, minimal-ui or browser)", ErrInvalidArgument, s.Display)
	}
	if _, err := ParseHexColor(s.ThemeColor); err != nil {
		return fmt.Errorf("%w: theme_color: %v", ErrInvalidArgument, err)
	}
	if _, err := ParseHexColor(s.BackgroundColor); err != nil {
		return fmt.Errorf("%w: background_color: %v", ErrInvalidArgument, err)
	}
	return nil
}

// Background returns the parsed background color. Call after Validate.
func (s Site) Background() color.NRGBA {
	c, _ := ParseHexColor(s.BackgroundColor)
	return c
}

// Href joins the icon path and a filename for use in markup.
func (s Site) Href(filename string) string {
	if s.IconPath == "" {
		return filename
	}
	return strings.TrimSuffix(s.IconPath, "/") + "/" + filename
}

// LoadSite reads a YAML site config. An empty path returns the defaults.
func LoadSite(path string) (Site, error) {
	if path == "" {
		return DefaultSite(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("%w: read config: %v", ErrInvalidArgument, err)
	}

	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Site{}, fmt.Errorf("%w: parse config %s: %v", ErrInvalidArgument, path, err)
	}
	s.setDefaults()
	if err := s.Validate(); err != nil {
		return Site{}, err
	}
	return s, nil
}

// ParseHexColor parses #rgb or #rrggbb into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if hex == s {
		return color.NRGBA{}, fmt.Errorf("color %q must start with '#'", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("color %q must be #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %v", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
