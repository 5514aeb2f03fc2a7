package markup

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/config"
	"github.com/AnyUserName/favicongen/internal/pipeline"
)

type browserConfig struct {
	XMLName xml.Name `xml:"browserconfig"`
	Tile    tileSet  `xml:"msapplication>tile"`
}

type tileSet struct {
	Logos     []tileLogo `xml:",any"`
	TileColor string     `xml:"TileColor"`
}

type tileLogo struct {
	XMLName xml.Name
	Src     string `xml:"src,attr"`
}

// tileElement maps a tile size to its browserconfig element name and the
// nominal size of that slot.
func tileElement(size int) (string, int) {
	switch {
	case size <= 70:
		return "square70x70logo", 70
	case size <= 150:
		return "square150x150logo", 150
	default:
		return "square310x310logo", 310
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// RenderBrowserConfig renders browserconfig.xml for the msTile assets.
// ok is false when there are none and nothing should be written.
func RenderBrowserConfig(assets []pipeline.GeneratedAsset, site config.Site) (data []byte, ok bool, err error) {
	var cfg browserConfig
	// When two tiles land in one slot, the one closest to its nominal size wins.
	slot := map[string]int{}
	var widths []int
	for _, a := range assets {
		if a.Spec.Role != catalog.RoleMSTile {
			continue
		}
		name, nominal := tileElement(a.Spec.Width)
		logo := tileLogo{XMLName: xml.Name{Local: name}, Src: site.Href(a.Filename)}
		i, found := slot[name]
		if !found {
			slot[name] = len(cfg.Tile.Logos)
			cfg.Tile.Logos = append(cfg.Tile.Logos, logo)
			widths = append(widths, a.Spec.Width)
			continue
		}
		if abs(a.Spec.Width-nominal) < abs(widths[i]-nominal) {
			cfg.Tile.Logos[i] = logo
			widths[i] = a.Spec.Width
		}
	}
	if len(cfg.Tile.Logos) == 0 {
		return nil, false, nil
	}
	cfg.Tile.TileColor = site.BackgroundColor

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, false, fmt.Errorf("encode browserconfig: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), true, nil
}

// WriteBrowserConfig writes browserconfig.xml when msTile assets exist.
// The returned file is nil when nothing was written.
func WriteBrowserConfig(path string, assets []pipeline.GeneratedAsset, site config.Site) (*pipeline.GeneratedFile, error) {
	data, ok, err := RenderBrowserConfig(assets, site)
	if err != nil || !ok {
		return nil, err
	}
	f, err := pipeline.WriteCompanion(path, data)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
