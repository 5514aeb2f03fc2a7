package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/config"
	"github.com/AnyUserName/favicongen/internal/pipeline"
)

// Build creates the manifest for a finished run. Only androidChrome assets
// that were actually generated are listed, in catalog order.
func Build(assets []pipeline.GeneratedAsset, site config.Site) *Manifest {
	m := &Manifest{
		Name:            site.Name,
		ShortName:       site.ShortName,
		Description:     site.Description,
		StartURL:        site.StartURL,
		Display:         site.Display,
		BackgroundColor: site.BackgroundColor,
		ThemeColor:      site.ThemeColor,
		Icons:           []Icon{},
	}
	for _, a := range assets {
		if a.Spec.Role != catalog.RoleAndroidChrome {
			continue
		}
		m.Icons = append(m.Icons, Icon{
			Src:   site.Href(a.Filename),
			Sizes: a.Spec.Sizes(),
			Type:  a.Spec.Format.MIMEType(),
		})
	}
	return m
}

// Marshal serializes the manifest as indented JSON with a trailing newline.
// The output has no timestamps, so identical inputs give identical bytes.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write serializes m to path through the atomic writer.
func Write(m *Manifest, path string) (pipeline.GeneratedFile, error) {
	data, err := Marshal(m)
	if err != nil {
		return pipeline.GeneratedFile{}, fmt.Errorf("marshal manifest: %w", err)
	}
	return pipeline.WriteCompanion(path, data)
}

// Read parses a manifest from disk. Unknown fields are ignored.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}
