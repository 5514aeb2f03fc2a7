// Package markup renders the HTML head fragment, the demo index.html page
// and browserconfig.xml for a finished run.
package markup

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/AnyUserName/favicongen/internal/catalog"
	"github.com/AnyUserName/favicongen/internal/config"
	"github.com/AnyUserName/favicongen/internal/manifest"
	"github.com/AnyUserName/favicongen/internal/pipeline"
)

// Output filenames.
const (
	IndexFilename         = "index.html"
	BrowserConfigFilename = "browserconfig.xml"
)

// Link is one <link> tag pointing at a generated icon.
type Link struct {
	Rel   string
	Type  string
	Sizes string
	Href  string
}

// Meta is one <meta name=... content=...> tag.
type Meta struct {
	Name    string
	Content string
}

// Head is everything the fragment emits, in document order.
type Head struct {
	Icons    []Link
	Manifest Link
	Metas    []Meta
}

// Tags returns one link per favicon or appleTouch asset, in the order the
// assets are given. androidChrome and msTile icons are reached through the
// manifest and browserconfig instead.
func Tags(assets []pipeline.GeneratedAsset, site config.Site) []Link {
	var links []Link
	for _, a := range assets {
		rel := "icon"
		switch a.Spec.Role {
		case catalog.RoleFavicon:
		case catalog.RoleAppleTouch:
			rel = "apple-touch-icon"
		default:
			continue
		}
		links = append(links, Link{
			Rel:   rel,
			Type:  a.Spec.Format.MIMEType(),
			Sizes: a.Spec.Sizes(),
			Href:  site.Href(a.Filename),
		})
	}
	return links
}

// HasTiles reports whether any msTile asset was generated.
func HasTiles(assets []pipeline.GeneratedAsset) bool {
	for _, a := range assets {
		if a.Spec.Role == catalog.RoleMSTile {
			return true
		}
	}
	return false
}

// BuildHead assembles the head contents for a run.
func BuildHead(assets []pipeline.GeneratedAsset, site config.Site) Head {
	h := Head{
		Icons:    Tags(assets, site),
		Manifest: Link{Rel: "manifest", Href: site.Href(manifest.Filename)},
		Metas:    []Meta{{Name: "theme-color", Content: site.ThemeColor}},
	}
	if HasTiles(assets) {
		h.Metas = append(h.Metas,
			Meta{Name: "msapplication-config", Content: site.Href(BrowserConfigFilename)},
			Meta{Name: "msapplication-TileColor", Content: site.BackgroundColor},
		)
	}
	return h
}

const fragmentTemplate = `{{define "fragment"}}{{range .Icons}}<link rel="{{.Rel}}" type="{{.Type}}" sizes="{{.Sizes}}" href="{{.Href}}">
{{end}}<link rel="{{.Manifest.Rel}}" href="{{.Manifest.Href}}">
{{range .Metas}}<meta name="{{.Name}}" content="{{.Content}}">
{{end}}{{end}}`

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Site.Name}}</title>
{{template "fragment" .Head}}</head>
<body>
    <h1>Welcome to {{.Site.Name}}</h1>
{{- if .Site.Description}}
    <p>{{.Site.Description}}</p>
{{- end}}
    <p>Your favicons have been generated successfully!</p>
    <p>Check the browser tab to see your favicon in action.</p>
</body>
</html>
`

// pages holds both templates; index.html embeds the fragment verbatim.
var pages = template.Must(template.Must(template.New("markup").Parse(fragmentTemplate)).
	New("index").Parse(indexTemplate))

// Fragment renders the <head> snippet users paste into their own pages.
// It is the same markup index.html carries.
func Fragment(assets []pipeline.GeneratedAsset, site config.Site) (string, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "fragment", BuildHead(assets, site)); err != nil {
		return "", fmt.Errorf("render fragment: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// RenderIndex renders the demo page.
func RenderIndex(assets []pipeline.GeneratedAsset, site config.Site) ([]byte, error) {
	var buf bytes.Buffer
	err := pages.ExecuteTemplate(&buf, "index", struct {
		Site config.Site
		Head Head
	}{site, BuildHead(assets, site)})
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteIndex renders and writes index.html to path.
func WriteIndex(path string, assets []pipeline.GeneratedAsset, site config.Site) (pipeline.GeneratedFile, error) {
	data, err := RenderIndex(assets, site)
	if err != nil {
		return pipeline.GeneratedFile{}, err
	}
	return pipeline.WriteCompanion(path, data)
}
