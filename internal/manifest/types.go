package manifest

// Filename is the name the web app manifest is written under.
const Filename = "site.webmanifest"

// MIMEType is the media type for the manifest link tag.
const MIMEType = "application/manifest+json"

// Manifest is the W3C web app manifest referenced from index.html.
type Manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description,omitempty"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	BackgroundColor string `json:"background_color"`
	ThemeColor      string `json:"theme_color"`
	Icons           []Icon `json:"icons"`
}

// Icon is one entry of the manifest icons array.
type Icon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"` // "192x192"
	Type  string `json:"type"`
}
