package catalog

import (
	"fmt"
	"strings"
)

// Category classifies how important an icon is. Used for output filtering.
type Category uint8

const (
	Required Category = iota
	Recommended
	Optional
	Legacy
)

var categoryNames = [...]string{"Required", "Recommended", "Optional", "Legacy"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", c)
}

// Role says where a platform looks for the icon.
type Role uint8

const (
	RoleFavicon Role = iota
	RoleAppleTouch
	RoleAndroidChrome
	RoleMSTile
)

var roleNames = [...]string{"favicon", "appleTouch", "androidChrome", "msTile"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", r)
}

// Format is the container an entry is emitted as.
type Format uint8

const (
	PNG Format = iota
	ICO
	SVG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case ICO:
		return "ico"
	case SVG:
		return "svg"
	}
	return fmt.Sprintf("Format(%d)", f)
}

// MIMEType returns the media type used in link tags and manifests.
func (f Format) MIMEType() string {
	switch f {
	case ICO:
		return "image/x-icon"
	case SVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// DefaultPrefix is the filename stem that a custom prefix replaces.
const DefaultPrefix = "favicon"

// ICOSizes are the frames bundled into the .ico container, smallest first.
var ICOSizes = []int{16, 32, 48}

// SizeSpec describes one target asset.
type SizeSpec struct {
	Width           int
	Height          int
	FilenamePattern string
	Category        Category
	Role            Role
	Format          Format
	Usage           string
}

// Filename resolves the pattern under the given prefix. Only patterns that
// start with the default "favicon" stem are affected.
func (s SizeSpec) Filename(prefix string) string {
	if prefix == "" || !strings.HasPrefix(s.FilenamePattern, DefaultPrefix) {
		return s.FilenamePattern
	}
	return prefix + strings.TrimPrefix(s.FilenamePattern, DefaultPrefix)
}

// Sizes returns the value of an HTML/manifest "sizes" attribute.
func (s SizeSpec) Sizes() string {
	switch s.Format {
	case SVG:
		return "any"
	case ICO:
		parts := make([]string, len(ICOSizes))
		for i, n := range ICOSizes {
			parts[i] = fmt.Sprintf("%dx%d", n, n)
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Label is the short size column shown in tables.
func (s SizeSpec) Label() string {
	switch s.Format {
	case SVG:
		return "SVG"
	case ICO:
		return "ICO"
	}
	return fmt.Sprintf("%d×%d", s.Width, s.Height)
}

func square(size int, stem string, cat Category, role Role, usage string) SizeSpec {
	return SizeSpec{
		Width:           size,
		Height:          size,
		FilenamePattern: fmt.Sprintf("%s-%dx%d.png", stem, size, size),
		Category:        cat,
		Role:            role,
		Format:          PNG,
		Usage:           usage,
	}
}

// entries is the fixed, ordered catalog. Order drives emission, HTML tag
// order and report order.
var entries = []SizeSpec{
	{Width: 48, Height: 48, FilenamePattern: "favicon.ico", Category: Required, Role: RoleFavicon, Format: ICO,
		Usage: "Windows icon format. Contains 16, 32 and 48 px frames in one file."},
	{FilenamePattern: "favicon.svg", Category: Required, Role: RoleFavicon, Format: SVG,
		Usage: "Scalable vector favicon. Only emitted for vector sources."},
	square(16, "favicon", Required, RoleFavicon, "Browser tab favicon (classic). Minimum requirement for all browsers."),
	square(32, "favicon", Recommended, RoleFavicon, "High-DPI favicons and pinned tabs."),
	square(48, "favicon", Optional, RoleFavicon, "Windows site icons. Same size as the largest .ico frame."),
	square(64, "favicon", Optional, RoleFavicon, "Windows 7+ tile icon (legacy). Rarely used now."),
	square(96, "favicon", Optional, RoleFavicon, "Android 2.3+ launcher and Google TV."),
	square(128, "favicon", Optional, RoleFavicon, "Chrome Web Store app icon."),
	square(256, "favicon", Optional, RoleFavicon, "Windows and Linux high-res desktop icons."),
	square(1024, "favicon", Optional, RoleFavicon, "App store artwork. Not used by browsers."),
	square(57, "apple-touch-icon", Legacy, RoleAppleTouch, "iOS 6 iPhone home screen."),
	square(72, "apple-touch-icon", Legacy, RoleAppleTouch, "iOS 6 iPad home screen."),
	square(114, "apple-touch-icon", Optional, RoleAppleTouch, "iPhone Retina (iOS 4-6)."),
	square(120, "apple-touch-icon", Recommended, RoleAppleTouch, "iPhone Retina (iOS 7+)."),
	square(152, "apple-touch-icon", Recommended, RoleAppleTouch, "iPad Retina (iOS 7+)."),
	square(167, "apple-touch-icon", Recommended, RoleAppleTouch, "iPad Pro Retina."),
	square(180, "apple-touch-icon", Required, RoleAppleTouch, "iOS Safari home screen (iOS 8+)."),
	square(144, "mstile", Recommended, RoleMSTile, "Windows 8+ start screen tile."),
	square(150, "mstile", Optional, RoleMSTile, "Windows 10 medium tile."),
	square(192, "android-chrome", Required, RoleAndroidChrome, "Android Chrome home screen and PWA icon."),
	square(384, "android-chrome", Optional, RoleAndroidChrome, "Android launcher on high-DPI devices."),
	square(512, "android-chrome", Required, RoleAndroidChrome, "PWA splash screen and install dialog."),
}

func init() {
	if err := CheckUnique(DefaultPrefix); err != nil {
		panic(err)
	}
}

// All returns a copy of the catalog in emission order.
func All() []SizeSpec {
	out := make([]SizeSpec, len(entries))
	copy(out, entries)
	return out
}

// Select returns the entries whose category is in f, in catalog order.
func Select(f Filter) []SizeSpec {
	var out []SizeSpec
	for _, e := range entries {
		if f.Has(e.Category) {
			out = append(out, e)
		}
	}
	return out
}

// CheckUnique reports an error if two entries resolve to the same filename
// under prefix.
func CheckUnique(prefix string) error {
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		name := e.Filename(prefix)
		if j, ok := seen[name]; ok {
			return fmt.Errorf("catalog entries %d and %d share filename %q", j, i, name)
		}
		seen[name] = i
	}
	return nil
}

// ValidatePrefix checks that prefix is usable as a filename stem.
func ValidatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("prefix must not be empty")
	case prefix == "." || strings.Contains(prefix, ".."):
		return fmt.Errorf("prefix %q must not contain '..'", prefix)
	case strings.ContainsAny(prefix, `/\`):
		return fmt.Errorf("prefix %q must not contain path separators", prefix)
	case strings.ContainsAny(prefix, " \t\r\n"):
		return fmt.Errorf("prefix %q must not contain whitespace", prefix)
	}
	return CheckUnique(prefix)
}

// MaxDimension returns the largest pixel size any of specs needs. The ICO
// entry counts as its largest frame; the SVG entry counts as zero.
func MaxDimension(specs []SizeSpec) int {
	m := 0
	for _, s := range specs {
		d := s.Width
		if s.Height > d {
			d = s.Height
		}
		if s.Format == ICO {
			d = ICOSizes[len(ICOSizes)-1]
		}
		if d > m {
			m = d
		}
	}
	return m
}
