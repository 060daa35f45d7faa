package ds

import "strings"

// RGBA builds a color. Red, green and blue range over 0–255 and alpha over 0–1,
// the convention used by the visualization service.
func RGBA(r, g, b uint8, a float32) [4]float32 {
	return [4]float32{float32(r), float32(g), float32(b), a}
}

// Named colors.
var (
	ColorBlack   = RGBA(0, 0, 0, 1)
	ColorWhite   = RGBA(255, 255, 255, 1)
	ColorRed     = RGBA(255, 0, 0, 1)
	ColorGreen   = RGBA(0, 128, 0, 1)
	ColorBlue    = RGBA(0, 0, 255, 1)
	ColorYellow  = RGBA(255, 255, 0, 1)
	ColorCyan    = RGBA(0, 255, 255, 1)
	ColorMagenta = RGBA(255, 0, 255, 1)
	ColorOrange  = RGBA(255, 165, 0, 1)
	ColorPurple  = RGBA(128, 0, 128, 1)
	ColorGray    = RGBA(128, 128, 128, 1)
	ColorBrown   = RGBA(165, 42, 42, 1)
	ColorPink    = RGBA(255, 192, 203, 1)
)

var namedColors = map[string][4]float32{
	"black":   ColorBlack,
	"white":   ColorWhite,
	"red":     ColorRed,
	"green":   ColorGreen,
	"blue":    ColorBlue,
	"yellow":  ColorYellow,
	"cyan":    ColorCyan,
	"magenta": ColorMagenta,
	"orange":  ColorOrange,
	"purple":  ColorPurple,
	"gray":    ColorGray,
	"grey":    ColorGray,
	"brown":   ColorBrown,
	"pink":    ColorPink,
}

// NamedColor looks up a color by case-insensitive name.
func NamedColor(name string) ([4]float32, bool) {
	c, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}
