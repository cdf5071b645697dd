package common

import (
	"fmt"
	"math"
	"strings"
)

// Color represents the color of a single LED as 8-bit RGB channel
// intensities.  On the wire a color occupies four bytes, the fourth being
// padding.
type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// ColorFromHSV returns the Color closest to the supplied hue (degrees,
// 0-360), saturation and value (both 0-1).  The conversion is lossless
// within 8-bit rounding.
func ColorFromHSV(hue, saturation, value float64) Color {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	c := value * saturation
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	m := value - c

	var r, g, b float64
	switch {
	case hue < 60:
		r, g, b = c, x, 0
	case hue < 120:
		r, g, b = x, c, 0
	case hue < 180:
		r, g, b = 0, c, x
	case hue < 240:
		r, g, b = 0, x, c
	case hue < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return Color{
		Red:   uint8(math.Round((r + m) * 255)),
		Green: uint8(math.Round((g + m) * 255)),
		Blue:  uint8(math.Round((b + m) * 255)),
	}
}

// ColorFromHex parses a hexadecimal color string, with or without a
// leading `#`.
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, `#`)
	if len(hex) != 6 {
		return Color{}, fmt.Errorf(`invalid hex color %q`, hex)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(hex), `%02x%02x%02x`, &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf(`invalid hex color %q`, hex)
	}
	return Color{Red: r, Green: g, Blue: b}, nil
}

// HSV returns the hue (degrees, 0-360), saturation and value (both 0-1)
// of the color.
func (c Color) HSV() (hue, saturation, value float64) {
	r := float64(c.Red) / 255
	g := float64(c.Green) / 255
	b := float64(c.Blue) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	switch {
	case delta == 0:
		hue = 0
	case max == r:
		hue = 60 * math.Mod((g-b)/delta, 6)
	case max == g:
		hue = 60 * ((b-r)/delta + 2)
	default:
		hue = 60 * ((r-g)/delta + 4)
	}
	if hue < 0 {
		hue += 360
	}

	if max > 0 {
		saturation = delta / max
	}

	return hue, saturation, max
}

// Hex returns the color as a hexadecimal string with a leading `#`.
func (c Color) Hex() string {
	return fmt.Sprintf(`#%02x%02x%02x`, c.Red, c.Green, c.Blue)
}

func (c Color) String() string {
	return c.Hex()
}
