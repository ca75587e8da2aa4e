package chart

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Saturation and lightness shared by every sector color.
const (
	sectorSaturation = 70
	sectorLightness  = 50
)

// Color is an HSL color with an alpha channel.
type Color struct {
	Hue        float64
	Saturation float64
	Lightness  float64
	Alpha      float64
}

// WithAlpha returns a copy of c with the alpha channel replaced.
func (c Color) WithAlpha(alpha float64) Color {
	c.Alpha = alpha
	return c
}

// String renders the color as CSS: hsl(...) when opaque, hsla(...) otherwise.
func (c Color) String() string {
	hue := strconv.FormatFloat(c.Hue, 'f', -1, 64)
	if c.Alpha >= 1 {
		return fmt.Sprintf("hsl(%s, %g%%, %g%%)", hue, c.Saturation, c.Lightness)
	}
	return fmt.Sprintf("hsla(%s, %g%%, %g%%, %.2f)", hue, c.Saturation, c.Lightness, c.Alpha)
}

// MarshalJSON encodes the color as its CSS string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Palette assigns each sector a hue evenly spaced around the color wheel,
// in the order given: hue = rank * 360 / len(sectors).
func Palette(sectors []string) map[string]Color {
	colors := make(map[string]Color, len(sectors))
	n := float64(len(sectors))
	for i, sector := range sectors {
		colors[sector] = Color{
			Hue:        float64(i) * 360 / n,
			Saturation: sectorSaturation,
			Lightness:  sectorLightness,
			Alpha:      1,
		}
	}
	return colors
}
