package colors

import (
	"strconv"
	"strings"
)

// Color is RGBA with channels normalized to [0,1].
type Color [4]float32

// Value is anything the renderer accepts as a color: a Color tuple or a Hex
// string.
type Value interface {
	RGBA() Color
}

var (
	White    = Color{1, 1, 1, 1}
	Red      = Color{1, 0, 0, 1}
	Green    = Color{0, 1, 0, 1}
	Blue     = Color{0, 0, 1, 1}
	Black    = Color{0, 0, 0, 1}
	Magenta  = Color{1, 0, 1, 1}
	Cyan     = Color{0, 1, 1, 1}
	Yellow   = Color{1, 1, 0, 1}
	Gray     = Color{0.5, 0.5, 0.5, 1}
	DarkGray = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) RGBA() Color { return c }

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Bytes returns the 8-bit channels, flooring rgb and rounding alpha.
func (c Color) Bytes() (r, g, b, a uint8) {
	return unit8(c[0]), unit8(c[1]), unit8(c[2]), uint8(clamp01(c[3])*255 + 0.5)
}

// Hex is a "#rgb" or "#rrggbb" color string.
type Hex string

func (h Hex) RGBA() Color { return Parse(string(h)) }

// Parse decodes "#rgb" and "#rrggbb" with alpha forced to 1. Anything else
// yields opaque white.
func Parse(s string) Color {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return White
	}
	switch len(hex) {
	case 3:
		var c Color
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(strings.Repeat(hex[i:i+1], 2), 16, 8)
			if err != nil {
				return White
			}
			c[i] = float32(v) / 255
		}
		c[3] = 1
		return c
	case 6:
		var c Color
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return White
			}
			c[i] = float32(v) / 255
		}
		c[3] = 1
		return c
	}
	return White
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unit8(v float32) uint8 { return uint8(clamp01(v) * 255) }
