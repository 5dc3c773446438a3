// Package renderer provides colour handling and the arena background.
package renderer

import (
	"fmt"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// namedColors maps lower-case colour names to their RGB values.
var namedColors = map[string]rl.Color{
	"white":      {R: 255, G: 255, B: 255, A: 255},
	"black":      {R: 0, G: 0, B: 0, A: 255},
	"gray":       {R: 128, G: 128, B: 128, A: 255},
	"grey":       {R: 128, G: 128, B: 128, A: 255},
	"lightgray":  {R: 200, G: 200, B: 200, A: 255},
	"lightgrey":  {R: 200, G: 200, B: 200, A: 255},
	"darkgray":   {R: 80, G: 80, B: 80, A: 255},
	"darkgrey":   {R: 80, G: 80, B: 80, A: 255},
	"red":        {R: 255, G: 0, B: 0, A: 255},
	"green":      {R: 0, G: 255, B: 0, A: 255},
	"darkgreen":  {R: 0, G: 100, B: 0, A: 255},
	"blue":       {R: 0, G: 0, B: 255, A: 255},
	"darkblue":   {R: 0, G: 0, B: 139, A: 255},
	"navy":       {R: 0, G: 0, B: 128, A: 255},
	"skyblue":    {R: 135, G: 206, B: 235, A: 255},
	"cyan":       {R: 0, G: 255, B: 255, A: 255},
	"teal":       {R: 0, G: 128, B: 128, A: 255},
	"yellow":     {R: 255, G: 255, B: 0, A: 255},
	"gold":       {R: 255, G: 215, B: 0, A: 255},
	"orange":     {R: 255, G: 165, B: 0, A: 255},
	"pink":       {R: 255, G: 192, B: 203, A: 255},
	"magenta":    {R: 255, G: 0, B: 255, A: 255},
	"purple":     {R: 128, G: 0, B: 128, A: 255},
	"violet":     {R: 238, G: 130, B: 238, A: 255},
	"brown":      {R: 165, G: 42, B: 42, A: 255},
	"maroon":     {R: 128, G: 0, B: 0, A: 255},
	"beige":      {R: 245, G: 245, B: 220, A: 255},
	"olive":      {R: 128, G: 128, B: 0, A: 255},
	"lime":       {R: 50, G: 205, B: 50, A: 255},
	"darkpurple": {R: 112, G: 31, B: 126, A: 255},
}

// ParseColor parses a colour name or a #rgb / #rrggbb hex string.
func ParseColor(s string) (rl.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return rl.Color{}, fmt.Errorf("unknown colour %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rl.Color{}, fmt.Errorf("colour %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rl.Color{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return rl.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// ColorOr parses s, returning fallback when s is empty or invalid.
func ColorOr(s string, fallback rl.Color) rl.Color {
	if s == "" {
		return fallback
	}
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// Luminance returns the perceived brightness of c in [0, 255].
func Luminance(c rl.Color) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// ContrastColor returns black on light colours and white on dark ones.
func ContrastColor(c rl.Color) rl.Color {
	if Luminance(c) >= 128 {
		return rl.Black
	}
	return rl.White
}
