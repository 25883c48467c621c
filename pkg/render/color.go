// Package render draws an editing session as an SVG document or a PNG image.
package render

import (
	"hash/fnv"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colours of the named style tags.
var namedColors = map[string]string{
	"red":     "#d62728",
	"green":   "#2ca02c",
	"blue":    "#1f77b4",
	"orange":  "#ff7f0e",
	"purple":  "#9467bd",
	"brown":   "#8c564b",
	"pink":    "#e377c2",
	"gray":    "#7f7f7f",
	"grey":    "#7f7f7f",
	"olive":   "#bcbd22",
	"cyan":    "#17becf",
	"magenta": "#c2185b",
	"yellow":  "#f2c500",
	"black":   "#333333",
}

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorGrid       = color.RGBA{230, 230, 230, 255} // #e6e6e6
	colorText       = color.RGBA{51, 51, 51, 255}    // #333
)

// ChannelColor returns the colour of a channel style tag. Known colour
// names and #rrggbb values map directly; any other tag gets a stable hue
// derived from its text.
func ChannelColor(class string) colorful.Color {
	key := strings.ToLower(strings.TrimSpace(class))
	if hex, ok := namedColors[key]; ok {
		c, _ := colorful.Hex(hex)
		return c
	}
	if strings.HasPrefix(key, "#") && len(key) == 7 {
		if c, err := colorful.Hex(key); err == nil {
			return c
		}
	}

	h := fnv.New32a()
	h.Write([]byte(key))
	hue := float64(h.Sum32() % 360)
	return colorful.Hcl(hue, 0.6, 0.55).Clamped()
}

// rgba converts c to an opaque color.RGBA.
func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}
