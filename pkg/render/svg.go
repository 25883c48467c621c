package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/ha1tch/curve-toolkit/pkg/editor"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Title        string  // document title, drawn above the plot
	Grid         bool    // draw one vertical line per x unit and one horizontal line per tenth of y
	StrokeWidth  float64 // curve stroke width; the selected channel is drawn 1.5x thicker
	HandleRadius float64 // radius of point handles, 0 hides them
	Precision    int     // decimals in path data, <= 0 for shortest exact
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Grid:         true,
		StrokeWidth:  2,
		HandleRadius: 4,
		Precision:    2,
	}
}

// drawOrder lists channel indices with the selected channel last.
func drawOrder(sess *editor.Session) []int {
	n := len(sess.Elements())
	sel := sess.Selected()
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != sel {
			order = append(order, i)
		}
	}
	if sel < n {
		order = append(order, sel)
	}
	return order
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SVG renders every channel of the session as a standalone SVG document
// sized to the canvas. Curves use the committed paths.
func SVG(sess *editor.Session, opts SVGOptions) string {
	if opts.StrokeWidth == 0 {
		opts.StrokeWidth = 2
	}
	cfg := sess.Config()
	sch := sess.Scheme()

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">
<style>
  .grid { stroke: #e6e6e6; stroke-width: 1; }
  .curve { fill: none; stroke-width: %s; stroke-linejoin: round; }
  .selected { stroke-width: %s; }
  .handle { stroke: white; stroke-width: 1; }
  .title { font-family: sans-serif; font-size: 16px; font-weight: bold; text-anchor: middle; fill: #333; }
</style>
`, num(cfg.SizeX), num(cfg.SizeY), num(cfg.SizeX), num(cfg.SizeY),
		num(opts.StrokeWidth), num(opts.StrokeWidth*1.5)))

	sb.WriteString(fmt.Sprintf(`<rect width="%s" height="%s" fill="white"/>
`, num(cfg.SizeX), num(cfg.SizeY)))

	if opts.Grid {
		sb.WriteString("<g class=\"grid\">\n")
		for i := 1; float64(i) < cfg.XScale; i++ {
			x := float64(i) / cfg.XScale * cfg.SizeX
			sb.WriteString(fmt.Sprintf(`  <line x1="%s" y1="0" x2="%s" y2="%s"/>
`, num(x), num(x), num(cfg.SizeY)))
		}
		for i := 1; i < 10; i++ {
			y := float64(i) / 10 * cfg.SizeY
			sb.WriteString(fmt.Sprintf(`  <line x1="0" y1="%s" x2="%s" y2="%s"/>
`, num(y), num(cfg.SizeX), num(y)))
		}
		sb.WriteString("</g>\n")
	}

	for _, i := range drawOrder(sess) {
		ch := sch.Channels[i]
		el := sess.Element(i)
		col := ChannelColor(ch.Class).Hex()

		class := "curve"
		if ch.Class != "" {
			class += " " + html.EscapeString(ch.Class)
		}
		if i == sess.Selected() {
			class += " selected"
		}

		var d strings.Builder
		el.Path.WriteSVG(&d, opts.Precision)
		sb.WriteString(fmt.Sprintf(`<path id="%s" class="%s" stroke="%s" d="%s"/>
`, html.EscapeString(ch.Name), class, col, d.String()))

		if opts.HandleRadius > 0 {
			for _, p := range el.Points {
				sb.WriteString(fmt.Sprintf(`<circle class="handle" cx="%s" cy="%s" r="%s" fill="%s"/>
`, num(p.X), num(p.Y), num(opts.HandleRadius), col))
			}
		}
	}

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%s" y="20" class="title">%s</text>
`, num(cfg.SizeX/2), html.EscapeString(opts.Title)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
