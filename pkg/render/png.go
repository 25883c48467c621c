// Native PNG rendering. Mirrors the SVG output using Go's image packages.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/curve-toolkit/pkg/editor"
	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

// supersample is the factor the image is drawn at before downsampling.
const supersample = 4

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width        int     // output width in pixels, 0 = canvas width
	Height       int     // output height in pixels, 0 = canvas height
	Title        string  // drawn centred at the top
	LineWidth    float64 // curve width in output pixels
	HandleRadius float64 // 0 hides handles
	Labels       bool    // draw channel names in the top-left corner
	FontSize     int
	Steps        int // flattening steps per cubic segment
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		LineWidth:    2,
		HandleRadius: 4,
		Labels:       true,
		FontSize:     12,
		Steps:        24,
	}
}

// renderContext holds rendering parameters including scale
type renderContext struct {
	img       *image.RGBA
	scale     float64 // supersampling factor
	sx, sy    float64 // render space to image pixels
	lineWidth float64 // scaled
	face      font.Face
}

func newRenderContext(img *image.RGBA, scale int, fontSize int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return &renderContext{
		img:   img,
		scale: float64(scale),
		face:  face,
	}, nil
}

// pt maps a render-space point to image pixels.
func (ctx *renderContext) pt(p spline.Point) (float64, float64) {
	return p.X * ctx.sx, p.Y * ctx.sy
}

// PNG renders every channel of the session to w as a PNG image.
// It draws at 4x size and downsamples for smoother output.
func PNG(sess *editor.Session, w io.Writer, opts PNGOptions) error {
	img, err := Image(sess, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image renders the session to an image of the requested size.
func Image(sess *editor.Session, opts PNGOptions) (*image.RGBA, error) {
	cfg := sess.Config()
	if opts.Width <= 0 {
		opts.Width = int(math.Round(cfg.SizeX))
	}
	if opts.Height <= 0 {
		opts.Height = int(math.Round(cfg.SizeY))
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 2
	}
	if opts.Steps <= 0 {
		opts.Steps = 24
	}

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*supersample, opts.Height*supersample))
	ctx, err := newRenderContext(large, supersample, opts.FontSize)
	if err != nil {
		return nil, err
	}
	ctx.sx = float64(opts.Width*supersample) / cfg.SizeX
	ctx.sy = float64(opts.Height*supersample) / cfg.SizeY

	draw.Draw(large, large.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)
	drawGrid(ctx, cfg)

	sch := sess.Scheme()
	for _, i := range drawOrder(sess) {
		el := sess.Element(i)
		col := rgba(ChannelColor(sch.Channels[i].Class))

		ctx.lineWidth = opts.LineWidth * ctx.scale
		if i == sess.Selected() {
			ctx.lineWidth *= 1.5
		}
		drawPolyline(ctx, el.Path.Flatten(opts.Steps), col)

		if opts.HandleRadius > 0 {
			for _, p := range el.Points {
				x, y := ctx.pt(p)
				drawDisc(ctx, x, y, opts.HandleRadius*ctx.scale, col)
			}
		}
	}

	if opts.Labels {
		lineHeight := float64(opts.FontSize) * 1.4 * ctx.scale
		for i, ch := range sch.Channels {
			y := 8*ctx.scale + lineHeight*float64(i+1)
			drawText(ctx, int(8*ctx.scale), int(y), ch.Name, rgba(ChannelColor(ch.Class)))
		}
	}
	if opts.Title != "" {
		drawTextCentered(ctx, large.Bounds().Dx()/2, int(20*ctx.scale), opts.Title, colorText)
	}

	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

// drawGrid draws the same grid as the SVG renderer, one pixel wide.
func drawGrid(ctx *renderContext, cfg editor.Config) {
	ctx.lineWidth = ctx.scale
	for i := 1; float64(i) < cfg.XScale; i++ {
		x, _ := ctx.pt(spline.Point{X: float64(i) / cfg.XScale * cfg.SizeX})
		drawLine(ctx, x, 0, x, float64(ctx.img.Bounds().Dy()), colorGrid)
	}
	for i := 1; i < 10; i++ {
		_, y := ctx.pt(spline.Point{Y: float64(i) / 10 * cfg.SizeY})
		drawLine(ctx, 0, y, float64(ctx.img.Bounds().Dx()), y, colorGrid)
	}
}

// drawPolyline draws the flattened curve in render space.
func drawPolyline(ctx *renderContext, pts []spline.Point, c color.Color) {
	for i := 1; i < len(pts); i++ {
		x1, y1 := ctx.pt(pts[i-1])
		x2, y2 := ctx.pt(pts[i])
		drawLine(ctx, x1, y1, x2, y2, c)
	}
}

// drawDisc fills a circle.
func drawDisc(ctx *renderContext, cx, cy, r float64, c color.Color) {
	for dy := -r; dy <= r; dy++ {
		xExtent := math.Sqrt(r*r - dy*dy)
		for dx := -xExtent; dx <= xExtent; dx++ {
			ctx.img.Set(int(cx+dx), int(cy+dy), c)
		}
	}
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	halfThick := ctx.lineWidth / 2

	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	steps := math.Max(math.Abs(dx), math.Abs(dy))
	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawText draws text with its baseline starting at (x, y).
func drawText(ctx *renderContext, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawTextCentered draws text horizontally centred on x.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()
	drawText(ctx, x-width/2, y, text, c)
}
