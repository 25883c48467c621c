package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/ha1tch/curve-toolkit/pkg/editor"
	"github.com/ha1tch/curve-toolkit/pkg/scheme"
	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

func newSession() *editor.Session {
	return editor.New(nil, editor.DefaultConfig())
}

func TestChannelColor(t *testing.T) {
	tests := []struct {
		class string
		want  string
	}{
		{"red", "#d62728"},
		{"Green", "#2ca02c"},
		{" blue ", "#1f77b4"},
		{"#ff8000", "#ff8000"},
		{"#FF8000", "#ff8000"},
	}
	for _, tt := range tests {
		if got := ChannelColor(tt.class).Hex(); got != tt.want {
			t.Errorf("ChannelColor(%q) = %s, want %s", tt.class, got, tt.want)
		}
	}
}

func TestChannelColorDerived(t *testing.T) {
	a := ChannelColor("alpha")
	if b := ChannelColor("alpha"); a.Hex() != b.Hex() {
		t.Errorf("derived colour not stable: %s vs %s", a.Hex(), b.Hex())
	}
	if !a.IsValid() {
		t.Errorf("derived colour out of gamut: %v", a)
	}
	if ChannelColor("#12345").Hex() == "#012345" {
		t.Error("short hex should not parse as a colour")
	}
}

func TestSVGStructure(t *testing.T) {
	svg := SVG(newSession(), DefaultSVGOptions())

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("not a standalone SVG document")
	}
	if !strings.Contains(svg, `viewBox="0 0 500 300"`) {
		t.Error("viewBox should match the canvas")
	}
	if n := strings.Count(svg, "<path "); n != 3 {
		t.Errorf("got %d paths, want one per channel", n)
	}
	if n := strings.Count(svg, "<circle "); n != 34 {
		t.Errorf("got %d handles, want 34", n)
	}
	if !strings.Contains(svg, `d="M -42,180 C -33.6,189 `) {
		t.Error("red path data missing")
	}
}

func TestSVGSelectedLast(t *testing.T) {
	sess := newSession()
	sess.Select(1)
	svg := SVG(sess, SVGOptions{})

	green := strings.Index(svg, `id="Green"`)
	red := strings.Index(svg, `id="Red"`)
	blue := strings.Index(svg, `id="Blue"`)
	if green < red || green < blue {
		t.Errorf("selected channel not drawn last: red=%d green=%d blue=%d", red, green, blue)
	}
	if !strings.Contains(svg, `class="curve green selected"`) {
		t.Error("selected channel not marked")
	}
	if strings.Contains(svg, "<circle") {
		t.Error("handles drawn with zero radius")
	}
	if strings.Contains(svg, "<line") {
		t.Error("grid drawn when disabled")
	}
}

func TestSVGEscapes(t *testing.T) {
	sch := &scheme.Scheme{Channels: []scheme.Channel{{
		Name:   "a<b",
		Class:  "x\"y",
		Points: []spline.Point{{X: 1, Y: 1}, {X: 5, Y: 50}},
	}}}
	sess := editor.New(sch, editor.DefaultConfig())
	svg := SVG(sess, SVGOptions{Title: "R&D"})

	for _, want := range []string{"a&lt;b", "x&#34;y", "R&amp;D"} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing escaped %q", want)
		}
	}
}

func TestPNGSize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"canvas", 0, 0},
		{"half", 250, 150},
		{"wide", 800, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultPNGOptions()
			opts.Width, opts.Height = tt.w, tt.h
			opts.Title = "default"

			var buf bytes.Buffer
			if err := PNG(newSession(), &buf, opts); err != nil {
				t.Fatalf("PNG: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			wantW, wantH := tt.w, tt.h
			if wantW == 0 {
				wantW, wantH = 500, 300
			}
			b := img.Bounds()
			if b.Dx() != wantW || b.Dy() != wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
			}
		})
	}
}

func TestImageDrawsHandles(t *testing.T) {
	img, err := Image(newSession(), DefaultPNGOptions())
	if err != nil {
		t.Fatalf("Image: %v", err)
	}

	// The red peak at (250,0) is clear of the other channels.
	c := img.RGBAAt(250, 2)
	if c.R <= c.G || c.R <= c.B {
		t.Errorf("pixel at red peak = %v, want red dominant", c)
	}

	// Far from every curve the background stays white.
	bg := img.RGBAAt(480, 75)
	if bg.R < 240 || bg.G < 240 || bg.B < 240 {
		t.Errorf("background pixel = %v, want white", bg)
	}
}
