package spline

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"
)

// fuzzPoints decodes data into render points on a 500x300 canvas, four
// bytes per point.
func fuzzPoints(data []byte) []Point {
	pts := make([]Point, 0, len(data)/4)
	for len(data) >= 4 {
		x := binary.BigEndian.Uint16(data[0:2])
		y := binary.BigEndian.Uint16(data[2:4])
		pts = append(pts, Point{float64(x % 501), float64(y % 301)})
		data = data[4:]
	}
	return pts
}

// FuzzSynthesize checks the structure of synthesized paths and the seam.
// Run with: go test -fuzz=FuzzSynthesize ./pkg/spline/
func FuzzSynthesize(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 42, 1, 14})
	f.Add([]byte{0, 42, 1, 14, 0, 83, 0, 240, 0, 125, 1, 14})
	f.Add([]byte{0, 0, 0, 0, 1, 244, 1, 44})
	f.Add([]byte{0, 100, 0, 100, 0, 100, 0, 100, 0, 100, 0, 100})
	f.Add([]byte{255, 255, 255, 255, 0, 1, 0, 1, 7})

	f.Fuzz(func(t *testing.T, data []byte) {
		pts := fuzzPoints(data)
		path := Synthesize(pts, 500)

		switch len(pts) {
		case 0:
			if path != nil {
				t.Fatalf("empty input gave %v", path)
			}
			return
		case 1:
			if len(path) != 1 || path[0].Kind != MoveToKind {
				t.Fatalf("single point gave %v", path)
			}
			return
		}

		segs := path.Segments()
		if len(segs) != len(pts)+1 {
			t.Fatalf("got %d segments for %d points", len(segs), len(pts))
		}
		if !strings.HasPrefix(path.String(), "M ") {
			t.Fatalf("path data %q does not start with a move", path.String())
		}

		for _, s := range segs {
			for _, p := range []Point{s.P0, s.P1, s.P2, s.P3} {
				if math.IsNaN(p.X) || math.IsNaN(p.Y) {
					t.Fatalf("NaN in segment %v", s)
				}
			}
		}

		first := segs[0]
		last := segs[len(segs)-1]
		leaving := first.P1.Sub(first.P0)
		arriving := last.P3.Sub(last.P2)
		if math.Abs(leaving.X-arriving.X) > 1e-9 || math.Abs(leaving.Y-arriving.Y) > 1e-9 {
			t.Fatalf("seam offsets differ: %v vs %v", leaving, arriving)
		}
	})
}
