package spline

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Smoothing is the fraction of the opposed-line length used as the distance
// between an anchor and its control points.
const Smoothing = 0.1

// neighbor is an optional adjacent point. Sequence boundaries have none.
type neighbor struct {
	pt Point
	ok bool
}

func neighborAt(pts []Point, i int) neighbor {
	if i < 0 || i >= len(pts) {
		return neighbor{}
	}
	return neighbor{pt: pts[i], ok: true}
}

// or returns the neighbor's point, or def if there is none.
func (n neighbor) or(def Point) Point {
	if n.ok {
		return n.pt
	}
	return def
}

// opposedLine returns the length and angle of the line from a to b.
func opposedLine(a, b Point) (length, angle float64) {
	v := mgl64.Vec2{b.X, b.Y}.Sub(mgl64.Vec2{a.X, a.Y})
	return v.Len(), math.Atan2(v.Y(), v.X())
}

// controlPoint places a control point next to current, along the line
// joining its neighbours. reverse points it backwards, for the control that
// ends a segment.
func controlPoint(current Point, prev, next neighbor, reverse bool) Point {
	length, angle := opposedLine(prev.or(current), next.or(current))
	if reverse {
		angle += math.Pi
	}
	length *= Smoothing

	off := mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(length)
	return Point{X: current.X + off.X(), Y: current.Y + off.Y()}
}

// sortByX sorts in place by ascending x. Ties keep their order.
func sortByX(pts []Point) {
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].X < pts[j].X
	})
}

// WrapExtend returns the points sorted by x with one ghost on each side: the
// last point shifted one period left and the first point shifted one period
// right. points is not modified.
func WrapExtend(points []Point, sizeX float64) []Point {
	if len(points) == 0 {
		return nil
	}
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sortByX(sorted)

	first := sorted[0]
	last := sorted[len(sorted)-1]

	ext := make([]Point, 0, len(sorted)+2)
	ext = append(ext, Point{X: last.X - sizeX, Y: last.Y})
	ext = append(ext, sorted...)
	ext = append(ext, Point{X: first.X + sizeX, Y: first.Y})
	return ext
}

// Synthesize builds a smooth curve through points that repeats every sizeX
// units horizontally. Points are render-space anchors in any order; the
// result starts with a move to the left ghost and holds one cubic segment per
// pair of adjacent anchors, n+1 segments for n points.
//
// A single point yields only the move; an empty slice yields a nil Path.
func Synthesize(points []Point, sizeX float64) Path {
	if len(points) == 0 {
		return nil
	}

	a := WrapExtend(points, sizeX)
	// Edits can move an anchor past a ghost.
	sortByX(a)

	if len(points) == 1 {
		return Path{MoveTo(a[0])}
	}

	path := make(Path, 0, len(a))
	path = append(path, MoveTo(a[0]))
	for i := 1; i < len(a); i++ {
		start := controlPoint(a[i-1], neighborAt(a, i-2), neighborAt(a, i), false)
		end := controlPoint(a[i], neighborAt(a, i-1), neighborAt(a, i+1), true)
		path = append(path, CubicTo(start, end, a[i]))
	}
	return path
}
