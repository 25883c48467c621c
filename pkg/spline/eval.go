// Curve evaluation for synthesized paths: point and tangent lookup,
// flattening and sampled arc length.

package spline

import "math"

// Cubic is a single cubic Bézier segment: start, two controls, end.
type Cubic struct {
	P0, P1, P2, P3 Point
}

// Eval computes the point on the segment at t ∈ [0,1].
func (c Cubic) Eval(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*c.P0.X + 3*mt2*t*c.P1.X + 3*mt*t2*c.P2.X + t3*c.P3.X,
		Y: mt3*c.P0.Y + 3*mt2*t*c.P1.Y + 3*mt*t2*c.P2.Y + t3*c.P3.Y,
	}
}

// Tangent computes the derivative at t.
func (c Cubic) Tangent(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Point{
		X: 3*mt2*(c.P1.X-c.P0.X) + 6*mt*t*(c.P2.X-c.P1.X) + 3*t2*(c.P3.X-c.P2.X),
		Y: 3*mt2*(c.P1.Y-c.P0.Y) + 6*mt*t*(c.P2.Y-c.P1.Y) + 3*t2*(c.P3.Y-c.P2.Y),
	}
}

// locate maps a path-wide t onto a segment index and a local t.
func locate(n int, t float64) (int, float64) {
	segment := int(t * float64(n))
	if segment >= n {
		segment = n - 1
	}
	if segment < 0 {
		segment = 0
	}
	localT := t*float64(n) - float64(segment)
	return segment, math.Max(0, math.Min(1, localT))
}

// Eval computes the point at t ∈ [0,1] along the whole path, each segment
// taking an equal share of t.
func (p Path) Eval(t float64) Point {
	segs := p.Segments()
	if len(segs) == 0 {
		if len(p) > 0 {
			return p[0].End()
		}
		return Point{}
	}
	i, lt := locate(len(segs), t)
	return segs[i].Eval(lt)
}

// Tangent computes the derivative at t along the whole path.
func (p Path) Tangent(t float64) Point {
	segs := p.Segments()
	if len(segs) == 0 {
		return Point{1, 0}
	}
	i, lt := locate(len(segs), t)
	return segs[i].Tangent(lt)
}

// Flatten approximates the path with a polyline, sampling each segment n
// times. The first point is the initial move.
func (p Path) Flatten(n int) []Point {
	if n < 1 {
		n = 1
	}
	segs := p.Segments()
	if len(segs) == 0 {
		if len(p) > 0 {
			return []Point{p[0].End()}
		}
		return nil
	}

	pts := make([]Point, 0, len(segs)*n+1)
	pts = append(pts, segs[0].P0)
	for _, s := range segs {
		for i := 1; i <= n; i++ {
			pts = append(pts, s.Eval(float64(i)/float64(n)))
		}
	}
	return pts
}

// Length approximates the arc length of the path by sampling.
func (p Path) Length() float64 {
	pts := p.Flatten(32)
	length := 0.0
	for i := 1; i < len(pts); i++ {
		length += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	return length
}

// SampleAt returns the curve's y at horizontal position x, taken from the
// first segment whose anchors span x. ok is false when no segment does.
func (p Path) SampleAt(x float64) (y float64, ok bool) {
	for _, s := range p.Segments() {
		lo, hi := s.P0.X, s.P3.X
		if lo > hi {
			lo, hi = hi, lo
		}
		if x < lo || x > hi {
			continue
		}
		if hi == lo {
			return s.P0.Y, true
		}
		// Bisect on t. x is monotone over a segment unless the controls
		// overshoot the anchors, which the smoothing factor keeps small.
		increasing := s.P3.X >= s.P0.X
		t0, t1 := 0.0, 1.0
		for i := 0; i < 40; i++ {
			tm := (t0 + t1) / 2
			if (s.Eval(tm).X < x) == increasing {
				t0 = tm
			} else {
				t1 = tm
			}
		}
		return s.Eval((t0 + t1) / 2).Y, true
	}
	return 0, false
}
