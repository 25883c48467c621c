package spline

import (
	"fmt"
	"math"
)

// AxisRule selects how a committed render position is turned back into a
// value-space point.
type AxisRule int

const (
	// AxisSwapped derives the value x from the clamped render y. Points are
	// edited as vertical sliders, so the vertical drag drives both axes.
	AxisSwapped AxisRule = iota
	// AxisDirect is the plain inverse of ToRender.
	AxisDirect
)

func (r AxisRule) String() string {
	switch r {
	case AxisSwapped:
		return "swapped"
	case AxisDirect:
		return "direct"
	}
	return fmt.Sprintf("AxisRule(%d)", int(r))
}

// ParseAxisRule parses "swapped" or "direct".
func ParseAxisRule(s string) (AxisRule, error) {
	switch s {
	case "swapped", "":
		return AxisSwapped, nil
	case "direct":
		return AxisDirect, nil
	}
	return 0, fmt.Errorf("unknown axis rule %q", s)
}

// ToRender maps a value-space point onto the render canvas. The y axis is
// inverted: value 0 sits at the bottom of the canvas (sizeY).
func ToRender(p Point, xScale, yScale, sizeX, sizeY float64) Point {
	return Point{
		X: math.Round(sizeX * (0 + p.X/xScale)),
		Y: math.Round(sizeY * (1 - p.Y/yScale)),
	}
}

// ToValue is the inverse of ToRender, without the rounding.
func ToValue(p Point, xScale, yScale, sizeX, sizeY float64) Point {
	return Point{
		X: p.X / sizeX * xScale,
		Y: -(p.Y/sizeY)*yScale + yScale,
	}
}

// Clamp limits p to [0,sizeX] x [0,sizeY].
func Clamp(p Point, sizeX, sizeY float64) Point {
	return Point{
		X: clamp(p.X, 0, sizeX),
		Y: clamp(p.Y, 0, sizeY),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CommitValue converts a clamped render position into the value-space point
// stored on commit.
//
// Under AxisSwapped the value x is taken from the render y, scaled by the
// canvas width: x = y/sizeX*xScale.
func CommitValue(p Point, rule AxisRule, xScale, yScale, sizeX, sizeY float64) Point {
	if rule == AxisDirect {
		return ToValue(p, xScale, yScale, sizeX, sizeY)
	}
	return Point{
		X: +(p.Y / sizeX) * xScale,
		Y: -(p.Y/sizeY)*yScale + yScale,
	}
}

// Frame bundles the canvas size and value scales that every mapping needs.
type Frame struct {
	SizeX  float64 `yaml:"size_x"`
	SizeY  float64 `yaml:"size_y"`
	XScale float64 `yaml:"x_scale"`
	YScale float64 `yaml:"y_scale"`
}

// ToRender maps a value-space point into this frame's canvas.
func (f Frame) ToRender(p Point) Point {
	return ToRender(p, f.XScale, f.YScale, f.SizeX, f.SizeY)
}

// ToValue maps a render point back into value space.
func (f Frame) ToValue(p Point) Point {
	return ToValue(p, f.XScale, f.YScale, f.SizeX, f.SizeY)
}

// Clamp limits p to the canvas.
func (f Frame) Clamp(p Point) Point {
	return Clamp(p, f.SizeX, f.SizeY)
}

// CommitValue applies rule to an already clamped render point.
func (f Frame) CommitValue(p Point, rule AxisRule) Point {
	return CommitValue(p, rule, f.XScale, f.YScale, f.SizeX, f.SizeY)
}

// RenderPoints maps every value point, in order.
func (f Frame) RenderPoints(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = f.ToRender(p)
	}
	return out
}
