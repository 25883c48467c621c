// Package spline maps curve points between value space and render space and
// synthesizes periodic cubic Bézier paths through them.
package spline

import (
	"fmt"
	"strconv"
)

// Point represents a 2D coordinate. Whether it lives in value space or in
// render space is up to the caller.
type Point struct {
	X, Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns p-o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// coord formats a coordinate pair the way path commands expect it: "x,y".
func coord(p Point, prec int) string {
	return formatFloat(p.X, prec) + "," + formatFloat(p.Y, prec)
}

func formatFloat(v float64, prec int) string {
	var s string
	if prec <= 0 {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'f', prec, 64)
		for len(s) > 0 && s[len(s)-1] == '0' {
			s = s[:len(s)-1]
		}
		if len(s) > 0 && s[len(s)-1] == '.' {
			s = s[:len(s)-1]
		}
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
