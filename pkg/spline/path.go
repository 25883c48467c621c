package spline

import (
	"io"
	"strings"
)

// ElementKind identifies a path command.
type ElementKind int

const (
	MoveToKind ElementKind = iota + 1 // start a subpath at P0
	CubicToKind                       // cubic Bézier with controls P0, P1 ending at P2
)

// Element is one drawing command of a Path.
type Element struct {
	Kind ElementKind
	P0   Point
	P1   Point
	P2   Point
}

// MoveTo returns a move-to command.
func MoveTo(p Point) Element {
	return Element{Kind: MoveToKind, P0: p}
}

// CubicTo returns a curve-to command from the current position to end.
func CubicTo(start, end, anchor Point) Element {
	return Element{Kind: CubicToKind, P0: start, P1: end, P2: anchor}
}

// End returns the pen position after the element has been drawn.
func (el Element) End() Point {
	if el.Kind == CubicToKind {
		return el.P2
	}
	return el.P0
}

// Path is a sequence of drawing commands in absolute render coordinates.
// A nil Path draws nothing.
type Path []Element

// Segments returns the path's cubic segments with explicit start points.
func (p Path) Segments() []Cubic {
	var segs []Cubic
	var pen Point
	for _, el := range p {
		switch el.Kind {
		case MoveToKind:
			pen = el.P0
		case CubicToKind:
			segs = append(segs, Cubic{pen, el.P0, el.P1, el.P2})
			pen = el.P2
		}
	}
	return segs
}

// Anchors returns the on-curve points, including the wrap ghosts.
func (p Path) Anchors() []Point {
	pts := make([]Point, 0, len(p))
	for _, el := range p {
		pts = append(pts, el.End())
	}
	return pts
}

// String renders the path as SVG path data: "M x,y C x,y x,y x,y ...".
func (p Path) String() string {
	var sb strings.Builder
	p.WriteSVG(&sb, 0)
	return sb.String()
}

// WriteSVG writes the path data to w. prec is the maximum number of decimals
// per coordinate; 0 writes the shortest exact representation.
func (p Path) WriteSVG(w io.Writer, prec int) error {
	for i, el := range p {
		var s string
		switch el.Kind {
		case MoveToKind:
			s = "M " + coord(el.P0, prec)
		case CubicToKind:
			s = "C " + coord(el.P0, prec) + " " + coord(el.P1, prec) + " " + coord(el.P2, prec)
		default:
			panic("unreachable")
		}
		if i > 0 {
			s = " " + s
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}
