// Package scheme provides the channel data edited by the curve tools: named
// channels of value-space points and the built-in default scheme.
package scheme

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

var (
	ErrNoChannels       = errors.New("scheme has no channels")
	ErrEmptyChannel     = errors.New("channel has no points")
	ErrDuplicateChannel = errors.New("duplicate channel name")
)

// Channel is one named curve. Points are in value space and ordered by
// ascending x.
type Channel struct {
	Name   string
	Class  string // style tag used by renderers
	Points []spline.Point
}

// Scheme is an ordered set of channels.
type Scheme struct {
	Name     string
	Channels []Channel
}

// RenderPoints maps the channel's points into frame f, in order.
func (c *Channel) RenderPoints(f spline.Frame) []spline.Point {
	return f.RenderPoints(c.Points)
}

// Path synthesizes the channel's periodic curve in frame f.
func (c *Channel) Path(f spline.Frame) spline.Path {
	return spline.Synthesize(c.RenderPoints(f), f.SizeX)
}

// SortPoints restores ascending x order after edits.
func (c *Channel) SortPoints() {
	sort.SliceStable(c.Points, func(i, j int) bool {
		return c.Points[i].X < c.Points[j].X
	})
}

// Index returns the position of the channel called name, or -1.
func (s *Scheme) Index(name string) int {
	for i := range s.Channels {
		if s.Channels[i].Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the scheme.
func (s *Scheme) Clone() *Scheme {
	out := &Scheme{
		Name:     s.Name,
		Channels: make([]Channel, len(s.Channels)),
	}
	for i, c := range s.Channels {
		out.Channels[i] = Channel{
			Name:   c.Name,
			Class:  c.Class,
			Points: make([]spline.Point, len(c.Points)),
		}
		copy(out.Channels[i].Points, c.Points)
	}
	return out
}

// Validate checks the invariants a loaded scheme must satisfy before it is
// handed to an editor.
func (s *Scheme) Validate() error {
	if len(s.Channels) == 0 {
		return ErrNoChannels
	}
	seen := make(map[string]bool)
	for _, c := range s.Channels {
		if len(c.Points) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyChannel, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateChannel, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Default returns the built-in red, green and blue scheme.
func Default() *Scheme {
	wave := func(ys ...float64) []spline.Point {
		pts := make([]spline.Point, len(ys))
		for i, y := range ys {
			pts[i] = spline.Point{X: float64(i + 1), Y: y}
		}
		return pts
	}

	return &Scheme{
		Name: "default",
		Channels: []Channel{
			{
				Name:   "Red",
				Class:  "red",
				Points: wave(10, 20, 10, 40, 10, 100, 10, 40, 10, 20, 40),
			},
			{
				Name:   "Green",
				Class:  "green",
				Points: wave(10, 20, 10, 40, 10, 20, 10, 40, 10, 20, 40),
			},
			{
				Name:   "Blue",
				Class:  "blue",
				Points: wave(10, 20, 10, 40, 10, 20, 10, 40, 10, 20, 40, 10),
			},
		},
	}
}
