// Package editor implements an editing session over a scheme: it keeps the
// render-space cache of every channel and applies drag previews and commits
// to single points.
package editor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ha1tch/curve-toolkit/pkg/scheme"
	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

// Element is the render cache of one channel.
type Element struct {
	Points []spline.Point // render-space anchors, one per channel point
	Path   spline.Path    // synthesized from Points
	Draft  spline.Path    // preview of a drag in progress, nil otherwise
}

// Display returns the path to draw: the draft while a drag is in progress,
// the committed path otherwise.
func (e *Element) Display() spline.Path {
	if e.Draft != nil {
		return e.Draft
	}
	return e.Path
}

// Session owns a scheme and its render cache. It is not safe for concurrent
// use; gestures are expected to arrive one at a time.
type Session struct {
	scheme   *scheme.Scheme
	cfg      Config
	elements []Element
	selected int
	modified bool

	undoStack []snapshot
	redoStack []snapshot
	undoLimit int

	log *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithUndoLimit bounds the number of undo levels kept.
func WithUndoLimit(n int) Option {
	return func(s *Session) {
		s.undoLimit = n
	}
}

// New starts a session over sch. A nil scheme starts from the default
// scheme. The session takes ownership of sch.
func New(sch *scheme.Scheme, cfg Config, opts ...Option) *Session {
	if sch == nil {
		sch = scheme.Default()
	}
	s := &Session{
		scheme:    sch,
		cfg:       cfg,
		undoLimit: maxUndoLevels,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rebuild()
	return s
}

// rebuild derives every element from the channel data.
func (s *Session) rebuild() {
	s.elements = make([]Element, len(s.scheme.Channels))
	for i := range s.scheme.Channels {
		pts := s.scheme.Channels[i].RenderPoints(s.cfg.Frame)
		s.elements[i] = Element{
			Points: pts,
			Path:   spline.Synthesize(pts, s.cfg.SizeX),
		}
	}
}

// Scheme returns the edited scheme.
func (s *Session) Scheme() *scheme.Scheme { return s.scheme }

// Config returns the active configuration.
func (s *Session) Config() Config { return s.cfg }

// Elements returns the render cache, one element per channel. Callers must
// not modify it.
func (s *Session) Elements() []Element { return s.elements }

// Element returns the render cache of channel ch.
func (s *Session) Element(ch int) *Element { return &s.elements[ch] }

// Modified reports whether there are commits since the last MarkSaved.
func (s *Session) Modified() bool { return s.modified }

// MarkSaved clears the modified flag.
func (s *Session) MarkSaved() { s.modified = false }

// Select makes ch the channel being edited.
func (s *Session) Select(ch int) {
	s.checkChannel(ch)
	s.selected = ch
}

// Selected returns the channel being edited.
func (s *Session) Selected() int { return s.selected }

// Reconfigure switches to cfg and rebuilds every element. Any drag in
// progress is dropped, and so is the undo history, whose render anchors
// belong to the old canvas.
func (s *Session) Reconfigure(cfg Config) {
	s.cfg = cfg
	s.rebuild()
	s.undoStack = nil
	s.redoStack = nil
	s.log.Debug("reconfigured", "size_x", cfg.SizeX, "size_y", cfg.SizeY,
		"x_scale", cfg.XScale, "y_scale", cfg.YScale, "axis_rule", cfg.AxisRule)
}

func (s *Session) checkChannel(ch int) {
	if ch < 0 || ch >= len(s.elements) {
		panic(fmt.Sprintf("editor: channel %d out of range [0,%d)", ch, len(s.elements)))
	}
}

func (s *Session) checkPoint(ch, idx int) {
	s.checkChannel(ch)
	if n := len(s.elements[ch].Points); idx < 0 || idx >= n {
		panic(fmt.Sprintf("editor: point %d out of range [0,%d) in channel %q",
			idx, n, s.scheme.Channels[ch].Name))
	}
}

// Preview returns the path channel ch would have if point idx were moved by
// d from its committed render position. d is the total displacement of the
// drag so far. The draft is stored on the element for display; channel data
// is left untouched.
func (s *Session) Preview(ch, idx int, d spline.Point) spline.Path {
	s.checkPoint(ch, idx)
	el := &s.elements[ch]

	pts := make([]spline.Point, len(el.Points))
	copy(pts, el.Points)
	pts[idx] = pts[idx].Add(d)

	el.Draft = spline.Synthesize(pts, s.cfg.SizeX)
	return el.Draft
}

// Cancel drops the draft of channel ch, as when a drag is aborted.
func (s *Session) Cancel(ch int) {
	s.checkChannel(ch)
	s.elements[ch].Draft = nil
}

// Commit ends a drag of point idx in channel ch. The new render position is
// base+d clamped to the canvas; the value point is derived from it with the
// configured axis rule. It returns the stored render position.
func (s *Session) Commit(ch, idx int, base, d spline.Point) spline.Point {
	s.checkPoint(ch, idx)
	s.saveSnapshot()

	pos := s.cfg.Clamp(base.Add(d))
	val := s.cfg.CommitValue(pos, s.cfg.AxisRule)

	c := &s.scheme.Channels[ch]
	el := &s.elements[ch]
	old := c.Points[idx]

	c.Points[idx] = val
	el.Points[idx] = pos
	el.Path = spline.Synthesize(el.Points, s.cfg.SizeX)
	el.Draft = nil
	s.modified = true

	s.log.Debug("point committed", "channel", c.Name, "index", idx,
		"from", old, "to", val, "render", pos)
	return pos
}

// MoveBy commits a displacement of point idx relative to its current render
// position.
func (s *Session) MoveBy(ch, idx int, d spline.Point) spline.Point {
	s.checkPoint(ch, idx)
	return s.Commit(ch, idx, s.elements[ch].Points[idx], d)
}

// HitTest returns the index of the point of channel ch closest to p in
// render space, if it lies within radius. It returns -1 otherwise.
func (s *Session) HitTest(ch int, p spline.Point, radius float64) int {
	s.checkChannel(ch)
	best := -1
	bestDist := radius
	for i, q := range s.elements[ch].Points {
		if d := math.Hypot(q.X-p.X, q.Y-p.Y); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
