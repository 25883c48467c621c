package editor

import (
	"github.com/ha1tch/curve-toolkit/pkg/scheme"
	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

const maxUndoLevels = 50

// snapshot captures channel data and the render anchors. Anchors are kept
// because a commit may store a render position that does not map back from
// the stored value point.
type snapshot struct {
	scheme *scheme.Scheme
	points [][]spline.Point
}

func (s *Session) takeSnapshot() snapshot {
	pts := make([][]spline.Point, len(s.elements))
	for i, el := range s.elements {
		pts[i] = make([]spline.Point, len(el.Points))
		copy(pts[i], el.Points)
	}
	return snapshot{scheme: s.scheme.Clone(), points: pts}
}

func (s *Session) restore(snap snapshot) {
	s.scheme = snap.scheme
	s.elements = make([]Element, len(snap.points))
	for i, pts := range snap.points {
		s.elements[i] = Element{
			Points: pts,
			Path:   spline.Synthesize(pts, s.cfg.SizeX),
		}
	}
	if s.selected >= len(s.elements) {
		s.selected = 0
	}
	s.modified = true
}

// saveSnapshot saves current state for undo and clears the redo stack.
func (s *Session) saveSnapshot() {
	if s.undoLimit <= 0 {
		return
	}
	s.undoStack = append(s.undoStack, s.takeSnapshot())
	if len(s.undoStack) > s.undoLimit {
		s.undoStack = s.undoStack[1:]
	}
	s.redoStack = nil
}

// CanUndo reports whether Undo has anything to restore.
func (s *Session) CanUndo() bool { return len(s.undoStack) > 0 }

// CanRedo reports whether Redo has anything to restore.
func (s *Session) CanRedo() bool { return len(s.redoStack) > 0 }

// Undo reverts the last commit. It returns false if there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.undoStack) == 0 {
		return false
	}
	s.redoStack = append(s.redoStack, s.takeSnapshot())

	snap := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.restore(snap)
	s.log.Debug("undo", "levels", len(s.undoStack))
	return true
}

// Redo reapplies the last undone commit.
func (s *Session) Redo() bool {
	if len(s.redoStack) == 0 {
		return false
	}
	s.undoStack = append(s.undoStack, s.takeSnapshot())

	snap := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.restore(snap)
	s.log.Debug("redo", "levels", len(s.redoStack))
	return true
}
