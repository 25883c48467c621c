package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/curve-toolkit/pkg/editor"
	"github.com/ha1tch/curve-toolkit/pkg/scheme"
	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

// newTestEditor returns an editor on a 100x40 simulation screen. The canvas
// is 70x38 cells.
func newTestEditor(t *testing.T) (*Editor, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(100, 40)

	ed := newEditor(s, editor.New(nil, editor.DefaultConfig()), "", nil)
	ed.draw()
	return ed, s
}

func press(ed *Editor, x, y int) {
	ed.handleMouse(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
}

func release(ed *Editor, x, y int) {
	ed.handleMouse(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func key(ed *Editor, k tcell.Key, r rune) bool {
	return ed.handleKey(tcell.NewEventKey(k, r, tcell.ModNone))
}

// screenText returns row y of the simulation screen.
func screenText(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		sb.WriteString(string(cells[y*w+x].Runes))
	}
	return sb.String()
}

func TestCellMapping(t *testing.T) {
	ed, _ := newTestEditor(t)

	x, y := ed.toCell(spline.Point{X: 42, Y: 270})
	require.Equal(t, 6, x)
	require.Equal(t, 33, y)

	p := ed.toRender(69, 37)
	require.InDelta(t, 500, p.X, 1e-9)
	require.InDelta(t, 300, p.Y, 1e-9)
}

func TestDragCommit(t *testing.T) {
	ed, s := newTestEditor(t)
	original := scheme.Default().Channels[0].Points

	press(ed, 6, 33)
	require.True(t, ed.dragging)
	require.Equal(t, 0, ed.dragIdx)

	press(ed, 6, 25)
	press(ed, 6, 20)
	require.NotNil(t, ed.sess.Element(0).Draft)
	require.Equal(t, original, ed.sess.Scheme().Channels[0].Points, "preview must not touch channel data")

	ed.draw()
	s.Show()
	require.Contains(t, screenText(s, 39), "DRAG")

	release(ed, 6, 20)
	require.False(t, ed.dragging)
	require.Nil(t, ed.sess.Element(0).Draft)

	_, sy := ed.cellSize()
	got := ed.sess.Element(0).Points[0]
	require.InDelta(t, 42, got.X, 1e-9)
	require.InDelta(t, 270-13*sy, got.Y, 1e-9)
	require.NotEqual(t, original[0], ed.sess.Scheme().Channels[0].Points[0])
	require.True(t, ed.sess.Modified())

	// Ctrl+Z restores the committed state
	key(ed, tcell.KeyCtrlZ, 0)
	require.Equal(t, original, ed.sess.Scheme().Channels[0].Points)
	key(ed, tcell.KeyCtrlY, 0)
	require.InDelta(t, 270-13*sy, ed.sess.Element(0).Points[0].Y, 1e-9)
}

func TestDragCancel(t *testing.T) {
	ed, _ := newTestEditor(t)
	original := scheme.Default().Channels[0].Points

	press(ed, 6, 33)
	press(ed, 10, 30)
	require.NotNil(t, ed.sess.Element(0).Draft)

	key(ed, tcell.KeyEscape, 0)
	require.False(t, ed.dragging)
	require.Nil(t, ed.sess.Element(0).Draft)

	release(ed, 10, 30)
	require.Equal(t, original, ed.sess.Scheme().Channels[0].Points)
	require.Equal(t, spline.Point{X: 42, Y: 270}, ed.sess.Element(0).Points[0])
	require.False(t, ed.sess.Modified())
	require.False(t, ed.sess.CanUndo())
}

func TestWheelDuringDrag(t *testing.T) {
	ed, _ := newTestEditor(t)
	original := scheme.Default().Channels[0].Points

	press(ed, 6, 33)
	press(ed, 6, 25)
	for _, b := range []tcell.ButtonMask{tcell.WheelUp, tcell.WheelDown, tcell.WheelLeft, tcell.WheelRight} {
		ed.handleMouse(tcell.NewEventMouse(6, 25, b, tcell.ModNone))
		require.True(t, ed.dragging, "wheel %v ended the drag", b)
		require.NotNil(t, ed.sess.Element(0).Draft)
		require.Equal(t, original, ed.sess.Scheme().Channels[0].Points)
	}

	press(ed, 6, 20)
	release(ed, 6, 20)
	require.False(t, ed.dragging)
	_, sy := ed.cellSize()
	require.InDelta(t, 270-13*sy, ed.sess.Element(0).Points[0].Y, 1e-9)
}

func TestDragClampsToCanvas(t *testing.T) {
	ed, _ := newTestEditor(t)

	press(ed, 6, 33)
	press(ed, 0, 0)
	press(ed, 0, 0)
	release(ed, 0, 0)

	// (42,270) dragged by six columns and 33 rows lands left of x=0
	got := ed.sess.Element(0).Points[0]
	require.GreaterOrEqual(t, got.X, 0.0)
	require.GreaterOrEqual(t, got.Y, 0.0)
}

func TestPressOffHandle(t *testing.T) {
	ed, _ := newTestEditor(t)

	press(ed, 30, 2)
	require.False(t, ed.dragging)
	release(ed, 30, 2)
	require.False(t, ed.sess.Modified())
}

func TestChannelSelection(t *testing.T) {
	ed, _ := newTestEditor(t)

	key(ed, tcell.KeyTab, 0)
	require.Equal(t, 1, ed.sess.Selected())
	key(ed, tcell.KeyTab, 0)
	key(ed, tcell.KeyTab, 0)
	require.Equal(t, 0, ed.sess.Selected())
	key(ed, tcell.KeyBacktab, 0)
	require.Equal(t, 2, ed.sess.Selected())

	// Sidebar rows start at 2
	press(ed, 80, 3)
	release(ed, 80, 3)
	require.Equal(t, 1, ed.sess.Selected())
}

func TestKeyboardNudge(t *testing.T) {
	ed, _ := newTestEditor(t)

	key(ed, tcell.KeyRight, 0)
	key(ed, tcell.KeyRight, 0)
	require.Equal(t, 2, ed.pointIdx)
	key(ed, tcell.KeyLeft, 0)
	key(ed, tcell.KeyLeft, 0)
	key(ed, tcell.KeyLeft, 0)
	require.Equal(t, 10, ed.pointIdx)

	_, sy := ed.cellSize()
	key(ed, tcell.KeyUp, 0)
	require.InDelta(t, 180-sy, ed.sess.Element(0).Points[10].Y, 1e-9)
	require.True(t, ed.sess.CanUndo())
}

func TestToggleAxisRule(t *testing.T) {
	ed, _ := newTestEditor(t)
	require.Equal(t, spline.AxisSwapped, ed.sess.Config().AxisRule)

	key(ed, tcell.KeyRune, 'x')
	require.Equal(t, spline.AxisDirect, ed.sess.Config().AxisRule)
	require.Contains(t, ed.message, "direct")
}

func TestQuitGuard(t *testing.T) {
	ed, _ := newTestEditor(t)
	require.True(t, key(ed, tcell.KeyRune, 'q'), "clean session quits at once")

	ed.sess.MoveBy(0, 0, spline.Point{Y: -10})
	require.False(t, key(ed, tcell.KeyRune, 'q'))
	require.Equal(t, MsgWarning, ed.messageType)
	require.True(t, key(ed, tcell.KeyRune, 'q'))
}

func TestSaveAndRender(t *testing.T) {
	ed, _ := newTestEditor(t)
	dir := t.TempDir()
	ed.filename = filepath.Join(dir, "colours.json")

	ed.sess.MoveBy(1, 4, spline.Point{Y: -30})
	key(ed, tcell.KeyCtrlS, 0)
	require.False(t, ed.sess.Modified())

	saved, err := scheme.ReadFile(ed.filename)
	require.NoError(t, err)
	require.Equal(t, ed.sess.Scheme().Channels, saved.Channels)

	key(ed, tcell.KeyRune, 'r')
	require.Equal(t, MsgSuccess, ed.messageType, ed.message)
	for _, name := range []string{"colours.svg", "colours.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}
}

func TestDrawSidebar(t *testing.T) {
	ed, s := newTestEditor(t)
	ed.draw()
	s.Show()

	require.Contains(t, screenText(s, 2), "Red (11)")
	require.Contains(t, screenText(s, 4), "Blue (12)")
	require.Contains(t, screenText(s, 39), "[New]")
}

func TestLoadSchemeMissingFile(t *testing.T) {
	sch, err := loadScheme(filepath.Join(t.TempDir(), "new.json"))
	require.NoError(t, err)
	require.Nil(t, sch)

	sch, err = loadScheme("")
	require.NoError(t, err)
	require.Nil(t, sch)
}
