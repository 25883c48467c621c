// Command curvedit is a TUI editor for periodic curve schemes.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/curve-toolkit/pkg/editor"
	"github.com/ha1tch/curve-toolkit/pkg/render"
	"github.com/ha1tch/curve-toolkit/pkg/scheme"
	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

const usage = `Usage: curvedit [--config file.yaml] [--log file] [scheme.json]`

// Editor holds all editor state
type Editor struct {
	screen      tcell.Screen
	sess        *editor.Session
	filename    string
	mode        Mode
	message     string
	messageType MessageType
	log         *slog.Logger

	// Point picked with the keyboard in the selected channel
	pointIdx int

	// Drag state (mouse)
	leftMouseDown bool
	dragging      bool
	dragIdx       int
	dragBase      spline.Point // committed render position at drag start
	dragDelta     spline.Point // total displacement so far
	lastX, lastY  int          // cell of the previous drag event

	// Quit guard for unsaved changes
	quitArmed bool

	// UI regions
	sidebarWidth int

	// Message flash state
	// Unix milliseconds when message was shown; read by the refresh ticker
	messageFlashStart atomic.Int64
}

// Mode represents editor mode
type Mode int

const (
	ModeCanvas Mode = iota
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// flashDuration is how long a flashing message alternates styles.
const flashDuration = 500

func newEditor(screen tcell.Screen, sess *editor.Session, filename string, log *slog.Logger) *Editor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Editor{
		screen:       screen,
		sess:         sess,
		filename:     filename,
		log:          log,
		sidebarWidth: 30,
		dragIdx:      -1,
	}
}

func main() {
	var configPath, logPath, filename string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case "--log":
			if i+1 < len(args) {
				logPath = args[i+1]
				i++
			}
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			filename = args[i]
		}
	}

	cfg, err := editor.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the editor, so logs go to a file or nowhere.
	var logger *slog.Logger
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger, err = editor.NewLogger(f, cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	sch, err := loadScheme(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	ed := newEditor(screen, nil, filename, logger)
	ed.sess = editor.New(sch, cfg, editor.WithLogger(ed.log))
	if filename != "" && sch == nil {
		ed.showMessage("New file: "+filename, MsgInfo)
	}

	ed.run()

	screen.Fini()
}

// loadScheme reads path. A missing file starts from the default scheme,
// signalled by a nil scheme.
func loadScheme(path string) (*scheme.Scheme, error) {
	if path == "" {
		return nil, nil
	}
	sch, err := scheme.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return sch, err
}

func (ed *Editor) run() {
	// Send periodic refresh events while a message is flashing
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if start := ed.messageFlashStart.Load(); start > 0 {
					elapsed := time.Now().UnixMilli() - start
					if elapsed >= 0 && elapsed < flashDuration+200 {
						ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
					}
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Refresh event for flash animation - just redraw
		}
	}
}

// canvasSize returns the plot area in cells: everything left of the sidebar
// and above the help and status bars.
func (ed *Editor) canvasSize() (int, int) {
	w, h := ed.screen.Size()
	cw := w - ed.sidebarWidth
	ch := h - 2
	if cw < 2 {
		cw = 2
	}
	if ch < 2 {
		ch = 2
	}
	return cw, ch
}

// cellSize returns the render-space extent of one cell.
func (ed *Editor) cellSize() (float64, float64) {
	cfg := ed.sess.Config()
	cw, ch := ed.canvasSize()
	return cfg.SizeX / float64(cw-1), cfg.SizeY / float64(ch-1)
}

// toCell maps a render-space point to a canvas cell.
func (ed *Editor) toCell(p spline.Point) (int, int) {
	sx, sy := ed.cellSize()
	return int(math.Round(p.X / sx)), int(math.Round(p.Y / sy))
}

// toRender maps a canvas cell to render space.
func (ed *Editor) toRender(x, y int) spline.Point {
	sx, sy := ed.cellSize()
	return spline.Point{X: float64(x) * sx, Y: float64(y) * sy}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	// Global shortcuts (Ctrl or Cmd on macOS)
	mod := ev.Modifiers()
	isCtrlOrCmd := func(key tcell.Key, r rune) bool {
		if ev.Key() == key {
			return true
		}
		if mod&tcell.ModMeta != 0 && ev.Rune() == r {
			return true
		}
		if mod&tcell.ModAlt != 0 && ev.Rune() == r {
			return true
		}
		return false
	}

	if ed.mode == ModeHelp {
		ed.mode = ModeCanvas
		return false
	}

	if ev.Key() == tcell.KeyEscape {
		if ed.dragging {
			ed.cancelDrag()
		}
		return false
	}
	if ed.dragging {
		// Other keys wait for the drag to end
		return false
	}

	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	if isCtrlOrCmd(tcell.KeyCtrlS, 's') {
		ed.save()
		return false
	}
	if isCtrlOrCmd(tcell.KeyCtrlZ, 'z') {
		ed.undo()
		return false
	}
	if isCtrlOrCmd(tcell.KeyCtrlY, 'y') {
		ed.redo()
		return false
	}

	if ev.Key() != tcell.KeyRune || ev.Rune() != 'q' {
		ed.quitArmed = false
	}

	_, sy := ed.cellSize()
	switch ev.Key() {
	case tcell.KeyTab:
		ed.cycleChannel(1)
	case tcell.KeyBacktab:
		ed.cycleChannel(-1)
	case tcell.KeyLeft:
		ed.cyclePoint(-1)
	case tcell.KeyRight:
		ed.cyclePoint(1)
	case tcell.KeyUp:
		ed.nudge(spline.Point{Y: -sy})
	case tcell.KeyDown:
		ed.nudge(spline.Point{Y: sy})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			if ed.sess.Modified() && !ed.quitArmed {
				ed.quitArmed = true
				ed.showMessage("Unsaved changes, press q again to quit", MsgWarning)
				return false
			}
			return true
		case 'r':
			ed.renderFiles()
		case 'x':
			ed.toggleAxisRule()
		case '?', 'h':
			ed.mode = ModeHelp
		}
	}
	return false
}

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	cw, ch := ed.canvasSize()

	if buttons&wheelMask != 0 {
		return
	}

	if buttons&tcell.Button1 == 0 {
		// Release
		if ed.dragging {
			ed.commitDrag()
		}
		ed.leftMouseDown = false
		return
	}

	if !ed.leftMouseDown {
		// Press
		ed.leftMouseDown = true
		if x >= cw || y >= ch {
			ed.clickSidebar(x, y)
			return
		}
		ed.startDrag(x, y)
		return
	}

	if ed.dragging && (x != ed.lastX || y != ed.lastY) {
		frame := ed.toRender(x, y).Sub(ed.toRender(ed.lastX, ed.lastY))
		ed.lastX, ed.lastY = x, y
		ed.dragDelta = ed.dragDelta.Add(frame)
		ed.sess.Preview(ed.sess.Selected(), ed.dragIdx, ed.dragDelta)
	}
}

// startDrag picks the handle of the selected channel under cell (x, y).
func (ed *Editor) startDrag(x, y int) {
	sx, sy := ed.cellSize()
	ch := ed.sess.Selected()
	idx := ed.sess.HitTest(ch, ed.toRender(x, y), math.Hypot(sx, sy))
	if idx < 0 {
		return
	}
	ed.dragging = true
	ed.dragIdx = idx
	ed.pointIdx = idx
	ed.dragBase = ed.sess.Element(ch).Points[idx]
	ed.dragDelta = spline.Point{}
	ed.lastX, ed.lastY = x, y
	ed.log.Debug("drag started", "channel", ch, "index", idx)
}

func (ed *Editor) commitDrag() {
	ch := ed.sess.Selected()
	pos := ed.sess.Commit(ch, ed.dragIdx, ed.dragBase, ed.dragDelta)
	ed.dragging = false
	ed.showMessage(ed.describePoint(ch, ed.dragIdx, pos), MsgSuccess)
}

func (ed *Editor) cancelDrag() {
	ed.sess.Cancel(ed.sess.Selected())
	ed.dragging = false
	ed.showMessage("Drag cancelled", MsgInfo)
}

func (ed *Editor) describePoint(ch, idx int, pos spline.Point) string {
	c := ed.sess.Scheme().Channels[ch]
	v := c.Points[idx]
	return fmt.Sprintf("%s[%d] = (%.3g, %.3g) at %.0f,%.0f", c.Name, idx, v.X, v.Y, pos.X, pos.Y)
}

// clickSidebar selects the channel listed on row y.
func (ed *Editor) clickSidebar(x, y int) {
	row := y - 2
	if row >= 0 && row < len(ed.sess.Elements()) {
		ed.selectChannel(row)
	}
}

func (ed *Editor) selectChannel(ch int) {
	ed.sess.Select(ch)
	if n := len(ed.sess.Element(ch).Points); ed.pointIdx >= n {
		ed.pointIdx = n - 1
	}
}

func (ed *Editor) cycleChannel(step int) {
	n := len(ed.sess.Elements())
	ed.selectChannel((ed.sess.Selected() + step + n) % n)
}

func (ed *Editor) cyclePoint(step int) {
	n := len(ed.sess.Element(ed.sess.Selected()).Points)
	ed.pointIdx = (ed.pointIdx + step + n) % n
}

// nudge commits a keyboard move of the picked point.
func (ed *Editor) nudge(d spline.Point) {
	ch := ed.sess.Selected()
	pos := ed.sess.MoveBy(ch, ed.pointIdx, d)
	ed.showMessage(ed.describePoint(ch, ed.pointIdx, pos), MsgSuccess)
}

func (ed *Editor) toggleAxisRule() {
	cfg := ed.sess.Config()
	if cfg.AxisRule == spline.AxisSwapped {
		cfg.AxisRule = spline.AxisDirect
	} else {
		cfg.AxisRule = spline.AxisSwapped
	}
	ed.sess.Reconfigure(cfg)
	ed.showMessage("Axis rule: "+cfg.AxisRule.String(), MsgInfo)
}

func (ed *Editor) undo() {
	if !ed.sess.Undo() {
		ed.showMessage("Nothing to undo", MsgInfo)
		return
	}
	ed.showMessage("Undo", MsgInfo)
}

func (ed *Editor) redo() {
	if !ed.sess.Redo() {
		ed.showMessage("Nothing to redo", MsgInfo)
		return
	}
	ed.showMessage("Redo", MsgInfo)
}

func (ed *Editor) targetName() string {
	if ed.filename == "" {
		return "untitled.json"
	}
	return ed.filename
}

func (ed *Editor) save() {
	path := ed.targetName()
	if err := scheme.WriteFile(path, ed.sess.Scheme(), true); err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	ed.filename = path
	ed.sess.MarkSaved()
	ed.quitArmed = false
	ed.showMessage("Saved: "+path, MsgSuccess)
}

// renderFiles writes SVG and PNG renderings next to the scheme file.
func (ed *Editor) renderFiles() {
	base := strings.TrimSuffix(ed.targetName(), filepath.Ext(ed.targetName()))
	svgPath := base + ".svg"
	pngPath := base + ".png"

	svgOpts := render.DefaultSVGOptions()
	svgOpts.Title = ed.sess.Scheme().Name
	if err := os.WriteFile(svgPath, []byte(render.SVG(ed.sess, svgOpts)), 0644); err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}

	f, err := os.Create(pngPath)
	if err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	pngOpts := render.DefaultPNGOptions()
	pngOpts.Title = svgOpts.Title
	err = render.PNG(ed.sess, f, pngOpts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	ed.log.Info("rendered", "svg", svgPath, "png", pngPath)
	ed.showMessage("Rendered: "+filepath.Base(svgPath)+", "+filepath.Base(pngPath), MsgSuccess)
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart.Store(time.Now().UnixMilli())
	// Trigger immediate refresh for flash animation
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// flashInverted reports whether a flashing message shows inverted colours
// elapsed milliseconds after it appeared: normal, inverted, normal,
// inverted, then normal for good.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashDuration {
		return false
	}
	phase := elapsed / (flashDuration / 4)
	return phase == 1 || phase == 3
}

// flashes reports whether messages of type t flash.
func flashes(t MessageType) bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	default:
		return false
	}
}
