package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/curve-toolkit/pkg/render"
	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGrid       = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleDragging   = tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
)

// Runes used on the plot
const (
	runeCurve    = '•'
	runeHandle   = '●'
	runePicked   = '◉'
	runeDragging = '◆'
)

// Grey that unselected channels are faded towards
var fadeTarget = colorful.Color{R: 0.45, G: 0.45, B: 0.45}

// channelStyle returns the plot style of a channel.
func channelStyle(class string, selected bool) tcell.Style {
	c := render.ChannelColor(class)
	if !selected {
		c = c.BlendLab(fadeTarget, 0.55).Clamped()
	}
	r, g, b := c.RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas()
	ed.drawSidebar(w, h)
	if ed.mode == ModeHelp {
		ed.drawHelp(w, h)
	}
	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawCanvas() {
	cw, ch := ed.canvasSize()
	cfg := ed.sess.Config()

	// Grid: one column per x unit
	for i := 1; float64(i) < cfg.XScale; i++ {
		x, _ := ed.toCell(spline.Point{X: float64(i) / cfg.XScale * cfg.SizeX})
		for y := 0; y < ch; y++ {
			ed.screen.SetContent(x, y, '┊', nil, styleGrid)
		}
	}

	sel := ed.sess.Selected()
	sch := ed.sess.Scheme()
	for i := range sch.Channels {
		if i != sel {
			ed.plotPath(ed.sess.Element(i).Display(), cw, ch, channelStyle(sch.Channels[i].Class, false))
		}
	}
	style := channelStyle(sch.Channels[sel].Class, true)
	el := ed.sess.Element(sel)
	ed.plotPath(el.Display(), cw, ch, style)

	for i, p := range el.Points {
		r := runeHandle
		st := style
		switch {
		case ed.dragging && i == ed.dragIdx:
			p = ed.dragBase.Add(ed.dragDelta)
			r = runeDragging
			st = styleDragging
		case i == ed.pointIdx:
			r = runePicked
		}
		x, y := ed.toCell(p)
		if x >= 0 && x < cw && y >= 0 && y < ch {
			ed.screen.SetContent(x, y, r, nil, st)
		}
	}

	// Divider
	for y := 0; y < ch; y++ {
		ed.screen.SetContent(cw, y, '│', nil, styleBorder)
	}
}

// plotPath marks every cell the path passes through.
func (ed *Editor) plotPath(p spline.Path, cw, ch int, style tcell.Style) {
	pts := p.Flatten(2 * cw / max(len(p), 1))
	for i := 1; i < len(pts); i++ {
		x0, y0 := ed.toCell(pts[i-1])
		x1, y1 := ed.toCell(pts[i])
		ed.plotLine(x0, y0, x1, y1, cw, ch, style)
	}
}

// plotLine draws a cell line between two cells, clipped to the canvas.
func (ed *Editor) plotLine(x0, y0, x1, y1, cw, ch int, style tcell.Style) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if x0 >= 0 && x0 < cw && y0 >= 0 && y0 < ch {
			ed.screen.SetContent(x0, y0, runeCurve, nil, style)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		if e2 := 2 * e; e2 >= dy {
			e += dy
			x0 += sx
		} else {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (ed *Editor) drawSidebar(w, h int) {
	x := w - ed.sidebarWidth + 2
	y := 0
	width := ed.sidebarWidth - 3
	sch := ed.sess.Scheme()

	title := sch.Name
	if title == "" {
		title = "Scheme"
	}
	ed.drawString(x, y, truncate(title, width), styleSidebarH)
	y += 2

	sel := ed.sess.Selected()
	for i, c := range sch.Channels {
		prefix := "  "
		if i == sel {
			prefix = "▶ "
		}
		ed.drawString(x, y, prefix, styleSidebar)
		ed.screen.SetContent(x+2, y, '■', nil, channelStyle(c.Class, true))
		line := fmt.Sprintf(" %s (%d)", c.Name, len(c.Points))
		ed.drawString(x+3, y, truncate(line, width-3), styleSidebar)
		y++
	}
	y++

	c := sch.Channels[sel]
	if ed.pointIdx < len(c.Points) {
		v := c.Points[ed.pointIdx]
		p := ed.sess.Element(sel).Points[ed.pointIdx]
		ed.drawString(x, y, fmt.Sprintf("Point %d", ed.pointIdx), styleSidebarH)
		y++
		ed.drawString(x, y, truncate(fmt.Sprintf("  value  %.4g, %.4g", v.X, v.Y), width), styleSidebar)
		y++
		ed.drawString(x, y, truncate(fmt.Sprintf("  canvas %.1f, %.1f", p.X, p.Y), width), styleSidebar)
		y += 2
	}

	cfg := ed.sess.Config()
	ed.drawString(x, y, "Canvas", styleSidebarH)
	y++
	ed.drawString(x, y, truncate(fmt.Sprintf("  %gx%g over %gx%g", cfg.SizeX, cfg.SizeY, cfg.XScale, cfg.YScale), width), styleSidebar)
	y++
	ed.drawString(x, y, "  axis rule "+cfg.AxisRule.String(), styleSidebar)
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if ed.filename != "" {
		if runewidth.StringWidth(ed.filename) > 30 {
			fileInfo = filepath.Base(ed.filename)
		} else {
			fileInfo = ed.filename
		}
	}
	if ed.sess.Modified() {
		fileInfo += " *"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-runewidth.StringWidth(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError, MsgWarning:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if flashes(ed.messageType) && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart.Load()) {
			style = style.Reverse(true)
		}
		ed.drawString(w-runewidth.StringWidth(ed.message)-2, y, ed.message, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

var helpLines = []string{
	"Mouse drag    move a point of the selected channel",
	"Esc           cancel the drag in progress",
	"Tab/S-Tab     next / previous channel",
	"Left/Right    pick a point",
	"Up/Down       move the picked point one row",
	"Ctrl+Z/Ctrl+Y undo / redo",
	"Ctrl+S        save",
	"r             render SVG and PNG next to the file",
	"x             switch axis rule",
	"q             quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 0
	for _, l := range helpLines {
		boxW = max(boxW, runewidth.StringWidth(l))
	}
	boxW += 4
	boxH := len(helpLines) + 4
	x := max((w-boxW)/2, 0)
	y := max((h-boxH)/2, 0)

	ed.drawTitledBox(x, y, boxW, boxH, "curvedit")
	for i, l := range helpLines {
		ed.drawString(x+2, y+2+i, l, styleSidebar)
	}
}

// drawTitledBox draws a bordered box with optional title
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		ed.screen.SetContent(x+i, y, '─', nil, styleBorder)
	}
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)

	if title != "" {
		tw := runewidth.StringWidth(title)
		titleX := x + (w-tw-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		ed.drawString(titleX+1, y, title, styleSidebarH)
		ed.screen.SetContent(titleX+1+tw, y, ' ', nil, styleBorder)
	}

	for row := 1; row < h-1; row++ {
		ed.screen.SetContent(x, y+row, '│', nil, styleBorder)
		for col := 1; col < w-1; col++ {
			ed.screen.SetContent(x+col, y+row, ' ', nil, styleDefault)
		}
		ed.screen.SetContent(x+w-1, y+row, '│', nil, styleBorder)
	}

	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		ed.screen.SetContent(x+i, y+h-1, '─', nil, styleBorder)
	}
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)
}

// drawString draws s starting at cell x, advancing by each rune's display
// width.
func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) modeString() string {
	if ed.dragging {
		return "DRAG"
	}
	if ed.mode == ModeHelp {
		return "HELP"
	}
	return ""
}

func (ed *Editor) helpString() string {
	if ed.dragging {
		return "Release:Commit  Esc:Cancel"
	}
	if ed.mode == ModeHelp {
		return "Any key:Close"
	}
	return "Drag:Move  Tab:Channel  ←→:Point  ↑↓:Nudge  Ctrl+Z/Y:Undo/Redo  Ctrl+S:Save  r:Render  ?:Help  q:Quit"
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxLen, "...")
}
