package blockfall

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
	"github.com/vovakirdan/blockfall/internal/versus"
)

// Each board cell is two columns wide so blocks look square.
const (
	cellWidth  = 2
	panelWidth = 10
	sideGap    = 2
)

const (
	blockGlyph = '█'
	ghostGlyph = '░'
	emptyGlyph = '·'
)

// sideView is everything needed to draw one side.
type sideView struct {
	title  string
	color  core.Color
	snap   tetris.Snapshot
	width  int
	height int
	ready  bool   // snap holds real state
	note   string // replaces the board contents, e.g. "Waiting..."
	banner string // win/lose banner, drawn over everything

	landing tetris.Landing // last lock of a local session
}

func sideWidth(boardW int) int {
	return boardW*cellWidth + 2 + 1 + panelWidth
}

func sideHeight(boardH int) int {
	return boardH + 2
}

// layoutFits reports whether n sides of the given board size fit on dst
// together with the title and help rows.
func layoutFits(dst *core.Screen, n, boardW, boardH int) bool {
	w := n*sideWidth(boardW) + (n-1)*sideGap
	return dst.Width() >= w && dst.Height() >= sideHeight(boardH)+1
}

// drawSides lays the views out side by side, centered, under a title row.
func drawSides(dst *core.Screen, title string, views ...sideView) {
	if len(views) == 0 {
		return
	}
	w, h := views[0].width, views[0].height
	if !layoutFits(dst, len(views), w, h) {
		drawTooSmall(dst)
		return
	}

	total := len(views)*sideWidth(w) + (len(views)-1)*sideGap
	x := (dst.Width() - total) / 2
	top := 0
	if dst.Height() >= sideHeight(h)+2 {
		dst.DrawTextCentered(0, title)
		top = 1
	}
	for _, v := range views {
		drawSide(dst, x, top, v)
		x += sideWidth(w) + sideGap
	}
}

func drawTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y-1, "Window too small")
	dst.DrawTextCentered(y, "Resize to continue")
}

func drawSide(dst *core.Screen, x, y int, v sideView) {
	box := core.NewRect(x, y, v.width*cellWidth+2, sideHeight(v.height))
	dst.DrawBox(box, core.ColorGray)
	inner := box.Inner()

	if v.ready && v.note == "" {
		drawGrid(dst, inner, v.snap)
	}

	px := box.Right() + 1
	dst.DrawTextColor(px, y, v.title, v.color)
	if v.ready {
		drawStats(dst, px, y+2, v.snap)
		if name := clearLabel(v.landing, v.snap); name != "" {
			by := y + sideHeight(v.height) - 3
			dst.DrawTextColor(px, by, name, core.ColorBrightYellow)
			dst.DrawTextColor(px, by+1, "+"+strconv.Itoa(v.landing.Points), core.ColorBrightYellow)
		}
	}

	s := v.snap
	switch {
	case v.banner != "":
		drawOverlay(dst, inner, v.banner)
	case v.note != "":
		drawOverlay(dst, inner, v.note)
	case v.ready && s.GameOver:
		drawOverlay(dst, inner, "GAME OVER")
	case v.ready && s.Paused:
		drawOverlay(dst, inner, "PAUSED")
	}
}

func drawGrid(dst *core.Screen, inner core.Rect, s tetris.Snapshot) {
	for y := 0; y < s.Height && y < inner.H; y++ {
		for x := 0; x < s.Width; x++ {
			sx := inner.X + x*cellWidth
			if c := s.CellAt(x, y); c != tetris.Empty {
				drawBlock(dst, sx, inner.Y+y, blockGlyph, c)
			} else {
				dst.SetCell(sx+1, inner.Y+y, emptyGlyph, core.ColorGray)
			}
		}
	}

	if s.Current == nil || s.GameOver {
		return
	}
	p := s.Current.Piece()
	if ghost := tetris.RestingY(s.BoardValue(), p); ghost > p.Pos.Y {
		drawPiece(dst, inner, p.Shape, core.Point{X: p.Pos.X, Y: ghost}, ghostGlyph, core.ColorGray)
	}
	drawPiece(dst, inner, p.Shape, p.Pos, blockGlyph, p.Color)
}

func drawPiece(dst *core.Screen, inner core.Rect, shape tetris.Shape, at core.Point, glyph rune, c core.Color) {
	for _, off := range shape.Cells() {
		bx, by := at.X+off.X, at.Y+off.Y
		if by < 0 || by >= inner.H {
			continue
		}
		drawBlock(dst, inner.X+bx*cellWidth, inner.Y+by, glyph, c)
	}
}

func drawBlock(dst *core.Screen, x, y int, glyph rune, c core.Color) {
	for i := range cellWidth {
		dst.SetCell(x+i, y, glyph, c)
	}
}

func drawStats(dst *core.Screen, x, y int, s tetris.Snapshot) {
	rows := []struct {
		label string
		value int
	}{
		{"Score", s.Score},
		{"Level", s.Level},
		{"Lines", s.Lines},
	}
	for i, r := range rows {
		dst.DrawText(x, y+i*3, r.label)
		dst.DrawTextColor(x, y+i*3+1, strconv.Itoa(r.value), core.ColorBrightWhite)
	}

	ny := y + len(rows)*3
	dst.DrawText(x, ny, "Next")
	if len(s.Next.Shape) == 0 {
		return
	}
	for _, off := range s.Next.Shape.Cells() {
		drawBlock(dst, x+off.X*cellWidth, ny+1+off.Y, blockGlyph, s.Next.Color)
	}
}

var clearNames = [...]string{1: "SINGLE", 2: "DOUBLE", 3: "TRIPLE", 4: "TETRIS"}

// clearLabel names the last line clear, or returns "" when the last lock
// cleared nothing.
func clearLabel(l tetris.Landing, s tetris.Snapshot) string {
	if l.Cleared <= 0 || s.GameOver {
		return ""
	}
	name := "CLEAR"
	if l.Cleared < len(clearNames) {
		name = clearNames[l.Cleared]
	}
	if s.BoardValue().IsEmpty() {
		name = "ALL CLEAR"
	}
	return name
}

// drawOverlay centers a one-line message box inside r.
func drawOverlay(dst *core.Screen, r core.Rect, msg string) {
	w := min(len([]rune(msg))+4, r.W)
	box := core.NewRect(r.X+(r.W-w)/2, r.Y+r.H/2-1, w, 3)
	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)
	dst.DrawTextCenteredIn(box, box.Y+1, msg, core.ColorBrightWhite)
}

// banners returns the per-side banners for a decided outcome, from the
// point of view of Player1 on the left.
func banners(o versus.Outcome) (string, string) {
	switch {
	case !o.Decided:
		return "", ""
	case o.Tie():
		return "TIE", "TIE"
	case o.Winner == core.Player1:
		return "WINNER", "LOSER"
	default:
		return "LOSER", "WINNER"
	}
}

// outcomeLine is the title-row summary of a decided match.
func outcomeLine(o versus.Outcome, name1, name2 string) string {
	switch {
	case !o.Decided:
		return ""
	case o.Tie():
		return "Tie game! Press R for a rematch"
	case o.Winner == core.Player1:
		return fmt.Sprintf("%s wins by %s! Press R for a rematch", name1, o.Reason)
	default:
		return fmt.Sprintf("%s wins by %s! Press R for a rematch", name2, o.Reason)
	}
}

// Render draws the board(s), stats and overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.solo == nil && g.duel == nil {
		return
	}
	s1, s2, versusMode := g.Snapshots()

	left := sideView{
		title:  "P1",
		color:  core.ColorBrightCyan,
		snap:   s1,
		width:  s1.Width,
		height: s1.Height,
		ready:  true,
	}
	if !versusMode {
		left.title = "Blockfall"
		left.landing = g.solo.Session().LastLanding()
		drawSides(dst, g.Title(), left)
		return
	}

	right := sideView{
		title:  "P2",
		color:  core.ColorBrightMagenta,
		snap:   s2,
		width:  s1.Width,
		height: s1.Height,
		ready:  true,
	}
	p1, p2 := g.duel.Player(core.Player1), g.duel.Player(core.Player2)
	left.landing = p1.Session().LastLanding()
	right.landing = p2.Session().LastLanding()
	if p2.Controller().Kind() == versus.ControllerComputer {
		left.title, right.title = "You", "CPU"
	}

	title := g.Title()
	o := g.Outcome()
	if o.Decided {
		left.banner, right.banner = banners(o)
		title = outcomeLine(o, left.title, right.title)
	}
	drawSides(dst, title, left, right)
}
