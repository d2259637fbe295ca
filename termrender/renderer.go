// Package termrender draws psys particles as glyphs on a tcell screen.
package termrender

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/psys"
)

// densityRamp maps particle alpha to a glyph when the visual names no glyph
// set. Fainter particles use lighter glyphs.
var densityRamp = []rune{'.', ':', '+', '*', '#', '@'}

// Renderer implements psys.Renderer and psys.Viewport over a tcell.Screen.
// World coordinates are centered on the screen; one cell covers CellWidth
// world units horizontally and CellWidth*CellAspect vertically.
type Renderer struct {
	screen tcell.Screen

	// CellWidth is the number of world units per column.
	CellWidth float64
	// CellAspect is the height/width ratio of a terminal cell.
	CellAspect float64
	// Glyphs maps a visual to the runes of its sprite frames.
	Glyphs map[string][]rune
	// Background is the cell background color.
	Background tcell.Color
}

// New returns a renderer over screen with 8 world units per column and
// 2:1 cells.
func New(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen:     screen,
		CellWidth:  8,
		CellAspect: 2,
		Glyphs:     make(map[string][]rune),
		Background: tcell.ColorBlack,
	}
}

// Screen returns the underlying screen.
func (r *Renderer) Screen() tcell.Screen { return r.screen }

func (r *Renderer) cell() (w, h float64) {
	w = r.CellWidth
	if w <= 0 {
		w = 1
	}
	h = w * r.CellAspect
	if h <= 0 {
		h = w
	}
	return w, h
}

// HalfExtents implements psys.Viewport in world units.
func (r *Renderer) HalfExtents() (float64, float64) {
	cols, rows := r.screen.Size()
	cw, ch := r.cell()
	return float64(cols) * cw / 2, float64(rows) * ch / 2
}

// Cell returns the column and row covering a world position, and whether it
// is on screen.
func (r *Renderer) Cell(x, y float64) (col, row int, ok bool) {
	cols, rows := r.screen.Size()
	cw, ch := r.cell()
	halfW, halfH := float64(cols)*cw/2, float64(rows)*ch/2
	col = int(math.Floor((x + halfW) / cw))
	row = int(math.Floor((y + halfH) / ch))
	ok = col >= 0 && col < cols && row >= 0 && row < rows
	return col, row, ok
}

// Clear fills the screen with the background color.
func (r *Renderer) Clear() {
	r.screen.SetStyle(tcell.StyleDefault.Background(r.Background))
	r.screen.Clear()
}

// DrawParticle implements psys.Renderer. Later requests overwrite earlier
// ones in the same cell; depth-sort through a psys.CommandBuffer first when
// order matters.
func (r *Renderer) DrawParticle(req psys.DrawRequest) {
	col, row, ok := r.Cell(req.X, req.Y)
	if !ok {
		return
	}
	if req.Blend == psys.BlendErase {
		r.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(r.Background))
		return
	}
	r.screen.SetContent(col, row, r.Glyph(req), nil, Style(req.Color, r.Background))
}

// Glyph picks the rune drawn for req.
func (r *Renderer) Glyph(req psys.DrawRequest) rune {
	if g := r.Glyphs[req.Visual]; len(g) > 0 {
		f := req.Frame
		if f < 0 {
			f = 0
		}
		return g[f%len(g)]
	}
	a := clamp01(req.Color.A)
	i := int(a * float64(len(densityRamp)))
	if i >= len(densityRamp) {
		i = len(densityRamp) - 1
	}
	return densityRamp[i]
}

// Style converts a particle color to a foreground style. Alpha dims the
// color toward black.
func Style(c psys.Color, bg tcell.Color) tcell.Style {
	a := clamp01(c.A)
	fg := tcell.NewRGBColor(channel(c.R*a), channel(c.G*a), channel(c.B*a))
	return tcell.StyleDefault.Foreground(fg).Background(bg)
}

func channel(v float64) int32 {
	return int32(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
