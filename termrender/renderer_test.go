package termrender

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/psys"
)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func TestHalfExtents(t *testing.T) {
	r := New(newTestScreen(t))
	w, h := r.HalfExtents()
	if w != 320 || h != 192 {
		t.Errorf("HalfExtents = %v, %v; want 320, 192", w, h)
	}
}

func TestCellMapping(t *testing.T) {
	r := New(newTestScreen(t))
	tests := []struct {
		x, y     float64
		col, row int
		ok       bool
	}{
		{0, 0, 40, 12, true},
		{-320, -192, 0, 0, true},
		{319, 191, 79, 23, true},
		{320, 0, 80, 12, false},
		{0, -193, 40, -1, false},
		{7.9, 15.9, 40, 12, true},
		{8, 16, 41, 13, true},
	}
	for _, tt := range tests {
		col, row, ok := r.Cell(tt.x, tt.y)
		if col != tt.col || row != tt.row || ok != tt.ok {
			t.Errorf("Cell(%v, %v) = %d, %d, %v; want %d, %d, %v", tt.x, tt.y, col, row, ok, tt.col, tt.row, tt.ok)
		}
	}
}

func TestDrawParticle(t *testing.T) {
	screen := newTestScreen(t)
	r := New(screen)
	c := psys.Color{R: 1, G: 0.5, B: 0, A: 1}
	r.DrawParticle(psys.DrawRequest{X: 0, Y: 0, Scale: 1, Color: c})

	mainc, _, style, _ := screen.GetContent(40, 12)
	if mainc != '@' {
		t.Errorf("glyph = %q, want '@'", mainc)
	}
	if want := Style(c, tcell.ColorBlack); style != want {
		t.Errorf("style = %v, want %v", style, want)
	}
}

func TestDrawOffscreenIgnored(t *testing.T) {
	screen := newTestScreen(t)
	r := New(screen)
	r.DrawParticle(psys.DrawRequest{X: 10000, Y: 0, Color: psys.ColorWhite})
	for col := 0; col < 80; col++ {
		if mainc, _, _, _ := screen.GetContent(col, 12); mainc != ' ' && mainc != 0 {
			t.Fatalf("unexpected glyph %q at col %d", mainc, col)
		}
	}
}

func TestGlyphs(t *testing.T) {
	r := New(newTestScreen(t))
	r.Glyphs["coin"] = []rune{'|', '/', '-', '\\'}
	if g := r.Glyph(psys.DrawRequest{Visual: "coin", Frame: 5}); g != '/' {
		t.Errorf("frame 5 glyph = %q, want '/'", g)
	}
	if g := r.Glyph(psys.DrawRequest{Color: psys.Color{A: 0}}); g != '.' {
		t.Errorf("transparent glyph = %q, want '.'", g)
	}
	if g := r.Glyph(psys.DrawRequest{Color: psys.Color{A: 0.5}}); g != '*' {
		t.Errorf("half alpha glyph = %q, want '*'", g)
	}
}

func TestEraseClearsCell(t *testing.T) {
	screen := newTestScreen(t)
	r := New(screen)
	r.DrawParticle(psys.DrawRequest{Color: psys.ColorWhite})
	r.DrawParticle(psys.DrawRequest{Color: psys.ColorWhite, Blend: psys.BlendErase})
	if mainc, _, _, _ := screen.GetContent(40, 12); mainc != ' ' {
		t.Errorf("glyph after erase = %q, want ' '", mainc)
	}
}

func TestSystemDrawsIntoScreen(t *testing.T) {
	screen := newTestScreen(t)
	r := New(screen)

	m := psys.NewConfigurator("dot")
	m.SetPosition(psys.Constant(psys.Fixed(-100)), psys.Constant(psys.Fixed(40)), psys.Constant(psys.Fixed(0)))
	m.SetDuration(1000, 0)
	m.SetVisual("dot")
	r.Glyphs["dot"] = []rune{'o'}

	s := psys.NewSystem(psys.Config{PoolSize: 1, Viewport: r})
	s.CreateEmitter(m, "")
	s.Update(0)
	s.UpdateRender(r)

	col, row, _ := r.Cell(-100, 40)
	if mainc, _, _, _ := screen.GetContent(col, row); mainc != 'o' {
		t.Errorf("glyph at %d,%d = %q, want 'o'", col, row, mainc)
	}
}

func TestStyleDimsByAlpha(t *testing.T) {
	got := Style(psys.Color{R: 1, G: 1, B: 1, A: 0.5}, tcell.ColorBlack)
	want := tcell.StyleDefault.Foreground(tcell.NewRGBColor(128, 128, 128)).Background(tcell.ColorBlack)
	if got != want {
		t.Errorf("Style = %v, want %v", got, want)
	}
}
