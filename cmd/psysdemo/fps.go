package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/psys"
)

var background = color.RGBA{R: 10, G: 10, B: 18, A: 255}

// fpsOverlay shows FPS/TPS and particle counts, refreshed every ~0.5s.
type fpsOverlay struct {
	img    *ebiten.Image
	ticks  int
	redraw bool
}

func newFPSOverlay() *fpsOverlay {
	// 200x64 fits four lines of debug text.
	return &fpsOverlay{img: ebiten.NewImage(200, 64), redraw: true}
}

func (o *fpsOverlay) update(sys *psys.System, optimized int) {
	o.ticks++
	if !o.redraw && o.ticks < ebiten.TPS()/2 {
		return
	}
	o.ticks = 0
	o.redraw = false

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf(
		"FPS: %.1f\nTPS: %.1f\nParticles: %d (%d emitters)\nCulled: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		sys.TotalParticles(), len(sys.Emitters()), optimized))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
