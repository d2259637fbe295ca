package ebitenrender

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/psys"
)

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestBlendMapping(t *testing.T) {
	tests := []struct {
		mode psys.BlendMode
		want ebiten.Blend
	}{
		{psys.BlendNormal, ebiten.BlendSourceOver},
		{psys.BlendAdd, ebiten.BlendLighter},
		{psys.BlendErase, ebiten.BlendDestinationOut},
		{psys.BlendNone, ebiten.BlendCopy},
		{psys.BlendMode(200), ebiten.BlendSourceOver},
	}
	for _, tt := range tests {
		if got := Blend(tt.mode); got != tt.want {
			t.Errorf("Blend(%v) = %+v, want %+v", tt.mode, got, tt.want)
		}
	}
	if Blend(psys.BlendMultiply).BlendFactorSourceRGB != ebiten.BlendFactorDestinationColor {
		t.Error("multiply should scale source by destination color")
	}
	if Blend(psys.BlendScreen).BlendFactorDestinationRGB != ebiten.BlendFactorOneMinusSourceColor {
		t.Error("screen should scale destination by 1-source color")
	}
}

func TestRendererViewport(t *testing.T) {
	r := New(nil)
	r.SetSize(640, 480)
	var v psys.Viewport = r
	w, h := v.HalfExtents()
	assertNear(t, "halfW", w, 320)
	assertNear(t, "halfH", h, 240)
}

func TestDrawWithoutTargetIsNoop(t *testing.T) {
	r := New(nil)
	r.DrawParticle(psys.DrawRequest{Scale: 1, Color: psys.ColorWhite})
	if r.white != nil {
		t.Error("no image should be created outside Begin/End")
	}
}

func TestParticleGeoMCentersSprite(t *testing.T) {
	region := TextureRegion{Width: 16, Height: 16, OriginalW: 16, OriginalH: 16}
	req := psys.DrawRequest{X: 10, Y: -5, Scale: 2}
	m := particleGeoM(req, region, 320, 240)

	// The sprite center lands on the particle position.
	x, y := m.Apply(8, 8)
	assertNear(t, "center x", x, 330)
	assertNear(t, "center y", y, 235)

	// Scale doubles the extent around the center.
	x, _ = m.Apply(0, 8)
	assertNear(t, "left edge", x, 314)
}

func TestParticleGeoMRotation(t *testing.T) {
	region := TextureRegion{Width: 10, Height: 10, OriginalW: 10, OriginalH: 10}
	req := psys.DrawRequest{Scale: 1, Angle: math.Pi / 2}
	m := particleGeoM(req, region, 0, 0)
	x, y := m.Apply(10, 5) // right-middle edge
	assertNear(t, "x", math.Round(x*1e9)/1e9, 0)
	assertNear(t, "y", math.Round(y*1e9)/1e9, 5)
}

func TestParticleGeoMWhitePixel(t *testing.T) {
	region := TextureRegion{Page: whitePage, Width: 4, Height: 4, OriginalW: 4, OriginalH: 4}
	m := particleGeoM(psys.DrawRequest{Scale: 1}, region, 100, 100)
	x, y := m.Apply(0, 0)
	assertNear(t, "x", x, 98)
	assertNear(t, "y", y, 98)
	x, y = m.Apply(1, 1)
	assertNear(t, "x", x, 102)
	assertNear(t, "y", y, 102)
}

func TestParticleGeoMTrimOffset(t *testing.T) {
	region := TextureRegion{Width: 60, Height: 58, OriginalW: 64, OriginalH: 64, OffsetX: 2, OffsetY: 3}
	m := particleGeoM(psys.DrawRequest{Scale: 1}, region, 0, 0)
	x, y := m.Apply(0, 0)
	assertNear(t, "x", x, -30)
	assertNear(t, "y", y, -29)
}
