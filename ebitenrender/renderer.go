// Package ebitenrender draws psys particles onto Ebitengine images.
package ebitenrender

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/psys"
)

// DefaultPixelSize is the edge length of particles drawn without a visual.
const DefaultPixelSize = 4

// Renderer implements psys.Renderer and psys.Viewport for an ebiten target.
// Particle coordinates are centered on the target.
type Renderer struct {
	// Atlas resolves visuals. Nil draws every particle as a square.
	Atlas *Atlas
	// PixelSize is the edge length, in pixels, of particles without a visual.
	PixelSize float64

	target       *ebiten.Image
	halfW, halfH float64
	op           ebiten.DrawImageOptions
	white        *ebiten.Image
}

// New returns a renderer drawing visuals from atlas.
func New(atlas *Atlas) *Renderer {
	return &Renderer{Atlas: atlas, PixelSize: DefaultPixelSize}
}

// SetSize sets the logical screen size used for culling bounds. Call it from
// ebiten.Game.Layout.
func (r *Renderer) SetSize(width, height int) {
	r.halfW = float64(width) / 2
	r.halfH = float64(height) / 2
}

// HalfExtents implements psys.Viewport.
func (r *Renderer) HalfExtents() (float64, float64) {
	return r.halfW, r.halfH
}

// Begin targets the next draw requests at dst and sizes the viewport to it.
func (r *Renderer) Begin(dst *ebiten.Image) {
	r.target = dst
	if dst != nil {
		b := dst.Bounds()
		r.SetSize(b.Dx(), b.Dy())
	}
}

// End releases the target.
func (r *Renderer) End() {
	r.target = nil
}

// DrawParticle implements psys.Renderer. Requests outside Begin/End are
// dropped.
func (r *Renderer) DrawParticle(req psys.DrawRequest) {
	if r.target == nil {
		return
	}
	img, region := r.source(req)
	if img == nil {
		return
	}

	op := &r.op
	op.GeoM = particleGeoM(req, region, r.halfW, r.halfH)
	op.ColorScale.Reset()
	a := float32(req.Color.A)
	op.ColorScale.Scale(float32(req.Color.R)*a, float32(req.Color.G)*a, float32(req.Color.B)*a, a)
	op.Blend = Blend(req.Blend)
	op.Filter = ebiten.FilterLinear
	r.target.DrawImage(img, op)
}

// source resolves the image drawn for req and the region geometry it uses.
func (r *Renderer) source(req psys.DrawRequest) (*ebiten.Image, TextureRegion) {
	if r.Atlas == nil || req.Visual == "" {
		size := r.PixelSize
		if size <= 0 {
			size = DefaultPixelSize
		}
		s := uint16(math.Max(1, math.Round(size)))
		return r.whitePixel(), TextureRegion{Page: whitePage, Width: s, Height: s, OriginalW: s, OriginalH: s}
	}

	region := r.Atlas.FrameRegion(req.Visual, req.Frame)
	var page *ebiten.Image
	if region.Page == magentaPlaceholderPage {
		page = ensureMagentaImage()
	} else if int(region.Page) < len(r.Atlas.Pages) {
		page = r.Atlas.Pages[region.Page]
	}
	if page == nil {
		return nil, region
	}
	if region.Page == magentaPlaceholderPage {
		return page, region
	}
	var rect image.Rectangle
	if region.Rotated {
		rect = image.Rect(int(region.X), int(region.Y), int(region.X)+int(region.Height), int(region.Y)+int(region.Width))
	} else {
		rect = image.Rect(int(region.X), int(region.Y), int(region.X)+int(region.Width), int(region.Y)+int(region.Height))
	}
	return page.SubImage(rect).(*ebiten.Image), region
}

// whitePage marks the generated square used for particles without a visual.
const whitePage = 0xFFFE

func (r *Renderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.White)
	}
	return r.white
}

// particleGeoM maps the source image of region onto the screen: the sprite is
// centered on its untrimmed bounds, scaled and rotated around its center, then
// moved to the particle position relative to the screen center.
func particleGeoM(req psys.DrawRequest, region TextureRegion, halfW, halfH float64) ebiten.GeoM {
	var m ebiten.GeoM
	if region.Page == whitePage {
		// The 1x1 white image is stretched to the requested size.
		m.Scale(float64(region.Width), float64(region.Height))
	} else {
		if region.Rotated {
			m.Rotate(-math.Pi / 2)
			m.Translate(0, float64(region.Width))
		}
		if region.OffsetX != 0 || region.OffsetY != 0 {
			m.Translate(float64(region.OffsetX), float64(region.OffsetY))
		}
	}
	m.Translate(-float64(region.OriginalW)/2, -float64(region.OriginalH)/2)
	m.Scale(req.Scale, req.Scale)
	if req.Angle != 0 {
		m.Rotate(req.Angle)
	}
	m.Translate(halfW+req.X, halfH+req.Y)
	return m
}
