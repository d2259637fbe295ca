package psys

import (
	"fmt"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Particles store their animated channels in 0-255 units; Color is what a
// Renderer receives.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec3 is a 3D vector. Z is used as a depth-order hint only.
type Vec3 struct {
	X, Y, Z float64
}

// Pivot is a per-emitter offset applied to every particle's draw position.
// DX and DY drift the pivot in units per second.
type Pivot struct {
	X, Y, Z float64
	DX, DY  float64
}

// BlendMode selects a compositing operation. Renderers map it to their own
// blend state.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendNone                      // opaque copy (skip blending)
)

var blendNames = [...]string{
	BlendNormal:   "normal",
	BlendAdd:      "add",
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
	BlendErase:    "erase",
	BlendNone:     "none",
}

// String returns the lower-case name used by preset documents.
func (b BlendMode) String() string {
	if int(b) < len(blendNames) {
		return blendNames[b]
	}
	return fmt.Sprintf("blend(%d)", uint8(b))
}

// ParseBlendMode converts a preset name to a BlendMode. The empty string is
// BlendNormal.
func ParseBlendMode(s string) (BlendMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BlendNormal, nil
	}
	for i, name := range blendNames {
		if name == s {
			return BlendMode(i), nil
		}
	}
	return BlendNormal, fmt.Errorf("unknown blend mode %q", s)
}

// Viewport supplies the half extents used by the bounds culling criteria.
// Particle coordinates are centered on the viewport origin.
type Viewport interface {
	HalfExtents() (halfWidth, halfHeight float64)
}

// StaticViewport is a fixed-size Viewport.
type StaticViewport struct {
	HalfWidth, HalfHeight float64
}

// HalfExtents implements Viewport.
func (v StaticViewport) HalfExtents() (float64, float64) {
	return v.HalfWidth, v.HalfHeight
}

// DefaultPoolSize is the number of emitters pre-allocated by NewSystem when
// Config.PoolSize is zero.
const DefaultPoolSize = 100

// ZeroDurationStep is the step magnitude used when a channel is asked to
// animate over a zero duration.
const ZeroDurationStep = 0.01

// colorScale converts 0-1 color and alpha inputs to the 0-255 units stored on
// particles.
const colorScale = 255.0
