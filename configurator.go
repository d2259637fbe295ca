package psys

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrInvalidConfiguration is returned when a particle is set from a
	// configurator missing a required channel.
	ErrInvalidConfiguration = errors.New("psys: invalid configuration")
	// ErrNoConfigurator is returned when a particle's emitter has no model.
	ErrNoConfigurator = errors.New("psys: emitter has no configurator")
	// ErrNoEmitter is returned when a particle is used without an emitter.
	ErrNoEmitter = errors.New("psys: particle has no emitter")
)

// Optimization holds the adaptive culling thresholds of an emitter. Particle
// counts are compared against the system-wide live total.
type Optimization struct {
	// MinFrameRate throttles the emitter's group when the driver reports a
	// lower frame rate. Zero disables throttling.
	MinFrameRate float64
	// MaxParticles is the hard cap. Above it every visited particle is culled.
	MaxParticles int
	// MinParticles starts the soft culling zone.
	MinParticles int
	// MinAlpha is the alpha (0-255) below which a fading particle is culled.
	MinAlpha float64
	// MinSize is the scale below which a shrinking particle is culled.
	MinSize float64
}

// DefaultOptimization is applied to emitters whose model carries no override.
var DefaultOptimization = Optimization{
	MaxParticles: 4096,
	MinParticles: 1024,
	MinAlpha:     8,
	MinSize:      0.05,
}

// Model is the particle template an emitter is created from. The set of
// implementations is closed: *Configurator and *SpriteConfigurator.
type Model interface {
	configurator() *Configurator
	frameAnimation() (frames int, rate float64)
}

// Configurator describes how one kind of particle animates and looks. It is
// populated at configuration time and read-only while emitters use it.
type Configurator struct {
	name string

	posX, posY, posZ ParameterSettings
	alpha            ParameterSettings
	rotation         ParameterSettings
	scale            ParameterSettings
	red, green, blue ColorSettings

	duration      float64 // milliseconds
	durationRange float64 // milliseconds
	startCounter  int
	loops         int
	count         int

	visual string
	blend  BlendMode
	opt    *Optimization

	positionSet bool
	durationSet bool
}

// NewConfigurator returns a configurator with opaque white, unit scale, no
// rotation, a single loop and a single particle per emission. Position and
// duration must still be set.
func NewConfigurator(name string) *Configurator {
	return &Configurator{
		name:     name,
		alpha:    Constant(Fixed(colorScale)),
		rotation: Constant(Fixed(0)),
		scale:    Constant(Fixed(1)),
		red:      ColorSettings{colorScale, colorScale},
		green:    ColorSettings{colorScale, colorScale},
		blue:     ColorSettings{colorScale, colorScale},
		loops:    1,
		count:    1,
	}
}

func (c *Configurator) configurator() *Configurator   { return c }
func (c *Configurator) frameAnimation() (int, float64) { return 1, 0 }

// Name returns the configurator name.
func (c *Configurator) Name() string { return c.name }

// Duration returns the base lifetime and its random spread in milliseconds.
func (c *Configurator) Duration() (base, spread float64) { return c.duration, c.durationRange }

// Loops returns the number of life cycles per particle. Zero is infinite.
func (c *Configurator) Loops() int { return c.loops }

// StartCounter returns the initial value of a particle's cycle counter.
func (c *Configurator) StartCounter() int { return c.startCounter }

// Count returns the number of particles spawned when an emitter is created.
func (c *Configurator) Count() int { return c.count }

// Visual returns the opaque renderer reference.
func (c *Configurator) Visual() string { return c.visual }

// Blend returns the blend mode.
func (c *Configurator) Blend() BlendMode { return c.blend }

// Optimization returns the per-model culling override, or nil.
func (c *Configurator) Optimization() *Optimization { return c.opt }

// SetPosition sets the three position channels.
func (c *Configurator) SetPosition(x, y, z ParameterSettings) {
	c.posX, c.posY, c.posZ = x, y, z
	c.positionSet = true
}

// SetRotation sets the angle channel in radians.
func (c *Configurator) SetRotation(r ParameterSettings) {
	c.rotation = r
}

// SetTransparency sets the alpha channel from 0-1 inputs. Values are stored
// in 0-255 units to match the color channels.
func (c *Configurator) SetTransparency(a ParameterSettings) {
	c.alpha = ParameterSettings{
		Start: a.Start.scaled(colorScale),
		End:   a.End.scaled(colorScale),
	}
}

// SetZoom sets the uniform scale channel.
func (c *Configurator) SetZoom(s ParameterSettings) {
	c.scale = s
}

// SetColor sets the color channels from 0-1 endpoints. Alpha is ignored; use
// SetTransparency.
func (c *Configurator) SetColor(from, to Color) {
	c.red = ColorSettings{from.R * colorScale, to.R * colorScale}
	c.green = ColorSettings{from.G * colorScale, to.G * colorScale}
	c.blue = ColorSettings{from.B * colorScale, to.B * colorScale}
}

// SetBlend sets the blend mode.
func (c *Configurator) SetBlend(b BlendMode) {
	c.blend = b
}

// SetDuration sets the lifetime of one cycle as base ± spread milliseconds.
func (c *Configurator) SetDuration(base, spread float64) {
	c.duration = base
	c.durationRange = spread
	c.durationSet = true
}

// SetLoops sets the number of life cycles. Zero loops forever.
func (c *Configurator) SetLoops(n int) {
	c.loops = n
}

// SetStartCounter sets the value a particle's cycle counter starts from.
func (c *Configurator) SetStartCounter(n int) {
	c.startCounter = n
}

// SetCount sets the number of particles spawned when an emitter is created.
func (c *Configurator) SetCount(n int) {
	c.count = n
}

// SetVisual sets the renderer reference (an atlas region name, a glyph set...).
func (c *Configurator) SetVisual(v string) {
	c.visual = v
}

// SetOptimization overrides the system default culling thresholds for
// emitters created from this configurator.
func (c *Configurator) SetOptimization(o Optimization) {
	c.opt = &o
}

// CalculateInto draws one lifetime in milliseconds: duration ± durationRange,
// never negative.
func (c *Configurator) CalculateInto(rng *rand.Rand) float64 {
	d := Spread(c.duration, -c.durationRange, c.durationRange).Sample(rng)
	if d < 0 {
		return 0
	}
	return d
}

// Validate reports missing required channels.
func (c *Configurator) Validate() error {
	switch {
	case !c.positionSet:
		return fmt.Errorf("%w: %q has no position", ErrInvalidConfiguration, c.name)
	case !c.durationSet:
		return fmt.Errorf("%w: %q has no duration", ErrInvalidConfiguration, c.name)
	case c.loops < 0:
		return fmt.Errorf("%w: %q has negative loops", ErrInvalidConfiguration, c.name)
	}
	return nil
}

// SpriteConfigurator is a Configurator whose visual is a sprite sheet. Each
// particle cycles through Frames at FrameRate frames per second.
type SpriteConfigurator struct {
	Configurator
	Frames    int
	FrameRate float64
}

// NewSpriteConfigurator returns a sprite-sheet configurator with the same
// defaults as NewConfigurator.
func NewSpriteConfigurator(name string, frames int, rate float64) *SpriteConfigurator {
	return &SpriteConfigurator{
		Configurator: *NewConfigurator(name),
		Frames:       frames,
		FrameRate:    rate,
	}
}

func (s *SpriteConfigurator) configurator() *Configurator { return &s.Configurator }

func (s *SpriteConfigurator) frameAnimation() (int, float64) {
	if s.Frames < 1 {
		return 1, 0
	}
	return s.Frames, s.FrameRate
}
