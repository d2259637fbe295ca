package psys

// ParticleStatus is the lifecycle state of a Particle.
type ParticleStatus uint8

const (
	ParticleStopped ParticleStatus = iota // inert: pooled, or configured and waiting for Emit
	ParticleRunning                       // animating and drawn when visible
)

// channel is one linearly animated value. step is the change per second.
type channel struct {
	value float64
	step  float64
	end   float64
}

func (c *channel) set(from, to, step float64) {
	c.value = from
	c.end = to
	c.step = step
}

func (c *channel) advance(sec float64) {
	if c.step != 0 {
		c.value += c.step * sec
	}
}

// Particle is one simulated, drawable instance owned by an Emitter. The
// emitter back-link is non-owning: an emitter always outlives its particles
// within a tick.
type Particle struct {
	status ParticleStatus

	x, y, z            channel
	scale, alpha       channel
	angle              channel
	red, green, blue   channel
	duration, elapsed  float64 // milliseconds
	durationRange      float64
	loops, counter     int
	frame              int
	emitted, removable bool

	emitter *Emitter
	index   int // slot in emitter.particles, -1 when pooled
}

// Set re-rolls every channel from the emitter's model using a freshly drawn
// lifetime and leaves the particle Stopped. It fails without side effects when
// the particle has no emitter, the emitter no model, or the model is invalid.
func (p *Particle) Set() error {
	if p.emitter == nil {
		return ErrNoEmitter
	}
	if p.emitter.model == nil {
		return ErrNoConfigurator
	}
	c := p.emitter.model.configurator()
	if err := c.Validate(); err != nil {
		return err
	}
	rng := p.emitter.rng()

	d := c.CalculateInto(rng)
	p.duration = d
	p.durationRange = c.durationRange
	p.loops = c.loops

	p.x.set(c.posX.CalculateInto(d, rng))
	p.y.set(c.posY.CalculateInto(d, rng))
	p.z.set(c.posZ.CalculateInto(d, rng))
	p.alpha.set(c.alpha.CalculateInto(d, rng))
	p.angle.set(c.rotation.CalculateInto(d, rng))
	p.scale.set(c.scale.CalculateInto(d, rng))
	p.red.set(c.red.CalculateInto(d))
	p.green.set(c.green.CalculateInto(d))
	p.blue.set(c.blue.CalculateInto(d))

	p.elapsed = 0
	p.frame = 0
	p.removable = false
	p.status = ParticleStopped
	return nil
}

// Emit configures the particle and starts it running with a fresh cycle
// counter.
func (p *Particle) Emit() error {
	if err := p.Set(); err != nil {
		return err
	}
	p.status = ParticleRunning
	p.counter = p.emitter.model.configurator().startCounter
	p.emitted = true
	return nil
}

// restart begins the next life cycle, keeping the cycle counter.
func (p *Particle) restart() bool {
	if p.Set() != nil {
		return false
	}
	p.status = ParticleRunning
	return true
}

// exhausted reports whether the current life cycle has run its duration.
func (p *Particle) exhausted() bool {
	return p.elapsed >= p.duration
}

// update advances every channel by sec seconds. Channels are not clamped;
// the emitter decides when a cycle ends.
func (p *Particle) update(sec float64) {
	e := p.emitter
	p.elapsed += sec * 1000

	p.x.advance(sec)
	p.y.advance(sec)
	p.z.advance(sec)
	if e.wind != (Vec3{}) {
		p.x.value += e.wind.X * sec
		p.y.value += e.wind.Y * sec
		p.z.value += e.wind.Z * sec
	}
	p.alpha.advance(sec)
	p.angle.advance(sec)
	p.scale.advance(sec)
	p.red.advance(sec)
	p.green.advance(sec)
	p.blue.advance(sec)

	if e.frames > 1 && e.frameRate > 0 {
		p.frame = int(p.elapsed*e.frameRate/1000) % e.frames
	}
}

// updateRender culls the particle or issues its draw request.
//
// The hard cap is checked first and always enforced. Inside the soft zone the
// cheap visual checks (alpha, size) run before the bounds checks.
func (p *Particle) updateRender(f *renderFrame) {
	if p.removable || p.status != ParticleRunning {
		return
	}
	e := p.emitter
	o := &e.opt

	if f.live > o.MaxParticles {
		p.cull(f)
		return
	}

	x := p.x.value + e.pivot.X
	y := p.y.value + e.pivot.Y

	if f.live > o.MinParticles {
		dx := p.x.step + e.wind.X
		dy := p.y.step + e.wind.Y
		switch {
		case p.alpha.value < o.MinAlpha && p.alpha.step <= 0,
			p.scale.value < o.MinSize && p.scale.step <= 0,
			f.bounded && (x > f.halfW && dx > 0 || x < -f.halfW && dx < 0),
			f.bounded && (y > f.halfH && dy > 0 || y < -f.halfH && dy < 0):
			p.cull(f)
			return
		}
	}

	f.drawn++
	if f.r == nil {
		return
	}
	f.r.DrawParticle(DrawRequest{
		X:     x,
		Y:     y,
		Depth: p.z.value + e.pivot.Z,
		Angle: p.angle.value,
		Scale: p.scale.value,
		Color: Color{
			R: unit(p.red.value),
			G: unit(p.green.value),
			B: unit(p.blue.value),
			A: unit(p.alpha.value),
		},
		Blend:   e.blend,
		Visual:  e.visual,
		Frame:   p.frame,
		Emitter: e.id,
	})
}

func (p *Particle) cull(f *renderFrame) {
	p.removable = true
	f.live--
	f.optimized++
}

// unit converts a 0-255 channel to [0, 1].
func unit(v float64) float64 {
	v /= colorScale
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Status returns the lifecycle state.
func (p *Particle) Status() ParticleStatus { return p.status }

// Position returns the current position relative to the emitter pivot.
func (p *Particle) Position() Vec3 { return Vec3{p.x.value, p.y.value, p.z.value} }

// Velocity returns the per-second position steps.
func (p *Particle) Velocity() Vec3 { return Vec3{p.x.step, p.y.step, p.z.step} }

// Alpha returns the current alpha in 0-255 units.
func (p *Particle) Alpha() float64 { return p.alpha.value }

// Scale returns the current uniform scale.
func (p *Particle) Scale() float64 { return p.scale.value }

// Angle returns the current rotation in radians.
func (p *Particle) Angle() float64 { return p.angle.value }

// Color returns the current color in [0, 1], alpha included.
func (p *Particle) Color() Color {
	return Color{unit(p.red.value), unit(p.green.value), unit(p.blue.value), unit(p.alpha.value)}
}

// Duration returns the lifetime of the current cycle in milliseconds.
func (p *Particle) Duration() float64 { return p.duration }

// Elapsed returns the time spent in the current cycle in milliseconds.
func (p *Particle) Elapsed() float64 { return p.elapsed }

// Counter returns the number of completed cycles, offset by the model's
// start counter.
func (p *Particle) Counter() int { return p.counter }

// Frame returns the sprite-sheet frame.
func (p *Particle) Frame() int { return p.frame }

// Emitted reports whether the particle has been emitted at least once.
func (p *Particle) Emitted() bool { return p.emitted }

// Removable reports whether the particle was culled and awaits removal.
func (p *Particle) Removable() bool { return p.removable }

// Emitter returns the owning emitter.
func (p *Particle) Emitter() *Emitter { return p.emitter }
