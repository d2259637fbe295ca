package psys

import (
	"math/rand/v2"

	"github.com/tanema/gween/ease"
)

// EmitterStatus controls whether an emitter advances and draws.
type EmitterStatus uint8

const (
	EmitterGo   EmitterStatus = iota // advancing and drawing
	EmitterStop                      // paused: no advance, no draw, not destroyed
)

// Emitter owns and simulates a set of particles sharing one Model. Emitters
// are created and recycled by a System; do not construct them directly.
type Emitter struct {
	id     uint32
	name   string
	status EmitterStatus

	model     Model
	visual    string
	blend     BlendMode
	frames    int
	frameRate float64

	particles []*Particle
	spare     []*Particle

	opt   Optimization
	pivot Pivot
	wind  Vec3
	tween *TweenGroup

	sys   *System
	group *Group
	index int // slot in sys.emitters, -1 when not live
}

func newEmitter() *Emitter {
	return &Emitter{index: -1}
}

// reset prepares a pooled emitter for a new effect.
func (e *Emitter) reset(sys *System, id uint32, model Model, name string, opt Optimization) {
	e.sys = sys
	e.id = id
	e.name = name
	e.status = EmitterGo
	e.model = model
	e.opt = opt
	e.pivot = Pivot{}
	e.wind = Vec3{}
	e.tween = nil
	e.visual, e.blend, e.frames, e.frameRate = "", BlendNormal, 1, 0
	if model != nil {
		c := model.configurator()
		e.visual = c.visual
		e.blend = c.blend
		e.frames, e.frameRate = model.frameAnimation()
	}
}

// clear releases every particle into the spare pool and drops the model.
func (e *Emitter) clear() {
	for i, p := range e.particles {
		e.release(p)
		e.particles[i] = nil
	}
	e.particles = e.particles[:0]
	e.model = nil
	e.tween = nil
	e.group = nil
	e.index = -1
}

// destroy clears the emitter and frees its pools.
func (e *Emitter) destroy() {
	e.clear()
	e.particles = nil
	e.spare = nil
	e.sys = nil
}

func (e *Emitter) rng() *rand.Rand {
	if e.sys == nil {
		return nil
	}
	return e.sys.rng
}

func (e *Emitter) acquire() *Particle {
	if n := len(e.spare); n > 0 {
		p := e.spare[n-1]
		e.spare[n-1] = nil
		e.spare = e.spare[:n-1]
		return p
	}
	return &Particle{emitter: e, index: -1}
}

func (e *Emitter) release(p *Particle) {
	*p = Particle{emitter: e, index: -1}
	e.spare = append(e.spare, p)
}

// Spawn emits up to n new particles, bounded by the emitter's MaxParticles.
// Particles come from the emitter's spare pool before any allocation.
func (e *Emitter) Spawn(n int) (int, error) {
	if e.model == nil {
		return 0, ErrNoConfigurator
	}
	if err := e.model.configurator().Validate(); err != nil {
		return 0, err
	}
	if room := e.opt.MaxParticles - len(e.particles); n > room {
		n = room
	}
	added := 0
	for ; added < n; added++ {
		p := e.acquire()
		if err := p.Emit(); err != nil {
			e.release(p)
			e.track(added)
			return added, err
		}
		p.index = len(e.particles)
		e.particles = append(e.particles, p)
	}
	e.track(added)
	return added, nil
}

// track adjusts the system's live particle total by delta while the emitter
// is registered, so passes between Update calls see the current count.
func (e *Emitter) track(delta int) {
	if e.sys != nil && e.Live() {
		e.sys.total += delta
	}
}

// countLive returns the particles not yet culled.
func (e *Emitter) countLive() int {
	n := 0
	for _, p := range e.particles {
		if !p.removable {
			n++
		}
	}
	return n
}

// update advances every live particle by sec seconds. Removable and spent
// particles are excised in place; a spent particle starts a new cycle instead
// when loops remain and its group is not throttled, and the new cycle advances
// in the same tick.
func (e *Emitter) update(sec float64, throttled bool) {
	if e.tween != nil {
		e.tween.Update(float32(sec * 1000))
		if e.tween.Done {
			e.tween = nil
		}
	}
	e.pivot.X += e.pivot.DX * sec
	e.pivot.Y += e.pivot.DY * sec

	i := 0
	for i < len(e.particles) {
		p := e.particles[i]
		if p.removable {
			e.removeAt(i)
			continue
		}
		if p.status != ParticleRunning {
			i++
			continue
		}
		if p.exhausted() {
			p.counter++
			if throttled || (p.loops != 0 && p.counter >= p.loops) {
				e.removeAt(i)
				continue
			}
			if !p.restart() {
				i++
				continue
			}
		}
		p.update(sec)
		i++
	}
}

// updateRender draws or culls every particle while the emitter is running.
func (e *Emitter) updateRender(f *renderFrame) {
	if e.status != EmitterGo {
		return
	}
	for _, p := range e.particles {
		p.updateRender(f)
	}
}

// removeAt swaps the last particle into slot i. The moved particle has not
// been visited yet when called from update, so iteration neither skips nor
// repeats.
func (e *Emitter) removeAt(i int) {
	p := e.particles[i]
	last := len(e.particles) - 1
	if i != last {
		moved := e.particles[last]
		e.particles[i] = moved
		moved.index = i
	}
	e.particles[last] = nil
	e.particles = e.particles[:last]
	e.release(p)
}

// RemoveParticle removes p immediately. Order of the remaining particles is
// not preserved. Call between ticks only.
func (e *Emitter) RemoveParticle(p *Particle) bool {
	if p == nil || p.emitter != e || p.index < 0 || p.index >= len(e.particles) || e.particles[p.index] != p {
		return false
	}
	if !p.removable {
		e.track(-1)
	}
	e.removeAt(p.index)
	return true
}

// ID returns the id assigned when the emitter was created.
func (e *Emitter) ID() uint32 { return e.id }

// Name returns the emitter's group name.
func (e *Emitter) Name() string { return e.name }

// Model returns the model the emitter was created from.
func (e *Emitter) Model() Model { return e.model }

// Status returns EmitterGo or EmitterStop.
func (e *Emitter) Status() EmitterStatus { return e.status }

// Pause stops advancing and drawing without releasing particles.
func (e *Emitter) Pause() { e.status = EmitterStop }

// Resume undoes Pause.
func (e *Emitter) Resume() { e.status = EmitterGo }

// Live reports whether the emitter is registered in a system's live list.
func (e *Emitter) Live() bool { return e.index >= 0 }

// Len returns the number of live particles.
func (e *Emitter) Len() int { return len(e.particles) }

// Particles returns the live particles. The returned slice MUST NOT be
// mutated and is invalidated by the next Update.
func (e *Emitter) Particles() []*Particle { return e.particles }

// Optimization returns the culling thresholds.
func (e *Emitter) Optimization() Optimization { return e.opt }

// SetOptimization replaces the culling thresholds and refreshes the group
// frame-rate policy.
func (e *Emitter) SetOptimization(o Optimization) {
	d := DefaultOptimization
	if e.sys != nil {
		d = e.sys.defaults
	}
	e.opt = o.normalized(d)
	if e.group != nil {
		e.group.MinFrameRate = e.opt.MinFrameRate
	}
}

// Pivot returns the draw offset.
func (e *Emitter) Pivot() Pivot { return e.pivot }

// SetPivot sets the draw offset and its drift.
func (e *Emitter) SetPivot(p Pivot) { e.pivot = p }

// Wind returns the per-second displacement added to every particle.
func (e *Emitter) Wind() Vec3 { return e.wind }

// SetWind sets the per-second displacement added to every particle.
func (e *Emitter) SetWind(w Vec3) { e.wind = w }

// Animate attaches a tween that the emitter advances on each update, in
// milliseconds. It replaces any previous tween.
func (e *Emitter) Animate(g *TweenGroup) { e.tween = g }

// MovePivot tweens the pivot to (x, y) over durationMillis.
func (e *Emitter) MovePivot(x, y float64, durationMillis float32, fn ease.TweenFunc) {
	e.Animate(TweenPivot(e, x, y, durationMillis, fn))
}

// normalized fills a zero hard cap from d.
func (o Optimization) normalized(d Optimization) Optimization {
	if o.MaxParticles <= 0 {
		o.MaxParticles = d.MaxParticles
	}
	return o
}
