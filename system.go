package psys

import (
	"log"
	"math/rand/v2"
	"time"
)

// Config controls a System. The zero value is usable.
type Config struct {
	// PoolSize is the number of emitters pre-allocated at construction.
	// Zero means DefaultPoolSize; a negative value disables pre-warming.
	PoolSize int
	// Viewport supplies the bounds culling extents. Nil disables the bounds
	// criteria.
	Viewport Viewport
	// Optimization is applied to emitters whose model has no override. The
	// zero value means DefaultOptimization.
	Optimization Optimization
	// Seed, when non-zero, makes every random draw reproducible.
	Seed uint64
	// Debug enables per-pass stats on stderr.
	Debug bool
}

// Group aggregates the emitters sharing a name for frame-rate throttling.
type Group struct {
	Name         string
	MinFrameRate float64
	// LastUpdate is the tick at which a member emitter last advanced.
	LastUpdate uint64
	// Emitters is the number of live member emitters.
	Emitters int
	// Throttled is true for the current tick when the driver's frame rate is
	// below MinFrameRate. Spent particles of a throttled group are not
	// re-seeded.
	Throttled bool
}

// System owns every emitter, the emitter free list and the group registry,
// and drives the per-tick update and render passes.
//
// A System is not safe for concurrent use. Call Update then UpdateRender
// once per tick from the simulation goroutine.
type System struct {
	emitters []*Emitter
	free     []*Emitter
	groups   map[string]*Group

	optimizedCount int
	idCounter      uint32
	allocated      int
	total          int
	tick           uint64
	frameRate      float64

	viewport Viewport
	defaults Optimization
	rng      *rand.Rand
	events   EventSink

	frame renderFrame
	debug bool
	stats debugStats
}

// renderFrame is the scratch state of one UpdateRender pass.
type renderFrame struct {
	r            Renderer
	live         int
	halfW, halfH float64
	bounded      bool
	drawn        int
	optimized    int
}

// NewSystem creates a System and pre-warms its emitter free list.
func NewSystem(cfg Config) *System {
	s := &System{
		groups:   make(map[string]*Group),
		viewport: cfg.Viewport,
		defaults: cfg.Optimization,
		debug:    cfg.Debug,
	}
	if s.defaults == (Optimization{}) {
		s.defaults = DefaultOptimization
	}
	s.defaults = s.defaults.normalized(DefaultOptimization)
	if cfg.Seed != 0 {
		s.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}

	n := cfg.PoolSize
	if n == 0 {
		n = DefaultPoolSize
	}
	if n > 0 {
		s.emitters = make([]*Emitter, 0, n)
		s.free = make([]*Emitter, 0, n)
		for i := 0; i < n; i++ {
			s.free = append(s.free, s.allocEmitter())
		}
	}
	return s
}

func (s *System) allocEmitter() *Emitter {
	s.allocated++
	return newEmitter()
}

// CreateEmitter takes an emitter from the free list (allocating only when it
// is empty), registers it under name and spawns the model's Count particles.
// An empty name falls back to the model's name. The result is never nil.
func (s *System) CreateEmitter(model Model, name string) *Emitter {
	var e *Emitter
	if n := len(s.free); n > 0 {
		e = s.free[n-1]
		s.free[n-1] = nil
		s.free = s.free[:n-1]
	} else {
		e = s.allocEmitter()
	}

	opt := s.defaults
	count := 0
	if model != nil {
		c := model.configurator()
		if name == "" {
			name = c.name
		}
		if c.opt != nil {
			opt = c.opt.normalized(s.defaults)
		}
		count = c.count
	}

	s.idCounter++
	e.reset(s, s.idCounter, model, name, opt)
	e.index = len(s.emitters)
	s.emitters = append(s.emitters, e)

	g := s.groups[name]
	if g == nil {
		g = &Group{Name: name}
		s.groups[name] = g
	}
	g.MinFrameRate = opt.MinFrameRate
	g.Emitters++
	e.group = g

	if count > 0 {
		if _, err := e.Spawn(count); err != nil && s.debug {
			log.Printf("psys: emitter %q: %v", name, err)
		}
	}
	s.emit(Event{Type: EventEmitterCreated, EmitterID: e.id, Name: name, Count: len(e.particles)})
	return e
}

// RemoveEmitter unregisters e. With forceDelete the emitter is destroyed;
// otherwise it returns to the free list for reuse.
func (s *System) RemoveEmitter(e *Emitter, forceDelete bool) {
	if e == nil || e.sys != s || e.index < 0 {
		return
	}
	s.total -= e.countLive()
	s.unlink(e.index)
	if forceDelete {
		s.destroyEmitter(e)
		return
	}
	s.recycle(e)
}

// unlink swap-removes the emitter at slot i from the live list.
func (s *System) unlink(i int) {
	e := s.emitters[i]
	last := len(s.emitters) - 1
	if i != last {
		moved := s.emitters[last]
		s.emitters[i] = moved
		moved.index = i
	}
	s.emitters[last] = nil
	s.emitters = s.emitters[:last]
	if e.group != nil {
		e.group.Emitters--
	}
	e.index = -1
}

func (s *System) recycle(e *Emitter) {
	s.emit(Event{Type: EventEmitterRecycled, EmitterID: e.id, Name: e.name})
	e.clear()
	s.free = append(s.free, e)
}

func (s *System) destroyEmitter(e *Emitter) {
	s.emit(Event{Type: EventEmitterDestroyed, EmitterID: e.id, Name: e.name})
	e.destroy()
}

// Update advances every running emitter by elapsed and recycles emitters left
// without particles. It is the only pass that removes particles or emitters.
func (s *System) Update(elapsed time.Duration) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.tick++
	sec := elapsed.Seconds()
	for _, g := range s.groups {
		g.Throttled = s.frameRate > 0 && g.MinFrameRate > 0 && s.frameRate < g.MinFrameRate
	}

	total := 0
	i := 0
	for i < len(s.emitters) {
		e := s.emitters[i]
		if e.status == EmitterGo {
			throttled := false
			if e.group != nil {
				throttled = e.group.Throttled
				e.group.LastUpdate = s.tick
			}
			e.update(sec, throttled)
		}
		if len(e.particles) == 0 {
			s.unlink(i)
			s.recycle(e)
			continue
		}
		if e.status == EmitterGo {
			total += len(e.particles)
		} else {
			total += e.countLive()
		}
		i++
	}
	s.total = total

	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
}

// UpdateRender culls and draws every particle of every running emitter. r may
// be nil to run culling only. Nothing is removed in this pass; culled
// particles are excised by the next Update.
func (s *System) UpdateRender(r Renderer) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	f := &s.frame
	*f = renderFrame{r: r, live: s.total}
	if s.viewport != nil {
		f.halfW, f.halfH = s.viewport.HalfExtents()
		f.bounded = true
	}

	for _, e := range s.emitters {
		e.updateRender(f)
	}

	s.total = f.live
	if f.optimized > 0 {
		s.optimizedCount += f.optimized
		s.emit(Event{Type: EventParticlesOptimized, Count: f.optimized})
	}

	if s.debug {
		s.stats.renderTime = time.Since(t0)
		s.stats.emitters = len(s.emitters)
		s.stats.free = len(s.free)
		s.stats.particles = s.total
		s.stats.drawn = f.drawn
		s.stats.optimized = f.optimized
		s.debugLog(s.stats)
	}
}

// ClearAll destroys every live and recycled emitter, resets the optimized
// count and forgets all groups.
func (s *System) ClearAll() {
	for i, e := range s.emitters {
		s.destroyEmitter(e)
		s.emitters[i] = nil
	}
	s.emitters = s.emitters[:0]
	for i, e := range s.free {
		e.destroy()
		s.free[i] = nil
	}
	s.free = s.free[:0]
	clear(s.groups)
	s.optimizedCount = 0
	s.total = 0
}

// SetFrameRate records the driver's current frame rate for group throttling.
// Zero disables throttling.
func (s *System) SetFrameRate(fps float64) { s.frameRate = fps }

// SetViewport replaces the bounds culling viewport.
func (s *System) SetViewport(v Viewport) { s.viewport = v }

// SetEventSink sets the optional lifecycle event receiver.
func (s *System) SetEventSink(sink EventSink) { s.events = sink }

// TotalParticles returns the live particle count: the total at the end of the
// last Update, adjusted for particles spawned, removed or culled since.
func (s *System) TotalParticles() int { return s.total }

// OptimizedCount returns the number of particles culled since construction
// or the last ClearAll.
func (s *System) OptimizedCount() int { return s.optimizedCount }

// Emitters returns the live emitters. The returned slice MUST NOT be mutated.
func (s *System) Emitters() []*Emitter { return s.emitters }

// FreeCount returns the number of emitters waiting in the free list.
func (s *System) FreeCount() int { return len(s.free) }

// Allocated returns the number of Emitter objects allocated since
// construction, pre-warmed ones included.
func (s *System) Allocated() int { return s.allocated }

// Group returns the group registered under name, or nil.
func (s *System) Group(name string) *Group { return s.groups[name] }

// Groups returns the number of registered groups.
func (s *System) Groups() int { return len(s.groups) }

// Tick returns the number of Update calls.
func (s *System) Tick() uint64 { return s.tick }
