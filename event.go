package psys

// EventType identifies a System lifecycle event.
type EventType uint8

const (
	EventEmitterCreated     EventType = iota // an emitter left the free list (or was allocated)
	EventEmitterRecycled                     // an emitter returned to the free list
	EventEmitterDestroyed                    // an emitter was force-removed or cleared
	EventParticlesOptimized                  // particles were culled by an UpdateRender pass
)

// Event carries lifecycle data to an EventSink.
type Event struct {
	Type      EventType
	EmitterID uint32
	Name      string
	// Count is the particle count at creation, or the number culled for
	// EventParticlesOptimized.
	Count int
	Tick  uint64
}

// EventSink is the interface for optional lifecycle observers such as an ECS
// bridge. Events are delivered synchronously from the simulation goroutine.
type EventSink interface {
	EmitEvent(event Event)
}

func (s *System) emit(ev Event) {
	if s.events == nil {
		return
	}
	ev.Tick = s.tick
	s.events.EmitEvent(ev)
}
