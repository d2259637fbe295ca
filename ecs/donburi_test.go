package ecs

import (
	"testing"
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/psys"
)

func stillModel(name string, durationMillis float64) *psys.Configurator {
	m := psys.NewConfigurator(name)
	m.SetPosition(psys.Constant(psys.Fixed(0)), psys.Constant(psys.Fixed(0)), psys.Constant(psys.Fixed(0)))
	m.SetDuration(durationMillis, 0)
	return m
}

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []psys.Event
	SystemEventType.Subscribe(world, func(w donburi.World, e psys.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(psys.Event{Type: psys.EventEmitterCreated, EmitterID: 42, Name: "spark", Count: 8})
	sink.EmitEvent(psys.Event{Type: psys.EventParticlesOptimized, Count: 3})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("events delivered before processing: %d", len(received))
	}
	SystemEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != psys.EventEmitterCreated || e.EmitterID != 42 || e.Name != "spark" {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != psys.EventParticlesOptimized || e.Count != 3 {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_FromSystem(t *testing.T) {
	world := donburi.NewWorld()
	s := psys.NewSystem(psys.Config{PoolSize: 1})
	s.SetEventSink(NewDonburiSink(world))

	var created, recycled int
	SystemEventType.Subscribe(world, func(w donburi.World, e psys.Event) {
		switch e.Type {
		case psys.EventEmitterCreated:
			created++
		case psys.EventEmitterRecycled:
			recycled++
		}
	})

	s.CreateEmitter(stillModel("burst", 10), "")
	s.Update(20 * time.Millisecond)
	s.Update(20 * time.Millisecond)
	events.ProcessAllEvents(world)

	if created != 1 || recycled != 1 {
		t.Errorf("created=%d recycled=%d, want 1 and 1", created, recycled)
	}
}

func TestSyncEffectsFollowsAnchor(t *testing.T) {
	world := donburi.NewWorld()
	s := psys.NewSystem(psys.Config{PoolSize: 1})
	e := s.CreateEmitter(stillModel("trail", 10000), "")

	entity := world.Create(AnchorComponent)
	Attach(world, entity, e, 0, -8)
	AnchorComponent.SetValue(world.Entry(entity), Anchor{X: 100, Y: 50})

	if n := SyncEffects(world); n != 1 {
		t.Fatalf("live effects = %d, want 1", n)
	}
	if p := e.Pivot(); p.X != 100 || p.Y != 42 {
		t.Errorf("pivot = %+v, want (100, 42)", p)
	}
}

func TestSyncEffectsDropsRecycled(t *testing.T) {
	world := donburi.NewWorld()
	s := psys.NewSystem(psys.Config{PoolSize: 1})
	e := s.CreateEmitter(stillModel("short", 10), "")

	entity := world.Create(AnchorComponent)
	Attach(world, entity, e, 0, 0)

	s.Update(20 * time.Millisecond)
	s.Update(20 * time.Millisecond)
	if e.Live() {
		t.Fatal("emitter should have been recycled")
	}

	// Reuse of the pooled emitter must not revive the binding.
	reused := s.CreateEmitter(stillModel("other", 10000), "")
	if reused != e {
		t.Fatal("expected the pooled emitter to be reused")
	}

	if n := SyncEffects(world); n != 0 {
		t.Errorf("live effects = %d, want 0", n)
	}
	if world.Entry(entity).HasComponent(EffectComponent) {
		t.Error("stale Effect component not removed")
	}
	if reused.Pivot() != (psys.Pivot{}) {
		t.Errorf("reused emitter pivot moved: %+v", reused.Pivot())
	}
}
