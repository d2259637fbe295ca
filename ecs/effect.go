package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/psys"
)

// Anchor is the world position an entity's effects follow.
type Anchor struct {
	X, Y float64
}

// Effect binds an entity to an emitter. The emitter ID guards against the
// emitter being recycled into another effect.
type Effect struct {
	Emitter   *psys.Emitter
	EmitterID uint32
	OffsetX   float64
	OffsetY   float64
}

var (
	// AnchorComponent holds an entity's Anchor.
	AnchorComponent = donburi.NewComponentType[Anchor]()
	// EffectComponent holds an entity's Effect.
	EffectComponent = donburi.NewComponentType[Effect]()
)

var effectQuery = donburi.NewQuery(filter.Contains(EffectComponent))

// Attach binds e to entity at the given offset from its anchor, adding the
// Anchor and Effect components as needed.
func Attach(world donburi.World, entity donburi.Entity, e *psys.Emitter, offsetX, offsetY float64) {
	entry := world.Entry(entity)
	if !entry.HasComponent(AnchorComponent) {
		entry.AddComponent(AnchorComponent)
	}
	if !entry.HasComponent(EffectComponent) {
		entry.AddComponent(EffectComponent)
	}
	EffectComponent.SetValue(entry, Effect{
		Emitter:   e,
		EmitterID: e.ID(),
		OffsetX:   offsetX,
		OffsetY:   offsetY,
	})
}

// Alive reports whether the bound emitter still runs the effect it was
// attached for.
func (f *Effect) Alive() bool {
	return f.Emitter != nil && f.Emitter.Live() && f.Emitter.ID() == f.EmitterID
}

// SyncEffects moves every bound emitter's pivot to its entity's anchor plus
// offset, and removes the Effect component from entities whose emitter is
// gone. It returns the number of live effects.
func SyncEffects(world donburi.World) int {
	var stale []*donburi.Entry
	live := 0
	effectQuery.Each(world, func(entry *donburi.Entry) {
		fx := EffectComponent.Get(entry)
		if !fx.Alive() {
			stale = append(stale, entry)
			return
		}
		live++
		if !entry.HasComponent(AnchorComponent) {
			return
		}
		a := AnchorComponent.Get(entry)
		p := fx.Emitter.Pivot()
		p.X = a.X + fx.OffsetX
		p.Y = a.Y + fx.OffsetY
		fx.Emitter.SetPivot(p)
	})
	for _, entry := range stale {
		entry.RemoveComponent(EffectComponent)
	}
	return live
}
