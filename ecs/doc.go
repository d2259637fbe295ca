// Package ecs connects a psys.System to a [Donburi] world.
//
// [NewDonburiSink] publishes system lifecycle events (emitter created,
// recycled, destroyed, particles optimized) as typed Donburi events.
// Subscribe to [SystemEventType] in your ECS systems to receive them.
//
// [EffectComponent] binds an entity to a live emitter; [SyncEffects] moves
// each bound emitter's pivot to its entity's [Anchor] every tick and drops
// bindings whose emitter was recycled.
//
// Usage:
//
//	sys.SetEventSink(ecs.NewDonburiSink(world))
//	ecs.Attach(world, entity, sys.CreateEmitter(model, ""), 0, -8)
//	...
//	ecs.SyncEffects(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
