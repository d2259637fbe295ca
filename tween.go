package psys

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 fields of an Emitter simultaneously.
// Create one with TweenPivot or TweenWind. Attach it with Emitter.Animate to
// have the emitter advance it in milliseconds, or call Update yourself with
// whatever time unit the duration was given in. If the target emitter leaves
// the live list, or is recycled into another effect, the group stops
// immediately.
type TweenGroup struct {
	tweens   [3]*gween.Tween
	count    int
	fields   [3]*float64
	target   *Emitter
	targetID uint32
	Done     bool
}

// Update advances all tweens by dt and writes values to the target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && (!g.target.Live() || g.target.ID() != g.targetID) {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenPivot creates a TweenGroup that moves the emitter pivot to (toX, toY)
// over duration using the easing function.
func TweenPivot(e *Emitter, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: e, targetID: e.id}
	g.tweens[0] = gween.New(float32(e.pivot.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(e.pivot.Y), float32(toY), duration, fn)
	g.fields[0] = &e.pivot.X
	g.fields[1] = &e.pivot.Y
	return g
}

// TweenWind creates a TweenGroup that changes the emitter wind to the target
// vector over duration using the easing function.
func TweenWind(e *Emitter, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: e, targetID: e.id}
	g.tweens[0] = gween.New(float32(e.wind.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(e.wind.Y), float32(to.Y), duration, fn)
	g.tweens[2] = gween.New(float32(e.wind.Z), float32(to.Z), duration, fn)
	g.fields[0] = &e.wind.X
	g.fields[1] = &e.wind.Y
	g.fields[2] = &e.wind.Z
	return g
}
