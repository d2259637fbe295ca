// Package psys is a pooled particle-system engine for 2D and 2.5D games.
//
// psys owns the particle simulation only: emitters, particles, their
// lifecycle and the adaptive culling that bounds per-frame cost. Drawing is
// delegated to a [Renderer]; the ebitenrender and termrender packages provide
// ready-made ones, and the preset package loads models from YAML.
//
// # Quick start
//
//	sys := psys.NewSystem(psys.Config{
//		Viewport: psys.StaticViewport{HalfWidth: 320, HalfHeight: 240},
//	})
//
//	spark := psys.NewConfigurator("spark")
//	spark.SetPosition(
//		psys.Animate(psys.Fixed(0), psys.Spread(0, -80, 80)),
//		psys.Animate(psys.Fixed(0), psys.Spread(-120, -40, 40)),
//		psys.Constant(psys.Fixed(0)),
//	)
//	spark.SetTransparency(psys.Animate(psys.Fixed(1), psys.Fixed(0)))
//	spark.SetDuration(900, 300)
//	spark.SetCount(64)
//
//	sys.CreateEmitter(spark, "")
//
// Each tick, advance the simulation and then draw:
//
//	sys.Update(elapsed)
//	sys.UpdateRender(renderer)
//
// Update is the only pass that removes particles or emitters, so rendering
// never observes a particle mid-removal.
//
// # Models
//
// A [Model] is the template an emitter is created from: a [Configurator], or
// a [SpriteConfigurator] for sprite-sheet particles. Every animated channel is
// a [ParameterSettings] pair of randomized [Range] values; a particle samples
// both ends when it starts a life cycle and interpolates linearly between
// them. Color and alpha are stored in 0-255 units.
//
// # Pooling
//
// A [System] pre-allocates [Config.PoolSize] emitters. Emitters whose
// particles are all gone are returned to the free list by Update and reused
// by the next CreateEmitter. Each emitter keeps its own pool of spare
// particles.
//
// # Adaptive culling
//
// During UpdateRender every particle is checked against its emitter's
// [Optimization]. Above MaxParticles live particles (system-wide) particles
// are culled unconditionally; above MinParticles faded, shrunken or
// off-screen particles moving away are culled. Under sustained load effects
// thin out instead of failing.
//
// # Groups
//
// Emitters sharing a name form a [Group]. When the driver reports a frame
// rate below the group's MinFrameRate through [System.SetFrameRate], spent
// particles of that group are not re-seeded.
//
// A System is single-threaded: call all of its methods from one goroutine.
package psys
