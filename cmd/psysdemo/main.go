// Psysdemo shows the particle system in an Ebitengine window: a fountain, a
// campfire with smoke, a sparkler and a cursor trail run continuously; click
// to trigger an explosion. Press P to pause the fountain, W to gust wind
// through the smoke, D to toggle debug stats.
package main

import (
	_ "embed"
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/psys"
	"github.com/phanxgames/psys/ebitenrender"
	"github.com/phanxgames/psys/ecs"
	"github.com/phanxgames/psys/preset"
)

const (
	windowTitle = "psys: particles"
	screenW     = 800
	screenH     = 600
)

//go:embed presets.yaml
var defaultPresets []byte

type demo struct {
	sys      *psys.System
	renderer *ebitenrender.Renderer
	buf      *psys.CommandBuffer
	models   map[string]psys.Model
	overlay  *fpsOverlay

	world  donburi.World
	cursor donburi.Entity

	fountain *psys.Emitter
	smoke    *psys.Emitter
	windOn   bool
	debug    bool

	optimized int
}

func main() {
	presetPath := flag.String("presets", "", "preset YAML file (defaults to the built-in presets)")
	storeName := flag.String("store", "", "gdata app name whose saved presets override the file")
	seed := flag.Uint64("seed", 0, "random seed (0 = nondeterministic)")
	debug := flag.Bool("debug", false, "print per-tick stats to stderr")
	flag.Parse()

	doc, err := loadPresets(*presetPath, *storeName)
	if err != nil {
		log.Fatal(err)
	}
	models, err := doc.Models()
	if err != nil {
		log.Fatal(err)
	}

	d := newDemo(doc.System, models, *seed, *debug)

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle(windowTitle)
	if err := ebiten.RunGame(d); err != nil {
		log.Fatal(err)
	}
}

func loadPresets(path, storeName string) (*preset.Document, error) {
	var (
		doc *preset.Document
		err error
	)
	if path != "" {
		doc, err = preset.Load(path)
	} else {
		doc, err = preset.Parse(defaultPresets)
	}
	if err != nil {
		return nil, err
	}
	if storeName == "" {
		return doc, nil
	}
	store, err := preset.OpenStore(storeName)
	if err != nil {
		log.Printf("psysdemo: %v (saved presets ignored)", err)
		return doc, nil
	}
	if err := store.Merge(doc); err != nil {
		return nil, err
	}
	return doc, doc.Validate()
}

func newDemo(sc preset.SystemConfig, models map[string]psys.Model, seed uint64, debug bool) *demo {
	cfg := sc.Config()
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.Debug = cfg.Debug || debug

	renderer := ebitenrender.New(nil)
	renderer.SetSize(screenW, screenH)
	cfg.Viewport = renderer

	d := &demo{
		sys:      psys.NewSystem(cfg),
		renderer: renderer,
		buf:      psys.NewCommandBuffer(),
		models:   models,
		overlay:  newFPSOverlay(),
		world:    donburi.NewWorld(),
		debug:    cfg.Debug,
	}
	d.sys.SetEventSink(ecs.NewDonburiSink(d.world))
	ecs.SystemEventType.Subscribe(d.world, func(w donburi.World, ev psys.Event) {
		if ev.Type == psys.EventParticlesOptimized {
			d.optimized += ev.Count
		}
	})

	d.fountain = d.spawn("fountain", -240, 200)
	d.spawn("fire", 0, 200)
	d.smoke = d.spawn("smoke", 0, 190)
	d.spawn("sparkler", 240, 200)

	d.cursor = d.world.Create(ecs.AnchorComponent)
	if e := d.spawn("trail", 0, 0); e != nil {
		ecs.Attach(d.world, d.cursor, e, 0, 0)
	}
	return d
}

// spawn creates an emitter from the named preset with its pivot at (x, y)
// relative to the screen center.
func (d *demo) spawn(name string, x, y float64) *psys.Emitter {
	m, ok := d.models[name]
	if !ok {
		log.Printf("psysdemo: no preset %q", name)
		return nil
	}
	e := d.sys.CreateEmitter(m, "")
	e.SetPivot(psys.Pivot{X: x, Y: y})
	return e
}

func (d *demo) Update() error {
	d.sys.SetFrameRate(ebiten.ActualFPS())

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)-screenW/2, float64(cy)-screenH/2
	ecs.AnchorComponent.SetValue(d.world.Entry(d.cursor), ecs.Anchor{X: x, Y: y})
	ecs.SyncEffects(d.world)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		d.spawn("burst", x, y)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) && d.fountain != nil {
		if d.fountain.Status() == psys.EmitterGo {
			d.fountain.Pause()
		} else {
			d.fountain.Resume()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) && d.smoke != nil {
		d.windOn = !d.windOn
		target := psys.Vec3{}
		if d.windOn {
			target = psys.Vec3{X: 90, Y: -10}
		}
		d.smoke.Animate(psys.TweenWind(d.smoke, target, 1500, ease.InOutQuad))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		d.debug = !d.debug
		d.sys.SetDebugMode(d.debug)
	}

	d.sys.Update(time.Second / time.Duration(ebiten.TPS()))
	events.ProcessAllEvents(d.world)
	d.overlay.update(d.sys, d.optimized)
	return nil
}

func (d *demo) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	d.renderer.Begin(screen)
	d.sys.UpdateRender(d.buf)
	d.buf.Flush(d.renderer)
	d.renderer.End()
	d.overlay.draw(screen)
}

func (d *demo) Layout(outsideWidth, outsideHeight int) (int, int) {
	d.renderer.SetSize(screenW, screenH)
	return screenW, screenH
}
