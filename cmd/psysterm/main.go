// Psysterm runs psys presets in a terminal. Each preset named on the command
// line (default: all of them) gets an emitter; press space or click to
// trigger a burst, q or Esc to quit.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/psys"
	"github.com/phanxgames/psys/preset"
	"github.com/phanxgames/psys/termrender"
)

func main() {
	presetPath := flag.String("presets", "", "preset YAML file (required)")
	burstName := flag.String("burst", "burst", "preset spawned on space or click")
	fps := flag.Int("fps", 30, "ticks per second")
	cell := flag.Float64("cell", 8, "world units per terminal column")
	flag.Parse()

	if *presetPath == "" || *fps <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	doc, err := preset.Load(*presetPath)
	if err != nil {
		log.Fatal(err)
	}
	models, err := doc.Models()
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse()

	r := termrender.New(screen)
	r.CellWidth = *cell

	err = run(screen, r, doc, models, *burstName, *fps, flag.Args())
	screen.Fini()
	if err != nil {
		log.Fatal(err)
	}
}

func run(screen tcell.Screen, r *termrender.Renderer, doc *preset.Document, models map[string]psys.Model, burst string, fps int, names []string) error {
	cfg := doc.System.Config()
	cfg.Viewport = r
	sys := psys.NewSystem(cfg)

	if len(names) == 0 {
		for _, p := range doc.Presets {
			if p.Name != burst {
				names = append(names, p.Name)
			}
		}
	}
	halfW, _ := r.HalfExtents()
	step := 2 * halfW / float64(len(names)+1)
	for i, name := range names {
		m, ok := models[name]
		if !ok {
			return fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(presetNames(doc), ", "))
		}
		e := sys.CreateEmitter(m, "")
		e.SetPivot(psys.Pivot{X: -halfW + step*float64(i+1)})
	}

	evs := make(chan tcell.Event, 16)
	go func() {
		defer close(evs)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			evs <- ev
		}
	}()

	tick := time.Second / time.Duration(fps)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	buf := psys.NewCommandBuffer()
	last := time.Now()

	for {
		select {
		case ev, ok := <-evs:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return nil
				}
				if ev.Rune() == ' ' {
					spawn(sys, models, burst, 0, 0)
				}
			case *tcell.EventMouse:
				if ev.Buttons()&tcell.Button1 != 0 {
					col, row := ev.Position()
					x, y := cellCenter(r, col, row)
					spawn(sys, models, burst, x, y)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if elapsed > 0 {
				sys.SetFrameRate(float64(time.Second) / float64(elapsed))
			}
			sys.Update(elapsed)

			r.Clear()
			sys.UpdateRender(buf)
			buf.Flush(r)
			screen.Show()
		}
	}
}

func spawn(sys *psys.System, models map[string]psys.Model, name string, x, y float64) {
	m, ok := models[name]
	if !ok {
		return
	}
	e := sys.CreateEmitter(m, "")
	e.SetPivot(psys.Pivot{X: x, Y: y})
}

// cellCenter converts a screen cell to the world position of its center.
func cellCenter(r *termrender.Renderer, col, row int) (float64, float64) {
	halfW, halfH := r.HalfExtents()
	ch := r.CellWidth * r.CellAspect
	return -halfW + (float64(col)+0.5)*r.CellWidth, -halfH + (float64(row)+0.5)*ch
}

func presetNames(doc *preset.Document) []string {
	names := make([]string, 0, len(doc.Presets))
	for _, p := range doc.Presets {
		names = append(names, p.Name)
	}
	return names
}
