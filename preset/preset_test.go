package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/phanxgames/psys"
)

const sampleDoc = `
system:
  poolSize: 16
  seed: 7
  viewport: {halfWidth: 320, halfHeight: 240}
  optimization: {maxParticles: 2000, minParticles: 500, minAlpha: 8, minSize: 0.05}
presets:
  - name: spark
    x: {from: 0, to: {value: 0, min: -80, max: 80}}
    y: {from: 0, to: {value: -120, min: -40, max: 40}}
    z: {from: 0}
    alpha: {from: 1, to: 0}
    colorFrom: {r: 1, g: 0.8, b: 0.2}
    colorTo: {r: 1, g: 0.2, b: 0}
    duration: 900
    durationRange: 300
    count: 64
    blend: add
    visual: spark
  - name: coin
    x: {from: 0}
    y: {from: 0, to: -40}
    z: {from: 1}
    duration: 600
    loops: 0
    count: 1
    frames: 8
    frameRate: 12
    visual: coin
    optimization: {minFrameRate: 30, maxParticles: 10}
`

func millis(v float64) *float64 { return &v }

func TestParseSample(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Presets) != 2 {
		t.Fatalf("presets = %d, want 2", len(doc.Presets))
	}

	cfg := doc.System.Config()
	if cfg.PoolSize != 16 || cfg.Seed != 7 {
		t.Errorf("config = %+v", cfg)
	}
	if w, h := cfg.Viewport.HalfExtents(); w != 320 || h != 240 {
		t.Errorf("viewport = %v x %v", w, h)
	}
	if cfg.Optimization.MaxParticles != 2000 || cfg.Optimization.MinParticles != 500 {
		t.Errorf("optimization = %+v", cfg.Optimization)
	}

	spark, err := doc.Find("spark")
	if err != nil {
		t.Fatal(err)
	}
	if spark.X.To == nil || spark.X.To.Min != -80 || spark.X.To.Max != 80 {
		t.Errorf("spark x = %+v", spark.X)
	}
	if spark.Y.From.Value != 0 || spark.Y.To.Value != -120 {
		t.Errorf("spark y = %+v", spark.Y)
	}
}

func TestPresetModel(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	models, err := doc.Models()
	if err != nil {
		t.Fatal(err)
	}

	spark, ok := models["spark"].(*psys.Configurator)
	if !ok {
		t.Fatalf("spark model is %T", models["spark"])
	}
	if spark.Count() != 64 || spark.Blend() != psys.BlendAdd || spark.Visual() != "spark" {
		t.Errorf("spark count=%d blend=%v visual=%q", spark.Count(), spark.Blend(), spark.Visual())
	}
	if base, spread := spark.Duration(); base != 900 || spread != 300 {
		t.Errorf("spark duration = %v ± %v", base, spread)
	}
	if spark.Loops() != 1 {
		t.Errorf("spark loops = %d, want default 1", spark.Loops())
	}
	if err := spark.Validate(); err != nil {
		t.Errorf("spark invalid: %v", err)
	}

	coin, ok := models["coin"].(*psys.SpriteConfigurator)
	if !ok {
		t.Fatalf("coin model is %T", models["coin"])
	}
	if coin.Frames != 8 || coin.FrameRate != 12 || coin.Loops() != 0 {
		t.Errorf("coin frames=%d rate=%v loops=%d", coin.Frames, coin.FrameRate, coin.Loops())
	}
	if o := coin.Optimization(); o == nil || o.MinFrameRate != 30 || o.MaxParticles != 10 {
		t.Errorf("coin optimization = %+v", o)
	}
}

func TestPresetModelDrivesSystem(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	s := psys.NewSystem(doc.System.Config())
	p, _ := doc.Find("spark")
	m, err := p.Model()
	if err != nil {
		t.Fatal(err)
	}
	e := s.CreateEmitter(m, "")
	if e.Len() != 64 || e.Name() != "spark" {
		t.Errorf("emitter len=%d name=%q", e.Len(), e.Name())
	}
	s.Update(16 * time.Millisecond)
	drawn := 0
	s.UpdateRender(psys.RendererFunc(func(req psys.DrawRequest) {
		if req.Blend != psys.BlendAdd || req.Visual != "spark" {
			t.Errorf("request = %+v", req)
		}
		drawn++
	}))
	if drawn != 64 {
		t.Errorf("drawn = %d, want 64", drawn)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", "presets:\n  - duration: 1\n"},
		{"missing duration", "presets:\n  - name: a\n    x: {from: 0, to: 10}\n    count: 5\n"},
		{"negative duration", "presets:\n  - name: a\n    duration: -1\n"},
		{"negative count", "presets:\n  - name: a\n    duration: 1\n    count: -2\n"},
		{"negative loops", "presets:\n  - name: a\n    duration: 1\n    loops: -1\n"},
		{"bad blend", "presets:\n  - name: a\n    duration: 1\n    blend: overlay\n"},
		{"duplicate", "presets:\n  - name: a\n    duration: 1\n  - name: a\n    duration: 1\n"},
		{"bad viewport", "system:\n  viewport: {halfWidth: 0, halfHeight: 10}\n"},
		{"bad pool", "system:\n  poolSize: -3\n"},
		{"min over max", "system:\n  optimization: {maxParticles: 10, minParticles: 20}\n"},
		{"bad range", "presets:\n  - name: a\n    duration: 1\n    x: {from: fast}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestMissingDurationHasNoModel(t *testing.T) {
	p := &Preset{Name: "spark", X: Channel{From: Range{Value: 0}, To: &Range{Value: 10}}, Count: 5}
	if _, err := p.Model(); err == nil {
		t.Fatal("Model() without a duration should fail")
	}
	p.Duration = millis(0)
	if _, err := p.Model(); err != nil {
		t.Errorf("explicit zero duration: %v", err)
	}
}

func TestFindUnknown(t *testing.T) {
	doc := &Document{}
	if _, err := doc.Find("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("err = %v, want ErrUnknownPreset", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Presets) != 2 {
		t.Errorf("presets = %d", len(doc.Presets))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loading a missing file should fail")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	data, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, data)
	}
	coin, _ := again.Find("coin")
	if coin.Loops == nil || *coin.Loops != 0 || coin.Frames != 8 {
		t.Errorf("coin after round trip = %+v", coin)
	}
}

// --- Store ---

func openTestStore(t *testing.T) *Store {
	appName := fmt.Sprintf("psys_preset_test_%d", time.Now().UnixNano())
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("cannot open gdata store: %v", err)
	}
	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return NewStore(m)
}

func TestStoreSaveLoad(t *testing.T) {
	s := openTestStore(t)
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	spark, _ := doc.Find("spark")
	spark.Count = 12
	if err := s.Save(spark); err != nil {
		t.Fatal(err)
	}
	if !s.Exists("spark") {
		t.Fatal("saved preset not found")
	}
	got, err := s.Load("spark")
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 12 || got.Blend != "add" || got.X.To.Max != 80 {
		t.Errorf("loaded = %+v", got)
	}

	names, err := s.Names()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "spark" {
		t.Errorf("names = %v", names)
	}
}

func TestStoreMerge(t *testing.T) {
	s := openTestStore(t)
	extra := &Preset{Name: "smoke", Duration: millis(2000), Count: 5}
	if err := s.Save(extra); err != nil {
		t.Fatal(err)
	}
	override := &Preset{Name: "spark", Duration: millis(100), Count: 3}
	if err := s.Save(override); err != nil {
		t.Fatal(err)
	}

	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Merge(doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Presets) != 3 {
		t.Fatalf("presets = %d, want 3", len(doc.Presets))
	}
	spark, _ := doc.Find("spark")
	if spark.Count != 3 {
		t.Errorf("spark count = %d, want stored override 3", spark.Count)
	}
}

func TestStoreRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(&Preset{Name: "bad", Duration: millis(10), Count: -1}); err == nil {
		t.Error("expected validation error")
	}
	if err := s.Save(&Preset{Name: storeIndexKey, Duration: millis(10)}); err == nil {
		t.Error("expected reserved name error")
	}
	if _, err := s.Load("never-saved"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("err = %v, want ErrUnknownPreset", err)
	}
}

func TestStoreNilManager(t *testing.T) {
	s := NewStore(nil)
	if s.Available() {
		t.Error("nil store should be unavailable")
	}
	if err := s.Save(&Preset{Name: "x"}); err != nil {
		t.Errorf("Save on nil store = %v", err)
	}
	if s.Exists("x") {
		t.Error("nil store should not find anything")
	}
	names, err := s.Names()
	if err != nil || names != nil {
		t.Errorf("Names() = %v, %v", names, err)
	}
}
