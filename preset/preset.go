// Package preset loads particle models and system settings from YAML
// documents and persists user-edited presets.
package preset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/psys"
)

// ErrUnknownPreset is returned when a preset name is not in a document or store.
var ErrUnknownPreset = errors.New("preset: unknown preset")

// Document is the root of a preset file.
//
//	system:
//	  poolSize: 64
//	  viewport: {halfWidth: 320, halfHeight: 240}
//	presets:
//	  - name: spark
//	    x: {from: 0, to: {value: 0, min: -80, max: 80}}
//	    y: {from: 0, to: {value: -120, min: -40, max: 40}}
//	    duration: 900
//	    count: 64
type Document struct {
	System  SystemConfig `yaml:"system"`
	Presets []Preset     `yaml:"presets"`
}

// SystemConfig mirrors psys.Config.
type SystemConfig struct {
	PoolSize     int                 `yaml:"poolSize"`
	Seed         uint64              `yaml:"seed"`
	Debug        bool                `yaml:"debug"`
	Viewport     *ViewportConfig     `yaml:"viewport,omitempty"`
	Optimization *OptimizationConfig `yaml:"optimization,omitempty"`
}

// ViewportConfig is a fixed viewport size.
type ViewportConfig struct {
	HalfWidth  float64 `yaml:"halfWidth"`
	HalfHeight float64 `yaml:"halfHeight"`
}

// OptimizationConfig mirrors psys.Optimization.
type OptimizationConfig struct {
	MinFrameRate float64 `yaml:"minFrameRate"`
	MaxParticles int     `yaml:"maxParticles"`
	MinParticles int     `yaml:"minParticles"`
	MinAlpha     float64 `yaml:"minAlpha"`
	MinSize      float64 `yaml:"minSize"`
}

// Range is a psys.Range. It decodes from a mapping ({value, min, max}) or
// from a bare number meaning a fixed value.
type Range struct {
	Value float64 `yaml:"value"`
	Min   float64 `yaml:"min,omitempty"`
	Max   float64 `yaml:"max,omitempty"`
}

// UnmarshalYAML accepts a scalar shorthand.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("range: %w", err)
		}
		*r = Range{Value: v}
		return nil
	}
	type plain Range
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = Range(p)
	return nil
}

func (r Range) toRange() psys.Range {
	return psys.Spread(r.Value, r.Min, r.Max)
}

// Channel is an animated parameter. A missing To keeps the channel constant.
type Channel struct {
	From Range  `yaml:"from"`
	To   *Range `yaml:"to,omitempty"`
}

func (c Channel) settings() psys.ParameterSettings {
	if c.To == nil {
		return psys.Constant(c.From.toRange())
	}
	return psys.Animate(c.From.toRange(), c.To.toRange())
}

// RGB is a color in [0, 1].
type RGB struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}

// Preset describes one named particle model. Alpha is given in [0, 1] and
// rotation in radians. Duration is required; there is no default lifetime.
type Preset struct {
	Name string `yaml:"name"`

	X        Channel  `yaml:"x"`
	Y        Channel  `yaml:"y"`
	Z        Channel  `yaml:"z"`
	Alpha    *Channel `yaml:"alpha,omitempty"`
	Rotation *Channel `yaml:"rotation,omitempty"`
	Scale    *Channel `yaml:"scale,omitempty"`

	ColorFrom *RGB `yaml:"colorFrom,omitempty"`
	ColorTo   *RGB `yaml:"colorTo,omitempty"`

	Duration      *float64 `yaml:"duration"`
	DurationRange float64  `yaml:"durationRange,omitempty"`
	Loops         *int     `yaml:"loops,omitempty"`
	StartCounter  int      `yaml:"startCounter,omitempty"`
	Count         int      `yaml:"count"`

	Blend     string  `yaml:"blend,omitempty"`
	Visual    string  `yaml:"visual,omitempty"`
	Frames    int     `yaml:"frames,omitempty"`
	FrameRate float64 `yaml:"frameRate,omitempty"`

	Optimization *OptimizationConfig `yaml:"optimization,omitempty"`
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse preset document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset document: %w", err)
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset document: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Validate checks the system settings and every preset. Preset names must be
// unique.
func (d *Document) Validate() error {
	if d.System.PoolSize < 0 {
		return fmt.Errorf("system: poolSize must be >= 0, got %d", d.System.PoolSize)
	}
	if v := d.System.Viewport; v != nil && (v.HalfWidth <= 0 || v.HalfHeight <= 0) {
		return fmt.Errorf("system: viewport must be positive, got %vx%v", v.HalfWidth, v.HalfHeight)
	}
	if err := d.System.Optimization.validate(); err != nil {
		return fmt.Errorf("system: %w", err)
	}
	seen := make(map[string]bool, len(d.Presets))
	for i := range d.Presets {
		p := &d.Presets[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("presets[%d]: %w", i, err)
		}
		if seen[p.Name] {
			return fmt.Errorf("presets[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Validate checks one preset.
func (p *Preset) Validate() error {
	switch {
	case p.Name == "":
		return errors.New("name is required")
	case p.Duration == nil:
		return fmt.Errorf("%q: duration is required", p.Name)
	case *p.Duration < 0:
		return fmt.Errorf("%q: duration must be >= 0, got %v", p.Name, *p.Duration)
	case p.DurationRange < 0:
		return fmt.Errorf("%q: durationRange must be >= 0, got %v", p.Name, p.DurationRange)
	case p.Count < 0:
		return fmt.Errorf("%q: count must be >= 0, got %d", p.Name, p.Count)
	case p.Loops != nil && *p.Loops < 0:
		return fmt.Errorf("%q: loops must be >= 0, got %d", p.Name, *p.Loops)
	case p.Frames < 0 || p.FrameRate < 0:
		return fmt.Errorf("%q: frames and frameRate must be >= 0", p.Name)
	}
	if _, err := psys.ParseBlendMode(p.Blend); err != nil {
		return fmt.Errorf("%q: %w", p.Name, err)
	}
	if err := p.Optimization.validate(); err != nil {
		return fmt.Errorf("%q: %w", p.Name, err)
	}
	return nil
}

func (o *OptimizationConfig) validate() error {
	if o == nil {
		return nil
	}
	if o.MaxParticles < 0 || o.MinParticles < 0 {
		return errors.New("optimization particle counts must be >= 0")
	}
	if o.MaxParticles > 0 && o.MinParticles > o.MaxParticles {
		return fmt.Errorf("optimization minParticles %d exceeds maxParticles %d", o.MinParticles, o.MaxParticles)
	}
	return nil
}

func (o *OptimizationConfig) toOptimization() psys.Optimization {
	return psys.Optimization{
		MinFrameRate: o.MinFrameRate,
		MaxParticles: o.MaxParticles,
		MinParticles: o.MinParticles,
		MinAlpha:     o.MinAlpha,
		MinSize:      o.MinSize,
	}
}

// Config converts the system settings.
func (c SystemConfig) Config() psys.Config {
	cfg := psys.Config{
		PoolSize: c.PoolSize,
		Seed:     c.Seed,
		Debug:    c.Debug,
	}
	if c.Viewport != nil {
		cfg.Viewport = psys.StaticViewport{HalfWidth: c.Viewport.HalfWidth, HalfHeight: c.Viewport.HalfHeight}
	}
	if c.Optimization != nil {
		cfg.Optimization = c.Optimization.toOptimization()
	}
	return cfg
}

// Find returns the preset called name.
func (d *Document) Find(name string) (*Preset, error) {
	for i := range d.Presets {
		if d.Presets[i].Name == name {
			return &d.Presets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Models converts every preset, keyed by name.
func (d *Document) Models() (map[string]psys.Model, error) {
	out := make(map[string]psys.Model, len(d.Presets))
	for i := range d.Presets {
		m, err := d.Presets[i].Model()
		if err != nil {
			return nil, err
		}
		out[d.Presets[i].Name] = m
	}
	return out, nil
}

// Model builds the psys model described by the preset. Presets with more than
// one frame become sprite-sheet models.
func (p *Preset) Model() (psys.Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	blend, _ := psys.ParseBlendMode(p.Blend)

	var (
		model psys.Model
		c     *psys.Configurator
	)
	if p.Frames > 1 {
		sc := psys.NewSpriteConfigurator(p.Name, p.Frames, p.FrameRate)
		model, c = sc, &sc.Configurator
	} else {
		c = psys.NewConfigurator(p.Name)
		model = c
	}

	c.SetPosition(p.X.settings(), p.Y.settings(), p.Z.settings())
	c.SetDuration(*p.Duration, p.DurationRange)
	if p.Alpha != nil {
		c.SetTransparency(p.Alpha.settings())
	}
	if p.Rotation != nil {
		c.SetRotation(p.Rotation.settings())
	}
	if p.Scale != nil {
		c.SetZoom(p.Scale.settings())
	}
	if p.ColorFrom != nil {
		from := psys.Color{R: p.ColorFrom.R, G: p.ColorFrom.G, B: p.ColorFrom.B, A: 1}
		to := from
		if p.ColorTo != nil {
			to = psys.Color{R: p.ColorTo.R, G: p.ColorTo.G, B: p.ColorTo.B, A: 1}
		}
		c.SetColor(from, to)
	}
	if p.Loops != nil {
		c.SetLoops(*p.Loops)
	}
	c.SetStartCounter(p.StartCounter)
	c.SetCount(p.Count)
	c.SetBlend(blend)
	c.SetVisual(p.Visual)
	if p.Optimization != nil {
		c.SetOptimization(p.Optimization.toOptimization())
	}
	return model, nil
}
