package ebitenrender

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureRegion describes a sub-rectangle within an atlas page.
type TextureRegion struct {
	Page      uint16 // atlas page index
	X, Y      uint16 // top-left corner within the page
	Width     uint16 // packed width (may differ from OriginalW if trimmed)
	Height    uint16 // packed height (may differ from OriginalH if trimmed)
	OriginalW uint16 // untrimmed sprite width as authored
	OriginalH uint16 // untrimmed sprite height as authored
	OffsetX   int16  // horizontal trim offset from TexturePacker
	OffsetY   int16  // vertical trim offset from TexturePacker
	Rotated   bool   // true if stored 90 degrees clockwise in the atlas
}

// Atlas holds atlas page images and the named regions particles reference
// through their model's visual.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number.
	Pages []*ebiten.Image
	// Debug logs lookups of missing regions.
	Debug bool

	regions map[string]TextureRegion
	frames  map[string][]TextureRegion
}

// Region returns the region called name. A missing name yields a 1x1 magenta
// placeholder region.
func (a *Atlas) Region(name string) TextureRegion {
	if r, ok := a.regions[name]; ok {
		return r
	}
	if a.Debug {
		log.Printf("psys: atlas region %q not found, using magenta placeholder", name)
	}
	return magentaRegion()
}

// Frames returns the sprite-sheet regions of visual: "visual/0", "visual/1"
// and so on, up to the first missing index. The result is cached; nil means
// visual is not a sprite sheet.
func (a *Atlas) Frames(visual string) []TextureRegion {
	if fr, ok := a.frames[visual]; ok {
		return fr
	}
	var fr []TextureRegion
	for i := 0; ; i++ {
		r, ok := a.regions[visual+"/"+strconv.Itoa(i)]
		if !ok {
			break
		}
		fr = append(fr, r)
	}
	if a.frames == nil {
		a.frames = make(map[string][]TextureRegion)
	}
	a.frames[visual] = fr
	return fr
}

// FrameRegion resolves the region drawn for one particle: the frame'th
// sprite-sheet region when visual has frames, the plain region otherwise.
func (a *Atlas) FrameRegion(visual string, frame int) TextureRegion {
	if fr := a.Frames(visual); len(fr) > 0 {
		if frame < 0 {
			frame = 0
		}
		return fr[frame%len(fr)]
	}
	return a.Region(visual)
}

// Has reports whether the atlas defines name.
func (a *Atlas) Has(name string) bool {
	_, ok := a.regions[name]
	return ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// magentaPlaceholderPage is a sentinel page index that never collides with a
// real page.
const magentaPlaceholderPage = 0xFFFF

func magentaRegion() TextureRegion {
	return TextureRegion{
		Page:      magentaPlaceholderPage,
		Width:     1,
		Height:    1,
		OriginalW: 1,
		OriginalH: 1,
	}
}

// LoadAtlas parses TexturePacker JSON data and associates the given page images.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists).
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("psys: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]TextureRegion),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("psys: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Frames map[string]jsonFrame `json:"frames"`
}

func parseHashFrames(raw json.RawMessage, page uint16, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("psys: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.regions[name] = frameToRegion(f, page)
	}
	return nil
}

func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("psys: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			atlas.regions[name] = frameToRegion(f, uint16(i))
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page uint16) TextureRegion {
	return TextureRegion{
		Page:      page,
		X:         uint16(f.Frame.X),
		Y:         uint16(f.Frame.Y),
		Width:     uint16(f.Frame.W),
		Height:    uint16(f.Frame.H),
		OriginalW: uint16(f.SourceSize.W),
		OriginalH: uint16(f.SourceSize.H),
		OffsetX:   int16(f.SpriteSourceSize.X),
		OffsetY:   int16(f.SpriteSourceSize.Y),
		Rotated:   f.Rotated,
	}
}
