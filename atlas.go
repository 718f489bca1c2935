package stagehand

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// TextureRegion describes a named sub-rectangle within an atlas page.
type TextureRegion struct {
	Page      uint16 // atlas page index
	X, Y      uint16 // top-left corner within the page
	Width     uint16 // packed width (may differ from OriginalW if trimmed)
	Height    uint16 // packed height (may differ from OriginalH if trimmed)
	OriginalW uint16 // untrimmed width as authored
	OriginalH uint16 // untrimmed height as authored
	OffsetX   int16  // trim offset from the packer
	OffsetY   int16
	Rotated   bool // stored 90 degrees clockwise in the page
}

// Atlas holds page images and the named regions packed into them. It reads
// TexturePacker JSON in both the hash and the multi-page array layouts.
type Atlas struct {
	Pages   []*ebiten.Image
	regions map[string]TextureRegion
}

// magentaPlaceholderPage marks the placeholder region returned for unknown
// names. It never collides with a real page index.
const magentaPlaceholderPage = 0xFFFF

var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

func magentaRegion() TextureRegion {
	return TextureRegion{
		Page:      magentaPlaceholderPage,
		Width:     1,
		Height:    1,
		OriginalW: 1,
		OriginalH: 1,
	}
}

// Lookup returns the region called name.
func (a *Atlas) Lookup(name string) (TextureRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Region returns the region called name, or a 1×1 magenta placeholder so a
// missing sprite shows up on screen instead of failing.
func (a *Atlas) Region(name string) TextureRegion {
	if r, ok := a.regions[name]; ok {
		return r
	}
	return magentaRegion()
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for n := range a.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// SubImage returns the packed pixels of r, or nil when its page is missing.
// Rotated regions are returned as stored.
func (a *Atlas) SubImage(r TextureRegion) *ebiten.Image {
	if r.Page == magentaPlaceholderPage {
		return ensureMagentaImage()
	}
	if int(r.Page) >= len(a.Pages) || a.Pages[r.Page] == nil {
		return nil
	}
	w, h := int(r.Width), int(r.Height)
	if r.Rotated {
		w, h = h, w
	}
	rect := image.Rect(int(r.X), int(r.Y), int(r.X)+w, int(r.Y)+h)
	return a.Pages[r.Page].SubImage(rect).(*ebiten.Image)
}

// Draw draws the region called name with its untrimmed top-left corner at
// (x, y) in the surface's local space.
func (a *Atlas) Draw(s *Surface, name string, x, y float64) {
	r := a.Region(name)
	img := a.SubImage(r)
	if img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	if r.Rotated {
		op.GeoM.Rotate(-math.Pi / 2)
		op.GeoM.Translate(0, float64(r.Width))
	}
	op.GeoM.Translate(x+float64(r.OffsetX), y+float64(r.OffsetY))
	op.GeoM.Concat(s.geom)
	s.canvas.DrawImage(img, &op)
}

// ParseAtlas parses TexturePacker JSON and associates the given page images.
func ParseAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("stagehand: parse atlas: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]TextureRegion),
	}

	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("stagehand: parse atlas textures: %w", err)
		}
		for i, tex := range textures {
			for name, f := range tex.Frames {
				atlas.regions[name] = f.region(uint16(i))
			}
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("stagehand: parse atlas frames: %w", err)
		}
		for name, f := range frames {
			atlas.regions[name] = f.region(0)
		}
	default:
		return nil, fmt.Errorf("stagehand: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// pageImages lists the page file names an atlas JSON refers to, in page
// order.
func pageImages(jsonData []byte) ([]string, error) {
	var probe struct {
		Textures []jsonTexturePage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("stagehand: parse atlas: %w", err)
	}
	if len(probe.Textures) > 0 {
		names := make([]string, len(probe.Textures))
		for i, t := range probe.Textures {
			names[i] = t.Image
		}
		return names, nil
	}
	if probe.Meta.Image == "" {
		return nil, nil
	}
	return []string{probe.Meta.Image}, nil
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
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (f jsonFrame) region(page uint16) TextureRegion {
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
