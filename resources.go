package stagehand

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Resources loads assets for App.Load. Paths are slash-separated and
// relative to the root of the backing file system. Loaded images are cached
// by path.
type Resources struct {
	fsys    fs.FS
	surface *Surface
	sound   *SoundContext
	images  map[string]*ebiten.Image
}

// NewResources returns a loader over fsys. A nil fsys behaves as an empty
// file system.
func NewResources(fsys fs.FS, surface *Surface, sound *SoundContext) *Resources {
	if fsys == nil {
		fsys = emptyFS{}
	}
	return &Resources{
		fsys:    fsys,
		surface: surface,
		sound:   sound,
		images:  make(map[string]*ebiten.Image),
	}
}

// Surface returns the drawing surface, for states that size themselves from
// it during load.
func (r *Resources) Surface() *Surface { return r.surface }

// Sound returns the audio subsystem.
func (r *Resources) Sound() *SoundContext { return r.sound }

// ReadFile returns the raw bytes at name.
func (r *Resources) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("stagehand: read %s: %w", name, err)
	}
	return data, nil
}

// LoadImage decodes a PNG or JPEG image.
func (r *Resources) LoadImage(name string) (*ebiten.Image, error) {
	if img, ok := r.images[name]; ok {
		return img, nil
	}
	data, err := r.ReadFile(name)
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("stagehand: decode image %s: %w", name, err)
	}
	img := ebiten.NewImageFromImage(src)
	r.images[name] = img
	return img, nil
}

// LoadSpritesheet loads an image cut into a uniform grid of frameW×frameH
// frames.
func (r *Resources) LoadSpritesheet(name string, frameW, frameH int) (*Spritesheet, error) {
	img, err := r.LoadImage(name)
	if err != nil {
		return nil, err
	}
	return NewSpritesheet(img, frameW, frameH)
}

// LoadAtlas loads a TexturePacker JSON atlas. Page images named in the JSON
// are loaded relative to the JSON file's directory.
func (r *Resources) LoadAtlas(jsonName string) (*Atlas, error) {
	data, err := r.ReadFile(jsonName)
	if err != nil {
		return nil, err
	}
	names, err := pageImages(data)
	if err != nil {
		return nil, err
	}
	pages := make([]*ebiten.Image, len(names))
	dir := path.Dir(jsonName)
	for i, n := range names {
		if pages[i], err = r.LoadImage(path.Join(dir, n)); err != nil {
			return nil, err
		}
	}
	return ParseAtlas(data, pages)
}

// LoadSound decodes a .wav, .mp3 or .ogg clip.
func (r *Resources) LoadSound(name string) (*Sound, error) {
	f, err := r.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("stagehand: open %s: %w", name, err)
	}
	defer f.Close()
	return r.sound.Decode(name, f)
}

// LoadFont parses a TrueType or OpenType font at size px.
func (r *Resources) LoadFont(name string, size float64) (*text.GoTextFace, error) {
	data, err := r.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return NewFace(data, size)
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Spritesheet is an image divided into a uniform grid of frames, numbered
// left to right then top to bottom.
type Spritesheet struct {
	image          *ebiten.Image
	frameW, frameH int
	cols, rows     int
}

// NewSpritesheet cuts img into frameW×frameH frames. Partial frames at the
// right and bottom edges are ignored.
func NewSpritesheet(img *ebiten.Image, frameW, frameH int) (*Spritesheet, error) {
	if frameW <= 0 || frameH <= 0 {
		return nil, fmt.Errorf("stagehand: invalid frame size %dx%d", frameW, frameH)
	}
	b := img.Bounds()
	cols, rows := b.Dx()/frameW, b.Dy()/frameH
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("stagehand: frame size %dx%d larger than image %dx%d",
			frameW, frameH, b.Dx(), b.Dy())
	}
	return &Spritesheet{image: img, frameW: frameW, frameH: frameH, cols: cols, rows: rows}, nil
}

// Len returns the number of frames.
func (s *Spritesheet) Len() int { return s.cols * s.rows }

// FrameSize returns the size of one frame in pixels.
func (s *Spritesheet) FrameSize() Vec2 {
	return Vec2{float64(s.frameW), float64(s.frameH)}
}

// FrameRect returns the pixel bounds of frame i. Indices wrap around, so an
// animation counter can be passed directly.
func (s *Spritesheet) FrameRect(i int) image.Rectangle {
	n := s.Len()
	i = ((i % n) + n) % n
	b := s.image.Bounds()
	x := b.Min.X + (i%s.cols)*s.frameW
	y := b.Min.Y + (i/s.cols)*s.frameH
	return image.Rect(x, y, x+s.frameW, y+s.frameH)
}

// Frame returns frame i as a sub-image.
func (s *Spritesheet) Frame(i int) *ebiten.Image {
	return s.image.SubImage(s.FrameRect(i)).(*ebiten.Image)
}

// Draw draws frame i centred on (x, y) in the surface's local space.
func (s *Spritesheet) Draw(surface *Surface, i int, x, y float64) {
	surface.DrawImage(s.Frame(i), x-float64(s.frameW)/2, y-float64(s.frameH)/2)
}
