package stagehand

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Surface is the drawing canvas shared by all states. It wraps an offscreen
// ebiten.Image sized in device pixels and adds a canvas-style transform
// stack and stroke/fill styles.
//
// Transform calls compose like an HTML canvas: each call applies to the
// coordinates of the draw calls that follow it, in the local space set up by
// the calls before it. The driver resets the transform at the start of every
// tick and moves the origin to the centre of the surface.
type Surface struct {
	canvas *ebiten.Image
	w, h   int
	geom   ebiten.GeoM

	stroke    Color
	fill      Color
	lineWidth float64
	dash      []float64
	font      *text.GoTextFace

	pool            renderTexturePool
	screenshotQueue []string
}

// NewSurface creates a surface of w×h device pixels.
func NewSurface(w, h int) *Surface {
	w, h = max(w, 1), max(h, 1)
	return &Surface{
		canvas:    ebiten.NewImage(w, h),
		w:         w,
		h:         h,
		stroke:    ColorBlack,
		fill:      ColorBlack,
		lineWidth: 1,
		font:      DefaultFace(16),
	}
}

// Image returns the backing canvas.
func (s *Surface) Image() *ebiten.Image {
	return s.canvas
}

// Size returns the surface size in device pixels.
func (s *Surface) Size() Vec2 {
	return Vec2{float64(s.w), float64(s.h)}
}

// Resize reallocates the canvas when the size changes. Contents are lost.
func (s *Surface) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == s.w && h == s.h {
		return
	}
	s.canvas.Deallocate()
	s.canvas = ebiten.NewImage(w, h)
	s.w, s.h = w, h
}

// --- Transform ---

// ResetTransform restores the identity transform.
func (s *Surface) ResetTransform() {
	s.geom.Reset()
}

// Translate moves the origin by (x, y) in the current local space.
func (s *Surface) Translate(x, y float64) {
	var m ebiten.GeoM
	m.Translate(x, y)
	s.premultiply(m)
}

// Scale scales the current local space.
func (s *Surface) Scale(x, y float64) {
	var m ebiten.GeoM
	m.Scale(x, y)
	s.premultiply(m)
}

// Rotate rotates the current local space clockwise by theta radians.
func (s *Surface) Rotate(theta float64) {
	var m ebiten.GeoM
	m.Rotate(theta)
	s.premultiply(m)
}

// premultiply makes m apply before the current transform.
func (s *Surface) premultiply(m ebiten.GeoM) {
	m.Concat(s.geom)
	s.geom = m
}

// Transform returns the current local-to-device transform.
func (s *Surface) Transform() ebiten.GeoM {
	return s.geom
}

// SetTransform replaces the current transform.
func (s *Surface) SetTransform(m ebiten.GeoM) {
	s.geom = m
}

// ToDevice maps a local point to device pixels.
func (s *Surface) ToDevice(p Vec2) Vec2 {
	x, y := s.geom.Apply(p.X, p.Y)
	return Vec2{x, y}
}

// ScreenToSurface maps device pixel coordinates to the current local space
// by inverting the transform. A degenerate transform leaves the point as is.
func (s *Surface) ScreenToSurface(x, y float64) Vec2 {
	if !s.geom.IsInvertible() {
		return Vec2{x, y}
	}
	inv := s.geom
	inv.Invert()
	lx, ly := inv.Apply(x, y)
	return Vec2{lx, ly}
}

// --- Styles ---

// SetStrokeColor sets the color used by Line, Circle, StrokeRect and
// StrokePath.
func (s *Surface) SetStrokeColor(c Color) { s.stroke = c }

// SetFillColor sets the color used by fills and FillText.
func (s *Surface) SetFillColor(c Color) { s.fill = c }

// StrokeColor returns the current stroke color.
func (s *Surface) StrokeColor() Color { return s.stroke }

// FillColor returns the current fill color.
func (s *Surface) FillColor() Color { return s.fill }

// SetLineWidth sets the stroke width in local units. Non-positive widths are
// ignored.
func (s *Surface) SetLineWidth(w float64) {
	if w > 0 {
		s.lineWidth = w
	}
}

// LineWidth returns the stroke width.
func (s *Surface) LineWidth() float64 { return s.lineWidth }

// SetLineDash sets the dash pattern as alternating on/off lengths. An empty
// pattern draws solid lines. Patterns with a negative entry or with every
// entry zero are ignored. An odd-length pattern is repeated to make it even.
func (s *Surface) SetLineDash(pattern []float64) {
	var sum float64
	for _, v := range pattern {
		if v < 0 {
			return
		}
		sum += v
	}
	if len(pattern) > 0 && sum == 0 {
		return
	}
	s.dash = append(s.dash[:0], pattern...)
	if len(s.dash)%2 == 1 {
		s.dash = append(s.dash, s.dash...)
	}
}

// LineDash returns a copy of the dash pattern.
func (s *Surface) LineDash() []float64 {
	return append([]float64(nil), s.dash...)
}

// SetFont sets the face used by FillText and MeasureText.
func (s *Surface) SetFont(face *text.GoTextFace) {
	if face != nil {
		s.font = face
	}
}

// SetFontSize switches the current face to size px, keeping its source.
func (s *Surface) SetFontSize(px float64) {
	if px <= 0 || s.font.Size == px {
		return
	}
	f := *s.font
	f.Size = px
	s.font = &f
}

// Font returns the current face.
func (s *Surface) Font() *text.GoTextFace { return s.font }

// --- Screenshots ---

// Screenshot queues a labeled capture of the next presented frame. The host
// writes it as a PNG once the frame is drawn.
func (s *Surface) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// subImage returns the w×h top-left region of a pooled layer.
func subImage(img *ebiten.Image, w, h int) *ebiten.Image {
	return img.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
}
