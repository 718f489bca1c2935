package stagehand

import (
	"bytes"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// --- Path ---

// Path is a set of closed polygonal subpaths in local coordinates.
type Path struct {
	subpaths [][]Vec2
}

// MoveTo starts a new subpath at p.
func (p *Path) MoveTo(x, y float64) {
	p.subpaths = append(p.subpaths, []Vec2{{x, y}})
}

// LineTo adds a vertex to the current subpath, starting one if needed.
func (p *Path) LineTo(x, y float64) {
	if len(p.subpaths) == 0 {
		p.MoveTo(x, y)
		return
	}
	last := len(p.subpaths) - 1
	p.subpaths[last] = append(p.subpaths[last], Vec2{x, y})
}

// Rect adds an axis-aligned rectangle subpath.
func (p *Path) Rect(x, y, w, h float64) {
	p.subpaths = append(p.subpaths, []Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}})
}

// Circle adds a circle subpath approximated by a polygon.
func (p *Path) Circle(cx, cy, r float64) {
	p.subpaths = append(p.subpaths, circlePoints(Vec2{cx, cy}, r))
}

// Polygon adds a closed subpath through points.
func (p *Path) Polygon(points []Vec2) {
	if len(points) > 0 {
		p.subpaths = append(p.subpaths, append([]Vec2(nil), points...))
	}
}

// Empty reports whether the path has no fillable subpath.
func (p *Path) Empty() bool {
	for _, sp := range p.subpaths {
		if len(sp) >= 3 {
			return false
		}
	}
	return true
}

// circleSegments picks a polygon resolution for radius r.
func circleSegments(r float64) int {
	return min(max(int(r/2), 16), 128)
}

func circlePoints(c Vec2, r float64) []Vec2 {
	n := circleSegments(math.Abs(r))
	pts := make([]Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Vec2{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return pts
}

// --- Triangle building ---

// meshBuilder accumulates device-space triangles for one DrawTriangles call.
type meshBuilder struct {
	verts []ebiten.Vertex
	inds  []uint16
}

func (b *meshBuilder) vertex(p Vec2, geom *ebiten.GeoM, c Color) uint16 {
	x, y := geom.Apply(p.X, p.Y)
	b.verts = append(b.verts, ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R * c.A),
		ColorG: float32(c.G * c.A),
		ColorB: float32(c.B * c.A),
		ColorA: float32(c.A),
	})
	return uint16(len(b.verts) - 1)
}

// fan appends a fan triangulation of points. Under the even-odd or nonzero
// fill rules this covers any simple or self-intersecting polygon correctly.
func (b *meshBuilder) fan(points []Vec2, geom *ebiten.GeoM, c Color) {
	if len(points) < 3 {
		return
	}
	hub := b.vertex(points[0], geom, c)
	prev := b.vertex(points[1], geom, c)
	for _, p := range points[2:] {
		cur := b.vertex(p, geom, c)
		b.inds = append(b.inds, hub, prev, cur)
		prev = cur
	}
}

// quad appends a segment from a to b of the given width.
func (b *meshBuilder) quad(p0, p1 Vec2, width float64, geom *ebiten.GeoM, c Color) {
	nx, ny := perpendicular(p0, p1)
	hw := width / 2
	off := Vec2{nx * hw, ny * hw}
	i0 := b.vertex(p0.Add(off), geom, c)
	i1 := b.vertex(p0.Sub(off), geom, c)
	i2 := b.vertex(p1.Add(off), geom, c)
	i3 := b.vertex(p1.Sub(off), geom, c)
	b.inds = append(b.inds, i0, i1, i2, i1, i3, i2)
}

// full reports whether another batch of n vertices would overflow uint16
// indices.
func (b *meshBuilder) full(n int) bool {
	return len(b.verts)+n > math.MaxUint16
}

func (b *meshBuilder) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

func (s *Surface) drawMesh(dst *ebiten.Image, b *meshBuilder, rule ebiten.FillRule, blend ebiten.Blend) {
	if len(b.inds) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		FillRule:       rule,
		AntiAlias:      true,
		Blend:          blend,
	}
	dst.DrawTriangles(b.verts, b.inds, ensureWhitePixel(), op)
}

// --- Strokes ---

// strokePolyline strokes the segments through points, applying the dash
// pattern along the whole length.
func (s *Surface) strokePolyline(points []Vec2, closed bool) {
	if len(points) < 2 {
		return
	}
	if closed {
		points = append(points[:len(points):len(points)], points[0])
	}

	var b meshBuilder
	for _, seg := range dashSegments(points, s.dash) {
		if b.full(4) {
			s.drawMesh(s.canvas, &b, ebiten.FillRuleFillAll, ebiten.BlendSourceOver)
			b.reset()
		}
		b.quad(seg[0], seg[1], s.lineWidth, &s.geom, s.stroke)
	}
	s.drawMesh(s.canvas, &b, ebiten.FillRuleFillAll, ebiten.BlendSourceOver)
}

// dashSegments splits the polyline through points into the pieces drawn
// under dash. The pattern carries over from one segment to the next. An
// empty pattern returns every segment whole.
func dashSegments(points []Vec2, dash []float64) [][2]Vec2 {
	var out [][2]Vec2
	di, left, on := 0, 0.0, true
	if len(dash) > 0 {
		left = dash[0]
	}
	for i := 0; i+1 < len(points); i++ {
		p0, p1 := points[i], points[i+1]
		if len(dash) == 0 {
			out = append(out, [2]Vec2{p0, p1})
			continue
		}
		seg := p1.Sub(p0)
		segLen := seg.Len()
		dir := seg.Div(math.Max(segLen, 1e-10))
		pos := 0.0
		for pos < segLen {
			step := math.Min(left, segLen-pos)
			if on && step > 0 {
				out = append(out, [2]Vec2{p0.Add(dir.Mul(pos)), p0.Add(dir.Mul(pos + step))})
			}
			pos += step
			left -= step
			if left <= 0 {
				di = (di + 1) % len(dash)
				left = dash[di]
				on = !on
			}
		}
	}
	return out
}

// Line strokes a segment from (x0, y0) to (x1, y1).
func (s *Surface) Line(x0, y0, x1, y1 float64) {
	s.strokePolyline([]Vec2{{x0, y0}, {x1, y1}}, false)
}

// Polyline strokes an open chain of segments.
func (s *Surface) Polyline(points []Vec2) {
	s.strokePolyline(points, false)
}

// Circle strokes a circle outline.
func (s *Surface) Circle(cx, cy, r float64) {
	s.strokePolyline(circlePoints(Vec2{cx, cy}, r), true)
}

// StrokeRect strokes a rectangle outline.
func (s *Surface) StrokeRect(x, y, w, h float64) {
	s.strokePolyline([]Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, true)
}

// StrokePath strokes every subpath of p as a closed outline.
func (s *Surface) StrokePath(p *Path) {
	for _, sp := range p.subpaths {
		s.strokePolyline(sp, true)
	}
}

// --- Fills ---

func (s *Surface) fillPath(dst *ebiten.Image, p *Path, c Color, rule ebiten.FillRule) {
	var b meshBuilder
	for _, sp := range p.subpaths {
		if b.full(len(sp)) {
			s.drawMesh(dst, &b, rule, ebiten.BlendSourceOver)
			b.reset()
		}
		b.fan(sp, &s.geom, c)
	}
	s.drawMesh(dst, &b, rule, ebiten.BlendSourceOver)
}

// FillPath fills p with the nonzero winding rule.
func (s *Surface) FillPath(p *Path) {
	s.fillPath(s.canvas, p, s.fill, ebiten.FillRuleNonZero)
}

// FillPathEvenOdd fills p with the even-odd rule, so nested subpaths cut
// holes.
func (s *Surface) FillPathEvenOdd(p *Path) {
	s.fillPath(s.canvas, p, s.fill, ebiten.FillRuleEvenOdd)
}

// FillCircle fills a disc.
func (s *Surface) FillCircle(cx, cy, r float64) {
	var p Path
	p.Circle(cx, cy, r)
	s.FillPath(&p)
}

// FillRect fills a rectangle.
func (s *Surface) FillRect(x, y, w, h float64) {
	var p Path
	p.Rect(x, y, w, h)
	s.FillPath(&p)
}

// Clear makes the whole canvas transparent.
func (s *Surface) Clear() {
	s.canvas.Clear()
}

// Fill paints the whole canvas with c, ignoring the transform.
func (s *Surface) Fill(c Color) {
	s.canvas.Fill(c.toRGBA())
}

// --- Clipping ---

// ClipEvenOdd runs draw with output restricted to the inside of p under the
// even-odd rule. Drawing happens on a pooled layer which is masked and then
// composited onto the canvas. The transform in effect when ClipEvenOdd is
// called positions the path; draw may change the transform freely.
func (s *Surface) ClipEvenOdd(p *Path, draw func()) {
	if p.Empty() {
		return
	}
	geom := s.geom
	canvas := s.canvas

	layer := s.pool.Acquire(s.w, s.h)
	s.canvas = layer
	draw()
	s.canvas = canvas
	s.geom = geom

	mask := s.pool.Acquire(s.w, s.h)
	s.fillPath(mask, p, ColorWhite, ebiten.FillRuleEvenOdd)

	var op ebiten.DrawImageOptions
	op.Blend = BlendMask.EbitenBlend()
	layer.DrawImage(mask, &op)

	canvas.DrawImage(subImage(layer, s.w, s.h), nil)

	s.pool.Release(mask)
	s.pool.Release(layer)
}

// --- Images ---

// DrawImage draws img with its top-left corner at (x, y) in local space.
func (s *Surface) DrawImage(img *ebiten.Image, x, y float64) {
	s.DrawImageTinted(img, x, y, ColorWhite, BlendNormal)
}

// DrawImageTinted draws img at (x, y) multiplied by tint and composited
// with blend.
func (s *Surface) DrawImageTinted(img *ebiten.Image, x, y float64, tint Color, blend BlendMode) {
	if img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.geom)
	op.ColorScale.Scale(
		float32(tint.R*tint.A),
		float32(tint.G*tint.A),
		float32(tint.B*tint.A),
		float32(tint.A),
	)
	op.Blend = blend.EbitenBlend()
	s.canvas.DrawImage(img, &op)
}

// --- Text ---

var monoSource *text.GoTextFaceSource

// DefaultFace returns the built-in monospace face at size px.
func DefaultFace(size float64) *text.GoTextFace {
	if monoSource == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
		if err != nil {
			panic(fmt.Sprintf("stagehand: built-in font: %v", err))
		}
		monoSource = src
	}
	return &text.GoTextFace{Source: monoSource, Size: size}
}

// NewFace parses TrueType or OpenType data into a face of size px.
func NewFace(ttf []byte, size float64) (*text.GoTextFace, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("stagehand: parse font: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: size}, nil
}

func (s *Surface) lineHeight() float64 {
	m := s.font.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// FillText draws str centred on (x, y) in the fill color.
func (s *Surface) FillText(str string, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.geom)
	op.ColorScale.ScaleWithColor(s.fill.toRGBA())
	op.LineSpacing = s.lineHeight()
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(s.canvas, str, s.font, op)
}

// MeasureText returns the local-space size of str in the current face.
func (s *Surface) MeasureText(str string) Vec2 {
	w, h := text.Measure(str, s.font, s.lineHeight())
	return Vec2{w, h}
}
