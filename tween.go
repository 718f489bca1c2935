package stagehand

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates up to four float64 fields at once. Create one with
// TweenFloat, TweenVec2 or TweenColor and call Update with the frame's delta
// time; the current values are written through to the fields.
//
// There is no global animation manager; states update their own tweens.
type Tween struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances the tween by dt seconds and writes the values.
func (g *Tween) Update(dt float64) {
	if g == nil || g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenFloat animates *field to `to` over duration seconds.
func TweenFloat(field *float64, to, duration float64, fn ease.TweenFunc) *Tween {
	g := &Tween{count: 1}
	g.tweens[0] = gween.New(float32(*field), float32(to), float32(duration), fn)
	g.fields[0] = field
	return g
}

// TweenVec2 animates both components of *v.
func TweenVec2(v *Vec2, to Vec2, duration float64, fn ease.TweenFunc) *Tween {
	g := &Tween{count: 2}
	g.tweens[0] = gween.New(float32(v.X), float32(to.X), float32(duration), fn)
	g.tweens[1] = gween.New(float32(v.Y), float32(to.Y), float32(duration), fn)
	g.fields[0] = &v.X
	g.fields[1] = &v.Y
	return g
}

// TweenColor animates all four components of *c.
func TweenColor(c *Color, to Color, duration float64, fn ease.TweenFunc) *Tween {
	g := &Tween{count: 4}
	g.tweens[0] = gween.New(float32(c.R), float32(to.R), float32(duration), fn)
	g.tweens[1] = gween.New(float32(c.G), float32(to.G), float32(duration), fn)
	g.tweens[2] = gween.New(float32(c.B), float32(to.B), float32(duration), fn)
	g.tweens[3] = gween.New(float32(c.A), float32(to.A), float32(duration), fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	g.fields[3] = &c.A
	return g
}
