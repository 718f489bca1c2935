package stagehand

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows the measured FPS and TPS plus the stack depth in the
// top-left corner. The text is refreshed about twice a second.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
}

func newFPSOverlay() *fpsOverlay {
	// 120x48 fits three lines of debug text
	return &fpsOverlay{img: ebiten.NewImage(120, 48), elapsed: 1}
}

func (o *fpsOverlay) update(dt float64, depth int) {
	o.elapsed += dt
	if o.elapsed < 0.5 {
		return
	}
	o.elapsed = 0

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nstates: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), depth))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
