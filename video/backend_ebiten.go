//go:build !headless

// backend_ebiten.go - ebiten-backed video sink
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

package video

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

const windowScale = 3

// ebitenSink opens a window on first Present and scales every frame
// up by windowScale with a Catmull-Rom resampler before blitting it,
// since the source resolution is far smaller than any real display.
type ebitenSink struct {
	game *ebitenGame
}

type ebitenGame struct {
	src     *image.RGBA
	srcW    int
	srcH    int
	scaled  *image.RGBA
	started bool
}

func newBackend() Sink {
	return &ebitenSink{game: &ebitenGame{}}
}

func (s *ebitenSink) Present(frame []byte, w, h int) {
	g := s.game
	if g.src == nil || g.srcW != w || g.srcH != h {
		g.src = image.NewRGBA(image.Rect(0, 0, w, h))
		g.scaled = image.NewRGBA(image.Rect(0, 0, w*windowScale, h*windowScale))
		g.srcW, g.srcH = w, h
	}
	copy(g.src.Pix, frame)
	draw.CatmullRom.Scale(g.scaled, g.scaled.Bounds(), g.src, g.src.Bounds(), draw.Over, nil)

	if !g.started {
		g.started = true
		ebiten.SetWindowSize(w*windowScale, h*windowScale)
		ebiten.SetWindowTitle("duocore")
		go ebiten.RunGame(g)
	}
}

func (g *ebitenGame) Update() error { return nil }

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	if g.scaled == nil {
		return
	}
	screen.WritePixels(g.scaled.Pix)
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.srcW * windowScale, g.srcH * windowScale
}
