// ppu.go - scanline/VBlank counter and test-pattern generator (C14)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
The actual pixel/VRAM rasterizer is an explicit external collaborator
per §1; PPU here only drives the scanline/HBlank/VBlank cadence real
software synchronizes against and hands the video.Sink boundary a
test-pattern frame once per VBlank, so the scheduler's display events
have something observable to fire.
*/

package main

import "github.com/duocore-vm/duocore/video"

const (
	screenWidth  = 256
	screenHeight = 192

	cyclesPerScanline = 2130
	scanlinesPerFrame = 263
	hblankOffset      = 1606
)

// PPU tracks the current scanline and fires HBlank/VBlank on both
// interrupt controllers at the documented cadence.
type PPU struct {
	sched        *Scheduler
	intcA, intcB *InterruptController
	sink         video.Sink

	scanline   int
	frameCount uint64

	hblankEvID   int
	scanlineEvID int
}

// NewPPU arms the scheduler with its own recurring HBlank/scanline
// events. sink may be nil, in which case frames are simply dropped.
func NewPPU(sched *Scheduler, intcA, intcB *InterruptController, sink video.Sink) *PPU {
	p := &PPU{sched: sched, intcA: intcA, intcB: intcB, sink: sink}
	p.hblankEvID = sched.RegisterEvent(p.onHBlank)
	p.scanlineEvID = sched.RegisterEvent(p.onScanlineEnd)
	sched.AddEvent(p.hblankEvID, 0, hblankOffset)
	sched.AddEvent(p.scanlineEvID, 0, cyclesPerScanline)
	return p
}

func (p *PPU) onHBlank(payload int64) {
	p.intcA.SendInterrupt(IRQHBlank)
	p.intcB.SendInterrupt(IRQHBlank)
	p.sched.AddEvent(p.hblankEvID, 0, cyclesPerScanline)
}

func (p *PPU) onScanlineEnd(payload int64) {
	p.scanline++
	if p.scanline == screenHeight {
		p.intcA.SendInterrupt(IRQVBlank)
		p.intcB.SendInterrupt(IRQVBlank)
		p.presentFrame()
	}
	if p.scanline >= scanlinesPerFrame {
		p.scanline = 0
		p.frameCount++
	}
	p.sched.AddEvent(p.scanlineEvID, 0, cyclesPerScanline)
}

// presentFrame generates a scrolling test pattern and hands it to the
// attached sink, converted from the PPU's native BGR555 to RGBA8888.
func (p *PPU) presentFrame() {
	if p.sink == nil {
		return
	}
	buf := make([]uint16, screenWidth*screenHeight)
	scroll := int(p.frameCount)
	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			r := uint16((x + scroll) & 0x1F)
			g := uint16(y & 0x1F)
			buf[y*screenWidth+x] = r | g<<5
		}
	}
	p.sink.Present(video.BGR555ToRGBA(buf, screenWidth, screenHeight), screenWidth, screenHeight)
}
