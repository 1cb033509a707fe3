// convert.go - BGR555 to RGBA8888 pixel conversion
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

package video

// BGR555ToRGBA expands a little-endian BGR555 framebuffer (5 bits per
// channel, bit 15 unused) into straight RGBA8888, 3-bit replication
// filling the low bits of each 8-bit channel the way the DS PPU's own
// color DAC does.
func BGR555ToRGBA(src []uint16, w, h int) []byte {
	out := make([]byte, w*h*4)
	for i, px := range src {
		r := uint8(px & 0x1F)
		g := uint8((px >> 5) & 0x1F)
		b := uint8((px >> 10) & 0x1F)

		o := i * 4
		out[o+0] = r<<3 | r>>2
		out[o+1] = g<<3 | g>>2
		out[o+2] = b<<3 | b>>2
		out[o+3] = 0xFF
	}
	return out
}
