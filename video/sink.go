// sink.go - narrow video output boundary (C14)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
The pixel/VRAM rasterizer and the video output surface are external
collaborators per the core's purpose statement: this package only
defines the narrow boundary a caller hands finished frames to, plus a
color-space conversion helper and two concrete backends. Nothing here
renders a frame's contents.
*/

package video

// Sink receives a finished frame for display. frame is w*h pixels of
// straight RGBA8888, row-major, no padding.
type Sink interface {
	Present(frame []byte, w, h int)
}

// NewDefaultSink returns the build's default backend: the ebiten
// window in a normal build, a frame-discarding stub under the
// headless build tag.
func NewDefaultSink() Sink {
	return newBackend()
}
