package renderer2d

import "github.com/hubastard/biscuit/engine/gfx"

// GeometryPool hands out vertex buffers for geometry generated at draw time.
// Acquire leaves the returned buffer bound.
type GeometryPool interface {
	Acquire(verts []float32) gfx.Handle
	Release(buf gfx.Handle)
}

// TransientGeometry creates a fresh buffer per Acquire and deletes it on
// Release.
type TransientGeometry struct {
	dev gfx.Device
}

func NewTransientGeometry(dev gfx.Device) *TransientGeometry {
	return &TransientGeometry{dev: dev}
}

func (g *TransientGeometry) Acquire(verts []float32) gfx.Handle {
	buf := g.dev.CreateBuffer()
	if buf == 0 {
		return 0
	}
	g.dev.BindBuffer(buf)
	g.dev.BufferData(verts)
	return buf
}

func (g *TransientGeometry) Release(buf gfx.Handle) { g.dev.DeleteBuffer(buf) }
