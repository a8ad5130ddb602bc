package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/biscuit/engine/geom"
	"github.com/hubastard/biscuit/engine/gfx/renderer2d"
)

const minZoom = 0.05

// Camera2D is an orthographic camera centered on Position. One world unit
// is one framebuffer pixel at zoom 1, with +Y up.
type Camera2D struct {
	Position geom.Vector
	Rotation float32 // radians, counter-clockwise

	zoom          float32
	width, height float32
	view, proj    mgl32.Mat4
}

var _ renderer2d.CameraProvider = (*Camera2D)(nil)

func NewCamera2D() *Camera2D {
	return &Camera2D{zoom: 1, view: mgl32.Ident4(), proj: mgl32.Ident4()}
}

func (c *Camera2D) Move(dx, dy float32) { c.Position.X += dx; c.Position.Y += dy }
func (c *Camera2D) Rotate(dRad float32) { c.Rotation += dRad }

func (c *Camera2D) Zoom() float32 { return c.zoom }

// SetZoom clamps z to a small positive minimum.
func (c *Camera2D) SetZoom(z float32) {
	if z < minZoom {
		z = minZoom
	}
	c.zoom = z
}

// UpdateView rebuilds view = R(-rot) · T(-pos).
func (c *Camera2D) UpdateView() {
	c.view = mgl32.HomogRotate3DZ(-c.Rotation).
		Mul4(mgl32.Translate3D(-c.Position.X, -c.Position.Y, 0))
}

// UpdateProjection rebuilds the projection for a w*h pixel viewport. An
// empty viewport (minimised window) keeps the previous projection.
func (c *Camera2D) UpdateProjection(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	c.width, c.height = float32(w), float32(h)
	hw, hh := c.width/2/c.zoom, c.height/2/c.zoom
	c.proj = mgl32.Ortho(-hw, hw, -hh, hh, -1, 1)
}

func (c *Camera2D) View() mgl32.Mat4       { return c.view }
func (c *Camera2D) Projection() mgl32.Mat4 { return c.proj }

// ViewportSize returns the size passed to the last UpdateProjection.
func (c *Camera2D) ViewportSize() (w, h float32) { return c.width, c.height }

// ScreenToWorld maps a framebuffer pixel (origin top-left, +Y down) to world
// coordinates using the current position, rotation and zoom.
func (c *Camera2D) ScreenToWorld(px, py float32) geom.Vector {
	local := geom.Vec((px-c.width/2)/c.zoom, (c.height/2-py)/c.zoom)
	return local.Rotate(c.Rotation).Add(geom.Vec(c.Position.X, c.Position.Y))
}
