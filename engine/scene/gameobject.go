package scene

import (
	"github.com/hubastard/biscuit/engine/geom"
	"github.com/hubastard/biscuit/engine/gfx/renderer2d"
)

// GameObject is a positioned sprite. Embed it and add behaviour in the
// owning type's update.
type GameObject struct {
	Position      geom.Vector
	Width, Height float32
	Rotation      float32
	ZIndex        float32
	Sprite        renderer2d.ImageSource
}

// NewGameObject returns a 100x100 object at the origin on layer 1.
func NewGameObject() GameObject {
	return GameObject{Width: 100, Height: 100, ZIndex: 1}
}

// Render queues the sprite centered at Position. Objects without a sprite
// are still queued and show up as skipped draws.
func (o *GameObject) Render(r *renderer2d.Renderer2D) {
	r.DrawImage(o.Sprite, o.Position.X, o.Position.Y, o.Width, o.Height,
		renderer2d.WithZIndex(o.ZIndex),
		renderer2d.WithRotation(o.Rotation),
	)
}

// Contains reports whether p lies within the object's bounding circle.
func (o *GameObject) Contains(p geom.Vector) bool {
	return p.Dist(o.Position) <= o.Width/2
}
