package main

import (
	"image"
	"image/color"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/hubastard/biscuit/engine/core"
	"github.com/hubastard/biscuit/engine/geom"
	"github.com/hubastard/biscuit/engine/gfx/renderer2d"
	"github.com/hubastard/biscuit/engine/scene"
)

const (
	cookieSize = 200
	// velocities are per 60 Hz frame
	frameRate = 60
	friction  = 1.0 / 20
	spin      = 1.0 / 50
)

// Cookie is a draggable sprite that keeps its throw velocity, bounces off
// the viewport edges and squashes on impact.
type Cookie struct {
	scene.GameObject

	vel      geom.Vector
	offset   geom.Vector
	dragging bool

	squash  *gween.Tween
	scale   float32
	bounces int
}

func NewCookie(sprite renderer2d.ImageSource) *Cookie {
	c := &Cookie{GameObject: scene.NewGameObject(), scale: 1}
	c.Width, c.Height = cookieSize, cookieSize
	c.Sprite = sprite
	return c
}

// Update advances the cookie by dt seconds inside bounds (world rect).
func (c *Cookie) Update(in *core.Input, bounds Rect, dt float32) {
	k := dt * frameRate
	backup := c.Position

	if c.bounce(bounds) {
		c.bounces++
		c.squash = gween.New(0.8, 1, 0.4, ease.OutElastic)
	}

	if touch, ok := in.Touch(0); ok {
		if !c.dragging && c.Contains(touch) {
			c.offset = touch.Sub(c.Position)
			c.dragging = true
		}
		if c.dragging {
			c.Position = touch.Sub(c.offset)
		}
		if k > 0 {
			c.vel = c.Position.Sub(backup).Div(k)
		}
	} else {
		c.dragging = false
		c.Position = c.Position.Add(c.vel.Mul(k))
		c.vel = c.vel.Mul(float32(math.Pow(1-friction, float64(k))))
	}

	c.Rotation += (c.vel.X + c.vel.Y) * spin * k

	c.scale = 1
	if c.squash != nil {
		s, done := c.squash.Update(dt)
		c.scale = s
		if done {
			c.squash = nil
		}
	}
}

// bounce clamps the cookie inside bounds and reflects the velocity on every
// edge it touched.
func (c *Cookie) bounce(b Rect) bool {
	hw, hh := c.Width/2, c.Height/2
	hit := false
	if c.Position.Y <= b.Min.Y+hh {
		c.vel.Y = -c.vel.Y
		c.Position.Y = b.Min.Y + hh
		hit = true
	}
	if c.Position.Y >= b.Max.Y-hh {
		c.vel.Y = -c.vel.Y
		c.Position.Y = b.Max.Y - hh
		hit = true
	}
	if c.Position.X <= b.Min.X+hw {
		c.vel.X = -c.vel.X
		c.Position.X = b.Min.X + hw
		hit = true
	}
	if c.Position.X >= b.Max.X-hw {
		c.vel.X = -c.vel.X
		c.Position.X = b.Max.X - hw
		hit = true
	}
	return hit
}

func (c *Cookie) Render(r *renderer2d.Renderer2D) {
	obj := c.GameObject
	obj.Width *= c.scale
	obj.Height *= c.scale
	obj.Render(r)
}

// Rect is an axis aligned world-space rectangle.
type Rect struct{ Min, Max geom.Vector }

// cookieImage draws a placeholder cookie for when no texture is on disk.
func cookieImage(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	dough := color.NRGBA{R: 214, G: 158, B: 92, A: 255}
	edge := color.NRGBA{R: 176, G: 116, B: 60, A: 255}
	chip := color.NRGBA{R: 74, G: 44, B: 26, A: 255}
	chips := []geom.Vector{{X: 0.3, Y: 0.35}, {X: 0.62, Y: 0.3}, {X: 0.45, Y: 0.6}, {X: 0.7, Y: 0.65}, {X: 0.28, Y: 0.7}}

	r := float32(size) / 2
	center := geom.Vec(r, r)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := geom.Vec(float32(x)+0.5, float32(y)+0.5)
			d := p.Dist(center)
			if d > r {
				continue
			}
			c := dough
			if d > r*0.9 {
				c = edge
			}
			for _, ch := range chips {
				if p.Dist(ch.Mul(float32(size))) < r*0.1 {
					c = chip
				}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
