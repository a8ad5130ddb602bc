package core

import (
	"github.com/hubastard/biscuit/engine/geom"
)

// WorldMapper converts framebuffer pixels to world coordinates.
type WorldMapper func(px, py float32) geom.Vector

// Input tracks keyboard, mouse and touch state from window events. Touch 0
// is emulated from the left mouse button so touch-driven code works on
// desktop.
type Input struct {
	keys           map[Key]bool
	buttons        map[MouseButton]bool
	mouseX, mouseY float64
	scrollX        float64
	scrollY        float64
	touches        map[int][2]float64 // screen pixels
	toWorld        WorldMapper
}

func NewInput() *Input {
	return &Input{
		keys:    map[Key]bool{},
		buttons: map[MouseButton]bool{},
		touches: map[int][2]float64{},
	}
}

// SetWorldMapper installs the conversion used by MouseWorld and Touch.
func (in *Input) SetWorldMapper(m WorldMapper) { in.toWorld = m }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		if e.Down {
			in.keys[e.Key] = true
		} else {
			delete(in.keys, e.Key)
		}
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
		if _, ok := in.touches[0]; ok {
			in.touches[0] = [2]float64{e.X, e.Y}
		}
	case EventMouseButton:
		if e.Down {
			in.buttons[e.Button] = true
		} else {
			delete(in.buttons, e.Button)
		}
		if e.Button == MouseLeft {
			if e.Down {
				in.touches[0] = [2]float64{in.mouseX, in.mouseY}
			} else {
				delete(in.touches, 0)
			}
		}
	case EventScroll:
		in.scrollX += e.Xoff
		in.scrollY += e.Yoff
	}
}

func (in *Input) IsKeyDown(k Key) bool            { return in.keys[k] }
func (in *Input) IsButtonDown(b MouseButton) bool { return in.buttons[b] }
func (in *Input) AnyButtonDown() bool             { return len(in.buttons) > 0 }
func (in *Input) Mouse() (float64, float64)       { return in.mouseX, in.mouseY }
func (in *Input) TouchCount() int                 { return len(in.touches) }

// MouseWorld returns the cursor in world coordinates.
func (in *Input) MouseWorld() geom.Vector {
	return in.world(in.mouseX, in.mouseY)
}

// Touch returns touch id in world coordinates.
func (in *Input) Touch(id int) (geom.Vector, bool) {
	p, ok := in.touches[id]
	if !ok {
		return geom.Vector{}, false
	}
	return in.world(p[0], p[1]), true
}

// Scroll returns and resets the scroll accumulated since the last call.
func (in *Input) Scroll() (x, y float64) {
	x, y = in.scrollX, in.scrollY
	in.scrollX, in.scrollY = 0, 0
	return x, y
}

func (in *Input) world(px, py float64) geom.Vector {
	if in.toWorld == nil {
		return geom.Vec(float32(px), float32(py))
	}
	return in.toWorld(float32(px), float32(py))
}
