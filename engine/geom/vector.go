package geom

import "math"

// Vector is a 2D point/direction. Z is carried along for the camera (zoom
// hint) and ignored by every 2D operation.
type Vector struct {
	X, Y, Z float32
}

func Vec(x, y float32) Vector { return Vector{X: x, Y: y} }

func (v *Vector) Set(x, y float32) *Vector { v.X, v.Y = x, y; return v }

func (v Vector) Add(o Vector) Vector  { return Vector{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector  { return Vector{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vector) Mul(s float32) Vector { return Vector{X: v.X * s, Y: v.Y * s} }
func (v Vector) Div(s float32) Vector { return Vector{X: v.X / s, Y: v.Y / s} }

func (v Vector) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Normalize returns the unit vector; the zero vector stays zero.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		l = 1
	}
	return v.Div(l)
}

func (v Vector) Dot(o Vector) float32   { return v.X*o.X + v.Y*o.Y }
func (v Vector) Cross(o Vector) float32 { return v.X*o.Y - v.Y*o.X }

// Rotate turns v counter-clockwise by rad (math convention, Y up).
func (v Vector) Rotate(rad float32) Vector {
	c, s := math.Cos(float64(rad)), math.Sin(float64(rad))
	x, y := float64(v.X), float64(v.Y)
	return Vector{X: float32(x*c - y*s), Y: float32(x*s + y*c)}
}

func (v Vector) Dist(o Vector) float32 { return o.Sub(v).Length() }
