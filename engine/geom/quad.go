package geom

import "math"

// UnitQuad holds two triangles covering [0,1]x[0,1] (x,y pairs). Every
// quad-shaped draw scales it through its model matrix.
var UnitQuad = [12]float32{
	0, 0, 1, 0, 0, 1,
	0, 1, 1, 0, 1, 1,
}

// UnitQuadUV maps the quad corners 1:1 onto texture space.
var UnitQuadUV = [12]float32{
	0, 0, 1, 0, 0, 1,
	0, 1, 1, 0, 1, 1,
}

// QuadVertexCount is the number of vertices drawn per quad.
const QuadVertexCount = len(UnitQuad) / 2

// CircleFan samples segments+1 points uniformly around a full turn, starting
// and ending at angle 0, for use as a triangle fan. The result holds x,y
// pairs relative to the circle center.
func CircleFan(radius float32, segments int) []float32 {
	if segments <= 0 {
		return nil
	}
	out := make([]float32, 0, (segments+1)*2)
	for i := 0; i <= segments; i++ {
		a := float64(i) / float64(segments) * math.Pi * 2
		out = append(out,
			float32(math.Cos(a))*radius,
			float32(math.Sin(a))*radius,
		)
	}
	return out
}
