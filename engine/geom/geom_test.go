package geom

import (
	"math"
	"testing"
)

const eps = 1e-5

func near(a, b float32) bool { return math.Abs(float64(a-b)) < eps }

func TestVectorArithmetic(t *testing.T) {
	a := Vec(3, 4)
	b := Vec(1, 2)

	if got := a.Add(b); got != Vec(4, 6) {
		t.Errorf("Add = %v, want (4,6)", got)
	}
	if got := a.Sub(b); got != Vec(2, 2) {
		t.Errorf("Sub = %v, want (2,2)", got)
	}
	if got := a.Mul(2); got != Vec(6, 8) {
		t.Errorf("Mul = %v, want (6,8)", got)
	}
	if got := a.Div(2); got != Vec(1.5, 2) {
		t.Errorf("Div = %v, want (1.5,2)", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := a.Dot(b); got != 11 {
		t.Errorf("Dot = %v, want 11", got)
	}
	if got := a.Cross(b); got != 2 {
		t.Errorf("Cross = %v, want 2", got)
	}
	if got := b.Dist(a); !near(got, float32(math.Sqrt(8))) {
		t.Errorf("Dist = %v, want sqrt(8)", got)
	}
}

func TestVectorSet(t *testing.T) {
	var v Vector
	v.Set(7, -1)
	if v.X != 7 || v.Y != -1 {
		t.Errorf("Set = %v, want (7,-1)", v)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if got := (Vector{}).Normalize(); got != (Vector{}) {
		t.Errorf("Normalize(0) = %v, want zero", got)
	}
	n := Vec(0, 5).Normalize()
	if !near(n.X, 0) || !near(n.Y, 1) {
		t.Errorf("Normalize(0,5) = %v, want (0,1)", n)
	}
}

func TestRotateCounterClockwise(t *testing.T) {
	r := Vec(1, 0).Rotate(math.Pi / 2)
	if !near(r.X, 0) || !near(r.Y, 1) {
		t.Errorf("Rotate(pi/2) = %v, want (0,1)", r)
	}
}

func TestCircleFan(t *testing.T) {
	pts := CircleFan(2, 8)
	if len(pts) != 9*2 {
		t.Fatalf("len = %d, want %d", len(pts), 18)
	}
	// closes the loop on the starting point
	if !near(pts[0], 2) || !near(pts[1], 0) || !near(pts[16], 2) || !near(pts[17], 0) {
		t.Errorf("first/last = (%v,%v)/(%v,%v), want (2,0)", pts[0], pts[1], pts[16], pts[17])
	}
	if CircleFan(1, 0) != nil {
		t.Error("CircleFan(segments=0) should be nil")
	}
}

func TestUnitQuadCoversUnitSquare(t *testing.T) {
	if QuadVertexCount != 6 {
		t.Fatalf("QuadVertexCount = %d, want 6", QuadVertexCount)
	}
	for i, v := range UnitQuad {
		if v != 0 && v != 1 {
			t.Errorf("UnitQuad[%d] = %v, want 0 or 1", i, v)
		}
	}
}
