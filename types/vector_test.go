package types

import (
	"math"
	"testing"
)

func TestVec3Ops(t *testing.T) {
	a := XYZ(1, 2, 3)
	b := XYZ(4, -5, 6)

	if got, exp := a.Add(b), XYZ(5, -3, 9); got != exp {
		t.Fatalf("expected Add to return %v; got %v", exp, got)
	}
	if got, exp := a.Sub(b), XYZ(-3, 7, -3); got != exp {
		t.Fatalf("expected Sub to return %v; got %v", exp, got)
	}
	if got, exp := a.MulVec(b), XYZ(4, -10, 18); got != exp {
		t.Fatalf("expected MulVec to return %v; got %v", exp, got)
	}
	if got, exp := a.Dot(b), float32(12); got != exp {
		t.Fatalf("expected Dot to return %f; got %f", exp, got)
	}
	if got, exp := XYZ(1, 0, 0).Cross(XYZ(0, 1, 0)), XYZ(0, 0, 1); got != exp {
		t.Fatalf("expected Cross to return %v; got %v", exp, got)
	}
	if got, exp := b.MaxComponent(), float32(6); got != exp {
		t.Fatalf("expected MaxComponent to return %f; got %f", exp, got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Fatalf("expected zero vector normalization to return the zero vector; got %v", got)
	}
}

func TestMinMaxVec3(t *testing.T) {
	a := XYZ(1, 5, -2)
	b := XYZ(3, -1, -2)

	if got, exp := MinVec3(a, b), XYZ(1, -1, -2); got != exp {
		t.Fatalf("expected MinVec3 to return %v; got %v", exp, got)
	}
	if got, exp := MaxVec3(a, b), XYZ(3, 5, -2); got != exp {
		t.Fatalf("expected MaxVec3 to return %v; got %v", exp, got)
	}

	nan := float32(math.NaN())
	c := XYZ(nan, 0, 0)
	for _, v := range []Vec3{MinVec3N(a, c), MinVec3N(c, a), MaxVec3N(a, c), MaxVec3N(c, a)} {
		if !math.IsNaN(float64(v[0])) {
			t.Fatalf("expected NaN component to propagate regardless of argument order; got %v", v)
		}
	}
}
