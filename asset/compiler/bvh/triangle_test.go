package bvh

import (
	"math"
	"testing"

	"github.com/achilleasa/polaris-bvh/types"
)

// A triangle in the z=5 plane that contains the z axis.
var unitTri = Triangle{
	P0: types.XYZ(-1, -1, 5),
	P1: types.XYZ(1, -1, 5),
	P2: types.XYZ(0, 1, 5),
}

func TestTriangleIntersect(t *testing.T) {
	ray := NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
	if !unitTri.Intersect(&ray) {
		t.Fatal("expected ray to hit the triangle")
	}
	if ray.TMax != 5 {
		t.Fatalf("expected ray TMax to be 5; got %f", ray.TMax)
	}

	// A second test with the already narrowed interval still succeeds
	// since t == TMax lies inside the closed interval.
	if !unitTri.Intersect(&ray) {
		t.Fatal("expected ray to hit the triangle at t == TMax")
	}
}

func TestTriangleMisses(t *testing.T) {
	specs := []struct {
		descr  string
		origin types.Vec3
		dir    types.Vec3
		tMax   float32
	}{
		{"outside the triangle", types.XYZ(3, 0, 0), types.XYZ(0, 0, 1), 100},
		{"parallel ray", types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), 100},
		{"pointing away", types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), 100},
		{"closer hit already found", types.XYZ(0, 0, 0), types.XYZ(0, 0, 1), 4},
	}

	for _, spec := range specs {
		ray := NewRay(spec.origin, spec.dir)
		ray.TMax = spec.tMax
		if unitTri.Intersect(&ray) {
			t.Fatalf("[%s] expected ray to miss the triangle", spec.descr)
		}
		if ray.TMax != spec.tMax {
			t.Fatalf("[%s] expected ray TMax to remain %f; got %f", spec.descr, spec.tMax, ray.TMax)
		}
	}
}

func TestTriangleBBoxAndCenter(t *testing.T) {
	expBox := AABB{Min: types.XYZ(-1, -1, 5), Max: types.XYZ(1, 1, 5)}
	if box := unitTri.BBox(); box != expBox {
		t.Fatalf("expected bbox to be %v; got %v", expBox, box)
	}

	center := unitTri.Center()
	if center[0] != 0 || math.Abs(float64(center[2]-5)) > 1e-5 {
		t.Fatalf("expected center to be on the z axis at z=5; got %v", center)
	}
}
