package bvh

import "github.com/achilleasa/polaris-bvh/types"

// The Intersector interface is implemented by all primitives that can be
// stored in a BVH leaf. Implementations must return true only when the ray
// hits the primitive inside [ray.TMin, ray.TMax] and must set ray.TMax to
// the hit distance when they do.
type Intersector interface {
	Intersect(ray *Ray) bool
}

// A triangle primitive.
type Triangle struct {
	P0, P1, P2 types.Vec3
}

// Get the triangle AABB.
func (tri Triangle) BBox() AABB {
	return AABBFromPoints(tri.P0, tri.P1, tri.P2)
}

// Get the triangle centroid.
func (tri Triangle) Center() types.Vec3 {
	return tri.P0.Add(tri.P1).Add(tri.P2).Mul(1.0 / 3.0)
}

// Get the (unnormalized) geometric normal.
func (tri Triangle) Normal() types.Vec3 {
	return tri.P0.Sub(tri.P1).Cross(tri.P2.Sub(tri.P0))
}

// Intersect the triangle with a ray and narrow ray.TMax on a hit.
//
// Only the u,v,w >= 0 sign triple is accepted so hits that would require all
// three weights to be non-positive are reported as misses.
func (tri Triangle) Intersect(ray *Ray) bool {
	e1 := tri.P0.Sub(tri.P1)
	e2 := tri.P2.Sub(tri.P0)
	n := e1.Cross(e2)

	c := tri.P0.Sub(ray.Origin)
	r := ray.Direction.Cross(c)
	invDet := 1.0 / n.Dot(ray.Direction)

	u := r.Dot(e2) * invDet
	v := r.Dot(e1) * invDet
	w := 1.0 - u - v

	// A parallel ray produces an infinite invDet; the resulting NaN/Inf
	// weights and distance fail the comparisons below.
	if u >= 0 && v >= 0 && w >= 0 {
		t := n.Dot(c) * invDet
		if t >= ray.TMin && t <= ray.TMax {
			ray.TMax = t
			return true
		}
	}

	return false
}
