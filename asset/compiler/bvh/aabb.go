package bvh

import (
	"github.com/achilleasa/polaris-bvh/types"
	"github.com/chewxy/math32"
)

// An axis-aligned bounding box.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// Create an empty AABB. An empty AABB has its min corner at +Inf and its max
// corner at -Inf so extending it with any other box yields that box.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: types.Vec3{inf, inf, inf},
		Max: types.Vec3{-inf, -inf, -inf},
	}
}

// Create the AABB that encloses a set of points.
func AABBFromPoints(points ...types.Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box.ExtendPoint(p)
	}
	return box
}

// Grow the box so it also encloses other.
func (b *AABB) Extend(other AABB) {
	b.Min = types.MinVec3(b.Min, other.Min)
	b.Max = types.MaxVec3(b.Max, other.Max)
}

// Grow the box so it also encloses point p.
func (b *AABB) ExtendPoint(p types.Vec3) {
	b.Min = types.MinVec3(b.Min, p)
	b.Max = types.MaxVec3(b.Max, p)
}

// Returns true if the box does not enclose any point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the box diagonal (max - min).
func (b AABB) Diagonal() types.Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the box center.
func (b AABB) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Calculate half the surface area of the box. This is the cost proxy used by
// the SAH; since both sides of every comparison use it the missing factor of
// two does not affect split selection.
func (b AABB) HalfArea() float32 {
	d := b.Diagonal()
	return (d[0]+d[1])*d[2] + d[0]*d[1]
}

// Get the index of the axis with the largest extent. Ties are resolved in
// favor of the lower axis index.
func (b AABB) LargestAxis() int {
	d := b.Diagonal()
	axis := 0
	if d[1] > d[axis] {
		axis = 1
	}
	if d[2] > d[axis] {
		axis = 2
	}
	return axis
}

// Returns true if other lies entirely inside this box. An empty box is
// contained by any box.
func (b AABB) Contains(other AABB) bool {
	if other.IsEmpty() {
		return true
	}
	for axis := 0; axis < 3; axis++ {
		if other.Min[axis] < b.Min[axis] || other.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}
