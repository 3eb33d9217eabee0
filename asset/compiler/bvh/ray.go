package bvh

import (
	"github.com/achilleasa/polaris-bvh/types"
	"github.com/chewxy/math32"
)

// Machine epsilon for float32.
const epsilon float32 = 1.0 / (1 << 23)

// A ray with a parametric interval [TMin, TMax]. Primitive intersection tests
// narrow TMax whenever they find a closer hit; nothing ever widens it.
type Ray struct {
	Origin    types.Vec3
	Direction types.Vec3
	TMin      float32
	TMax      float32
}

// Create a ray with an unbounded [0, +Inf] interval.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: dir,
		TMin:      0,
		TMax:      math32.Inf(1),
	}
}

// Get the point at distance t along the ray.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Calculate the component-wise inverse of the ray direction. Components that
// are too close to zero are replaced by a huge value that keeps the sign of
// the original component so slab tests on axis-aligned rays never see Inf/NaN.
func (r *Ray) InverseDirection() types.Vec3 {
	return types.Vec3{
		safeInverse(r.Direction[0]),
		safeInverse(r.Direction[1]),
		safeInverse(r.Direction[2]),
	}
}

func safeInverse(x float32) float32 {
	if math32.Abs(x) <= epsilon {
		return math32.Copysign(1.0/epsilon, x)
	}
	return 1.0 / x
}
