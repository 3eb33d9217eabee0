package bvh

import "github.com/achilleasa/polaris-bvh/types"

// Bvh nodes are comprised of an AABB and two multipurpose uint32 parameters
// whose meaning depends on the node type:
//
// - For leaf nodes PrimitiveCount is > 0 and FirstIndex points to the first
// entry of the leaf range inside the BVH primitive index list.
// - For internal nodes PrimitiveCount is 0 and FirstIndex points to the left
// child node. The right child is always stored right after the left one.
//
// The struct layout is shared with the GPU traversal code and must not be
// changed; see NodeSize.
type Node struct {
	AABB           AABB
	PrimitiveCount uint32
	FirstIndex     uint32
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.PrimitiveCount != 0
}

// Get the indices of the left and right child nodes. The result is only
// meaningful for internal nodes.
func (n *Node) Children() (left, right uint32) {
	return n.FirstIndex, n.FirstIndex + 1
}

// Test whether the ray interval overlaps the node bounding box.
//
// This method never modifies the ray; only primitive hits are allowed to
// narrow the ray interval.
func (n *Node) Intersect(ray *Ray) bool {
	return n.intersect(ray, ray.InverseDirection())
}

// Slab test using a precomputed inverse ray direction. The reductions use the
// min/max builtins which propagate NaNs regardless of argument order; a NaN
// in either bound makes the final comparison fail.
func (n *Node) intersect(ray *Ray, invDir types.Vec3) bool {
	t0 := n.AABB.Min.Sub(ray.Origin).MulVec(invDir)
	t1 := n.AABB.Max.Sub(ray.Origin).MulVec(invDir)

	tMinV := types.MinVec3N(t0, t1)
	tMaxV := types.MaxVec3N(t0, t1)

	tMin := max(tMinV[0], tMinV[1], tMinV[2], ray.TMin)
	tMax := min(tMaxV[0], tMaxV[1], tMaxV[2], ray.TMax)
	return tMin <= tMax
}
