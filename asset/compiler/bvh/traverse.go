package bvh

import "math"

// NoHit is the primitive index reported by a traversal that did not hit anything.
const NoHit uint32 = math.MaxUint32

// Initial capacity of the traversal stack. The stack grows if a tree is
// deeper than this.
const traversalStackSize = 64

// The result of a BVH traversal.
type Hit struct {
	// The index (in the primitive list passed to Traverse) of the closest
	// hit primitive or NoHit.
	PrimitiveIndex uint32

	// Traversal counters.
	NodesVisited     uint32
	PrimitivesTested uint32
}

// Returns true if the traversal hit a primitive.
func (h Hit) IsHit() bool {
	return h.PrimitiveIndex != NoHit
}

// Find the closest primitive hit by ray. The primitives list must be indexed
// the same way as the lists used to build the tree.
//
// On a hit, ray.TMax is set to the distance of the closest hit. The tree is
// never modified so a single BVH can be traversed concurrently with distinct
// rays.
func Traverse[P Intersector](b *BVH, ray *Ray, primitives []P) Hit {
	return TraverseFrom(b, 0, ray, primitives)
}

// Find the closest primitive hit by ray inside the subtree rooted at root.
// This allows several trees that were merged into a single node list (see
// Merge) to be traversed individually.
func TraverseFrom[P Intersector](b *BVH, root uint32, ray *Ray, primitives []P) Hit {
	hit := Hit{PrimitiveIndex: NoHit}
	if int(root) >= len(b.Nodes) {
		return hit
	}

	invDir := ray.InverseDirection()

	var stackBuf [traversalStackSize]uint32
	stack := append(stackBuf[:0], root)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &b.Nodes[nodeIndex]
		hit.NodesVisited++
		if !node.intersect(ray, invDir) {
			continue
		}

		if node.IsLeaf() {
			for i := node.FirstIndex; i < node.FirstIndex+node.PrimitiveCount; i++ {
				primIndex := b.PrimitiveIndices[i]
				hit.PrimitivesTested++
				if primitives[primIndex].Intersect(ray) {
					hit.PrimitiveIndex = primIndex
				}
			}
			continue
		}

		left, right := node.Children()
		stack = append(stack, left, right)
	}

	return hit
}

// Calculate the depth of the subtree rooted at nodeIndex. A leaf has depth 1.
func (b *BVH) Depth(nodeIndex uint32) uint32 {
	node := &b.Nodes[nodeIndex]
	if node.IsLeaf() {
		return 1
	}

	left, right := node.Children()
	return 1 + max(b.Depth(left), b.Depth(right))
}
