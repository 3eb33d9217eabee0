package bvh

import (
	"errors"
	"time"

	"github.com/achilleasa/polaris-bvh/log"
	"github.com/achilleasa/polaris-bvh/types"
	"github.com/chewxy/math32"
	"golang.org/x/exp/slices"
)

const (
	// Number of bins used when evaluating split candidates along an axis.
	binCount = 16

	// Nodes with this many primitives or fewer always become leafs.
	minPrimitives = 2

	// Nodes with more primitives than this are always split even if the
	// SAH suggests that keeping them as a leaf is cheaper.
	maxPrimitives = 8

	// The estimated cost of traversing a node relative to the cost of
	// intersecting a primitive.
	traversalCost float32 = 1.0
)

var (
	ErrNoPrimitives   = errors.New("bvh: no primitives to partition")
	ErrLengthMismatch = errors.New("bvh: aabb and center lists must have the same length")
)

// A BVH tree stored as a flat node list. Node 0 is the root. Leafs reference
// ranges of PrimitiveIndices which in turn hold indices into the primitive
// list that was used to build the tree.
type BVH struct {
	Nodes            []Node
	PrimitiveIndices []uint32
}

type bin struct {
	bbox  AABB
	count uint32
}

func (b *bin) extend(other *bin) {
	b.bbox.Extend(other.bbox)
	b.count += other.count
}

func (b *bin) cost() float32 {
	return b.bbox.HalfArea() * float32(b.count)
}

// A split candidate. A rightBin of 0 marks an invalid split.
type split struct {
	axis     int
	cost     float32
	rightBin int
}

func invalidSplit() split {
	return split{cost: math32.Inf(1)}
}

func (s split) valid() bool {
	return s.rightBin != 0
}

// Returns true if s should be preferred over other. Invalid splits never win.
func (s split) less(other split) bool {
	if !s.valid() {
		return false
	}
	return !other.valid() || s.cost < other.cost
}

type builder struct {
	logger log.Logger

	bvh       *BVH
	nodeCount uint32

	aabbs   []AABB
	centers []types.Vec3

	// Stats
	leafs      int
	forced     int
	maxDepth   int
	buildStart time.Time
}

// Construct a BVH over a set of primitives using a binned SAH builder.
//
// The aabbs and centers lists describe each primitive and are indexed
// identically to the primitive list that will later be passed to Traverse.
// Neither list is modified; the builder permutes the returned
// PrimitiveIndices instead.
func Build(aabbs []AABB, centers []types.Vec3) (*BVH, error) {
	if len(aabbs) != len(centers) {
		return nil, ErrLengthMismatch
	}
	if len(aabbs) == 0 {
		return nil, ErrNoPrimitives
	}

	primCount := uint32(len(aabbs))
	b := &builder{
		logger: log.New("bvh builder"),
		bvh: &BVH{
			Nodes:            make([]Node, 2*primCount-1),
			PrimitiveIndices: make([]uint32, primCount),
		},
		aabbs:      aabbs,
		centers:    centers,
		buildStart: time.Now(),
	}

	for i := range b.bvh.PrimitiveIndices {
		b.bvh.PrimitiveIndices[i] = uint32(i)
	}

	b.bvh.Nodes[0] = Node{PrimitiveCount: primCount, FirstIndex: 0}
	b.nodeCount = 1
	b.partition(0, 0)

	b.bvh.Nodes = slices.Clip(b.bvh.Nodes[:b.nodeCount])

	b.logger.Debugf(
		"BVH tree build time: %d ms, primitives: %d, maxDepth: %d, nodes: %d, leafs: %d, forced splits: %d",
		time.Since(b.buildStart).Nanoseconds()/1e6,
		primCount, b.maxDepth, b.nodeCount, b.leafs, b.forced,
	)
	return b.bvh, nil
}

// Process the node at nodeIndex: compute its bounding box and either keep it
// as a leaf or split it into two children and recurse.
func (b *builder) partition(nodeIndex uint32, depth int) {
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	node := &b.bvh.Nodes[nodeIndex]
	if !node.IsLeaf() {
		panic("bvh: attempted to partition an internal node")
	}

	first, count := node.FirstIndex, node.PrimitiveCount
	indices := b.bvh.PrimitiveIndices[first : first+count]

	// Calculate bounding box for node
	node.AABB = EmptyAABB()
	for _, primIndex := range indices {
		node.AABB.Extend(b.aabbs[primIndex])
	}

	// Do we have enough items for partitioning? If not keep the leaf
	if count <= minPrimitives {
		b.leafs++
		return
	}

	// Try splitting along each axis and select the split with the best score
	best := invalidSplit()
	for axis := 0; axis < 3; axis++ {
		if candidate := b.findBestSplit(axis, node.AABB, indices); candidate.less(best) {
			best = candidate
		}
	}

	var firstRight uint32
	leafCost := node.AABB.HalfArea() * (float32(count) - traversalCost)
	if !best.valid() || best.cost >= leafCost {
		if count <= maxPrimitives {
			b.leafs++
			return
		}

		// The SAH prefers a leaf but the node holds too many primitives.
		// Split the range in half by position so that the recursion always
		// makes progress, even when all centers coincide.
		axis := node.AABB.LargestAxis()
		slices.SortStableFunc(indices, func(a, c uint32) int {
			ca, cc := b.centers[a][axis], b.centers[c][axis]
			switch {
			case ca < cc:
				return -1
			case ca > cc:
				return 1
			}
			return 0
		})
		firstRight = first + count/2
		b.forced++
	} else {
		bbox := node.AABB
		firstRight = first + partitionIndices(indices, func(primIndex uint32) bool {
			return binIndex(best.axis, bbox, b.centers[primIndex]) < best.rightBin
		})
	}

	leftIndex := b.nodeCount
	b.nodeCount += 2

	b.bvh.Nodes[leftIndex] = Node{FirstIndex: first, PrimitiveCount: firstRight - first}
	b.bvh.Nodes[leftIndex+1] = Node{FirstIndex: firstRight, PrimitiveCount: first + count - firstRight}

	// Convert node to an internal node
	node.PrimitiveCount = 0
	node.FirstIndex = leftIndex

	b.partition(leftIndex, depth+1)
	b.partition(leftIndex+1, depth+1)
}

// Bin the primitives of a node along axis and evaluate the SAH cost of
// splitting between each pair of adjacent bins. Returns the cheapest split
// or an invalid split if no candidate separates the primitives.
func (b *builder) findBestSplit(axis int, bbox AABB, indices []uint32) split {
	var bins [binCount]bin
	for i := range bins {
		bins[i].bbox = EmptyAABB()
	}

	for _, primIndex := range indices {
		bi := &bins[binIndex(axis, bbox, b.centers[primIndex])]
		bi.bbox.Extend(b.aabbs[primIndex])
		bi.count++
	}

	// Sweep from the right and record the cost of each right-hand side
	var rightCosts [binCount]float32
	var rightCounts [binCount]uint32
	rightAccum := bin{bbox: EmptyAABB()}
	for i := binCount - 1; i > 0; i-- {
		rightAccum.extend(&bins[i])
		rightCosts[i] = rightAccum.cost()
		rightCounts[i] = rightAccum.count
	}

	// Sweep from the left and combine with the matching right-hand side
	best := invalidSplit()
	best.axis = axis
	leftAccum := bin{bbox: EmptyAABB()}
	for i := 0; i < binCount-1; i++ {
		leftAccum.extend(&bins[i])

		// Skip candidates that leave one of the sides empty
		if leftAccum.count == 0 || rightCounts[i+1] == 0 {
			continue
		}

		cost := leftAccum.cost() + rightCosts[i+1]
		if cost < best.cost {
			best.cost = cost
			best.rightBin = i + 1
		}
	}

	return best
}

// Map a center coordinate to one of the bins spanning bbox along axis.
// Boxes with no extent along axis map every center to bin 0.
func binIndex(axis int, bbox AABB, center types.Vec3) int {
	extent := bbox.Max[axis] - bbox.Min[axis]
	if !(extent > 0) {
		return 0
	}

	index := int(math32.Floor((center[axis] - bbox.Min[axis]) * (binCount / extent)))
	return min(max(index, 0), binCount-1)
}

// Reorder indices so that all entries satisfying pred come first and return
// the number of such entries.
func partitionIndices(indices []uint32, pred func(uint32) bool) uint32 {
	first := 0
	for first < len(indices) && pred(indices[first]) {
		first++
	}

	for i := first + 1; i < len(indices); i++ {
		if pred(indices[i]) {
			indices[first], indices[i] = indices[i], indices[first]
			first++
		}
	}

	return uint32(first)
}
