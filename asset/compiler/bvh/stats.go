package bvh

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/slices"
)

// Tree statistics collected by walking a BVH.
type Stats struct {
	Nodes      int
	Leafs      int
	Primitives int
	Depth      uint32

	MinLeafSize uint32
	MaxLeafSize uint32

	// Number of leafs for each leaf size.
	LeafSizes map[uint32]int

	// The SAH cost of the tree normalized by the root bbox area.
	SAHCost float32
}

// Collect statistics for the subtree rooted at root.
func (b *BVH) Stats(root uint32) Stats {
	stats := Stats{
		LeafSizes: make(map[uint32]int),
		Depth:     b.Depth(root),
	}

	rootArea := b.Nodes[root].AABB.HalfArea()
	stack := []uint32{root}
	for len(stack) > 0 {
		node := &b.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		stats.Nodes++

		var relArea float32
		if rootArea > 0 {
			relArea = node.AABB.HalfArea() / rootArea
		}

		if !node.IsLeaf() {
			stats.SAHCost += traversalCost * relArea
			left, right := node.Children()
			stack = append(stack, left, right)
			continue
		}

		stats.Leafs++
		stats.Primitives += int(node.PrimitiveCount)
		stats.LeafSizes[node.PrimitiveCount]++
		stats.SAHCost += float32(node.PrimitiveCount) * relArea
		if stats.MinLeafSize == 0 || node.PrimitiveCount < stats.MinLeafSize {
			stats.MinLeafSize = node.PrimitiveCount
		}
		if node.PrimitiveCount > stats.MaxLeafSize {
			stats.MaxLeafSize = node.PrimitiveCount
		}
	}

	return stats
}

// Get the average number of primitives per leaf.
func (s Stats) AvgLeafSize() float32 {
	if s.Leafs == 0 {
		return 0
	}
	return float32(s.Primitives) / float32(s.Leafs)
}

// Build a tabular representation of the tree statistics.
func (s Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leafs", fmt.Sprintf("%d", s.Leafs)})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", s.Primitives)})
	table.Append([]string{"Depth", fmt.Sprintf("%d", s.Depth)})
	table.Append([]string{"Leaf size (min/avg/max)", fmt.Sprintf("%d / %2.2f / %d", s.MinLeafSize, s.AvgLeafSize(), s.MaxLeafSize)})
	table.Append([]string{"SAH cost", fmt.Sprintf("%3.3f", s.SAHCost)})

	sizes := make([]uint32, 0, len(s.LeafSizes))
	for size := range s.LeafSizes {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	for _, size := range sizes {
		table.Append([]string{fmt.Sprintf("Leafs with %d primitive(s)", size), fmt.Sprintf("%d", s.LeafSizes[size])})
	}

	table.Render()
	return buf.String()
}
