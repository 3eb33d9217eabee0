package bvh

import (
	"encoding/binary"
	"io"
)

// The size in bytes of an encoded node: two float32 vec3 for the bbox
// followed by the uint32 primitive count and first index. GPU traversal
// code mirrors this record so the layout must not change.
const NodeSize = 32

// The byte order used for all encoded buffers.
var ByteOrder = binary.LittleEndian

// Encode a node list in its GPU layout.
func WriteNodes(w io.Writer, nodes []Node) error {
	return binary.Write(w, ByteOrder, nodes)
}

// Decode count nodes previously encoded with WriteNodes.
func ReadNodes(r io.Reader, count int) ([]Node, error) {
	nodes := make([]Node, count)
	if err := binary.Read(r, ByteOrder, nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Encode a primitive index list as a flat uint32 array.
func WriteIndices(w io.Writer, indices []uint32) error {
	return binary.Write(w, ByteOrder, indices)
}

// Decode count primitive indices previously encoded with WriteIndices.
func ReadIndices(r io.Reader, count int) ([]uint32, error) {
	indices := make([]uint32, count)
	if err := binary.Read(r, ByteOrder, indices); err != nil {
		return nil, err
	}
	return indices, nil
}

// Encode a triangle list as a flat float32 array (9 floats per triangle).
func WriteTriangles(w io.Writer, triangles []Triangle) error {
	return binary.Write(w, ByteOrder, triangles)
}

// Decode count triangles previously encoded with WriteTriangles.
func ReadTriangles(r io.Reader, count int) ([]Triangle, error) {
	triangles := make([]Triangle, count)
	if err := binary.Read(r, ByteOrder, triangles); err != nil {
		return nil, err
	}
	return triangles, nil
}

// Concatenate a set of trees into a single node and index list. Each tree's
// primitive indices are shifted by the matching entry in primitiveOffsets so
// that they address a concatenated primitive list.
//
// Returns the merged tree and the root node index of each input tree inside
// it. The merged tree is meant to be traversed with TraverseFrom.
func Merge(trees []*BVH, primitiveOffsets []uint32) (*BVH, []uint32) {
	var nodeCount, indexCount int
	for _, tree := range trees {
		nodeCount += len(tree.Nodes)
		indexCount += len(tree.PrimitiveIndices)
	}

	merged := &BVH{
		Nodes:            make([]Node, 0, nodeCount),
		PrimitiveIndices: make([]uint32, 0, indexCount),
	}
	roots := make([]uint32, len(trees))

	for treeIndex, tree := range trees {
		nodeOffset := uint32(len(merged.Nodes))
		indexOffset := uint32(len(merged.PrimitiveIndices))
		roots[treeIndex] = nodeOffset

		for _, node := range tree.Nodes {
			if node.IsLeaf() {
				node.FirstIndex += indexOffset
			} else {
				node.FirstIndex += nodeOffset
			}
			merged.Nodes = append(merged.Nodes, node)
		}

		for _, primIndex := range tree.PrimitiveIndices {
			merged.PrimitiveIndices = append(merged.PrimitiveIndices, primIndex+primitiveOffsets[treeIndex])
		}
	}

	return merged, roots
}
