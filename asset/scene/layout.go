package scene

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
)

// Entry names used by compiled scene archives.
const (
	NodesFile     = "nodes.bin"
	IndicesFile   = "indices.bin"
	TrianglesFile = "triangles.bin"
	MeshesFile    = "meshes.bin"
)

// Encoded record sizes in bytes.
const (
	IndexSize    = 4
	TriangleSize = 9 * 4
	MeshSize     = 3 * 4
)

// Encode the mesh list as (root node, first triangle, triangle count) uint32 triplets.
func WriteMeshes(w io.Writer, meshes []Mesh) error {
	return binary.Write(w, bvh.ByteOrder, meshes)
}

// Decode count meshes previously encoded with WriteMeshes.
func ReadMeshes(r io.Reader, count int) ([]Mesh, error) {
	meshes := make([]Mesh, count)
	if err := binary.Read(r, bvh.ByteOrder, meshes); err != nil {
		return nil, err
	}
	return meshes, nil
}

// Check that mesh entries reference valid nodes and triangles and that the
// node list forms a forest whose children follow their parents.
func (sc *Scene) Validate() error {
	for index, mesh := range sc.MeshList {
		if int(mesh.BvhRoot) >= len(sc.BvhNodeList) {
			return &ValidationError{MeshIndex: index, Reason: "BVH root out of range"}
		}
		if uint64(mesh.FirstPrimitive)+uint64(mesh.PrimitiveCount) > uint64(len(sc.Triangles)) {
			return &ValidationError{MeshIndex: index, Reason: "triangle range out of bounds"}
		}
	}
	for nodeIndex, node := range sc.BvhNodeList {
		var limit int
		if node.IsLeaf() {
			limit = len(sc.PrimitiveIndices) - int(node.PrimitiveCount)
		} else {
			limit = len(sc.BvhNodeList) - 2
		}
		if int(node.FirstIndex) > limit {
			return &ValidationError{MeshIndex: -1, Reason: fmt.Sprintf("node %d references out of range data", nodeIndex)}
		}

		// Children are always stored after their parent; anything else
		// would make traversal loop.
		if !node.IsLeaf() && int(node.FirstIndex) <= nodeIndex {
			return &ValidationError{MeshIndex: -1, Reason: fmt.Sprintf("node %d references a child that does not follow it", nodeIndex)}
		}
	}
	for _, primIndex := range sc.PrimitiveIndices {
		if int(primIndex) >= len(sc.Triangles) {
			return &ValidationError{MeshIndex: -1, Reason: "primitive index out of range"}
		}
	}
	return nil
}

// ValidationError is returned by Validate when the scene buffers are inconsistent.
type ValidationError struct {
	MeshIndex int
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.MeshIndex < 0 {
		return "scene: " + e.Reason
	}
	return fmt.Sprintf("scene: mesh %d: %s", e.MeshIndex, e.Reason)
}
