package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/olekukonko/tablewriter"
)

// A mesh entry in the optimized scene. Each mesh owns a BVH subtree in the
// scene node list and a contiguous range of the scene triangle list.
type Mesh struct {
	// The root of the mesh BVH inside the scene node list.
	BvhRoot uint32

	// The range of scene triangles that belong to this mesh.
	FirstPrimitive uint32
	PrimitiveCount uint32
}

// The optimized scene stores all geometry as flat lists that can be uploaded
// verbatim to the GPU.
type Scene struct {
	// BVH nodes for all meshes. Leaf nodes index PrimitiveIndices which in
	// turn index the Triangles list.
	BvhNodeList      []bvh.Node
	PrimitiveIndices []uint32

	// Triangles in the order they were defined by the scene file.
	Triangles []bvh.Triangle

	MeshList []Mesh
}

// Get a BVH view over the scene node and index lists. Mesh subtrees should be
// traversed with bvh.TraverseFrom using the mesh BvhRoot.
func (sc *Scene) BVH() *bvh.BVH {
	return &bvh.BVH{
		Nodes:            sc.BvhNodeList,
		PrimitiveIndices: sc.PrimitiveIndices,
	}
}

// Get the scene bounding box.
func (sc *Scene) BBox() bvh.AABB {
	box := bvh.EmptyAABB()
	for _, mesh := range sc.MeshList {
		box.Extend(sc.BvhNodeList[mesh.BvhRoot].AABB)
	}
	return box
}

// Find the closest triangle hit by the ray across all scene meshes. The
// returned hit primitive index addresses the Triangles list and meshIndex
// is -1 if nothing was hit.
func (sc *Scene) Intersect(ray *bvh.Ray) (hit bvh.Hit, meshIndex int) {
	tree := sc.BVH()
	hit.PrimitiveIndex = bvh.NoHit
	meshIndex = -1
	for index, mesh := range sc.MeshList {
		meshHit := bvh.TraverseFrom(tree, mesh.BvhRoot, ray, sc.Triangles)
		hit.NodesVisited += meshHit.NodesVisited
		hit.PrimitivesTested += meshHit.PrimitivesTested

		// Since the ray interval shrinks on every hit, any hit in a later
		// mesh is closer than the ones found so far.
		if meshHit.IsHit() {
			hit.PrimitiveIndex = meshHit.PrimitiveIndex
			meshIndex = index
		}
	}
	return hit, meshIndex
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count", "Size"})
	table.Append([]string{"Geometry", "---", "", fmtSize(sc.Triangles, sc.MeshList)})
	table.Append([]string{"", "Triangles", fmt.Sprintf("%d", len(sc.Triangles)), fmtSize(sc.Triangles)})
	table.Append([]string{"", "Meshes", fmt.Sprintf("%d", len(sc.MeshList)), fmtSize(sc.MeshList)})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"BVH", "---", "", fmtSize(sc.BvhNodeList, sc.PrimitiveIndices)})
	table.Append([]string{"", "Nodes", fmt.Sprintf("%d", len(sc.BvhNodeList)), fmtSize(sc.BvhNodeList)})
	table.Append([]string{"", "Primitive indices", fmt.Sprintf("%d", len(sc.PrimitiveIndices)), fmtSize(sc.PrimitiveIndices)})
	table.SetFooter([]string{"Total", " ", " ", strings.TrimLeft(fmtSize(sc.Triangles, sc.MeshList, sc.BvhNodeList, sc.PrimitiveIndices), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
