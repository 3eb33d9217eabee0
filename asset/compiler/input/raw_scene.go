package input

import (
	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/achilleasa/polaris-bvh/types"
)

// A triangle primitive as parsed by a scene reader.
type Primitive struct {
	Vertices [3]types.Vec3

	bbox   bvh.AABB
	center types.Vec3
}

// Create a primitive and precompute its AABB and centroid.
func NewPrimitive(v0, v1, v2 types.Vec3) *Primitive {
	prim := &Primitive{Vertices: [3]types.Vec3{v0, v1, v2}}
	tri := prim.Triangle()
	prim.bbox = tri.BBox()
	prim.center = tri.Center()
	return prim
}

// Get the primitive AABB.
func (prim *Primitive) BBox() bvh.AABB {
	return prim.bbox
}

// Get primitive centroid.
func (prim *Primitive) Center() types.Vec3 {
	return prim.center
}

// Convert to the triangle type used for ray intersection tests.
func (prim *Primitive) Triangle() bvh.Triangle {
	return bvh.Triangle{P0: prim.Vertices[0], P1: prim.Vertices[1], P2: prim.Vertices[2]}
}

// A mesh is constructed by a list of primitives.
type Mesh struct {
	Name       string
	Primitives []*Primitive

	bbox            bvh.AABB
	bboxNeedsUpdate bool
}

// Create a new named mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:       name,
		Primitives: make([]*Primitive, 0),
		bbox:       bvh.EmptyAABB(),
	}
}

// Append primitives to the mesh.
func (m *Mesh) Append(prims ...*Primitive) {
	m.Primitives = append(m.Primitives, prims...)
	m.bboxNeedsUpdate = true
}

// Get mesh bounding box.
func (m *Mesh) BBox() bvh.AABB {
	if m.bboxNeedsUpdate {
		m.bbox = bvh.EmptyAABB()
		for _, prim := range m.Primitives {
			m.bbox.Extend(prim.BBox())
		}
		m.bboxNeedsUpdate = false
	}

	return m.bbox
}

// The raw scene is a list of meshes as parsed by a scene reader.
type Scene struct {
	Meshes []*Mesh
}

// Create an empty raw scene.
func NewScene() *Scene {
	return &Scene{
		Meshes: make([]*Mesh, 0),
	}
}

// Get the total number of primitives across all meshes.
func (sc *Scene) PrimitiveCount() int {
	total := 0
	for _, mesh := range sc.Meshes {
		total += len(mesh.Primitives)
	}
	return total
}
