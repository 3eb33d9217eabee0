package scene

import (
	"strings"
	"testing"

	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/achilleasa/polaris-bvh/types"
)

// Assemble a two-mesh scene by hand: a single triangle at z=2 and a pair of
// triangles at z=4.
func twoMeshScene(t *testing.T) *Scene {
	triangles := []bvh.Triangle{
		{P0: types.XYZ(0, 0, 2), P1: types.XYZ(1, 0, 2), P2: types.XYZ(0, 1, 2)},
		{P0: types.XYZ(0, 0, 4), P1: types.XYZ(1, 0, 4), P2: types.XYZ(0, 1, 4)},
		{P0: types.XYZ(5, 5, 4), P1: types.XYZ(6, 5, 4), P2: types.XYZ(5, 6, 4)},
	}

	meshRanges := [][2]int{{0, 1}, {1, 3}}
	trees := make([]*bvh.BVH, len(meshRanges))
	offsets := make([]uint32, len(meshRanges))
	for index, r := range meshRanges {
		var aabbs []bvh.AABB
		var centers []types.Vec3
		for _, tri := range triangles[r[0]:r[1]] {
			aabbs = append(aabbs, tri.BBox())
			centers = append(centers, tri.Center())
		}
		tree, err := bvh.Build(aabbs, centers)
		if err != nil {
			t.Fatal(err)
		}
		trees[index] = tree
		offsets[index] = uint32(r[0])
	}

	merged, roots := bvh.Merge(trees, offsets)
	sc := &Scene{
		BvhNodeList:      merged.Nodes,
		PrimitiveIndices: merged.PrimitiveIndices,
		Triangles:        triangles,
	}
	for index, r := range meshRanges {
		sc.MeshList = append(sc.MeshList, Mesh{
			BvhRoot:        roots[index],
			FirstPrimitive: uint32(r[0]),
			PrimitiveCount: uint32(r[1] - r[0]),
		})
	}
	return sc
}

func TestSceneIntersect(t *testing.T) {
	sc := twoMeshScene(t)

	specs := []struct {
		origin    types.Vec3
		dir       types.Vec3
		expPrim   uint32
		expMesh   int
		expHitDst float32
	}{
		{types.XYZ(0.2, 0.2, 0), types.XYZ(0, 0, 1), 0, 0, 2},
		{types.XYZ(0.2, 0.2, 10), types.XYZ(0, 0, -1), 1, 1, 6},
		{types.XYZ(5.2, 5.2, 0), types.XYZ(0, 0, 1), 2, 1, 4},
		{types.XYZ(3, 3, 0), types.XYZ(0, 0, 1), bvh.NoHit, -1, 0},
	}

	for specIndex, spec := range specs {
		ray := bvh.NewRay(spec.origin, spec.dir)
		hit, meshIndex := sc.Intersect(&ray)
		if hit.PrimitiveIndex != spec.expPrim || meshIndex != spec.expMesh {
			t.Errorf("[spec %d] expected primitive %d of mesh %d; got primitive %d of mesh %d", specIndex, spec.expPrim, spec.expMesh, hit.PrimitiveIndex, meshIndex)
			continue
		}
		if hit.IsHit() && ray.TMax != spec.expHitDst {
			t.Errorf("[spec %d] expected hit distance %f; got %f", specIndex, spec.expHitDst, ray.TMax)
		}
		if hit.NodesVisited < uint32(len(sc.MeshList)) {
			t.Errorf("[spec %d] expected every mesh root to be visited; got %d visits", specIndex, hit.NodesVisited)
		}
	}
}

func TestSceneBBox(t *testing.T) {
	sc := twoMeshScene(t)
	box := sc.BBox()

	expMin, expMax := types.XYZ(0, 0, 2), types.XYZ(6, 6, 4)
	if box.Min != expMin || box.Max != expMax {
		t.Fatalf("expected scene bbox [%v, %v]; got [%v, %v]", expMin, expMax, box.Min, box.Max)
	}

	empty := &Scene{}
	if !empty.BBox().IsEmpty() {
		t.Fatal("expected a scene without meshes to have an empty bbox")
	}
}

func TestSceneStats(t *testing.T) {
	sc := twoMeshScene(t)
	out := sc.Stats()

	for _, exp := range []string{"Triangles", "Meshes", "Nodes", "Primitive indices", "Total"} {
		if !strings.Contains(out, exp) {
			t.Errorf("expected stats table to contain %q; got:\n%s", exp, out)
		}
	}
}

func TestFmtSize(t *testing.T) {
	specs := []struct {
		items []interface{}
		exp   string
	}{
		{[]interface{}{[]uint32{}}, "  0 bytes"},
		{[]interface{}{make([]uint32, 10)}, " 40 bytes"},
		{[]interface{}{make([]bvh.Node, 100)}, "3.2 kb"},
		{[]interface{}{make([]byte, 1500000), make([]byte, 500000)}, "  2.0 mb"},
	}

	for specIndex, spec := range specs {
		if got := fmtSize(spec.items...); got != spec.exp {
			t.Errorf("[spec %d] expected %q; got %q", specIndex, spec.exp, got)
		}
	}
}
