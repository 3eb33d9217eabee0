package bvh

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/polaris-bvh/types"
	"github.com/google/go-cmp/cmp"
)

func TestNodeLayout(t *testing.T) {
	if size := binary.Size(Node{}); size != NodeSize {
		t.Fatalf("expected encoded node size to be %d; got %d", NodeSize, size)
	}

	node := Node{
		AABB:           AABB{Min: types.XYZ(1, 2, 3), Max: types.XYZ(4, 5, 6)},
		PrimitiveCount: 7,
		FirstIndex:     8,
	}

	var buf bytes.Buffer
	if err := WriteNodes(&buf, []Node{node}); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	if len(data) != NodeSize {
		t.Fatalf("expected %d bytes; got %d", NodeSize, len(data))
	}

	for i, exp := range []float32{1, 2, 3, 4, 5, 6} {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])); got != exp {
			t.Fatalf("expected float at offset %d to be %f; got %f", i*4, exp, got)
		}
	}
	if got := binary.LittleEndian.Uint32(data[24:]); got != 7 {
		t.Fatalf("expected primitive count at offset 24 to be 7; got %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[28:]); got != 8 {
		t.Fatalf("expected first index at offset 28 to be 8; got %d", got)
	}
}

func TestBufferRoundTrip(t *testing.T) {
	tris := randomTriangles(rand.New(rand.NewSource(17)), 100, types.Vec3{}, 10, 1)
	tree := buildFromTriangles(t, tris)

	var buf bytes.Buffer
	if err := WriteNodes(&buf, tree.Nodes); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != NodeSize*len(tree.Nodes) {
		t.Fatalf("expected %d bytes; got %d", NodeSize*len(tree.Nodes), buf.Len())
	}
	if err := WriteIndices(&buf, tree.PrimitiveIndices); err != nil {
		t.Fatal(err)
	}
	if err := WriteTriangles(&buf, tris); err != nil {
		t.Fatal(err)
	}

	nodes, err := ReadNodes(&buf, len(tree.Nodes))
	if err != nil {
		t.Fatal(err)
	}
	indices, err := ReadIndices(&buf, len(tree.PrimitiveIndices))
	if err != nil {
		t.Fatal(err)
	}
	decodedTris, err := ReadTriangles(&buf, len(tris))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(tree.Nodes, nodes); diff != "" {
		t.Fatalf("node mismatch (-exp +got):\n%s", diff)
	}
	if diff := cmp.Diff(tree.PrimitiveIndices, indices); diff != "" {
		t.Fatalf("index mismatch (-exp +got):\n%s", diff)
	}
	if diff := cmp.Diff(tris, decodedTris); diff != "" {
		t.Fatalf("triangle mismatch (-exp +got):\n%s", diff)
	}

	if _, err = ReadNodes(&buf, 1); err == nil {
		t.Fatal("expected reading past the end of the buffer to fail")
	}
}

func TestMerge(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	trisA := randomTriangles(rng, 40, types.XYZ(-20, 0, 0), 5, 1)
	trisB := randomTriangles(rng, 60, types.XYZ(20, 0, 0), 5, 1)
	treeA := buildFromTriangles(t, trisA)
	treeB := buildFromTriangles(t, trisB)

	merged, roots := Merge([]*BVH{treeA, treeB}, []uint32{0, uint32(len(trisA))})
	if len(merged.Nodes) != len(treeA.Nodes)+len(treeB.Nodes) {
		t.Fatalf("expected merged tree to contain %d nodes; got %d", len(treeA.Nodes)+len(treeB.Nodes), len(merged.Nodes))
	}
	if roots[0] != 0 || roots[1] != uint32(len(treeA.Nodes)) {
		t.Fatalf("expected roots to be [0 %d]; got %v", len(treeA.Nodes), roots)
	}
	if treeB.Depth(0) != merged.Depth(roots[1]) {
		t.Fatalf("expected merged subtree depth to be %d; got %d", treeB.Depth(0), merged.Depth(roots[1]))
	}

	allTris := append(append([]Triangle{}, trisA...), trisB...)
	for rayIndex, ray := range randomRays(rng, 200, trisB) {
		expRay := ray
		exp := Traverse(treeB, &expRay, trisB)

		got := TraverseFrom(merged, roots[1], &ray, allTris)
		expIndex := exp.PrimitiveIndex
		if exp.IsHit() {
			expIndex += uint32(len(trisA))
		}
		if got.PrimitiveIndex != expIndex || ray.TMax != expRay.TMax {
			t.Fatalf("[ray %d] expected merged traversal to hit %d (t=%f); got %d (t=%f)", rayIndex, expIndex, expRay.TMax, got.PrimitiveIndex, ray.TMax)
		}
	}
}
