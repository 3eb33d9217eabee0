package writer

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/polaris-bvh/asset/compiler"
	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/achilleasa/polaris-bvh/asset/compiler/input"
	"github.com/achilleasa/polaris-bvh/asset/scene"
	"github.com/achilleasa/polaris-bvh/asset/scene/reader"
	"github.com/achilleasa/polaris-bvh/types"
	"github.com/google/go-cmp/cmp"
)

func compiledScene(t *testing.T) *scene.Scene {
	raw := input.NewScene()
	for meshIndex := 0; meshIndex < 3; meshIndex++ {
		mesh := input.NewMesh("mesh")
		for i := 0; i < 10*(meshIndex+1); i++ {
			x, z := float32(i), float32(meshIndex*3)
			mesh.Append(input.NewPrimitive(
				types.XYZ(x, 0, z),
				types.XYZ(x+0.5, 0, z),
				types.XYZ(x, 0.5, z+1),
			))
		}
		raw.Meshes = append(raw.Meshes, mesh)
	}

	sc, err := compiler.Compile(raw)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func TestZipRoundTrip(t *testing.T) {
	sc := compiledScene(t)
	sceneFile := filepath.Join(t.TempDir(), "scene.zip")

	if err := WriteScene(sc, sceneFile); err != nil {
		t.Fatal(err)
	}

	loaded, err := reader.ReadScene(sceneFile)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(sc, loaded); diff != "" {
		t.Fatalf("loaded scene does not match written scene (-want +got):\n%s", diff)
	}
}

func TestZipEntryLayout(t *testing.T) {
	sc := compiledScene(t)

	var buf bytes.Buffer
	if err := writeArchive(&buf, sc); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}

	expSizes := map[string]uint64{
		scene.NodesFile:     uint64(len(sc.BvhNodeList) * bvh.NodeSize),
		scene.IndicesFile:   uint64(len(sc.PrimitiveIndices) * scene.IndexSize),
		scene.TrianglesFile: uint64(len(sc.Triangles) * scene.TriangleSize),
		scene.MeshesFile:    uint64(len(sc.MeshList) * scene.MeshSize),
	}
	if len(zr.File) != len(expSizes) {
		t.Fatalf("expected %d archive entries; got %d", len(expSizes), len(zr.File))
	}
	for _, f := range zr.File {
		if f.UncompressedSize64 != expSizes[f.Name] {
			t.Errorf("expected %s to be %d bytes; got %d", f.Name, expSizes[f.Name], f.UncompressedSize64)
		}
	}

	// The mesh table is a flat list of (root, first triangle, count) triplets.
	rc, err := zr.Open(scene.MeshesFile)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	meshes, err := scene.ReadMeshes(rc, len(sc.MeshList))
	if err != nil {
		t.Fatal(err)
	}
	if meshes[2].FirstPrimitive != 30 || meshes[2].PrimitiveCount != 30 {
		t.Fatalf("unexpected mesh entry: %+v", meshes[2])
	}
}

func TestZipReaderRejectsBrokenArchives(t *testing.T) {
	dir := t.TempDir()

	// Missing entries.
	missingFile := filepath.Join(dir, "missing.zip")
	writeRawZip(t, missingFile, map[string][]byte{scene.NodesFile: make([]byte, bvh.NodeSize)})
	if _, err := reader.ReadScene(missingFile); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected a missing entry error; got %v", err)
	}

	// Truncated records.
	truncFile := filepath.Join(dir, "trunc.zip")
	writeRawZip(t, truncFile, map[string][]byte{scene.IndicesFile: make([]byte, 7)})
	if _, err := reader.ReadScene(truncFile); err == nil || !strings.Contains(err.Error(), "not a multiple") {
		t.Fatalf("expected a record size error; got %v", err)
	}

	// Mesh referencing a node that does not exist.
	sc := compiledScene(t)
	sc.MeshList[0].BvhRoot = uint32(len(sc.BvhNodeList))
	badFile := filepath.Join(dir, "bad.zip")
	if err := WriteScene(sc, badFile); err != nil {
		t.Fatal(err)
	}
	if _, err := reader.ReadScene(badFile); err == nil || !strings.Contains(err.Error(), "BVH root out of range") {
		t.Fatalf("expected a validation error; got %v", err)
	}
}

func TestZipReaderRejectsNodeCycles(t *testing.T) {
	dir := t.TempDir()

	specs := []struct {
		name   string
		mutate func(sc *scene.Scene)
	}{
		{"self.zip", func(sc *scene.Scene) {
			root := sc.MeshList[0].BvhRoot
			sc.BvhNodeList[root].FirstIndex = root
		}},
		{"back.zip", func(sc *scene.Scene) {
			sc.BvhNodeList[sc.MeshList[1].BvhRoot].FirstIndex = 0
		}},
	}

	for specIndex, spec := range specs {
		sc := compiledScene(t)
		if sc.BvhNodeList[sc.MeshList[1].BvhRoot].IsLeaf() {
			t.Fatal("expected mesh roots to be internal nodes")
		}
		spec.mutate(sc)

		sceneFile := filepath.Join(dir, spec.name)
		if err := WriteScene(sc, sceneFile); err != nil {
			t.Fatal(err)
		}
		_, err := reader.ReadScene(sceneFile)
		if err == nil || !strings.Contains(err.Error(), "references a child that does not follow it") {
			t.Errorf("[spec %d] expected a node ordering error; got %v", specIndex, err)
		}
	}
}

func TestZipReaderIgnoresDeclaredEntrySize(t *testing.T) {
	dir := t.TempDir()

	specs := []struct {
		declared uint64
		expErr   string
	}{
		// Far larger than anything the archive could inflate to.
		{32 << 36, "exceeds what the archive can hold"},
		// Plausible but not backed by any data.
		{4 * bvh.NodeSize, "failed to load"},
	}

	for specIndex, spec := range specs {
		sceneFile := filepath.Join(dir, "lying.zip")
		f, err := os.Create(sceneFile)
		if err != nil {
			t.Fatal(err)
		}
		zw := zip.NewWriter(f)
		if _, err = zw.CreateRaw(&zip.FileHeader{
			Name:               scene.NodesFile,
			Method:             zip.Store,
			UncompressedSize64: spec.declared,
		}); err != nil {
			t.Fatal(err)
		}
		if err = zw.Close(); err != nil {
			t.Fatal(err)
		}
		f.Close()

		_, err = reader.ReadScene(sceneFile)
		if err == nil || !strings.Contains(err.Error(), spec.expErr) {
			t.Errorf("[spec %d] expected error containing %q; got %v", specIndex, spec.expErr, err)
		}
	}
}

func writeRawZip(t *testing.T, file string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(file)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}
}
