package writer

import (
	"archive/zip"
	"io"
	"os"
	"time"

	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/achilleasa/polaris-bvh/asset/scene"
	"github.com/achilleasa/polaris-bvh/log"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type zipSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new zip scene writer
func newZipSceneWriter(sceneFile string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:    log.New("zip writer"),
		sceneFile: sceneFile,
	}
}

// Write scene buffers to zip file.
func (w *zipSceneWriter) Write(sc *scene.Scene) (err error) {
	w.logger.Noticef("writing compressed scene to %s", w.sceneFile)
	start := time.Now()

	zipFile, err := os.Create(w.sceneFile)
	if err != nil {
		return errors.Wrap(err, "zip writer")
	}
	defer func() {
		err = multierr.Append(err, zipFile.Close())
	}()

	if err = writeArchive(zipFile, sc); err != nil {
		return err
	}

	w.logger.Noticef("compressed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Encode each scene buffer into its own archive entry.
func writeArchive(out io.Writer, sc *scene.Scene) (err error) {
	zw := zip.NewWriter(out)
	defer func() {
		err = multierr.Append(err, zw.Close())
	}()

	entries := []struct {
		name   string
		encode func(io.Writer) error
	}{
		{scene.NodesFile, func(cw io.Writer) error { return bvh.WriteNodes(cw, sc.BvhNodeList) }},
		{scene.IndicesFile, func(cw io.Writer) error { return bvh.WriteIndices(cw, sc.PrimitiveIndices) }},
		{scene.TrianglesFile, func(cw io.Writer) error { return bvh.WriteTriangles(cw, sc.Triangles) }},
		{scene.MeshesFile, func(cw io.Writer) error { return scene.WriteMeshes(cw, sc.MeshList) }},
	}

	for _, entry := range entries {
		cw, err := zw.Create(entry.name)
		if err != nil {
			return errors.Wrapf(err, "zip writer: could not create %s", entry.name)
		}
		if err = entry.encode(cw); err != nil {
			return errors.Wrapf(err, "zip writer: could not encode %s", entry.name)
		}
	}

	return nil
}
