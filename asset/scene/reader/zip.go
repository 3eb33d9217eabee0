package reader

import (
	"archive/zip"
	"bytes"
	"io"
	"time"

	"github.com/achilleasa/polaris-bvh/asset"
	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/achilleasa/polaris-bvh/asset/scene"
	"github.com/achilleasa/polaris-bvh/log"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Upper bound of the deflate compression ratio.
const maxInflateRatio = 1032

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read compiled scene buffers from a zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	p.logger.Noticef(`parsing compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, errors.Wrapf(err, "zip reader: could not read %s", sceneRes.Path())
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, "zip reader: could not open %s", sceneRes.Path())
	}

	sc := &scene.Scene{}
	seen := make(map[string]bool)
	for _, f := range zr.File {
		var recordSize uint64
		switch f.Name {
		case scene.NodesFile:
			recordSize = bvh.NodeSize
		case scene.IndicesFile:
			recordSize = scene.IndexSize
		case scene.TrianglesFile:
			recordSize = scene.TriangleSize
		case scene.MeshesFile:
			recordSize = scene.MeshSize
		default:
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		// The declared entry size cannot be trusted; reject sizes that no
		// deflate stream of this archive could expand to before reading.
		if f.UncompressedSize64 > maxInflateRatio*uint64(len(data)) {
			return nil, errors.Errorf("zip reader: %s declares %d bytes which exceeds what the archive can hold", f.Name, f.UncompressedSize64)
		}

		buf, err := p.readEntry(f)
		if err != nil {
			return nil, errors.Wrapf(err, "zip reader: failed to load %s", f.Name)
		}
		if uint64(len(buf))%recordSize != 0 {
			return nil, errors.Errorf("zip reader: %s size %d is not a multiple of the record size %d", f.Name, len(buf), recordSize)
		}
		if err = decodeEntry(f.Name, buf, int(uint64(len(buf))/recordSize), sc); err != nil {
			return nil, errors.Wrapf(err, "zip reader: failed to decode %s", f.Name)
		}
		seen[f.Name] = true
	}

	for _, required := range []string{scene.NodesFile, scene.IndicesFile, scene.TrianglesFile, scene.MeshesFile} {
		if !seen[required] {
			return nil, errors.Errorf("zip reader: missing %s from %s", required, sceneRes.Path())
		}
	}

	if err = sc.Validate(); err != nil {
		return nil, errors.Wrapf(err, "zip reader: invalid scene in %s", sceneRes.Path())
	}

	p.logger.Noticef("loaded scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

// Read the uncompressed contents of an archive entry.
func (p *zipSceneReader) readEntry(f *zip.File) (buf []byte, err error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, rc.Close())
	}()

	return io.ReadAll(rc)
}

// Decode count records from an entry into the matching scene buffer.
func decodeEntry(name string, buf []byte, count int, sc *scene.Scene) (err error) {
	r := bytes.NewReader(buf)
	switch name {
	case scene.NodesFile:
		sc.BvhNodeList, err = bvh.ReadNodes(r, count)
	case scene.IndicesFile:
		sc.PrimitiveIndices, err = bvh.ReadIndices(r, count)
	case scene.TrianglesFile:
		sc.Triangles, err = bvh.ReadTriangles(r, count)
	case scene.MeshesFile:
		sc.MeshList, err = scene.ReadMeshes(r, count)
	}
	return err
}
