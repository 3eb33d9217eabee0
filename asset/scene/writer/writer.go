package writer

import "github.com/achilleasa/polaris-bvh/asset/scene"

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write scene definition
	Write(*scene.Scene) error
}

// Write compiled scene to a zip archive.
func WriteScene(sc *scene.Scene, filename string) error {
	return newZipSceneWriter(filename).Write(sc)
}
