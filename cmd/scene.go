package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/achilleasa/polaris-bvh/asset/scene/reader"
	"github.com/achilleasa/polaris-bvh/asset/scene/writer"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

// Compile one or more wavefront scenes to binary format. Each scene is
// compiled in parallel and written next to its source with a .zip extension.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing scene file argument")
	}

	jobs := ctx.Int("jobs")
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var group errgroup.Group
	group.SetLimit(jobs)
	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.EqualFold(filepath.Ext(sceneFile), ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		group.Go(func() error {
			return compileSceneFile(sceneFile)
		})
	}

	return group.Wait()
}

func compileSceneFile(sceneFile string) error {
	logger.Noticef("parsing and compiling scene: %s", sceneFile)
	sc, err := reader.ReadScene(sceneFile)
	if err != nil {
		return err
	}

	// Display compiled scene info
	logger.Noticef("scene information (%s):\n%s", sceneFile, sc.Stats())

	zipFile := strings.TrimSuffix(sceneFile, filepath.Ext(sceneFile)) + ".zip"
	return writer.WriteScene(sc, zipFile)
}

// Display scene info together with per-mesh BVH statistics. Wavefront scenes
// are compiled before their stats are displayed.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	// Display compiled scene info
	logger.Noticef("scene information:\n%s", sc.Stats())

	tree := sc.BVH()
	for meshIndex, mesh := range sc.MeshList {
		stats := tree.Stats(mesh.BvhRoot)
		fmt.Fprintf(
			ctx.App.Writer,
			"mesh %d (%d triangles, BVH root %d)\n%s\n",
			meshIndex, mesh.PrimitiveCount, mesh.BvhRoot, stats,
		)
	}

	return nil
}
