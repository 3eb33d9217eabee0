package compiler

import (
	"time"

	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/achilleasa/polaris-bvh/asset/compiler/input"
	"github.com/achilleasa/polaris-bvh/asset/scene"
	"github.com/achilleasa/polaris-bvh/log"
	"github.com/achilleasa/polaris-bvh/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyScene = errors.New("compiler: scene does not contain any geometry")
)

type sceneCompiler struct {
	parsedScene    *input.Scene
	optimizedScene *scene.Scene
	logger         log.Logger
}

// Compile a scene representation parsed by a scene reader into a GPU-friendly
// optimized scene format. Each non-empty mesh gets its own BVH tree; the trees
// are then merged into a single node list with one root per mesh.
func Compile(parsedScene *input.Scene) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		parsedScene:    parsedScene,
		optimizedScene: &scene.Scene{},
		logger:         log.New("scene compiler"),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene")

	err := compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.optimizedScene, nil
}

// Build a BVH tree for each scene mesh and merge them into the optimized scene.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()
	sc.logger.Notice("partitioning geometry")

	meshes := make([]*input.Mesh, 0, len(sc.parsedScene.Meshes))
	for _, pm := range sc.parsedScene.Meshes {
		if len(pm.Primitives) == 0 {
			sc.logger.Warningf(`skipping mesh "%s" as it does not contain any primitives`, pm.Name)
			continue
		}
		meshes = append(meshes, pm)
	}
	if len(meshes) == 0 {
		return ErrEmptyScene
	}

	// Copy triangles to a flat list; each mesh occupies a contiguous range.
	totalPrimitives := 0
	for _, pm := range meshes {
		totalPrimitives += len(pm.Primitives)
	}
	sc.optimizedScene.Triangles = make([]bvh.Triangle, 0, totalPrimitives)
	sc.optimizedScene.MeshList = make([]scene.Mesh, len(meshes))
	primOffsets := make([]uint32, len(meshes))
	for mIndex, pm := range meshes {
		primOffsets[mIndex] = uint32(len(sc.optimizedScene.Triangles))
		sc.optimizedScene.MeshList[mIndex] = scene.Mesh{
			FirstPrimitive: primOffsets[mIndex],
			PrimitiveCount: uint32(len(pm.Primitives)),
		}
		for _, prim := range pm.Primitives {
			sc.optimizedScene.Triangles = append(sc.optimizedScene.Triangles, prim.Triangle())
		}
	}

	// Mesh trees are independent so they can be built in parallel.
	trees := make([]*bvh.BVH, len(meshes))
	var group errgroup.Group
	for mIndex, pm := range meshes {
		group.Go(func() error {
			sc.logger.Infof(`building BVH tree for "%s" (%d primitives)`, pm.Name, len(pm.Primitives))
			aabbs := make([]bvh.AABB, len(pm.Primitives))
			centers := make([]types.Vec3, len(pm.Primitives))
			for index, prim := range pm.Primitives {
				aabbs[index] = prim.BBox()
				centers[index] = prim.Center()
			}

			tree, err := bvh.Build(aabbs, centers)
			if err != nil {
				return errors.Wrapf(err, `compiler: could not build BVH for mesh "%s"`, pm.Name)
			}
			trees[mIndex] = tree
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	merged, roots := bvh.Merge(trees, primOffsets)
	sc.optimizedScene.BvhNodeList = merged.Nodes
	sc.optimizedScene.PrimitiveIndices = merged.PrimitiveIndices
	for mIndex, root := range roots {
		sc.optimizedScene.MeshList[mIndex].BvhRoot = root
	}

	sc.logger.Noticef(
		"partitioned geometry in %d ms (%d meshes, %d primitives, %d BVH nodes)",
		time.Since(start).Nanoseconds()/1e6,
		len(meshes),
		totalPrimitives,
		len(merged.Nodes),
	)
	return nil
}
