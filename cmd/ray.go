package cmd

import (
	"fmt"
	"strconv"

	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/achilleasa/polaris-bvh/asset/scene/reader"
	"github.com/achilleasa/polaris-bvh/types"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Cast a single ray into the scene and report the closest hit.
func CastRay(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 7 {
		return errors.New("expected arguments: scene_file ox oy oz dx dy dz")
	}

	var coords [6]float32
	for index := range coords {
		arg := ctx.Args().Get(index + 1)
		val, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return errors.Wrapf(err, "could not parse ray coordinate %q", arg)
		}
		coords[index] = float32(val)
	}

	origin := types.XYZ(coords[0], coords[1], coords[2])
	dir := types.XYZ(coords[3], coords[4], coords[5])
	if dir.Len() == 0 {
		return errors.New("ray direction must not be the zero vector")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	ray := bvh.NewRay(origin, dir.Normalize())
	hit, meshIndex := sc.Intersect(&ray)

	out := ctx.App.Writer
	if !hit.IsHit() {
		fmt.Fprintf(out, "miss (nodes visited: %d, primitives tested: %d)\n", hit.NodesVisited, hit.PrimitivesTested)
		return nil
	}

	tri := sc.Triangles[hit.PrimitiveIndex]
	fmt.Fprintf(out, "hit mesh %d, triangle %d\n", meshIndex, hit.PrimitiveIndex)
	fmt.Fprintf(out, "  distance : %f\n", ray.TMax)
	fmt.Fprintf(out, "  point    : %v\n", ray.At(ray.TMax))
	fmt.Fprintf(out, "  normal   : %v\n", tri.Normal().Normalize())
	fmt.Fprintf(out, "  nodes visited: %d, primitives tested: %d\n", hit.NodesVisited, hit.PrimitivesTested)
	return nil
}
