package cmd

import (
	"runtime"

	"github.com/achilleasa/polaris-bvh/renderer"
	"github.com/urfave/cli"
)

// Create the command line application.
func NewApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	defaults := renderer.DefaultOptions()

	app := cli.NewApp()
	app.Name = "polaris-bvh"
	app.Usage = "build, inspect and ray cast bounding volume hierarchies for triangle scenes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse a scene definition from a wavefront obj file, build a BVH tree for each
mesh to optimize ray intersection tests and package the node, index and
triangle buffers in their GPU layout.

The optimized scene data is then written to a zip archive which can be supplied
as an argument to the stats, render and ray commands.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "jobs, j",
					Value: runtime.NumCPU(),
					Usage: "max number of scenes to compile in parallel",
				},
			},
			Action: CompileScene,
		},
		{
			Name:      "stats",
			Usage:     "display scene and BVH statistics",
			ArgsUsage: "scene_file.(obj|zip)",
			Action:    ShowSceneInfo,
		},
		{
			Name:  "render",
			Usage: "render a single frame using a CPU ray caster",
			Description: `
Cast a primary ray for each frame pixel and shade it using the hit distance
(depth), the geometric normal of the hit triangle (normal) or the number of
BVH nodes visited by the ray (cost).

Options may be loaded from a TOML file; flags override file values.`,
			ArgsUsage: "scene_file.(obj|zip)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "load render options from a TOML file",
				},
				cli.IntFlag{
					Name:  "width",
					Value: int(defaults.FrameW),
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: int(defaults.FrameH),
					Usage: "frame height",
				},
				cli.StringFlag{
					Name:  "mode, m",
					Value: defaults.Mode,
					Usage: "shading mode (depth, normal, cost)",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: float64(defaults.FOV),
					Usage: "vertical camera field of view in degrees",
				},
				cli.IntFlag{
					Name:  "block-height",
					Value: int(defaults.BlockH),
					Usage: "number of frame rows assigned to each render worker task",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: defaults.Workers,
					Usage: "max number of blocks rendered in parallel",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: RenderFrame,
		},
		{
			Name:      "ray",
			Usage:     "cast a single ray and report the closest hit",
			ArgsUsage: "scene_file.(obj|zip) ox oy oz dx dy dz",
			// Negative coordinates must not be treated as flags.
			SkipArgReorder: true,
			Action:         CastRay,
		},
	}

	return app
}
