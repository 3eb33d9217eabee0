package cmd

import (
	"context"
	"errors"
	"image/png"
	"os"
	"os/signal"
	"time"

	"github.com/achilleasa/polaris-bvh/asset/scene/reader"
	"github.com/achilleasa/polaris-bvh/renderer"
	"github.com/urfave/cli"
	"go.uber.org/multierr"
)

// Render a still frame of the scene and save it as a png image.
func RenderFrame(ctx *cli.Context) (err error) {
	setupLogging(ctx)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}

	// Abort rendering on ctrl+c
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame (mode: %s)", opts.FrameW, opts.FrameH, opts.Mode)
	frame, err := r.Render(renderCtx)
	if err != nil {
		return err
	}

	// Display stats
	logger.Noticef("frame statistics\n%s", r.Stats())

	// Export PNG
	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	start := time.Now()
	if err = png.Encode(f, frame); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Assemble render options from the defaults, an optional TOML config file and
// any explicitly set command line flags (in increasing order of precedence).
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	if cfgFile := ctx.String("config"); cfgFile != "" {
		var err error
		if opts, err = renderer.LoadOptions(cfgFile); err != nil {
			return opts, err
		}
	}

	if ctx.IsSet("width") {
		opts.FrameW = uint32(ctx.Int("width"))
	}
	if ctx.IsSet("height") {
		opts.FrameH = uint32(ctx.Int("height"))
	}
	if ctx.IsSet("mode") {
		opts.Mode = ctx.String("mode")
	}
	if ctx.IsSet("fov") {
		opts.FOV = float32(ctx.Float64("fov"))
	}
	if ctx.IsSet("block-height") {
		opts.BlockH = uint32(ctx.Int("block-height"))
	}
	if ctx.IsSet("workers") {
		opts.Workers = ctx.Int("workers")
	}

	return opts, nil
}
