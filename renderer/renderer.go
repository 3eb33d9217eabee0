package renderer

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/achilleasa/polaris-bvh/asset/scene"
	"github.com/achilleasa/polaris-bvh/log"
	"github.com/achilleasa/polaris-bvh/types"
	"github.com/chewxy/math32"
	"golang.org/x/sync/errgroup"
)

type Renderer interface {
	// Render frame.
	Render(ctx context.Context) (*image.RGBA, error)

	// Get the camera used for generating primary rays.
	Camera() *Camera

	// Get render statistics for the last rendered frame.
	Stats() FrameStats
}

// A renderer that casts one primary ray per pixel against the scene BVH and
// shades pixels using the hit distance, the hit normal or the traversal cost.
type cpuRenderer struct {
	logger log.Logger

	scene   *scene.Scene
	camera  *Camera
	options Options

	// Per-pixel shading inputs. Depth and cost values are normalized
	// against the frame range once all blocks complete.
	samples []sample

	stats FrameStats
}

type sample struct {
	hit    bool
	depth  float32
	cost   float32
	normal types.Vec3
}

// Create a new CPU renderer for the given scene.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	camera := NewCamera(opts.FOV)
	eye, look := types.Vec3(opts.Eye), types.Vec3(opts.LookAt)
	if eye == look {
		camera.Frame(sc.BBox())
	} else {
		camera.Position = eye
		camera.LookAt = look
		camera.Up = types.Vec3(opts.Up)
	}
	camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	r := &cpuRenderer{
		logger:  log.New("renderer"),
		scene:   sc,
		camera:  camera,
		options: opts,
		samples: make([]sample, opts.FrameW*opts.FrameH),
	}
	r.logger.Debugf("camera at %v looking at %v\n%s", camera.Position, camera.LookAt, camera.Frustrum)
	return r, nil
}

func (r *cpuRenderer) Camera() *Camera {
	return r.camera
}

func (r *cpuRenderer) Stats() FrameStats {
	return r.stats
}

// Render frame. The frame is split into blocks of rows which are traced in
// parallel; all workers share the same read-only scene BVH.
func (r *cpuRenderer) Render(ctx context.Context) (*image.RGBA, error) {
	start := time.Now()
	frameW, frameH, blockH := r.options.FrameW, r.options.FrameH, r.options.BlockH

	blockCount := (frameH + blockH - 1) / blockH
	r.stats = FrameStats{Blocks: make([]BlockStat, blockCount)}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.options.Workers)
	for blockIndex := uint32(0); blockIndex < blockCount; blockIndex++ {
		blockY := blockIndex * blockH
		rows := min(blockH, frameH-blockY)
		group.Go(func() error {
			stat, err := r.renderBlock(ctx, blockY, rows)
			r.stats.Blocks[blockIndex] = stat
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	frame := r.shade()
	r.stats.RenderTime = time.Since(start)
	r.logger.Infof("rendered %dx%d frame in %d ms", frameW, frameH, r.stats.RenderTime.Nanoseconds()/1e6)
	return frame, nil
}

// Trace a block of rows.
func (r *cpuRenderer) renderBlock(ctx context.Context, blockY, rows uint32) (BlockStat, error) {
	start := time.Now()
	stat := BlockStat{BlockY: blockY, BlockH: rows}
	frameW, frameH := r.options.FrameW, r.options.FrameH

	for y := blockY; y < blockY+rows; y++ {
		if ctx.Err() != nil {
			return stat, ErrInterrupted
		}

		v := (float32(y) + 0.5) / float32(frameH)
		for x := uint32(0); x < frameW; x++ {
			u := (float32(x) + 0.5) / float32(frameW)
			ray := r.camera.Ray(u, v)
			hit, _ := r.scene.Intersect(&ray)

			s := &r.samples[y*frameW+x]
			*s = sample{cost: float32(hit.NodesVisited)}
			stat.Rays++
			stat.NodesVisited += uint64(hit.NodesVisited)
			stat.PrimitivesTested += uint64(hit.PrimitivesTested)
			if hit.IsHit() {
				stat.Hits++
				s.hit = true
				s.depth = ray.TMax
				s.normal = r.scene.Triangles[hit.PrimitiveIndex].Normal().Normalize()
			}
		}
	}

	stat.RenderTime = time.Since(start)
	return stat, nil
}

// Convert traced samples into an image using the selected shading mode.
func (r *cpuRenderer) shade() *image.RGBA {
	frameW, frameH := int(r.options.FrameW), int(r.options.FrameH)
	frame := image.NewRGBA(image.Rect(0, 0, frameW, frameH))

	minDepth, maxDepth := math32.Inf(1), math32.Inf(-1)
	var maxCost float32
	for _, s := range r.samples {
		maxCost = max(maxCost, s.cost)
		if s.hit {
			minDepth = min(minDepth, s.depth)
			maxDepth = max(maxDepth, s.depth)
		}
	}

	for index, s := range r.samples {
		var c color.RGBA
		switch r.options.Mode {
		case ModeDepth:
			c = shadeDepth(s, minDepth, maxDepth)
		case ModeNormal:
			c = shadeNormal(s)
		case ModeCost:
			c = shadeCost(s, maxCost)
		}
		frame.SetRGBA(index%frameW, index/frameW, c)
	}

	return frame
}

// Closer hits are brighter; misses are black.
func shadeDepth(s sample, minDepth, maxDepth float32) color.RGBA {
	if !s.hit {
		return color.RGBA{A: 255}
	}
	intensity := float32(1)
	if maxDepth > minDepth {
		intensity = 1 - 0.8*(s.depth-minDepth)/(maxDepth-minDepth)
	}
	g := toByte(intensity)
	return color.RGBA{R: g, G: g, B: g, A: 255}
}

// Map normal components from [-1, 1] to [0, 255].
func shadeNormal(s sample) color.RGBA {
	if !s.hit {
		return color.RGBA{A: 255}
	}
	return color.RGBA{
		R: toByte(0.5*s.normal[0] + 0.5),
		G: toByte(0.5*s.normal[1] + 0.5),
		B: toByte(0.5*s.normal[2] + 0.5),
		A: 255,
	}
}

// Blue to red heatmap of visited nodes.
func shadeCost(s sample, maxCost float32) color.RGBA {
	if maxCost == 0 {
		return color.RGBA{B: 255, A: 255}
	}
	heat := s.cost / maxCost
	return color.RGBA{R: toByte(heat), B: toByte(1 - heat), A: 255}
}

func toByte(v float32) uint8 {
	return uint8(255*min(max(v, 0), 1) + 0.5)
}
