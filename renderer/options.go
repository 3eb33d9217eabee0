package renderer

import (
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Shading modes.
const (
	ModeDepth  = "depth"
	ModeNormal = "normal"
	ModeCost   = "cost"
)

type Options struct {
	// Frame dims.
	FrameW uint32 `toml:"width"`
	FrameH uint32 `toml:"height"`

	// Shading mode; one of depth, normal or cost.
	Mode string `toml:"mode"`

	// Rows per work block and the max number of blocks rendered in parallel.
	BlockH  uint32 `toml:"block_height"`
	Workers int    `toml:"workers"`

	// Camera setup. If Eye and LookAt are equal the camera is placed so
	// that it frames the scene bounding box.
	FOV    float32    `toml:"fov"`
	Eye    [3]float32 `toml:"eye"`
	LookAt [3]float32 `toml:"look_at"`
	Up     [3]float32 `toml:"up"`
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:  512,
		FrameH:  512,
		Mode:    ModeDepth,
		BlockH:  16,
		Workers: runtime.NumCPU(),
		FOV:     45,
		Up:      [3]float32{0, 1, 0},
	}
}

// Load render options from a TOML file. Settings missing from the file keep
// their default values.
func LoadOptions(filename string) (Options, error) {
	opts := DefaultOptions()
	meta, err := toml.DecodeFile(filename, &opts)
	if err != nil {
		return Options{}, errors.Wrapf(err, "renderer: could not load options from %s", filename)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for index, key := range undecoded {
			keys[index] = key.String()
		}
		return Options{}, errors.Errorf("renderer: unknown option keys in %s: [%s]", filename, strings.Join(keys, ", "))
	}

	return opts, nil
}

// Check that options are usable.
func (opts *Options) Validate() error {
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return ErrInvalidFrameDims
	}
	switch opts.Mode {
	case ModeDepth, ModeNormal, ModeCost:
	default:
		return errors.Wrapf(ErrUnknownMode, "%q", opts.Mode)
	}
	if opts.FOV <= 0 || opts.FOV >= 180 {
		return ErrInvalidFOV
	}
	if opts.BlockH == 0 {
		opts.BlockH = opts.FrameH
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return nil
}
