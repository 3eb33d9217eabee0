package renderer

import "errors"

var (
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrInvalidFrameDims = errors.New("renderer: frame width and height must be positive")
	ErrUnknownMode      = errors.New("renderer: unknown shading mode")
	ErrInvalidFOV       = errors.New("renderer: fov must be in the (0, 180) range")
	ErrInterrupted      = errors.New("renderer: interrupted while rendering")
)
