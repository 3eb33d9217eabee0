package renderer

import (
	"fmt"

	"github.com/achilleasa/polaris-bvh/asset/compiler/bvh"
	"github.com/achilleasa/polaris-bvh/types"
	"github.com/chewxy/math32"
)

// Stores the ray directions at the four corners of the camera frustrum
// (top-left, top-right, bottom-left, bottom-right). Per pixel rays are
// generated by interpolating the corner rays.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// A pinhole camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Frustrum Frustrum

	// Vertical field of view in degrees.
	FOV float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// Place the camera in front of the bbox (looking down -Z) at a distance
// where the whole box fits inside the vertical field of view.
func (c *Camera) Frame(bbox bvh.AABB) {
	center := bbox.Center()
	diag := bbox.Diagonal()
	radius := 0.5 * diag.Len()
	if radius == 0 {
		radius = 1
	}

	dist := radius / math32.Tan(0.5*c.FOV*math32.Pi/180)
	c.LookAt = center
	c.Position = center.Add(types.Vec3{0, 0, dist + 0.5*diag[2]})
	c.Up = types.Vec3{0, 1, 0}
}

// Generate the corner rays for the given aspect ratio (width / height).
func (c *Camera) SetupProjection(aspect float32) {
	forward := c.LookAt.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	halfH := math32.Tan(0.5 * c.FOV * math32.Pi / 180)
	halfW := halfH * aspect
	right = right.Mul(halfW)
	up = up.Mul(halfH)

	c.Frustrum[0] = forward.Sub(right).Add(up)
	c.Frustrum[1] = forward.Add(right).Add(up)
	c.Frustrum[2] = forward.Sub(right).Sub(up)
	c.Frustrum[3] = forward.Add(right).Sub(up)
}

// Generate a primary ray for the normalized frame coordinates (u, v) where
// (0, 0) is the top-left corner and (1, 1) the bottom-right corner.
func (c *Camera) Ray(u, v float32) bvh.Ray {
	top := lerp(c.Frustrum[0], c.Frustrum[1], u)
	bottom := lerp(c.Frustrum[2], c.Frustrum[3], u)
	return bvh.NewRay(c.Position, lerp(top, bottom, v).Normalize())
}

func lerp(a, b types.Vec3, t float32) types.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
