// Package geometry provides bounding-box arithmetic for the detection
// and cropping pipeline.
package geometry

import "github.com/faceport/faceport/pkg/types"

// Clip clamps a box to the bounds of a width x height image. Corners are
// clamped to [0, width-1] and [0, height-1] independently first; a
// degenerate extent is then repaired by pushing the far corner one pixel
// past the near one. The result always has strictly positive width and
// height for any input when width and height are at least 2, so callers
// never need to handle an empty box.
func Clip(x1, y1, x2, y2, width, height int) types.Box {
	x1 = clamp(x1, 0, width-1)
	y1 = clamp(y1, 0, height-1)
	x2 = clamp(x2, 0, width-1)
	y2 = clamp(y2, 0, height-1)

	if x2 <= x1 {
		x2 = min(width-1, x1+1)
	}
	if y2 <= y1 {
		y2 = min(height-1, y1+1)
	}

	return types.Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// ClipBox is a convenience wrapper over Clip for an existing box.
func ClipBox(b types.Box, width, height int) types.Box {
	return Clip(b.X1, b.Y1, b.X2, b.Y2, width, height)
}

// Expand grows a box by mx pixels on the left and right and my pixels on
// the top and bottom. The result is not clipped.
func Expand(b types.Box, mx, my int) types.Box {
	return types.Box{
		X1: b.X1 - mx,
		Y1: b.Y1 - my,
		X2: b.X2 + mx,
		Y2: b.Y2 + my,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
