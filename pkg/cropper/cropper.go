// Package cropper extracts margin-expanded face regions from an image.
package cropper

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"

	"github.com/faceport/faceport/pkg/geometry"
	"github.com/faceport/faceport/pkg/types"
)

// ErrEmptyCropSet reports that detections existed but every candidate
// region degenerated to zero area after clipping. Distinct from the
// zero-detection case, which is not an error at all.
var ErrEmptyCropSet = errors.New("no face region survived cropping")

// Cropper extracts pixel sub-regions around detected boxes.
type Cropper struct{}

// New creates a Cropper.
func New() *Cropper {
	return &Cropper{}
}

// ExpandBox grows a box by marginPercent of its own width and height on
// every side (integer floor, margin clamped to >= 0) and clips the
// result to the image bounds.
func (c *Cropper) ExpandBox(box types.Box, marginPercent, width, height int) types.Box {
	if marginPercent < 0 {
		marginPercent = 0
	}
	mx := box.Width() * marginPercent / 100
	my := box.Height() * marginPercent / 100

	return geometry.ClipBox(geometry.Expand(box, mx, my), width, height)
}

// CropRegions extracts an independent pixel copy for each box, expanded
// by marginPercent. Boxes that clip down to zero area are silently
// dropped, so the output can be shorter than the input and callers must
// not assume a 1:1 index correspondence. Each crop is a fresh NRGBA
// image whose lifetime is independent of the source.
func (c *Cropper) CropRegions(img image.Image, boxes []types.Box, marginPercent int) []image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var crops []image.Image
	for _, box := range boxes {
		expanded := c.ExpandBox(box, marginPercent, width, height)

		rect := image.Rect(
			bounds.Min.X+expanded.X1,
			bounds.Min.Y+expanded.Y1,
			bounds.Min.X+expanded.X2,
			bounds.Min.Y+expanded.Y2,
		)

		crop := imaging.Crop(img, rect)
		if crop.Bounds().Empty() {
			continue
		}
		crops = append(crops, crop)
	}

	return crops
}
