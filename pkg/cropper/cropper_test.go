package cropper

import (
	"image"
	"image/color"
	"testing"

	"github.com/faceport/faceport/pkg/types"
)

// createTestImage creates a test image with a bright block at the box
// position standing in for a face
func createTestImage(width, height int, face types.Box) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= face.X1 && x < face.X2 && y >= face.Y1 && y < face.Y2 {
				img.Set(x, y, color.NRGBA{220, 180, 160, 255})
			} else {
				img.Set(x, y, color.NRGBA{40, 40, 40, 255})
			}
		}
	}

	return img
}

func TestExpandBox(t *testing.T) {
	c := New()
	box := types.Box{X1: 100, Y1: 100, X2: 300, Y2: 300}

	// 10% of a 200x200 box is 20 pixels per side
	expanded := c.ExpandBox(box, 10, 1000, 800)

	expected := types.Box{X1: 80, Y1: 80, X2: 320, Y2: 320}
	if expanded != expected {
		t.Errorf("expected %+v, got %+v", expected, expanded)
	}
}

func TestExpandBoxClipsAtEdges(t *testing.T) {
	c := New()
	box := types.Box{X1: 0, Y1: 0, X2: 100, Y2: 100}

	expanded := c.ExpandBox(box, 40, 500, 400)

	if expanded.X1 != 0 || expanded.Y1 != 0 {
		t.Errorf("expected expansion clipped at origin, got %+v", expanded)
	}
	if expanded.X2 != 140 || expanded.Y2 != 140 {
		t.Errorf("expected far corner at (140,140), got %+v", expanded)
	}
}

func TestExpandBoxNegativeMargin(t *testing.T) {
	c := New()
	box := types.Box{X1: 100, Y1: 100, X2: 200, Y2: 200}

	expanded := c.ExpandBox(box, -15, 500, 400)

	if expanded != box {
		t.Errorf("negative margin should clamp to 0, got %+v", expanded)
	}
}

func TestExpandBoxMonotonicArea(t *testing.T) {
	c := New()
	box := types.Box{X1: 200, Y1: 150, X2: 400, Y2: 350}

	prevArea := 0
	for margin := 0; margin <= 40; margin++ {
		area := c.ExpandBox(box, margin, 1000, 800).Area()
		if area < prevArea {
			t.Fatalf("area decreased from %d to %d at margin %d", prevArea, area, margin)
		}
		if area > 1000*800 {
			t.Fatalf("area %d exceeds image area at margin %d", area, margin)
		}
		prevArea = area
	}
}

func TestCropRegions(t *testing.T) {
	face := types.Box{X1: 100, Y1: 100, X2: 300, Y2: 300}
	img := createTestImage(1000, 800, face)
	c := New()

	crops := c.CropRegions(img, []types.Box{face}, 10)

	if len(crops) != 1 {
		t.Fatalf("expected 1 crop, got %d", len(crops))
	}

	bounds := crops[0].Bounds()
	if bounds.Dx() != 240 || bounds.Dy() != 240 {
		t.Errorf("expected 240x240 crop, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCropRegionsNoMargin(t *testing.T) {
	face := types.Box{X1: 50, Y1: 60, X2: 150, Y2: 180}
	img := createTestImage(400, 300, face)
	c := New()

	crops := c.CropRegions(img, []types.Box{face}, 0)

	if len(crops) != 1 {
		t.Fatalf("expected 1 crop, got %d", len(crops))
	}

	bounds := crops[0].Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 120 {
		t.Errorf("expected 100x120 crop, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCropRegionsMultiple(t *testing.T) {
	img := createTestImage(800, 600, types.Box{X1: 100, Y1: 100, X2: 300, Y2: 300})
	c := New()

	boxes := []types.Box{
		{X1: 100, Y1: 100, X2: 300, Y2: 300},
		{X1: 500, Y1: 200, X2: 600, Y2: 350},
	}

	crops := c.CropRegions(img, boxes, 0)

	if len(crops) != 2 {
		t.Fatalf("expected 2 crops, got %d", len(crops))
	}
}

func TestCropIsIndependentCopy(t *testing.T) {
	face := types.Box{X1: 10, Y1: 10, X2: 60, Y2: 60}
	img := createTestImage(100, 100, face)
	c := New()

	crops := c.CropRegions(img, []types.Box{face}, 0)
	if len(crops) != 1 {
		t.Fatalf("expected 1 crop, got %d", len(crops))
	}

	before := crops[0].At(5, 5)

	// Mutating the source must not change the extracted crop
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.NRGBA{0, 255, 0, 255})
		}
	}

	after := crops[0].At(5, 5)
	if before != after {
		t.Error("crop aliases the source image; expected an independent copy")
	}
}

func TestCropRegionsDegenerateBoxStillCrops(t *testing.T) {
	img := createTestImage(500, 400, types.Box{})
	c := New()

	// Wholly out-of-bounds box clips to a 1-pixel region, which is a
	// valid (if uninformative) crop, not a dropped one.
	crops := c.CropRegions(img, []types.Box{{X1: -50, Y1: -50, X2: -10, Y2: -10}}, 0)

	if len(crops) != 1 {
		t.Fatalf("expected 1 degenerate crop, got %d", len(crops))
	}
	bounds := crops[0].Bounds()
	if bounds.Dx() != 1 || bounds.Dy() != 1 {
		t.Errorf("expected 1x1 crop, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}
