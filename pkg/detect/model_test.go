package detect

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/faceport/faceport/pkg/types"
)

// fakeVisionClient returns a canned scan or error without any network
type fakeVisionClient struct {
	scan *types.FaceScan
	err  error
}

func (f *fakeVisionClient) SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	return "a photo", f.err
}

func (f *fakeVisionClient) ScanFaces(ctx context.Context, model, prompt, imgB64 string) (*types.FaceScan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scan, nil
}

func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{128, 128, 128, 255})
		}
	}
	return img
}

func TestModelDetectorConvertsRelativeBoxes(t *testing.T) {
	fc := &fakeVisionClient{
		scan: &types.FaceScan{
			Faces: []types.Face{
				{Label: "face", Confidence: 0.93, Box: types.RelBox{X: 0.1, Y: 0.125, W: 0.2, H: 0.25}},
			},
		},
	}
	d := NewModelDetector(fc, DefaultModelConfig())

	dets, err := d.DetectFaces(context.Background(), createTestImage(1000, 800), 0.6)
	if err != nil {
		t.Fatalf("DetectFaces failed: %v", err)
	}

	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}

	expected := types.Box{X1: 100, Y1: 100, X2: 300, Y2: 300}
	if dets[0].Box != expected {
		t.Errorf("expected box %+v, got %+v", expected, dets[0].Box)
	}
	if dets[0].Score != 0.93 {
		t.Errorf("expected native score 0.93 propagated, got %f", dets[0].Score)
	}
}

func TestModelDetectorFiltersBelowThreshold(t *testing.T) {
	fc := &fakeVisionClient{
		scan: &types.FaceScan{
			Faces: []types.Face{
				{Confidence: 0.95, Box: types.RelBox{X: 0.1, Y: 0.1, W: 0.2, H: 0.2}},
				{Confidence: 0.40, Box: types.RelBox{X: 0.5, Y: 0.5, W: 0.2, H: 0.2}},
				{Confidence: 0.61, Box: types.RelBox{X: 0.3, Y: 0.3, W: 0.1, H: 0.1}},
			},
		},
	}
	d := NewModelDetector(fc, DefaultModelConfig())

	dets, err := d.DetectFaces(context.Background(), createTestImage(640, 480), 0.6)
	if err != nil {
		t.Fatalf("DetectFaces failed: %v", err)
	}

	if len(dets) != 2 {
		t.Errorf("expected 2 detections above threshold, got %d", len(dets))
	}
}

func TestModelDetectorClipsOutOfBoundsBoxes(t *testing.T) {
	fc := &fakeVisionClient{
		scan: &types.FaceScan{
			Faces: []types.Face{
				// Box extends past the right and bottom edges
				{Confidence: 0.9, Box: types.RelBox{X: 0.8, Y: 0.8, W: 0.5, H: 0.5}},
			},
		},
	}
	d := NewModelDetector(fc, DefaultModelConfig())

	dets, err := d.DetectFaces(context.Background(), createTestImage(500, 400), 0.5)
	if err != nil {
		t.Fatalf("DetectFaces failed: %v", err)
	}

	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}

	box := dets[0].Box
	if box.X2 > 499 || box.Y2 > 399 {
		t.Errorf("box not clipped to image bounds: %+v", box)
	}
	if box.Width() < 1 || box.Height() < 1 {
		t.Errorf("clipped box has degenerate extent: %+v", box)
	}
}

func TestModelDetectorEmptyScanIsNotAnError(t *testing.T) {
	fc := &fakeVisionClient{scan: &types.FaceScan{Faces: nil}}
	d := NewModelDetector(fc, DefaultModelConfig())

	dets, err := d.DetectFaces(context.Background(), createTestImage(640, 480), 0.6)
	if err != nil {
		t.Fatalf("zero faces should not be an error, got: %v", err)
	}
	if len(dets) != 0 {
		t.Errorf("expected 0 detections, got %d", len(dets))
	}
}

func TestModelDetectorBackendFailure(t *testing.T) {
	fc := &fakeVisionClient{err: errors.New("connection refused")}
	d := NewModelDetector(fc, DefaultModelConfig())

	_, err := d.DetectFaces(context.Background(), createTestImage(640, 480), 0.6)
	if err == nil {
		t.Fatal("expected error for unreachable backend")
	}
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("expected error to wrap ErrBackendUnavailable, got: %v", err)
	}
}
