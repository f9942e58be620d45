package detect

import (
	"context"
	"fmt"
	"image"

	pigo "github.com/esimov/pigo/core"

	"github.com/faceport/faceport/pkg/geometry"
	"github.com/faceport/faceport/pkg/types"
)

// CascadeConfig holds tuning for the classical cascade backend
type CascadeConfig struct {
	MinSize          int
	MaxSize          int
	ShiftFactor      float64
	ScaleFactor      float64
	ClusterThreshold float64
	MinQuality       float32
}

// DefaultCascadeConfig returns the cascade tuning used for ID photos:
// multi-scale sweep at 1.1 scale steps, no face smaller than 60x60
// pixels, clustered detections kept above a modest quality floor.
func DefaultCascadeConfig() CascadeConfig {
	return CascadeConfig{
		MinSize:          60,
		MaxSize:          2000,
		ShiftFactor:      0.1,
		ScaleFactor:      1.1,
		ClusterThreshold: 0.2,
		MinQuality:       5.0,
	}
}

// CascadeDetector detects faces with a pigo cascade classifier. It needs
// no external service and is the fallback when no vision model is
// reachable in the target environment. The unpacked classifier is
// immutable, so one detector is safe for concurrent reuse.
type CascadeDetector struct {
	classifier *pigo.Pigo
	config     CascadeConfig
}

// NewCascadeDetector unpacks a binary pigo cascade (the standard
// "facefinder" file) and returns a ready detector.
func NewCascadeDetector(cascade []byte, config CascadeConfig) (*CascadeDetector, error) {
	p := pigo.NewPigo()
	classifier, err := p.Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("%w: error unpacking cascade file: %v", ErrBackendUnavailable, err)
	}

	return &CascadeDetector{
		classifier: classifier,
		config:     config,
	}, nil
}

// DetectFaces runs the multi-scale sliding-window cascade over a
// grayscale copy of the image. The cascade yields no calibrated
// confidence, so every detection carries a placeholder score of 1.0.
func (d *CascadeDetector) DetectFaces(ctx context.Context, img image.Image, minConfidence float64) ([]types.Detection, error) {
	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	cParams := pigo.CascadeParams{
		MinSize:     d.config.MinSize,
		MaxSize:     d.config.MaxSize,
		ShiftFactor: d.config.ShiftFactor,
		ScaleFactor: d.config.ScaleFactor,

		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	faces := d.classifier.RunCascade(cParams, 0.0)
	faces = d.classifier.ClusterDetections(faces, d.config.ClusterThreshold)

	var detections []types.Detection
	for _, face := range faces {
		if face.Q < d.config.MinQuality {
			continue
		}

		half := face.Scale / 2
		detections = append(detections, types.Detection{
			Box:   geometry.Clip(face.Col-half, face.Row-half, face.Col+half, face.Row+half, cols, rows),
			Score: 1.0,
		})
	}

	return detections, nil
}
