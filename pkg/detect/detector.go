// Package detect normalizes face detection backends into a single
// interface producing pixel-space boxes with confidence scores.
//
// Two backends are provided: ModelDetector runs a pretrained vision
// model through a client.VisionClient transport, CascadeDetector runs a
// classical pigo cascade locally. The backend is chosen once at startup;
// there is no per-call fallback, so results stay reproducible for a
// given configuration.
package detect

import (
	"context"
	"errors"
	"image"

	"github.com/faceport/faceport/pkg/types"
)

// ErrBackendUnavailable reports that the detection backend itself could
// not run. An image with zero faces is not an error and yields an empty
// detection slice instead.
var ErrBackendUnavailable = errors.New("detection backend unavailable")

// Detector locates faces in an image. Detections below minConfidence are
// excluded. The returned order is whatever the backend produced; ranking
// is a separate concern (see pkg/selector).
type Detector interface {
	DetectFaces(ctx context.Context, img image.Image, minConfidence float64) ([]types.Detection, error)
}
