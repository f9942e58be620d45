package detect

import (
	"context"
	"fmt"
	"image"

	"github.com/faceport/faceport/pkg/client"
	"github.com/faceport/faceport/pkg/geometry"
	"github.com/faceport/faceport/pkg/processing"
	"github.com/faceport/faceport/pkg/types"
)

// DefaultPrompt is the default prompt for face localization
const DefaultPrompt = `You are a face locator for identity-document photos.

Return JSON only:
{
  "faces": [
    {"label": "face", "confidence": 0.0, "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}}
  ],
  "description": "short neutral sentence (<= 20 words)"
}

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels).
- List every visible human face, one entry per face, tight boxes.
- confidence is your certainty in [0,1] that the box contains a face.
- Do not guess real identities.
- If no face is visible, return {"faces": [], "description": "no face visible"}.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// ModelConfig holds configuration for the vision-model backend
type ModelConfig struct {
	Model       string
	Prompt      string
	SendFormat  string
	SendMaxDim  int
	SendQuality int
}

// DefaultModelConfig returns a ModelConfig with sensible defaults
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Model:       "openbmb/minicpm-v4.5",
		Prompt:      DefaultPrompt,
		SendFormat:  "jpg",
		SendMaxDim:  1536,
		SendQuality: 85,
	}
}

// ModelDetector detects faces using a pretrained vision model reached
// through a VisionClient transport (ollama or llama.cpp).
type ModelDetector struct {
	client    client.VisionClient
	processor *processing.Processor
	config    ModelConfig
}

// NewModelDetector creates a detector backed by the given vision client
func NewModelDetector(vc client.VisionClient, config ModelConfig) *ModelDetector {
	if config.Prompt == "" {
		config.Prompt = DefaultPrompt
	}
	return &ModelDetector{
		client:    vc,
		processor: processing.NewProcessor(),
		config:    config,
	}
}

// DetectFaces runs the vision model over the image and converts every
// reported relative box into clipped absolute pixel coordinates. The
// model's native confidence is propagated unchanged; entries below
// minConfidence are skipped.
func (d *ModelDetector) DetectFaces(ctx context.Context, img image.Image, minConfidence float64) ([]types.Detection, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	imgB64, err := d.processor.PrepareImageForModel(img, d.config.SendFormat, d.config.SendMaxDim, d.config.SendQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image for model: %w", err)
	}

	scan, err := d.client.ScanFaces(ctx, d.config.Model, d.config.Prompt, imgB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	var detections []types.Detection
	for _, face := range scan.Faces {
		if face.Confidence < minConfidence {
			continue
		}

		x1 := roundToPixel(face.Box.X * float64(w))
		y1 := roundToPixel(face.Box.Y * float64(h))
		x2 := roundToPixel((face.Box.X + face.Box.W) * float64(w))
		y2 := roundToPixel((face.Box.Y + face.Box.H) * float64(h))

		detections = append(detections, types.Detection{
			Box:   geometry.Clip(x1, y1, x2, y2, w, h),
			Score: face.Confidence,
		})
	}

	return detections, nil
}

func roundToPixel(v float64) int {
	return int(v + 0.5)
}
