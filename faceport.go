// Package faceport extracts portrait-sized face crops from photos of
// identity documents.
//
// A caller supplies an image; faceport locates face regions with a
// configurable detection backend, keeps either the largest face or all
// faces up to a limit, expands each box by a percentage margin, and
// returns independent cropped images plus export helpers (JPEG buffers
// and a ZIP archive).
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		"github.com/faceport/faceport"
//		"github.com/faceport/faceport/pkg/detect"
//	)
//
//	func main() {
//		cascade, err := os.ReadFile("facefinder")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		detector, err := detect.NewCascadeDetector(cascade, detect.DefaultCascadeConfig())
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		extractor := faceport.New(detector)
//
//		data, err := os.ReadFile("id_card.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		result, err := extractor.ExtractBytes(context.Background(), data, faceport.DefaultOptions())
//		if err != nil {
//			log.Fatal(err)
//		}
//		if result.Empty() {
//			log.Println("no faces detected")
//			return
//		}
//
//		portrait, err := result.MainPortraitJPEG(90)
//		if err != nil {
//			log.Fatal(err)
//		}
//		os.WriteFile("portrait_main.jpg", portrait, 0o644)
//	}
//
// The pipeline is synchronous and stateless per request: detection,
// selection and cropping run sequentially with no shared mutable state,
// so one Extractor may serve concurrent requests as long as its backend
// is safe for concurrent reuse (both provided backends are).
package faceport

import (
	"context"
	"fmt"
	"image"

	"github.com/faceport/faceport/pkg/cropper"
	"github.com/faceport/faceport/pkg/detect"
	"github.com/faceport/faceport/pkg/export"
	"github.com/faceport/faceport/pkg/processing"
	"github.com/faceport/faceport/pkg/selector"
	"github.com/faceport/faceport/pkg/types"
)

// Version of the faceport library
const Version = "1.0.0"

// Options are the per-request pipeline parameters.
type Options struct {
	// MinConfidence is the detection threshold in [0.1, 0.99].
	MinConfidence float64
	// MarginPercent is the padding around each box in [0, 40].
	MarginPercent int
	// Mode picks the largest face or all faces.
	Mode selector.Mode
	// MaxFaces bounds AllFaces mode, in [1, 10].
	MaxFaces int
}

// DefaultOptions returns sensible defaults for ID-document photos:
// 0.6 confidence, 10% margin, largest face only.
func DefaultOptions() Options {
	return Options{
		MinConfidence: 0.6,
		MarginPercent: 10,
		Mode:          selector.LargestOnly,
		MaxFaces:      5,
	}
}

// Validate checks the options against their allowed ranges.
func (o Options) Validate() error {
	if o.MinConfidence < 0.1 || o.MinConfidence > 0.99 {
		return fmt.Errorf("min confidence %.2f outside [0.10, 0.99]", o.MinConfidence)
	}
	if o.MarginPercent < 0 || o.MarginPercent > 40 {
		return fmt.Errorf("margin percent %d outside [0, 40]", o.MarginPercent)
	}
	if o.Mode == selector.AllFaces && (o.MaxFaces < 1 || o.MaxFaces > 10) {
		return fmt.Errorf("max faces %d outside [1, 10]", o.MaxFaces)
	}
	return nil
}

// Result holds the selected detections and their crops. Detections are
// in ranked order; index 0 is the main face. Crops can be shorter than
// Detections when a region degenerated after clipping.
type Result struct {
	Detections []types.Detection
	Crops      []image.Image
}

// Empty reports whether no faces were found. This is a valid outcome,
// not a failure; the caller decides how to present it.
func (r *Result) Empty() bool {
	return len(r.Detections) == 0
}

// Boxes returns the ranked bounding boxes, for overlay drawing.
func (r *Result) Boxes() []types.Box {
	boxes := make([]types.Box, len(r.Detections))
	for i, d := range r.Detections {
		boxes[i] = d.Box
	}
	return boxes
}

// MainPortrait returns the crop of the main (largest) face, or nil when
// the result is empty.
func (r *Result) MainPortrait() image.Image {
	if len(r.Crops) == 0 {
		return nil
	}
	return r.Crops[0]
}

// MainPortraitJPEG encodes the main portrait to JPEG bytes.
func (r *Result) MainPortraitJPEG(quality int) ([]byte, error) {
	main := r.MainPortrait()
	if main == nil {
		return nil, cropper.ErrEmptyCropSet
	}
	return export.EncodeJPEG(main, quality)
}

// Archive bundles every crop into a ZIP with entries portrait_0.jpg,
// portrait_1.jpg, ... in selection order.
func (r *Result) Archive(quality int) ([]byte, error) {
	return export.Archive(r.Crops, quality)
}

// Extractor runs the detect-select-crop pipeline with a fixed backend.
type Extractor struct {
	detector  detect.Detector
	cropper   *cropper.Cropper
	processor *processing.Processor
}

// New creates an Extractor around a detection backend. The backend is
// fixed for the extractor's lifetime; choosing it happens once at
// configuration time, never per call.
func New(detector detect.Detector) *Extractor {
	return &Extractor{
		detector:  detector,
		cropper:   cropper.New(),
		processor: processing.NewProcessor(),
	}
}

// Extract runs detection, ranking and cropping over a decoded image.
// Zero detected faces yields an empty Result and no error. When faces
// were detected but every crop region degenerated, the error wraps
// cropper.ErrEmptyCropSet.
func (e *Extractor) Extract(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	detections, err := e.detector.DetectFaces(ctx, img, opts.MinConfidence)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}

	if len(detections) == 0 {
		return &Result{}, nil
	}

	selected := selector.Select(detections, opts.Mode, opts.MaxFaces)

	crops := e.cropper.CropRegions(img, boxesOf(selected), opts.MarginPercent)
	if len(crops) == 0 {
		return nil, fmt.Errorf("cropping %d selected face(s): %w", len(selected), cropper.ErrEmptyCropSet)
	}

	return &Result{
		Detections: selected,
		Crops:      crops,
	}, nil
}

// ExtractBytes decodes an image from raw bytes (JPEG, PNG or WEBP) and
// runs Extract on it. Undecodable input fails immediately with an error
// wrapping processing.ErrDecode; no partial output is produced.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, opts Options) (*Result, error) {
	img, err := e.processor.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input image: %w", err)
	}
	return e.Extract(ctx, img, opts)
}

func boxesOf(detections []types.Detection) []types.Box {
	boxes := make([]types.Box, len(detections))
	for i, d := range detections {
		boxes[i] = d.Box
	}
	return boxes
}
