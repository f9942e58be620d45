package processing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 100, 255})
		}
	}
	return img
}

func TestDecodeBytesJPEG(t *testing.T) {
	p := NewProcessor()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(120, 90), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to build fixture: %v", err)
	}

	img, err := p.DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 120 || bounds.Dy() != 90 {
		t.Errorf("expected 120x90, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestDecodeBytesPNG(t *testing.T) {
	p := NewProcessor()

	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(64, 48)); err != nil {
		t.Fatalf("failed to build fixture: %v", err)
	}

	img, err := p.DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("unexpected width %d", img.Bounds().Dx())
	}
}

func TestDecodeBytesInvalid(t *testing.T) {
	p := NewProcessor()

	_, err := p.DecodeBytes([]byte("not an image at all"))
	if err == nil {
		t.Fatal("expected error for invalid bytes")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got: %v", err)
	}
}

func TestPrepareImageForModelResizes(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(200, 100)

	b64, err := p.PrepareImageForModel(img, "jpg", 100, 85)
	if err != nil {
		t.Fatalf("PrepareImageForModel failed: %v", err)
	}
	if b64 == "" {
		t.Fatal("expected non-empty base64 payload")
	}
}
