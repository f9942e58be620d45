// Package export packages cropped portraits for delivery: JPEG buffers,
// a deflate ZIP archive, and a detection overlay for visual inspection.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"github.com/disintegration/imaging"

	"github.com/faceport/faceport/pkg/types"
)

// DefaultQuality is the JPEG quality used when the caller passes 0.
const DefaultQuality = 90

// EncodeJPEG encodes an image to JPEG bytes.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// Archive bundles all crops into a single deflate-compressed ZIP with
// entries portrait_0.jpg, portrait_1.jpg, ... in selection order. An
// empty crop list yields a valid zero-entry archive.
func Archive(crops []image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, crop := range crops {
		data, err := EncodeJPEG(crop, quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode portrait_%d: %w", i, err)
		}

		w, err := zw.Create(fmt.Sprintf("portrait_%d.jpg", i))
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write archive entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// DrawOverlay returns a copy of the image with every detection box drawn
// on it. The main box (index 0 after selection) is green, the rest are
// amber. The input image is never modified.
func DrawOverlay(img image.Image, boxes []types.Box) *image.NRGBA {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()

	green := color.NRGBA{0, 255, 0, 255}
	amber := color.NRGBA{255, 200, 0, 255}
	stroke := int(math.Max(2, 0.004*float64(min(w, h)))) // ~0.4% of min side

	for i, box := range boxes {
		c := amber
		if i == 0 {
			c = green
		}
		drawBox(nrgba, box, c, stroke)
	}

	return nrgba
}

func drawBox(img *image.NRGBA, box types.Box, c color.NRGBA, stroke int) {
	for s := 0; s < stroke; s++ {
		drawHLine(img, box.Y1+s, box.X1, box.X2, c)
		drawHLine(img, box.Y2-1-s, box.X1, box.X2, c)
		drawVLine(img, box.X1+s, box.Y1, box.Y2, c)
		drawVLine(img, box.X2-1-s, box.Y1, box.Y2, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
