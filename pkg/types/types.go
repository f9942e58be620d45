package types

// Box is a bounding box in absolute pixel coordinates. X1/Y1 is the
// top-left corner (inclusive), X2/Y2 the bottom-right corner (exclusive
// when extracting pixels). After clipping, 0 <= X1 < X2 <= W-1 and
// 0 <= Y1 < Y2 <= H-1 hold for any image with W,H >= 2.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b Box) Height() int {
	return b.Y2 - b.Y1
}

// Area returns the pixel area of the box.
func (b Box) Area() int {
	return b.Width() * b.Height()
}

// RelBox is a bounding box normalized to the [0,1] range, as reported by
// vision models. X/Y is the top-left corner, W/H the extent.
type RelBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Detection is one candidate face location with a confidence score in
// [0,1]. Cascade backends report a placeholder score of 1.0 since they
// yield no calibrated confidence.
type Detection struct {
	Box   Box     `json:"box"`
	Score float64 `json:"score"`
}

// Face is a single face entry in a vision model response.
type Face struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        RelBox  `json:"box"`
}

// FaceScan contains the complete face detection result from a vision model.
type FaceScan struct {
	Faces       []Face `json:"faces"`
	Description string `json:"description"`
}
