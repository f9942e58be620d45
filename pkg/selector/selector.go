// Package selector ranks face detections and applies the caller's
// selection mode.
package selector

import (
	"sort"

	"github.com/faceport/faceport/pkg/types"
)

// Mode controls how many ranked detections are kept.
type Mode int

const (
	// LargestOnly keeps just the biggest face.
	LargestOnly Mode = iota
	// AllFaces keeps up to a caller-supplied maximum.
	AllFaces
)

// String returns the mode name used in configuration and flags.
func (m Mode) String() string {
	switch m {
	case LargestOnly:
		return "largest"
	case AllFaces:
		return "all"
	}
	return "unknown"
}

// ParseMode converts a configuration string to a Mode. Unrecognized
// values map to LargestOnly, the conservative default.
func ParseMode(s string) Mode {
	if s == "all" {
		return AllFaces
	}
	return LargestOnly
}

// Select sorts detections by box area descending and truncates according
// to the mode. The sort is stable, so equal-area detections keep the
// order the backend produced and the result is reproducible for the same
// detector output. Index 0 of the result is the main face. The input
// slice is not modified.
func Select(detections []types.Detection, mode Mode, maxFaces int) []types.Detection {
	if len(detections) == 0 {
		return nil
	}

	ranked := make([]types.Detection, len(detections))
	copy(ranked, detections)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Box.Area() > ranked[j].Box.Area()
	})

	switch mode {
	case LargestOnly:
		return ranked[:1]
	case AllFaces:
		if maxFaces < 1 {
			maxFaces = 1
		}
		if len(ranked) > maxFaces {
			return ranked[:maxFaces]
		}
	}

	return ranked
}
