// Package layout implements the multi-label layout confusion family:
// rasterising bounding boxes into pixel bit-masks, compressing duplicate
// (gt, pred) pixel pairs, accumulating a C×C confusion matrix, and
// deriving precision/recall/F1 from it.
package layout

import "math"

// BboxResolution is one predicted or ground-truth region: a category,
// its bounding box (x1,y1,x2,y2) with the origin at the top-left in
// unnormalised pixel coordinates, and a confidence score.
type BboxResolution struct {
	CategoryID int
	Bbox       [4]float64
	Score      float64
}

// Rasterize renders resolutions into a row-major W*H array of 64-bit
// masks, OR-ing 1<<CategoryID into every pixel each bbox covers after
// flooring x1/y1 and ceiling x2/y2, clamped to the image. CategoryID must
// be in [0,64); callers are expected to have validated this (a programmer
// error per the confusion-matrix contract, not a data error). If
// setBackground is true, every pixel untouched by any bbox is set to bit
// 0 after all boxes are drawn.
func Rasterize(width, height int, resolutions []BboxResolution, setBackground bool) []uint64 {
	masks := make([]uint64, width*height)

	for _, r := range resolutions {
		x1 := clampInt(int(math.Floor(r.Bbox[0])), 0, width)
		y1 := clampInt(int(math.Floor(r.Bbox[1])), 0, height)
		x2 := clampInt(int(math.Ceil(r.Bbox[2])), 0, width)
		y2 := clampInt(int(math.Ceil(r.Bbox[3])), 0, height)
		if x1 >= x2 || y1 >= y2 {
			continue
		}
		bit := uint64(1) << uint(r.CategoryID)
		for y := y1; y < y2; y++ {
			row := y * width
			for x := x1; x < x2; x++ {
				masks[row+x] |= bit
			}
		}
	}

	if setBackground {
		for i, m := range masks {
			if m == 0 {
				masks[i] = 1
			}
		}
	}

	return masks
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
