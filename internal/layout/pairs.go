package layout

import "sort"

// CompressedPairs is the deduplicated form of a (gt, pred) pixel mask
// array: each index is a unique (GT[i], Pred[i]) tuple with Count[i] the
// number of pixels sharing it. Sum(Count) == len(gt) == len(pred) of the
// array CompressPairs was built from.
type CompressedPairs struct {
	GT    []uint64
	Pred  []uint64
	Count []int64
}

// CompressPairs sorts (gt[i], pred[i]) pairs lexicographically on
// (gt, pred) and collapses equal runs into single entries with a count,
// matching the C10 dedup-then-accumulate pipeline. gt and pred must be
// the same length.
func CompressPairs(gt, pred []uint64) CompressedPairs {
	n := len(gt)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if gt[ia] != gt[ib] {
			return gt[ia] < gt[ib]
		}
		return pred[ia] < pred[ib]
	})

	out := CompressedPairs{}
	for _, i := range idx {
		g, p := gt[i], pred[i]
		last := len(out.GT) - 1
		if last >= 0 && out.GT[last] == g && out.Pred[last] == p {
			out.Count[last]++
			continue
		}
		out.GT = append(out.GT, g)
		out.Pred = append(out.Pred, p)
		out.Count = append(out.Count, 1)
	}
	return out
}
