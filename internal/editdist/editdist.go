// Package editdist implements the Myers bit-parallel block DP for global
// (Needleman-Wunsch) edit distance over sequences of string tokens, a
// direct port of docling-metrics-text/cpp/src/edit_distance.cpp.
package editdist

import (
	"errors"
	"fmt"

	"github.com/docling-project/docling-metrics/internal/bitutil"
	"github.com/docling-project/docling-metrics/internal/sysmem"
)

const wordBits = bitutil.WordBits

// ErrMemoryLimit is returned by DistanceSafe when the Peq table would
// exceed the host's physical RAM.
var ErrMemoryLimit = errors.New("editdist: Peq table would exceed available memory")

// Distance returns the raw (unnormalised) Myers edit distance between query
// and target, with no memory-safety check before allocating Peq.
func Distance(query, target []string) int {
	n, m := len(query), len(target)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	qIdx, tIdx, numIDs := internTokens(query, target)
	numBlocks := bitutil.CeilDiv(n, wordBits)
	peq := buildPeq(qIdx, n, numIDs, numBlocks)
	return runBlocks(peq, tIdx, n, numBlocks)
}

// DistanceSafe is like Distance but first checks the Peq table's footprint
// (uniqueIDs * numBlocks * 8 bytes) against the host's physical RAM
// (internal/sysmem), returning ErrMemoryLimit rather than allocating if it
// would not fit. If the host's RAM cannot be probed, it falls back to the
// unchecked behaviour of Distance.
func DistanceSafe(query, target []string) (int, error) {
	n, m := len(query), len(target)
	if n == 0 {
		return m, nil
	}
	if m == 0 {
		return n, nil
	}

	qIdx, tIdx, numIDs := internTokens(query, target)
	numBlocks := bitutil.CeilDiv(n, wordBits)

	if total, ok := sysmem.TotalBytes(); ok {
		needed := uint64(numIDs) * uint64(numBlocks) * 8
		if needed > total {
			return 0, fmt.Errorf("%w: need %d bytes, host has %d", ErrMemoryLimit, needed, total)
		}
	}

	peq := buildPeq(qIdx, n, numIDs, numBlocks)
	return runBlocks(peq, tIdx, n, numBlocks), nil
}

// EditDistance returns the normalised score in [0,1]: raw / max(|query|,
// |target|), or 0.0 when both sequences are empty.
func EditDistance(query, target []string) float64 {
	maxLen := len(query)
	if len(target) > maxLen {
		maxLen = len(target)
	}
	if maxLen == 0 {
		return 0.0
	}
	return float64(Distance(query, target)) / float64(maxLen)
}

// internTokens maps query and target tokens to a shared dense integer id
// space in first-seen order. Only ids that occur in query get a non-zero
// row in Peq; ids seen only in target remain all-zero rows by construction.
func internTokens(query, target []string) (qIdx, tIdx []int, numIDs int) {
	ids := make(map[string]int, len(query)+len(target))
	next := 0

	qIdx = make([]int, len(query))
	for i, tok := range query {
		id, ok := ids[tok]
		if !ok {
			id = next
			ids[tok] = id
			next++
		}
		qIdx[i] = id
	}

	tIdx = make([]int, len(target))
	for i, tok := range target {
		id, ok := ids[tok]
		if !ok {
			id = next
			ids[tok] = id
			next++
		}
		tIdx[i] = id
	}

	return qIdx, tIdx, next
}

// buildPeq builds the Peq table: Peq[id][block] has bit i set iff query
// position (block*64 + i) has token id `id`.
func buildPeq(qIdx []int, n, numIDs, numBlocks int) [][]uint64 {
	peq := make([][]uint64, numIDs)
	for i := range peq {
		peq[i] = make([]uint64, numBlocks)
	}
	for i := 0; i < n; i++ {
		peq[qIdx[i]][i/wordBits] |= uint64(1) << uint(i%wordBits)
	}
	return peq
}

// runBlocks drives the per-target-token block sweep and undoes the
// last-block padding to recover the distance at the true query length.
func runBlocks(peq [][]uint64, tIdx []int, n, numBlocks int) int {
	pv := make([]uint64, numBlocks)
	mv := make([]uint64, numBlocks)
	for b := range pv {
		pv[b] = ^uint64(0)
	}
	scores := make([]int, numBlocks)
	for b := range scores {
		scores[b] = (b + 1) * wordBits
	}

	zero := make([]uint64, numBlocks)

	for _, id := range tIdx {
		eq := peq[id]
		if eq == nil {
			eq = zero
		}
		hin := 1
		for b := 0; b < numBlocks; b++ {
			var hout int
			hout, pv[b], mv[b] = advanceBlock(pv[b], mv[b], eq[b], hin)
			hin = hout
			scores[b] += hout
		}
	}

	// Undo the padding in the last block: walk the top (numBlocks*64 - n)
	// bits from the high end, subtracting set Pv bits and adding set Mv
	// bits, exactly mirroring the original's trailing loop.
	padding := numBlocks*wordBits - n
	score := scores[numBlocks-1]
	mask := uint64(1) << (wordBits - 1)
	lastPv, lastMv := pv[numBlocks-1], mv[numBlocks-1]
	for i := 0; i < padding; i++ {
		if lastPv&mask != 0 {
			score--
		}
		if lastMv&mask != 0 {
			score++
		}
		mask >>= 1
	}
	return score
}

// advanceBlock implements Myers' "Advance_Block": processes one block of one
// column. Pv/Mv encode the vertical deltas, eq is the match vector for the
// current target token, hin is the horizontal delta entering from the block
// above ({-1,0,+1}, packed as an int). Returns hout and the updated Pv/Mv.
func advanceBlock(pv, mv, eq uint64, hin int) (hout int, pvOut, mvOut uint64) {
	const highBit = uint64(1) << (wordBits - 1)

	hinIsNeg := uint64(hin>>2) & 1

	xv := eq | mv
	eq |= hinIsNeg
	xh := (((eq & pv) + pv) ^ pv) | eq

	ph := mv | ^(xh | pv)
	mh := pv & xh

	hout = int((ph & highBit) >> (wordBits - 1))
	hout -= int((mh & highBit) >> (wordBits - 1))

	ph <<= 1
	mh <<= 1
	mh |= hinIsNeg
	ph |= uint64((hin + 1) >> 1)

	pvOut = mh | ^(xv | ph)
	mvOut = ph & xv

	return hout, pvOut, mvOut
}
