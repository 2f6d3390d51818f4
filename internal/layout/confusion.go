package layout

import (
	"fmt"
	"log/slog"

	"github.com/docling-project/docling-metrics/internal/bitutil"
)

// Matrix is a dense C×C row-major confusion matrix. Row i is ground-truth
// class i, column j is predicted class j; the diagonal accumulates
// true-positive mass and off-diagonal cells accumulate distributed penalty
// mass from partially-overlapping multi-label masks.
type Matrix struct {
	C    int
	Data []float64
}

// At returns cm[i][j].
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.C+j] }

// add accumulates delta into cm[i][j].
func (m *Matrix) add(i, j int, delta float64) { m.Data[i*m.C+j] += delta }

// NewMatrix allocates a C×C matrix of zeros.
func NewMatrix(c int) *Matrix {
	return &Matrix{C: c, Data: make([]float64, c*c)}
}

// ValidationMode controls how GenerateConfusionMatrix reacts when the
// implicit per-pixel contribution tensor fails its row-sum / total-sum
// invariant (§7: row-sum = 1 over active gt bits, total sum =
// Σ popcount(gt)).
type ValidationMode int

const (
	// ValidationDisabled skips the check entirely (default, fastest).
	ValidationDisabled ValidationMode = iota
	// ValidationLog writes a diagnostic via log/slog and continues.
	ValidationLog
	// ValidationRaise returns an error instead of a matrix.
	ValidationRaise
)

// GenerateConfusionMatrix dedupes (gt[i], pred[i]) pairs via CompressPairs,
// then for each unique pair dispatches on the relationship between gt and
// pred masks to one of four closed-form updates of a C×C matrix indexed by
// categories (a sorted list of at most 64 class ids; bit index ==
// column/row index). gt and pred must have equal length; categories must
// be sorted and non-empty — both are programmer-error preconditions, not
// data errors, and are asserted rather than reported via a result value.
func GenerateConfusionMatrix(gt, pred []uint64, categories []int, mode ValidationMode) (*Matrix, error) {
	if len(gt) != len(pred) {
		panic(fmt.Sprintf("layout: gt and pred length mismatch: %d != %d", len(gt), len(pred)))
	}
	if len(categories) == 0 {
		panic("layout: categories must be non-empty")
	}
	for i := 1; i < len(categories); i++ {
		if categories[i] <= categories[i-1] {
			panic("layout: categories must be strictly sorted")
		}
	}

	cm := NewMatrix(len(categories))
	pairs := CompressPairs(gt, pred)

	for k := range pairs.GT {
		g, p, w := pairs.GT[k], pairs.Pred[k], float64(pairs.Count[k])
		if mode != ValidationDisabled {
			if err := validatePixel(g, p, w, cm); err != nil {
				if mode == ValidationRaise {
					return nil, err
				}
				slog.Warn("layout: confusion validation failed", "error", err)
			}
		}
		accumulate(cm, g, p, w)
	}

	return cm, nil
}

// accumulate dispatches a single (g, p, weight) pair to one of the four
// cases of the confusion-accumulator contract.
func accumulate(cm *Matrix, g, p uint64, w float64) {
	switch {
	case g == p:
		// Case 1: exact match. Every bit set in g gets +w on the diagonal.
		forEachBit(g, func(b int) {
			cm.add(b, b, w)
		})

	case p != 0 && g&p == g:
		// Case 2: gt ⊂ preds. diff = bits predicted but not in gt.
		diff := p &^ g
		denom := float64(bitutil.PopCount64(p))
		gCount := float64(bitutil.PopCount64(g))
		forEachBit(g, func(i int) {
			cm.add(i, i, w*gCount/denom)
			forEachBit(diff, func(j int) {
				cm.add(i, j, w/denom)
			})
		})

	case p != 0 && g|p == g:
		// Case 3: preds ⊂ gt. gtDiff = bits in gt but not predicted.
		gtDiff := g &^ p
		denom := float64(bitutil.PopCount64(p))
		forEachBit(p, func(j int) {
			cm.add(j, j, w)
		})
		forEachBit(gtDiff, func(i int) {
			forEachBit(p, func(j int) {
				cm.add(i, j, w/denom)
			})
		})

	default:
		// Case 4: symmetric difference on both sides.
		gtDiff := g &^ p
		predsDiff := p &^ g
		isect := g & p
		denom := float64(bitutil.PopCount64(predsDiff))
		forEachBit(isect, func(k int) {
			cm.add(k, k, w)
		})
		forEachBit(gtDiff, func(i int) {
			forEachBit(predsDiff, func(j int) {
				cm.add(i, j, w/denom)
			})
		})
	}
}

// forEachBit calls fn once for every set bit index in mask, low to high.
func forEachBit(mask uint64, fn func(bit int)) {
	for mask != 0 {
		b := trailingZeros64(mask)
		fn(b)
		mask &= mask - 1
	}
}

func trailingZeros64(x uint64) int {
	if x == 0 {
		return 64
	}
	n := 0
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}

// validatePixel checks that a single (g, p, weight) update would add
// exactly w to the row of every class set in g and exactly w*popcount(g)
// total mass to the matrix, the per-pixel invariants from §7/§8.
func validatePixel(g, p uint64, w float64, cm *Matrix) error {
	before := sumMatrix(cm)
	scratch := NewMatrix(cm.C)
	copy(scratch.Data, cm.Data)
	accumulate(scratch, g, p, w)
	var rowErr error
	forEachBit(g, func(i int) {
		added := 0.0
		for j := 0; j < cm.C; j++ {
			added += scratch.At(i, j) - cm.At(i, j)
		}
		if d := added - w; rowErr == nil && (d > 1e-6 || d < -1e-6) {
			rowErr = fmt.Errorf("layout: row-sum invariant violated for gt class %d: added %v, want %v", i, added, w)
		}
	})
	if rowErr != nil {
		return rowErr
	}
	after := sumMatrix(scratch)
	want := before + w*float64(bitutil.PopCount64(g))
	diff := after - want
	if diff > 1e-6 || diff < -1e-6 {
		return fmt.Errorf("layout: per-pixel mass invariant violated: added %v, want %v", after-before, w*float64(bitutil.PopCount64(g)))
	}
	return nil
}

func sumMatrix(m *Matrix) float64 {
	total := 0.0
	for _, v := range m.Data {
		total += v
	}
	return total
}
