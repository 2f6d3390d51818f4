package layout

// AllClassesLabel is the collapsed-view class name for the non-background
// bucket (§6, "collapsed-view class name constant").
const AllClassesLabel = "all_classes"

// Metrics holds the derived per-cell and per-class scalars for a confusion
// matrix: dense C×C precision/recall/F1 tensors, diagonal per-class
// scalars keyed by class name, and their unweighted means.
type Metrics struct {
	Precision *Matrix
	Recall    *Matrix
	F1        *Matrix

	ClassesPrecision map[string]float64
	ClassesRecall    map[string]float64
	ClassesF1        map[string]float64

	MeanPrecision float64
	MeanRecall    float64
	MeanF1        float64
}

// ComputeMetrics derives precision, recall, and F1 from cm, with
// classNames[k] giving the label for row/column k.
func ComputeMetrics(cm *Matrix, classNames []string) Metrics {
	c := cm.C
	rowSum := make([]float64, c)
	colSum := make([]float64, c)
	for i := 0; i < c; i++ {
		for j := 0; j < c; j++ {
			v := cm.At(i, j)
			rowSum[i] += v
			colSum[j] += v
		}
	}

	precision := NewMatrix(c)
	recall := NewMatrix(c)
	f1 := NewMatrix(c)

	for i := 0; i < c; i++ {
		for j := 0; j < c; j++ {
			v := cm.At(i, j)
			p := safeDiv(v, colSum[j])
			r := safeDiv(v, rowSum[i])
			precision.add(i, j, p)
			recall.add(i, j, r)
			f1.add(i, j, harmonicMean(p, r))
		}
	}

	m := Metrics{
		Precision:        precision,
		Recall:           recall,
		F1:               f1,
		ClassesPrecision: make(map[string]float64, c),
		ClassesRecall:    make(map[string]float64, c),
		ClassesF1:        make(map[string]float64, c),
	}

	for k := 0; k < c; k++ {
		name := classNames[k]
		m.ClassesPrecision[name] = precision.At(k, k)
		m.ClassesRecall[name] = recall.At(k, k)
		m.ClassesF1[name] = f1.At(k, k)
		m.MeanPrecision += precision.At(k, k)
		m.MeanRecall += recall.At(k, k)
		m.MeanF1 += f1.At(k, k)
	}
	if c > 0 {
		m.MeanPrecision /= float64(c)
		m.MeanRecall /= float64(c)
		m.MeanF1 /= float64(c)
	}

	return m
}

// Collapse produces the 2×2 view: cell (0,0) keeps cm[0,0], and every
// other row/column folds into the "all_classes" bucket (index 1).
// className0 is the original label of class 0. It returns only the
// collapsed matrix and its two class names; the scalar metrics of the
// collapsed view come from passing them to ComputeMetrics.
func Collapse(cm *Matrix, className0 string) (*Matrix, []string) {
	ccm := NewMatrix(2)
	ccm.add(0, 0, cm.At(0, 0))
	for j := 1; j < cm.C; j++ {
		ccm.add(0, 1, cm.At(0, j))
	}
	for i := 1; i < cm.C; i++ {
		ccm.add(1, 0, cm.At(i, 0))
		for j := 1; j < cm.C; j++ {
			ccm.add(1, 1, cm.At(i, j))
		}
	}
	return ccm, []string{className0, AllClassesLabel}
}

func safeDiv(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}

func harmonicMean(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
