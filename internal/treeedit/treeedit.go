// Package treeedit computes the tree-edit distance between two labelled
// ordered trees under a unit cost model (insert, delete, relabel each cost
// 1). It implements the classic Zhang-Shasha keyroot algorithm, which
// computes exactly the same distance APTED does under a unit cost model —
// APTED only improves on Zhang-Shasha's asymptotic complexity, not the
// result. The TEDS manager (internal/teds) treats this package as its
// external tree-edit contract: two indexed trees in, a non-negative integer
// distance out.
package treeedit

// Node is a labelled ordered tree node.
type Node struct {
	Label    string
	Children []*Node
}

// TreeSize returns 1 + the sum of all descendant sizes.
func (n *Node) TreeSize() int {
	if n == nil {
		return 0
	}
	size := 1
	for _, c := range n.Children {
		size += c.TreeSize()
	}
	return size
}

// postorder is a flattened postorder traversal of a tree, used as the
// indexing Zhang-Shasha operates over.
type postorder struct {
	labels   []string
	leftmost []int // leftmost[i] = postorder index of the leftmost leaf descendant of node i
}

// index flattens t into postorder form: labels in postorder, and for each
// node the postorder index of its leftmost leaf descendant.
func index(t *Node) *postorder {
	p := &postorder{}
	var visit func(n *Node) int
	visit = func(n *Node) int {
		if len(n.Children) == 0 {
			idx := len(p.labels)
			p.labels = append(p.labels, n.Label)
			p.leftmost = append(p.leftmost, idx)
			return idx
		}
		firstChildLeftmost := -1
		for i, c := range n.Children {
			lm := visit(c)
			if i == 0 {
				firstChildLeftmost = p.leftmost[lm]
			}
		}
		idx := len(p.labels)
		p.labels = append(p.labels, n.Label)
		p.leftmost = append(p.leftmost, firstChildLeftmost)
		return idx
	}
	visit(t)
	return p
}

// keyroots returns the postorder indices of every node that either has a
// left sibling or is the root (the highest node for each leftmost leaf) —
// the classic Zhang-Shasha keyroot set, visited in ascending order.
func keyroots(p *postorder) []int {
	n := len(p.labels)
	seen := make(map[int]int, n) // leftmost[i] -> most recent postorder index with that leftmost
	for i := 0; i < n; i++ {
		seen[p.leftmost[i]] = i
	}
	roots := make([]int, 0, len(seen))
	for _, i := range seen {
		roots = append(roots, i)
	}
	// sort ascending
	for i := 1; i < len(roots); i++ {
		for j := i; j > 0 && roots[j-1] > roots[j]; j-- {
			roots[j-1], roots[j] = roots[j], roots[j-1]
		}
	}
	return roots
}

// Distance returns the unit-cost tree-edit distance between a and b.
func Distance(a, b *Node) int {
	if a == nil && b == nil {
		return 0
	}
	pa, pb := index(a), index(b)
	n, m := len(pa.labels), len(pb.labels)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	// treedist[i][j] holds the distance between the subtree of a rooted at
	// postorder index i and the subtree of b rooted at postorder index j;
	// forestDist fills it in as keyroot pairs are processed, and later
	// pairs read the cells earlier pairs wrote.
	treedist := make([][]int, n+1)
	for i := range treedist {
		treedist[i] = make([]int, m+1)
	}

	lmA, lmB := pa.leftmost, pb.leftmost

	for _, i := range keyroots(pa) {
		for _, j := range keyroots(pb) {
			forestDist(pa, pb, i, j, lmA, lmB, treedist)
		}
	}

	return treedist[n-1][m-1]
}

// forestDist fills in the forest-distance table for the subforests rooted
// at keyroots i and j, then copies the tree-distance cell (i,j) into the
// shared treedist table, exactly as Zhang-Shasha's original two-pass
// algorithm does.
func forestDist(pa, pb *postorder, i, j int, lmA, lmB []int, treedist [][]int) {
	li, lj := lmA[i], lmB[j]

	fdRows := i - li + 2
	fdCols := j - lj + 2
	fd := make([][]int, fdRows)
	for r := range fd {
		fd[r] = make([]int, fdCols)
	}

	for r := 1; r < fdRows; r++ {
		fd[r][0] = fd[r-1][0] + 1
	}
	for c := 1; c < fdCols; c++ {
		fd[0][c] = fd[0][c-1] + 1
	}

	for r := 1; r < fdRows; r++ {
		ii := li + r - 1
		for c := 1; c < fdCols; c++ {
			jj := lj + c - 1

			if lmA[ii] == li && lmB[jj] == lj {
				cost := 0
				if pa.labels[ii] != pb.labels[jj] {
					cost = 1
				}
				fd[r][c] = min3(
					fd[r-1][c]+1,
					fd[r][c-1]+1,
					fd[r-1][c-1]+cost,
				)
				treedist[ii][jj] = fd[r][c]
			} else {
				p := lmA[ii] - li
				q := lmB[jj] - lj
				fd[r][c] = min3(
					fd[r-1][c]+1,
					fd[r][c-1]+1,
					fd[p][q]+treedist[ii][jj],
				)
			}
		}
	}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
