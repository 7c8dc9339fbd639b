package booster

import "sort"

// node is one node of a regression tree in the flat Nodes slice. Feature
// -1 marks a leaf carrying Value; interior nodes route rows with value <
// Threshold to Left and the rest to Right.
type node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Gain      float64 `json:"gain,omitempty"`
}

type tree struct {
	Nodes []node `json:"nodes"`
}

// predictCols walks the tree for row r of a column-major matrix.
func (t *tree) predictCols(cols [][]float64, r int) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if cols[n.Feature][r] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// predictRow walks the tree for a single row-major feature vector.
func (t *tree) predictRow(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// grower builds one tree against the current gradients. Splits are exact
// greedy: every feature, every boundary between distinct adjacent values.
type grower struct {
	cols       [][]float64
	grad, hess []float64
	p          Params
	nodes      []node
}

func growTree(cols [][]float64, grad, hess []float64, rows []int, p Params) tree {
	g := &grower{cols: cols, grad: grad, hess: hess, p: p}
	g.build(rows, 0)
	return tree{Nodes: g.nodes}
}

// build appends the subtree for rows and returns its root index. Children
// are linked by index after the recursive calls because appends may move
// the backing array.
func (g *grower) build(rows []int, depth int) int {
	var gSum, hSum float64
	for _, r := range rows {
		gSum += g.grad[r]
		hSum += g.hess[r]
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, node{Feature: -1})

	if depth >= g.p.MaxDepth || len(rows) < 2 {
		g.nodes[idx].Value = -gSum / (hSum + g.p.Lambda)
		return idx
	}
	feat, thr, gain, ok := g.bestSplit(rows, gSum, hSum)
	if !ok {
		g.nodes[idx].Value = -gSum / (hSum + g.p.Lambda)
		return idx
	}
	left, right := splitRows(rows, g.cols[feat], thr)
	g.nodes[idx].Feature = feat
	g.nodes[idx].Threshold = thr
	g.nodes[idx].Gain = gain
	g.nodes[idx].Left = g.build(left, depth+1)
	g.nodes[idx].Right = g.build(right, depth+1)
	return idx
}

// bestSplit scans every feature for the highest-gain split. Gain is the
// regularized loss reduction; only strictly positive gains split. Ties
// keep the first candidate in scan order, so growth is deterministic.
func (g *grower) bestSplit(rows []int, gSum, hSum float64) (feat int, thr, gain float64, ok bool) {
	lam := g.p.Lambda
	parent := gSum * gSum / (hSum + lam)
	order := make([]int, len(rows))
	for f := range g.cols {
		col := g.cols[f]
		copy(order, rows)
		sort.Slice(order, func(i, j int) bool {
			if col[order[i]] != col[order[j]] {
				return col[order[i]] < col[order[j]]
			}
			return order[i] < order[j]
		})
		var gl, hl float64
		for i := 0; i < len(order)-1; i++ {
			r := order[i]
			gl += g.grad[r]
			hl += g.hess[r]
			v, next := col[r], col[order[i+1]]
			if v == next {
				continue
			}
			gr, hr := gSum-gl, hSum-hl
			if hl < g.p.MinChildWeight || hr < g.p.MinChildWeight {
				continue
			}
			cand := 0.5*(gl*gl/(hl+lam)+gr*gr/(hr+lam)-parent) - g.p.Gamma
			if cand > gain {
				feat, thr, gain, ok = f, (v+next)/2, cand, true
			}
		}
	}
	return feat, thr, gain, ok
}

func splitRows(rows []int, col []float64, thr float64) (left, right []int) {
	for _, r := range rows {
		if col[r] < thr {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}
