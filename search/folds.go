package search

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// stratifiedFolds deals every row into one of k folds, stratified on the
// label so each fold carries its share of each class, within one row.
// Rows are shuffled by seed before dealing; the same seed always builds
// the same folds.
func stratifiedFolds(y []float64, k int, seed int64) [][]int {
	byClass := make(map[float64][]int)
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}
	classes := make([]float64, 0, len(byClass))
	for v := range byClass {
		classes = append(classes, v)
	}
	sort.Float64s(classes)

	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)
	for _, class := range classes {
		idx := byClass[class]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for i, r := range idx {
			folds[i%k] = append(folds[i%k], r)
		}
	}
	for i := range folds {
		sort.Ints(folds[i])
	}
	return folds
}

// foldData is one train/held-out pair of a cross-validation round.
type foldData struct {
	trainX, heldX *mat.Dense
	trainY, heldY []float64
}

// buildFolds materializes the k train/held-out pairs once, shared by every
// candidate.
func buildFolds(x *mat.Dense, y []float64, k int, seed int64) []foldData {
	folds := stratifiedFolds(y, k, seed)
	out := make([]foldData, k)
	for i := range folds {
		held := folds[i]
		train := make([]int, 0, len(y)-len(held))
		for j := range folds {
			if j != i {
				train = append(train, folds[j]...)
			}
		}
		sort.Ints(train)
		out[i] = foldData{
			trainX: takeRows(x, train),
			heldX:  takeRows(x, held),
			trainY: takeFloats(y, train),
			heldY:  takeFloats(y, held),
		}
	}
	return out
}

func takeRows(x *mat.Dense, rows []int) *mat.Dense {
	_, cols := x.Dims()
	out := mat.NewDense(len(rows), cols, nil)
	for i, r := range rows {
		out.SetRow(i, x.RawRowView(r))
	}
	return out
}

func takeFloats(v []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = v[r]
	}
	return out
}
