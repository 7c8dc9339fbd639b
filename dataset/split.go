package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Ratios are the train, validation and test proportions of a split.
type Ratios [3]float64

// DefaultRatios is the 60/20/20 split.
func DefaultRatios() Ratios { return Ratios{0.6, 0.2, 0.2} }

// Validate checks that the ratios are positive and sum to one.
func (r Ratios) Validate() error {
	sum := 0.0
	for _, v := range r {
		if v <= 0 {
			return fmt.Errorf("dataset: split ratio %v not positive", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("dataset: split ratios sum to %v, want 1", sum)
	}
	return nil
}

// Partitions holds the three disjoint row subsets of a split dataset.
type Partitions struct {
	Train      *Dataset
	Validation *Dataset
	Test       *Dataset
}

// Split partitions a dataset into train, validation and test subsets,
// stratified on the target column so each subset preserves the label
// proportions. Row counts are exact: every input row lands in exactly one
// partition. The same seed always produces the same partitions.
func Split(ds *Dataset, target string, ratios Ratios, seed int64) (Partitions, error) {
	if err := ratios.Validate(); err != nil {
		return Partitions{}, err
	}
	if ds.Len() == 0 {
		return Partitions{}, fmt.Errorf("dataset: cannot split an empty dataset")
	}
	col := ds.Column(target)
	if col == nil {
		return Partitions{}, fmt.Errorf("dataset: split target %q not found", target)
	}
	if !col.Numeric {
		return Partitions{}, fmt.Errorf("dataset: split target %q is not numeric", target)
	}

	strata := make(map[float64][]int)
	for i, v := range col.Floats {
		strata[v] = append(strata[v], i)
	}
	keys := make([]float64, 0, len(strata))
	for k := range strata {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	rng := rand.New(rand.NewSource(seed))
	var parts [3][]int
	for _, k := range keys {
		idx := strata[k]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		counts := apportion(len(idx), ratios)
		at := 0
		for p, n := range counts {
			parts[p] = append(parts[p], idx[at:at+n]...)
			at += n
		}
	}

	out := Partitions{}
	dst := []**Dataset{&out.Train, &out.Validation, &out.Test}
	for p := range parts {
		sort.Ints(parts[p])
		sub, err := ds.Subset(parts[p])
		if err != nil {
			return Partitions{}, err
		}
		*dst[p] = sub
	}
	return out, nil
}

// apportion divides n rows across the three partitions by the largest
// remainder method, so the counts always sum to n and each count is within
// one row of its exact share. Remainder ties go to the earlier partition.
func apportion(n int, ratios Ratios) [3]int {
	var counts [3]int
	var rem [3]float64
	assigned := 0
	for i, r := range ratios {
		share := float64(n) * r
		counts[i] = int(math.Floor(share))
		rem[i] = share - float64(counts[i])
		assigned += counts[i]
	}
	for assigned < n {
		best := 0
		for i := 1; i < 3; i++ {
			if rem[i] > rem[best] {
				best = i
			}
		}
		counts[best]++
		rem[best] = -1
		assigned++
	}
	return counts
}
