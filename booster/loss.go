package booster

import "math"

// minHess keeps hessians away from zero so leaf weights stay finite.
const minHess = 1e-16

// sigmoid maps a margin to a probability without overflowing for large
// negative inputs.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// logOdds is the inverse of sigmoid, with p clamped away from 0 and 1.
func logOdds(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return math.Log(p / (1 - p))
}

// gradHess fills the first and second derivatives of the logistic loss at
// the current margins.
func gradHess(margin, y, grad, hess []float64) {
	for i, m := range margin {
		p := sigmoid(m)
		grad[i] = p - y[i]
		h := p * (1 - p)
		if h < minHess {
			h = minHess
		}
		hess[i] = h
	}
}

// logLoss is the mean negative log likelihood at the given margins.
func logLoss(margin, y []float64) float64 {
	const eps = 1e-12
	sum := 0.0
	for i, m := range margin {
		p := sigmoid(m)
		if p < eps {
			p = eps
		}
		if p > 1-eps {
			p = 1 - eps
		}
		if y[i] == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(margin))
}
