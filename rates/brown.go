package rates

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rnadyn/ratesig/dist"
	"github.com/rnadyn/ratesig/rmat"
)

// minPval guards the log transform against p=0.
const minPval = 1e-300

// transCov estimates the covariance matrix of the transformed test
// statistics x=-2*ln(p) across genes, pairwise-complete. Tests run on
// the same expression trajectories are not independent; the empirical
// covariance of their transformed p-value columns captures that
// dependence (Empirical Brown's Method). Entries that cannot be
// estimated (fewer than two complete observations) are left at zero,
// degrading gracefully to Fisher's independent combination.
func transCov(pvals *rmat.Matrix) [][]float64 {
	k := pvals.NCols()
	trans := make([][]float64, k)
	for j := 0; j < k; j++ {
		col := pvals.Col(j)
		for i, p := range col {
			col[i] = trans2Log(p)
		}
		trans[j] = col
	}

	cov := make([][]float64, k)
	for j := range cov {
		cov[j] = make([]float64, k)
	}
	for j1 := 0; j1 < k; j1++ {
		for j2 := j1; j2 < k; j2++ {
			var xs, ys []float64
			for i := 0; i < pvals.NRows(); i++ {
				x, y := trans[j1][i], trans[j2][i]
				if math.IsNaN(x) || math.IsNaN(y) {
					continue
				}
				xs = append(xs, x)
				ys = append(ys, y)
			}
			if len(xs) < 2 {
				continue
			}
			c := stat.Covariance(xs, ys, nil)
			cov[j1][j2] = c
			cov[j2][j1] = c
		}
	}
	return cov
}

// trans2Log returns -2*ln(p), NaN for missing input.
func trans2Log(p float64) float64 {
	if math.IsNaN(p) {
		return math.NaN()
	}
	if p < minPval {
		p = minPval
	}
	if p > 1 {
		p = 1
	}
	return -2 * math.Log(p)
}

// Combine merges one gene's p-values into a single p-value using
// Brown's method. valid is the parallel mask row (non-zero marks a
// trustworthy test), cov the covariance of the transformed statistics
// as estimated by transCov (nil means independence).
//
// No valid test yields the neutral value 1: no trustworthy test fired,
// so there is no evidence against the null. A single valid test is
// passed through unchanged. NaN values among the valid tests are
// dropped; if all valid tests are NaN the result is NaN. The result is
// always in [0,1] or NaN.
func Combine(pvals, valid []float64, cov [][]float64) float64 {
	var sel []int
	for j, v := range valid {
		if v == 0 {
			continue
		}
		if math.IsNaN(pvals[j]) {
			continue
		}
		sel = append(sel, j)
	}

	anyValid := false
	for _, v := range valid {
		if v != 0 {
			anyValid = true
			break
		}
	}
	if !anyValid {
		return 1
	}
	if len(sel) == 0 {
		// valid tests existed but none produced a value
		return math.NaN()
	}
	if len(sel) == 1 {
		return clamp01(pvals[sel[0]])
	}

	x := 0.0
	for _, j := range sel {
		x += trans2Log(pvals[j])
	}

	k := float64(len(sel))
	e := 2 * k
	v := 4 * k
	if cov != nil {
		for a := 0; a < len(sel); a++ {
			for b := a + 1; b < len(sel); b++ {
				v += 2 * cov[sel[a]][sel[b]]
			}
		}
	}
	if v <= 0 {
		v = 4 * k
	}

	c := v / (2 * e)
	f := 2 * e * e / v
	return clamp01(dist.SurvChi2(x/c, f))
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
