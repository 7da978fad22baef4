package rates

import (
	"math"

	"github.com/rnadyn/ratesig/dist"
	"github.com/rnadyn/ratesig/rmat"
)

// LLRPval performs the likelihood-ratio test of a nested model pair.
// The statistic D=2*(lnL1-lnL0) is referred to a chi-squared
// distribution with df equal to the difference in free parameters.
// Degenerate input (missing fits, non-positive df, non-finite
// likelihoods) yields NaN: a single unusable comparison must not
// abort the batch.
func LLRPval(null, alt *Fit) float64 {
	if null == nil || alt == nil {
		return math.NaN()
	}
	df := float64(alt.NPar - null.NPar)
	if df <= 0 {
		return math.NaN()
	}
	d := 2 * (alt.LogLik - null.LogLik)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return math.NaN()
	}
	return dist.SurvChi2(d, df)
}

// llrMatrix runs the tester over every (gene, pair) combination. The
// result is always genes x pairs, also for a single comparison.
func llrMatrix(bank *FitBank, pairs []TestPair) *rmat.Matrix {
	cols := make([]string, len(pairs))
	for j, p := range pairs {
		cols[j] = p.Name()
	}
	m := rmat.New(bank.Genes(), cols)
	for i, gene := range bank.Genes() {
		for j, p := range pairs {
			m.Set(i, j, LLRPval(bank.Fit(gene, p.Null), bank.Fit(gene, p.Alt)))
		}
	}
	return m
}
