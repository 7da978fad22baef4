package rates

import (
	"math"
	"strings"

	"github.com/rnadyn/ratesig/rmat"
)

// ratePvalsAIC produces the output table by best-model selection: per
// gene, the model with the lowest AIC wins (missing scores count as
// +Inf, ties go to the earliest model in the canonical ordering) and
// its own goodness-of-fit p-value is reported for every rate the
// winning model leaves free. Rates held constant by the winner get the
// neutral value 1: the preferred model saw no need to vary them.
func ratePvalsAIC(bank *FitBank) *rmat.Matrix {
	out := rmat.New(bank.Genes(), RateColumns)

	for i, gene := range bank.Genes() {
		best := ""
		bestAIC := math.Inf(1)
		for _, model := range CanonicalModels {
			f := bank.Fit(gene, model)
			if f == nil {
				continue
			}
			aic := f.AIC
			if math.IsNaN(aic) {
				aic = math.Inf(1)
			}
			if aic < bestAIC {
				bestAIC = aic
				best = model
			}
		}

		if best == "" {
			// no usable AIC at all: no model preferred, no evidence
			for _, r := range Rates {
				out.Set(i, int(r), 1)
			}
			continue
		}

		evidence := bank.Fit(gene, best).ChisqPval
		for _, r := range Rates {
			if strings.IndexByte(best, r.Marker()) >= 0 {
				out.Set(i, int(r), clamp01(evidence))
			} else {
				out.Set(i, int(r), 1)
			}
		}
	}

	return out
}
