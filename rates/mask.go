package rates

import (
	"math"

	"github.com/rnadyn/ratesig/rmat"
)

// PairValid reports whether a comparison is trustworthy for a gene: a
// pair is masked in precisely when at least one of the two compared
// models has goodness-of-fit p-value at or below the threshold. A poor
// fit on either side is evidence the simpler model is inadequate,
// which is what makes the likelihood-ratio test meaningful. NaN
// goodness-of-fit values never validate a pair.
func PairValid(chisqNull, chisqAlt, cTsh float64) bool {
	return chisqNull <= cTsh || chisqAlt <= cTsh
}

// maskMatrix builds the genes x pairs validity mask, aligned with
// llrMatrix: 1 marks a trustworthy comparison, 0 an ignored one.
func maskMatrix(bank *FitBank, pairs []TestPair, cTsh float64) *rmat.Matrix {
	cols := make([]string, len(pairs))
	for j, p := range pairs {
		cols[j] = p.Name()
	}
	m := rmat.New(bank.Genes(), cols)
	for i, gene := range bank.Genes() {
		for j, p := range pairs {
			chisqNull := chisqOf(bank.Fit(gene, p.Null))
			chisqAlt := chisqOf(bank.Fit(gene, p.Alt))
			if PairValid(chisqNull, chisqAlt, cTsh) {
				m.Set(i, j, 1)
			} else {
				m.Set(i, j, 0)
			}
		}
	}
	return m
}

func chisqOf(f *Fit) float64 {
	if f == nil {
		return math.NaN()
	}
	return f.ChisqPval
}
