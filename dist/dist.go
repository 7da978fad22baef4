// Package dist implements chi-squared distribution functions.
package dist

import (
	"github.com/gonum/mathext"
)

/*

IncompleteGamma returns the incomplete gamma ratio I(x,alpha) where x
is the upper limit of the integration and alpha is the shape
parameter.

*/
func IncompleteGamma(x, alpha float64) (gin float64) {
	return mathext.GammaInc(alpha, x)
}

// CDFChi2 returns Prob{x<z} where x is Chi2 distributed with df=v.
func CDFChi2(z, v float64) float64 {
	if z <= 0 {
		return 0
	}
	return IncompleteGamma(z/2, v/2)
}

// SurvChi2 returns the upper tail Prob{x>z} where x is Chi2
// distributed with df=v. This is the p-value of a chi-squared test
// with statistic z.
func SurvChi2(z, v float64) float64 {
	if z <= 0 {
		return 1
	}
	return 1 - IncompleteGamma(z/2, v/2)
}

/*

QuantileChi2 returns z so that Prob{x<z}=prob where x is Chi2
distributed with df=v.

returns -1 if in error. 0.000002<prob<0.999998

*/
func QuantileChi2(prob, v float64) float64 {
	small := 1e-6
	if prob < small {
		return 0
	}
	if prob > 1-small {
		return 9999
	}
	if v <= 0 {
		return -1
	}

	// CDFChi2 is monotone in z; bisect on an exponentially grown
	// bracket.
	hi := v + 1
	for CDFChi2(hi, v) < prob {
		hi *= 2
	}
	lo := 0.0
	for i := 0; i < 200 && hi-lo > 1e-12*(1+hi); i++ {
		mid := (lo + hi) / 2
		if CDFChi2(mid, v) < prob {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// QuantileNormal returns quantile for normal distribution.
func QuantileNormal(prob float64) float64 {
	return mathext.NormalQuantile(prob)
}
