package rates

import (
	"fmt"
	"math"

	"github.com/rnadyn/ratesig/rmat"
)

// GeneModel couples a fit bank with its stored configuration. The
// computation itself is pure: every call reads an immutable snapshot
// and returns a fresh table.
type GeneModel struct {
	Bank   *FitBank
	Config Config
}

// RatePvals computes one combined p-value per gene per rate. The
// result has one row per gene in canonical order and the three columns
// synthesis, degradation and processing, values in [0,1] or NaN.
//
// cTsh overrides the stored chi-squared threshold; pass NaN to use the
// stored one. The configuration's model selection mode routes between
// the likelihood-ratio path and the AIC path.
func (m *GeneModel) RatePvals(cTsh float64) (*rmat.Matrix, error) {
	if math.IsNaN(cTsh) {
		cTsh = m.Config.ChisqThreshold
	}

	switch m.Config.ModelSelection {
	case "llr":
		if math.IsNaN(cTsh) {
			return nil, fmt.Errorf("chi-squared threshold set neither per call nor in the configuration")
		}
		log.Infof("Combining likelihood-ratio tests, chi-squared threshold %g", cTsh)
		return ratePvalsLLR(m.Bank, &m.Config.LLRTests, cTsh)
	case "aic":
		log.Info("Selecting best model per gene by AIC")
		return ratePvalsAIC(m.Bank), nil
	}
	return nil, fmt.Errorf("unknown model selection mode %q (expected \"llr\" or \"aic\")", m.Config.ModelSelection)
}

// Experiment wraps a GeneModel; it carries no logic of its own and
// forwards the computation unchanged.
type Experiment struct {
	Model *GeneModel
}

// RatePvals forwards to the wrapped model.
func (e *Experiment) RatePvals(cTsh float64) (*rmat.Matrix, error) {
	return e.Model.RatePvals(cTsh)
}
