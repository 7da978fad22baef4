/*

Package rates assigns, per gene and per kinetic rate (synthesis,
degradation, processing), a single combined p-value measuring whether
time-dependent variation of that rate is statistically supported by a
bank of nested kinetic models fit to the gene's expression trajectory.

Model fitting itself is out of scope: the package consumes per-gene,
per-model log-likelihoods, parameter counts, chi-squared goodness-of-fit
p-values and AIC scores, and combines pairwise likelihood-ratio tests
(Brown's method) or selects the best model by AIC, depending on the
configuration.

*/
package rates

import (
	"fmt"
	"math"

	"github.com/op/go-logging"

	"github.com/rnadyn/ratesig/rmat"
)

// log is the global logging variable.
var log = logging.MustGetLogger("rates")

// Rate identifies one of the three kinetic rates.
type Rate int

const (
	// Synthesis is the RNA synthesis rate.
	Synthesis Rate = iota
	// Degradation is the RNA degradation rate.
	Degradation
	// Processing is the pre-mRNA processing rate.
	Processing
)

// Rates lists all rate categories in output column order.
var Rates = [...]Rate{Synthesis, Degradation, Processing}

var rateNames = [...]string{"synthesis", "degradation", "processing"}

func (r Rate) String() string {
	return rateNames[r]
}

// Marker returns the model-code letter marking the rate as free.
func (r Rate) Marker() byte {
	return [...]byte{'a', 'b', 'c'}[r]
}

// RateColumns is the fixed column labeling of the output table.
var RateColumns = []string{"synthesis", "degradation", "processing"}

// CanonicalModels is the fixed ordering of model identifiers. A model
// code lists the rates left free during the fit ('a' synthesis,
// 'b' degradation, 'c' processing); "0" holds all three constant.
var CanonicalModels = []string{"0", "a", "b", "c", "ab", "ac", "bc", "abc"}

var validModel = func() map[string]bool {
	v := make(map[string]bool, len(CanonicalModels))
	for _, id := range CanonicalModels {
		v[id] = true
	}
	return v
}()

// Fit stores the outcome of fitting one kinetic model to one gene.
// NaN values mark quantities the fitting procedure could not produce.
type Fit struct {
	// NPar is the number of free parameters of the model.
	NPar int
	// LogLik is the maximized log-likelihood.
	LogLik float64
	// ChisqPval is the chi-squared goodness-of-fit p-value.
	ChisqPval float64
	// AIC is the Akaike information criterion score.
	AIC float64
}

// FitBank holds fitted models for a set of genes. Gene ordering is
// canonical and preserved in every derived matrix and table.
type FitBank struct {
	genes []string
	fits  map[string]map[string]*Fit
}

// NewFitBank creates an empty bank with the given canonical gene order.
func NewFitBank(genes []string) *FitBank {
	return &FitBank{
		genes: genes,
		fits:  make(map[string]map[string]*Fit, len(genes)),
	}
}

// Genes returns the canonical gene ordering.
func (b *FitBank) Genes() []string {
	return b.genes
}

// Add stores a fit for a gene and a model identifier.
func (b *FitBank) Add(gene, model string, f *Fit) error {
	if !validModel[model] {
		return fmt.Errorf("unknown model identifier %q for gene %q", model, gene)
	}
	gf, ok := b.fits[gene]
	if !ok {
		gf = make(map[string]*Fit, len(CanonicalModels))
		b.fits[gene] = gf
	}
	gf[model] = f
	return nil
}

// Fit returns the fit for a gene and a model, nil if absent.
func (b *FitBank) Fit(gene, model string) *Fit {
	return b.fits[gene][model]
}

// Chisqtest returns the genes x models matrix of goodness-of-fit
// p-values, NaN where no fit is available.
func (b *FitBank) Chisqtest() *rmat.Matrix {
	m := rmat.New(b.genes, CanonicalModels)
	for i, gene := range b.genes {
		for j, model := range CanonicalModels {
			if f := b.Fit(gene, model); f != nil {
				m.Set(i, j, f.ChisqPval)
			}
		}
	}
	return m
}

// LogLik returns the genes x models matrix of log-likelihoods, NaN
// where no fit is available.
func (b *FitBank) LogLik() *rmat.Matrix {
	m := rmat.New(b.genes, CanonicalModels)
	for i, gene := range b.genes {
		for j, model := range CanonicalModels {
			if f := b.Fit(gene, model); f != nil {
				m.Set(i, j, f.LogLik)
			}
		}
	}
	return m
}

// AIC returns the genes x models matrix of AIC scores, NaN where no
// fit is available or the score is undefined.
func (b *FitBank) AIC() *rmat.Matrix {
	m := rmat.New(b.genes, CanonicalModels)
	for i, gene := range b.genes {
		for j, model := range CanonicalModels {
			if f := b.Fit(gene, model); f != nil {
				m.Set(i, j, f.AIC)
			}
		}
	}
	return m
}

// TestPair is an ordered nested-model comparison: Null must be nested
// in Alt.
type TestPair struct {
	Null string `json:"null"`
	Alt  string `json:"alt"`
}

// Name returns the canonical column label of the comparison.
func (p TestPair) Name() string {
	return p.Null + "_VS_" + p.Alt
}

// LLRTests holds, per rate category, the ordered list of nested model
// comparisons contributing evidence for that rate's variability.
type LLRTests struct {
	Synthesis   []TestPair `json:"synthesis"`
	Degradation []TestPair `json:"degradation"`
	Processing  []TestPair `json:"processing"`
}

// ForRate returns the comparison list of one rate category.
func (t *LLRTests) ForRate(r Rate) []TestPair {
	switch r {
	case Synthesis:
		return t.Synthesis
	case Degradation:
		return t.Degradation
	case Processing:
		return t.Processing
	}
	return nil
}

// Config is the immutable per-computation configuration.
type Config struct {
	// ModelSelection is "llr" (combined likelihood-ratio tests) or
	// "aic" (best model by AIC).
	ModelSelection string
	// ChisqThreshold is the default goodness-of-fit threshold cTsh.
	ChisqThreshold float64
	// LLRTests lists the nested comparisons per rate category.
	LLRTests LLRTests
}

// DefaultConfig returns the default configuration: llr mode, cTsh=0.1,
// and every nesting step of the model lattice that frees a rate
// contributing to that rate's evidence.
func DefaultConfig() Config {
	return Config{
		ModelSelection: "llr",
		ChisqThreshold: 0.1,
		LLRTests: LLRTests{
			Synthesis: []TestPair{
				{"0", "a"}, {"b", "ab"}, {"c", "ac"}, {"bc", "abc"},
			},
			Degradation: []TestPair{
				{"0", "b"}, {"a", "ab"}, {"c", "bc"}, {"ac", "abc"},
			},
			Processing: []TestPair{
				{"0", "c"}, {"a", "ac"}, {"b", "bc"}, {"ab", "abc"},
			},
		},
	}
}

// Validate checks the comparison lists against the model lattice.
func (c *Config) Validate() error {
	for _, r := range Rates {
		for _, p := range c.LLRTests.ForRate(r) {
			if !validModel[p.Null] || !validModel[p.Alt] {
				return fmt.Errorf("%v: unknown model in comparison %s", r, p.Name())
			}
			if !nested(p.Null, p.Alt) {
				return fmt.Errorf("%v: model %q is not nested in %q", r, p.Null, p.Alt)
			}
		}
	}
	if math.IsNaN(c.ChisqThreshold) {
		return fmt.Errorf("chi-squared threshold is not set")
	}
	return nil
}

// nested reports whether the null model's free rates are a subset of
// the alternative's.
func nested(null, alt string) bool {
	if null == alt {
		return false
	}
	if null == "0" {
		return true
	}
	for i := 0; i < len(null); i++ {
		found := false
		for j := 0; j < len(alt); j++ {
			if null[i] == alt[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
