package rates

import (
	"math"
	"testing"

	"github.com/rnadyn/ratesig/dist"
)

// scenarioModel builds a two-gene bank with one comparison per rate:
// gene1 p-values {synthesis: 0.02, degradation: 0.4, processing: NaN},
// all masked in; gene2 all masked out.
func scenarioModel() *GeneModel {
	bank := NewFitBank([]string{"g1", "g2"})

	// gene1: good evidence for the simpler model being inadequate
	bank.Add("g1", "0", &Fit{NPar: 3, LogLik: 0, ChisqPval: 0.01})
	bank.Add("g1", "a", &Fit{NPar: 4, LogLik: dist.QuantileChi2(0.98, 1) / 2, ChisqPval: 0.01})
	bank.Add("g1", "b", &Fit{NPar: 4, LogLik: dist.QuantileChi2(0.6, 1) / 2, ChisqPval: 0.01})
	// processing fit did not converge
	bank.Add("g1", "c", &Fit{NPar: 4, LogLik: math.NaN(), ChisqPval: 0.01})

	// gene2: every model fits well, nothing to test
	bank.Add("g2", "0", &Fit{NPar: 3, LogLik: 0, ChisqPval: 0.9})
	bank.Add("g2", "a", &Fit{NPar: 4, LogLik: 1, ChisqPval: 0.9})
	bank.Add("g2", "b", &Fit{NPar: 4, LogLik: 1, ChisqPval: 0.9})
	bank.Add("g2", "c", &Fit{NPar: 4, LogLik: 1, ChisqPval: 0.9})

	return &GeneModel{
		Bank: bank,
		Config: Config{
			ModelSelection: "llr",
			ChisqThreshold: 0.05,
			LLRTests: LLRTests{
				Synthesis:   []TestPair{{"0", "a"}},
				Degradation: []TestPair{{"0", "b"}},
				Processing:  []TestPair{{"0", "c"}},
			},
		},
	}
}

func TestRatePvalsScenario(tst *testing.T) {
	m := scenarioModel()
	tab, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if tab.NRows() != 2 || tab.NCols() != 3 {
		tst.Fatal("Wrong table shape:", tab.NRows(), tab.NCols())
	}
	if tab.RowNames()[0] != "g1" || tab.RowNames()[1] != "g2" {
		tst.Error("Gene ordering not preserved:", tab.RowNames())
	}

	if !appreq(tab.At(0, 0), 0.02) {
		tst.Error("Wrong gene1 synthesis p-value:", tab.At(0, 0))
	}
	if !appreq(tab.At(0, 1), 0.4) {
		tst.Error("Wrong gene1 degradation p-value:", tab.At(0, 1))
	}
	if !math.IsNaN(tab.At(0, 2)) {
		tst.Error("Expected NaN gene1 processing p-value:", tab.At(0, 2))
	}

	for j := 0; j < 3; j++ {
		if tab.At(1, j) != 1 {
			tst.Error("Masked-out gene2 should be neutral, column", j, ":", tab.At(1, j))
		}
	}
}

// TestRatePvalsSingleComparison checks that with one configured pair
// the combined value equals the raw tester output, bypassing Brown's
// method.
func TestRatePvalsSingleComparison(tst *testing.T) {
	m := scenarioModel()
	tab, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	raw := LLRPval(m.Bank.Fit("g1", "0"), m.Bank.Fit("g1", "a"))
	if tab.At(0, 0) != raw {
		tst.Error("Combined value differs from raw tester output:",
			tab.At(0, 0), raw)
	}
}

func TestRatePvalsNoFitGene(tst *testing.T) {
	m := scenarioModel()
	// a gene with no fit for any referenced model
	m.Bank = NewFitBank([]string{"g1", "orphan"})
	m.Bank.Add("g1", "0", &Fit{NPar: 3, LogLik: 0, ChisqPval: 0.01})
	m.Bank.Add("g1", "a", &Fit{NPar: 4, LogLik: 2, ChisqPval: 0.01})

	tab, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	for j := 0; j < 3; j++ {
		if !math.IsNaN(tab.At(1, j)) {
			tst.Error("Gene without fits should be NaN, column", j, ":", tab.At(1, j))
		}
	}
}

func TestRatePvalsRange(tst *testing.T) {
	m := scenarioModel()
	m.Config.LLRTests = DefaultConfig().LLRTests
	tab, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	for i := 0; i < tab.NRows(); i++ {
		for j := 0; j < tab.NCols(); j++ {
			v := tab.At(i, j)
			if !math.IsNaN(v) && (v < 0 || v > 1) {
				tst.Error("Value out of range at", i, j, ":", v)
			}
		}
	}
}

func TestRatePvalsIdempotent(tst *testing.T) {
	m := scenarioModel()
	tab1, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	tab2, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	for i := 0; i < tab1.NRows(); i++ {
		for j := 0; j < tab1.NCols(); j++ {
			a, b := tab1.At(i, j), tab2.At(i, j)
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				tst.Error("Results differ between identical calls at", i, j, ":", a, b)
			}
		}
	}
}

func TestRatePvalsThresholdOverride(tst *testing.T) {
	m := scenarioModel()
	// tighten the threshold below every chi-squared p-value: all
	// pairs masked out, every gene neutral
	tab, err := m.RatePvals(0.001)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	for i := 0; i < tab.NRows(); i++ {
		for j := 0; j < tab.NCols(); j++ {
			if tab.At(i, j) != 1 {
				tst.Error("Expected neutral value at", i, j, ":", tab.At(i, j))
			}
		}
	}
}

func TestRatePvalsEmptyComparisonList(tst *testing.T) {
	m := scenarioModel()
	m.Config.LLRTests.Processing = nil
	tab, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	for i := 0; i < tab.NRows(); i++ {
		if tab.At(i, 2) != 1 {
			tst.Error("Unconfigured rate should be neutral:", tab.At(i, 2))
		}
	}
}
