package rates

import (
	"math"
	"strings"
	"testing"
)

func TestDispatchUnknownMode(tst *testing.T) {
	m := scenarioModel()
	m.Config.ModelSelection = "bayes"
	_, err := m.RatePvals(math.NaN())
	if err == nil {
		tst.Fatal("Expected error for unknown mode")
	}
	if !strings.Contains(err.Error(), "bayes") {
		tst.Error("Error should name the offending mode:", err)
	}
}

func TestDispatchMissingThreshold(tst *testing.T) {
	m := scenarioModel()
	m.Config.ChisqThreshold = math.NaN()
	if _, err := m.RatePvals(math.NaN()); err == nil {
		tst.Error("Expected error when no threshold is available")
	}
	// an explicit call threshold resolves it
	if _, err := m.RatePvals(0.05); err != nil {
		tst.Error("Unexpected error with explicit threshold:", err)
	}
}

func TestDispatchAICPath(tst *testing.T) {
	m := scenarioModel()
	m.Config.ModelSelection = "aic"
	// the aic path needs no threshold
	m.Config.ChisqThreshold = math.NaN()
	tab, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if tab.NRows() != 2 || tab.NCols() != 3 {
		tst.Error("Wrong table shape:", tab.NRows(), tab.NCols())
	}
}

func TestExperimentForwards(tst *testing.T) {
	m := scenarioModel()
	e := &Experiment{Model: m}

	direct, err := m.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	wrapped, err := e.RatePvals(math.NaN())
	if err != nil {
		tst.Fatal("Error:", err)
	}
	for i := 0; i < direct.NRows(); i++ {
		for j := 0; j < direct.NCols(); j++ {
			a, b := direct.At(i, j), wrapped.At(i, j)
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				tst.Error("Wrapper changed the result at", i, j, ":", a, b)
			}
		}
	}
}

func TestConfigValidate(tst *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		tst.Error("Default configuration should validate:", err)
	}

	cfg.LLRTests.Synthesis = []TestPair{{"ab", "a"}}
	if err := cfg.Validate(); err == nil {
		tst.Error("Expected error for non-nested pair")
	}

	cfg = DefaultConfig()
	cfg.LLRTests.Degradation = []TestPair{{"0", "xyz"}}
	if err := cfg.Validate(); err == nil {
		tst.Error("Expected error for unknown model identifier")
	}
}

func TestFitBankAddUnknownModel(tst *testing.T) {
	bank := NewFitBank([]string{"g1"})
	if err := bank.Add("g1", "z", &Fit{}); err == nil {
		tst.Error("Expected error for unknown model identifier")
	}
	if err := bank.Add("g1", "abc", &Fit{}); err != nil {
		tst.Error("Unexpected error:", err)
	}
}
