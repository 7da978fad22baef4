package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/rnadyn/ratesig/rates"
)

// fitJSON is one model fit in the input document. Absent numeric
// fields become NaN; an absent aic is derived as 2k-2lnL.
type fitJSON struct {
	NPar   int      `json:"npar"`
	LogLik *float64 `json:"logLik"`
	Chisq  *float64 `json:"chisq"`
	AIC    *float64 `json:"aic"`
}

// geneJSON is one gene with its fitted-model bank. Genes are an
// array: document order is the canonical gene ordering.
type geneJSON struct {
	ID     string             `json:"id"`
	Models map[string]fitJSON `json:"models"`
}

// bankJSON is the input document. Configuration fields are optional
// and fall back to the defaults.
type bankJSON struct {
	ModelSelection string          `json:"modelSelection,omitempty"`
	Threshold      *float64        `json:"threshold,omitempty"`
	LLRTests       *rates.LLRTests `json:"llrtests,omitempty"`
	Genes          []geneJSON      `json:"genes"`
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// readBank parses an input document into a gene model.
func readBank(r io.Reader) (*rates.GeneModel, error) {
	var doc bankJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing fit bank: %v", err)
	}
	if len(doc.Genes) == 0 {
		return nil, fmt.Errorf("fit bank has no genes")
	}

	cfg := rates.DefaultConfig()
	if doc.ModelSelection != "" {
		cfg.ModelSelection = doc.ModelSelection
	}
	if doc.Threshold != nil {
		cfg.ChisqThreshold = *doc.Threshold
	}
	if doc.LLRTests != nil {
		cfg.LLRTests = *doc.LLRTests
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	geneIDs := make([]string, len(doc.Genes))
	for i, g := range doc.Genes {
		if g.ID == "" {
			return nil, fmt.Errorf("gene %d has no id", i)
		}
		geneIDs[i] = g.ID
	}

	bank := rates.NewFitBank(geneIDs)
	for _, g := range doc.Genes {
		for model, fj := range g.Models {
			lnL := orNaN(fj.LogLik)
			aic := orNaN(fj.AIC)
			if fj.AIC == nil && !math.IsNaN(lnL) {
				aic = 2*float64(fj.NPar) - 2*lnL
			}
			f := &rates.Fit{
				NPar:      fj.NPar,
				LogLik:    lnL,
				ChisqPval: orNaN(fj.Chisq),
				AIC:       aic,
			}
			if err := bank.Add(g.ID, model, f); err != nil {
				return nil, err
			}
		}
	}

	return &rates.GeneModel{Bank: bank, Config: cfg}, nil
}
