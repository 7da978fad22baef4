package main

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/rnadyn/ratesig/checkpoint"
	"github.com/rnadyn/ratesig/rates"
	"github.com/rnadyn/ratesig/rmat"
)

// CallSummary is the whole-run summary output in JSON format.
type CallSummary struct {
	// Version stores ratesig version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// NThreads is the number of processes used.
	NThreads int `json:"nThreads"`
	// TotalTime is the computations time in seconds.
	TotalTime float64 `json:"time"`
	// Files stores one summary per input fit bank.
	Files []FileSummary `json:"files"`
}

// FileSummary is the result of one fit bank.
type FileSummary struct {
	// File is the input file name.
	File string `json:"file"`
	// NGenes is the number of genes in the bank.
	NGenes int `json:"nGenes"`
	// Mode is the model selection mode used ("llr" or "aic").
	Mode string `json:"mode"`
	// Threshold is the chi-squared threshold, absent in aic mode.
	Threshold *float64 `json:"threshold,omitempty"`
	// Checkpointed is true if the result was reused from a checkpoint.
	Checkpointed bool `json:"checkpointed,omitempty"`
	// Rates holds per-rate summary statistics.
	Rates map[string]RateSummary `json:"rates"`
	// Table is the per-gene output table.
	Table []checkpoint.ResultRow `json:"table"`
	// Time is the computation time in seconds.
	Time float64 `json:"computationTime"`
}

// RateSummary holds summary statistics of one output column.
type RateSummary struct {
	// N is the number of genes with a non-missing p-value.
	N int `json:"n"`
	// NSignificant is the number of genes with p <= 0.05.
	NSignificant int `json:"nSignificant"`
	// Median, Min and Max summarize the non-missing p-values.
	Median *float64 `json:"median,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

func fptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// tableRows converts the output table to JSON-friendly rows.
func tableRows(tab *rmat.Matrix) []checkpoint.ResultRow {
	rows := make([]checkpoint.ResultRow, tab.NRows())
	for i, gene := range tab.RowNames() {
		rows[i] = checkpoint.ResultRow{
			Gene:        gene,
			Synthesis:   fptr(tab.At(i, 0)),
			Degradation: fptr(tab.At(i, 1)),
			Processing:  fptr(tab.At(i, 2)),
		}
	}
	return rows
}

// rowsToTable rebuilds the output matrix from checkpointed rows.
func rowsToTable(rows []checkpoint.ResultRow) *rmat.Matrix {
	genes := make([]string, len(rows))
	for i, r := range rows {
		genes[i] = r.Gene
	}
	tab := rmat.New(genes, rates.RateColumns)
	for i, r := range rows {
		tab.Set(i, 0, orNaN(r.Synthesis))
		tab.Set(i, 1, orNaN(r.Degradation))
		tab.Set(i, 2, orNaN(r.Processing))
	}
	return tab
}

// rateSummaries computes per-column summary statistics of the output
// table.
func rateSummaries(tab *rmat.Matrix) map[string]RateSummary {
	res := make(map[string]RateSummary, tab.NCols())
	for j, name := range tab.ColNames() {
		var vals []float64
		nSignif := 0
		for i := 0; i < tab.NRows(); i++ {
			v := tab.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			vals = append(vals, v)
			if v <= 0.05 {
				nSignif++
			}
		}
		s := RateSummary{N: len(vals), NSignificant: nSignif}
		if len(vals) > 0 {
			if m, err := stats.Median(vals); err == nil {
				s.Median = fptr(m)
			}
			if m, err := stats.Min(vals); err == nil {
				s.Min = fptr(m)
			}
			if m, err := stats.Max(vals); err == nil {
				s.Max = fptr(m)
			}
		}
		res[name] = s
	}
	return res
}
