package rates

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/rnadyn/ratesig/rmat"
)

// ratePvalsLLR produces the genes x {synthesis, degradation,
// processing} table of combined p-values from pairwise
// likelihood-ratio tests. For every rate category it builds the LLR
// p-value matrix and the aligned validity mask over the configured
// comparison list and combines each gene's valid tests with Brown's
// method. Genes are independent, so rows are processed by a worker
// pool.
func ratePvalsLLR(bank *FitBank, tests *LLRTests, cTsh float64) (*rmat.Matrix, error) {
	out := rmat.New(bank.Genes(), RateColumns)

	for _, r := range Rates {
		pairs := tests.ForRate(r)
		log.Debugf("%v: %d comparison(s)", r, len(pairs))
		if len(pairs) == 0 {
			// no configured comparison: no evidence against the null
			for i := range bank.Genes() {
				out.Set(i, int(r), 1)
			}
			continue
		}

		pvals := llrMatrix(bank, pairs)
		mask := maskMatrix(bank, pairs, cTsh)
		if err := pvals.CheckAligned(mask); err != nil {
			return nil, fmt.Errorf("%v: mask misaligned with p-value matrix: %v", r, err)
		}

		cov := transCov(pvals)

		// set of models referenced by this category's comparisons;
		// a gene with no fit for any of them gets NaN, not 1
		referenced := make(map[string]bool, 2*len(pairs))
		for _, p := range pairs {
			referenced[p.Null] = true
			referenced[p.Alt] = true
		}

		nWorkers := runtime.GOMAXPROCS(0)
		tasks := make(chan int, len(bank.Genes()))
		var wg sync.WaitGroup
		for w := 0; w < nWorkers; w++ {
			wg.Add(1)
			go func() {
				for i := range tasks {
					gene := bank.Genes()[i]
					hasFit := false
					for model := range referenced {
						if bank.Fit(gene, model) != nil {
							hasFit = true
							break
						}
					}
					if !hasFit {
						out.Set(i, int(r), math.NaN())
						continue
					}
					out.Set(i, int(r), Combine(pvals.Row(i), mask.Row(i), cov))
				}
				wg.Done()
			}()
		}
		for i := range bank.Genes() {
			tasks <- i
		}
		close(tasks)
		wg.Wait()
	}

	return out, nil
}
