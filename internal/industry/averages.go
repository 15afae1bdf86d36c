// Package industry aggregates peer-relative benchmarks across the
// screened universe.
package industry

import (
	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// Peer is one company's contribution to its industry benchmark.
type Peer struct {
	Ticker   string
	Industry string
	PE       contracts.Metric
}

// Calculator computes per-industry mean PE ratios. A company being
// benchmarked is itself part of its industry's mean.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates an industry average calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// Calculate returns the arithmetic mean PE per industry. Peers without
// a computable PE, typically loss-makers, contribute to neither the sum
// nor the count. Industries with zero computable peers are absent from
// the result, as are peers with no industry classification.
func (c *Calculator) Calculate(peers []Peer) contracts.IndustryAverages {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, p := range peers {
		if p.Industry == "" || !p.PE.Valid {
			continue
		}
		sums[p.Industry] += p.PE.Value
		counts[p.Industry]++
	}

	averages := make(contracts.IndustryAverages, len(sums))
	for ind, sum := range sums {
		averages[ind] = contracts.IndustryAverage{
			Industry:  ind,
			MeanPE:    sum / float64(counts[ind]),
			PeerCount: counts[ind],
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"industries": len(averages),
		"peers":      len(peers),
	}).Debug("Calculated industry PE averages")

	return averages
}
