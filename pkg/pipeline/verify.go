package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/model"
)

// Verifier cross-checks the pipeline's bookkeeping before any output
// is written. Every check here is an internal invariant: a failure
// means the pipeline itself miscounted, not that the input was bad.
type Verifier struct {
	logger *zap.Logger
}

// NewVerifier creates a new Verifier instance
func NewVerifier(logger *zap.Logger) *Verifier {
	return &Verifier{logger: logger}
}

// Verify checks that the run's counts and totals are consistent:
// every input line is accounted for exactly once, and the aggregated
// region revenue matches the sum of accepted line totals.
func (v *Verifier) Verify(totalLines int, records []model.EnrichedRecord, rejections []model.Rejection, set *model.AggregateSet) error {
	if got := len(records) + len(rejections); got != totalLines {
		return fmt.Errorf("%w: %d accepted + %d rejected != %d input lines",
			ErrVerification, len(records), len(rejections), totalLines)
	}

	lineTotal := decimal.Zero
	for _, r := range records {
		lineTotal = lineTotal.Add(r.LineTotal())
	}

	regionTotal := decimal.Zero
	for _, g := range set.ByRegion {
		regionTotal = regionTotal.Add(g.Revenue)
	}

	if !lineTotal.Equal(regionTotal) {
		return fmt.Errorf("%w: region revenue %s != accepted line total %s",
			ErrVerification, regionTotal.String(), lineTotal.String())
	}

	v.logger.Debug("Verification passed",
		zap.Int("totalLines", totalLines),
		zap.Int("accepted", len(records)),
		zap.Int("rejected", len(rejections)),
		zap.String("totalRevenue", lineTotal.String()))

	return nil
}
