// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"

	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/config"
	"github.com/salesops/sales-ingress/pkg/model"
)

// Cleaner applies the validation rules to parsed candidates and splits
// them into accepted records and a rejection log. Rules run in a fixed
// order and the first failure wins, so every rejection carries exactly
// one reason code.
type Cleaner struct {
	rules  *config.Rules
	logger *zap.Logger
}

// NewCleaner creates a new Cleaner instance
func NewCleaner(rules *config.Rules, logger *zap.Logger) (*Cleaner, error) {
	if rules == nil {
		return nil, errors.New("rules cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Cleaner{
		rules:  rules,
		logger: logger,
	}, nil
}

// CleanAll validates candidates in input order. Accepted records come
// back in the same order they arrived; rejected lines go to the log.
// No record is mutated after acceptance.
func (c *Cleaner) CleanAll(candidates []model.Candidate) ([]model.TransactionRecord, []model.Rejection) {
	chain := c.buildChain()

	accepted := make([]model.TransactionRecord, 0, len(candidates))
	var rejections []model.Rejection

	for _, candidate := range candidates {
		record, rejection := chain.run(candidate)
		if rejection != nil {
			c.logger.Debug("Rejected record",
				zap.Int("line", candidate.Line.Number),
				zap.String("reason", string(rejection.Reason)),
				zap.String("detail", rejection.Detail))
			rejections = append(rejections, *rejection)
			continue
		}
		accepted = append(accepted, *record)
	}

	c.logger.Info("Validation complete",
		zap.Int("accepted", len(accepted)),
		zap.Int("rejected", len(rejections)))

	return accepted, rejections
}
