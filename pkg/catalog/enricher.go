package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/model"
)

// Enricher attaches catalog metadata to accepted records, one lookup
// per record. Enrichment is best effort: an individual failure never
// aborts the run, and a dead catalog downgrades the whole run to
// "no enrichment" instead of paying a timeout per record.
type Enricher struct {
	source Source
	logger *zap.Logger
}

// NewEnricher creates a new Enricher. A nil source means enrichment is
// disabled; every record is marked not attempted.
func NewEnricher(source Source, logger *zap.Logger) *Enricher {
	return &Enricher{
		source: source,
		logger: logger,
	}
}

// EnrichAll enriches records in input order, returning the enriched
// records and the enrichment-failure log. The only error returned is
// context cancellation; lookup failures are recorded, not raised.
func (e *Enricher) EnrichAll(ctx context.Context, records []model.TransactionRecord) ([]model.EnrichedRecord, []model.EnrichmentFailure, error) {
	enriched := make([]model.EnrichedRecord, 0, len(records))
	var failures []model.EnrichmentFailure

	if e.source == nil {
		for _, record := range records {
			enriched = append(enriched, notAttempted(record))
		}
		e.logger.Info("Enrichment skipped: no catalog source configured",
			zap.Int("records", len(records)))
		return enriched, failures, nil
	}

	serviceDown := false

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		// Once the service is known to be down, stop trying. This is a
		// deliberate escalation from per-record to whole-run degradation
		// to bound total latency.
		if serviceDown {
			enriched = append(enriched, notAttempted(record))
			continue
		}

		metadata, err := e.source.Lookup(ctx, record.ProductID)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, nil, err
			}

			reason := ClassifyFailure(err)
			failures = append(failures, model.EnrichmentFailure{
				TransactionID: record.TransactionID,
				ProductID:     record.ProductID,
				Reason:        reason,
			})
			enriched = append(enriched, model.EnrichedRecord{
				TransactionRecord: record,
				Status:            model.EnrichmentFailed,
				Failure:           reason,
			})

			if reason == model.FailureServiceUnavailable {
				serviceDown = true
				e.logger.Warn("Catalog unreachable; skipping remaining lookups for this run",
					zap.String("productID", record.ProductID))
			} else {
				e.logger.Debug("Enrichment failed for record",
					zap.String("transactionID", record.TransactionID),
					zap.String("productID", record.ProductID),
					zap.String("reason", string(reason)))
			}
			continue
		}

		enriched = append(enriched, model.EnrichedRecord{
			TransactionRecord: record,
			Status:            model.EnrichmentSucceeded,
			Metadata:          *metadata,
		})
	}

	succeeded := 0
	for _, r := range enriched {
		if r.Enriched() {
			succeeded++
		}
	}

	e.logger.Info("Enrichment complete",
		zap.Int("records", len(records)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(failures)),
		zap.Bool("serviceDown", serviceDown))

	return enriched, failures, nil
}

func notAttempted(record model.TransactionRecord) model.EnrichedRecord {
	return model.EnrichedRecord{
		TransactionRecord: record,
		Status:            model.EnrichmentNotAttempted,
	}
}
