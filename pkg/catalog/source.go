package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/config"
	"github.com/salesops/sales-ingress/pkg/model"
)

// Lookup failure classes. Callers match with errors.Is; anything that
// does not match one of these is treated as service-unavailable.
var (
	// ErrNotFound means the catalog has no entry for the product.
	ErrNotFound = errors.New("product not found in catalog")
	// ErrTimeout means the lookup exceeded the per-call timeout.
	ErrTimeout = errors.New("catalog lookup timed out")
	// ErrServiceUnavailable means the catalog could not be reached or
	// answered with a server error.
	ErrServiceUnavailable = errors.New("catalog service unavailable")
)

// Source is a read-only product metadata source keyed by product id.
type Source interface {
	// Lookup fetches metadata for one product. Absence of individual
	// response fields is not an error; a missing product is.
	Lookup(ctx context.Context, productID string) (*model.ProductMetadata, error)
}

// NewSource builds the configured catalog source. Returns nil when
// enrichment is disabled by configuration; the enricher treats a nil
// source as "mark everything not attempted".
func NewSource(cfg *config.Config, logger *zap.Logger) Source {
	if !cfg.EnrichmentEnabled() {
		logger.Info("Catalog enrichment disabled by configuration")
		return nil
	}

	logger.Info("Creating catalog HTTP source",
		zap.String("baseURL", cfg.CatalogBaseURL),
		zap.Duration("timeout", cfg.CatalogTimeout))

	return NewHTTPSource(cfg.CatalogBaseURL, cfg.CatalogTimeout, logger)
}

// ClassifyFailure maps a lookup error onto the closed failure-reason
// set recorded in the enrichment-failure log.
func ClassifyFailure(err error) model.FailureReason {
	switch {
	case errors.Is(err, ErrNotFound):
		return model.FailureNotFound
	case errors.Is(err, ErrTimeout):
		return model.FailureTimeout
	default:
		return model.FailureServiceUnavailable
	}
}
