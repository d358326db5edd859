package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/model"
)

// fakeSource scripts per-product lookup outcomes and counts calls.
type fakeSource struct {
	metadata map[string]*model.ProductMetadata
	errs     map[string]error
	calls    int
}

func (f *fakeSource) Lookup(_ context.Context, productID string) (*model.ProductMetadata, error) {
	f.calls++
	if err, ok := f.errs[productID]; ok {
		return nil, err
	}
	if m, ok := f.metadata[productID]; ok {
		return m, nil
	}
	return nil, ErrNotFound
}

func record(txID, productID string) model.TransactionRecord {
	return model.TransactionRecord{
		TransactionID: txID,
		CustomerID:    "C001",
		ProductID:     productID,
		Region:        "North",
		Quantity:      1,
	}
}

func TestEnrichAll_Success(t *testing.T) {
	source := &fakeSource{metadata: map[string]*model.ProductMetadata{
		"P101": {Title: "Laptop", Category: "electronics", Brand: "Acme"},
	}}
	e := NewEnricher(source, zap.NewNop())

	enriched, failures, err := e.EnrichAll(context.Background(), []model.TransactionRecord{
		record("T001", "P101"),
	})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, enriched, 1)

	assert.Equal(t, model.EnrichmentSucceeded, enriched[0].Status)
	assert.True(t, enriched[0].Enriched())
	assert.Equal(t, "Laptop", enriched[0].Metadata.Title)
}

func TestEnrichAll_PerRecordFailures(t *testing.T) {
	source := &fakeSource{
		metadata: map[string]*model.ProductMetadata{
			"P101": {Title: "Laptop"},
		},
		errs: map[string]error{
			"P404": ErrNotFound,
			"P408": ErrTimeout,
		},
	}
	e := NewEnricher(source, zap.NewNop())

	enriched, failures, err := e.EnrichAll(context.Background(), []model.TransactionRecord{
		record("T001", "P404"),
		record("T002", "P101"),
		record("T003", "P408"),
	})
	require.NoError(t, err)

	require.Len(t, enriched, 3)
	assert.Equal(t, model.EnrichmentFailed, enriched[0].Status)
	assert.Equal(t, model.EnrichmentSucceeded, enriched[1].Status)
	assert.Equal(t, model.EnrichmentFailed, enriched[2].Status)

	require.Len(t, failures, 2)
	assert.Equal(t, model.FailureNotFound, failures[0].Reason)
	assert.Equal(t, "T001", failures[0].TransactionID)
	assert.Equal(t, model.FailureTimeout, failures[1].Reason)
}

func TestEnrichAll_ServiceDownStopsLookups(t *testing.T) {
	source := &fakeSource{errs: map[string]error{
		"P500": ErrServiceUnavailable,
	}}
	e := NewEnricher(source, zap.NewNop())

	enriched, failures, err := e.EnrichAll(context.Background(), []model.TransactionRecord{
		record("T001", "P500"),
		record("T002", "P101"),
		record("T003", "P102"),
	})
	require.NoError(t, err)

	// Only the triggering record hits the source; the rest are skipped.
	assert.Equal(t, 1, source.calls)

	require.Len(t, enriched, 3)
	assert.Equal(t, model.EnrichmentFailed, enriched[0].Status)
	assert.Equal(t, model.FailureServiceUnavailable, enriched[0].Failure)
	assert.Equal(t, model.EnrichmentNotAttempted, enriched[1].Status)
	assert.Equal(t, model.EnrichmentNotAttempted, enriched[2].Status)

	require.Len(t, failures, 1)
}

func TestEnrichAll_NilSource(t *testing.T) {
	e := NewEnricher(nil, zap.NewNop())

	enriched, failures, err := e.EnrichAll(context.Background(), []model.TransactionRecord{
		record("T001", "P101"),
		record("T002", "P102"),
	})
	require.NoError(t, err)
	require.Empty(t, failures)

	require.Len(t, enriched, 2)
	for _, r := range enriched {
		assert.Equal(t, model.EnrichmentNotAttempted, r.Status)
		assert.False(t, r.Enriched())
	}
}

func TestEnrichAll_ContextCancelled(t *testing.T) {
	source := &fakeSource{}
	e := NewEnricher(source, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.EnrichAll(ctx, []model.TransactionRecord{record("T001", "P101")})
	assert.ErrorIs(t, err, context.Canceled)
}
