// pkg/model/enrichment.go
package model

// EnrichmentStatus is a tagged state rather than a nullable metadata
// pointer, so "never tried" and "tried and failed" stay distinguishable.
type EnrichmentStatus string

const (
	// EnrichmentNotAttempted means no lookup was made for this record,
	// either because enrichment is disabled or because the catalog was
	// already known to be down.
	EnrichmentNotAttempted EnrichmentStatus = "not_attempted"
	// EnrichmentSucceeded means the catalog returned metadata.
	EnrichmentSucceeded EnrichmentStatus = "succeeded"
	// EnrichmentFailed means the lookup was made and failed.
	EnrichmentFailed EnrichmentStatus = "failed"
)

// FailureReason classifies an individual enrichment failure.
type FailureReason string

const (
	FailureTimeout            FailureReason = "timeout"
	FailureNotFound           FailureReason = "not_found"
	FailureServiceUnavailable FailureReason = "service_unavailable"
)

// ProductMetadata is the catalog information attached to a record.
// Any field may be empty; an absent field is not an error.
type ProductMetadata struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
}

// EnrichedRecord supersedes a TransactionRecord 1:1 after the
// enrichment stage. Metadata is only meaningful when Status is
// EnrichmentSucceeded.
type EnrichedRecord struct {
	TransactionRecord
	Status   EnrichmentStatus
	Metadata ProductMetadata
	Failure  FailureReason // set only when Status == EnrichmentFailed
}

// Enriched reports whether catalog metadata is attached.
func (r EnrichedRecord) Enriched() bool {
	return r.Status == EnrichmentSucceeded
}

// EnrichmentFailure is one entry in the enrichment-failure log.
type EnrichmentFailure struct {
	TransactionID string
	ProductID     string
	Reason        FailureReason
}
