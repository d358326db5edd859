package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunResult summarizes a completed pipeline run.
type RunResult struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	TotalLines        int
	Accepted          int
	Rejected          int
	Enriched          int
	EnrichmentFailed  int
	EnrichmentSkipped int

	TotalRevenue decimal.Decimal

	EnrichedFile string
	ReportFile   string

	StageTimings []StageTiming
}

// NewRunResult initializes a result for a run starting now.
func NewRunResult() *RunResult {
	return &RunResult{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
	}
}

// Complete finalizes the run timing.
func (r *RunResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// HasRejections reports whether any input line failed validation.
func (r *RunResult) HasRejections() bool {
	return r.Rejected > 0
}
