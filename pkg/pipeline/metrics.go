package pipeline

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// StageTiming records how long a single stage took.
type StageTiming struct {
	Stage     Stage
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the elapsed time of the stage
func (st StageTiming) Duration() time.Duration {
	if st.EndTime.IsZero() {
		return time.Since(st.StartTime)
	}
	return st.EndTime.Sub(st.StartTime)
}

// RunMetrics tracks per-stage timings for a single pipeline run. The
// pipeline itself is sequential but metrics are still guarded so a
// caller polling from another goroutine sees consistent state.
type RunMetrics struct {
	mu      sync.Mutex
	logger  *zap.Logger
	timings map[Stage]*StageTiming
	order   []Stage
}

// NewRunMetrics creates a new RunMetrics instance
func NewRunMetrics(logger *zap.Logger) *RunMetrics {
	return &RunMetrics{
		logger:  logger,
		timings: make(map[Stage]*StageTiming),
	}
}

// StartStage begins timing a stage.
func (m *RunMetrics) StartStage(stage Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timings[stage] = &StageTiming{Stage: stage, StartTime: time.Now()}
	m.order = append(m.order, stage)
}

// EndStage completes timing a stage.
func (m *RunMetrics) EndStage(stage Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timings[stage]; ok {
		t.EndTime = time.Now()
	}
}

// Timings returns stage timings in execution order.
func (m *RunMetrics) Timings() []StageTiming {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]StageTiming, 0, len(m.order))
	for _, stage := range m.order {
		if t, ok := m.timings[stage]; ok {
			out = append(out, *t)
		}
	}
	return out
}

// LogSummary writes a per-stage timing summary to the run log.
func (m *RunMetrics) LogSummary() {
	for _, t := range m.Timings() {
		m.logger.Info("Stage timing",
			zap.String("stage", t.Stage.String()),
			zap.Duration("duration", t.Duration()))
	}
}
