package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/analytics"
	"github.com/salesops/sales-ingress/pkg/catalog"
	"github.com/salesops/sales-ingress/pkg/cleaner"
	"github.com/salesops/sales-ingress/pkg/config"
	"github.com/salesops/sales-ingress/pkg/model"
	"github.com/salesops/sales-ingress/pkg/parser"
	"github.com/salesops/sales-ingress/pkg/report"
)

// Pipeline orchestrates a full run: read, parse, validate, enrich,
// aggregate, verify, write. Stages run sequentially; each stage's
// output feeds the next and all record slices preserve input order.
type Pipeline struct {
	cfg        *config.Config
	rules      *config.Rules
	parser     *parser.Parser
	cleaner    *cleaner.Cleaner
	enricher   *catalog.Enricher
	aggregator *analytics.Aggregator
	writer     *report.Writer
	verifier   *Verifier
	metrics    *RunMetrics
	logger     *zap.Logger
}

// New wires a pipeline from configuration. The catalog source may be
// nil (enrichment disabled); everything else is required.
func New(cfg *config.Config, rules *config.Rules, logger *zap.Logger) (*Pipeline, error) {
	dataCleaner, err := cleaner.NewCleaner(rules, logger)
	if err != nil {
		return nil, fmt.Errorf("create cleaner: %w", err)
	}

	aggregator, err := analytics.NewAggregator(rules, logger)
	if err != nil {
		return nil, fmt.Errorf("create aggregator: %w", err)
	}

	source := catalog.NewSource(cfg, logger)

	return &Pipeline{
		cfg:        cfg,
		rules:      rules,
		parser:     parser.NewParser(logger),
		cleaner:    dataCleaner,
		enricher:   catalog.NewEnricher(source, logger),
		aggregator: aggregator,
		writer:     report.NewWriter(logger),
		verifier:   NewVerifier(logger),
		metrics:    NewRunMetrics(logger),
		logger:     logger,
	}, nil
}

// WithEnricher replaces the catalog enricher. Used to inject a fake
// source in tests.
func (p *Pipeline) WithEnricher(e *catalog.Enricher) *Pipeline {
	if e != nil {
		p.enricher = e
	}
	return p
}

// WithWriter replaces the output writer, e.g. one with a pinned clock.
func (p *Pipeline) WithWriter(w *report.Writer) *Pipeline {
	if w != nil {
		p.writer = w
	}
	return p
}

// Run executes the full pipeline. A returned error is fatal and means
// no output files were produced; bad data alone never causes an error
// here, it lands in the rejection and enrichment-failure logs and the
// run completes.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := NewRunResult()

	p.logger.Info("Starting pipeline run",
		zap.String("runID", result.RunID),
		zap.String("input", p.cfg.InputFile))

	// Read
	p.metrics.StartStage(StageRead)
	lines, err := p.parser.ReadLines(p.cfg.InputFile)
	p.metrics.EndStage(StageRead)
	if err != nil {
		return nil, stageErr(StageRead, err)
	}
	if len(lines) == 0 {
		return nil, stageErr(StageRead, ErrNoDataLines)
	}
	result.TotalLines = len(lines)

	// Parse
	p.metrics.StartStage(StageParse)
	candidates, rejections := p.parser.ParseAll(lines)
	p.metrics.EndStage(StageParse)

	// Validate
	p.metrics.StartStage(StageValidate)
	accepted, cleanRejections := p.cleaner.CleanAll(candidates)
	p.metrics.EndStage(StageValidate)
	rejections = append(rejections, cleanRejections...)

	// Structural and validation rejections come from different stages;
	// the report lists them in input line order.
	sort.SliceStable(rejections, func(i, j int) bool {
		return rejections[i].Line.Number < rejections[j].Line.Number
	})

	result.Accepted = len(accepted)
	result.Rejected = len(rejections)

	// Enrich
	p.metrics.StartStage(StageEnrich)
	enriched, failures, err := p.enricher.EnrichAll(ctx, accepted)
	p.metrics.EndStage(StageEnrich)
	if err != nil {
		return nil, stageErr(StageEnrich, err)
	}
	p.countEnrichment(result, enriched)

	// Aggregate
	p.metrics.StartStage(StageAggregate)
	aggregates := p.aggregator.Aggregate(enriched)
	trend := p.aggregator.DailyTrend(enriched)
	data := report.Data{
		TotalLines:            result.TotalLines,
		Accepted:              enriched,
		Rejections:            rejections,
		Failures:              failures,
		Aggregates:            aggregates,
		TopProducts:           p.aggregator.TopProducts(enriched, p.rules.TopProducts),
		TopCustomers:          p.aggregator.TopCustomers(enriched, p.rules.TopCustomers),
		LowPerformers:         p.aggregator.LowPerformers(enriched, p.rules.LowPerformerThreshold),
		Trend:                 trend,
		Peak:                  p.aggregator.PeakDay(trend),
		LowPerformerThreshold: p.rules.LowPerformerThreshold,
	}
	p.metrics.EndStage(StageAggregate)
	result.TotalRevenue = aggregates.TotalRevenue()

	// Verify
	p.metrics.StartStage(StageVerify)
	err = p.verifier.Verify(result.TotalLines, enriched, rejections, aggregates)
	p.metrics.EndStage(StageVerify)
	if err != nil {
		return nil, stageErr(StageVerify, err)
	}

	// Write
	p.metrics.StartStage(StageWrite)
	if err := p.writer.WriteEnriched(p.cfg.EnrichedFile, enriched); err != nil {
		p.metrics.EndStage(StageWrite)
		return nil, stageErr(StageWrite, err)
	}
	if err := p.writer.WriteReport(p.cfg.ReportFile, data); err != nil {
		p.metrics.EndStage(StageWrite)
		return nil, stageErr(StageWrite, err)
	}
	p.metrics.EndStage(StageWrite)

	result.EnrichedFile = p.cfg.EnrichedFile
	result.ReportFile = p.cfg.ReportFile
	result.StageTimings = p.metrics.Timings()
	result.Complete()

	p.metrics.LogSummary()
	p.logger.Info("Pipeline run completed",
		zap.String("runID", result.RunID),
		zap.Int("totalLines", result.TotalLines),
		zap.Int("accepted", result.Accepted),
		zap.Int("rejected", result.Rejected),
		zap.Int("enriched", result.Enriched),
		zap.String("totalRevenue", result.TotalRevenue.String()),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// countEnrichment folds per-record enrichment statuses into the run
// result counters.
func (p *Pipeline) countEnrichment(result *RunResult, records []model.EnrichedRecord) {
	for _, r := range records {
		switch r.Status {
		case model.EnrichmentSucceeded:
			result.Enriched++
		case model.EnrichmentFailed:
			result.EnrichmentFailed++
		default:
			result.EnrichmentSkipped++
		}
	}
}
