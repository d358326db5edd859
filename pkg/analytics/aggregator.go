package analytics

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/config"
	"github.com/salesops/sales-ingress/pkg/model"
)

// Aggregator computes the grouped statistics over the cleaned (and
// possibly partially enriched) record set. All monetary sums use
// decimal arithmetic so totals stay exact across thousands of lines.
type Aggregator struct {
	rules  *config.Rules
	logger *zap.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(rules *config.Rules, logger *zap.Logger) (*Aggregator, error) {
	if rules == nil {
		return nil, errors.New("rules cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Aggregator{
		rules:  rules,
		logger: logger,
	}, nil
}

// Aggregate computes the three independent views: by region, by
// customer segment and by product. The views are returned together but
// share no structure; the dimensions are orthogonal.
func (a *Aggregator) Aggregate(records []model.EnrichedRecord) *model.AggregateSet {
	set := &model.AggregateSet{
		ByRegion:  a.byRegion(records),
		BySegment: a.bySegment(records),
		ByProduct: a.byProduct(records),
	}

	a.logger.Info("Aggregation complete",
		zap.Int("records", len(records)),
		zap.Int("regions", len(set.ByRegion)),
		zap.Int("segments", len(set.BySegment)),
		zap.Int("products", len(set.ByProduct)))

	return set
}

// byRegion groups on the record's region field.
func (a *Aggregator) byRegion(records []model.EnrichedRecord) []model.GroupSummary {
	groups := newGroupAccumulator()
	for _, r := range records {
		groups.add(r.Region, r.Region, r.LineTotal())
	}
	return groups.summaries()
}

// bySegment classifies each customer by cumulative spend against the
// configured tier thresholds, then groups transactions by the owning
// customer's tier. Segmentation happens before aggregation because the
// segment is derived, not stored on the record.
func (a *Aggregator) bySegment(records []model.EnrichedRecord) []model.GroupSummary {
	spendByCustomer := make(map[string]decimal.Decimal)
	for _, r := range records {
		spendByCustomer[r.CustomerID] = spendByCustomer[r.CustomerID].Add(r.LineTotal())
	}

	segmentByCustomer := make(map[string]string, len(spendByCustomer))
	for customer, spend := range spendByCustomer {
		segmentByCustomer[customer] = a.rules.SegmentFor(spend)
	}

	groups := newGroupAccumulator()
	for _, r := range records {
		segment := segmentByCustomer[r.CustomerID]
		groups.add(segment, segment, r.LineTotal())
	}
	return groups.summaries()
}

// byProduct groups on product id. When catalog metadata is available
// the group label carries the product title and category; the raw
// product id stays the grouping key either way.
func (a *Aggregator) byProduct(records []model.EnrichedRecord) []model.GroupSummary {
	labels := make(map[string]string)
	for _, r := range records {
		if r.Enriched() && labels[r.ProductID] == "" {
			labels[r.ProductID] = productLabel(r.ProductID, r.Metadata)
		}
	}

	groups := newGroupAccumulator()
	for _, r := range records {
		label := labels[r.ProductID]
		if label == "" {
			label = r.ProductID
		}
		groups.add(r.ProductID, label, r.LineTotal())
	}
	return groups.summaries()
}

// productLabel renders a display label from catalog metadata, falling
// back to the raw id when the title is absent.
func productLabel(productID string, meta model.ProductMetadata) string {
	if meta.Title == "" {
		return productID
	}
	if meta.Category == "" {
		return meta.Title
	}
	return meta.Title + " / " + meta.Category
}

// groupAccumulator builds GroupSummary lists with deterministic order:
// revenue descending, ties broken by ascending key.
type groupAccumulator struct {
	revenue map[string]decimal.Decimal
	count   map[string]int
	label   map[string]string
}

func newGroupAccumulator() *groupAccumulator {
	return &groupAccumulator{
		revenue: make(map[string]decimal.Decimal),
		count:   make(map[string]int),
		label:   make(map[string]string),
	}
}

func (g *groupAccumulator) add(key, label string, amount decimal.Decimal) {
	g.revenue[key] = g.revenue[key].Add(amount)
	g.count[key]++
	g.label[key] = label
}

func (g *groupAccumulator) summaries() []model.GroupSummary {
	out := make([]model.GroupSummary, 0, len(g.revenue))
	for key, revenue := range g.revenue {
		count := g.count[key]
		out = append(out, model.GroupSummary{
			Key:          key,
			Label:        g.label[key],
			Revenue:      revenue,
			Count:        count,
			AverageOrder: revenue.Div(decimal.NewFromInt(int64(count))).Round(2),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Key < out[j].Key
	})

	return out
}
