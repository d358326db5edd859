// pkg/model/aggregate.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupSummary is the per-group output of an aggregation view.
type GroupSummary struct {
	Key          string          // grouping key: region name, segment label or product id
	Label        string          // display label; differs from Key only for products with catalog metadata
	Revenue      decimal.Decimal // sum of line totals
	Count        int             // number of transactions in the group
	AverageOrder decimal.Decimal // Revenue / Count, rounded to 2 places
}

// AggregateSet bundles the three independent aggregation views.
// The views share no structure because the dimensions are orthogonal.
type AggregateSet struct {
	ByRegion  []GroupSummary
	BySegment []GroupSummary
	ByProduct []GroupSummary
}

// TotalRevenue returns the revenue summed across the region view.
// Every accepted record carries a region, so this equals the sum of
// all accepted line totals.
func (a *AggregateSet) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, g := range a.ByRegion {
		total = total.Add(g.Revenue)
	}
	return total
}

// ProductVolume is a quantity-oriented product ranking entry, used by
// the top-seller and low-performer report sections.
type ProductVolume struct {
	ProductID string
	Label     string
	Quantity  int
	Revenue   decimal.Decimal
}

// CustomerSpend is a revenue-oriented customer ranking entry, used by
// the top-customers report section.
type CustomerSpend struct {
	CustomerID string
	Revenue    decimal.Decimal
	Count      int
}

// DailyStat summarizes one calendar day of sales.
type DailyStat struct {
	Date            time.Time
	Revenue         decimal.Decimal
	Count           int
	UniqueCustomers int
}
