package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesops/sales-ingress/pkg/model"
)

// TopProducts returns the n best-selling products by total quantity,
// ties broken by ascending product id.
func (a *Aggregator) TopProducts(records []model.EnrichedRecord, n int) []model.ProductVolume {
	volumes := a.productVolumes(records)

	sort.Slice(volumes, func(i, j int) bool {
		if volumes[i].Quantity != volumes[j].Quantity {
			return volumes[i].Quantity > volumes[j].Quantity
		}
		return volumes[i].ProductID < volumes[j].ProductID
	})

	if n > 0 && len(volumes) > n {
		volumes = volumes[:n]
	}
	return volumes
}

// LowPerformers returns products whose total quantity sold is below
// the threshold, worst first.
func (a *Aggregator) LowPerformers(records []model.EnrichedRecord, threshold int) []model.ProductVolume {
	var low []model.ProductVolume
	for _, v := range a.productVolumes(records) {
		if v.Quantity < threshold {
			low = append(low, v)
		}
	}

	sort.Slice(low, func(i, j int) bool {
		if low[i].Quantity != low[j].Quantity {
			return low[i].Quantity < low[j].Quantity
		}
		return low[i].ProductID < low[j].ProductID
	})

	return low
}

// TopCustomers returns the n highest-spending customers by total
// revenue, ties broken by ascending customer id.
func (a *Aggregator) TopCustomers(records []model.EnrichedRecord, n int) []model.CustomerSpend {
	revenue := make(map[string]decimal.Decimal)
	count := make(map[string]int)
	for _, r := range records {
		revenue[r.CustomerID] = revenue[r.CustomerID].Add(r.LineTotal())
		count[r.CustomerID]++
	}

	out := make([]model.CustomerSpend, 0, len(revenue))
	for id, rev := range revenue {
		out = append(out, model.CustomerSpend{
			CustomerID: id,
			Revenue:    rev,
			Count:      count[id],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].CustomerID < out[j].CustomerID
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DailyTrend summarizes revenue, transaction count and unique
// customers per calendar day, in chronological order.
func (a *Aggregator) DailyTrend(records []model.EnrichedRecord) []model.DailyStat {
	type dayAgg struct {
		revenue   decimal.Decimal
		count     int
		customers map[string]bool
	}

	days := make(map[string]*dayAgg)
	for _, r := range records {
		key := r.Timestamp.Format("2006-01-02")
		agg, ok := days[key]
		if !ok {
			agg = &dayAgg{customers: make(map[string]bool)}
			days[key] = agg
		}
		agg.revenue = agg.revenue.Add(r.LineTotal())
		agg.count++
		agg.customers[r.CustomerID] = true
	}

	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]model.DailyStat, 0, len(keys))
	for _, key := range keys {
		agg := days[key]
		// Key came from Format, so this parse cannot fail.
		date, _ := time.Parse("2006-01-02", key)
		out = append(out, model.DailyStat{
			Date:            date,
			Revenue:         agg.revenue,
			Count:           agg.count,
			UniqueCustomers: len(agg.customers),
		})
	}
	return out
}

// PeakDay returns the day with the highest revenue, earliest day
// winning ties. Nil when there are no records.
func (a *Aggregator) PeakDay(trend []model.DailyStat) *model.DailyStat {
	var peak *model.DailyStat
	for i := range trend {
		day := &trend[i]
		if peak == nil || day.Revenue.GreaterThan(peak.Revenue) {
			peak = day
		}
	}
	return peak
}

// productVolumes accumulates per-product quantity and revenue, with
// display labels resolved the same way as the product view.
func (a *Aggregator) productVolumes(records []model.EnrichedRecord) []model.ProductVolume {
	quantity := make(map[string]int)
	revenue := make(map[string]decimal.Decimal)
	labels := make(map[string]string)

	for _, r := range records {
		quantity[r.ProductID] += r.Quantity
		revenue[r.ProductID] = revenue[r.ProductID].Add(r.LineTotal())
		if r.Enriched() && labels[r.ProductID] == "" {
			labels[r.ProductID] = productLabel(r.ProductID, r.Metadata)
		}
	}

	out := make([]model.ProductVolume, 0, len(quantity))
	for id, qty := range quantity {
		label := labels[id]
		if label == "" {
			label = id
		}
		out = append(out, model.ProductVolume{
			ProductID: id,
			Label:     label,
			Quantity:  qty,
			Revenue:   revenue[id],
		})
	}
	return out
}
