package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/model"
)

func pinnedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func sampleRecord(txID, productID string, enriched bool) model.EnrichedRecord {
	r := model.EnrichedRecord{
		TransactionRecord: model.TransactionRecord{
			TransactionID: txID,
			CustomerID:    "C001",
			ProductID:     productID,
			Region:        "North",
			Quantity:      2,
			UnitPrice:     decimal.RequireFromString("100.00"),
			Timestamp:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		Status: model.EnrichmentNotAttempted,
	}
	if enriched {
		r.Status = model.EnrichmentSucceeded
		r.Metadata = model.ProductMetadata{Title: "Laptop", Category: "electronics", Brand: "Acme"}
	}
	return r
}

func sampleData() Data {
	records := []model.EnrichedRecord{
		sampleRecord("T001", "P101", true),
		sampleRecord("T002", "P102", false),
	}
	revenue := decimal.RequireFromString("400.00")

	return Data{
		TotalLines: 3,
		Accepted:   records,
		Rejections: []model.Rejection{
			{
				Line:   model.RawLine{Number: 3, Text: "bad line"},
				Reason: model.ReasonInvalidNumber,
				Detail: `quantity "x" is not an integer`,
			},
		},
		Aggregates: &model.AggregateSet{
			ByRegion: []model.GroupSummary{
				{Key: "North", Label: "North", Revenue: revenue, Count: 2, AverageOrder: decimal.RequireFromString("200.00")},
			},
			BySegment: []model.GroupSummary{
				{Key: "Standard", Label: "Standard", Revenue: revenue, Count: 2, AverageOrder: decimal.RequireFromString("200.00")},
			},
			ByProduct: []model.GroupSummary{
				{Key: "P101", Label: "Laptop / electronics", Revenue: decimal.RequireFromString("200.00"), Count: 1, AverageOrder: decimal.RequireFromString("200.00")},
				{Key: "P102", Label: "P102", Revenue: decimal.RequireFromString("200.00"), Count: 1, AverageOrder: decimal.RequireFromString("200.00")},
			},
		},
		TopProducts: []model.ProductVolume{
			{ProductID: "P101", Label: "Laptop / electronics", Quantity: 2, Revenue: decimal.RequireFromString("200.00")},
		},
		TopCustomers: []model.CustomerSpend{
			{CustomerID: "C001", Revenue: revenue, Count: 2},
		},
		Trend: []model.DailyStat{
			{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Revenue: revenue, Count: 2, UniqueCustomers: 1},
		},
		Peak: &model.DailyStat{
			Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Revenue: revenue, Count: 2,
		},
		LowPerformerThreshold: 10,
	}
}

func TestWriteReport_Sections(t *testing.T) {
	w := NewWriter(zap.NewNop()).WithClock(pinnedClock)
	path := filepath.Join(t.TempDir(), "output", "sales_report.txt")

	require.NoError(t, w.WriteReport(path, sampleData()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "SALES ANALYTICS REPORT")
	assert.Contains(t, content, "Generated: 2024-06-01 12:00:00")
	assert.Contains(t, content, "OVERALL SUMMARY")
	assert.Contains(t, content, "Total Revenue:        400.00")
	assert.Contains(t, content, "VALIDATION SUMMARY")
	assert.Contains(t, content, "invalid_number")
	assert.Contains(t, content, "line 3 [invalid_number]")
	assert.Contains(t, content, "ENRICHMENT SUMMARY")
	assert.Contains(t, content, "REGION-WISE PERFORMANCE")
	assert.Contains(t, content, "CUSTOMER SEGMENTS")
	assert.Contains(t, content, "PRODUCT PERFORMANCE")
	assert.Contains(t, content, "Laptop / electronics")
	assert.Contains(t, content, "TOP 1 CUSTOMERS")
	assert.Contains(t, content, "C001")
	assert.Contains(t, content, "DAILY SALES TREND")
	assert.Contains(t, content, "Peak sales day:       2024-01-15")
	assert.Contains(t, content, "LOW PERFORMING PRODUCTS (quantity below 10)")
}

func TestWriteReport_Deterministic(t *testing.T) {
	w := NewWriter(zap.NewNop()).WithClock(pinnedClock)
	dir := t.TempDir()

	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")

	require.NoError(t, w.WriteReport(first, sampleData()))
	require.NoError(t, w.WriteReport(second, sampleData()))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical input and clock must produce identical bytes")
}

func TestWriteEnriched(t *testing.T) {
	w := NewWriter(zap.NewNop())
	path := filepath.Join(t.TempDir(), "enriched.txt")

	require.NoError(t, w.WriteEnriched(path, []model.EnrichedRecord{
		sampleRecord("T001", "P101", true),
		sampleRecord("T002", "P102", false),
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"transaction_id|customer_id|product_id|region|quantity|unit_price|timestamp|title|category|brand|enriched",
		lines[0])
	assert.Equal(t, "T001|C001|P101|North|2|100|2024-01-15|Laptop|electronics|Acme|true", lines[1])
	assert.Equal(t, "T002|C001|P102|North|2|100|2024-01-15||||false", lines[2])
}

func TestWriteEnriched_CreatesDirectory(t *testing.T) {
	w := NewWriter(zap.NewNop())
	path := filepath.Join(t.TempDir(), "deep", "nested", "enriched.txt")

	require.NoError(t, w.WriteEnriched(path, nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"999.5", "999.50"},
		{"1000", "1,000.00"},
		{"1234567.891", "1,234,567.89"},
		{"-45000", "-45,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, "25.00", percentOf(decimal.NewFromInt(1), decimal.NewFromInt(4)))
	assert.Equal(t, "0.00", percentOf(decimal.NewFromInt(1), decimal.Zero))
	assert.Equal(t, "33.33", percentOf(decimal.NewFromInt(1), decimal.NewFromInt(3)))
}
