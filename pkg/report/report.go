package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/salesops/sales-ingress/pkg/model"
)

const separatorWidth = 80

// maxRejectionLines caps the per-line rejection detail in the report;
// the per-reason counts always cover everything.
const maxRejectionLines = 20

// Data is everything the report renders. The pipeline assembles it;
// the writer only formats.
type Data struct {
	TotalLines    int
	Accepted      []model.EnrichedRecord
	Rejections    []model.Rejection
	Failures      []model.EnrichmentFailure
	Aggregates    *model.AggregateSet
	TopProducts   []model.ProductVolume
	TopCustomers  []model.CustomerSpend
	LowPerformers []model.ProductVolume
	Trend         []model.DailyStat
	Peak          *model.DailyStat

	// LowPerformerThreshold is echoed in the report so the section is
	// self-describing.
	LowPerformerThreshold int
}

// WriteReport renders the full text report atomically. Given identical
// input and an identical clock the output is byte-identical.
func (w *Writer) WriteReport(path string, data Data) error {
	return w.writeAtomic(path, func(out io.Writer) error {
		if err := w.render(out, data); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		return nil
	})
}

func (w *Writer) render(out io.Writer, data Data) error {
	p := &printer{out: out}

	// Header
	p.separator('=')
	p.center("SALES ANALYTICS REPORT")
	p.center(fmt.Sprintf("Generated: %s", w.now().Format("2006-01-02 15:04:05")))
	p.center(fmt.Sprintf("Records Processed: %d", data.TotalLines))
	p.separator('=')
	p.blank()

	w.renderSummary(p, data)
	w.renderValidation(p, data)
	w.renderEnrichment(p, data)

	w.renderGroupTable(p, "REGION-WISE PERFORMANCE", "Region", data.Aggregates.ByRegion, data.Aggregates.TotalRevenue())
	w.renderGroupTable(p, "CUSTOMER SEGMENTS", "Segment", data.Aggregates.BySegment, data.Aggregates.TotalRevenue())
	w.renderGroupTable(p, "PRODUCT PERFORMANCE", "Product", data.Aggregates.ByProduct, data.Aggregates.TotalRevenue())

	w.renderTopProducts(p, data)
	w.renderTopCustomers(p, data)
	w.renderLowPerformers(p, data)
	w.renderTrend(p, data)

	return p.err
}

func (w *Writer) renderSummary(p *printer, data Data) {
	total := data.Aggregates.TotalRevenue()

	p.line("OVERALL SUMMARY")
	p.separator('-')
	p.line(fmt.Sprintf("Total Revenue:        %s", formatMoney(total)))
	p.line(fmt.Sprintf("Total Transactions:   %d", len(data.Accepted)))

	avg := decimal.Zero
	if len(data.Accepted) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(data.Accepted)))).Round(2)
	}
	p.line(fmt.Sprintf("Average Order Value:  %s", formatMoney(avg)))

	first, last := dateRange(data.Accepted)
	p.line(fmt.Sprintf("Date Range:           %s to %s", first, last))
	p.blank()
}

func (w *Writer) renderValidation(p *printer, data Data) {
	p.line("VALIDATION SUMMARY")
	p.separator('-')
	p.line(fmt.Sprintf("Input lines:          %d", data.TotalLines))
	p.line(fmt.Sprintf("Accepted:             %d", len(data.Accepted)))
	p.line(fmt.Sprintf("Rejected:             %d", len(data.Rejections)))

	if len(data.Rejections) > 0 {
		counts := make(map[model.RejectReason]int)
		for _, r := range data.Rejections {
			counts[r.Reason]++
		}

		p.blank()
		p.line("Rejections by reason:")
		for _, reason := range model.AllRejectReasons() {
			if counts[reason] > 0 {
				p.line(fmt.Sprintf("  %-18s %d", string(reason)+":", counts[reason]))
			}
		}

		p.blank()
		p.line("Rejected lines:")
		for i, r := range data.Rejections {
			if i == maxRejectionLines {
				p.line(fmt.Sprintf("  ... and %d more", len(data.Rejections)-maxRejectionLines))
				break
			}
			p.line(fmt.Sprintf("  line %d [%s]: %s", r.Line.Number, r.Reason, r.Detail))
		}
	}
	p.blank()
}

func (w *Writer) renderEnrichment(p *printer, data Data) {
	succeeded, failed, notAttempted := 0, 0, 0
	for _, r := range data.Accepted {
		switch r.Status {
		case model.EnrichmentSucceeded:
			succeeded++
		case model.EnrichmentFailed:
			failed++
		default:
			notAttempted++
		}
	}

	p.line("ENRICHMENT SUMMARY")
	p.separator('-')
	p.line(fmt.Sprintf("Enriched:             %d", succeeded))
	p.line(fmt.Sprintf("Failed:               %d", failed))
	p.line(fmt.Sprintf("Not attempted:        %d", notAttempted))

	if len(data.Failures) > 0 {
		counts := make(map[model.FailureReason]int)
		for _, f := range data.Failures {
			counts[f.Reason]++
		}

		p.blank()
		p.line("Failures by reason:")
		for _, reason := range []model.FailureReason{
			model.FailureTimeout,
			model.FailureNotFound,
			model.FailureServiceUnavailable,
		} {
			if counts[reason] > 0 {
				p.line(fmt.Sprintf("  %-22s %d", string(reason)+":", counts[reason]))
			}
		}
	}
	p.blank()
}

func (w *Writer) renderGroupTable(p *printer, title, dimension string, groups []model.GroupSummary, total decimal.Decimal) {
	p.line(title)
	p.separator('-')

	if len(groups) == 0 {
		p.line("(no data)")
		p.blank()
		return
	}

	p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "%s\tRevenue\t%% of Total\tTransactions\tAvg Order\n", dimension)
		for _, g := range groups {
			fmt.Fprintf(tw, "%s\t%s\t%s%%\t%d\t%s\n",
				g.Label,
				formatMoney(g.Revenue),
				percentOf(g.Revenue, total),
				g.Count,
				formatMoney(g.AverageOrder))
		}
	})
	p.blank()
}

func (w *Writer) renderTopProducts(p *printer, data Data) {
	p.line(fmt.Sprintf("TOP %d PRODUCTS BY QUANTITY", len(data.TopProducts)))
	p.separator('-')

	if len(data.TopProducts) == 0 {
		p.line("(no data)")
		p.blank()
		return
	}

	p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Rank\tProduct\tQuantity\tRevenue\n")
		for i, v := range data.TopProducts {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i+1, v.Label, v.Quantity, formatMoney(v.Revenue))
		}
	})
	p.blank()
}

func (w *Writer) renderTopCustomers(p *printer, data Data) {
	p.line(fmt.Sprintf("TOP %d CUSTOMERS", len(data.TopCustomers)))
	p.separator('-')

	if len(data.TopCustomers) == 0 {
		p.line("(no data)")
		p.blank()
		return
	}

	p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Rank\tCustomer\tTotal Spent\tTransactions\n")
		for i, c := range data.TopCustomers {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, c.CustomerID, formatMoney(c.Revenue), c.Count)
		}
	})
	p.blank()
}

func (w *Writer) renderLowPerformers(p *printer, data Data) {
	p.line(fmt.Sprintf("LOW PERFORMING PRODUCTS (quantity below %d)", data.LowPerformerThreshold))
	p.separator('-')

	if len(data.LowPerformers) == 0 {
		p.line("(none)")
		p.blank()
		return
	}

	p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Product\tQuantity\tRevenue\n")
		for _, v := range data.LowPerformers {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", v.Label, v.Quantity, formatMoney(v.Revenue))
		}
	})
	p.blank()
}

func (w *Writer) renderTrend(p *printer, data Data) {
	p.line("DAILY SALES TREND")
	p.separator('-')

	if len(data.Trend) == 0 {
		p.line("(no data)")
		p.blank()
		return
	}

	p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Date\tRevenue\tTransactions\tUnique Customers\n")
		for _, day := range data.Trend {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n",
				day.Date.Format("2006-01-02"),
				formatMoney(day.Revenue),
				day.Count,
				day.UniqueCustomers)
		}
	})
	p.blank()

	if data.Peak != nil {
		p.line(fmt.Sprintf("Peak sales day:       %s (%s across %d transactions)",
			data.Peak.Date.Format("2006-01-02"),
			formatMoney(data.Peak.Revenue),
			data.Peak.Count))
		p.blank()
	}
}

// printer accumulates the first write error so section renderers can
// stay free of error plumbing.
type printer struct {
	out io.Writer
	err error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.out, s)
}

func (p *printer) line(s string) { p.write(s + "\n") }

func (p *printer) blank() { p.write("\n") }

func (p *printer) separator(c byte) { p.write(strings.Repeat(string(c), separatorWidth) + "\n") }

func (p *printer) center(s string) {
	pad := (separatorWidth - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	p.write(strings.Repeat(" ", pad) + s + "\n")
}

func (p *printer) table(fill func(tw *tabwriter.Writer)) {
	if p.err != nil {
		return
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fill(tw)
	p.err = tw.Flush()
}

// percentOf renders part/total as a percentage with two decimals.
func percentOf(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "0.00"
	}
	return part.Mul(decimal.NewFromInt(100)).Div(total).Round(2).StringFixed(2)
}

// formatMoney renders a decimal amount with grouping commas and two
// decimal places, e.g. 1234567.5 -> "1,234,567.50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// dateRange returns the first and last transaction dates in the set.
func dateRange(records []model.EnrichedRecord) (string, string) {
	if len(records) == 0 {
		return "n/a", "n/a"
	}

	first, last := records[0].Timestamp, records[0].Timestamp
	for _, r := range records[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}
