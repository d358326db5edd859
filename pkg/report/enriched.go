package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/salesops/sales-ingress/pkg/model"
)

// enrichedHeader is the input schema with the enrichment fields
// appended. Rejected records never appear in this file.
var enrichedHeader = []string{
	"transaction_id", "customer_id", "product_id", "region",
	"quantity", "unit_price", "timestamp",
	"title", "category", "brand", "enriched",
}

// WriteEnriched writes the enriched data file: one pipe-delimited line
// per accepted record, in original input order, with catalog fields
// appended. Unenriched records carry empty metadata columns.
func (w *Writer) WriteEnriched(path string, records []model.EnrichedRecord) error {
	return w.writeAtomic(path, func(out io.Writer) error {
		buf := bufio.NewWriter(out)

		if _, err := buf.WriteString(strings.Join(enrichedHeader, "|") + "\n"); err != nil {
			return fmt.Errorf("write enriched header: %w", err)
		}

		for _, r := range records {
			if _, err := buf.WriteString(enrichedLine(r) + "\n"); err != nil {
				return fmt.Errorf("write enriched record %s: %w", r.TransactionID, err)
			}
		}

		return buf.Flush()
	})
}

func enrichedLine(r model.EnrichedRecord) string {
	fields := []string{
		r.TransactionID,
		r.CustomerID,
		r.ProductID,
		r.Region,
		strconv.Itoa(r.Quantity),
		r.UnitPrice.String(),
		formatTimestamp(r.Timestamp),
		r.Metadata.Title,
		r.Metadata.Category,
		r.Metadata.Brand,
		strconv.FormatBool(r.Enriched()),
	}
	return strings.Join(fields, "|")
}
