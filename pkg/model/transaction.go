// pkg/model/transaction.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawLine is a single unparsed line from the input file.
// It only lives long enough to be parsed; the line number is kept
// for error reporting.
type RawLine struct {
	Number int    // 1-based line number in the input file
	Text   string // raw line content, trimmed of trailing newline
}

// TransactionRecord is a fully validated sales transaction.
// Records are immutable once they leave the cleaner.
type TransactionRecord struct {
	TransactionID string
	CustomerID    string
	ProductID     string
	Region        string
	Quantity      int
	UnitPrice     decimal.Decimal
	Timestamp     time.Time
}

// LineTotal returns quantity x unit price for this transaction.
func (t TransactionRecord) LineTotal() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// RejectReason identifies why a line failed validation.
type RejectReason string

const (
	ReasonMissingField  RejectReason = "missing_field"
	ReasonInvalidNumber RejectReason = "invalid_number"
	ReasonInvalidDate   RejectReason = "invalid_date"
	ReasonDuplicateID   RejectReason = "duplicate_id"
	ReasonUnknownRegion RejectReason = "unknown_region"
)

// AllRejectReasons lists every reason code in report order.
func AllRejectReasons() []RejectReason {
	return []RejectReason{
		ReasonMissingField,
		ReasonInvalidNumber,
		ReasonInvalidDate,
		ReasonDuplicateID,
		ReasonUnknownRegion,
	}
}

// Rejection records a single rejected input line together with the
// rule that rejected it. The original line is kept verbatim so the
// report can show exactly what was dropped.
type Rejection struct {
	Line   RawLine
	Reason RejectReason
	Detail string // human-readable explanation, e.g. "quantity \"abc\" is not an integer"
}

// Candidate holds the raw string fields of a structurally valid line
// before validation. Field order matches the input schema:
// transaction_id|customer_id|product_id|region|quantity|unit_price|timestamp
type Candidate struct {
	Line          RawLine
	TransactionID string
	CustomerID    string
	ProductID     string
	Region        string
	Quantity      string
	UnitPrice     string
	Timestamp     string
}
