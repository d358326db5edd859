// pkg/cleaner/rules.go
package cleaner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salesops/sales-ingress/pkg/model"
)

// Timestamp layouts accepted by the date rule, tried in order.
var timestampLayouts = []string{"2006-01-02", time.RFC3339}

// evaluation carries a candidate through the rule chain. Rules fill in
// the typed record fields as they pass, so later rules can rely on the
// work of earlier ones.
type evaluation struct {
	in     model.Candidate
	record model.TransactionRecord
}

// rule is a single pure validation step. It returns nil on pass, or a
// rejection naming exactly one reason code.
type rule func(ev *evaluation) *model.Rejection

// ruleChain is an ordered list of rules with short-circuit semantics.
// Keeping the chain as data makes individual rules testable and lets
// the order be changed in one place.
type ruleChain struct {
	rules []rule
}

// run applies the chain to one candidate. The first failing rule wins.
func (rc *ruleChain) run(candidate model.Candidate) (*model.TransactionRecord, *model.Rejection) {
	ev := &evaluation{in: candidate}
	for _, r := range rc.rules {
		if rejection := r(ev); rejection != nil {
			return nil, rejection
		}
	}
	return &ev.record, nil
}

// buildChain assembles the validation rules in their fixed order.
// Uniqueness is last and carries per-run state: the first occurrence
// of a transaction id wins, later duplicates are rejected.
func (c *Cleaner) buildChain() *ruleChain {
	seen := make(map[string]bool)

	return &ruleChain{rules: []rule{
		requiredFields,
		numericFields,
		timestampField,
		c.regionField,
		uniqueTransactionID(seen),
	}}
}

// requiredFields rejects candidates missing an identity field:
// transaction id, customer id or region. The value fields are left to
// the later rules, where an empty quantity, price or timestamp reads
// as an invalid number or date; an empty product id passes through
// and simply cannot be enriched.
func requiredFields(ev *evaluation) *model.Rejection {
	missing := missingFieldNames(ev.in)
	if len(missing) > 0 {
		return reject(ev, model.ReasonMissingField,
			fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")))
	}

	ev.record.TransactionID = ev.in.TransactionID
	ev.record.CustomerID = ev.in.CustomerID
	ev.record.ProductID = ev.in.ProductID
	ev.record.Region = ev.in.Region
	return nil
}

// numericFields parses quantity and unit price, rejecting non-numeric
// or negative values. Grouping commas ("1,500") are tolerated.
func numericFields(ev *evaluation) *model.Rejection {
	quantityStr := stripGroupingCommas(ev.in.Quantity)
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		return reject(ev, model.ReasonInvalidNumber,
			fmt.Sprintf("quantity %q is not an integer", ev.in.Quantity))
	}
	if quantity < 0 {
		return reject(ev, model.ReasonInvalidNumber,
			fmt.Sprintf("quantity %d is negative", quantity))
	}

	priceStr := stripGroupingCommas(ev.in.UnitPrice)
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return reject(ev, model.ReasonInvalidNumber,
			fmt.Sprintf("unit price %q is not a number", ev.in.UnitPrice))
	}
	if price.IsNegative() {
		return reject(ev, model.ReasonInvalidNumber,
			fmt.Sprintf("unit price %s is negative", price))
	}

	ev.record.Quantity = quantity
	ev.record.UnitPrice = price
	return nil
}

// timestampField parses the timestamp against the accepted layouts.
func timestampField(ev *evaluation) *model.Rejection {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, ev.in.Timestamp); err == nil {
			ev.record.Timestamp = ts
			return nil
		}
	}

	return reject(ev, model.ReasonInvalidDate,
		fmt.Sprintf("timestamp %q is not a recognized date", ev.in.Timestamp))
}

// regionField rejects regions outside the configured allowed set.
// Unknown regions are rejected rather than bucketed as "Other" so the
// rejection counts keep an honest account of data quality.
func (c *Cleaner) regionField(ev *evaluation) *model.Rejection {
	if !c.rules.RegionAllowed(ev.in.Region) {
		return reject(ev, model.ReasonUnknownRegion,
			fmt.Sprintf("region %q is not in the allowed set", ev.in.Region))
	}
	return nil
}

// uniqueTransactionID returns a rule closed over the per-run seen set.
func uniqueTransactionID(seen map[string]bool) rule {
	return func(ev *evaluation) *model.Rejection {
		if seen[ev.in.TransactionID] {
			return reject(ev, model.ReasonDuplicateID,
				fmt.Sprintf("transaction id %q already seen in this run", ev.in.TransactionID))
		}
		seen[ev.in.TransactionID] = true
		return nil
	}
}

// reject builds a rejection for the candidate's original line.
func reject(ev *evaluation, reason model.RejectReason, detail string) *model.Rejection {
	return &model.Rejection{
		Line:   ev.in.Line,
		Reason: reason,
		Detail: detail,
	}
}

// missingFieldNames returns the schema names of empty identity fields.
func missingFieldNames(c model.Candidate) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"transaction_id", c.TransactionID},
		{"customer_id", c.CustomerID},
		{"region", c.Region},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// stripGroupingCommas removes digit-grouping commas before numeric
// parsing, e.g. "1,500" -> "1500".
func stripGroupingCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
