// pkg/config/rules.go
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SegmentTier is one customer tier boundary. A customer whose
// cumulative spend is at least MinSpend falls into the highest
// matching tier.
type SegmentTier struct {
	Label    string          `yaml:"label"`
	MinSpend decimal.Decimal `yaml:"-"`

	// RawMinSpend carries the YAML value; decimals are kept as strings
	// in the file so they survive round-trips without float noise.
	RawMinSpend string `yaml:"min_spend"`
}

// Rules holds the run-scoped tunables of the pipeline: which regions
// are legal, how customers are segmented, and the report knobs.
// These are configuration inputs rather than hard-coded literals.
type Rules struct {
	AllowedRegions        []string      `yaml:"allowed_regions"`
	SegmentTiers          []SegmentTier `yaml:"segment_tiers"`
	TopProducts           int           `yaml:"top_products"`
	TopCustomers          int           `yaml:"top_customers"`
	LowPerformerThreshold int           `yaml:"low_performer_threshold"`
}

// DefaultRules returns the built-in rule set used when no rules file
// is present.
func DefaultRules() *Rules {
	return &Rules{
		AllowedRegions: []string{"North", "South", "East", "West"},
		SegmentTiers: []SegmentTier{
			{Label: "Platinum", MinSpend: decimal.NewFromInt(50000)},
			{Label: "Gold", MinSpend: decimal.NewFromInt(10000)},
			{Label: "Standard", MinSpend: decimal.Zero},
		},
		TopProducts:           5,
		TopCustomers:          5,
		LowPerformerThreshold: 10,
	}
}

// LoadRules reads the YAML rules file at path. A missing file is not
// an error: the defaults apply. A present but malformed file is.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultRules(), nil
		}
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	rules := &Rules{}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	// Fill gaps from the defaults so a partial file stays usable.
	defaults := DefaultRules()
	if len(rules.AllowedRegions) == 0 {
		rules.AllowedRegions = defaults.AllowedRegions
	}
	if len(rules.SegmentTiers) == 0 {
		rules.SegmentTiers = defaults.SegmentTiers
	}
	if rules.TopProducts <= 0 {
		rules.TopProducts = defaults.TopProducts
	}
	if rules.TopCustomers <= 0 {
		rules.TopCustomers = defaults.TopCustomers
	}
	if rules.LowPerformerThreshold <= 0 {
		rules.LowPerformerThreshold = defaults.LowPerformerThreshold
	}

	for i := range rules.SegmentTiers {
		tier := &rules.SegmentTiers[i]
		if tier.RawMinSpend == "" {
			continue
		}
		min, err := decimal.NewFromString(tier.RawMinSpend)
		if err != nil {
			return nil, fmt.Errorf("tier %q: invalid min_spend %q: %w", tier.Label, tier.RawMinSpend, err)
		}
		tier.MinSpend = min
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return rules, nil
}

// Validate ensures the rule set is internally consistent
func (r *Rules) Validate() error {
	if len(r.AllowedRegions) == 0 {
		return errors.New("at least one allowed region is required")
	}

	if len(r.SegmentTiers) == 0 {
		return errors.New("at least one segment tier is required")
	}

	for _, tier := range r.SegmentTiers {
		if tier.Label == "" {
			return errors.New("segment tier labels cannot be empty")
		}
		if tier.MinSpend.IsNegative() {
			return fmt.Errorf("tier %q: min_spend cannot be negative", tier.Label)
		}
	}

	return nil
}

// RegionAllowed reports whether region is in the configured set.
func (r *Rules) RegionAllowed(region string) bool {
	for _, allowed := range r.AllowedRegions {
		if region == allowed {
			return true
		}
	}
	return false
}

// SegmentFor classifies a cumulative customer spend into a tier label.
// The highest tier whose threshold is met wins.
func (r *Rules) SegmentFor(spend decimal.Decimal) string {
	tiers := make([]SegmentTier, len(r.SegmentTiers))
	copy(tiers, r.SegmentTiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinSpend.GreaterThan(tiers[j].MinSpend)
	})

	for _, tier := range tiers {
		if spend.GreaterThanOrEqual(tier.MinSpend) {
			return tier.Label
		}
	}

	// Spend below every threshold lands in the lowest tier.
	return tiers[len(tiers)-1].Label
}
