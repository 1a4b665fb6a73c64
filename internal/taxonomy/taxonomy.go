// Package taxonomy defines the fixed set of business-event categories the
// extraction model classifies page content into, and their mapping onto the
// boolean metadata fields of the aggregated document record.
package taxonomy

// Category is one business-event classification.
type Category string

const (
	MergerAcquisition       Category = "merger_acquisition"
	LeadershipChange        Category = "leadership_change"
	Layoff                  Category = "layoff"
	ExecutiveCompensation   Category = "executive_compensation"
	RnDInvestment           Category = "rnd_investment"
	ProductLaunch           Category = "product_launch"
	CapitalExpenditure      Category = "capital_expenditure"
	FinancialPerformance    Category = "financial_performance"
	DividendPolicy          Category = "dividend_policy"
	ShareBuyback            Category = "share_buyback"
	CapitalStructure        Category = "capital_structure"
	RiskFactor              Category = "risk_factor"
	GuidanceUpdate          Category = "guidance_update"
	RegulatoryLitigation    Category = "regulatory_litigation"
	StrategicRestructuring  Category = "strategic_restructuring"
	SupplyChainDisruption   Category = "supply_chain_disruption"
	ESGInitiative           Category = "esg_initiative"

	// Empty marks a page with no extractable business event.
	Empty Category = "empty"
)

// fieldMap maps each category to its aggregated metadata field.
var fieldMap = map[Category]string{
	MergerAcquisition:      "mentions_recent_mergers_and_acquisitions",
	LeadershipChange:       "has_leadership_changes",
	Layoff:                 "has_layoffs",
	ExecutiveCompensation:  "has_executive_compensation",
	RnDInvestment:          "has_rnd_investment_numbers",
	ProductLaunch:          "has_new_product_launches",
	CapitalExpenditure:     "has_capital_expenditures",
	FinancialPerformance:   "has_financial_performance_indicators",
	DividendPolicy:         "has_dividend_policy_changes",
	ShareBuyback:           "has_share_buyback_plans",
	CapitalStructure:       "has_capital_structure_changes",
	RiskFactor:             "mentions_new_risk_factors",
	GuidanceUpdate:         "has_guidance_updates",
	RegulatoryLitigation:   "has_regulatory_or_litigation_issues",
	StrategicRestructuring: "has_strategic_restructuring",
	SupplyChainDisruption:  "has_supply_chain_disruptions",
	ESGInitiative:          "has_esg_initiatives",
}

// ordered keeps a stable iteration order for template construction.
var ordered = []Category{
	MergerAcquisition, LeadershipChange, Layoff, ExecutiveCompensation,
	RnDInvestment, ProductLaunch, CapitalExpenditure, FinancialPerformance,
	DividendPolicy, ShareBuyback, CapitalStructure, RiskFactor,
	GuidanceUpdate, RegulatoryLitigation, StrategicRestructuring,
	SupplyChainDisruption, ESGInitiative,
}

// FieldFor returns the metadata field for a category.
// The second return is false for unknown categories and Empty.
func FieldFor(c Category) (string, bool) {
	field, ok := fieldMap[c]
	return field, ok
}

// Valid reports whether c is a known extractable category.
func Valid(c Category) bool {
	_, ok := fieldMap[c]
	return ok
}

// Categories returns all extractable categories in stable order.
func Categories() []Category {
	out := make([]Category, len(ordered))
	copy(out, ordered)
	return out
}

// Fields returns all metadata fields in stable order.
func Fields() []string {
	out := make([]string, 0, len(ordered))
	for _, c := range ordered {
		out = append(out, fieldMap[c])
	}
	return out
}
