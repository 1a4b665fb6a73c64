package extract

// categories mirrors the taxonomy; duplicated here as literal schema data so
// the schema document stays self-contained.
var categories = []string{
	"merger_acquisition",
	"leadership_change",
	"layoff",
	"executive_compensation",
	"rnd_investment",
	"product_launch",
	"capital_expenditure",
	"financial_performance",
	"dividend_policy",
	"share_buyback",
	"capital_structure",
	"risk_factor",
	"guidance_update",
	"regulatory_litigation",
	"strategic_restructuring",
	"supply_chain_disruption",
	"esg_initiative",
	"empty",
}

// Schema is the JSON schema the extraction model's output must satisfy.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{
			"type":        "string",
			"description": "Business-event category extracted from the page, or 'empty' when none applies",
			"enum":        categories,
		},
		"entity": map[string]any{
			"type":        "object",
			"description": "Evidence blocks supporting the classification",
			"properties": map[string]any{
				"documents": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"page": map[string]any{
								"type":        "integer",
								"description": "Page number the evidence was found on",
							},
							"title": map[string]any{
								"type":        "string",
								"description": "Short title for the evidence block",
							},
							"currency": map[string]any{
								"type":        "string",
								"description": "Currency of monetary values, or 'N/A'",
							},
							"data": map[string]any{
								"type":        "array",
								"description": "Exact extracted key/value pairs",
								"items": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"key":   map[string]any{"type": "string"},
										"value": map[string]any{"type": "string"},
									},
									"required": []string{"key", "value"},
								},
							},
						},
						"required": []string{"page", "title"},
					},
				},
			},
		},
	},
	"required": []string{"type"},
}
