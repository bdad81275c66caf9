package planconfig

// Cadence is the billing frequency of a plan variation, in Square's
// catalog vocabulary.
type Cadence string

const (
	CadenceWeekly  Cadence = "WEEKLY"
	CadenceMonthly Cadence = "MONTHLY"
	CadenceAnnual  Cadence = "ANNUAL"
	CadenceDaily   Cadence = "DAILY"
)

// Document is the plan-configuration file: per-environment plan sets keyed
// by environment name. Development and production hold separate Square
// catalog identifiers because sandbox and production catalogs are isolated.
type Document map[string]*Environment

type Environment struct {
	Plans map[string]*Plan `json:"plans"`
}

type Plan struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	BasePlanID  *string               `json:"base_plan_id"`
	Variations  map[string]*Variation `json:"variations"`
}

type Variation struct {
	Name string `json:"name"`
	// Amount is the price in minor currency units (cents for USD).
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Cadence     Cadence `json:"cadence"`
	VariationID *string `json:"variation_id"`
}

func newDocument() Document {
	return Document{
		"development": {Plans: map[string]*Plan{}},
		"production":  {Plans: map[string]*Plan{}},
	}
}
