package planconfig_test

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyzyva/square-client/internal/shared/config"
	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/pkg/billing/planconfig"
)

func newTestStore(t *testing.T) (*planconfig.Store, string) {
	path := filepath.Join(t.TempDir(), "square_plans.json")
	log := logutil.NewStderrLog("test")
	cfg := config.NewEnvConfig(log)

	return planconfig.NewStore(log, cfg, path), path
}

func strPtr(s string) *string {
	return &s
}

func writeDocument(t *testing.T, path string, doc planconfig.Document) {
	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
}

func TestInitCreatesEmptyDocument(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Init())

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)

	var doc planconfig.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "development")
	require.Contains(t, doc, "production")
	assert.Empty(t, doc["development"].Plans)
	assert.Empty(t, doc["production"].Plans)
}

func TestInitNeverOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Init())
	require.NoError(t, store.UpdateBasePlanID("premium", strPtr("PLAN_1")))

	err := store.Init()
	require.Error(t, err)
	assert.Equal(t, planconfig.ErrConfigExists, errors.Cause(err))

	// the document must be untouched
	require.NotNil(t, store.Plan("premium"))
}

func TestReadsOnMissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Empty(t, store.Plans())
	assert.NotNil(t, store.Plans())
	assert.Nil(t, store.Plan("premium"))
	assert.Nil(t, store.Variation("premium", "monthly"))
	assert.Nil(t, store.VariationID("premium", "monthly"))
	assert.True(t, store.AllConfigured())
}

func TestMalformedDocumentTreatedAsEmpty(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, ioutil.WriteFile(path, []byte("{not json"), 0644))

	assert.Empty(t, store.Plans())
	assert.Nil(t, store.Plan("premium"))
	assert.True(t, store.AllConfigured())
}

func TestUpdateBasePlanIDCreatesMissingLevels(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.UpdateBasePlanID("premium", strPtr("PLAN_1")))

	p := store.Plan("premium")
	require.NotNil(t, p)
	require.NotNil(t, p.BasePlanID)
	assert.Equal(t, "PLAN_1", *p.BasePlanID)
}

func TestUpdateBasePlanIDPreservesSiblings(t *testing.T) {
	store, path := newTestStore(t)
	writeDocument(t, path, planconfig.Document{
		"development": {Plans: map[string]*planconfig.Plan{
			"premium": {
				Name:        "Premium",
				Description: "Full access",
				Variations: map[string]*planconfig.Variation{
					"monthly": {Name: "Monthly", Amount: 999, Currency: "USD", Cadence: planconfig.CadenceMonthly},
				},
			},
			"basic": {Name: "Basic", BasePlanID: strPtr("PLAN_BASIC")},
		}},
		"production": {Plans: map[string]*planconfig.Plan{
			"premium": {Name: "Premium", BasePlanID: strPtr("PROD_PLAN")},
		}},
	})

	require.NoError(t, store.UpdateBasePlanID("premium", strPtr("PLAN_1")))

	p := store.Plan("premium")
	require.NotNil(t, p)
	assert.Equal(t, "PLAN_1", *p.BasePlanID)
	assert.Equal(t, "Premium", p.Name)
	assert.Equal(t, "Full access", p.Description)
	require.Contains(t, p.Variations, "monthly")
	assert.Equal(t, int64(999), p.Variations["monthly"].Amount)

	// other plans untouched
	basic := store.Plan("basic")
	require.NotNil(t, basic)
	assert.Equal(t, "PLAN_BASIC", *basic.BasePlanID)

	// the production environment untouched
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	var doc planconfig.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc["production"].Plans, "premium")
	assert.Equal(t, "PROD_PLAN", *doc["production"].Plans["premium"].BasePlanID)

	// a later update overwrites, clearing works too
	require.NoError(t, store.UpdateBasePlanID("premium", strPtr("PLAN_2")))
	assert.Equal(t, "PLAN_2", *store.Plan("premium").BasePlanID)

	require.NoError(t, store.UpdateBasePlanID("premium", nil))
	assert.Nil(t, store.Plan("premium").BasePlanID)
	assert.Equal(t, "Premium", store.Plan("premium").Name)
}

func TestUpdateVariationID(t *testing.T) {
	store, path := newTestStore(t)
	writeDocument(t, path, planconfig.Document{
		"development": {Plans: map[string]*planconfig.Plan{
			"premium": {
				Name: "Premium",
				Variations: map[string]*planconfig.Variation{
					"monthly": {Name: "Monthly", Amount: 999, Currency: "USD", Cadence: planconfig.CadenceMonthly},
				},
			},
		}},
	})

	require.NoError(t, store.UpdateVariationID("premium", "monthly", strPtr("VAR_1")))

	v := store.Variation("premium", "monthly")
	require.NotNil(t, v)
	require.NotNil(t, v.VariationID)
	assert.Equal(t, "VAR_1", *v.VariationID)
	assert.Equal(t, int64(999), v.Amount)
	assert.Equal(t, planconfig.CadenceMonthly, v.Cadence)

	require.NotNil(t, store.VariationID("premium", "monthly"))
	assert.Equal(t, "VAR_1", *store.VariationID("premium", "monthly"))
}

func TestUpdateVariationIDCreatesMissingLevels(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.UpdateVariationID("premium", "weekly", strPtr("VAR_W")))

	v := store.Variation("premium", "weekly")
	require.NotNil(t, v)
	assert.Equal(t, "VAR_W", *v.VariationID)
}

func TestAllConfigured(t *testing.T) {
	store, path := newTestStore(t)

	// an empty plan set is vacuously configured
	require.NoError(t, store.Init())
	assert.True(t, store.AllConfigured())

	writeDocument(t, path, planconfig.Document{
		"development": {Plans: map[string]*planconfig.Plan{
			"premium": {
				BasePlanID: strPtr("PLAN_1"),
				Variations: map[string]*planconfig.Variation{
					"monthly": {VariationID: nil},
				},
			},
		}},
	})
	assert.False(t, store.AllConfigured())

	require.NoError(t, store.UpdateVariationID("premium", "monthly", strPtr("VAR_1")))
	assert.True(t, store.AllConfigured())

	require.NoError(t, store.UpdateBasePlanID("premium", nil))
	assert.False(t, store.AllConfigured())
}

func TestUnconfiguredItems(t *testing.T) {
	store, path := newTestStore(t)
	writeDocument(t, path, planconfig.Document{
		"development": {Plans: map[string]*planconfig.Plan{
			"premium": {
				Variations: map[string]*planconfig.Variation{
					"monthly": {Name: "Monthly"},
					"yearly":  {Name: "Yearly", VariationID: strPtr("VAR_EXIST")},
				},
			},
			"basic": {
				BasePlanID: strPtr("PLAN_BASIC"),
				Variations: map[string]*planconfig.Variation{
					"monthly": {Name: "Monthly"},
				},
			},
		}},
	})

	missingPlans, missingVariations := store.UnconfiguredItems()

	require.Len(t, missingPlans, 1)
	assert.Equal(t, "premium", missingPlans[0].Key)

	require.Len(t, missingVariations, 2)
	byPlan := map[string]planconfig.UnconfiguredVariation{}
	for _, mv := range missingVariations {
		byPlan[mv.PlanKey] = mv
	}

	premium := byPlan["premium"]
	assert.Equal(t, "monthly", premium.VariationKey)
	assert.Nil(t, premium.BasePlanID)

	basic := byPlan["basic"]
	assert.Equal(t, "monthly", basic.VariationKey)
	require.NotNil(t, basic.BasePlanID)
	assert.Equal(t, "PLAN_BASIC", *basic.BasePlanID)
}
