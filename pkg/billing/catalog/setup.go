package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/internal/squareclient/squareapi"
	"github.com/zyzyva/square-client/pkg/billing/planconfig"
)

// CatalogCreator is the slice of the Square client the setup flow needs.
type CatalogCreator interface {
	CreateBasePlan(ctx context.Context, payload squareapi.BasePlanPayload) (string, error)
	CreatePlanVariation(ctx context.Context, payload squareapi.PlanVariationPayload) (string, error)
}

// Setup is the administrative flow that creates missing Square catalog
// objects for every unconfigured plan and variation in the config document
// and writes the returned ids back.
type Setup struct {
	log   logutil.Log
	api   CatalogCreator
	store *planconfig.Store
}

func NewSetup(log logutil.Log, api CatalogCreator, store *planconfig.Store) *Setup {
	return &Setup{
		log:   log,
		api:   api,
		store: store,
	}
}

// EnsureConfigured is idempotent: ids already recorded in the document are
// skipped, so rerunning after a partial failure only creates what's still
// missing. Each id is written back right after its object is created to
// keep the recovery window small.
func (s *Setup) EnsureConfigured(ctx context.Context) error {
	missingPlans, missingVariations := s.store.UnconfiguredItems()

	createdBaseIDs := map[string]string{}
	for _, mp := range missingPlans {
		id, err := s.api.CreateBasePlan(ctx, squareapi.BasePlanPayload{
			Name:        mp.Plan.Name,
			Description: mp.Plan.Description,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to create base plan for %q", mp.Key)
		}

		if err := s.store.UpdateBasePlanID(mp.Key, &id); err != nil {
			return errors.Wrapf(err, "failed to record base plan id for %q", mp.Key)
		}
		createdBaseIDs[mp.Key] = id
		s.log.Infof("Created base plan %s for %q", id, mp.Key)
	}

	for _, mv := range missingVariations {
		baseID := mv.BasePlanID
		if baseID == nil {
			if id, ok := createdBaseIDs[mv.PlanKey]; ok {
				baseID = &id
			}
		}
		if baseID == nil {
			return errors.Errorf("no base plan id for variation %s/%s", mv.PlanKey, mv.VariationKey)
		}

		id, err := s.api.CreatePlanVariation(ctx, squareapi.PlanVariationPayload{
			BasePlanID:  *baseID,
			Name:        mv.Variation.Name,
			AmountCents: mv.Variation.Amount,
			Currency:    mv.Variation.Currency,
			Cadence:     string(mv.Variation.Cadence),
		})
		if err != nil {
			return errors.Wrapf(err, "failed to create variation for %s/%s", mv.PlanKey, mv.VariationKey)
		}

		if err := s.store.UpdateVariationID(mv.PlanKey, mv.VariationKey, &id); err != nil {
			return errors.Wrapf(err, "failed to record variation id for %s/%s", mv.PlanKey, mv.VariationKey)
		}
		s.log.Infof("Created plan variation %s for %s/%s", id, mv.PlanKey, mv.VariationKey)
	}

	return nil
}
