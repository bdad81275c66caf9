package planconfig

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"

	"github.com/zyzyva/square-client/internal/shared/config"
	"github.com/zyzyva/square-client/internal/shared/logutil"
)

var ErrConfigExists = errors.New("plan config file already exists")

// Store reads and mutates the plan-configuration document at a fixed path,
// scoped to the environment resolved from config at construction time.
//
// Updates are whole-document read-modify-write with no locking: last writer
// wins. The store is meant for single-writer administrative tooling, not for
// concurrent request-serving traffic.
type Store struct {
	path string
	env  string
	log  logutil.Log
}

func NewStore(log logutil.Log, cfg config.Config, path string) *Store {
	return &Store{
		path: path,
		env:  string(config.GetAppEnv(cfg)),
		log:  log,
	}
}

// Init creates an empty document with both environments. It never overwrites:
// an existing file fails with ErrConfigExists.
func (s *Store) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return errors.Wrapf(ErrConfigExists, "can't init %s", s.path)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", s.path)
	}

	return s.save(newDocument())
}

// load never fails: a missing or malformed file degrades to the empty
// default document so that read paths stay total.
func (s *Store) load() Document {
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnf("Failed to read plan config %s, treating as empty: %s", s.path, err)
		}
		return newDocument()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warnf("Malformed plan config %s, treating as empty: %s", s.path, err)
		return newDocument()
	}
	if doc == nil {
		return newDocument()
	}

	return doc
}

func (s *Store) save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode plan config")
	}
	data = append(data, '\n')

	if err := ioutil.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write plan config to %s", s.path)
	}

	return nil
}

// Plans returns the plan set for the current environment, empty if the
// document or the environment is missing.
func (s *Store) Plans() map[string]*Plan {
	env := s.load()[s.env]
	if env == nil || env.Plans == nil {
		return map[string]*Plan{}
	}

	return env.Plans
}

func (s *Store) Plan(planKey string) *Plan {
	return s.Plans()[planKey]
}

func (s *Store) Variation(planKey, variationKey string) *Variation {
	p := s.Plan(planKey)
	if p == nil {
		return nil
	}

	return p.Variations[variationKey]
}

func (s *Store) VariationID(planKey, variationKey string) *string {
	v := s.Variation(planKey, variationKey)
	if v == nil {
		return nil
	}

	return v.VariationID
}

func (s *Store) ensurePlan(doc Document, planKey string) *Plan {
	env := doc[s.env]
	if env == nil {
		env = &Environment{}
		doc[s.env] = env
	}
	if env.Plans == nil {
		env.Plans = map[string]*Plan{}
	}

	p := env.Plans[planKey]
	if p == nil {
		p = &Plan{}
		env.Plans[planKey] = p
	}

	return p
}

// UpdateBasePlanID sets base_plan_id for the plan, creating missing
// intermediate levels. A nil id clears the value. All sibling fields and
// other environments are carried through unchanged.
func (s *Store) UpdateBasePlanID(planKey string, id *string) error {
	doc := s.load()
	s.ensurePlan(doc, planKey).BasePlanID = id

	return s.save(doc)
}

// UpdateVariationID is UpdateBasePlanID one level deeper.
func (s *Store) UpdateVariationID(planKey, variationKey string, id *string) error {
	doc := s.load()

	p := s.ensurePlan(doc, planKey)
	if p.Variations == nil {
		p.Variations = map[string]*Variation{}
	}
	v := p.Variations[variationKey]
	if v == nil {
		v = &Variation{}
		p.Variations[variationKey] = v
	}
	v.VariationID = id

	return s.save(doc)
}

// AllConfigured reports whether every plan has a base plan id and every
// variation has a variation id. An environment without plans is vacuously
// configured.
func (s *Store) AllConfigured() bool {
	for _, p := range s.Plans() {
		if p.BasePlanID == nil {
			return false
		}
		for _, v := range p.Variations {
			if v.VariationID == nil {
				return false
			}
		}
	}

	return true
}

type UnconfiguredPlan struct {
	Key  string
	Plan *Plan
}

type UnconfiguredVariation struct {
	PlanKey      string
	VariationKey string
	Variation    *Variation

	// BasePlanID is the parent plan's current base id, nil when the base
	// plan itself hasn't been created upstream yet.
	BasePlanID *string
}

// UnconfiguredItems lists plans missing a base_plan_id and variations
// missing a variation_id. Variations are reported regardless of whether
// their parent's base id exists. Order is unspecified.
func (s *Store) UnconfiguredItems() ([]UnconfiguredPlan, []UnconfiguredVariation) {
	var plans []UnconfiguredPlan
	var variations []UnconfiguredVariation

	for key, p := range s.Plans() {
		if p.BasePlanID == nil {
			plans = append(plans, UnconfiguredPlan{Key: key, Plan: p})
		}
		for vkey, v := range p.Variations {
			if v.VariationID == nil {
				variations = append(variations, UnconfiguredVariation{
					PlanKey:      key,
					VariationKey: vkey,
					Variation:    v,
					BasePlanID:   p.BasePlanID,
				})
			}
		}
	}

	return plans, variations
}
