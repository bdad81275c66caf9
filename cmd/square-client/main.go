package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/zyzyva/square-client/internal/shared/apperrors"
	"github.com/zyzyva/square-client/internal/shared/config"
	"github.com/zyzyva/square-client/internal/shared/db/gormdb"
	"github.com/zyzyva/square-client/internal/shared/logutil"
	"github.com/zyzyva/square-client/internal/squareclient"
	"github.com/zyzyva/square-client/pkg/billing/catalog"
	"github.com/zyzyva/square-client/pkg/billing/planconfig"
	"github.com/zyzyva/square-client/pkg/billing/store"
	"github.com/zyzyva/square-client/pkg/billing/subsync"
	"github.com/zyzyva/square-client/pkg/billing/webhooks"
)

const defaultConfigPath = "config/square_plans.json"

func main() {
	log := logutil.NewStderrLog("square-client")
	log.SetLevel(logutil.LogLevelInfo)

	if err := run(log); err != nil {
		log.Fatalf("%s", err)
	}
}

func run(log logutil.Log) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Can't load .env: %s", err)
	}

	cfg := config.NewEnvConfig(log)

	configPath := cfg.GetString("SQUARE_PLANS_CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	planStore := planconfig.NewStore(log, cfg, configPath)

	if len(os.Args) < 2 {
		return errors.New("usage: square-client init|status|setup|sync|serve")
	}

	switch cmd := os.Args[1]; cmd {
	case "init":
		if err := planStore.Init(); err != nil {
			return errors.Wrap(err, "init failed")
		}
		log.Infof("Created plan config at %s", configPath)
		return nil

	case "status":
		return printStatus(planStore)

	case "setup":
		client := squareclient.NewClient(log, cfg)
		setup := catalog.NewSetup(log, client, planStore)
		if err := setup.EnsureConfigured(context.Background()); err != nil {
			return errors.Wrap(err, "setup failed")
		}
		log.Infof("All plans and variations are configured")
		return nil

	case "sync":
		return runSync(log, cfg)

	case "serve":
		return runServe(log, cfg)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func buildSyncEngine(log logutil.Log, cfg config.Config) (*subsync.Engine, *store.SubscriptionStore, error) {
	db, err := gormdb.GetDB(cfg, log, "")
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to db")
	}

	subs := store.NewSubscriptionStore(db)
	engine := subsync.NewEngine(log, squareclient.NewClient(log, cfg), subs)

	return engine, subs, nil
}

// runSync reconciles every locally known subscription that is close enough
// to renewal to be worth a remote call.
func runSync(log logutil.Log, cfg config.Config) error {
	engine, subs, err := buildSyncEngine(log, cfg)
	if err != nil {
		return err
	}

	list, err := subs.AllWithRemoteID()
	if err != nil {
		return err
	}

	synced := 0
	for i := range list {
		sub := &list[i]
		if !engine.ShouldSync(sub) {
			continue
		}

		if _, err := engine.SyncFromRemote(context.Background(), sub); err != nil {
			log.Errorf("Failed to sync subscription %d: %s", sub.ID, err)
			continue
		}
		synced++
	}

	log.Infof("Synced %d of %d subscriptions", synced, len(list))
	return nil
}

func runServe(log logutil.Log, cfg config.Config) error {
	engine, subs, err := buildSyncEngine(log, cfg)
	if err != nil {
		return err
	}

	r := mux.NewRouter()
	webhooks.NewHandler(log, cfg, engine, subs).Register(r)

	tracker := apperrors.GetTracker(cfg, log, "square-client")
	handler := webhooks.Recover(r, log, tracker)

	addr := ":" + cfg.GetString("PORT")
	if addr == ":" {
		addr = ":3000"
	}

	log.Infof("Listening on %s", addr)
	return http.ListenAndServe(addr, handler)
}

func printStatus(planStore *planconfig.Store) error {
	if planStore.AllConfigured() {
		fmt.Println("all plans and variations are configured")
		return nil
	}

	missingPlans, missingVariations := planStore.UnconfiguredItems()
	for _, mp := range missingPlans {
		fmt.Printf("plan %q (%s): no base plan id\n", mp.Key, mp.Plan.Name)
	}
	for _, mv := range missingVariations {
		fmt.Printf("variation %s/%s (%s): no variation id\n", mv.PlanKey, mv.VariationKey, mv.Variation.Name)
	}

	return nil
}
