package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/adapters"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/mailer"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/photostore"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/pricing"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/service"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/pkg/log"
)

// environment bundles everything a verb needs to talk to the pipeline.
type environment struct {
	cfg         *config.Config
	store       store.Store
	assessments *service.AssessmentService
	claims      *service.ClaimService
	payments    *service.PaymentService
}

func newEnvironment() (*environment, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("reading configuration: %w", err)
	}

	logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	logger := log.InitLog(logLvl)
	undoLogger := zap.ReplaceGlobals(logger)

	db, err := store.InitDB(cfg)
	if err != nil {
		undoLogger()
		return nil, nil, fmt.Errorf("initializing data store: %w", err)
	}

	s := store.NewStore(db)
	if err := s.InitialMigration(); err != nil {
		_ = s.Close()
		undoLogger()
		return nil, nil, fmt.Errorf("running initial migration: %w", err)
	}

	photos, err := photostore.NewStore(cfg.Storage)
	if err != nil {
		_ = s.Close()
		undoLogger()
		return nil, nil, fmt.Errorf("initializing photo store: %w", err)
	}

	seed := cfg.Pipeline.SimulationSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	env := &environment{
		cfg:         cfg,
		store:       s,
		assessments: service.NewAssessmentService(s, adapters.NewSimulatedEstimator(seed), photos, cfg.Pipeline),
		claims:      service.NewClaimService(s, adapters.NewSimulatedSubmitter(seed), pricing.NewTable(cfg.Pricing)),
		payments:    service.NewPaymentService(s, adapters.NewSimulatedGateway(), mailer.New(cfg.SMTP), cfg.Pricing),
	}

	cleanup := func() {
		_ = s.Close()
		_ = logger.Sync()
		undoLogger()
	}
	return env, cleanup, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
