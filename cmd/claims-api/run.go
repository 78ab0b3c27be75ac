package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/adapters"
	apiserver "github.com/Aim67TQ7/heartlandclaimspro-automation/internal/api_server"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/mailer"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/photostore"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/pricing"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/scheduler"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/service"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the claims api and the processing pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting claims service")
		defer zap.S().Info("Claims service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		photos, err := photostore.NewStore(cfg.Storage)
		if err != nil {
			zap.S().Fatalw("initializing photo store", "error", err)
		}
		zap.S().Infof("photo store: %s", photos.Type())

		seed := cfg.Pipeline.SimulationSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		assessments := service.NewAssessmentService(s, adapters.NewSimulatedEstimator(seed), photos, cfg.Pipeline)
		claims := service.NewClaimService(s, adapters.NewSimulatedSubmitter(seed), pricing.NewTable(cfg.Pricing))
		payments := service.NewPaymentService(s, adapters.NewSimulatedGateway(), mailer.New(cfg.SMTP), cfg.Pricing)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go scheduler.New(assessments, claims, payments, cfg.Pipeline.Interval).Run(ctx)

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, photos, payments, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("running api server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating metrics listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
