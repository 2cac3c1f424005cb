package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/internal/forecaster"
	"github.com/vzahanych/weather-report/pkg/logger"
	"github.com/vzahanych/weather-report/pkg/telemetry"
)

const (
	ExitOK          = 0
	ExitOutOfBounds = 1
	ExitFailure     = 2
)

var (
	configPath string
	log        *zap.Logger
	tele       *telemetry.Telemetry

	// Swapped in tests.
	clock clockwork.Clock = clockwork.NewRealClock()
	fs    afero.Fs        = afero.NewOsFs()
)

func rootCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "weather-report",
		Short: "Point forecast from SMHI",
		Long: `Fetch the SMHI point forecast for a place name or a "<lat>,<lon>" pair and
print the next hours as a readable report.`,
		Example: `  weather-report -d "Lund, Sweden"
  weather-report -c 55.7058,13.1932 -n 3`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (default: ./config.yaml)")
	opts.bind(cmd)

	cmd.AddCommand(serveCmd())

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			if log != nil {
				log.Info("Received shutdown signal", zap.String("signal", sig.String()))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	err := rootCmd().ExecuteContext(ctx)
	shutdownServices()
	return err
}

// ExitCode maps the result of Execute to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, forecaster.ErrOutOfBounds):
		return ExitOutOfBounds
	default:
		return ExitFailure
	}
}

func initializeServices(ctx context.Context) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Set config
	config.SetConfig(cfg)

	// 3. Initialize logger
	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 4. Initialize telemetry
	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		tele = nil
	}

	return nil
}

func shutdownServices() {
	if tele != nil {
		if err := tele.Shutdown(context.Background()); err != nil && log != nil {
			log.Warn("Failed to shutdown telemetry", zap.Error(err))
		}
	}
	if log != nil {
		_ = log.Sync()
	}
}
