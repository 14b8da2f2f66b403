package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"dompet/internal/backend"
	apphttp "dompet/internal/http"
	"dompet/internal/log"
)

const shutdownTimeout = 30 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and JSON API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	logger := appLogger.WithComponent(log.ComponentApp)

	ctx, cancel := GracefulShutdown(cmd.Context(), logger)
	defer cancel()

	opts := apphttp.Options{
		Addr:           cfg.Addr(),
		Logger:         appLogger.WithComponent(log.ComponentHTTP),
		Location:       cfg.Location(),
		PaymentMethods: cfg.PaymentMethods,
		SalesChannels:  cfg.SalesChannels,
		RateLimitRPM:   cfg.RateLimitRPM,
		FlashTTL:       cfg.FlashTTL,
	}

	// A store that cannot be reached is not fatal: pages keep rendering with
	// a notice and writes are refused until the next restart.
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(appLogger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, log.FieldBackend, cfg.DataBackend)
		opts.StoreErr = err
	} else {
		opts.Store = result.Backend
		if result.Cleanup != nil {
			defer func() {
				if err := result.Cleanup(); err != nil {
					logger.Error("Backend cleanup error", "error", err)
				}
			}()
		}
	}

	srv, err := apphttp.NewServer(opts)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting dompet server", "addr", cfg.Addr(), log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err, "addr", cfg.Addr())
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
