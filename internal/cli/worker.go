package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"dompet/internal/amqp"
	"dompet/internal/backend"
	"dompet/internal/log"
	gsheet "dompet/internal/sheets/google"
	"dompet/internal/storage"
	"dompet/internal/worker"
)

func init() {
	rootCmd.AddCommand(syncWorkerCmd)
}

var syncWorkerCmd = &cobra.Command{
	Use:   "sync-worker",
	Short: "Mirror entries saved in SQLite into the spreadsheet",
	Long: `Consumes sync messages published by "serve" when DATA_BACKEND=sqlite and
sweeps unsynced rows every SYNC_INTERVAL. Without a reachable broker the
worker runs sweeps only.`,
	RunE: runSyncWorker,
}

func runSyncWorker(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	logger := appLogger.WithComponent(log.ComponentWorker)

	if cfg.GoogleSpreadsheetID == "" && cfg.GoogleSpreadsheetTitle == "" {
		return errors.New("sync-worker needs GOOGLE_SPREADSHEET_ID or GOOGLE_SPREADSHEET_TITLE")
	}

	ctx, cancel := GracefulShutdown(cmd.Context(), logger)
	defer cancel()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		return err
	}
	defer repo.Close()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	target, err := gsheet.New(ctx, bcfg.GoogleConfig())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		return err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", target.SpreadsheetID())

	var consumer worker.Consumer
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, running periodic sweeps only", "error", err)
		} else {
			defer client.Close()
			consumer = client
		}
	}

	w := worker.NewSyncWorker(repo, target, cfg.SyncBatchSize, cfg.SyncGrace)
	if err := w.Run(ctx, consumer, cfg.SyncInterval); err != nil {
		logger.Error("Sync worker stopped", "error", err)
		return err
	}
	logger.Info("Worker shutdown complete")
	return nil
}
