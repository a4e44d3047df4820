package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ignorebtc/internal/db"
	"ignorebtc/internal/processor"
	"ignorebtc/internal/rpc"
	"ignorebtc/internal/ui"
	"ignorebtc/pkg/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rpcHost string
	rpcUser string
	rpcPass string
	workers int
)

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import statistics engine reports into the database",
	Long: `Reads JSON arrays of {txId, algo, txTime, igData} entries and stores them in DuckDB.
With --user and --pass, missing transaction times and coinbase texts are fetched
from Bitcoin Core RPC.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&rpcHost, "host", "H", "localhost:8332", "Bitcoin RPC host and port")
	importCmd.Flags().StringVarP(&rpcUser, "user", "u", "", "Bitcoin RPC username")
	importCmd.Flags().StringVarP(&rpcPass, "pass", "p", "", "Bitcoin RPC password")
	importCmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of concurrent workers")
	importCmd.MarkFlagsRequiredTogether("user", "pass")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries, err := readEntries(args)
	if err != nil {
		return err
	}

	database, err := db.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	var enricher processor.Enricher
	if rpcUser != "" {
		rpcClient, err := rpc.NewClient(rpcHost, rpcUser, rpcPass)
		if err != nil {
			return fmt.Errorf("failed to create RPC client: %w", err)
		}
		defer rpcClient.Close()
		enricher = rpcClient
	}

	logger.Info("Importing entries", zap.Int("entries", len(entries)), zap.Int("workers", workers), zap.Bool("rpc", enricher != nil))

	workerPool := processor.NewWorkerPool(database, enricher, workers, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- workerPool.ImportEntries(ctx, entries)
	}()

	uiErr := ui.RunProgressUI(ctx, len(entries), workerPool.GetProgressChannel())
	cancel()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("import failed: %w", err)
	}
	return uiErr
}

func readEntries(paths []string) ([]models.ImportEntry, error) {
	var entries []models.ImportEntry
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		batch, err := models.DecodeImportEntries(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		entries = append(entries, batch...)
	}
	return entries, nil
}
