package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ignorebtc/internal/db"
	"ignorebtc/internal/metrics"
	"ignorebtc/internal/route"
	"ignorebtc/internal/ui"
	"ignorebtc/internal/view"
	"ignorebtc/pkg/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	showAlgo    string
	showFile    string
	showTxTime  string
	showWidth   int
	showMargin  int
	explorerURL string
)

var showCmd = &cobra.Command{
	Use:   "show TXID",
	Short: "Render the ignoring blocks of a transaction",
	Long: `Renders the ignoring-block report of a transaction stored in the database, or read
from a statistics engine JSON document with --file.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showAlgo, "algo", "a", models.OnBlockArrival.String(), "Candidate block algorithm (OURS or BITCOIND)")
	showCmd.Flags().StringVarP(&showFile, "file", "f", "", "Statistics engine JSON document to render instead of the database")
	showCmd.Flags().StringVar(&showTxTime, "tx-time", "", "Transaction time (RFC3339), required with --file")
	showCmd.Flags().IntVarP(&showWidth, "width", "w", 0, "Viewport width when not attached to a terminal, 0 for unbounded")
	showCmd.Flags().IntVar(&showMargin, "margin", view.DefaultMargin, "Horizontal margin subtracted from the viewport width")
	showCmd.Flags().StringVar(&explorerURL, "explorer-url", "", "Base URL of the block explorer for selected links")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	txID := args[0]

	algo, err := models.ParseAlgorithm(showAlgo)
	if err != nil {
		return err
	}

	v, err := buildView(ctx, txID, algo)
	if err != nil {
		return err
	}

	selected, err := ui.RunIgnoringUI(ctx, v, view.Layout{Margin: showMargin}, showWidth)
	if err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}

	if selected == "" {
		return nil
	}
	fmt.Println(selected)
	return route.LogNavigator{Logger: logger, BaseURL: explorerURL}.Navigate(ctx, selected)
}

// buildView loads the report and builds its view. The render metric covers
// loading and building only, not the interactive session that follows.
func buildView(ctx context.Context, txID string, algo models.Algorithm) (view.View, error) {
	started := time.Now()

	in, txCtx, err := loadInput(ctx, txID, algo)
	if err != nil {
		return nil, err
	}

	v := view.Build(in, txCtx, algo)
	metrics.ObserveRender("terminal", view.Kind(v), started)
	logger.Debug("Built view", zap.String("txid", txID), zap.Stringer("algo", algo), zap.String("kind", view.Kind(v)))
	return v, nil
}

func loadInput(ctx context.Context, txID string, algo models.Algorithm) (models.ReportInput, models.TransactionContext, error) {
	if showFile != "" {
		return loadInputFile(showFile, showTxTime)
	}

	database, err := db.NewDB(dbPath)
	if err != nil {
		return nil, models.TransactionContext{}, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	in, txCtx, err := database.LoadReport(ctx, txID, algo)
	if errors.Is(err, db.ErrReportNotFound) {
		logger.Warn("No stored report", zap.String("txid", txID), zap.Stringer("algo", algo))
		return models.NoData{}, models.TransactionContext{}, nil
	}
	return in, txCtx, err
}

func loadInputFile(path, txTime string) (models.ReportInput, models.TransactionContext, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, models.TransactionContext{}, fmt.Errorf("failed to open payload: %w", err)
	}
	defer f.Close()

	payload, err := models.DecodePayload(f)
	if err != nil {
		return nil, models.TransactionContext{}, err
	}

	in := payload.Input()

	var txCtx models.TransactionContext
	if txTime != "" {
		if txCtx.Time, err = time.Parse(time.RFC3339, txTime); err != nil {
			return nil, models.TransactionContext{}, fmt.Errorf("invalid transaction time: %w", err)
		}
	} else if _, ok := in.(models.Reported); ok {
		return nil, models.TransactionContext{}, errors.New("--tx-time is required to render a report from --file")
	}
	return in, txCtx, nil
}
