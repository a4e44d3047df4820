package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ignorebtc/pkg/models"

	_ "github.com/marcboeker/go-duckdb"
)

var ErrReportNotFound = errors.New("ignoring report not found")

type DB struct {
	conn *sql.DB
}

// ReportKey identifies a stored report.
type ReportKey struct {
	TxID      string
	Algorithm models.Algorithm
}

// NewDB opens the DuckDB file at dbPath. An empty path opens an in-memory
// database.
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func (db *DB) createTables() error {
	queries := []string{
		CreateIgnoringReportsTable,
		CreateIgnoringBlocksTable,
		CreateAllIndexes,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveReport replaces whatever is stored for (txID, algo).
func (db *DB) SaveReport(ctx context.Context, txID string, algo models.Algorithm, txCtx models.TransactionContext, in models.ReportInput) error {
	var (
		hasData bool
		report  models.IgnoringReport
	)
	switch in := in.(type) {
	case models.EmptyReport:
		hasData = true
	case models.Reported:
		hasData = true
		report = in.Report
	}

	var txTime sql.NullTime
	if !txCtx.Time.IsZero() {
		txTime = sql.NullTime{Time: txCtx.Time.UTC(), Valid: true}
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ignoring_blocks WHERE txid = ? AND algo = ?`, txID, algo.String()); err != nil {
		return fmt.Errorf("failed to clear ignoring blocks of %s: %w", txID, err)
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO ignoring_reports (
		txid, algo, tx_time, has_data, total_sv_byte_lost, total_fees_lost, imported_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txID, algo.String(), txTime, hasData,
		report.TotalSatoshiPerByteLost, report.TotalFeesLost, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert report %s: %w", txID, err)
	}

	if len(report.Records) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO ignoring_blocks (
			txid, algo, ordinal, height, txs_in_mined_block, txs_in_candidate_block,
			pos_in_candidate_block, block_time, miner_name, coinbase_ascii
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, r := range report.Records {
			_, err := stmt.ExecContext(ctx,
				txID, algo.String(), i, r.Height, r.TxsInMinedBlock, r.TxsInCandidateBlock,
				r.PositionInCandidateBlock, r.Time.UTC(), r.Miner.Name, r.Miner.CoinbaseASCII)
			if err != nil {
				return fmt.Errorf("failed to insert ignoring block %d of %s: %w", r.Height, txID, err)
			}
		}
	}

	return tx.Commit()
}

// LoadReport returns the stored input and transaction context for (txID,
// algo), or ErrReportNotFound.
func (db *DB) LoadReport(ctx context.Context, txID string, algo models.Algorithm) (models.ReportInput, models.TransactionContext, error) {
	var (
		txTime  sql.NullTime
		hasData bool
		report  models.IgnoringReport
	)
	err := db.conn.QueryRowContext(ctx, `SELECT tx_time, has_data, total_sv_byte_lost, total_fees_lost
		FROM ignoring_reports WHERE txid = ? AND algo = ?`, txID, algo.String()).
		Scan(&txTime, &hasData, &report.TotalSatoshiPerByteLost, &report.TotalFeesLost)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.TransactionContext{}, fmt.Errorf("%s/%s: %w", txID, algo, ErrReportNotFound)
	}
	if err != nil {
		return nil, models.TransactionContext{}, fmt.Errorf("failed to load report %s: %w", txID, err)
	}

	var txCtx models.TransactionContext
	if txTime.Valid {
		txCtx.Time = txTime.Time.UTC()
	}
	if !hasData {
		return models.NoData{}, txCtx, nil
	}

	rows, err := db.conn.QueryContext(ctx, `SELECT height, txs_in_mined_block, txs_in_candidate_block,
		pos_in_candidate_block, block_time, miner_name, coinbase_ascii
		FROM ignoring_blocks WHERE txid = ? AND algo = ? ORDER BY ordinal`, txID, algo.String())
	if err != nil {
		return nil, txCtx, fmt.Errorf("failed to load ignoring blocks of %s: %w", txID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.IgnoringBlockRecord
		if err := rows.Scan(&r.Height, &r.TxsInMinedBlock, &r.TxsInCandidateBlock,
			&r.PositionInCandidateBlock, &r.Time, &r.Miner.Name, &r.Miner.CoinbaseASCII); err != nil {
			return nil, txCtx, fmt.Errorf("failed to scan ignoring block: %w", err)
		}
		r.Time = r.Time.UTC()
		report.Records = append(report.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, txCtx, err
	}

	return models.InputFromReport(report), txCtx, nil
}

func (db *DB) ListReports(ctx context.Context) ([]ReportKey, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT txid, algo FROM ignoring_reports ORDER BY txid, algo`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []ReportKey
	for rows.Next() {
		var (
			key  ReportKey
			algo string
		)
		if err := rows.Scan(&key.TxID, &algo); err != nil {
			return nil, err
		}
		if key.Algorithm, err = models.ParseAlgorithm(algo); err != nil {
			return nil, fmt.Errorf("stored report %s: %w", key.TxID, err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
