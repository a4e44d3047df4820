package db

const CreateIgnoringReportsTable = `CREATE TABLE IF NOT EXISTS ignoring_reports (
	txid VARCHAR NOT NULL,
	algo VARCHAR NOT NULL,
	tx_time TIMESTAMP,
	has_data BOOLEAN NOT NULL,
	total_sv_byte_lost DOUBLE NOT NULL DEFAULT 0,
	total_fees_lost DOUBLE NOT NULL DEFAULT 0,
	imported_at TIMESTAMP NOT NULL,
	PRIMARY KEY (txid, algo)
)`

// ignoring_blocks has no unique key: DuckDB rejects a delete and re-insert of
// the same key inside one transaction.
const CreateIgnoringBlocksTable = `CREATE TABLE IF NOT EXISTS ignoring_blocks (
	txid VARCHAR NOT NULL,
	algo VARCHAR NOT NULL,
	ordinal INTEGER NOT NULL,
	height BIGINT NOT NULL,
	txs_in_mined_block INTEGER NOT NULL,
	txs_in_candidate_block INTEGER NOT NULL,
	pos_in_candidate_block INTEGER NOT NULL,
	block_time TIMESTAMP NOT NULL,
	miner_name VARCHAR NOT NULL,
	coinbase_ascii VARCHAR NOT NULL
)`

const CreateAllIndexes = `CREATE INDEX IF NOT EXISTS idx_ignoring_blocks_height ON ignoring_blocks (height)`
