package models

import "time"

// IgnoringBlockRecord describes one mined block that left out the transaction
// although its candidate block would have included it.
type IgnoringBlockRecord struct {
	Height                   int64         `json:"height"`
	TxsInMinedBlock          int           `json:"txs_in_mined_block"`
	TxsInCandidateBlock      int           `json:"txs_in_candidate_block"`
	PositionInCandidateBlock int           `json:"position_in_candidate_block"`
	Time                     time.Time     `json:"time"`
	Miner                    MinerIdentity `json:"miner"`
}

// MinerIdentity attributes a block to a miner. CoinbaseASCII is the raw text
// found in the coinbase field.
type MinerIdentity struct {
	Name          string `json:"name"`
	CoinbaseASCII string `json:"coinbase_ascii"`
}

// IgnoringReport aggregates every ignoring block of a single transaction.
// Records keep presentation order and are not required to be sorted.
type IgnoringReport struct {
	Records                 []IgnoringBlockRecord `json:"records"`
	TotalSatoshiPerByteLost float64               `json:"total_satoshi_per_byte_lost"`
	TotalFeesLost           float64               `json:"total_fees_lost"`
}

type TransactionContext struct {
	Time time.Time `json:"time"`
}
