package models

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
)

// IgnoringPayload is the document produced by the statistics engine for one
// transaction and algorithm. Times are milliseconds since the Unix epoch.
type IgnoringPayload struct {
	IgnoringBlocks  *[]PayloadBlock `json:"ignoringBlocks"`
	TotalSVByteLost float64         `json:"totalSVByteLost"`
	TotalFeesLost   float64         `json:"totalFeesLost"`
}

type PayloadBlock struct {
	Height              int64           `json:"height"`
	TxsInMinedBlock     int             `json:"txsInMinedBlock"`
	TxsInCandidateBlock int             `json:"txsInCandidateBlock"`
	PosInCandidateBlock int             `json:"posInCandidateBlock"`
	Time                int64           `json:"time"`
	CoinBaseData        PayloadCoinbase `json:"coinBaseData"`
}

type PayloadCoinbase struct {
	MinerName    string `json:"minerName"`
	AscciOfField string `json:"ascciOfField"`
}

// Input classifies the payload. A nil payload and a payload without the
// ignoringBlocks field both mean NoData; an empty list is EmptyReport.
func (p *IgnoringPayload) Input() ReportInput {
	if p == nil || p.IgnoringBlocks == nil {
		return NoData{}
	}
	blocks := *p.IgnoringBlocks
	if len(blocks) == 0 {
		return EmptyReport{}
	}

	records := make([]IgnoringBlockRecord, 0, len(blocks))
	for _, b := range blocks {
		records = append(records, IgnoringBlockRecord{
			Height:                   b.Height,
			TxsInMinedBlock:          b.TxsInMinedBlock,
			TxsInCandidateBlock:      b.TxsInCandidateBlock,
			PositionInCandidateBlock: b.PosInCandidateBlock,
			Time:                     FromMillis(b.Time),
			Miner: MinerIdentity{
				Name:          b.CoinBaseData.MinerName,
				CoinbaseASCII: b.CoinBaseData.AscciOfField,
			},
		})
	}

	return Reported{Report: IgnoringReport{
		Records:                 records,
		TotalSatoshiPerByteLost: p.TotalSVByteLost,
		TotalFeesLost:           p.TotalFeesLost,
	}}
}

// ImportEntry binds a payload to the transaction it describes.
type ImportEntry struct {
	TxID      string           `json:"txId"`
	Algorithm Algorithm        `json:"algo"`
	TxTime    *int64           `json:"txTime,omitempty"`
	IgData    *IgnoringPayload `json:"igData"`
}

// Context returns the transaction context and whether the time was present.
func (e ImportEntry) Context() (TransactionContext, bool) {
	if e.TxTime == nil {
		return TransactionContext{}, false
	}
	return TransactionContext{Time: FromMillis(*e.TxTime)}, true
}

var errMissingTxID = errors.New("entry without txId")

// DecodeImportEntries reads a JSON array of import entries.
func DecodeImportEntries(r io.Reader) ([]ImportEntry, error) {
	var entries []ImportEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode import entries: %w", err)
	}
	for i, e := range entries {
		if e.TxID == "" {
			return nil, fmt.Errorf("entry %d: %w", i, errMissingTxID)
		}
	}
	return entries, nil
}

// DecodePayload reads a single statistics engine document. A literal null
// yields a nil payload.
func DecodePayload(r io.Reader) (*IgnoringPayload, error) {
	var p *IgnoringPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode ignoring payload: %w", err)
	}
	return p, nil
}

func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
