package view

import (
	"testing"
	"time"

	"ignorebtc/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var txTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleReport() models.IgnoringReport {
	return models.IgnoringReport{
		Records: []models.IgnoringBlockRecord{
			{
				Height:                   800002,
				TxsInMinedBlock:          3000,
				TxsInCandidateBlock:      3100,
				PositionInCandidateBlock: 0,
				Time:                     txTime,
				Miner:                    models.MinerIdentity{Name: "AntPool", CoinbaseASCII: "Mined by AntPool"},
			},
			{
				Height:                   800000,
				TxsInMinedBlock:          2500,
				TxsInCandidateBlock:      2600,
				PositionInCandidateBlock: 10,
				Time:                     txTime.Add(2*time.Hour + 14*time.Minute),
				Miner:                    models.MinerIdentity{Name: "Foundry USA", CoinbaseASCII: "Foundry USA Pool"},
			},
			{
				Height:                   800001,
				TxsInMinedBlock:          1,
				TxsInCandidateBlock:      2,
				PositionInCandidateBlock: 20,
				Time:                     txTime.Add(-30 * time.Second),
				Miner:                    models.MinerIdentity{Name: "unknown"},
			},
		},
		TotalSatoshiPerByteLost: 1.23456789,
		TotalFeesLost:           12345,
	}
}

func TestBuildAbsence(t *testing.T) {
	tx := models.TransactionContext{Time: txTime}

	assert.Equal(t, Nothing{}, Build(nil, tx, models.OnBlockArrival))
	assert.Equal(t, Nothing{}, Build(models.NoData{}, tx, models.OnBlockArrival))
}

func TestBuildEmptyReport(t *testing.T) {
	tx := models.TransactionContext{Time: txTime}

	tests := []struct {
		algo models.Algorithm
		want string
	}{
		{models.OnBlockArrival, "Transaction has not been ignored by miners comparing against onBlockArrival algorithm."},
		{models.GetBlockTemplate, "Transaction has not been ignored by miners comparing against getBlockTemplate algorithm."},
	}
	for _, tt := range tests {
		t.Run(tt.algo.String(), func(t *testing.T) {
			assert.Equal(t, Notice{Text: tt.want}, Build(models.EmptyReport{}, tx, tt.algo))
			assert.Equal(t, Notice{Text: tt.want}, Build(models.Reported{}, tx, tt.algo))
		})
	}
}

func TestBuildSummary(t *testing.T) {
	tx := models.TransactionContext{Time: txTime}

	v, ok := Build(models.Reported{Report: sampleReport()}, tx, models.GetBlockTemplate).(Report)
	require.True(t, ok)

	assert.Equal(t, "Transaction has been ignored by miners comparing against getBlockTemplate algorithm:", v.Heading)
	assert.Equal(t, []string{"3", "2024-01-01T00:00:00.000Z", "1.234568", "12,345"}, v.Summary.Values)
	require.Len(t, v.Summary.Headers, 4)
	assert.Equal(t, "# Times ignored", v.Summary.Headers[0].Title)
	assert.Equal(t, "TotalSatvBytesLost*tx.vSize", v.Summary.Headers[3].Note)
}

func TestBuildDetail(t *testing.T) {
	tx := models.TransactionContext{Time: txTime}

	v, ok := Build(models.Reported{Report: sampleReport()}, tx, models.OnBlockArrival).(Report)
	require.True(t, ok)

	labels := make([]string, 0, len(v.Detail.Rows))
	for _, row := range v.Detail.Rows {
		labels = append(labels, row.Label)
		assert.Len(t, row.Cells, 3, row.Label)
	}
	assert.Equal(t, []string{
		"Block#",
		"#Txs in mined block",
		"#Txs in candidate block",
		"Position in candidate block",
		"Block Time",
		"Delta Time",
		"Miner Name",
	}, labels)
	assert.Equal(t, 3, v.Detail.Columns())

	texts := func(i int) []string {
		var out []string
		for _, c := range v.Detail.Rows[i].Cells {
			out = append(out, c.Text)
		}
		return out
	}
	assert.Equal(t, []string{"800002", "800000", "800001"}, texts(0))
	assert.Equal(t, []string{"3000", "2500", "1"}, texts(1))
	assert.Equal(t, []string{"3100", "2600", "2"}, texts(2))
	assert.Equal(t, []string{"1st", "11th", "21st"}, texts(3))
	assert.Equal(t, "2024-01-01T02:14:00.000Z", texts(4)[1])
	assert.Equal(t, []string{"0 seconds", "2 hours 14 minutes", "30 seconds"}, texts(5))
	assert.Equal(t, []string{"AntPool", "Foundry USA", "unknown"}, texts(6))

	assert.Equal(t, "/block/800002/OURS", v.Detail.Rows[0].Cells[0].Link)
	miner := v.Detail.Rows[6].Cells[1]
	assert.Equal(t, "/miner/Foundry%20USA", miner.Link)
	assert.Equal(t, "Coinbase: Foundry USA Pool", miner.Note)
	assert.Equal(t, "Coinbase: ", v.Detail.Rows[6].Cells[2].Note)
}

func TestReportLinks(t *testing.T) {
	tx := models.TransactionContext{Time: txTime}

	v := Build(models.Reported{Report: sampleReport()}, tx, models.OnBlockArrival).(Report)
	links := v.Links()

	require.Len(t, links, 6)
	assert.Equal(t, LinkRef{Row: 0, Column: 0, Path: "/block/800002/OURS"}, links[0])
	assert.Equal(t, LinkRef{Row: 0, Column: 2, Path: "/block/800001/OURS"}, links[2])
	assert.Equal(t, LinkRef{Row: 6, Column: 0, Path: "/miner/AntPool"}, links[3])
}

func TestContainerWidth(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, 900, l.ContainerWidth(Viewport{Width: 1000, Height: 700}))
	assert.Equal(t, 0, l.ContainerWidth(Viewport{Width: 80}))
	assert.Equal(t, 60, Layout{Margin: 20}.ContainerWidth(Viewport{Width: 80}))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "nothing", Kind(Nothing{}))
	assert.Equal(t, "nothing", Kind(nil))
	assert.Equal(t, "notice", Kind(Notice{}))
	assert.Equal(t, "report", Kind(Report{}))
}
