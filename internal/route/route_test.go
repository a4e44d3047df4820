package route

import (
	"context"
	"testing"

	"ignorebtc/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBlockPath(t *testing.T) {
	assert.Equal(t, "/block/800000/OURS", BlockPath(800000, models.OnBlockArrival))
	assert.Equal(t, "/block/1/BITCOIND", BlockPath(1, models.GetBlockTemplate))
}

func TestMinerPath(t *testing.T) {
	assert.Equal(t, "/miner/AntPool", MinerPath("AntPool"))
	assert.Equal(t, "/miner/Foundry%20USA", MinerPath("Foundry USA"))
	assert.Equal(t, "/miner/a%2Fb", MinerPath("a/b"))
}

func TestLogNavigator(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := LogNavigator{Logger: zap.New(core), BaseURL: "https://explorer.example/"}

	require.NoError(t, n.Navigate(context.Background(), "/block/5/OURS"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/block/5/OURS", fields["path"])
	assert.Equal(t, "https://explorer.example/block/5/OURS", fields["url"])
}
