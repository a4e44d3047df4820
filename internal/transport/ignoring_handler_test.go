package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ignorebtc/internal/db"
	"ignorebtc/internal/view"
	"ignorebtc/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var txTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeLoader struct {
	inputs map[string]models.ReportInput
	err    error
}

func (f fakeLoader) LoadReport(_ context.Context, txID string, algo models.Algorithm) (models.ReportInput, models.TransactionContext, error) {
	if f.err != nil {
		return nil, models.TransactionContext{}, f.err
	}
	in, ok := f.inputs[txID+"/"+algo.String()]
	if !ok {
		return nil, models.TransactionContext{}, fmt.Errorf("%s: %w", txID, db.ErrReportNotFound)
	}
	return in, models.TransactionContext{Time: txTime}, nil
}

func newServer(t *testing.T, loader ReportLoader) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewIgnoringHandler(loader, view.DefaultLayout(), zap.NewNop()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIgnoringHandler(t *testing.T) {
	report := models.IgnoringReport{
		Records: []models.IgnoringBlockRecord{
			{Height: 800000, TxsInMinedBlock: 10, TxsInCandidateBlock: 12, PositionInCandidateBlock: 2, Time: txTime.Add(time.Minute), Miner: models.MinerIdentity{Name: "Foundry USA", CoinbaseASCII: "<Foundry>"}},
		},
		TotalSatoshiPerByteLost: 1.23456789,
		TotalFeesLost:           12345,
	}
	srv := newServer(t, fakeLoader{inputs: map[string]models.ReportInput{
		"reported/OURS":   models.Reported{Report: report},
		"empty/BITCOIND":  models.EmptyReport{},
		"nodata/BITCOIND": models.NoData{},
	}})

	t.Run("report", func(t *testing.T) {
		code, body := get(t, srv.URL+"/tx/reported/ignoring/OURS?width=1000")
		require.Equal(t, http.StatusOK, code)

		assert.Contains(t, body, "Transaction has been ignored by miners comparing against onBlockArrival algorithm:")
		assert.Contains(t, body, "width: 900px")
		assert.Contains(t, body, `<a href="/block/800000/OURS">800000</a>`)
		assert.Contains(t, body, `<a href="/miner/Foundry%20USA">Foundry USA</a>`)
		assert.Contains(t, body, "Coinbase: &lt;Foundry&gt;")
		assert.Contains(t, body, "<td>3rd</td>")
		assert.Contains(t, body, "<td>1 minute</td>")
		assert.Contains(t, body, "<td>1.234568</td>")
		assert.Contains(t, body, "<td>12,345</td>")
	})

	t.Run("default width", func(t *testing.T) {
		code, body := get(t, srv.URL+"/tx/reported/ignoring/OURS")
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "width: 900px")
	})

	t.Run("empty report", func(t *testing.T) {
		code, body := get(t, srv.URL+"/tx/empty/ignoring/BITCOIND")
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "<h3>Transaction has not been ignored by miners comparing against getBlockTemplate algorithm.</h3>")
		assert.NotContains(t, body, "<table")
	})

	t.Run("no data", func(t *testing.T) {
		code, body := get(t, srv.URL+"/tx/nodata/ignoring/BITCOIND")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "", strings.TrimSpace(body))
	})

	t.Run("not found", func(t *testing.T) {
		code, _ := get(t, srv.URL+"/tx/missing/ignoring/OURS")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		code, _ := get(t, srv.URL+"/tx/reported/ignoring/ours")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("invalid width", func(t *testing.T) {
		code, _ := get(t, srv.URL+"/tx/reported/ignoring/OURS?width=wide")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestIgnoringHandlerLoadError(t *testing.T) {
	srv := newServer(t, fakeLoader{err: errors.New("disk on fire")})

	code, _ := get(t, srv.URL+"/tx/any/ignoring/OURS")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestHealth(t *testing.T) {
	srv := newServer(t, fakeLoader{})

	code, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)
}
