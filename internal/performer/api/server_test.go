package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trigg3rX/triggerx-performer/internal/performer/client/oracle"
	"github.com/trigg3rX/triggerx-performer/internal/performer/config"
	"github.com/trigg3rX/triggerx-performer/internal/performer/core/execution"
	"github.com/trigg3rX/triggerx-performer/internal/performer/metrics"
	"github.com/trigg3rX/triggerx-performer/pkg/client/aggregator"
	"github.com/trigg3rX/triggerx-performer/pkg/cryptography"
	"github.com/trigg3rX/triggerx-performer/pkg/logging"
	"github.com/trigg3rX/triggerx-performer/pkg/types"
)

func newTestServer(t *testing.T, priceOracle oracle.Oracle) (*Server, common.Address) {
	t.Helper()
	signer, err := cryptography.NewECDSASignerFromHex("0x1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef")
	require.NoError(t, err)

	cfg, err := config.New(config.Params{
		PrivateKey:       make([]byte, 32),
		AggregatorRPCUrl: "http://localhost:8545",
	})
	require.NoError(t, err)

	logger := logging.NewNoOpLogger()
	executor := execution.NewTaskExecutor(cfg, priceOracle, signer, aggregator.NewNoOpAggregatorClient(), nil, nil, logger)

	return NewServer(Config{Port: "0", RequestTimeout: time.Second}, Dependencies{
		Logger:           logger,
		Executor:         executor,
		Version:          "0.1.0",
		PerformerAddress: signer.Address(),
	}), signer.Address()
}

func TestServer_ExecuteTask(t *testing.T) {
	server, address := newTestServer(t, oracle.StaticOracle{Quote: types.PriceQuote{Symbol: "ETHUSDT", Price: "3500.12"}})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/task/execute", "200"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/task/execute", strings.NewReader(`{"taskDefinitionId":0}`))
	req.Header.Set("Content-Type", "application/json")
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task executed successfully")
	assert.Contains(t, rec.Body.String(), address.Hex())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/task/execute", "200")))
}

func TestServer_OracleFailureIsServiceUnavailable(t *testing.T) {
	server, _ := newTestServer(t, unavailableOracle{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/task/execute", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Network error occurred")
}

func TestServer_UnknownRoute(t *testing.T) {
	server, _ := newTestServer(t, oracle.StaticOracle{})
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestServer_CORSPreflight(t *testing.T) {
	server, _ := newTestServer(t, oracle.StaticOracle{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/task/execute", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StartStop(t *testing.T) {
	server, _ := newTestServer(t, oracle.StaticOracle{})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
	assert.NoError(t, <-errCh)
}

type unavailableOracle struct{}

func (unavailableOracle) GetPrice(context.Context, string) (*types.PriceQuote, error) {
	return nil, oracle.ErrPriceUnavailable
}
