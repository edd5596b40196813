package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"crypto-dashboard-go/internal/analysis"
	"crypto-dashboard-go/internal/marketdata"
	"crypto-dashboard-go/internal/tradelog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubProvider lets each test script the provider's answers without a
// network round trip.
type stubProvider struct {
	snapshot     *marketdata.Snapshot
	snapshotErr  error
	sentiment    *marketdata.SentimentIndex
	sentimentErr error
}

var _ marketdata.Provider = (*stubProvider)(nil)

func (p *stubProvider) GetSnapshot(ctx context.Context, assetID int) (*marketdata.Snapshot, error) {
	return p.snapshot, p.snapshotErr
}

func (p *stubProvider) GetGlobalMetrics(ctx context.Context) (*marketdata.GlobalMetrics, error) {
	return nil, errors.New("not scripted")
}

func (p *stubProvider) GetSentimentIndex(ctx context.Context) (*marketdata.SentimentIndex, error) {
	return p.sentiment, p.sentimentErr
}

func (p *stubProvider) SearchAssets(ctx context.Context, query string, limit int) ([]marketdata.AssetRef, error) {
	return nil, errors.New("not scripted")
}

func (p *stubProvider) PopularAssets() []marketdata.AssetRef { return nil }

func (p *stubProvider) InvalidateCache() {}

func newTestServer(provider marketdata.Provider) *Server {
	return &Server{
		logger:     zap.NewNop(),
		provider:   provider,
		feePercent: 0.075,
	}
}

func TestWriteErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Network error maps to bad gateway", &marketdata.NetworkError{Err: errors.New("dial refused")}, http.StatusBadGateway},
		{"API error maps to bad gateway", &marketdata.APIError{StatusCode: 429, Message: "rate limited"}, http.StatusBadGateway},
		{"Parse error maps to bad gateway", &marketdata.ParseError{Field: "price"}, http.StatusBadGateway},
		{"Unknown asset maps to not found", &marketdata.NotFoundError{AssetID: 7}, http.StatusNotFound},
		{"Trade log validation maps to bad request", &tradelog.ValidationError{Msg: "bad capital"}, http.StatusBadRequest},
		{"Analysis validation maps to bad request", &analysis.ValidationError{Msg: "bad change"}, http.StatusBadRequest},
		{"Persistence error maps to internal error", &tradelog.PersistenceError{Op: "append", Err: errors.New("disk full")}, http.StatusInternalServerError},
		{"Unclassified error maps to internal error", errors.New("boom"), http.StatusInternalServerError},
	}

	s := newTestServer(&stubProvider{})
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.writeError(rec, tc.err)
			assert.Equal(t, tc.expected, rec.Code)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.err.Error(), body["error"])
		})
	}

	t.Run("Wrapped taxonomy errors still map", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapped := fmt.Errorf("failed to get quote: %w", &marketdata.NetworkError{Err: errors.New("timeout")})
		s.writeError(rec, wrapped)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func testSnapshot() *marketdata.Snapshot {
	return &marketdata.Snapshot{
		ID:           1,
		Name:         "Bitcoin",
		Symbol:       "BTC",
		Price:        50000,
		PctChange24h: 3,
		Volume24h:    30_000_000_000,
		MarketCap:    1_000_000_000_000,
	}
}

func TestAnalysisHandler(t *testing.T) {
	t.Run("Snapshot and sentiment present", func(t *testing.T) {
		s := newTestServer(&stubProvider{
			snapshot:  testSnapshot(),
			sentiment: &marketdata.SentimentIndex{Value: 20, Classification: "Extreme Fear"},
		})

		rec := httptest.NewRecorder()
		s.analysisHandler(rec, httptest.NewRequest(http.MethodGet, "/api/analysis?id=1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp analysisResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "BTC", resp.Snapshot.Symbol)
		assert.Equal(t, analysis.TrendBullish, resp.Metrics.Trend)
		assert.NotNil(t, resp.Sentiment)
		assert.Equal(t, 20, resp.Sentiment.Value)
	})

	t.Run("Sentiment failure degrades to metrics without it", func(t *testing.T) {
		s := newTestServer(&stubProvider{
			snapshot:     testSnapshot(),
			sentimentErr: &marketdata.NetworkError{Err: errors.New("timeout")},
		})

		rec := httptest.NewRecorder()
		s.analysisHandler(rec, httptest.NewRequest(http.MethodGet, "/api/analysis?id=1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp analysisResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotNil(t, resp.Metrics)
		assert.Nil(t, resp.Sentiment)
	})

	t.Run("Snapshot failure fails the whole request", func(t *testing.T) {
		s := newTestServer(&stubProvider{
			snapshotErr: &marketdata.NetworkError{Err: errors.New("dial refused")},
			sentiment:   &marketdata.SentimentIndex{Value: 50, Classification: "Neutral"},
		})

		rec := httptest.NewRecorder()
		s.analysisHandler(rec, httptest.NewRequest(http.MethodGet, "/api/analysis?id=1", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("Unknown asset is not found", func(t *testing.T) {
		s := newTestServer(&stubProvider{snapshotErr: &marketdata.NotFoundError{AssetID: 99999999}})

		rec := httptest.NewRecorder()
		s.analysisHandler(rec, httptest.NewRequest(http.MethodGet, "/api/analysis?id=99999999", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Missing or invalid id is a bad request", func(t *testing.T) {
		s := newTestServer(&stubProvider{snapshot: testSnapshot()})

		for _, target := range []string{"/api/analysis", "/api/analysis?id=0", "/api/analysis?id=abc"} {
			rec := httptest.NewRecorder()
			s.analysisHandler(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}

func TestSnapshotHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := newTestServer(&stubProvider{snapshot: testSnapshot()})

		rec := httptest.NewRecorder()
		s.snapshotHandler(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot?id=1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var snap marketdata.Snapshot
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
		assert.Equal(t, "Bitcoin", snap.Name)
	})

	t.Run("Provider failure surfaces as bad gateway", func(t *testing.T) {
		s := newTestServer(&stubProvider{snapshotErr: &marketdata.APIError{StatusCode: 500, Message: "upstream down"}})

		rec := httptest.NewRecorder()
		s.snapshotHandler(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot?id=1", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("Wrong method is rejected", func(t *testing.T) {
		s := newTestServer(&stubProvider{snapshot: testSnapshot()})

		rec := httptest.NewRecorder()
		s.snapshotHandler(rec, httptest.NewRequest(http.MethodPost, "/api/snapshot?id=1", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
