// Package server exposes the dashboard core over a small JSON API that the
// front-end polls. Rendering itself (charts, widgets, layout) stays on the
// client side.
package server

import (
	"context"
	"fmt"
	"net/http"

	"crypto-dashboard-go/internal/config"
	"crypto-dashboard-go/internal/marketdata"
	"crypto-dashboard-go/internal/tradelog"
	"go.uber.org/zap"
)

// Server provides the HTTP interface for the dashboard.
type Server struct {
	server     *http.Server
	logger     *zap.Logger
	provider   marketdata.Provider
	store      *tradelog.Store
	feePercent float64
}

// New creates a new dashboard API server.
func New(cfg *config.Config, provider marketdata.Provider, store *tradelog.Store, logger *zap.Logger) *Server {
	s := &Server{
		logger:     logger.Named("api-server"),
		provider:   provider,
		store:      store,
		feePercent: cfg.TradeLog.FeePercent,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/api/snapshot", s.snapshotHandler)
	mux.HandleFunc("/api/analysis", s.analysisHandler)
	mux.HandleFunc("/api/global", s.globalHandler)
	mux.HandleFunc("/api/sentiment", s.sentimentHandler)
	mux.HandleFunc("/api/search", s.searchHandler)
	mux.HandleFunc("/api/popular", s.popularHandler)
	mux.HandleFunc("/api/refresh", s.refreshHandler)
	mux.HandleFunc("/api/trades", s.tradesHandler)
	mux.HandleFunc("/api/trades/stats", s.tradeStatsHandler)
	mux.HandleFunc("/api/trades/export", s.tradeExportHandler)
	mux.HandleFunc("/api/trades/clear", s.tradeClearHandler)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}
	return s
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
