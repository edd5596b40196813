package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"crypto-dashboard-go/internal/analysis"
	"crypto-dashboard-go/internal/marketdata"
	"crypto-dashboard-go/internal/models"
	"crypto-dashboard-go/internal/tradelog"
	"go.uber.org/zap"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError maps the error taxonomy to HTTP statuses. Provider failures
// come back as 502 so the front-end can show a specific upstream message
// instead of rendering misleading zeroed data.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		netErr      *marketdata.NetworkError
		apiErr      *marketdata.APIError
		parseErr    *marketdata.ParseError
		notFound    *marketdata.NotFoundError
		valErr      *tradelog.ValidationError
		analysisVal *analysis.ValidationError
		persistErr  *tradelog.PersistenceError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &netErr), errors.As(err, &apiErr), errors.As(err, &parseErr):
		status = http.StatusBadGateway
	case errors.As(err, &valErr), errors.As(err, &analysisVal):
		status = http.StatusBadRequest
	case errors.As(err, &persistErr):
		status = http.StatusInternalServerError
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	snap, err := s.provider.GetSnapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// analysisResponse pairs a snapshot with the metrics derived from it.
type analysisResponse struct {
	Snapshot  *marketdata.Snapshot       `json:"snapshot"`
	Metrics   *analysis.Bundle           `json:"metrics"`
	Sentiment *marketdata.SentimentIndex `json:"sentiment,omitempty"`
}

func (s *Server) analysisHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	// Without a usable snapshot there is nothing to analyze: fail the whole
	// request rather than render partial metrics.
	snap, err := s.provider.GetSnapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Sentiment is context, not a requirement; analysis degrades without it.
	sentiment, err := s.provider.GetSentimentIndex(r.Context())
	if err != nil {
		s.logger.Warn("Sentiment index unavailable, continuing without it", zap.Error(err))
		sentiment = nil
	}

	bundle, err := analysis.Compute(snap, sentiment)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, analysisResponse{
		Snapshot:  snap,
		Metrics:   bundle,
		Sentiment: sentiment,
	})
}

func (s *Server) globalHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.provider.GetGlobalMetrics(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) sentimentHandler(w http.ResponseWriter, r *http.Request) {
	index, err := s.provider.GetSentimentIndex(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, index)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(query) < 2 {
		http.Error(w, "query must be at least 2 characters", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := s.provider.SearchAssets(r.Context(), query, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) popularHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.provider.PopularAssets())
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.provider.InvalidateCache()
	w.WriteHeader(http.StatusNoContent)
}

// newTradeRequest is the form payload for logging a trade plan.
type newTradeRequest struct {
	Date       string  `json:"date"` // RFC3339 or YYYY-MM-DD, defaults to now
	Coin       string  `json:"coin"`
	Side       string  `json:"side"`
	EntryPrice float64 `json:"entry_price"`
	TakeProfit float64 `json:"take_profit"`
	StopLoss   float64 `json:"stop_loss"`
	Capital    float64 `json:"capital"`
}

func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func (s *Server) tradesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTrades(w, r)
	case http.MethodPost:
		s.appendTrade(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) tradeFilter(r *http.Request) (tradelog.Filter, error) {
	q := r.URL.Query()
	filter := tradelog.Filter{
		Coin:   q.Get("coin"),
		Status: q.Get("status"),
	}
	if v := q.Get("from"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &t
	}
	return filter, nil
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := s.tradeFilter(r)
	if err != nil {
		http.Error(w, "invalid date filter", http.StatusBadRequest)
		return
	}
	entries, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) appendTrade(w http.ResponseWriter, r *http.Request) {
	var req newTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := parseDateParam(req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		date = parsed
	}
	side := req.Side
	if side == "" {
		side = models.SideLong
	}

	entry, err := tradelog.NewEntry(date, req.Coin, side,
		req.EntryPrice, req.TakeProfit, req.StopLoss, req.Capital, s.feePercent)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if _, err := s.store.Append(r.Context(), entry); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) tradeStatsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := s.tradeFilter(r)
	if err != nil {
		http.Error(w, "invalid date filter", http.StatusBadRequest)
		return
	}
	entries, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tradelog.Aggregate(entries))
}

func (s *Server) tradeExportHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := s.tradeFilter(r)
	if err != nil {
		http.Error(w, "invalid date filter", http.StatusBadRequest)
		return
	}
	entries, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "csv":
		data, err := tradelog.ExportCSV(entries)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trade_log.csv"`)
		w.Write(data)
	case "xlsx":
		data, err := tradelog.ExportXLSX(entries)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="trade_log.xlsx"`)
		w.Write(data)
	default:
		http.Error(w, "unknown export format", http.StatusBadRequest)
	}
}

type clearRequest struct {
	Confirm string `json:"confirm"`
}

func (s *Server) tradeClearHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.store.ClearAll(r.Context(), tradelog.ClearConfirmation(req.Confirm)); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
