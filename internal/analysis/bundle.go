package analysis

import (
	"crypto-dashboard-go/internal/marketdata"
)

// Bundle is the full set of metrics derived from one snapshot. It is never
// persisted: it has no identity beyond the snapshot it came from and is
// recomputed on every refresh.
type Bundle struct {
	Trend          Trend       `json:"trend"`
	EstimatedHigh  float64     `json:"estimated_high"`
	EstimatedLow   float64     `json:"estimated_low"`
	EstimatedClose float64     `json:"estimated_close"`
	Pivots         PivotLevels `json:"pivots"`
	RSI            float64     `json:"rsi"`
	RSIZone        RSIZone     `json:"rsi_zone"`
	Volatility     Volatility  `json:"volatility"`
	Signals        []Signal    `json:"signals"`
	VolumeToMCap   float64     `json:"volume_to_mcap_pct"`
	LongSetup      TradeSetup  `json:"long_setup"`
	ShortSetup     TradeSetup  `json:"short_setup"`
}

// Compute assembles the full metrics bundle for a snapshot. Sentiment is
// optional. A snapshot whose 24h change makes the close estimate undefined
// yields an error and no partial bundle: rendering half an analysis would
// be misleading.
func Compute(snap *marketdata.Snapshot, sentiment *marketdata.SentimentIndex) (*Bundle, error) {
	high, low, close, err := EstimateHLC(snap.Price, snap.PctChange24h)
	if err != nil {
		return nil, err
	}

	pivots := ComputePivotLevels(high, low, close)
	rsi := RSIApprox(snap.PctChange24h)
	long, short := SuggestSetups(pivots, snap.Price)

	volToMCap := 0.0
	if snap.MarketCap > 0 {
		volToMCap = snap.Volume24h / snap.MarketCap * 100
	}

	return &Bundle{
		Trend:          ClassifyTrend(snap.PctChange24h),
		EstimatedHigh:  high,
		EstimatedLow:   low,
		EstimatedClose: close,
		Pivots:         pivots,
		RSI:            rsi,
		RSIZone:        ClassifyRSIZone(rsi),
		Volatility:     ClassifyVolatility(snap.PctChange24h),
		Signals:        TradingSignals(snap, pivots, sentiment),
		VolumeToMCap:   volToMCap,
		LongSetup:      long,
		ShortSetup:     short,
	}, nil
}
