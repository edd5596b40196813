package analysis

import (
	"fmt"

	"crypto-dashboard-go/internal/marketdata"
)

// SignalKind identifies one trading signal.
type SignalKind string

const (
	SignalStrongBuy      SignalKind = "STRONG BUY"
	SignalBuy            SignalKind = "BUY"
	SignalSell           SignalKind = "SELL"
	SignalStrongSell     SignalKind = "STRONG SELL"
	SignalNearSupport    SignalKind = "NEAR SUPPORT"
	SignalNearResistance SignalKind = "NEAR RESISTANCE"
	SignalVolumeSpike    SignalKind = "VOLUME SPIKE"
	SignalLowVolume      SignalKind = "LOW VOLUME"
	SignalExtremeFear    SignalKind = "EXTREME FEAR"
	SignalExtremeGreed   SignalKind = "EXTREME GREED"
)

// Signal pairs a signal kind with a human-readable rationale.
type Signal struct {
	Kind      SignalKind `json:"kind"`
	Rationale string     `json:"rationale"`
}

// proximityThresholdPct is how close (in percent of price) a support or
// resistance level must be to trigger a proximity signal.
const proximityThresholdPct = 2.0

// TradingSignals evaluates the fixed rule list against a snapshot and its
// pivot levels. Rules run in a fixed order and each appends at most one
// signal, so the output order is rule order and duplicates cannot occur.
// Sentiment is optional; pass nil when the index is unavailable.
func TradingSignals(snap *marketdata.Snapshot, pivots PivotLevels, sentiment *marketdata.SentimentIndex) []Signal {
	signals := make([]Signal, 0, 5)
	price := snap.Price
	change := snap.PctChange24h

	// Rule 1: position relative to the pivot.
	if price > pivots.Pivot {
		if change > 2 {
			signals = append(signals, Signal{SignalStrongBuy, "Above pivot + bullish momentum"})
		} else {
			signals = append(signals, Signal{SignalBuy, "Above pivot point - bullish zone"})
		}
	} else {
		if change < -2 {
			signals = append(signals, Signal{SignalStrongSell, "Below pivot + bearish momentum"})
		} else {
			signals = append(signals, Signal{SignalSell, "Below pivot point - bearish zone"})
		}
	}

	// Rule 2: proximity to the nearest support below price.
	if support, ok := NearestSupport(pivots, price); ok {
		distance := (price - support) / price * 100
		if distance < proximityThresholdPct {
			signals = append(signals, Signal{SignalNearSupport,
				fmt.Sprintf("Only %.1f%% above support", distance)})
		}
	}

	// Rule 3: proximity to the nearest resistance above price.
	if resistance, ok := NearestResistance(pivots, price); ok {
		distance := (resistance - price) / price * 100
		if distance < proximityThresholdPct {
			signals = append(signals, Signal{SignalNearResistance,
				fmt.Sprintf("Only %.1f%% below resistance", distance)})
		}
	}

	// Rule 4: volume confirmation.
	if snap.VolumeChange24h > 20 {
		signals = append(signals, Signal{SignalVolumeSpike, "High trading activity - trend confirmation"})
	} else if snap.VolumeChange24h < -20 {
		signals = append(signals, Signal{SignalLowVolume, "Weak activity - trend may reverse"})
	}

	// Rule 5: market-wide sentiment context.
	if sentiment != nil {
		if sentiment.Value < 25 {
			signals = append(signals, Signal{SignalExtremeFear, "Market panic - potential opportunity"})
		} else if sentiment.Value > 75 {
			signals = append(signals, Signal{SignalExtremeGreed, "Market euphoria - exercise caution"})
		}
	}

	return signals
}

// TradeSetup is a suggested entry and stop for one direction.
type TradeSetup struct {
	Side     string  `json:"side"`
	Entry    float64 `json:"entry"`
	StopLoss float64 `json:"stop_loss"`
}

// SuggestSetups proposes a long entry at the nearest support (falling back
// to S1 when price sits below all supports) and a short entry at the
// nearest resistance (falling back to R1), with stops 2% beyond the level.
func SuggestSetups(pivots PivotLevels, price float64) (long, short TradeSetup) {
	longEntry := pivots.S1
	if support, ok := NearestSupport(pivots, price); ok {
		longEntry = support
	}
	shortEntry := pivots.R1
	if resistance, ok := NearestResistance(pivots, price); ok {
		shortEntry = resistance
	}

	long = TradeSetup{Side: "Long", Entry: longEntry, StopLoss: longEntry * 0.98}
	short = TradeSetup{Side: "Short", Entry: shortEntry, StopLoss: shortEntry * 1.02}
	return long, short
}
