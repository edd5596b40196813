package analysis

import (
	"testing"

	"crypto-dashboard-go/internal/marketdata"
	"github.com/stretchr/testify/assert"
)

func kinds(signals []Signal) []SignalKind {
	out := make([]SignalKind, len(signals))
	for i, s := range signals {
		out[i] = s.Kind
	}
	return out
}

func TestTradingSignals(t *testing.T) {
	pivots := PivotLevels{Pivot: 95, R1: 101, R2: 105, R3: 110, S1: 99, S2: 90, S3: 85}

	t.Run("All rules fire in rule order", func(t *testing.T) {
		snap := &marketdata.Snapshot{
			Price:           100,
			PctChange24h:    3,
			VolumeChange24h: 25,
		}
		sentiment := &marketdata.SentimentIndex{Value: 20, Classification: "Extreme Fear"}

		signals := TradingSignals(snap, pivots, sentiment)
		assert.Equal(t, []SignalKind{
			SignalStrongBuy,
			SignalNearSupport,
			SignalNearResistance,
			SignalVolumeSpike,
			SignalExtremeFear,
		}, kinds(signals))
	})

	t.Run("Above pivot without momentum is plain buy", func(t *testing.T) {
		snap := &marketdata.Snapshot{Price: 100, PctChange24h: 1.5}
		signals := TradingSignals(snap, pivots, nil)
		assert.Equal(t, SignalBuy, signals[0].Kind)
	})

	t.Run("Below pivot with bearish momentum is strong sell", func(t *testing.T) {
		snap := &marketdata.Snapshot{Price: 90, PctChange24h: -4}
		signals := TradingSignals(snap, testPivotsBelow, nil)
		assert.Equal(t, SignalStrongSell, signals[0].Kind)
	})

	t.Run("At pivot counts as below", func(t *testing.T) {
		p := PivotLevels{Pivot: 100, R1: 110, R2: 115, R3: 120, S1: 80, S2: 75, S3: 70}
		snap := &marketdata.Snapshot{Price: 100, PctChange24h: 0}
		signals := TradingSignals(snap, p, nil)
		assert.Equal(t, SignalSell, signals[0].Kind)
	})

	t.Run("Low volume signal", func(t *testing.T) {
		p := PivotLevels{Pivot: 90, R1: 150, R2: 160, R3: 170, S1: 50, S2: 40, S3: 30}
		snap := &marketdata.Snapshot{Price: 100, PctChange24h: 0, VolumeChange24h: -30}
		signals := TradingSignals(snap, p, nil)
		assert.Equal(t, []SignalKind{SignalBuy, SignalLowVolume}, kinds(signals))
	})

	t.Run("Extreme greed", func(t *testing.T) {
		p := PivotLevels{Pivot: 90, R1: 150, R2: 160, R3: 170, S1: 50, S2: 40, S3: 30}
		snap := &marketdata.Snapshot{Price: 100, PctChange24h: 0}
		sentiment := &marketdata.SentimentIndex{Value: 80, Classification: "Extreme Greed"}
		signals := TradingSignals(snap, p, sentiment)
		assert.Equal(t, []SignalKind{SignalBuy, SignalExtremeGreed}, kinds(signals))
	})

	t.Run("Neutral sentiment adds nothing", func(t *testing.T) {
		p := PivotLevels{Pivot: 90, R1: 150, R2: 160, R3: 170, S1: 50, S2: 40, S3: 30}
		snap := &marketdata.Snapshot{Price: 100, PctChange24h: 0}
		sentiment := &marketdata.SentimentIndex{Value: 50, Classification: "Neutral"}
		signals := TradingSignals(snap, p, sentiment)
		assert.Len(t, signals, 1)
	})
}

// testPivotsBelow places price 90 below the pivot with distant levels so
// only rule 1 fires.
var testPivotsBelow = PivotLevels{Pivot: 95, R1: 120, R2: 130, R3: 140, S1: 60, S2: 50, S3: 40}

func TestSuggestSetups(t *testing.T) {
	pivots := PivotLevels{Pivot: 100, R1: 105, R2: 110, R3: 115, S1: 95, S2: 90, S3: 85}

	long, short := SuggestSetups(pivots, 100)
	assert.Equal(t, 95.0, long.Entry)
	assert.InDelta(t, 95.0*0.98, long.StopLoss, 1e-9)
	assert.Equal(t, 105.0, short.Entry)
	assert.InDelta(t, 105.0*1.02, short.StopLoss, 1e-9)

	t.Run("Falls back to S1 and R1 at the extremes", func(t *testing.T) {
		long, _ := SuggestSetups(pivots, 80) // below all supports
		assert.Equal(t, pivots.S1, long.Entry)

		_, short := SuggestSetups(pivots, 120) // above all resistances
		assert.Equal(t, pivots.R1, short.Entry)
	})
}

func TestComputeBundle(t *testing.T) {
	snap := &marketdata.Snapshot{
		ID:              1,
		Name:            "Bitcoin",
		Symbol:          "BTC",
		Price:           50000,
		PctChange24h:    3,
		Volume24h:       30_000_000_000,
		VolumeChange24h: 10,
		MarketCap:       1_000_000_000_000,
	}

	bundle, err := Compute(snap, nil)
	assert.NoError(t, err)
	assert.Equal(t, TrendBullish, bundle.Trend)
	assert.InDelta(t, 50000*1.025, bundle.EstimatedHigh, 1e-6)
	assert.InDelta(t, 50000*0.975, bundle.EstimatedLow, 1e-6)
	assert.Equal(t, 56.0, bundle.RSI)
	assert.Equal(t, ZoneNeutral, bundle.RSIZone)
	assert.Equal(t, VolatilityMedium, bundle.Volatility)
	assert.InDelta(t, 3.0, bundle.VolumeToMCap, 1e-9)
	assert.NotEmpty(t, bundle.Signals)

	t.Run("Deterministic", func(t *testing.T) {
		again, err := Compute(snap, nil)
		assert.NoError(t, err)
		assert.Equal(t, bundle, again)
	})

	t.Run("No partial bundle on invalid input", func(t *testing.T) {
		bad := &marketdata.Snapshot{Price: 100, PctChange24h: -100}
		bundle, err := Compute(bad, nil)
		assert.Error(t, err)
		assert.Nil(t, bundle)
	})
}
