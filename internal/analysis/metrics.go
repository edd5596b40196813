// Package analysis derives trading heuristics from a single market
// snapshot. Everything here is a pure function of its inputs: no I/O, no
// hidden state, same inputs always produce the same outputs.
package analysis

import (
	"fmt"
	"math"
)

// ValidationError indicates an input that would produce a meaningless or
// undefined result (e.g. a division by zero).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Msg
}

// Trend classifies the 24h momentum of an asset.
type Trend string

const (
	TrendStrongBullish Trend = "Strong Bullish"
	TrendBullish       Trend = "Bullish"
	TrendSideways      Trend = "Sideways"
	TrendBearish       Trend = "Bearish"
	TrendStrongBearish Trend = "Strong Bearish"
)

// ClassifyTrend buckets the 24h percent change. Comparisons are strictly
// greater-than, so a value exactly at a threshold falls into the lower
// bucket: 5.0 is Bullish, not Strong Bullish.
func ClassifyTrend(pctChange24h float64) Trend {
	switch {
	case pctChange24h > 5:
		return TrendStrongBullish
	case pctChange24h > 1:
		return TrendBullish
	case pctChange24h > -1:
		return TrendSideways
	case pctChange24h > -5:
		return TrendBearish
	default:
		return TrendStrongBearish
	}
}

// EstimateHLC estimates a prior-period high/low/close triple from the
// current price and 24h percent change. This is a heuristic proxy for real
// exchange OHLC data: the range multiplier widens with volatility and the
// close is the price backed out of the 24h move.
func EstimateHLC(price, pctChange24h float64) (high, low, close float64, err error) {
	if price <= 0 {
		return 0, 0, 0, &ValidationError{Msg: fmt.Sprintf("price must be positive, got %g", price)}
	}
	if pctChange24h == -100 {
		return 0, 0, 0, &ValidationError{Msg: "24h change of -100% makes the close estimate divide by zero"}
	}

	volatility := math.Abs(pctChange24h) / 100
	multiplier := 0.04
	if volatility < 0.02 {
		multiplier = 0.015
	} else if volatility < 0.05 {
		multiplier = 0.025
	}

	high = price * (1 + multiplier)
	low = price * (1 - multiplier)
	close = price / (1 + pctChange24h/100)
	return high, low, close, nil
}

// PivotLevels holds the classic floor-trader pivot with three resistance
// levels above and three support levels below.
type PivotLevels struct {
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	R2    float64 `json:"r2"`
	R3    float64 `json:"r3"`
	S1    float64 `json:"s1"`
	S2    float64 `json:"s2"`
	S3    float64 `json:"s3"`
}

// ComputePivotLevels applies the standard pivot point formulas. For any
// high >= low the resistances come out ascending and the supports
// descending; no tie-breaking is needed.
func ComputePivotLevels(high, low, close float64) PivotLevels {
	pivot := (high + low + close) / 3
	return PivotLevels{
		Pivot: pivot,
		R1:    2*pivot - low,
		R2:    pivot + (high - low),
		R3:    high + 2*(pivot-low),
		S1:    2*pivot - high,
		S2:    pivot - (high - low),
		S3:    low - 2*(high-pivot),
	}
}

// RSIApprox maps the 24h percent change onto a 0..100 scale centered at 50.
// It is a heuristic stand-in for a true multi-period RSI, which would need
// historical closes this tool does not ingest.
func RSIApprox(pctChange24h float64) float64 {
	rsi := 50 + 2*pctChange24h
	if rsi < 0 {
		return 0
	}
	if rsi > 100 {
		return 100
	}
	return rsi
}

// RSIZone labels an RSI reading.
type RSIZone string

const (
	ZoneOverbought RSIZone = "Overbought"
	ZoneOversold   RSIZone = "Oversold"
	ZoneNeutral    RSIZone = "Neutral"
)

// ClassifyRSIZone labels a reading above 70 overbought and below 30 oversold.
func ClassifyRSIZone(rsi float64) RSIZone {
	switch {
	case rsi > 70:
		return ZoneOverbought
	case rsi < 30:
		return ZoneOversold
	default:
		return ZoneNeutral
	}
}

// Volatility classifies the magnitude of the 24h move.
type Volatility string

const (
	VolatilityLow     Volatility = "Low"
	VolatilityMedium  Volatility = "Medium"
	VolatilityHigh    Volatility = "High"
	VolatilityExtreme Volatility = "Extreme"
)

// ClassifyVolatility buckets |pctChange24h| at 2, 5 and 10. Each band owns
// its lower bound: exactly 2.0 is Medium.
func ClassifyVolatility(pctChange24h float64) Volatility {
	v := math.Abs(pctChange24h)
	switch {
	case v >= 10:
		return VolatilityExtreme
	case v >= 5:
		return VolatilityHigh
	case v >= 2:
		return VolatilityMedium
	default:
		return VolatilityLow
	}
}

// NearestSupport returns the highest support level strictly below price.
func NearestSupport(p PivotLevels, price float64) (float64, bool) {
	best := math.Inf(-1)
	found := false
	for _, s := range []float64{p.S1, p.S2, p.S3} {
		if s < price && s > best {
			best = s
			found = true
		}
	}
	return best, found
}

// NearestResistance returns the lowest resistance level strictly above price.
func NearestResistance(p PivotLevels, price float64) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, r := range []float64{p.R1, p.R2, p.R3} {
		if r > price && r < best {
			best = r
			found = true
		}
	}
	return best, found
}
