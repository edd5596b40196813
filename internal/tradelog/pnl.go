package tradelog

import (
	"fmt"
	"math"
	"time"

	"crypto-dashboard-go/internal/models"
)

// PnLResult is the outcome of a profit/loss computation.
type PnLResult struct {
	GainPct  float64 `json:"gain_pct"`
	GrossPnL float64 `json:"gross_pnl"`
	Fee      float64 `json:"fee"`
	NetPnL   float64 `json:"net_pnl"`
	Balance  float64 `json:"balance"`
}

// ComputePnL calculates the capital-scaled, fee-adjusted profit of moving
// from entryPrice to exitPrice. For a short, the gain is the entry-to-exit
// move negated. The fee is charged on the magnitude of the gross P&L, so it
// deepens a loss as well as trimming a win.
func ComputePnL(entryPrice, exitPrice, capital, feePercent float64, side string) (PnLResult, error) {
	if entryPrice <= 0 {
		return PnLResult{}, &ValidationError{Msg: fmt.Sprintf("entry price must be positive, got %g", entryPrice)}
	}
	if exitPrice < 0 {
		return PnLResult{}, &ValidationError{Msg: fmt.Sprintf("exit price must not be negative, got %g", exitPrice)}
	}
	if capital < 0 {
		return PnLResult{}, &ValidationError{Msg: fmt.Sprintf("capital must not be negative, got %g", capital)}
	}
	if feePercent < 0 {
		return PnLResult{}, &ValidationError{Msg: fmt.Sprintf("fee percent must not be negative, got %g", feePercent)}
	}
	if side != models.SideLong && side != models.SideShort {
		return PnLResult{}, &ValidationError{Msg: fmt.Sprintf("unknown trade side %q", side)}
	}

	gainPct := (exitPrice - entryPrice) / entryPrice * 100
	if side == models.SideShort {
		gainPct = -gainPct
	}

	gross := capital * gainPct / 100
	fee := math.Abs(gross) * feePercent / 100
	net := gross - fee

	return PnLResult{
		GainPct:  gainPct,
		GrossPnL: gross,
		Fee:      fee,
		NetPnL:   net,
		Balance:  capital + net,
	}, nil
}

// NewEntry builds a validated trade log entry with the derived fields
// computed against the take-profit exit: a planned trade records its target
// outcome, which is what the dashboard form shows before the trade runs.
func NewEntry(date time.Time, coin, side string, entryPrice, takeProfit, stopLoss, capital, feePercent float64) (*models.TradeLogEntry, error) {
	if coin == "" {
		return nil, &ValidationError{Msg: "coin label must not be empty"}
	}
	if stopLoss < 0 {
		return nil, &ValidationError{Msg: fmt.Sprintf("stop loss must not be negative, got %g", stopLoss)}
	}

	result, err := ComputePnL(entryPrice, takeProfit, capital, feePercent, side)
	if err != nil {
		return nil, err
	}

	return &models.TradeLogEntry{
		Date:       date,
		Coin:       coin,
		Side:       side,
		EntryPrice: entryPrice,
		TakeProfit: takeProfit,
		StopLoss:   stopLoss,
		Capital:    capital,
		GainPct:    result.GainPct,
		NetPnL:     result.NetPnL,
		Balance:    result.Balance,
		Status:     models.StatusPlanned,
	}, nil
}
