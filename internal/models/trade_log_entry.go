package models

import (
	"time"

	"gorm.io/gorm"
)

// Trade direction for a logged position.
const (
	SideLong  = "Long"
	SideShort = "Short"
)

// StatusPlanned is the initial lifecycle status of a logged trade.
// The UI may introduce further values (e.g. "Closed"); the store treats
// status as an opaque tag.
const StatusPlanned = "Planned"

// TradeLogEntry represents one manually logged trade plan.
// Derived fields (GainPct, NetPnL, Balance) are computed once on creation
// and never auto-mutated afterwards.
type TradeLogEntry struct {
	gorm.Model
	Date       time.Time `json:"date"`
	Coin       string    `json:"coin"`
	Side       string    `json:"side"`
	EntryPrice float64   `json:"entry_price"`
	TakeProfit float64   `json:"take_profit"`
	StopLoss   float64   `json:"stop_loss"`
	Capital    float64   `json:"capital"`
	GainPct    float64   `json:"gain_pct"`
	NetPnL     float64   `json:"net_pnl"`
	Balance    float64   `json:"balance"`
	Status     string    `json:"status"`
}
