package tradelog

import "crypto-dashboard-go/internal/models"

// Stats summarizes a set of trade log entries.
type Stats struct {
	Count        int     `json:"count"`
	WinRate      float64 `json:"win_rate"` // percent of entries with positive net P&L
	TotalPnL     float64 `json:"total_pnl"`
	AvgGainPct   float64 `json:"avg_gain_pct"`
	BestGainPct  float64 `json:"best_gain_pct"`
	WorstGainPct float64 `json:"worst_gain_pct"`
}

// Aggregate computes summary statistics over the given entries. It is a
// pure function: the zero Stats comes back for an empty slice.
func Aggregate(entries []models.TradeLogEntry) Stats {
	if len(entries) == 0 {
		return Stats{}
	}

	stats := Stats{
		Count:        len(entries),
		BestGainPct:  entries[0].GainPct,
		WorstGainPct: entries[0].GainPct,
	}

	wins := 0
	totalGain := 0.0
	for _, e := range entries {
		if e.NetPnL > 0 {
			wins++
		}
		stats.TotalPnL += e.NetPnL
		totalGain += e.GainPct
		if e.GainPct > stats.BestGainPct {
			stats.BestGainPct = e.GainPct
		}
		if e.GainPct < stats.WorstGainPct {
			stats.WorstGainPct = e.GainPct
		}
	}

	stats.WinRate = float64(wins) / float64(len(entries)) * 100
	stats.AvgGainPct = totalGain / float64(len(entries))
	return stats
}
