package marketdata

import "time"

// Snapshot is a point-in-time quote for one asset. It is immutable once
// constructed: a refresh produces a new Snapshot, never mutates an old one.
type Snapshot struct {
	ID                    int     `json:"id"`
	Name                  string  `json:"name"`
	Symbol                string  `json:"symbol"`
	Price                 float64 `json:"price"`
	PctChange1h           float64 `json:"pct_change_1h"`
	PctChange24h          float64 `json:"pct_change_24h"`
	PctChange7d           float64 `json:"pct_change_7d"`
	PctChange30d          float64 `json:"pct_change_30d"`
	Volume24h             float64 `json:"volume_24h"`
	VolumeChange24h       float64 `json:"volume_change_24h"`
	MarketCap             float64 `json:"market_cap"`
	MarketCapDominance    float64 `json:"market_cap_dominance"`
	FullyDilutedMarketCap float64 `json:"fully_diluted_market_cap"`
	// Supply figures are absent for assets that do not report them.
	CirculatingSupply *float64  `json:"circulating_supply,omitempty"`
	TotalSupply       *float64  `json:"total_supply,omitempty"`
	MaxSupply         *float64  `json:"max_supply,omitempty"`
	Rank              int       `json:"rank"` // 0 = unknown
	LastUpdated       time.Time `json:"last_updated"`
}

// GlobalMetrics is the aggregate market state.
type GlobalMetrics struct {
	TotalMarketCap      float64 `json:"total_market_cap"`
	TotalVolume24h      float64 `json:"total_volume_24h"`
	BTCDominance        float64 `json:"btc_dominance"`
	ETHDominance        float64 `json:"eth_dominance"`
	DefiDominance       float64 `json:"defi_dominance"`
	StablecoinDominance float64 `json:"stablecoin_dominance"`
}

// SentimentIndex is the fear & greed composite score.
type SentimentIndex struct {
	Value          int       `json:"value"` // 0..100
	Classification string    `json:"classification"`
	Timestamp      time.Time `json:"timestamp"`
}

// AssetRef identifies an asset in search results and curated lists.
type AssetRef struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Display renders the asset the way the dashboard picker shows it.
func (a AssetRef) Display() string {
	return a.Name + " (" + a.Symbol + ")"
}
