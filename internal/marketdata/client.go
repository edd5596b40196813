package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"crypto-dashboard-go/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const apiKeyHeader = "X-CMC_PRO_API_KEY"

// assetListingLimit caps the asset universe fetched for client-side search.
const assetListingLimit = 100

// Provider defines the interface for the market snapshot provider.
type Provider interface {
	GetSnapshot(ctx context.Context, assetID int) (*Snapshot, error)
	GetGlobalMetrics(ctx context.Context) (*GlobalMetrics, error)
	GetSentimentIndex(ctx context.Context) (*SentimentIndex, error)
	SearchAssets(ctx context.Context, query string, limit int) ([]AssetRef, error)
	PopularAssets() []AssetRef
	InvalidateCache()
}

// Client fetches quotes, global metrics and the sentiment index over HTTP.
// Results are memoized with a distinct staleness window per call kind, so a
// cache hit makes no network call at all. It implements Provider.
type Client struct {
	api       *resty.Client
	sentiment *resty.Client
	cfg       *config.Market
	logger    *zap.Logger
	limiter   *rate.Limiter
	memo      *memoCache
}

// ensure Client implements the interface
var _ Provider = (*Client)(nil)

// NewClient creates a new market data client.
func NewClient(cfg *config.Market, logger *zap.Logger) *Client {
	api := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader(apiKeyHeader, cfg.ApiKey)

	return &Client{
		api:       api,
		sentiment: resty.New().SetBaseURL(cfg.SentimentURL),
		cfg:       cfg,
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		memo:      newMemoCache(),
	}
}

// InvalidateCache drops every memoized result. The dashboard's manual
// refresh button maps to this.
func (c *Client) InvalidateCache() {
	c.memo.clear()
}

// doRequest executes a single request with rate limiting. There is no
// retry: a failure surfaces once per call and the memo simply lets a later
// call try again.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Err: err}
	}

	c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", url))
	resp, err := req.SetContext(ctx).Execute(method, url)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: strings.TrimSpace(resp.String())}
	}
	return resp, nil
}

// apiStatus is the status envelope the quote API wraps every response in.
type apiStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// quotedAsset is the per-asset payload of the quotes endpoint. Mandatory
// fields are pointers so a missing field is distinguishable from zero.
type quotedAsset struct {
	ID                int                    `json:"id"`
	Name              string                 `json:"name"`
	Symbol            string                 `json:"symbol"`
	CirculatingSupply *float64               `json:"circulating_supply"`
	TotalSupply       *float64               `json:"total_supply"`
	MaxSupply         *float64               `json:"max_supply"`
	Rank              int                    `json:"cmc_rank"`
	Quote             map[string]quoteFields `json:"quote"`
}

type quoteFields struct {
	Price                 *float64 `json:"price"`
	Volume24h             *float64 `json:"volume_24h"`
	VolumeChange24h       float64  `json:"volume_change_24h"`
	PctChange1h           float64  `json:"percent_change_1h"`
	PctChange24h          float64  `json:"percent_change_24h"`
	PctChange7d           float64  `json:"percent_change_7d"`
	PctChange30d          float64  `json:"percent_change_30d"`
	MarketCap             *float64 `json:"market_cap"`
	MarketCapDominance    float64  `json:"market_cap_dominance"`
	FullyDilutedMarketCap float64  `json:"fully_diluted_market_cap"`
	LastUpdated           string   `json:"last_updated"`
}

type quoteResponse struct {
	Status apiStatus              `json:"status"`
	Data   map[string]quotedAsset `json:"data"`
}

// GetSnapshot fetches a point-in-time quote for one asset. The result is
// memoized per asset id for the configured quote staleness window.
func (c *Client) GetSnapshot(ctx context.Context, assetID int) (*Snapshot, error) {
	key := fmt.Sprintf("quote:%d:%s", assetID, c.cfg.Convert)
	if v, ok := c.memo.get(key); ok {
		return v.(*Snapshot), nil
	}

	req := c.api.R().
		SetQueryParam("id", strconv.Itoa(assetID)).
		SetQueryParam("convert", c.cfg.Convert).
		SetResult(&quoteResponse{})

	resp, err := c.doRequest(ctx, "GET", "/cryptocurrency/quotes/latest", req)
	if err != nil {
		c.logger.Error("Failed to get quote", zap.Int("asset_id", assetID), zap.Error(err))
		return nil, fmt.Errorf("failed to get quote for asset %d: %w", assetID, err)
	}

	result := resp.Result().(*quoteResponse)
	if result.Status.ErrorCode != 0 {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: result.Status.ErrorMessage}
	}

	asset, ok := result.Data[strconv.Itoa(assetID)]
	if !ok {
		return nil, &NotFoundError{AssetID: assetID}
	}
	snap, err := buildSnapshot(asset, c.cfg.Convert)
	if err != nil {
		return nil, err
	}

	c.memo.put(key, snap, c.cfg.QuoteTTL)
	return snap, nil
}

// buildSnapshot normalizes one quoted asset, rejecting records that miss a
// mandatory field instead of synthesizing zeroed defaults for them.
func buildSnapshot(asset quotedAsset, convert string) (*Snapshot, error) {
	quote, ok := asset.Quote[convert]
	if !ok {
		return nil, &ParseError{Field: "quote." + convert}
	}
	switch {
	case quote.Price == nil || *quote.Price <= 0:
		return nil, &ParseError{Field: "price"}
	case quote.Volume24h == nil:
		return nil, &ParseError{Field: "volume_24h"}
	case quote.MarketCap == nil:
		return nil, &ParseError{Field: "market_cap"}
	case quote.LastUpdated == "":
		return nil, &ParseError{Field: "last_updated"}
	}

	updated, err := time.Parse(time.RFC3339, quote.LastUpdated)
	if err != nil {
		return nil, &ParseError{Field: "last_updated"}
	}

	return &Snapshot{
		ID:                    asset.ID,
		Name:                  asset.Name,
		Symbol:                asset.Symbol,
		Price:                 *quote.Price,
		PctChange1h:           quote.PctChange1h,
		PctChange24h:          quote.PctChange24h,
		PctChange7d:           quote.PctChange7d,
		PctChange30d:          quote.PctChange30d,
		Volume24h:             *quote.Volume24h,
		VolumeChange24h:       quote.VolumeChange24h,
		MarketCap:             *quote.MarketCap,
		MarketCapDominance:    quote.MarketCapDominance,
		FullyDilutedMarketCap: quote.FullyDilutedMarketCap,
		CirculatingSupply:     asset.CirculatingSupply,
		TotalSupply:           asset.TotalSupply,
		MaxSupply:             asset.MaxSupply,
		Rank:                  asset.Rank,
		LastUpdated:           updated,
	}, nil
}

type globalQuote struct {
	TotalMarketCap      *float64 `json:"total_market_cap"`
	TotalVolume24h      *float64 `json:"total_volume_24h"`
	BTCDominance        *float64 `json:"btc_dominance"`
	ETHDominance        *float64 `json:"eth_dominance"`
	DefiDominance       float64  `json:"defi_dominance"`
	StablecoinDominance float64  `json:"stablecoin_dominance"`
}

type globalResponse struct {
	Status apiStatus `json:"status"`
	Data   struct {
		Quote map[string]globalQuote `json:"quote"`
	} `json:"data"`
}

// GetGlobalMetrics fetches aggregate market state, memoized for the
// configured global staleness window.
func (c *Client) GetGlobalMetrics(ctx context.Context) (*GlobalMetrics, error) {
	if v, ok := c.memo.get("global"); ok {
		return v.(*GlobalMetrics), nil
	}

	req := c.api.R().
		SetQueryParam("convert", c.cfg.Convert).
		SetResult(&globalResponse{})

	resp, err := c.doRequest(ctx, "GET", "/global-metrics/quotes/latest", req)
	if err != nil {
		c.logger.Error("Failed to get global metrics", zap.Error(err))
		return nil, fmt.Errorf("failed to get global metrics: %w", err)
	}

	result := resp.Result().(*globalResponse)
	if result.Status.ErrorCode != 0 {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: result.Status.ErrorMessage}
	}

	quote, ok := result.Data.Quote[c.cfg.Convert]
	if !ok {
		return nil, &ParseError{Field: "data.quote." + c.cfg.Convert}
	}
	switch {
	case quote.TotalMarketCap == nil:
		return nil, &ParseError{Field: "total_market_cap"}
	case quote.TotalVolume24h == nil:
		return nil, &ParseError{Field: "total_volume_24h"}
	case quote.BTCDominance == nil:
		return nil, &ParseError{Field: "btc_dominance"}
	case quote.ETHDominance == nil:
		return nil, &ParseError{Field: "eth_dominance"}
	}

	metrics := &GlobalMetrics{
		TotalMarketCap:      *quote.TotalMarketCap,
		TotalVolume24h:      *quote.TotalVolume24h,
		BTCDominance:        *quote.BTCDominance,
		ETHDominance:        *quote.ETHDominance,
		DefiDominance:       quote.DefiDominance,
		StablecoinDominance: quote.StablecoinDominance,
	}

	c.memo.put("global", metrics, c.cfg.GlobalTTL)
	return metrics, nil
}

// sentimentResponse mirrors the alternative.me payload, which encodes both
// the value and the unix timestamp as strings.
type sentimentResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
		Timestamp      string `json:"timestamp"`
	} `json:"data"`
}

// GetSentimentIndex fetches the fear & greed index. Sentiment moves slowly,
// so it carries a longer staleness window than quotes.
func (c *Client) GetSentimentIndex(ctx context.Context) (*SentimentIndex, error) {
	if v, ok := c.memo.get("sentiment"); ok {
		return v.(*SentimentIndex), nil
	}

	req := c.sentiment.R().SetResult(&sentimentResponse{})

	resp, err := c.doRequest(ctx, "GET", "/", req)
	if err != nil {
		c.logger.Error("Failed to get sentiment index", zap.Error(err))
		return nil, fmt.Errorf("failed to get sentiment index: %w", err)
	}

	result := resp.Result().(*sentimentResponse)
	if len(result.Data) == 0 {
		return nil, &ParseError{Field: "data"}
	}

	value, err := strconv.Atoi(result.Data[0].Value)
	if err != nil {
		return nil, &ParseError{Field: "value"}
	}
	unix, err := strconv.ParseInt(result.Data[0].Timestamp, 10, 64)
	if err != nil {
		return nil, &ParseError{Field: "timestamp"}
	}

	index := &SentimentIndex{
		Value:          value,
		Classification: result.Data[0].Classification,
		Timestamp:      time.Unix(unix, 0).UTC(),
	}

	c.memo.put("sentiment", index, c.cfg.SentimentTTL)
	return index, nil
}

type listingResponse struct {
	Status apiStatus  `json:"status"`
	Data   []AssetRef `json:"data"`
}

// SearchAssets filters the active asset listing by a case-insensitive
// substring match on name or symbol, capped to limit results. Passing
// limit <= 0 uses the configured default. Results are memoized per query.
func (c *Client) SearchAssets(ctx context.Context, query string, limit int) ([]AssetRef, error) {
	if limit <= 0 {
		limit = c.cfg.SearchLimit
	}
	needle := strings.ToLower(query)
	key := fmt.Sprintf("search:%s:%d", needle, limit)
	if v, ok := c.memo.get(key); ok {
		return copyAssetRefs(v.([]AssetRef)), nil
	}

	req := c.api.R().
		SetQueryParam("listing_status", "active").
		SetQueryParam("limit", strconv.Itoa(assetListingLimit)).
		SetResult(&listingResponse{})

	resp, err := c.doRequest(ctx, "GET", "/cryptocurrency/map", req)
	if err != nil {
		c.logger.Error("Failed to get asset listing", zap.Error(err))
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}

	result := resp.Result().(*listingResponse)
	if result.Status.ErrorCode != 0 {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: result.Status.ErrorMessage}
	}

	matches := make([]AssetRef, 0, limit)
	for _, asset := range result.Data {
		if strings.Contains(strings.ToLower(asset.Name), needle) ||
			strings.Contains(strings.ToLower(asset.Symbol), needle) {
			matches = append(matches, asset)
			if len(matches) == limit {
				break
			}
		}
	}

	c.memo.put(key, matches, c.cfg.SearchTTL)
	return copyAssetRefs(matches), nil
}

// copyAssetRefs shields the memoized slice from caller mutation.
func copyAssetRefs(refs []AssetRef) []AssetRef {
	out := make([]AssetRef, len(refs))
	copy(out, refs)
	return out
}

// popularAssets is the curated picker shown before the user searches.
var popularAssets = []AssetRef{
	{ID: 1, Name: "Bitcoin", Symbol: "BTC"},
	{ID: 1027, Name: "Ethereum", Symbol: "ETH"},
	{ID: 825, Name: "Tether", Symbol: "USDT"},
	{ID: 1839, Name: "BNB", Symbol: "BNB"},
	{ID: 5426, Name: "Solana", Symbol: "SOL"},
	{ID: 52, Name: "XRP", Symbol: "XRP"},
	{ID: 3408, Name: "USD Coin", Symbol: "USDC"},
	{ID: 74, Name: "Dogecoin", Symbol: "DOGE"},
	{ID: 2010, Name: "Cardano", Symbol: "ADA"},
	{ID: 5805, Name: "Avalanche", Symbol: "AVAX"},
	{ID: 1958, Name: "TRON", Symbol: "TRX"},
	{ID: 11840, Name: "Polygon", Symbol: "MATIC"},
	{ID: 4943, Name: "Dai", Symbol: "DAI"},
	{ID: 7083, Name: "Uniswap", Symbol: "UNI"},
	{ID: 14806, Name: "MANTRA", Symbol: "OM"},
}

// PopularAssets returns the curated list of commonly watched assets.
func (c *Client) PopularAssets() []AssetRef {
	out := make([]AssetRef, len(popularAssets))
	copy(out, popularAssets)
	return out
}
