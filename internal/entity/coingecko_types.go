package entity

// SimplePriceResponse is the body of CoinGecko's /simple/price endpoint:
// a mapping from coin id to per-currency quotes.
type SimplePriceResponse map[string]PriceQuote

// PriceQuote holds the quoted price in the requested vs-currency.
type PriceQuote struct {
	USD float64 `json:"usd"`
}
