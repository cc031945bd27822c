package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/finsight/equity-advisor/internal/domain"
	"github.com/rs/zerolog"
)

// Client fetches quote and history data from Yahoo Finance and normalizes
// it into FinancialSnapshots. It lives strictly outside the analysis core:
// the engine only ever sees the snapshot this client produces.
type Client struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://query1.finance.yahoo.com",
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// yahooQuoteResponse represents the response from the quote API.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// yahooChartResponse represents the response from the chart API.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// GetSnapshot fetches quote data and two years of daily history for a
// symbol and assembles a normalized FinancialSnapshot. Fields the
// provider does not report are left nil; the engine tolerates that.
func (c *Client) GetSnapshot(symbol string) (*domain.FinancialSnapshot, error) {
	info, err := c.getQuoteInfo(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote info: %w", err)
	}

	price := getFloat64OrZero(info, "currentPrice")
	if price == 0 {
		price = getFloat64OrZero(info, "regularMarketPrice")
	}
	if price <= 0 {
		return nil, fmt.Errorf("no valid price for symbol %s", symbol)
	}

	snap := &domain.FinancialSnapshot{
		Symbol:            symbol,
		CurrentPrice:      price,
		EarningsPerShare:  getFloat64(info, "epsTrailingTwelveMonths"),
		BookValuePerShare: getFloat64(info, "bookValue"),
		DividendPerShare:  getFloat64(info, "trailingAnnualDividendRate"),
		TrailingPE:        getFloat64(info, "trailingPE"),
		PriceToBook:       getFloat64(info, "priceToBook"),
		DebtToEquity:      getFloat64(info, "debtToEquity"),
		ReturnOnEquity:    getFloat64(info, "returnOnEquity"),
		ReturnOnAssets:    getFloat64(info, "returnOnAssets"),
		ProfitMargin:      getFloat64(info, "profitMargins"),
		RevenueGrowth:     getFloat64(info, "revenueGrowth"),
		EarningsGrowth:    getFloat64(info, "earningsGrowth"),
		Beta:              getFloat64(info, "beta"),
		SharesOutstanding: getInt64(info, "sharesOutstanding"),
		Sector:            getString(info, "sector", ""),
	}

	history, err := c.GetPriceHistory(symbol, "2y")
	if err != nil {
		// History is optional: valuation still works without it, the
		// technical and risk metrics just come back sparse.
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to fetch price history")
	} else {
		snap.PriceHistory = history
	}

	return snap, nil
}

// GetPriceHistory fetches daily OHLCV history for the given range
// (e.g. "1y", "2y"), oldest first.
func (c *Client) GetPriceHistory(symbol, dataRange string) ([]domain.PricePoint, error) {
	params := url.Values{}
	params.Add("range", dataRange)
	params.Add("interval", "1d")

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	body, err := c.get(reqURL)
	if err != nil {
		return nil, err
	}

	var result yahooChartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %v", result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data returned for symbol %s", symbol)
	}

	chart := result.Chart.Result[0]
	quote := chart.Indicators.Quote[0]

	points := make([]domain.PricePoint, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		point := domain.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.High) && quote.High[i] != nil {
			point.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			point.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			point.Volume = *quote.Volume[i]
		}

		points = append(points, point)
	}

	return points, nil
}

// getQuoteInfo fetches quote information from the Yahoo Finance quote API.
func (c *Client) getQuoteInfo(symbol string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,regularMarketPrice,currentPrice,sector,"+
		"epsTrailingTwelveMonths,bookValue,trailingAnnualDividendRate,"+
		"trailingPE,priceToBook,debtToEquity,returnOnEquity,returnOnAssets,"+
		"profitMargins,revenueGrowth,earningsGrowth,beta,sharesOutstanding")

	reqURL := c.baseURL + "/v7/finance/quote?" + params.Encode()

	body, err := c.get(reqURL)
	if err != nil {
		return nil, err
	}

	var result yahooQuoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote API error: %v", result.QuoteResponse.Error)
	}

	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

// get performs a GET request with browser-like headers.
func (c *Client) get(reqURL string) ([]byte, error) {
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// Helper functions to safely extract values from map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getFloat64OrZero(m map[string]interface{}, key string) float64 {
	if val := getFloat64(m, key); val != nil {
		return *val
	}
	return 0
}

func getInt64(m map[string]interface{}, key string) *int64 {
	if val := getFloat64(m, key); val != nil {
		i := int64(*val)
		return &i
	}
	return nil
}

func getString(m map[string]interface{}, key, defaultValue string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok && s != "" {
			return s
		}
	}
	return defaultValue
}
