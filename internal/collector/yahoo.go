package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"SMCSentinel/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooFetcher implements Fetcher using Yahoo Finance public chart API.
type YahooFetcher struct {
	Client    *http.Client
	ChartURL  string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		Client:   newHTTPClient(proxyURL),
		ChartURL: yahooChartURL,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"NDX":    "^NDX",
			"DJI":    "^DJI",
		},
	}
}

// newHTTPClient builds the client shared by the HTTP fetchers, routed through
// proxyURL when one parses.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: 30 * time.Second, Transport: transport}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// at returns vs[i], or NaN when the slot is null or missing.
func at(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return math.NaN()
	}
	return *vs[i]
}

// yahooRanges are the chart ranges Yahoo accepts, shortest first.
var yahooRanges = []struct {
	name string
	span time.Duration
}{
	{"5d", 5 * 24 * time.Hour},
	{"1mo", 31 * 24 * time.Hour},
	{"3mo", 92 * 24 * time.Hour},
	{"6mo", 183 * 24 * time.Hour},
	{"1y", 366 * 24 * time.Hour},
	{"2y", 731 * 24 * time.Hour},
	{"5y", 1827 * 24 * time.Hour},
	{"10y", 3653 * 24 * time.Hour},
}

// yahooRange picks the shortest range that should hold limit bars. Sessions
// close overnight and at weekends, so the calendar span is padded.
func yahooRange(step time.Duration, limit int) string {
	if limit <= 0 {
		return "max"
	}
	pad := 1.5
	if step < 24*time.Hour {
		pad = 4
	}
	want := time.Duration(float64(step) * float64(limit) * pad)
	for _, r := range yahooRanges {
		if want <= r.span {
			return r.name
		}
	}
	return "max"
}

func (f *YahooFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	step, err := intervalDuration(interval)
	if err != nil {
		return nil, err
	}
	if interval == "4h" {
		return nil, fmt.Errorf("yahoo: interval %q is not offered", interval)
	}

	u := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		f.ChartURL, url.PathEscape(f.yahooSymbol(symbol)), interval, yahooRange(step, limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		b := model.OHLCV{
			Time:  time.Unix(ts, 0).UTC(),
			Open:  at(quote.Open, i),
			High:  at(quote.High, i),
			Low:   at(quote.Low, i),
			Close: at(quote.Close, i),
		}
		if math.IsNaN(b.Open) || math.IsNaN(b.High) || math.IsNaN(b.Low) || math.IsNaN(b.Close) {
			continue // null rows: holidays and the still-forming bar
		}
		if v := at(quote.Volume, i); !math.IsNaN(v) {
			b.Volume = v
		}
		bars = append(bars, b)
	}

	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}
