package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stockgrowth-api/internal/models"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// Client fetches daily adjusted history from Alpha Vantage as JSON.
// Requires an API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (c *Client) SymbolForProvider(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

type dailyResponse struct {
	Note         string                       `json:"Note"`
	ErrorMessage string                       `json:"Error Message"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

func (c *Client) GetDailyBars(ctx context.Context, symbol string, start, end models.Date) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	params.Set("symbol", symbol)
	params.Set("outputsize", "full")
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var daily dailyResponse
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, err
	}

	if daily.TimeSeries == nil {
		msg := daily.Note
		if msg == "" {
			msg = daily.ErrorMessage
		}
		if msg == "" {
			msg = "unknown"
		}
		return nil, fmt.Errorf("alpha vantage error or unexpected response: %s", msg)
	}

	bars := make([]models.PriceBar, 0, len(daily.TimeSeries))
	for dateStr, values := range daily.TimeSeries {
		d, err := models.ParseDate(dateStr)
		if err != nil {
			continue
		}
		if d.Before(start.Time) || d.After(end.Time) {
			continue
		}

		bar := models.PriceBar{
			Date:     d,
			Open:     parseFloat(values["1. open"]),
			High:     parseFloat(values["2. high"]),
			Low:      parseFloat(values["3. low"]),
			Close:    parseFloat(values["4. close"]),
			AdjClose: parseFloat(values["5. adjusted close"]),
			Volume:   parseInt(values["6. volume"]),
		}
		if bar.AdjClose == nil {
			bar.AdjClose = bar.Close
		}
		bars = append(bars, bar)
	}

	// the time series arrives as a map, so impose order here
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date.Time)
	})
	return bars, nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
