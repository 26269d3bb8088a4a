package stooq

import (
	"context"
	"encoding/csv"
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

const defaultBaseURL = "https://stooq.com/q/d/l"

// Client fetches daily historical bars from Stooq as CSV. No API key is
// required. US equity symbols are lowercase with a ".us" suffix.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (c *Client) SymbolForProvider(ticker string) string {
	return strings.ToLower(strings.TrimSpace(ticker)) + ".us"
}

func (c *Client) GetDailyBars(ctx context.Context, symbol string, start, end models.Date) ([]models.PriceBar, error) {
	reqURL := fmt.Sprintf("%s/?s=%s&i=d", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq returned status %d", resp.StatusCode)
	}

	return parseCSV(resp.Body, start, end)
}

// parseCSV reads Stooq's daily history CSV. Headers are matched
// case-insensitively; when no Adj Close column exists the close price is
// reused. Malformed rows are skipped. Output is sorted ascending by date
// and deduplicated (last row wins).
func parseCSV(r io.Reader, start, end models.Date) ([]models.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateIdx, ok := cols["date"]
	if !ok {
		return nil, fmt.Errorf("csv missing date column")
	}
	adjIdx, hasAdj := adjCloseColumn(cols)

	byDate := make(map[string]models.PriceBar)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// skip malformed rows
			continue
		}
		if dateIdx >= len(row) {
			continue
		}
		d, err := models.ParseDate(strings.TrimSpace(row[dateIdx]))
		if err != nil {
			continue
		}
		if d.Before(start.Time) || d.After(end.Time) {
			continue
		}

		bar := models.PriceBar{
			Date:   d,
			Open:   floatField(row, cols, "open"),
			High:   floatField(row, cols, "high"),
			Low:    floatField(row, cols, "low"),
			Close:  floatField(row, cols, "close"),
			Volume: intField(row, cols, "volume"),
		}
		if hasAdj {
			bar.AdjClose = floatAt(row, adjIdx)
		} else {
			bar.AdjClose = bar.Close
		}
		byDate[d.String()] = bar
	}

	bars := make([]models.PriceBar, 0, len(byDate))
	for _, bar := range byDate {
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date.Time)
	})
	return bars, nil
}

func adjCloseColumn(cols map[string]int) (int, bool) {
	for _, name := range []string{"adj close", "adj_close", "adjclose"} {
		if i, ok := cols[name]; ok {
			return i, true
		}
	}
	return 0, false
}

func floatField(row []string, cols map[string]int, name string) *float64 {
	i, ok := cols[name]
	if !ok {
		return nil
	}
	return floatAt(row, i)
}

func floatAt(row []string, i int) *float64 {
	if i >= len(row) {
		return nil
	}
	s := strings.TrimSpace(row[i])
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intField(row []string, cols map[string]int, name string) *int64 {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return nil
	}
	s := strings.ReplaceAll(strings.TrimSpace(row[i]), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// some feeds report fractional volume
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		v = int64(f)
	}
	return &v
}
